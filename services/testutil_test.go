package services

import (
	"fmt"
	"testing"

	"conference-review-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the core schema
// migrated. Each test gets its own database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Conference{},
		&models.Paper{},
		&models.PaperAuthor{},
		&models.PCMember{},
		&models.Conflict{},
		&models.Bid{},
		&models.Assignment{},
		&models.Review{},
		&models.Decision{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return db
}

func createConference(t *testing.T, db *gorm.DB) models.Conference {
	t.Helper()
	conference := models.Conference{Name: "Test Conference", Acronym: "TC", IsActive: true}
	if err := db.Create(&conference).Error; err != nil {
		t.Fatalf("failed to create conference: %v", err)
	}
	return conference
}

func createPaper(t *testing.T, db *gorm.DB, conferenceID int) models.Paper {
	t.Helper()
	paper := models.Paper{ConferenceID: conferenceID, Title: "A Paper", Status: "under_review"}
	if err := db.Create(&paper).Error; err != nil {
		t.Fatalf("failed to create paper: %v", err)
	}
	return paper
}

func createUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{UserFname: "Test", UserLname: "User", Email: email, RoleID: models.RoleReviewer}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createMember(t *testing.T, db *gorm.DB, conferenceID int, role string, maxPapers int) models.PCMember {
	t.Helper()
	member := models.PCMember{
		ConferenceID: conferenceID,
		UserID:       createUser(t, db, uniqueEmail(t, db)).UserID,
		Role:         role,
		MaxPapers:    maxPapers,
		IsActive:     true,
	}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("failed to create pc member: %v", err)
	}
	return member
}

func uniqueEmail(t *testing.T, db *gorm.DB) string {
	t.Helper()
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	return fmt.Sprintf("user%d@example.org", count+1)
}

func createAssignment(t *testing.T, db *gorm.DB, paperID, memberID int) models.Assignment {
	t.Helper()
	svc := NewAssignmentService(db)
	assignment, err := svc.Assign(paperID, memberID, 1, models.AssignManual)
	if err != nil {
		t.Fatalf("failed to create assignment: %v", err)
	}
	return *assignment
}

func createCompletedReview(t *testing.T, db *gorm.DB, paperID, memberID, overall int, recommendation string) models.Review {
	t.Helper()
	review := models.Review{
		PaperID:        paperID,
		PCMemberID:     memberID,
		OverallScore:   &overall,
		Recommendation: &recommendation,
		IsSubmitted:    true,
	}
	if err := db.Create(&review).Error; err != nil {
		t.Fatalf("failed to create review: %v", err)
	}
	return review
}

func memberAssignedCount(t *testing.T, db *gorm.DB, memberID int) int {
	t.Helper()
	var member models.PCMember
	if err := db.First(&member, "pc_member_id = ?", memberID).Error; err != nil {
		t.Fatalf("failed to reload pc member: %v", err)
	}
	return member.AssignedCount
}
