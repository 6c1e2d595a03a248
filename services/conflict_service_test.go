package services

import (
	"errors"
	"testing"
	"time"

	"conference-review-api/models"
)

func TestDeclareRequiresTarget(t *testing.T) {
	db := newTestDB(t)
	conference := createConference(t, db)
	member := createMember(t, db, conference.ConferenceID, models.PCRoleReviewer, 10)

	svc := NewConflictService(db)
	_, err := svc.Declare(DeclareConflictInput{
		PCMemberID:   member.PCMemberID,
		ConflictType: models.ConflictCoAuthor,
	})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestDeclareUnknownMember(t *testing.T) {
	db := newTestDB(t)
	paperID := 1

	_, err := NewConflictService(db).Declare(DeclareConflictInput{
		PCMemberID:   999,
		PaperID:      &paperID,
		ConflictType: models.ConflictPersonal,
	})

	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestCheckDirectPaperConflict(t *testing.T) {
	db := newTestDB(t)
	conference := createConference(t, db)
	paper := createPaper(t, db, conference.ConferenceID)
	member := createMember(t, db, conference.ConferenceID, models.PCRoleReviewer, 10)

	svc := NewConflictService(db)
	_, err := svc.Declare(DeclareConflictInput{
		PCMemberID:   member.PCMemberID,
		PaperID:      &paper.PaperID,
		ConflictType: models.ConflictCoAuthor,
	})
	if err != nil {
		t.Fatalf("declare failed: %v", err)
	}

	has, err := svc.Check(member.PCMemberID, paper.PaperID, time.Now())
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !has {
		t.Fatal("expected conflict to be reported")
	}
}

func TestCheckAuthorConflict(t *testing.T) {
	db := newTestDB(t)
	conference := createConference(t, db)
	paper := createPaper(t, db, conference.ConferenceID)
	member := createMember(t, db, conference.ConferenceID, models.PCRoleReviewer, 10)

	author := createUser(t, db, "author@example.org")
	link := models.PaperAuthor{PaperID: paper.PaperID, UserID: author.UserID, AuthorOrder: 1}
	if err := db.Create(&link).Error; err != nil {
		t.Fatalf("failed to link author: %v", err)
	}

	svc := NewConflictService(db)
	_, err := svc.Declare(DeclareConflictInput{
		PCMemberID:   member.PCMemberID,
		AuthorUserID: &author.UserID,
		ConflictType: models.ConflictAdvisorAdvisee,
	})
	if err != nil {
		t.Fatalf("declare failed: %v", err)
	}

	has, err := svc.Check(member.PCMemberID, paper.PaperID, time.Now())
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !has {
		t.Fatal("expected author conflict to block the pair")
	}
}

func TestCheckHonorsValidityWindow(t *testing.T) {
	db := newTestDB(t)
	conference := createConference(t, db)
	paper := createPaper(t, db, conference.ConferenceID)
	member := createMember(t, db, conference.ConferenceID, models.PCRoleReviewer, 10)

	start := time.Now().AddDate(-3, 0, 0)
	end := time.Now().AddDate(-1, 0, 0)

	svc := NewConflictService(db)
	_, err := svc.Declare(DeclareConflictInput{
		PCMemberID:   member.PCMemberID,
		PaperID:      &paper.PaperID,
		ConflictType: models.ConflictCollaborator,
		StartDate:    &start,
		EndDate:      &end,
	})
	if err != nil {
		t.Fatalf("declare failed: %v", err)
	}

	has, err := svc.Check(member.PCMemberID, paper.PaperID, time.Now())
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if has {
		t.Fatal("expired collaborator conflict should not block the pair")
	}

	inside := end.AddDate(0, -6, 0)
	has, err = svc.Check(member.PCMemberID, paper.PaperID, inside)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !has {
		t.Fatal("conflict should block inside its validity window")
	}
}

func TestDeactivateClearsCheck(t *testing.T) {
	db := newTestDB(t)
	conference := createConference(t, db)
	paper := createPaper(t, db, conference.ConferenceID)
	member := createMember(t, db, conference.ConferenceID, models.PCRoleReviewer, 10)

	svc := NewConflictService(db)
	conflict, err := svc.Declare(DeclareConflictInput{
		PCMemberID:   member.PCMemberID,
		PaperID:      &paper.PaperID,
		ConflictType: models.ConflictFinancial,
	})
	if err != nil {
		t.Fatalf("declare failed: %v", err)
	}

	if err := svc.Deactivate(conflict.ConflictID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	has, err := svc.Check(member.PCMemberID, paper.PaperID, time.Now())
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if has {
		t.Fatal("deactivated conflict should not block the pair")
	}

	// Soft delete: the row survives for audit.
	var count int64
	if err := db.Model(&models.Conflict{}).Where("conflict_id = ?", conflict.ConflictID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected conflict row to survive deactivation, got %d rows", count)
	}
}

func TestVerifyStampsWithoutDeactivating(t *testing.T) {
	db := newTestDB(t)
	conference := createConference(t, db)
	paper := createPaper(t, db, conference.ConferenceID)
	member := createMember(t, db, conference.ConferenceID, models.PCRoleReviewer, 10)

	svc := NewConflictService(db)
	conflict, err := svc.Declare(DeclareConflictInput{
		PCMemberID:   member.PCMemberID,
		PaperID:      &paper.PaperID,
		ConflictType: models.ConflictSameInstitution,
	})
	if err != nil {
		t.Fatalf("declare failed: %v", err)
	}

	verified, err := svc.Verify(conflict.ConflictID, 42)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if verified.VerifiedBy == nil || *verified.VerifiedBy != 42 {
		t.Fatalf("expected verifier 42, got %v", verified.VerifiedBy)
	}
	if verified.VerifiedAt == nil {
		t.Fatal("expected verification timestamp")
	}
	if !verified.IsActive {
		t.Fatal("verification must not deactivate the conflict")
	}
}

func TestDetailReturnsMatchedConflict(t *testing.T) {
	db := newTestDB(t)
	conference := createConference(t, db)
	paper := createPaper(t, db, conference.ConferenceID)
	member := createMember(t, db, conference.ConferenceID, models.PCRoleReviewer, 10)

	svc := NewConflictService(db)
	description := "shared grant"
	_, err := svc.Declare(DeclareConflictInput{
		PCMemberID:   member.PCMemberID,
		PaperID:      &paper.PaperID,
		ConflictType: models.ConflictFinancial,
		Description:  &description,
	})
	if err != nil {
		t.Fatalf("declare failed: %v", err)
	}

	detail, err := svc.Detail(member.PCMemberID, paper.PaperID)
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	if !detail.HasConflict {
		t.Fatal("expected conflict in detail")
	}
	if detail.ConflictType == nil || *detail.ConflictType != models.ConflictFinancial {
		t.Fatalf("unexpected conflict type: %v", detail.ConflictType)
	}
	if detail.Reason == nil || *detail.Reason != description {
		t.Fatalf("unexpected reason: %v", detail.Reason)
	}
}
