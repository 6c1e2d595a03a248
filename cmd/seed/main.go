// Bootstrap script: migrates the core tables and seeds the role table plus
// an initial chair account.
// cmd/seed/main.go
package main

import (
	"log"
	"os"
	"time"

	"conference-review-api/config"
	"conference-review-api/models"
	"conference-review-api/utils"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	config.InitDB()

	err := config.DB.AutoMigrate(
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
		log.Fatal("Failed to migrate schema:", err)
	}

	now := time.Now()
	roles := []models.Role{
		{RoleID: models.RoleReviewer, Role: "reviewer", CreateAt: &now},
		{RoleID: models.RoleChair, Role: "chair", CreateAt: &now},
		{RoleID: models.RoleAdmin, Role: "admin", CreateAt: &now},
	}
	for _, role := range roles {
		if err := config.DB.FirstOrCreate(&role, "role_id = ?", role.RoleID).Error; err != nil {
			log.Printf("Failed to seed role %s: %v\n", role.Role, err)
		}
	}

	chairEmail := os.Getenv("SEED_CHAIR_EMAIL")
	chairPassword := os.Getenv("SEED_CHAIR_PASSWORD")
	if chairEmail == "" || chairPassword == "" {
		log.Println("SEED_CHAIR_EMAIL/SEED_CHAIR_PASSWORD not set, skipping chair account")
		return
	}

	var existing models.User
	if err := config.DB.Where("email = ?", chairEmail).First(&existing).Error; err == nil {
		log.Printf("Chair account %s already exists, skipping\n", chairEmail)
		return
	}

	hashed, err := utils.HashPassword(chairPassword)
	if err != nil {
		log.Fatal("Failed to hash chair password:", err)
	}

	chair := models.User{
		UserFname: "Program",
		UserLname: "Chair",
		Email:     chairEmail,
		Password:  hashed,
		RoleID:    models.RoleChair,
		CreateAt:  &now,
	}
	if err := config.DB.Create(&chair).Error; err != nil {
		log.Fatal("Failed to create chair account:", err)
	}

	log.Printf("Seed completed, chair account %s created\n", chairEmail)
}
