package main

import (
	"context"
	"errors"
	"log"
	"os"

	"banklet/internal/config"
	"banklet/internal/models"
	"banklet/internal/repositories"
	"banklet/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := repositories.Open(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			log.Printf("⚠️ Failed to close database connection: %v", err)
		}
	}()
	if err := repositories.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := context.Background()
	accounts := repositories.NewAccountRepository(db)

	if _, err := accounts.FindByEmail(ctx, adminEmail); err == nil {
		log.Println("Admin account already exists")
		return
	} else if !errors.Is(err, repositories.ErrAccountNotFound) {
		log.Fatalf("Failed to look up admin account: %v", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	number, err := utils.GenerateAccountNumber()
	if err != nil {
		log.Fatal("Failed to generate account number:", err)
	}

	admin := &models.Account{
		AccountNumber: number,
		FirstName:     "Admin",
		Email:         adminEmail,
		Password:      string(hashedPassword),
		Role:          models.RoleAdmin,
		Currency:      models.CurrencyUSD,
	}
	if err := accounts.Create(ctx, admin); err != nil {
		log.Fatal("Failed to create admin account:", err)
	}

	log.Printf("✅ Admin account %s created successfully!", admin.AccountNumber)
}
