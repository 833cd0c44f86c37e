package main

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"

	"farecard/internal/auth"
	"farecard/internal/config"
	"farecard/internal/db"
	apperrors "farecard/internal/errors"
	"farecard/internal/model"
	"farecard/internal/repository"
)

// Demo fleet and cards for local development. Owner ids line up with the
// built-in rider directory.
var seedValidators = []model.Validator{
	{ID: "VAL-001", BusID: "BUS-12", Location: "Av. Central y 5a", Operator: "TransUrbe", State: model.ValidatorStateActive},
	{ID: "VAL-002", BusID: "BUS-12", Location: "Terminal Norte", Operator: "TransUrbe", State: model.ValidatorStateActive},
	{ID: "VAL-003", BusID: "BUS-31", Location: "Plaza Mayor", Operator: "MetroBus", State: model.ValidatorStateMaintenance},
}

var seedCards = []struct {
	uid     string
	ownerID string
	balance string
}{
	{"04A1B2C3D4E5F6", "rider-001", "25.50"},
	{"04B2C3D4E5F607", "rider-002", "1.00"},
	{"04C3D4E5F60718", "rider-003", "12.75"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Card{}, &model.Transaction{}, &model.Validator{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	validatorRepo := repository.NewValidatorRepository(gormDB)
	cardRepo := repository.NewCardRepository(gormDB)

	created := 0
	for _, v := range seedValidators {
		validator := v
		if err := validatorRepo.Create(ctx, &validator); err != nil {
			if errors.Is(err, apperrors.ErrValidatorExists) {
				continue
			}
			log.Fatalf("Failed to seed validator %s: %v", v.ID, err)
		}
		created++
	}
	log.Printf("Validators seeded: %d new, %d already present", created, len(seedValidators)-created)

	created = 0
	for _, c := range seedCards {
		card := model.Card{
			UID:     c.uid,
			OwnerID: c.ownerID,
			Balance: decimal.RequireFromString(c.balance),
			Active:  true,
		}
		if err := cardRepo.Create(ctx, &card); err != nil {
			if errors.Is(err, apperrors.ErrCardExists) {
				continue
			}
			log.Fatalf("Failed to seed card %s: %v", c.uid, err)
		}
		created++
	}
	log.Printf("Cards seeded: %d new, %d already present", created, len(seedCards)-created)

	// Convenience token for poking the admin endpoints locally.
	token, err := auth.NewJWTService(cfg.JWTSecret).GenerateOperatorToken("seed-operator", "admin")
	if err != nil {
		log.Fatalf("Failed to mint operator token: %v", err)
	}
	log.Printf("Operator token (8h): Bearer %s", token)

	log.Println("Seed completed successfully!")
}
