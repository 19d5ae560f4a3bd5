package seed

import (
	"context"
	"errors"
	"time"

	"pojistovna/config"
	"pojistovna/internal/logger"
	. "pojistovna/internal/models"
	"pojistovna/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// Seed loads development fixtures. Every step is idempotent: records found
// by their natural key are left alone.
func Seed(
	ctx context.Context,
	userRepo repositories.UserRepository,
	holderRepo repositories.PolicyHolderRepository,
	insuranceRepo repositories.InsuranceRepository,
	eventRepo repositories.InsuranceEventRepository,
	config config.Config,
	log logger.Logger,
) error {
	log = log.Function("Seed")
	log.Info("Seeding development data")

	if err := seedUsers(ctx, userRepo, config, log); err != nil {
		return err
	}

	return seedInsuranceDomain(ctx, holderRepo, insuranceRepo, eventRepo, log)
}

func seedUsers(ctx context.Context, userRepo repositories.UserRepository, config config.Config, log logger.Logger) error {
	users := []struct {
		email    string
		password string
		admin    bool
	}{
		{config.AdminEmail, "adminpass1234", true},
		{"referent@pojistovna.cz", "referent1234", false},
	}

	for _, seed := range users {
		existing, err := userRepo.GetByEmail(ctx, seed.email)
		if err == nil {
			log.Info("User already exists", "email", seed.email)
			if seed.admin {
				if err := userRepo.AddToRole(ctx, existing, RoleAdmin); err != nil {
					return err
				}
			}
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			return log.Err("failed to hash seed password", err)
		}

		user := &User{Email: seed.email, PasswordHash: string(hash)}
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
		log.Info("Seeded user", "email", seed.email)

		if seed.admin {
			if err := userRepo.AddToRole(ctx, user, RoleAdmin); err != nil {
				return err
			}
		}
	}

	return nil
}

func seedInsuranceDomain(
	ctx context.Context,
	holderRepo repositories.PolicyHolderRepository,
	insuranceRepo repositories.InsuranceRepository,
	eventRepo repositories.InsuranceEventRepository,
	log logger.Logger,
) error {
	existing, err := holderRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info("Insurance domain already seeded", "policyHolders", len(existing))
		return nil
	}

	holder := &PolicyHolder{
		FullName:        "Jana Novak",
		Address:         "Main 1",
		Email:           "jana@x.cz",
		TelephoneNumber: "123456",
	}
	if err := holderRepo.Create(ctx, holder); err != nil {
		return err
	}

	insurance := &Insurance{
		PolicyHolderID: holder.ID,
		InsuranceType:  InsuranceTypeAuto,
		Amount:         500,
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := insuranceRepo.Create(ctx, insurance); err != nil {
		return err
	}

	event := &InsuranceEvent{
		PolicyHolderID: holder.ID,
		InsuranceID:    insurance.ID,
		EventDate:      time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		Description:    "Parking lot collision, rear bumper damage",
		EventStatus:    EventStatusNew,
	}
	if err := eventRepo.Create(ctx, event); err != nil {
		return err
	}

	log.Info("Seeded insurance domain fixtures")
	return nil
}
