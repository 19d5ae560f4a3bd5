package initialize

import (
	"context"
	"errors"

	"pojistovna/config"
	"pojistovna/internal/logger"
	. "pojistovna/internal/models"
	"pojistovna/internal/repositories"
)

// InitializeIdentity runs the startup side effects of the identity schema:
// the admin role always exists, and the well-known admin account — when it
// already exists — holds it. The account itself is never created here.
func InitializeIdentity(ctx context.Context, userRepo repositories.UserRepository, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeIdentity")
	log.Info("Initializing identity data")

	if _, err := userRepo.EnsureRole(ctx, RoleAdmin); err != nil {
		return log.Err("failed to ensure admin role", err)
	}

	adminUser, err := userRepo.GetByEmail(ctx, config.AdminEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Info("Admin user does not exist yet, skipping role grant", "email", config.AdminEmail)
			return nil
		}
		return log.Err("failed to look up admin user", err)
	}

	if err := userRepo.AddToRole(ctx, adminUser, RoleAdmin); err != nil {
		return log.Err("failed to grant admin role", err)
	}

	log.Info("Identity initialization complete")
	return nil
}
