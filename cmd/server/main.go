package main

import (
	"context"
	"fmt"
	"os"

	"pojistovna/cmd/migration/initialize"
	"pojistovna/cmd/migration/seed"
	"pojistovna/internal/app"
	"pojistovna/internal/handlers"
	"pojistovna/internal/handlers/middleware"
	"pojistovna/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	log := logger.New("main")

	application, err := app.New()
	if err != nil {
		log.Er("failed to initialize application", err)
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Er("failed to close application", err)
		}
	}()

	ctx := context.Background()
	if err := initialize.InitializeIdentity(ctx, application.UserRepo, application.Config, log); err != nil {
		log.Er("failed to initialize identity data", err)
		os.Exit(1)
	}

	if os.Getenv("POJISTOVNA_SEED") == "true" {
		if err := seed.Seed(
			ctx,
			application.UserRepo,
			application.PolicyHolderRepo,
			application.InsuranceRepo,
			application.InsuranceEventRepo,
			application.Config,
			log,
		); err != nil {
			log.Er("failed to seed development data", err)
			os.Exit(1)
		}
	}

	server := fiber.New(fiber.Config{
		AppName: "pojistovna",
	})

	server.Use(recover.New())
	// Every mutating endpoint requires a matching anti-forgery token.
	server.Use(middleware.CSRF())

	if err := handlers.Router(server, application); err != nil {
		log.Er("failed to register routes", err)
		os.Exit(1)
	}

	address := fmt.Sprintf(":%d", application.Config.ServerPort)
	log.Info("Starting server", "address", address)
	if err := server.Listen(address); err != nil {
		log.Er("server stopped", err)
		os.Exit(1)
	}
}
