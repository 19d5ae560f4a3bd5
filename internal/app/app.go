package app

import (
	"pojistovna/config"
	"pojistovna/internal/database"
	"pojistovna/internal/handlers/middleware"
	"pojistovna/internal/logger"
	"pojistovna/internal/repositories"
	"pojistovna/internal/services"

	accountController "pojistovna/internal/controllers/account"
	contactFormController "pojistovna/internal/controllers/contactform"
	insuranceController "pojistovna/internal/controllers/insurance"
	insuranceEventController "pojistovna/internal/controllers/insuranceevent"
	policyHolderController "pojistovna/internal/controllers/policyholder"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Config     config.Config

	// Services
	TransactionService *services.TransactionService

	// Repositories
	PolicyHolderRepo   repositories.PolicyHolderRepository
	InsuranceRepo      repositories.InsuranceRepository
	InsuranceEventRepo repositories.InsuranceEventRepository
	ContactFormRepo    repositories.ContactFormRepository
	UserRepo           repositories.UserRepository
	SessionRepo        repositories.SessionRepository

	// Controllers
	PolicyHolderController   *policyHolderController.PolicyHolderController
	InsuranceController      *insuranceController.InsuranceController
	InsuranceEventController *insuranceEventController.InsuranceEventController
	ContactFormController    *contactFormController.ContactFormController
	AccountController        *accountController.AccountController
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	return NewWithDatabase(config, db)
}

// NewWithDatabase wires the application over an existing database handle.
func NewWithDatabase(config config.Config, db database.DB) (*App, error) {
	log := logger.New("app").Function("NewWithDatabase")

	// Initialize services
	transactionService := services.NewTransactionService(db)

	// Initialize repositories
	policyHolderRepo := repositories.NewPolicyHolder(db)
	insuranceRepo := repositories.NewInsurance(db)
	insuranceEventRepo := repositories.NewInsuranceEvent(db)
	contactFormRepo := repositories.NewContactForm(db)
	userRepo := repositories.NewUser(db)
	sessionRepo := repositories.NewSession(db)

	// Initialize controllers with repositories and services
	accountCtrl := accountController.New(userRepo, sessionRepo)

	app := &App{
		Database:           db,
		Config:             config,
		Middleware:         middleware.New(accountCtrl),
		TransactionService: transactionService,

		PolicyHolderRepo:   policyHolderRepo,
		InsuranceRepo:      insuranceRepo,
		InsuranceEventRepo: insuranceEventRepo,
		ContactFormRepo:    contactFormRepo,
		UserRepo:           userRepo,
		SessionRepo:        sessionRepo,

		PolicyHolderController: policyHolderController.New(
			policyHolderRepo, insuranceRepo, insuranceEventRepo, transactionService),
		InsuranceController: insuranceController.New(
			insuranceRepo, policyHolderRepo, insuranceEventRepo, transactionService),
		InsuranceEventController: insuranceEventController.New(
			insuranceEventRepo, insuranceRepo, policyHolderRepo),
		ContactFormController: contactFormController.New(contactFormRepo),
		AccountController:     accountCtrl,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Database.Identity == nil || a.Database.Insurance == nil || a.Database.Contact == nil {
		return log.ErrMsg("database connection is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is empty")
	}

	nilChecks := []any{
		a.TransactionService,
		a.PolicyHolderRepo,
		a.InsuranceRepo,
		a.InsuranceEventRepo,
		a.ContactFormRepo,
		a.UserRepo,
		a.SessionRepo,
		a.PolicyHolderController,
		a.InsuranceController,
		a.InsuranceEventController,
		a.ContactFormController,
		a.AccountController,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() error {
	return a.Database.Close()
}
