package accountController

import (
	"context"
	"errors"
	"time"

	"pojistovna/internal/logger"
	. "pojistovna/internal/models"
	"pojistovna/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionLifetime    = 24 * time.Hour
	rememberMeLifetime = 30 * 24 * time.Hour
	minPasswordLength  = 8
)

type AccountController struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	log         logger.Logger
}

func New(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
) *AccountController {
	return &AccountController{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		log:         logger.New("AccountController"),
	}
}

// Login verifies the credentials and establishes a session. Any failure is
// reported as ErrInvalidCredentials; the caller learns nothing about which
// part was wrong.
func (c *AccountController) Login(ctx context.Context, request *LoginRequest) (*User, *Session, error) {
	log := c.log.Function("Login")

	user, err := c.userRepo.GetByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Burn a comparison so a missing account costs the same
			// as a wrong password.
			_ = bcrypt.CompareHashAndPassword(
				[]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),
				[]byte(request.Password),
			)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		log.Info("failed login attempt", "userID", user.ID)
		return nil, nil, ErrInvalidCredentials
	}

	session, err := c.establishSession(ctx, user, request.RememberMe)
	if err != nil {
		return nil, nil, err
	}

	log.Info("User logged in", "userID", user.ID)
	return user, session, nil
}

// Register creates an account and immediately logs it in. Every policy
// violation is reported as a distinct field-attributable error.
func (c *AccountController) Register(ctx context.Context, request *RegisterRequest) (*User, *Session, error) {
	log := c.log.Function("Register")

	user := &User{Email: request.Email}

	errs := &ValidationErrors{}
	if structErrs := CheckStruct(user); structErrs != nil {
		errs.Fields = append(errs.Fields, structErrs.Fields...)
	}

	if len(request.Password) < minPasswordLength {
		errs.Add("password", "must be at least 8 characters long")
	}
	if request.ConfirmPassword != request.Password {
		errs.Add("confirmPassword", "must match the password")
	}

	if request.Email != "" {
		if _, err := c.userRepo.GetByEmail(ctx, request.Email); err == nil {
			errs.Add("email", "is already taken")
		} else if !errors.Is(err, ErrNotFound) {
			return nil, nil, err
		}
	}

	if errs.HasErrors() {
		return nil, nil, errs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, log.Err("failed to hash password", err)
	}
	user.PasswordHash = string(hash)

	if err := c.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	session, err := c.establishSession(ctx, user, false)
	if err != nil {
		return nil, nil, err
	}

	log.Info("User registered", "userID", user.ID)
	return user, session, nil
}

// Logout terminates the session unconditionally; an unknown token is fine.
func (c *AccountController) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return c.sessionRepo.Delete(ctx, token)
}

// CurrentUser resolves a session token to its user with roles loaded.
func (c *AccountController) CurrentUser(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	session, err := c.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return c.userRepo.GetByID(ctx, session.UserID)
}

// IsInRole is the authorization contract the admin gate evaluates.
func (c *AccountController) IsInRole(user *User, role string) bool {
	return user != nil && user.IsInRole(role)
}

func (c *AccountController) establishSession(ctx context.Context, user *User, rememberMe bool) (*Session, error) {
	lifetime := sessionLifetime
	if rememberMe {
		lifetime = rememberMeLifetime
	}

	session := &Session{
		Token:      uuid.NewString(),
		UserID:     user.ID,
		RememberMe: rememberMe,
		ExpiresAt:  time.Now().Add(lifetime),
	}

	if err := c.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}
