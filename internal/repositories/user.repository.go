package repositories

import (
	"context"
	"errors"

	"pojistovna/internal/database"
	"pojistovna/internal/logger"
	. "pojistovna/internal/models"

	"gorm.io/gorm"
)

// UserRepository manages the identity schema: accounts and role membership.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	EnsureRole(ctx context.Context, name string) (*Role, error)
	AddToRole(ctx context.Context, user *User, roleName string) error
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUser(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.IdentityWithContext(ctx)
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	if err := r.getDB(ctx).Preload("Roles").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get user", err, "id", id)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	log := r.log.Function("GetByEmail")

	var user User
	if err := r.getDB(ctx).Preload("Roles").First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get user by email", err, "email", email)
	}

	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *User) error {
	log := r.log.Function("Create")

	user.ID = 0
	if err := r.getDB(ctx).Create(user).Error; err != nil {
		return log.Err("failed to create user", err, "email", user.Email)
	}

	return nil
}

// EnsureRole returns the named role, creating it when absent.
func (r *userRepository) EnsureRole(ctx context.Context, name string) (*Role, error) {
	log := r.log.Function("EnsureRole")

	var role Role
	err := r.getDB(ctx).First(&role, "name = ?", name).Error
	if err == nil {
		return &role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, log.Err("failed to look up role", err, "name", name)
	}

	role = Role{Name: name}
	if err := r.getDB(ctx).Create(&role).Error; err != nil {
		return nil, log.Err("failed to create role", err, "name", name)
	}

	log.Info("Created role", "name", name)
	return &role, nil
}

// AddToRole grants role membership; a no-op when the user already holds it.
func (r *userRepository) AddToRole(ctx context.Context, user *User, roleName string) error {
	log := r.log.Function("AddToRole")

	if user.IsInRole(roleName) {
		return nil
	}

	role, err := r.EnsureRole(ctx, roleName)
	if err != nil {
		return err
	}

	if err := r.getDB(ctx).Model(user).Association("Roles").Append(role); err != nil {
		return log.Err("failed to add user to role", err, "userID", user.ID, "role", roleName)
	}

	log.Info("Granted role", "userID", user.ID, "role", roleName)
	return nil
}
