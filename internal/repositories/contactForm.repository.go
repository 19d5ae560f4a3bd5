package repositories

import (
	"context"
	"errors"

	"pojistovna/internal/database"
	"pojistovna/internal/logger"
	. "pojistovna/internal/models"

	"gorm.io/gorm"
)

// ContactFormRepository works against the contact schema; it never joins
// the insurance-domain transaction.
type ContactFormRepository interface {
	GetAll(ctx context.Context) ([]ContactForm, error)
	GetByID(ctx context.Context, id int) (*ContactForm, error)
	Exists(ctx context.Context, id int) (bool, error)
	Create(ctx context.Context, form *ContactForm) error
	Update(ctx context.Context, form *ContactForm) error
	Delete(ctx context.Context, id int) error
}

type contactFormRepository struct {
	db  database.DB
	log logger.Logger
}

func NewContactForm(db database.DB) ContactFormRepository {
	return &contactFormRepository{
		db:  db,
		log: logger.New("contactFormRepository"),
	}
}

func (r *contactFormRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.ContactWithContext(ctx)
}

func (r *contactFormRepository) GetAll(ctx context.Context) ([]ContactForm, error) {
	log := r.log.Function("GetAll")

	var forms []ContactForm
	if err := r.getDB(ctx).Order("id").Find(&forms).Error; err != nil {
		return nil, log.Err("failed to get contact forms", err)
	}

	return forms, nil
}

func (r *contactFormRepository) GetByID(ctx context.Context, id int) (*ContactForm, error) {
	log := r.log.Function("GetByID")

	var form ContactForm
	if err := r.getDB(ctx).First(&form, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get contact form", err, "id", id)
	}

	return &form, nil
}

func (r *contactFormRepository) Exists(ctx context.Context, id int) (bool, error) {
	log := r.log.Function("Exists")

	var count int64
	if err := r.getDB(ctx).Model(&ContactForm{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, log.Err("failed to check contact form existence", err, "id", id)
	}

	return count > 0, nil
}

func (r *contactFormRepository) Create(ctx context.Context, form *ContactForm) error {
	log := r.log.Function("Create")

	form.ID = 0
	form.Version = 1
	if err := r.getDB(ctx).Create(form).Error; err != nil {
		return log.Err("failed to create contact form", err, "form", form)
	}

	return nil
}

func (r *contactFormRepository) Update(ctx context.Context, form *ContactForm) error {
	log := r.log.Function("Update")

	result := r.getDB(ctx).Model(&ContactForm{}).
		Where("id = ? AND version = ?", form.ID, form.Version).
		Updates(map[string]any{
			"full_name": form.FullName,
			"email":     form.Email,
			"message":   form.Message,
			"version":   form.Version + 1,
		})
	if result.Error != nil {
		return log.Err("failed to update contact form", result.Error, "id", form.ID)
	}

	if result.RowsAffected == 0 {
		exists, err := r.Exists(ctx, form.ID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrConcurrentModification
	}

	form.Version++
	return nil
}

func (r *contactFormRepository) Delete(ctx context.Context, id int) error {
	log := r.log.Function("Delete")

	if err := r.getDB(ctx).Delete(&ContactForm{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete contact form", err, "id", id)
	}

	return nil
}
