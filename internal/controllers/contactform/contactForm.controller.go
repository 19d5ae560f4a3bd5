package contactFormController

import (
	"context"
	"time"

	"pojistovna/internal/logger"
	. "pojistovna/internal/models"
	"pojistovna/internal/repositories"
)

type ContactFormController struct {
	formRepo repositories.ContactFormRepository
	log      logger.Logger
}

func New(formRepo repositories.ContactFormRepository) *ContactFormController {
	return &ContactFormController{
		formRepo: formRepo,
		log:      logger.New("ContactFormController"),
	}
}

func (c *ContactFormController) List(ctx context.Context) ([]ContactForm, error) {
	return c.formRepo.GetAll(ctx)
}

func (c *ContactFormController) Get(ctx context.Context, id int) (*ContactForm, error) {
	return c.formRepo.GetByID(ctx, id)
}

// Create accepts a public inquiry. DateSubmitted is server-assigned.
func (c *ContactFormController) Create(ctx context.Context, request *ContactFormRequest) (*ContactForm, error) {
	log := c.log.Function("Create")

	form := &ContactForm{
		FullName:      request.FullName,
		Email:         request.Email,
		Message:       request.Message,
		DateSubmitted: time.Now(),
	}

	if errs := CheckStruct(form); errs != nil {
		return nil, errs
	}

	if err := c.formRepo.Create(ctx, form); err != nil {
		return nil, log.Err("failed to create contact form", err)
	}

	return form, nil
}

func (c *ContactFormController) Update(ctx context.Context, pathID int, request *ContactFormRequest) (*ContactForm, error) {
	log := c.log.Function("Update")

	if pathID != request.ID {
		log.Warn("path id does not match body id", "pathID", pathID, "bodyID", request.ID)
		return nil, ErrNotFound
	}

	form := &ContactForm{
		VersionedModel: VersionedModel{
			BaseModel: BaseModel{ID: request.ID},
			Version:   request.Version,
		},
		FullName: request.FullName,
		Email:    request.Email,
		Message:  request.Message,
		// DateSubmitted is immutable after creation; the validator still
		// needs a value present.
		DateSubmitted: time.Now(),
	}

	if errs := CheckStruct(form); errs != nil {
		return nil, errs
	}

	if err := c.formRepo.Update(ctx, form); err != nil {
		return nil, err
	}

	return form, nil
}

// Delete is idempotent: a missing row still succeeds.
func (c *ContactFormController) Delete(ctx context.Context, id int) error {
	log := c.log.Function("Delete")

	exists, err := c.formRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		log.Info("contact form already deleted", "id", id)
		return nil
	}

	return c.formRepo.Delete(ctx, id)
}
