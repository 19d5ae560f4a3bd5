package policyHolderController

import (
	"context"

	"pojistovna/internal/logger"
	. "pojistovna/internal/models"
	"pojistovna/internal/repositories"
	"pojistovna/internal/services"
)

type PolicyHolderController struct {
	holderRepo         repositories.PolicyHolderRepository
	insuranceRepo      repositories.InsuranceRepository
	eventRepo          repositories.InsuranceEventRepository
	transactionService *services.TransactionService
	log                logger.Logger
}

func New(
	holderRepo repositories.PolicyHolderRepository,
	insuranceRepo repositories.InsuranceRepository,
	eventRepo repositories.InsuranceEventRepository,
	transactionService *services.TransactionService,
) *PolicyHolderController {
	return &PolicyHolderController{
		holderRepo:         holderRepo,
		insuranceRepo:      insuranceRepo,
		eventRepo:          eventRepo,
		transactionService: transactionService,
		log:                logger.New("PolicyHolderController"),
	}
}

func (c *PolicyHolderController) List(ctx context.Context) ([]PolicyHolder, error) {
	return c.holderRepo.GetAll(ctx)
}

func (c *PolicyHolderController) Get(ctx context.Context, id int) (*PolicyHolder, error) {
	return c.holderRepo.GetByID(ctx, id)
}

func (c *PolicyHolderController) Create(ctx context.Context, request *PolicyHolderRequest) (*PolicyHolder, error) {
	log := c.log.Function("Create")

	holder := &PolicyHolder{
		FullName:        request.FullName,
		Address:         request.Address,
		Email:           request.Email,
		TelephoneNumber: request.TelephoneNumber,
	}

	if errs := CheckStruct(holder); errs != nil {
		return nil, errs
	}

	if err := c.holderRepo.Create(ctx, holder); err != nil {
		return nil, log.Err("failed to create policy holder", err)
	}

	return holder, nil
}

// Update requires the path id and body id to agree before touching the
// store; a mismatch is treated as a forged request and reported not-found.
func (c *PolicyHolderController) Update(ctx context.Context, pathID int, request *PolicyHolderRequest) (*PolicyHolder, error) {
	log := c.log.Function("Update")

	if pathID != request.ID {
		log.Warn("path id does not match body id", "pathID", pathID, "bodyID", request.ID)
		return nil, ErrNotFound
	}

	holder := &PolicyHolder{
		VersionedModel: VersionedModel{
			BaseModel: BaseModel{ID: request.ID},
			Version:   request.Version,
		},
		FullName:        request.FullName,
		Address:         request.Address,
		Email:           request.Email,
		TelephoneNumber: request.TelephoneNumber,
	}

	if errs := CheckStruct(holder); errs != nil {
		return nil, errs
	}

	if err := c.holderRepo.Update(ctx, holder); err != nil {
		return nil, err
	}

	return holder, nil
}

// Delete removes the holder together with its insurances and events in one
// transaction. It is idempotent: an already-missing row is not an error.
func (c *PolicyHolderController) Delete(ctx context.Context, id int) error {
	log := c.log.Function("Delete")

	return c.transactionService.Execute(ctx, func(txCtx context.Context) error {
		exists, err := c.holderRepo.Exists(txCtx, id)
		if err != nil {
			return err
		}
		if !exists {
			log.Info("policy holder already deleted", "id", id)
			return nil
		}

		if err := c.eventRepo.DeleteByPolicyHolder(txCtx, id); err != nil {
			return err
		}
		if err := c.insuranceRepo.DeleteByPolicyHolder(txCtx, id); err != nil {
			return err
		}
		return c.holderRepo.Delete(txCtx, id)
	})
}
