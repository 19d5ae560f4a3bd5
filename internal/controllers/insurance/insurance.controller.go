package insuranceController

import (
	"context"

	"pojistovna/internal/logger"
	. "pojistovna/internal/models"
	"pojistovna/internal/repositories"
	"pojistovna/internal/services"
	"pojistovna/internal/utils"
)

type InsuranceController struct {
	insuranceRepo      repositories.InsuranceRepository
	holderRepo         repositories.PolicyHolderRepository
	eventRepo          repositories.InsuranceEventRepository
	transactionService *services.TransactionService
	log                logger.Logger
}

// CreateFormData carries everything the create/edit form needs to render
// its selectors: the closed type set and the selectable policy holders.
type CreateFormData struct {
	InsuranceTypes []InsuranceType `json:"insuranceTypes"`
	PolicyHolders  []PolicyHolder  `json:"policyHolders"`
}

func New(
	insuranceRepo repositories.InsuranceRepository,
	holderRepo repositories.PolicyHolderRepository,
	eventRepo repositories.InsuranceEventRepository,
	transactionService *services.TransactionService,
) *InsuranceController {
	return &InsuranceController{
		insuranceRepo:      insuranceRepo,
		holderRepo:         holderRepo,
		eventRepo:          eventRepo,
		transactionService: transactionService,
		log:                logger.New("InsuranceController"),
	}
}

func (c *InsuranceController) List(ctx context.Context) ([]Insurance, error) {
	return c.insuranceRepo.GetAll(ctx)
}

func (c *InsuranceController) Get(ctx context.Context, id int) (*Insurance, error) {
	return c.insuranceRepo.GetByID(ctx, id)
}

func (c *InsuranceController) GetCreateFormData(ctx context.Context) (*CreateFormData, error) {
	log := c.log.Function("GetCreateFormData")

	holders, err := c.holderRepo.GetAll(ctx)
	if err != nil {
		return nil, log.Err("failed to load policy holders for form", err)
	}

	return &CreateFormData{
		InsuranceTypes: InsuranceTypes(),
		PolicyHolders:  holders,
	}, nil
}

func (c *InsuranceController) Create(ctx context.Context, request *InsuranceRequest) (*Insurance, error) {
	log := c.log.Function("Create")

	insurance, errs := c.buildInsurance(ctx, request)
	if errs != nil {
		return nil, errs
	}

	if err := c.insuranceRepo.Create(ctx, insurance); err != nil {
		return nil, log.Err("failed to create insurance", err)
	}

	return insurance, nil
}

func (c *InsuranceController) Update(ctx context.Context, pathID int, request *InsuranceRequest) (*Insurance, error) {
	log := c.log.Function("Update")

	if pathID != request.ID {
		log.Warn("path id does not match body id", "pathID", pathID, "bodyID", request.ID)
		return nil, ErrNotFound
	}

	insurance, errs := c.buildInsurance(ctx, request)
	if errs != nil {
		return nil, errs
	}

	insurance.ID = request.ID
	insurance.Version = request.Version

	if err := c.insuranceRepo.Update(ctx, insurance); err != nil {
		return nil, err
	}

	return insurance, nil
}

// Delete removes the insurance together with its events in one transaction;
// a missing row is not an error.
func (c *InsuranceController) Delete(ctx context.Context, id int) error {
	log := c.log.Function("Delete")

	return c.transactionService.Execute(ctx, func(txCtx context.Context) error {
		exists, err := c.insuranceRepo.Exists(txCtx, id)
		if err != nil {
			return err
		}
		if !exists {
			log.Info("insurance already deleted", "id", id)
			return nil
		}

		if err := c.eventRepo.DeleteByInsurance(txCtx, id); err != nil {
			return err
		}
		return c.insuranceRepo.Delete(txCtx, id)
	})
}

// buildInsurance maps and validates the whitelisted request fields. The
// policy holder reference is pre-checked so a dangling selection comes back
// as a form error instead of a store failure. EndDate is not required to
// follow StartDate; the store accepts inverted ranges.
func (c *InsuranceController) buildInsurance(ctx context.Context, request *InsuranceRequest) (*Insurance, *ValidationErrors) {
	log := c.log.Function("buildInsurance")
	errs := &ValidationErrors{}

	insuranceType, ok := ParseInsuranceType(request.InsuranceType)
	if !ok {
		errs.Add("insuranceType", "must be one of the declared insurance types")
	}

	startDate, err := utils.ParseDate(request.StartDate)
	if err != nil {
		errs.Add("startDate", "must be a valid date")
	}

	endDate, err := utils.ParseDate(request.EndDate)
	if err != nil {
		errs.Add("endDate", "must be a valid date")
	}

	insurance := &Insurance{
		PolicyHolderID: request.PolicyHolderID,
		InsuranceType:  insuranceType,
		Amount:         request.Amount,
		StartDate:      startDate,
		EndDate:        endDate,
	}

	if structErrs := CheckStruct(insurance); structErrs != nil {
		errs.Fields = append(errs.Fields, structErrs.Fields...)
	}

	if request.PolicyHolderID != 0 {
		exists, err := c.holderRepo.Exists(ctx, request.PolicyHolderID)
		if err != nil {
			log.Er("failed to check policy holder", err, "policyHolderID", request.PolicyHolderID)
			errs.Add("policyHolderId", "could not be verified")
		} else if !exists {
			errs.Add("policyHolderId", "selected policy holder does not exist")
		}
	}

	if errs.HasErrors() {
		return nil, errs
	}

	return insurance, nil
}
