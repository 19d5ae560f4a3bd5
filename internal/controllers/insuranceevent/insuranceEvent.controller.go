package insuranceEventController

import (
	"context"

	"pojistovna/internal/logger"
	. "pojistovna/internal/models"
	"pojistovna/internal/repositories"
	"pojistovna/internal/utils"
)

type InsuranceEventController struct {
	eventRepo     repositories.InsuranceEventRepository
	insuranceRepo repositories.InsuranceRepository
	holderRepo    repositories.PolicyHolderRepository
	log           logger.Logger
}

// CreateFormData carries the selector contents for the event form. The
// insurance selector starts empty; it is filled per holder through
// GetInsurancesByPolicyHolder.
type CreateFormData struct {
	EventStatuses []EventStatus     `json:"eventStatuses"`
	PolicyHolders []PolicyHolder    `json:"policyHolders"`
	Insurances    []InsuranceOption `json:"insurances"`
}

func New(
	eventRepo repositories.InsuranceEventRepository,
	insuranceRepo repositories.InsuranceRepository,
	holderRepo repositories.PolicyHolderRepository,
) *InsuranceEventController {
	return &InsuranceEventController{
		eventRepo:     eventRepo,
		insuranceRepo: insuranceRepo,
		holderRepo:    holderRepo,
		log:           logger.New("InsuranceEventController"),
	}
}

func (c *InsuranceEventController) List(ctx context.Context) ([]InsuranceEvent, error) {
	return c.eventRepo.GetAll(ctx)
}

func (c *InsuranceEventController) Get(ctx context.Context, id int) (*InsuranceEvent, error) {
	return c.eventRepo.GetByID(ctx, id)
}

func (c *InsuranceEventController) GetCreateFormData(ctx context.Context) (*CreateFormData, error) {
	log := c.log.Function("GetCreateFormData")

	holders, err := c.holderRepo.GetAll(ctx)
	if err != nil {
		return nil, log.Err("failed to load policy holders for form", err)
	}

	return &CreateFormData{
		EventStatuses: EventStatuses(),
		PolicyHolders: holders,
		Insurances:    []InsuranceOption{},
	}, nil
}

// GetInsurancesByPolicyHolder feeds the dependent insurance selector.
func (c *InsuranceEventController) GetInsurancesByPolicyHolder(ctx context.Context, policyHolderID int) ([]InsuranceOption, error) {
	return c.insuranceRepo.GetByPolicyHolder(ctx, policyHolderID)
}

func (c *InsuranceEventController) Create(ctx context.Context, request *InsuranceEventRequest) (*InsuranceEvent, error) {
	log := c.log.Function("Create")

	event, errs := c.buildEvent(ctx, request)
	if errs != nil {
		return nil, errs
	}

	if err := c.eventRepo.Create(ctx, event); err != nil {
		return nil, log.Err("failed to create insurance event", err)
	}

	return event, nil
}

func (c *InsuranceEventController) Update(ctx context.Context, pathID int, request *InsuranceEventRequest) (*InsuranceEvent, error) {
	log := c.log.Function("Update")

	if pathID != request.ID {
		log.Warn("path id does not match body id", "pathID", pathID, "bodyID", request.ID)
		return nil, ErrNotFound
	}

	event, errs := c.buildEvent(ctx, request)
	if errs != nil {
		return nil, errs
	}

	event.ID = request.ID
	event.Version = request.Version

	if err := c.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// Delete is idempotent: a missing row still succeeds.
func (c *InsuranceEventController) Delete(ctx context.Context, id int) error {
	log := c.log.Function("Delete")

	exists, err := c.eventRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		log.Info("insurance event already deleted", "id", id)
		return nil
	}

	return c.eventRepo.Delete(ctx, id)
}

// buildEvent maps and validates the whitelisted request fields. Both parent
// references must exist; whether the insurance actually belongs to the
// stated policy holder is not checked.
func (c *InsuranceEventController) buildEvent(ctx context.Context, request *InsuranceEventRequest) (*InsuranceEvent, *ValidationErrors) {
	log := c.log.Function("buildEvent")
	errs := &ValidationErrors{}

	status, ok := ParseEventStatus(request.EventStatus)
	if !ok {
		errs.Add("eventStatus", "must be one of the declared event statuses")
	}

	eventDate, err := utils.ParseDate(request.EventDate)
	if err != nil {
		errs.Add("eventDate", "must be a valid date")
	}

	event := &InsuranceEvent{
		PolicyHolderID: request.PolicyHolderID,
		InsuranceID:    request.InsuranceID,
		EventDate:      eventDate,
		Description:    request.Description,
		EventStatus:    status,
	}

	if structErrs := CheckStruct(event); structErrs != nil {
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

	if request.InsuranceID != 0 {
		exists, err := c.insuranceRepo.Exists(ctx, request.InsuranceID)
		if err != nil {
			log.Er("failed to check insurance", err, "insuranceID", request.InsuranceID)
			errs.Add("insuranceId", "could not be verified")
		} else if !exists {
			errs.Add("insuranceId", "selected insurance does not exist")
		}
	}

	if errs.HasErrors() {
		return nil, errs
	}

	return event, nil
}
