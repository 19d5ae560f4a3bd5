package insuranceEventController

import (
	"context"
	"testing"
	"time"

	"pojistovna/config"
	"pojistovna/internal/database"
	. "pojistovna/internal/models"
	"pojistovna/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	controller    *InsuranceEventController
	holderRepo    repositories.PolicyHolderRepository
	insuranceRepo repositories.InsuranceRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db, err := database.New(config.Config{
		DatabaseIdentityPath:  ":memory:",
		DatabaseInsurancePath: ":memory:",
		DatabaseContactPath:   ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	holderRepo := repositories.NewPolicyHolder(db)
	insuranceRepo := repositories.NewInsurance(db)
	eventRepo := repositories.NewInsuranceEvent(db)

	return fixture{
		controller:    New(eventRepo, insuranceRepo, holderRepo),
		holderRepo:    holderRepo,
		insuranceRepo: insuranceRepo,
	}
}

func (f fixture) createHolderWithInsurance(t *testing.T) (*PolicyHolder, *Insurance) {
	t.Helper()
	ctx := context.Background()

	holder := &PolicyHolder{
		FullName:        "Jana Novak",
		Address:         "Main 1",
		Email:           "jana@x.cz",
		TelephoneNumber: "123456",
	}
	require.NoError(t, f.holderRepo.Create(ctx, holder))

	insurance := &Insurance{
		PolicyHolderID: holder.ID,
		InsuranceType:  InsuranceTypeAuto,
		Amount:         500,
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.insuranceRepo.Create(ctx, insurance))

	return holder, insurance
}

func validRequest(holderID, insuranceID int) *InsuranceEventRequest {
	return &InsuranceEventRequest{
		PolicyHolderID: holderID,
		InsuranceID:    insuranceID,
		EventDate:      "2024-06-15",
		Description:    "Parking lot collision",
		EventStatus:    "New",
	}
}

func TestCreate_Valid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	holder, insurance := f.createHolderWithInsurance(t)

	event, err := f.controller.Create(ctx, validRequest(holder.ID, insurance.ID))
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.Equal(t, EventStatusNew, event.EventStatus)
}

func TestCreate_ValidationFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	holder, insurance := f.createHolderWithInsurance(t)

	tests := []struct {
		name   string
		mutate func(*InsuranceEventRequest)
		field  string
	}{
		{"empty description", func(r *InsuranceEventRequest) { r.Description = "" }, "description"},
		{"unknown status", func(r *InsuranceEventRequest) { r.EventStatus = "Pondering" }, "eventStatus"},
		{"bad date", func(r *InsuranceEventRequest) { r.EventDate = "soon" }, "eventDate"},
		{"missing policy holder", func(r *InsuranceEventRequest) { r.PolicyHolderID = 0 }, "policyHolderId"},
		{"dangling policy holder", func(r *InsuranceEventRequest) { r.PolicyHolderID = 9999 }, "policyHolderId"},
		{"missing insurance", func(r *InsuranceEventRequest) { r.InsuranceID = 0 }, "insuranceId"},
		{"dangling insurance", func(r *InsuranceEventRequest) { r.InsuranceID = 9999 }, "insuranceId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := validRequest(holder.ID, insurance.ID)
			tt.mutate(request)

			_, err := f.controller.Create(ctx, request)
			require.Error(t, err)

			validationErrs, ok := AsValidationErrors(err)
			require.True(t, ok, "expected validation errors, got %v", err)

			fields := make([]string, 0, len(validationErrs.Fields))
			for _, fe := range validationErrs.Fields {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

// An event may name an insurance owned by a different policy holder; the
// combination is accepted as long as both rows exist. This documents the
// existing gap.
func TestCreate_CrossOwnershipAccepted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, insurance := f.createHolderWithInsurance(t)

	stranger := &PolicyHolder{
		FullName:        "Karel Dvorak",
		Address:         "Side 2",
		Email:           "karel@x.cz",
		TelephoneNumber: "654321",
	}
	require.NoError(t, f.holderRepo.Create(ctx, stranger))

	event, err := f.controller.Create(ctx, validRequest(stranger.ID, insurance.ID))
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
}

func TestGetInsurancesByPolicyHolder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	holder, insurance := f.createHolderWithInsurance(t)

	options, err := f.controller.GetInsurancesByPolicyHolder(ctx, holder.ID)
	require.NoError(t, err)
	assert.Equal(t, []InsuranceOption{{ID: insurance.ID, InsuranceType: "Auto"}}, options)
}

func TestUpdate_IDMismatchIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	holder, insurance := f.createHolderWithInsurance(t)

	event, err := f.controller.Create(ctx, validRequest(holder.ID, insurance.ID))
	require.NoError(t, err)

	request := validRequest(holder.ID, insurance.ID)
	request.ID = event.ID + 1
	request.Version = event.Version

	_, err = f.controller.Update(ctx, event.ID, request)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	holder, insurance := f.createHolderWithInsurance(t)

	event, err := f.controller.Create(ctx, validRequest(holder.ID, insurance.ID))
	require.NoError(t, err)

	require.NoError(t, f.controller.Delete(ctx, event.ID))
	require.NoError(t, f.controller.Delete(ctx, event.ID))
}

func TestGetCreateFormData_EmptyInsuranceSelector(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createHolderWithInsurance(t)

	formData, err := f.controller.GetCreateFormData(ctx)
	require.NoError(t, err)
	assert.Equal(t, EventStatuses(), formData.EventStatuses)
	assert.Len(t, formData.PolicyHolders, 1)
	// The insurance selector starts empty and is filled per holder.
	assert.Empty(t, formData.Insurances)
}
