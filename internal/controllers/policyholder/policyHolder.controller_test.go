package policyHolderController

import (
	"context"
	"testing"
	"time"

	"pojistovna/config"
	"pojistovna/internal/database"
	. "pojistovna/internal/models"
	"pojistovna/internal/repositories"
	"pojistovna/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	controller    *PolicyHolderController
	holderRepo    repositories.PolicyHolderRepository
	insuranceRepo repositories.InsuranceRepository
	eventRepo     repositories.InsuranceEventRepository
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
		controller:    New(holderRepo, insuranceRepo, eventRepo, services.NewTransactionService(db)),
		holderRepo:    holderRepo,
		insuranceRepo: insuranceRepo,
		eventRepo:     eventRepo,
	}
}

func validRequest() *PolicyHolderRequest {
	return &PolicyHolderRequest{
		FullName:        "Jana Novak",
		Address:         "Main 1",
		Email:           "jana@x.cz",
		TelephoneNumber: "123456",
	}
}

func TestCreate_Valid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	holder, err := f.controller.Create(ctx, validRequest())
	require.NoError(t, err)
	assert.NotZero(t, holder.ID)

	loaded, err := f.controller.Get(ctx, holder.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jana Novak", loaded.FullName)
}

func TestCreate_ValidationFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*PolicyHolderRequest)
		field   string
	}{
		{"empty full name", func(r *PolicyHolderRequest) { r.FullName = "" }, "fullName"},
		{"empty address", func(r *PolicyHolderRequest) { r.Address = "" }, "address"},
		{"empty email", func(r *PolicyHolderRequest) { r.Email = "" }, "email"},
		{"malformed email", func(r *PolicyHolderRequest) { r.Email = "not-an-email" }, "email"},
		{"empty telephone", func(r *PolicyHolderRequest) { r.TelephoneNumber = "" }, "telephoneNumber"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := validRequest()
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

	// Nothing was persisted.
	holders, err := f.controller.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, holders)
}

func TestUpdate_IDMismatchIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	holder, err := f.controller.Create(ctx, validRequest())
	require.NoError(t, err)

	request := validRequest()
	request.ID = holder.ID + 1
	request.Version = holder.Version
	request.Address = "Forged 13"

	_, err = f.controller.Update(ctx, holder.ID, request)
	assert.ErrorIs(t, err, ErrNotFound)

	// No write happened.
	loaded, err := f.controller.Get(ctx, holder.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main 1", loaded.Address)
}

func TestDelete_CascadesToInsurancesAndEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	holder, err := f.controller.Create(ctx, validRequest())
	require.NoError(t, err)

	insurance := &Insurance{
		PolicyHolderID: holder.ID,
		InsuranceType:  InsuranceTypeAuto,
		Amount:         500,
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.insuranceRepo.Create(ctx, insurance))

	event := &InsuranceEvent{
		PolicyHolderID: holder.ID,
		InsuranceID:    insurance.ID,
		EventDate:      time.Now(),
		Description:    "Hailstorm damage",
		EventStatus:    EventStatusNew,
	}
	require.NoError(t, f.eventRepo.Create(ctx, event))

	require.NoError(t, f.controller.Delete(ctx, holder.ID))

	_, err = f.controller.Get(ctx, holder.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.insuranceRepo.GetByID(ctx, insurance.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.eventRepo.GetByID(ctx, event.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	holder, err := f.controller.Create(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, f.controller.Delete(ctx, holder.ID))
	// A second delete of the same id must succeed without error.
	require.NoError(t, f.controller.Delete(ctx, holder.ID))
	// As must deleting an id that never existed.
	require.NoError(t, f.controller.Delete(ctx, 98765))
}
