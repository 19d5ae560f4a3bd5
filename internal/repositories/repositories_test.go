package repositories

import (
	"context"
	"testing"
	"time"

	"pojistovna/config"
	"pojistovna/internal/database"
	. "pojistovna/internal/models"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) database.DB {
	t.Helper()

	db, err := database.New(config.Config{
		DatabaseIdentityPath:  ":memory:",
		DatabaseInsurancePath: ":memory:",
		DatabaseContactPath:   ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func createTestHolder(t *testing.T, repo PolicyHolderRepository) *PolicyHolder {
	t.Helper()

	holder := &PolicyHolder{
		FullName:        "Jana Novak",
		Address:         "Main 1",
		Email:           "jana@x.cz",
		TelephoneNumber: "123456",
	}
	require.NoError(t, repo.Create(context.Background(), holder))
	require.NotZero(t, holder.ID)

	return holder
}

func createTestInsurance(t *testing.T, repo InsuranceRepository, holderID int) *Insurance {
	t.Helper()

	insurance := &Insurance{
		PolicyHolderID: holderID,
		InsuranceType:  InsuranceTypeAuto,
		Amount:         500,
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(context.Background(), insurance))
	require.NotZero(t, insurance.ID)

	return insurance
}

func createTestEvent(t *testing.T, repo InsuranceEventRepository, holderID, insuranceID int) *InsuranceEvent {
	t.Helper()

	event := &InsuranceEvent{
		PolicyHolderID: holderID,
		InsuranceID:    insuranceID,
		EventDate:      time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		Description:    "Parking lot collision",
		EventStatus:    EventStatusNew,
	}
	require.NoError(t, repo.Create(context.Background(), event))
	require.NotZero(t, event.ID)

	return event
}
