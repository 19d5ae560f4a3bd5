package repositories

import (
	"context"
	"testing"
	"time"

	. "pojistovna/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestForm(t *testing.T, repo ContactFormRepository) *ContactForm {
	t.Helper()

	form := &ContactForm{
		FullName:      "Petr Svoboda",
		Email:         "petr@x.cz",
		Message:       "Question about my policy",
		DateSubmitted: time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), form))
	require.NotZero(t, form.ID)

	return form
}

func TestContactFormRepository_CreateThenGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewContactForm(db)
	ctx := context.Background()

	form := createTestForm(t, repo)

	loaded, err := repo.GetByID(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, "Petr Svoboda", loaded.FullName)
	assert.Equal(t, "petr@x.cz", loaded.Email)
	assert.Equal(t, "Question about my policy", loaded.Message)
	assert.False(t, loaded.DateSubmitted.IsZero())
}

func TestContactFormRepository_DeleteThenGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewContactForm(db)
	ctx := context.Background()

	form := createTestForm(t, repo)
	require.NoError(t, repo.Delete(ctx, form.ID))

	_, err := repo.GetByID(ctx, form.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContactFormRepository_UpdateStaleVersion(t *testing.T) {
	db := newTestDB(t)
	repo := NewContactForm(db)
	ctx := context.Background()

	form := createTestForm(t, repo)

	concurrent := *form
	concurrent.Message = "Edited by staff"
	require.NoError(t, repo.Update(ctx, &concurrent))

	form.Message = "Stale edit"
	assert.ErrorIs(t, repo.Update(ctx, form), ErrConcurrentModification)
}
