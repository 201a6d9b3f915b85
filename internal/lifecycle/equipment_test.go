package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEquipment(status models.EquipmentStatus) *models.Equipment {
	return &models.Equipment{
		ID:               uuid.New(),
		CompanyID:        uuid.New(),
		Name:             "Lathe",
		Status:           status,
		HealthPercentage: 80,
		UpdatedAt:        time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestApplyEffect_UnderMaintenance(t *testing.T) {
	eq := newEquipment(models.EquipmentActive)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	updated, err := ApplyEffect(eq, UnderMaintenance(), now)

	require.NoError(t, err)
	assert.Equal(t, models.EquipmentUnderMaintenance, updated.Status)
	assert.Equal(t, now, updated.UpdatedAt)
	assert.Equal(t, models.EquipmentActive, eq.Status, "input must not be mutated")
}

func TestApplyEffect_IdempotentStillTouchesUpdatedAt(t *testing.T) {
	eq := newEquipment(models.EquipmentActive)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	updated, err := ApplyEffect(eq, Restore(), now)

	require.NoError(t, err)
	assert.Equal(t, models.EquipmentActive, updated.Status)
	assert.Equal(t, now, updated.UpdatedAt)
	assert.Nil(t, updated.ScrapDate)
}

func TestApplyEffect_ScrapSetsScrapDate(t *testing.T) {
	eq := newEquipment(models.EquipmentUnderMaintenance)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	updated, err := ApplyEffect(eq, Scrap(at), at)

	require.NoError(t, err)
	assert.Equal(t, models.EquipmentScrapped, updated.Status)
	require.NotNil(t, updated.ScrapDate)
	assert.Equal(t, at, *updated.ScrapDate)
}

func TestApplyEffect_ScrappedRejectsEverything(t *testing.T) {
	scrapped := newEquipment(models.EquipmentScrapped)
	now := time.Now()

	for _, effect := range []*EquipmentEffect{UnderMaintenance(), Restore(), Scrap(now)} {
		_, err := ApplyEffect(scrapped, effect, now)

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEquipmentTerminal))

		var lerr *Error
		require.True(t, errors.As(err, &lerr))
		assert.Equal(t, models.EquipmentScrapped, lerr.EquipmentStatus)
	}
}
