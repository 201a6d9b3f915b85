package lifecycle

import (
	"time"

	"github.com/dimitrije/maintenance-api/internal/models"
)

// EquipmentEffect is the equipment mutation requested by a stage transition.
// It is a value; the caller commits it together with the request.
type EquipmentEffect struct {
	Status    models.EquipmentStatus
	ScrapDate *time.Time
}

func UnderMaintenance() *EquipmentEffect {
	return &EquipmentEffect{Status: models.EquipmentUnderMaintenance}
}

func Restore() *EquipmentEffect {
	return &EquipmentEffect{Status: models.EquipmentActive}
}

func Scrap(at time.Time) *EquipmentEffect {
	return &EquipmentEffect{Status: models.EquipmentScrapped, ScrapDate: &at}
}

// ApplyEffect returns a copy of eq with the effect applied. Scrapped equipment
// rejects every effect.
func ApplyEffect(eq *models.Equipment, effect *EquipmentEffect, now time.Time) (*models.Equipment, error) {
	if eq.Status == models.EquipmentScrapped {
		return nil, EquipmentTerminal(eq.Status)
	}

	updated := *eq
	updated.Status = effect.Status
	updated.UpdatedAt = now

	if effect.Status == models.EquipmentScrapped {
		scrapDate := now
		if effect.ScrapDate != nil {
			scrapDate = *effect.ScrapDate
		}
		updated.ScrapDate = &scrapDate
	}

	return &updated, nil
}
