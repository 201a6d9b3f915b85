package models

import (
	"time"

	"github.com/google/uuid"
)

type EquipmentStatus string

const (
	EquipmentActive           EquipmentStatus = "ACTIVE"
	EquipmentUnderMaintenance EquipmentStatus = "UNDER_MAINTENANCE"
	EquipmentScrapped         EquipmentStatus = "SCRAPPED"
)

func (s EquipmentStatus) Valid() bool {
	switch s {
	case EquipmentActive, EquipmentUnderMaintenance, EquipmentScrapped:
		return true
	}
	return false
}

type Equipment struct {
	ID                uuid.UUID       `json:"id"`
	CompanyID         uuid.UUID       `json:"company_id"`
	Name              string          `json:"name"`
	SerialNumber      *string         `json:"serial_number,omitempty"`
	Location          *string         `json:"location,omitempty"`
	Status            EquipmentStatus `json:"status"`
	HealthPercentage  int             `json:"health_percentage"`
	ScrapDate         *time.Time      `json:"scrap_date,omitempty"`
	OwnerID           *uuid.UUID      `json:"owner_id,omitempty"`
	TechnicianID      *uuid.UUID      `json:"technician_id,omitempty"`
	MaintenanceTeamID *uuid.UUID      `json:"maintenance_team_id,omitempty"`
	CategoryID        *uuid.UUID      `json:"category_id,omitempty"`
	WorkCenterID      *uuid.UUID      `json:"work_center_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
