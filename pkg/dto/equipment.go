package dto

import "github.com/google/uuid"

type CreateEquipmentRequest struct {
	Name              string     `json:"name"`
	SerialNumber      *string    `json:"serial_number,omitempty"`
	Location          *string    `json:"location,omitempty"`
	HealthPercentage  *int       `json:"health_percentage,omitempty"`
	OwnerID           *uuid.UUID `json:"owner_id,omitempty"`
	TechnicianID      *uuid.UUID `json:"technician_id,omitempty"`
	MaintenanceTeamID *uuid.UUID `json:"maintenance_team_id,omitempty"`
	CategoryID        *uuid.UUID `json:"category_id,omitempty"`
	WorkCenterID      *uuid.UUID `json:"work_center_id,omitempty"`
}

type UpdateEquipmentStatusRequest struct {
	Status string `json:"status"`
}

type UpdateEquipmentHealthRequest struct {
	HealthPercentage *int `json:"health_percentage"`
}

type EquipmentResponse struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	SerialNumber      *string    `json:"serial_number,omitempty"`
	Location          *string    `json:"location,omitempty"`
	Status            string     `json:"status"`
	HealthPercentage  int        `json:"health_percentage"`
	ScrapDate         *string    `json:"scrap_date,omitempty"`
	OwnerID           *uuid.UUID `json:"owner_id,omitempty"`
	TechnicianID      *uuid.UUID `json:"technician_id,omitempty"`
	MaintenanceTeamID *uuid.UUID `json:"maintenance_team_id,omitempty"`
	CategoryID        *uuid.UUID `json:"category_id,omitempty"`
	WorkCenterID      *uuid.UUID `json:"work_center_id,omitempty"`
	CreatedAt         string     `json:"created_at"`
	UpdatedAt         string     `json:"updated_at"`
}
