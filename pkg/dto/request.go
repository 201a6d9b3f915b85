package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateRequestRequest struct {
	Subject       string     `json:"subject"`
	Description   *string    `json:"description,omitempty"`
	RequestType   string     `json:"request_type"`
	Priority      string     `json:"priority"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	EquipmentID   *uuid.UUID `json:"equipment_id,omitempty"`
	TeamID        *uuid.UUID `json:"team_id,omitempty"`
	TechnicianID  *uuid.UUID `json:"technician_id,omitempty"`
}

type UpdateRequestRequest struct {
	Subject     *string `json:"subject,omitempty"`
	Description *string `json:"description,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	RequestType *string `json:"request_type,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

// TransitionRequest moves a request to Stage. Duration overrides the
// computed hours when moving to REPAIRED.
type TransitionRequest struct {
	Stage    string   `json:"stage"`
	Duration *float64 `json:"duration,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

type AssignRequest struct {
	TechnicianID uuid.UUID `json:"technician_id"`
}

// ScheduleRequest sets or clears (null) the scheduled date.
type ScheduleRequest struct {
	ScheduledDate *time.Time `json:"scheduled_date"`
}

type RequestResponse struct {
	ID             uuid.UUID  `json:"id"`
	Subject        string     `json:"subject"`
	Description    *string    `json:"description,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	RequestType    string     `json:"request_type"`
	Priority       string     `json:"priority"`
	Stage          string     `json:"stage"`
	ScheduledDate  *string    `json:"scheduled_date,omitempty"`
	StartDate      *string    `json:"start_date,omitempty"`
	CompletionDate *string    `json:"completion_date,omitempty"`
	Duration       *float64   `json:"duration,omitempty"`
	IsOverdue      bool       `json:"is_overdue"`
	EquipmentID    *uuid.UUID `json:"equipment_id,omitempty"`
	CategoryID     *uuid.UUID `json:"category_id,omitempty"`
	TeamID         *uuid.UUID `json:"team_id,omitempty"`
	TechnicianID   *uuid.UUID `json:"technician_id,omitempty"`
	CreatedByID    uuid.UUID  `json:"created_by_id"`
	CreatedAt      string     `json:"created_at"`
	UpdatedAt      string     `json:"updated_at"`
}
