package models

import (
	"time"

	"github.com/google/uuid"
)

type Stage string

const (
	StageNew        Stage = "NEW"
	StageInProgress Stage = "IN_PROGRESS"
	StageRepaired   Stage = "REPAIRED"
	StageScrap      Stage = "SCRAP"
)

func (s Stage) Valid() bool {
	switch s {
	case StageNew, StageInProgress, StageRepaired, StageScrap:
		return true
	}
	return false
}

// IsOpen reports whether work on the request is still pending.
func (s Stage) IsOpen() bool {
	return s == StageNew || s == StageInProgress
}

func (s Stage) IsTerminal() bool {
	return s == StageRepaired || s == StageScrap
}

type RequestType string

const (
	RequestCorrective RequestType = "CORRECTIVE"
	RequestPreventive RequestType = "PREVENTIVE"
)

func (t RequestType) Valid() bool {
	return t == RequestCorrective || t == RequestPreventive
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type MaintenanceRequest struct {
	ID             uuid.UUID   `json:"id"`
	CompanyID      uuid.UUID   `json:"company_id"`
	Subject        string      `json:"subject"`
	Description    *string     `json:"description,omitempty"`
	Notes          *string     `json:"notes,omitempty"`
	RequestType    RequestType `json:"request_type"`
	Priority       Priority    `json:"priority"`
	Stage          Stage       `json:"stage"`
	ScheduledDate  *time.Time  `json:"scheduled_date,omitempty"`
	StartDate      *time.Time  `json:"start_date,omitempty"`
	CompletionDate *time.Time  `json:"completion_date,omitempty"`
	Duration       *float64    `json:"duration,omitempty"`
	IsOverdue      bool        `json:"is_overdue"`
	EquipmentID    *uuid.UUID  `json:"equipment_id,omitempty"`
	CategoryID     *uuid.UUID  `json:"category_id,omitempty"`
	TeamID         *uuid.UUID  `json:"team_id,omitempty"`
	TechnicianID   *uuid.UUID  `json:"technician_id,omitempty"`
	CreatedByID    uuid.UUID   `json:"created_by_id"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
