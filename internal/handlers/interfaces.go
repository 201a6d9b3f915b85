package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/maintenance-api/internal/lifecycle"
	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/dimitrije/maintenance-api/internal/services"
	"github.com/dimitrije/maintenance-api/internal/sse"
	"github.com/google/uuid"
)

// RequestServiceInterface defines the methods used by handlers from RequestService
type RequestServiceInterface interface {
	Create(ctx context.Context, actor lifecycle.Actor, input services.CreateRequestInput) (*models.MaintenanceRequest, error)
	GetByID(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) (*models.MaintenanceRequest, error)
	List(ctx context.Context, actor lifecycle.Actor, filter services.RequestFilter) ([]models.MaintenanceRequest, error)
	Transition(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, target models.Stage, opts lifecycle.TransitionOptions) (*models.MaintenanceRequest, error)
	AssignTechnician(ctx context.Context, actor lifecycle.Actor, id, technicianID uuid.UUID) (*models.MaintenanceRequest, error)
	SelfAssign(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) (*models.MaintenanceRequest, error)
	UpdateSchedule(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, scheduled *time.Time) (*models.MaintenanceRequest, error)
	UpdateDetails(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, input services.DetailsInput) (*models.MaintenanceRequest, error)
	Delete(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) error
}

// EquipmentServiceInterface defines the methods used by handlers from EquipmentService
type EquipmentServiceInterface interface {
	Create(ctx context.Context, actor lifecycle.Actor, input services.CreateEquipmentInput) (*models.Equipment, error)
	GetByID(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) (*models.Equipment, error)
	List(ctx context.Context, actor lifecycle.Actor) ([]models.Equipment, error)
	UpdateStatus(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, status models.EquipmentStatus) (*models.Equipment, error)
	UpdateHealth(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, health int) (*models.Equipment, error)
}

// TeamServiceInterface defines the methods used by handlers from TeamService
type TeamServiceInterface interface {
	Create(ctx context.Context, actor lifecycle.Actor, name string) (*models.MaintenanceTeam, error)
	GetByID(ctx context.Context, actor lifecycle.Actor, teamID uuid.UUID) (*models.MaintenanceTeam, error)
	List(ctx context.Context, actor lifecycle.Actor) ([]models.MaintenanceTeam, error)
	GetMembers(ctx context.Context, actor lifecycle.Actor, teamID uuid.UUID) ([]models.TeamMember, error)
	AddMember(ctx context.Context, actor lifecycle.Actor, teamID, userID uuid.UUID, isLead bool) (*models.TeamMember, error)
	RemoveMember(ctx context.Context, actor lifecycle.Actor, teamID, userID uuid.UUID) error
}

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	GetByID(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) (*models.User, error)
	ListTechnicians(ctx context.Context, actor lifecycle.Actor) ([]models.User, error)
}

// SSEHubInterface defines the methods used by handlers from sse.Hub
type SSEHubInterface interface {
	Register(client *sse.Client)
	Unregister(client *sse.Client)
	WatchEquipment(clientID string, userID, equipmentID uuid.UUID) bool
	UnwatchEquipment(clientID string, userID, equipmentID uuid.UUID)
}
