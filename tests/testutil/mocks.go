package testutil

import (
	"context"
	"time"

	"github.com/dimitrije/maintenance-api/internal/lifecycle"
	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/dimitrije/maintenance-api/internal/services"
	"github.com/dimitrije/maintenance-api/internal/sse"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRequestService mocks the RequestService
type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) request(args mock.Arguments) (*models.MaintenanceRequest, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceRequest), args.Error(1)
}

func (m *MockRequestService) Create(ctx context.Context, actor lifecycle.Actor, input services.CreateRequestInput) (*models.MaintenanceRequest, error) {
	return m.request(m.Called(ctx, actor, input))
}

func (m *MockRequestService) GetByID(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) (*models.MaintenanceRequest, error) {
	return m.request(m.Called(ctx, actor, id))
}

func (m *MockRequestService) List(ctx context.Context, actor lifecycle.Actor, filter services.RequestFilter) ([]models.MaintenanceRequest, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MaintenanceRequest), args.Error(1)
}

func (m *MockRequestService) Transition(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, target models.Stage, opts lifecycle.TransitionOptions) (*models.MaintenanceRequest, error) {
	return m.request(m.Called(ctx, actor, id, target, opts))
}

func (m *MockRequestService) AssignTechnician(ctx context.Context, actor lifecycle.Actor, id, technicianID uuid.UUID) (*models.MaintenanceRequest, error) {
	return m.request(m.Called(ctx, actor, id, technicianID))
}

func (m *MockRequestService) SelfAssign(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) (*models.MaintenanceRequest, error) {
	return m.request(m.Called(ctx, actor, id))
}

func (m *MockRequestService) UpdateSchedule(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, scheduled *time.Time) (*models.MaintenanceRequest, error) {
	return m.request(m.Called(ctx, actor, id, scheduled))
}

func (m *MockRequestService) UpdateDetails(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, input services.DetailsInput) (*models.MaintenanceRequest, error) {
	return m.request(m.Called(ctx, actor, id, input))
}

func (m *MockRequestService) Delete(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

// MockEquipmentService mocks the EquipmentService
type MockEquipmentService struct {
	mock.Mock
}

func (m *MockEquipmentService) equipment(args mock.Arguments) (*models.Equipment, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Equipment), args.Error(1)
}

func (m *MockEquipmentService) Create(ctx context.Context, actor lifecycle.Actor, input services.CreateEquipmentInput) (*models.Equipment, error) {
	return m.equipment(m.Called(ctx, actor, input))
}

func (m *MockEquipmentService) GetByID(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) (*models.Equipment, error) {
	return m.equipment(m.Called(ctx, actor, id))
}

func (m *MockEquipmentService) List(ctx context.Context, actor lifecycle.Actor) ([]models.Equipment, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Equipment), args.Error(1)
}

func (m *MockEquipmentService) UpdateStatus(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, status models.EquipmentStatus) (*models.Equipment, error) {
	return m.equipment(m.Called(ctx, actor, id, status))
}

func (m *MockEquipmentService) UpdateHealth(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, health int) (*models.Equipment, error) {
	return m.equipment(m.Called(ctx, actor, id, health))
}

// MockTeamService mocks the TeamService
type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) Create(ctx context.Context, actor lifecycle.Actor, name string) (*models.MaintenanceTeam, error) {
	args := m.Called(ctx, actor, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceTeam), args.Error(1)
}

func (m *MockTeamService) GetByID(ctx context.Context, actor lifecycle.Actor, teamID uuid.UUID) (*models.MaintenanceTeam, error) {
	args := m.Called(ctx, actor, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceTeam), args.Error(1)
}

func (m *MockTeamService) List(ctx context.Context, actor lifecycle.Actor) ([]models.MaintenanceTeam, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MaintenanceTeam), args.Error(1)
}

func (m *MockTeamService) GetMembers(ctx context.Context, actor lifecycle.Actor, teamID uuid.UUID) ([]models.TeamMember, error) {
	args := m.Called(ctx, actor, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TeamMember), args.Error(1)
}

func (m *MockTeamService) AddMember(ctx context.Context, actor lifecycle.Actor, teamID, userID uuid.UUID, isLead bool) (*models.TeamMember, error) {
	args := m.Called(ctx, actor, teamID, userID, isLead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamMember), args.Error(1)
}

func (m *MockTeamService) RemoveMember(ctx context.Context, actor lifecycle.Actor, teamID, userID uuid.UUID) error {
	args := m.Called(ctx, actor, teamID, userID)
	return args.Error(0)
}

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetByID(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) ListTechnicians(ctx context.Context, actor lifecycle.Actor) ([]models.User, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

// MockSSEHub mocks the sse.Hub
type MockSSEHub struct {
	mock.Mock
}

func (m *MockSSEHub) Register(client *sse.Client) {
	m.Called(client)
}

func (m *MockSSEHub) Unregister(client *sse.Client) {
	m.Called(client)
}

func (m *MockSSEHub) WatchEquipment(clientID string, userID, equipmentID uuid.UUID) bool {
	args := m.Called(clientID, userID, equipmentID)
	return args.Bool(0)
}

func (m *MockSSEHub) UnwatchEquipment(clientID string, userID, equipmentID uuid.UUID) {
	m.Called(clientID, userID, equipmentID)
}
