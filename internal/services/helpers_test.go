package services

import (
	"sync"
	"testing"
	"time"

	"github.com/dimitrije/maintenance-api/internal/database"
	"github.com/dimitrije/maintenance-api/internal/lifecycle"
	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/dimitrije/maintenance-api/internal/notify"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 1, 3, 30, 0, 0, time.UTC)

var requestCols = []string{
	"id", "company_id", "subject", "description", "notes", "request_type", "priority", "stage",
	"scheduled_date", "start_date", "completion_date", "duration", "is_overdue",
	"equipment_id", "category_id", "team_id", "technician_id", "created_by_id", "created_at", "updated_at",
}

var equipmentCols = []string{
	"id", "company_id", "name", "serial_number", "location", "status", "health_percentage", "scrap_date",
	"owner_id", "technician_id", "maintenance_team_id", "category_id", "work_center_id", "created_at", "updated_at",
}

var userCols = []string{"id", "company_id", "email", "name", "role", "is_active", "created_at", "updated_at"}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingDispatcher) Notify(evt notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recordingDispatcher) Events() []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Event(nil), r.events...)
}

func newMockDB(t *testing.T) (*database.DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return &database.DB{Pool: mock}, mock
}

func fixedMachine() *lifecycle.Machine {
	return lifecycle.NewMachine(func() time.Time { return testNow })
}

func requestRows(reqs ...*models.MaintenanceRequest) *pgxmock.Rows {
	rows := pgxmock.NewRows(requestCols)
	for _, r := range reqs {
		rows.AddRow(
			r.ID, r.CompanyID, r.Subject, r.Description, r.Notes, r.RequestType, r.Priority, r.Stage,
			r.ScheduledDate, r.StartDate, r.CompletionDate, r.Duration, r.IsOverdue,
			r.EquipmentID, r.CategoryID, r.TeamID, r.TechnicianID, r.CreatedByID, r.CreatedAt, r.UpdatedAt,
		)
	}
	return rows
}

func equipmentRows(eqs ...*models.Equipment) *pgxmock.Rows {
	rows := pgxmock.NewRows(equipmentCols)
	for _, e := range eqs {
		rows.AddRow(
			e.ID, e.CompanyID, e.Name, e.SerialNumber, e.Location, e.Status, e.HealthPercentage, e.ScrapDate,
			e.OwnerID, e.TechnicianID, e.MaintenanceTeamID, e.CategoryID, e.WorkCenterID, e.CreatedAt, e.UpdatedAt,
		)
	}
	return rows
}

func userRows(users ...*models.User) *pgxmock.Rows {
	rows := pgxmock.NewRows(userCols)
	for _, u := range users {
		rows.AddRow(u.ID, u.CompanyID, u.Email, u.Name, u.Role, u.IsActive, u.CreatedAt, u.UpdatedAt)
	}
	return rows
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func newTestRequest(companyID, createdBy uuid.UUID) *models.MaintenanceRequest {
	created := testNow.Add(-24 * time.Hour)
	return &models.MaintenanceRequest{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Subject:     "Hydraulic press leaking",
		RequestType: models.RequestCorrective,
		Priority:    models.PriorityHigh,
		Stage:       models.StageNew,
		CreatedByID: createdBy,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func newTestEquipment(companyID uuid.UUID) *models.Equipment {
	created := testNow.Add(-30 * 24 * time.Hour)
	return &models.Equipment{
		ID:               uuid.New(),
		CompanyID:        companyID,
		Name:             "Hydraulic press",
		Status:           models.EquipmentActive,
		HealthPercentage: 80,
		CreatedAt:        created,
		UpdatedAt:        created,
	}
}

func newTestUser(companyID uuid.UUID, role string) *models.User {
	return &models.User{
		ID:        uuid.New(),
		CompanyID: companyID,
		Email:     uuid.NewString() + "@example.com",
		Name:      "Test User",
		Role:      role,
		IsActive:  true,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}

func actorFor(u *models.User) lifecycle.Actor {
	return lifecycle.Actor{UserID: u.ID, CompanyID: u.CompanyID, Role: u.Role}
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

func timePtr(t time.Time) *time.Time {
	return &t
}
