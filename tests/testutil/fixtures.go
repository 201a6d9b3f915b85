package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/dimitrije/maintenance-api/internal/database"
	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/google/uuid"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateCompany creates a test company
func (f *Fixtures) CreateCompany(t *testing.T) *models.Company {
	t.Helper()
	f.counter++

	company := &models.Company{Name: fmt.Sprintf("Test Company %d", f.counter)}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO companies (name)
		VALUES ($1)
		RETURNING id, created_at, updated_at
	`, company.Name).Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create company: %v", err)
	}

	return company
}

// CreateUser creates a test user in the company with default values
func (f *Fixtures) CreateUser(t *testing.T, company *models.Company, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		CompanyID: company.ID,
		Email:     fmt.Sprintf("user%d@example.com", f.counter),
		Name:      fmt.Sprintf("Test User %d", f.counter),
		Role:      models.RoleEmployee,
		IsActive:  true,
	}

	for _, opt := range opts {
		opt(user)
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO users (company_id, email, name, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, user.CompanyID, user.Email, user.Name, user.Role, user.IsActive).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithName sets the user's name
func WithName(name string) UserOption {
	return func(u *models.User) {
		u.Name = name
	}
}

// WithRole sets the user's company role
func WithRole(role string) UserOption {
	return func(u *models.User) {
		u.Role = role
	}
}

// Inactive marks the user as deactivated
func Inactive() UserOption {
	return func(u *models.User) {
		u.IsActive = false
	}
}

// CreateTeam creates a test maintenance team in the company
func (f *Fixtures) CreateTeam(t *testing.T, company *models.Company, members ...*models.User) *models.MaintenanceTeam {
	t.Helper()
	f.counter++

	team := &models.MaintenanceTeam{
		CompanyID: company.ID,
		Name:      fmt.Sprintf("Test Team %d", f.counter),
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO maintenance_teams (company_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, team.CompanyID, team.Name).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create team: %v", err)
	}

	for _, member := range members {
		f.AddTeamMember(t, team, member)
	}

	return team
}

// AddTeamMember adds a member to a team
func (f *Fixtures) AddTeamMember(t *testing.T, team *models.MaintenanceTeam, user *models.User) {
	t.Helper()

	_, err := f.db.Pool.Exec(context.Background(), `
		INSERT INTO team_members (team_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (team_id, user_id) DO NOTHING
	`, team.ID, user.ID)
	if err != nil {
		t.Fatalf("failed to add team member: %v", err)
	}
}

// CreateCategory creates a test equipment category
func (f *Fixtures) CreateCategory(t *testing.T, company *models.Company) *models.Category {
	t.Helper()
	f.counter++

	category := &models.Category{
		CompanyID: company.ID,
		Name:      fmt.Sprintf("Test Category %d", f.counter),
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO categories (company_id, name)
		VALUES ($1, $2)
		RETURNING id
	`, category.CompanyID, category.Name).Scan(&category.ID)
	if err != nil {
		t.Fatalf("failed to create category: %v", err)
	}

	return category
}

// CreateEquipment creates active test equipment in the company
func (f *Fixtures) CreateEquipment(t *testing.T, company *models.Company, opts ...EquipmentOption) *models.Equipment {
	t.Helper()
	f.counter++

	eq := &models.Equipment{
		CompanyID:        company.ID,
		Name:             fmt.Sprintf("Test Equipment %d", f.counter),
		Status:           models.EquipmentActive,
		HealthPercentage: 100,
	}

	for _, opt := range opts {
		opt(eq)
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO equipment (company_id, name, status, health_percentage, technician_id, maintenance_team_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, eq.CompanyID, eq.Name, string(eq.Status), eq.HealthPercentage,
		eq.TechnicianID, eq.MaintenanceTeamID, eq.CategoryID,
	).Scan(&eq.ID, &eq.CreatedAt, &eq.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create equipment: %v", err)
	}

	return eq
}

// EquipmentOption configures test equipment
type EquipmentOption func(*models.Equipment)

// WithEquipmentTeam sets the equipment's default maintenance team
func WithEquipmentTeam(team *models.MaintenanceTeam) EquipmentOption {
	return func(e *models.Equipment) {
		e.MaintenanceTeamID = &team.ID
	}
}

// WithEquipmentTechnician sets the equipment's default technician
func WithEquipmentTechnician(user *models.User) EquipmentOption {
	return func(e *models.Equipment) {
		e.TechnicianID = &user.ID
	}
}

// WithEquipmentCategory sets the equipment's category
func WithEquipmentCategory(category *models.Category) EquipmentOption {
	return func(e *models.Equipment) {
		e.CategoryID = &category.ID
	}
}

// WithEquipmentStatus sets the equipment's status
func WithEquipmentStatus(status models.EquipmentStatus) EquipmentOption {
	return func(e *models.Equipment) {
		e.Status = status
	}
}

// CreateRequest creates a test maintenance request raised by creator
func (f *Fixtures) CreateRequest(t *testing.T, creator *models.User, opts ...RequestOption) *models.MaintenanceRequest {
	t.Helper()
	f.counter++

	req := &models.MaintenanceRequest{
		CompanyID:   creator.CompanyID,
		Subject:     fmt.Sprintf("Test Request %d", f.counter),
		RequestType: models.RequestCorrective,
		Priority:    models.PriorityMedium,
		Stage:       models.StageNew,
		CreatedByID: creator.ID,
	}

	for _, opt := range opts {
		opt(req)
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO maintenance_requests (
			company_id, subject, request_type, priority, stage, start_date,
			equipment_id, team_id, technician_id, created_by_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, req.CompanyID, req.Subject, string(req.RequestType), string(req.Priority), string(req.Stage), req.StartDate,
		req.EquipmentID, req.TeamID, req.TechnicianID, req.CreatedByID,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	return req
}

// RequestOption configures a test request
type RequestOption func(*models.MaintenanceRequest)

// ForEquipment links the request to equipment and its defaults
func ForEquipment(eq *models.Equipment) RequestOption {
	return func(r *models.MaintenanceRequest) {
		r.EquipmentID = &eq.ID
		r.TeamID = eq.MaintenanceTeamID
		r.TechnicianID = eq.TechnicianID
	}
}

// WithRequestTeam sets the request's team
func WithRequestTeam(team *models.MaintenanceTeam) RequestOption {
	return func(r *models.MaintenanceRequest) {
		r.TeamID = &team.ID
	}
}

// WithTechnician sets the request's technician
func WithTechnician(id uuid.UUID) RequestOption {
	return func(r *models.MaintenanceRequest) {
		r.TechnicianID = &id
	}
}

// Unassigned clears the request's technician
func Unassigned() RequestOption {
	return func(r *models.MaintenanceRequest) {
		r.TechnicianID = nil
	}
}

// WithStage sets the request's stage
func WithStage(stage models.Stage) RequestOption {
	return func(r *models.MaintenanceRequest) {
		r.Stage = stage
	}
}
