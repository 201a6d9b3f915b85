package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/maintenance-api/internal/lifecycle"
	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type scanner interface {
	Scan(dest ...any) error
}

const requestColumns = `id, company_id, subject, description, notes, request_type, priority, stage,
	scheduled_date, start_date, completion_date, duration, is_overdue,
	equipment_id, category_id, team_id, technician_id, created_by_id, created_at, updated_at`

const equipmentColumns = `id, company_id, name, serial_number, location, status, health_percentage, scrap_date,
	owner_id, technician_id, maintenance_team_id, category_id, work_center_id, created_at, updated_at`

const userColumns = `id, company_id, email, name, role, is_active, created_at, updated_at`

func scanRequest(row scanner) (*models.MaintenanceRequest, error) {
	var r models.MaintenanceRequest
	err := row.Scan(
		&r.ID, &r.CompanyID, &r.Subject, &r.Description, &r.Notes, &r.RequestType, &r.Priority, &r.Stage,
		&r.ScheduledDate, &r.StartDate, &r.CompletionDate, &r.Duration, &r.IsOverdue,
		&r.EquipmentID, &r.CategoryID, &r.TeamID, &r.TechnicianID, &r.CreatedByID, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func scanEquipment(row scanner) (*models.Equipment, error) {
	var e models.Equipment
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.Name, &e.SerialNumber, &e.Location, &e.Status, &e.HealthPercentage, &e.ScrapDate,
		&e.OwnerID, &e.TechnicianID, &e.MaintenanceTeamID, &e.CategoryID, &e.WorkCenterID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CompanyID, &u.Email, &u.Name, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// loadRequest reads a request scoped to companyID. A missing or foreign row is NotFound.
func loadRequest(ctx context.Context, q querier, companyID, id uuid.UUID, forUpdate bool) (*models.MaintenanceRequest, error) {
	sql := `SELECT ` + requestColumns + ` FROM maintenance_requests WHERE id = $1 AND company_id = $2`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	req, err := scanRequest(q.QueryRow(ctx, sql, id, companyID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lifecycle.NotFound("request")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	return req, nil
}

// loadEquipment reads equipment by id without tenant filtering; callers
// compare CompanyID themselves. Returns nil when the row does not exist.
func loadEquipment(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (*models.Equipment, error) {
	sql := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	eq, err := scanEquipment(q.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load equipment: %w", err)
	}
	return eq, nil
}

// loadUser returns nil when the user does not exist.
func loadUser(ctx context.Context, q querier, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// companyOf returns the owning company of a row in table, nil when it does
// not exist. table is always one of the constants below.
func companyOf(ctx context.Context, q querier, table string, id uuid.UUID) (*uuid.UUID, error) {
	var companyID uuid.UUID
	err := q.QueryRow(ctx, `SELECT company_id FROM `+table+` WHERE id = $1`, id).Scan(&companyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s reference: %w", table, err)
	}
	return &companyID, nil
}

const (
	tableTeams       = "maintenance_teams"
	tableCategories  = "categories"
	tableWorkCenters = "work_centers"
	tableUsers       = "users"
)

// checkReference validates an optional foreign key against the actor's company.
func checkReference(ctx context.Context, q querier, companyID uuid.UUID, table, what string, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	refCompany, err := companyOf(ctx, q, table, *id)
	if err != nil {
		return err
	}
	return lifecycle.ValidateReference(companyID, refCompany, what)
}

func isTeamMember(ctx context.Context, q querier, teamID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
	`, teamID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}
	return exists, nil
}

func writeRequest(ctx context.Context, q querier, r *models.MaintenanceRequest) error {
	_, err := q.Exec(ctx, `
		UPDATE maintenance_requests SET
			subject = $1, description = $2, notes = $3, request_type = $4, priority = $5, stage = $6,
			scheduled_date = $7, start_date = $8, completion_date = $9, duration = $10, is_overdue = $11,
			team_id = $12, technician_id = $13, updated_at = $14
		WHERE id = $15 AND company_id = $16
	`, r.Subject, r.Description, r.Notes, r.RequestType, r.Priority, r.Stage,
		r.ScheduledDate, r.StartDate, r.CompletionDate, r.Duration, r.IsOverdue,
		r.TeamID, r.TechnicianID, r.UpdatedAt, r.ID, r.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	return nil
}

func writeEquipmentStatus(ctx context.Context, q querier, e *models.Equipment) error {
	_, err := q.Exec(ctx, `
		UPDATE equipment SET status = $1, scrap_date = $2, updated_at = $3
		WHERE id = $4
	`, e.Status, e.ScrapDate, e.UpdatedAt, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update equipment: %w", err)
	}
	return nil
}
