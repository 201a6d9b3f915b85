package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/maintenance-api/internal/database"
	"github.com/dimitrije/maintenance-api/internal/lifecycle"
	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/dimitrije/maintenance-api/internal/notify"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var ErrInvalidHealth = errors.New("health percentage must be between 0 and 100")

// Equipment below this health percentage is logged as critical.
const criticalHealth = 30

type CreateEquipmentInput struct {
	Name              string
	SerialNumber      *string
	Location          *string
	HealthPercentage  *int
	OwnerID           *uuid.UUID
	TechnicianID      *uuid.UUID
	MaintenanceTeamID *uuid.UUID
	CategoryID        *uuid.UUID
	WorkCenterID      *uuid.UUID
}

type EquipmentService struct {
	db       *database.DB
	machine  *lifecycle.Machine
	notifier notify.Dispatcher
	logger   *zap.Logger
}

func NewEquipmentService(db *database.DB, machine *lifecycle.Machine, notifier notify.Dispatcher, logger *zap.Logger) *EquipmentService {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &EquipmentService{db: db, machine: machine, notifier: notifier, logger: logger}
}

// Create registers equipment in ACTIVE status.
func (s *EquipmentService) Create(ctx context.Context, actor lifecycle.Actor, input CreateEquipmentInput) (*models.Equipment, error) {
	if !actor.CanManage() {
		return nil, lifecycle.Forbidden("only admins and maintenance managers can register equipment")
	}
	health := 100
	if input.HealthPercentage != nil {
		health = *input.HealthPercentage
	}
	if health < 0 || health > 100 {
		return nil, ErrInvalidHealth
	}

	var created *models.Equipment
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		refs := []struct {
			table, what string
			id          *uuid.UUID
		}{
			{tableUsers, "owner", input.OwnerID},
			{tableTeams, "team", input.MaintenanceTeamID},
			{tableCategories, "category", input.CategoryID},
			{tableWorkCenters, "work center", input.WorkCenterID},
		}
		for _, ref := range refs {
			if err := checkReference(ctx, tx, actor.CompanyID, ref.table, ref.what, ref.id); err != nil {
				return err
			}
		}

		if input.TechnicianID != nil {
			technician, err := loadUser(ctx, tx, *input.TechnicianID)
			if err != nil {
				return err
			}
			if technician == nil || technician.CompanyID != actor.CompanyID {
				return lifecycle.InvalidReference("technician")
			}
			if !technician.IsActive || !lifecycle.IsAssignableRole(technician.Role) {
				return lifecycle.Forbidden("user cannot be assigned maintenance work")
			}
		}

		now := s.machine.Now()
		row := tx.QueryRow(ctx, `
			INSERT INTO equipment (
				company_id, name, serial_number, location, status, health_percentage,
				owner_id, technician_id, maintenance_team_id, category_id, work_center_id, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
			RETURNING `+equipmentColumns,
			actor.CompanyID, input.Name, input.SerialNumber, input.Location, models.EquipmentActive, health,
			input.OwnerID, input.TechnicianID, input.MaintenanceTeamID, input.CategoryID, input.WorkCenterID, now)

		var err error
		created, err = scanEquipment(row)
		if err != nil {
			return fmt.Errorf("failed to create equipment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *EquipmentService) GetByID(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) (*models.Equipment, error) {
	eq, err := loadEquipment(ctx, s.db.Pool, id, false)
	if err != nil {
		return nil, err
	}
	if eq == nil || eq.CompanyID != actor.CompanyID {
		return nil, lifecycle.NotFound("equipment")
	}
	return eq, nil
}

func (s *EquipmentService) List(ctx context.Context, actor lifecycle.Actor) ([]models.Equipment, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+equipmentColumns+`
		FROM equipment
		WHERE company_id = $1
		ORDER BY name
	`, actor.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	defer rows.Close()

	equipment := []models.Equipment{}
	for rows.Next() {
		eq, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		equipment = append(equipment, *eq)
	}
	return equipment, rows.Err()
}

// UpdateStatus sets the status directly. It is refused while open requests
// reference the equipment, since those own its status.
func (s *EquipmentService) UpdateStatus(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, status models.EquipmentStatus) (*models.Equipment, error) {
	if !actor.CanManage() {
		return nil, lifecycle.Forbidden("only admins and maintenance managers can change equipment status")
	}

	var updated *models.Equipment
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		eq, err := s.lockOwned(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if eq.Status == models.EquipmentScrapped {
			return lifecycle.EquipmentTerminal(eq.Status)
		}

		var open int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM maintenance_requests
			WHERE equipment_id = $1 AND stage IN ('NEW', 'IN_PROGRESS')
		`, id).Scan(&open)
		if err != nil {
			return fmt.Errorf("failed to count open requests: %w", err)
		}
		if open > 0 {
			return lifecycle.Conflict("equipment has open maintenance requests")
		}

		effect := &lifecycle.EquipmentEffect{Status: status}
		updated, err = lifecycle.ApplyEffect(eq, effect, s.machine.Now())
		if err != nil {
			return err
		}
		return writeEquipmentStatus(ctx, tx, updated)
	})
	if err != nil {
		return nil, err
	}

	if updated.Status == models.EquipmentScrapped {
		s.notifier.Notify(notify.Event{
			Type:         notify.EventEquipmentScrapped,
			CompanyID:    updated.CompanyID,
			EquipmentID:  &updated.ID,
			ActorID:      actor.UserID,
			RecipientIDs: recipients(updated.OwnerID),
			OccurredAt:   updated.UpdatedAt,
		})
	}
	return updated, nil
}

func (s *EquipmentService) UpdateHealth(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, health int) (*models.Equipment, error) {
	if !actor.CanMaintain() {
		return nil, lifecycle.Forbidden("role cannot perform maintenance actions")
	}
	if health < 0 || health > 100 {
		return nil, ErrInvalidHealth
	}

	var updated *models.Equipment
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		eq, err := s.lockOwned(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if eq.Status == models.EquipmentScrapped {
			return lifecycle.EquipmentTerminal(eq.Status)
		}

		next := *eq
		next.HealthPercentage = health
		next.UpdatedAt = s.machine.Now()
		_, err = tx.Exec(ctx, `
			UPDATE equipment SET health_percentage = $1, updated_at = $2 WHERE id = $3
		`, next.HealthPercentage, next.UpdatedAt, next.ID)
		if err != nil {
			return fmt.Errorf("failed to update equipment health: %w", err)
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	if updated.HealthPercentage <= criticalHealth {
		s.logger.Warn("equipment health critical",
			zap.String("equipment_id", updated.ID.String()),
			zap.Int("health_percentage", updated.HealthPercentage),
		)
	}
	return updated, nil
}

func (s *EquipmentService) lockOwned(ctx context.Context, tx pgx.Tx, actor lifecycle.Actor, id uuid.UUID) (*models.Equipment, error) {
	eq, err := loadEquipment(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	if eq == nil || eq.CompanyID != actor.CompanyID {
		return nil, lifecycle.NotFound("equipment")
	}
	return eq, nil
}
