package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dimitrije/maintenance-api/internal/database"
	"github.com/dimitrije/maintenance-api/internal/lifecycle"
	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/dimitrije/maintenance-api/internal/notify"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CreateRequestInput struct {
	Subject       string
	Description   *string
	RequestType   models.RequestType
	Priority      models.Priority
	ScheduledDate *time.Time
	EquipmentID   *uuid.UUID
	TeamID        *uuid.UUID
	TechnicianID  *uuid.UUID
}

// RequestFilter narrows List. Zero fields match everything.
type RequestFilter struct {
	Stage        models.Stage
	EquipmentID  *uuid.UUID
	TechnicianID *uuid.UUID
	TeamID       *uuid.UUID
}

// DetailsInput holds the editable fields that never affect the stage.
type DetailsInput struct {
	Subject     *string
	Description *string
	Notes       *string
	RequestType *models.RequestType
	Priority    *models.Priority
}

type RequestService struct {
	db       *database.DB
	machine  *lifecycle.Machine
	notifier notify.Dispatcher
	logger   *zap.Logger
}

func NewRequestService(db *database.DB, machine *lifecycle.Machine, notifier notify.Dispatcher, logger *zap.Logger) *RequestService {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &RequestService{db: db, machine: machine, notifier: notifier, logger: logger}
}

func (s *RequestService) Create(ctx context.Context, actor lifecycle.Actor, input CreateRequestInput) (*models.MaintenanceRequest, error) {
	if input.RequestType == "" {
		input.RequestType = models.RequestCorrective
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}

	var created *models.MaintenanceRequest
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		var eq *models.Equipment
		if input.EquipmentID != nil {
			var err error
			eq, err = loadEquipment(ctx, tx, *input.EquipmentID, false)
			if err != nil {
				return err
			}
			if eq == nil {
				return lifecycle.InvalidReference("equipment")
			}
			if err := lifecycle.ValidateReference(actor.CompanyID, &eq.CompanyID, "equipment"); err != nil {
				return err
			}
			if eq.Status == models.EquipmentScrapped {
				return lifecycle.EquipmentTerminal(eq.Status)
			}
		}

		d := lifecycle.ResolveDefaults(lifecycle.AssignmentInput{
			TeamID:       input.TeamID,
			TechnicianID: input.TechnicianID,
		}, eq)

		if err := checkReference(ctx, tx, actor.CompanyID, tableTeams, "team", input.TeamID); err != nil {
			return err
		}

		draft := &models.MaintenanceRequest{CompanyID: actor.CompanyID, Stage: models.StageNew, TeamID: d.TeamID}
		if input.TechnicianID != nil {
			if err := s.checkTechnician(ctx, tx, draft, *input.TechnicianID, actor); err != nil {
				return err
			}
		}

		now := s.machine.Now()
		row := tx.QueryRow(ctx, `
			INSERT INTO maintenance_requests (
				company_id, subject, description, request_type, priority, stage, scheduled_date, is_overdue,
				equipment_id, category_id, team_id, technician_id, created_by_id, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
			RETURNING `+requestColumns,
			actor.CompanyID, input.Subject, input.Description, input.RequestType, input.Priority, models.StageNew,
			input.ScheduledDate, lifecycle.EvaluateOverdue(models.StageNew, input.ScheduledDate, now),
			input.EquipmentID, d.CategoryID, d.TeamID, d.TechnicianID, actor.UserID, now)

		var err error
		created, err = scanRequest(row)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(notify.EventRequestCreated, created, actor, recipients(created.TechnicianID))
	return created, nil
}

func (s *RequestService) GetByID(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) (*models.MaintenanceRequest, error) {
	req, err := loadRequest(ctx, s.db.Pool, actor.CompanyID, id, false)
	if err != nil {
		return nil, err
	}
	s.machine.Refresh(req)
	return req, nil
}

func (s *RequestService) List(ctx context.Context, actor lifecycle.Actor, filter RequestFilter) ([]models.MaintenanceRequest, error) {
	conds := []string{"company_id = $1"}
	args := []any{actor.CompanyID}
	add := func(column string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if filter.Stage != "" {
		add("stage", filter.Stage)
	}
	if filter.EquipmentID != nil {
		add("equipment_id", *filter.EquipmentID)
	}
	if filter.TechnicianID != nil {
		add("technician_id", *filter.TechnicianID)
	}
	if filter.TeamID != nil {
		add("team_id", *filter.TeamID)
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+requestColumns+`
		FROM maintenance_requests
		WHERE `+strings.Join(conds, " AND ")+`
		ORDER BY created_at DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	requests := []models.MaintenanceRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		s.machine.Refresh(req)
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// Transition moves a request to target and commits the paired equipment
// status change in the same transaction.
func (s *RequestService) Transition(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, target models.Stage, opts lifecycle.TransitionOptions) (*models.MaintenanceRequest, error) {
	var result *lifecycle.TransitionResult
	var equipment *models.Equipment

	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		req, err := loadRequest(ctx, tx, actor.CompanyID, id, true)
		if err != nil {
			return err
		}

		result, err = s.machine.Transition(req, target, actor, opts)
		if err != nil {
			return err
		}
		if result.SelfAssigned {
			if err := s.checkClaimant(ctx, tx, req, actor); err != nil {
				return err
			}
		}

		if result.Effect != nil {
			eq, err := loadEquipment(ctx, tx, *req.EquipmentID, true)
			if err != nil {
				return err
			}
			if eq == nil {
				return lifecycle.NotFound("equipment")
			}
			equipment, err = lifecycle.ApplyEffect(eq, result.Effect, result.Request.UpdatedAt)
			if err != nil {
				return err
			}
		}

		if err := writeRequest(ctx, tx, result.Request); err != nil {
			return err
		}
		if equipment != nil {
			return writeEquipmentStatus(ctx, tx, equipment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated := result.Request
	if updated.Duration != nil && *updated.Duration < 0 {
		s.logger.Warn("negative repair duration",
			zap.String("request_id", updated.ID.String()),
			zap.Float64("duration", *updated.Duration),
		)
	}

	s.publish(notify.EventStageChanged, updated, actor, recipients(&updated.CreatedByID, updated.TechnicianID))
	if equipment != nil && equipment.Status == models.EquipmentScrapped {
		s.notifier.Notify(notify.Event{
			Type:         notify.EventEquipmentScrapped,
			CompanyID:    equipment.CompanyID,
			RequestID:    &updated.ID,
			EquipmentID:  &equipment.ID,
			ActorID:      actor.UserID,
			RecipientIDs: recipients(equipment.OwnerID),
			Stage:        updated.Stage,
			OccurredAt:   updated.UpdatedAt,
		})
	}
	return updated, nil
}

// AssignTechnician sets the technician on behalf of a manager, replacing any
// existing assignment.
func (s *RequestService) AssignTechnician(ctx context.Context, actor lifecycle.Actor, id, technicianID uuid.UUID) (*models.MaintenanceRequest, error) {
	var updated *models.MaintenanceRequest
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		req, err := loadRequest(ctx, tx, actor.CompanyID, id, true)
		if err != nil {
			return err
		}
		if err := lifecycle.ValidateAssign(req, actor); err != nil {
			return err
		}
		if err := s.checkTechnician(ctx, tx, req, technicianID, actor); err != nil {
			return err
		}

		next := *req
		next.TechnicianID = &technicianID
		next.UpdatedAt = s.machine.Now()
		s.machine.Refresh(&next)
		if err := writeRequest(ctx, tx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(notify.EventRequestAssigned, updated, actor, recipients(updated.TechnicianID))
	return updated, nil
}

// SelfAssign lets an eligible technician claim an unassigned open request.
// The write is conditioned on technician_id still being NULL, so concurrent
// claims resolve to exactly one winner.
func (s *RequestService) SelfAssign(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) (*models.MaintenanceRequest, error) {
	req, err := loadRequest(ctx, s.db.Pool, actor.CompanyID, id, false)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.ValidateSelfAssign(req, actor); err != nil {
		return nil, err
	}
	if err := s.checkClaimant(ctx, s.db.Pool, req, actor); err != nil {
		return nil, err
	}

	updated, err := scanRequest(s.db.Pool.QueryRow(ctx, `
		UPDATE maintenance_requests
		SET technician_id = $1, updated_at = $2
		WHERE id = $3 AND company_id = $4 AND technician_id IS NULL AND stage IN ('NEW', 'IN_PROGRESS')
		RETURNING `+requestColumns,
		actor.UserID, s.machine.Now(), id, actor.CompanyID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, s.selfAssignLost(ctx, actor, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to self-assign request: %w", err)
	}

	s.machine.Refresh(updated)
	s.publish(notify.EventRequestAssigned, updated, actor, recipients(updated.TechnicianID))
	return updated, nil
}

// selfAssignLost explains why the conditional update matched no row.
func (s *RequestService) selfAssignLost(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) error {
	current, err := loadRequest(ctx, s.db.Pool, actor.CompanyID, id, false)
	if err != nil {
		return err
	}
	if current.Stage.IsTerminal() {
		return lifecycle.InvalidTransition("cannot claim a closed request", current.Stage)
	}
	return lifecycle.Conflict("request is already assigned")
}

func (s *RequestService) UpdateSchedule(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, scheduled *time.Time) (*models.MaintenanceRequest, error) {
	var updated *models.MaintenanceRequest
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		req, err := loadRequest(ctx, tx, actor.CompanyID, id, true)
		if err != nil {
			return err
		}
		if !actor.CanMaintain() && req.CreatedByID != actor.UserID {
			return lifecycle.Forbidden("only the creator or maintenance staff can reschedule")
		}
		if req.Stage.IsTerminal() {
			return lifecycle.InvalidTransition("cannot reschedule a closed request", req.Stage)
		}

		updated = s.machine.Reschedule(req, scheduled)
		return writeRequest(ctx, tx, updated)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateDetails edits descriptive fields. Stage only changes through Transition.
func (s *RequestService) UpdateDetails(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, input DetailsInput) (*models.MaintenanceRequest, error) {
	var updated *models.MaintenanceRequest
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		req, err := loadRequest(ctx, tx, actor.CompanyID, id, true)
		if err != nil {
			return err
		}
		if !actor.CanMaintain() && req.CreatedByID != actor.UserID {
			return lifecycle.Forbidden("only the creator or maintenance staff can edit this request")
		}

		next := *req
		if input.Subject != nil {
			next.Subject = *input.Subject
		}
		if input.Description != nil {
			next.Description = input.Description
		}
		if input.Notes != nil {
			next.Notes = input.Notes
		}
		if input.RequestType != nil {
			next.RequestType = *input.RequestType
		}
		if input.Priority != nil {
			next.Priority = *input.Priority
		}
		next.UpdatedAt = s.machine.Now()
		s.machine.Refresh(&next)

		if err := writeRequest(ctx, tx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *RequestService) Delete(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx pgx.Tx) error {
		req, err := loadRequest(ctx, tx, actor.CompanyID, id, true)
		if err != nil {
			return err
		}
		if err := lifecycle.CanDelete(req, actor); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM maintenance_requests WHERE id = $1 AND company_id = $2`, id, actor.CompanyID); err != nil {
			return fmt.Errorf("failed to delete request: %w", err)
		}
		return nil
	})
}

// checkTechnician loads the technician and their team membership and applies
// the eligibility rules for req.
func (s *RequestService) checkTechnician(ctx context.Context, q querier, req *models.MaintenanceRequest, technicianID uuid.UUID, actor lifecycle.Actor) error {
	technician, err := loadUser(ctx, q, technicianID)
	if err != nil {
		return err
	}

	member := false
	if technician != nil && req.TeamID != nil {
		member, err = isTeamMember(ctx, q, *req.TeamID, technicianID)
		if err != nil {
			return err
		}
	}
	return lifecycle.ValidateTechnician(req, technician, member, actor)
}

// checkClaimant re-reads the acting user so a deactivated or demoted account
// cannot take work on an old token.
func (s *RequestService) checkClaimant(ctx context.Context, q querier, req *models.MaintenanceRequest, actor lifecycle.Actor) error {
	user, err := loadUser(ctx, q, actor.UserID)
	if err != nil {
		return err
	}

	member := false
	if user != nil && req.TeamID != nil && user.Role != models.RoleMaintenanceManager {
		member, err = isTeamMember(ctx, q, *req.TeamID, user.ID)
		if err != nil {
			return err
		}
	}
	return lifecycle.ValidateClaimant(req, user, member)
}

func (s *RequestService) publish(eventType notify.EventType, req *models.MaintenanceRequest, actor lifecycle.Actor, to []uuid.UUID) {
	s.notifier.Notify(notify.Event{
		Type:         eventType,
		CompanyID:    req.CompanyID,
		RequestID:    &req.ID,
		EquipmentID:  req.EquipmentID,
		ActorID:      actor.UserID,
		RecipientIDs: to,
		Stage:        req.Stage,
		OccurredAt:   req.UpdatedAt,
	})
}

func recipients(ids ...*uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id != nil {
			out = append(out, *id)
		}
	}
	return out
}
