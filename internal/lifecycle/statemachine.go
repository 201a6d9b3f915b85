// Package lifecycle holds the maintenance request rules: the stage graph,
// assignment eligibility, derived fields and the paired equipment effects.
// Nothing here touches storage; callers load rows, ask for a decision and
// commit the returned values in one transaction.
package lifecycle

import (
	"time"

	"github.com/dimitrije/maintenance-api/internal/models"
)

var transitions = map[models.Stage][]models.Stage{
	models.StageNew:        {models.StageInProgress, models.StageRepaired, models.StageScrap},
	models.StageInProgress: {models.StageInProgress, models.StageRepaired, models.StageScrap},
}

// CanTransition reports whether the stage graph allows from -> to.
// IN_PROGRESS -> IN_PROGRESS is an idempotent re-entry.
func CanTransition(from, to models.Stage) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type TransitionOptions struct {
	Duration *float64
	Notes    *string
}

// TransitionResult is the outcome of a stage change. Effect is nil when the
// request has no equipment or the stage does not affect it.
type TransitionResult struct {
	Request      *models.MaintenanceRequest
	Previous     models.Stage
	Effect       *EquipmentEffect
	SelfAssigned bool
}

type Machine struct {
	now func() time.Time
}

func NewMachine(now func() time.Time) *Machine {
	if now == nil {
		now = time.Now
	}
	return &Machine{now: now}
}

func (m *Machine) Now() time.Time {
	return m.now()
}

// Transition validates and applies a stage change to a copy of req.
func (m *Machine) Transition(req *models.MaintenanceRequest, target models.Stage, actor Actor, opts TransitionOptions) (*TransitionResult, error) {
	if !actor.CanMaintain() {
		return nil, Forbidden("role cannot perform maintenance actions")
	}
	if req.Stage.IsTerminal() {
		return nil, InvalidTransition("request is closed", req.Stage)
	}
	if !CanTransition(req.Stage, target) {
		return nil, InvalidTransition("cannot move to "+string(target), req.Stage)
	}

	now := m.now()
	updated := *req
	updated.Stage = target
	updated.UpdatedAt = now

	result := &TransitionResult{Request: &updated, Previous: req.Stage}
	var effect *EquipmentEffect

	switch target {
	case models.StageInProgress:
		if updated.StartDate == nil {
			updated.StartDate = &now
		}
		if updated.TechnicianID == nil && actor.Role == models.RoleTechnician {
			self := actor.UserID
			updated.TechnicianID = &self
			result.SelfAssigned = true
		}
		effect = UnderMaintenance()

	case models.StageRepaired:
		updated.CompletionDate = &now
		if opts.Duration != nil {
			d := *opts.Duration
			updated.Duration = &d
		} else {
			updated.Duration = DurationHours(updated.StartDate, now)
		}
		effect = Restore()

	case models.StageScrap:
		effect = Scrap(now)
	}

	if opts.Notes != nil {
		notes := *opts.Notes
		updated.Notes = &notes
	}

	updated.IsOverdue = EvaluateOverdue(updated.Stage, updated.ScheduledDate, now)

	if updated.EquipmentID != nil {
		result.Effect = effect
	}
	return result, nil
}

// Reschedule sets the scheduled date and recomputes the overdue flag.
func (m *Machine) Reschedule(req *models.MaintenanceRequest, scheduled *time.Time) *models.MaintenanceRequest {
	now := m.now()
	updated := *req
	updated.ScheduledDate = scheduled
	updated.IsOverdue = EvaluateOverdue(updated.Stage, scheduled, now)
	updated.UpdatedAt = now
	return &updated
}

// Refresh recomputes derived fields for a request read from storage.
func (m *Machine) Refresh(req *models.MaintenanceRequest) {
	req.IsOverdue = EvaluateOverdue(req.Stage, req.ScheduledDate, m.now())
}

// CanDelete reports whether actor may delete req: open NEW requests by their
// creator or a manager, any stage by an admin.
func CanDelete(req *models.MaintenanceRequest, actor Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	if req.CreatedByID != actor.UserID && !actor.CanManage() {
		return Forbidden("only the creator or a manager can delete this request")
	}
	if req.Stage != models.StageNew {
		return InvalidTransition("only NEW requests can be deleted", req.Stage)
	}
	return nil
}
