package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newRequest(stage models.Stage) *models.MaintenanceRequest {
	equipmentID := uuid.New()
	return &models.MaintenanceRequest{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		Subject:     "Spindle noise",
		RequestType: models.RequestCorrective,
		Priority:    models.PriorityMedium,
		Stage:       stage,
		EquipmentID: &equipmentID,
		CreatedByID: uuid.New(),
	}
}

func technicianActor(companyID uuid.UUID) Actor {
	return Actor{UserID: uuid.New(), CompanyID: companyID, Role: models.RoleTechnician}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.Stage
		allowed  bool
	}{
		{models.StageNew, models.StageInProgress, true},
		{models.StageNew, models.StageRepaired, true},
		{models.StageNew, models.StageScrap, true},
		{models.StageNew, models.StageNew, false},
		{models.StageInProgress, models.StageInProgress, true},
		{models.StageInProgress, models.StageRepaired, true},
		{models.StageInProgress, models.StageScrap, true},
		{models.StageInProgress, models.StageNew, false},
		{models.StageRepaired, models.StageInProgress, false},
		{models.StageRepaired, models.StageScrap, false},
		{models.StageScrap, models.StageRepaired, false},
		{models.StageScrap, models.StageNew, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTransition_ForbiddenForEmployee(t *testing.T) {
	m := NewMachine(nil)
	req := newRequest(models.StageNew)
	actor := Actor{UserID: uuid.New(), CompanyID: req.CompanyID, Role: models.RoleEmployee}

	_, err := m.Transition(req, models.StageInProgress, actor, TransitionOptions{})

	assert.True(t, errors.Is(err, ErrForbidden))
}

func TestTransition_TerminalStageRejected(t *testing.T) {
	m := NewMachine(nil)

	for _, stage := range []models.Stage{models.StageRepaired, models.StageScrap} {
		req := newRequest(stage)

		_, err := m.Transition(req, models.StageInProgress, technicianActor(req.CompanyID), TransitionOptions{})

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidTransition))

		var lerr *Error
		require.True(t, errors.As(err, &lerr))
		assert.Equal(t, stage, lerr.Stage)
	}
}

func TestTransition_UnknownTargetRejected(t *testing.T) {
	m := NewMachine(nil)
	req := newRequest(models.StageNew)

	_, err := m.Transition(req, models.StageNew, technicianActor(req.CompanyID), TransitionOptions{})

	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestTransition_EnterInProgress_SetsStartAndSelfAssigns(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	m := NewMachine(fixedClock(now))
	req := newRequest(models.StageNew)
	actor := technicianActor(req.CompanyID)

	result, err := m.Transition(req, models.StageInProgress, actor, TransitionOptions{})

	require.NoError(t, err)
	assert.Equal(t, models.StageInProgress, result.Request.Stage)
	assert.Equal(t, models.StageNew, result.Previous)
	require.NotNil(t, result.Request.StartDate)
	assert.Equal(t, now, *result.Request.StartDate)
	require.NotNil(t, result.Request.TechnicianID)
	assert.Equal(t, actor.UserID, *result.Request.TechnicianID)
	assert.True(t, result.SelfAssigned)
	require.NotNil(t, result.Effect)
	assert.Equal(t, models.EquipmentUnderMaintenance, result.Effect.Status)
	assert.Equal(t, models.StageNew, req.Stage, "input must not be mutated")
}

func TestTransition_EnterInProgress_ManagerDoesNotSelfAssign(t *testing.T) {
	m := NewMachine(nil)
	req := newRequest(models.StageNew)
	actor := Actor{UserID: uuid.New(), CompanyID: req.CompanyID, Role: models.RoleMaintenanceManager}

	result, err := m.Transition(req, models.StageInProgress, actor, TransitionOptions{})

	require.NoError(t, err)
	assert.Nil(t, result.Request.TechnicianID)
	assert.False(t, result.SelfAssigned)
}

func TestTransition_EnterInProgressTwice_KeepsStartDate(t *testing.T) {
	first := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	clock := first
	m := NewMachine(func() time.Time { return clock })
	req := newRequest(models.StageNew)
	actor := technicianActor(req.CompanyID)

	r1, err := m.Transition(req, models.StageInProgress, actor, TransitionOptions{})
	require.NoError(t, err)

	clock = first.Add(2 * time.Hour)
	r2, err := m.Transition(r1.Request, models.StageInProgress, actor, TransitionOptions{})

	require.NoError(t, err)
	require.NotNil(t, r2.Request.StartDate)
	assert.Equal(t, first, *r2.Request.StartDate)
	assert.False(t, r2.SelfAssigned)
}

func TestTransition_EnterRepaired_ComputesDuration(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	completion := time.Date(2024, 1, 1, 3, 30, 0, 0, time.UTC)
	m := NewMachine(fixedClock(completion))
	req := newRequest(models.StageInProgress)
	req.StartDate = &start

	result, err := m.Transition(req, models.StageRepaired, technicianActor(req.CompanyID), TransitionOptions{})

	require.NoError(t, err)
	require.NotNil(t, result.Request.CompletionDate)
	assert.Equal(t, completion, *result.Request.CompletionDate)
	require.NotNil(t, result.Request.Duration)
	assert.Equal(t, 3.5, *result.Request.Duration)
	require.NotNil(t, result.Effect)
	assert.Equal(t, models.EquipmentActive, result.Effect.Status)
}

func TestTransition_EnterRepaired_DurationOverride(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMachine(fixedClock(start.Add(10 * time.Hour)))
	req := newRequest(models.StageInProgress)
	req.StartDate = &start
	override := 2.25

	result, err := m.Transition(req, models.StageRepaired, technicianActor(req.CompanyID), TransitionOptions{Duration: &override})

	require.NoError(t, err)
	require.NotNil(t, result.Request.Duration)
	assert.Equal(t, 2.25, *result.Request.Duration)
}

func TestTransition_NewToRepaired_NoStartDateLeavesDurationNil(t *testing.T) {
	m := NewMachine(nil)
	req := newRequest(models.StageNew)

	result, err := m.Transition(req, models.StageRepaired, technicianActor(req.CompanyID), TransitionOptions{})

	require.NoError(t, err)
	assert.Nil(t, result.Request.Duration)
	assert.NotNil(t, result.Request.CompletionDate)
}

func TestTransition_NewToScrap_RequestsScrapEffect(t *testing.T) {
	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	m := NewMachine(fixedClock(now))
	req := newRequest(models.StageNew)

	result, err := m.Transition(req, models.StageScrap, technicianActor(req.CompanyID), TransitionOptions{})

	require.NoError(t, err)
	require.NotNil(t, result.Effect)
	assert.Equal(t, models.EquipmentScrapped, result.Effect.Status)
	require.NotNil(t, result.Effect.ScrapDate)
	assert.Equal(t, now, *result.Effect.ScrapDate)

	eq := newEquipment(models.EquipmentActive)
	scrapped, err := ApplyEffect(eq, result.Effect, now)
	require.NoError(t, err)
	assert.Equal(t, models.EquipmentScrapped, scrapped.Status)
	assert.Equal(t, now, *scrapped.ScrapDate)

	second := newRequest(models.StageNew)
	again, err := m.Transition(second, models.StageScrap, technicianActor(second.CompanyID), TransitionOptions{})
	require.NoError(t, err)
	_, err = ApplyEffect(scrapped, again.Effect, now)
	assert.True(t, errors.Is(err, ErrEquipmentTerminal))
}

func TestTransition_WithoutEquipmentHasNoEffect(t *testing.T) {
	m := NewMachine(nil)
	req := newRequest(models.StageNew)
	req.EquipmentID = nil

	result, err := m.Transition(req, models.StageScrap, technicianActor(req.CompanyID), TransitionOptions{})

	require.NoError(t, err)
	assert.Nil(t, result.Effect)
}

func TestTransition_NotesOverwrite(t *testing.T) {
	m := NewMachine(nil)
	req := newRequest(models.StageNew)
	old := "old"
	req.Notes = &old
	notes := "replaced bearing"

	result, err := m.Transition(req, models.StageInProgress, technicianActor(req.CompanyID), TransitionOptions{Notes: &notes})

	require.NoError(t, err)
	require.NotNil(t, result.Request.Notes)
	assert.Equal(t, "replaced bearing", *result.Request.Notes)
}

func TestTransition_ClosingClearsOverdue(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	m := NewMachine(fixedClock(now))
	req := newRequest(models.StageInProgress)
	scheduled := now.Add(-48 * time.Hour)
	req.ScheduledDate = &scheduled
	req.IsOverdue = true

	result, err := m.Transition(req, models.StageRepaired, technicianActor(req.CompanyID), TransitionOptions{})

	require.NoError(t, err)
	assert.False(t, result.Request.IsOverdue)
}

func TestReschedule_RecomputesOverdue(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	m := NewMachine(fixedClock(now))
	req := newRequest(models.StageNew)

	past := now.Add(-time.Hour)
	updated := m.Reschedule(req, &past)
	assert.True(t, updated.IsOverdue)

	future := now.Add(time.Hour)
	updated = m.Reschedule(updated, &future)
	assert.False(t, updated.IsOverdue)

	updated = m.Reschedule(updated, nil)
	assert.False(t, updated.IsOverdue)
	assert.Nil(t, updated.ScheduledDate)
}

func TestCanDelete(t *testing.T) {
	req := newRequest(models.StageNew)
	creator := Actor{UserID: req.CreatedByID, CompanyID: req.CompanyID, Role: models.RoleEmployee}
	other := Actor{UserID: uuid.New(), CompanyID: req.CompanyID, Role: models.RoleEmployee}
	admin := Actor{UserID: uuid.New(), CompanyID: req.CompanyID, Role: models.RoleAdmin}

	assert.NoError(t, CanDelete(req, creator))
	assert.True(t, errors.Is(CanDelete(req, other), ErrForbidden))

	req.Stage = models.StageInProgress
	assert.True(t, errors.Is(CanDelete(req, creator), ErrInvalidTransition))
	assert.NoError(t, CanDelete(req, admin))
}
