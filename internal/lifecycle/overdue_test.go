package lifecycle

import (
	"testing"
	"time"

	"github.com/dimitrije/maintenance-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestIsOverdue_PastDate(t *testing.T) {
	scheduled := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsOverdue(&scheduled, now))
}

func TestIsOverdue_NilDate(t *testing.T) {
	assert.False(t, IsOverdue(nil, time.Now()))
	assert.False(t, IsOverdue(nil, time.Time{}))
}

func TestIsOverdue_FutureDate(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	scheduled := now.Add(time.Hour)

	assert.False(t, IsOverdue(&scheduled, now))
}

func TestIsOverdue_ExactlyNow(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.False(t, IsOverdue(&now, now))
}

func TestEvaluateOverdue_GatesOnStage(t *testing.T) {
	scheduled := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		stage    models.Stage
		expected bool
	}{
		{models.StageNew, true},
		{models.StageInProgress, true},
		{models.StageRepaired, false},
		{models.StageScrap, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			assert.Equal(t, tt.expected, EvaluateOverdue(tt.stage, &scheduled, now))
		})
	}
}
