package lifecycle

import (
	"time"

	"github.com/dimitrije/maintenance-api/internal/models"
)

// IsOverdue reports whether a scheduled date lies strictly before now.
// Stage gating is applied by EvaluateOverdue.
func IsOverdue(scheduled *time.Time, now time.Time) bool {
	return scheduled != nil && scheduled.Before(now)
}

// EvaluateOverdue applies IsOverdue only to requests that are still open.
func EvaluateOverdue(stage models.Stage, scheduled *time.Time, now time.Time) bool {
	return stage.IsOpen() && IsOverdue(scheduled, now)
}
