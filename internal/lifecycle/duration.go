package lifecycle

import (
	"math"
	"time"
)

// DurationHours returns the elapsed hours between start and end rounded to two
// decimals, or nil when start is unknown. A negative span is returned as is.
func DurationHours(start *time.Time, end time.Time) *float64 {
	if start == nil {
		return nil
	}
	hours := float64(end.Sub(*start).Milliseconds()) / float64(time.Hour.Milliseconds())
	rounded := math.Round(hours*100) / 100
	return &rounded
}
