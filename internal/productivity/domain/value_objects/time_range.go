package value_objects

import (
	"errors"
	"math"
	"time"
)

var ErrInvalidTimeRange = errors.New("end time must not be before start time")

// TimeRange is the period a task was worked on.
type TimeRange struct {
	start time.Time
	end   time.Time
}

// NewTimeRange creates a TimeRange. Both ends are required and end may not
// precede start.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{start: start, end: end}, nil
}

func (r TimeRange) Start() time.Time { return r.start }
func (r TimeRange) End() time.Time   { return r.end }

// Minutes returns the length rounded to whole minutes.
func (r TimeRange) Minutes() int {
	return int(math.Round(r.end.Sub(r.start).Minutes()))
}

// Equal reports whether both ends match.
func (r TimeRange) Equal(o TimeRange) bool {
	return r.start.Equal(o.start) && r.end.Equal(o.end)
}
