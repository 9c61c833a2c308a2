package domain

import (
	"fmt"
	"time"
)

// DateLayout is the canonical text form of a calendar day.
const DateLayout = "2006-01-02"

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = t.Location()
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DateKey formats the calendar day of t.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate reads a YYYY-MM-DD day as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidRange, s)
	}
	return t, nil
}

// DaysIn returns the number of days in month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ValidateMonth rejects months outside 1..12 and non-positive years.
func ValidateMonth(year, month int) error {
	if year < 1 || month < 1 || month > 12 {
		return fmt.Errorf("%w: %04d-%02d", ErrInvalidRange, year, month)
	}
	return nil
}

// MonthRange returns the first and last day of a month in loc.
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return first, first.AddDate(0, 1, -1)
}

// ValidateRange rejects start after end.
func ValidateRange(start, end time.Time) error {
	if start.After(end) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidRange, DateKey(start), DateKey(end))
	}
	return nil
}
