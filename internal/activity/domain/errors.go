package domain

import "errors"

var (
	// ErrActivityNotFound means no rollup exists for the requested day.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrInvalidRange covers inverted ranges and impossible calendar values.
	ErrInvalidRange = errors.New("invalid date range")
	// ErrNotesTooLong is returned when notes exceed MaxNotesLength runes.
	ErrNotesTooLong = errors.New("notes exceed 500 characters")
)
