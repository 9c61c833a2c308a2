package value_objects

import (
	"errors"
	"fmt"
)

// Rating bounds.
const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 3
)

var (
	ErrInvalidDifficulty = errors.New("difficulty must be between 1 and 5")
	ErrInvalidFocusLevel = errors.New("focus level must be between 1 and 5")
)

// Rating is a 1 to 5 self-assessment such as difficulty or focus.
type Rating struct {
	value int
}

func newRating(v int, invalid error) (Rating, error) {
	if v < MinRating || v > MaxRating {
		return Rating{}, fmt.Errorf("%w: got %d", invalid, v)
	}
	return Rating{value: v}, nil
}

// NewDifficulty validates a difficulty rating.
func NewDifficulty(v int) (Rating, error) {
	return newRating(v, ErrInvalidDifficulty)
}

// NewFocusLevel validates a focus rating.
func NewFocusLevel(v int) (Rating, error) {
	return newRating(v, ErrInvalidFocusLevel)
}

// DefaultRatingValue returns the middle of the scale.
func DefaultRatingValue() Rating {
	return Rating{value: DefaultRating}
}

// Value returns the rating as an int. The zero Rating reports the default.
func (r Rating) Value() int {
	if r.value == 0 {
		return DefaultRating
	}
	return r.value
}
