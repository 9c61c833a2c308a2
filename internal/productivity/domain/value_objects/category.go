package value_objects

import (
	"errors"
	"strings"
)

// Category groups tasks by area of life.
type Category int

const (
	CategoryWork Category = iota + 1
	CategoryPersonal
	CategoryHealth
	CategoryLearning
	CategoryOther
)

// DefaultCategory is used when none is given.
const DefaultCategory = CategoryOther

var ErrInvalidCategory = errors.New("invalid category value")

var categoryNames = map[Category]string{
	CategoryWork:     "work",
	CategoryPersonal: "personal",
	CategoryHealth:   "health",
	CategoryLearning: "learning",
	CategoryOther:    "other",
}

// ParseCategory creates a Category from a string. An empty string yields
// DefaultCategory.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultCategory, nil
	}
	for c, name := range categoryNames {
		if name == s {
			return c, nil
		}
	}
	return 0, ErrInvalidCategory
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

func (c Category) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}
