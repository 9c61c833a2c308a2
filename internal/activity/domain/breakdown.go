package domain

// Category classifies a task.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryHealth   Category = "health"
	CategoryLearning Category = "learning"
	CategoryOther    Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryWork, CategoryPersonal, CategoryHealth, CategoryLearning, CategoryOther}

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// CategoryBreakdown counts tasks per category. Every category is always
// present, so the fields sum to the number of tasks counted.
type CategoryBreakdown struct {
	Work     int `json:"work"`
	Personal int `json:"personal"`
	Health   int `json:"health"`
	Learning int `json:"learning"`
	Other    int `json:"other"`
}

// Add counts one task. Unknown categories are counted as other.
func (b *CategoryBreakdown) Add(c Category) {
	switch c {
	case CategoryWork:
		b.Work++
	case CategoryPersonal:
		b.Personal++
	case CategoryHealth:
		b.Health++
	case CategoryLearning:
		b.Learning++
	default:
		b.Other++
	}
}

// Plus returns the field-wise sum.
func (b CategoryBreakdown) Plus(o CategoryBreakdown) CategoryBreakdown {
	return CategoryBreakdown{
		Work:     b.Work + o.Work,
		Personal: b.Personal + o.Personal,
		Health:   b.Health + o.Health,
		Learning: b.Learning + o.Learning,
		Other:    b.Other + o.Other,
	}
}

func (b CategoryBreakdown) Total() int {
	return b.Work + b.Personal + b.Health + b.Learning + b.Other
}

// PriorityBreakdown counts tasks per priority.
type PriorityBreakdown struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// Add counts one task. Unknown priorities are counted as medium.
func (b *PriorityBreakdown) Add(p Priority) {
	switch p {
	case PriorityLow:
		b.Low++
	case PriorityHigh:
		b.High++
	default:
		b.Medium++
	}
}

func (b PriorityBreakdown) Plus(o PriorityBreakdown) PriorityBreakdown {
	return PriorityBreakdown{Low: b.Low + o.Low, Medium: b.Medium + o.Medium, High: b.High + o.High}
}

func (b PriorityBreakdown) Total() int {
	return b.Low + b.Medium + b.High
}
