package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// MaxSuggestions caps the suggested questions.
const MaxSuggestions = 5

var generalSuggestions = []string{
	"Analyze my weekly performance",
	"What tasks should I prioritize today?",
	"Help me set realistic goals",
	"How to improve work-life balance?",
}

// ProductivityContext is a plain-text digest of the last week for an
// assistant, with questions worth asking about it.
type ProductivityContext struct {
	StartDate           string   `json:"start_date"`
	EndDate             string   `json:"end_date"`
	CompletedTasks      int      `json:"completed_tasks"`
	TotalHours          float64  `json:"total_hours"`
	AverageProductivity int      `json:"average_productivity"`
	Summary             string   `json:"summary"`
	Suggestions         []string `json:"suggestions"`
}

// BuildProductivityContext summarizes the recorded days of the weekly
// window ending on now.
func BuildProductivityContext(records []*Activity, now time.Time, loc *time.Location) *ProductivityContext {
	start, end := WeekWindow(now, loc)
	from, to := DateKey(start), DateKey(end)

	idx := indexByDay(records)
	var days []*Activity
	for i := range WeekDays {
		key := DateKey(start.AddDate(0, 0, i))
		if a, ok := idx[key]; ok {
			days = append(days, a)
		}
	}

	pc := &ProductivityContext{StartDate: from, EndDate: to}

	var hours float64
	scoreSum := 0
	for _, a := range days {
		pc.CompletedTasks += a.CompletedTasks
		hours += a.TotalHours
		scoreSum += a.ProductivityScore
	}
	pc.TotalHours = Round1(hours)
	var mean float64
	if len(days) > 0 {
		mean = float64(scoreSum) / float64(len(days))
		pc.AverageProductivity = int(math.Round(mean))
	}

	var b strings.Builder
	if len(days) == 0 {
		fmt.Fprintf(&b, "No activity recorded between %s and %s.", from, to)
	} else {
		fmt.Fprintf(&b, "Productivity from %s to %s:\n", from, to)
		fmt.Fprintf(&b, "- Tasks completed: %d\n", pc.CompletedTasks)
		fmt.Fprintf(&b, "- Hours worked: %sh\n", formatHours(pc.TotalHours))
		fmt.Fprintf(&b, "- Average productivity: %d%%\n", pc.AverageProductivity)
		b.WriteString("\nBy day:\n")
		for _, a := range days {
			fmt.Fprintf(&b, "- %s: %d tasks, %sh, score %d%%\n",
				a.DateKey(), a.CompletedTasks, formatHours(a.TotalHours), a.ProductivityScore)
		}
	}
	pc.Summary = strings.TrimRight(b.String(), "\n")
	pc.Suggestions = Suggestions(mean)
	return pc
}

// Suggestions picks follow-up questions for the unrounded average score.
// Targeted questions come first; the list never exceeds MaxSuggestions. An
// empty week averages 0 and gets the low-score questions.
func Suggestions(avgProductivity float64) []string {
	out := make([]string, 0, MaxSuggestions+1)
	switch {
	case avgProductivity < 50:
		out = append(out,
			"How can I boost my productivity?",
			"What are effective time management techniques?")
	case avgProductivity > 80:
		out = append(out,
			"How can I maintain my high productivity?",
			"Tips for avoiding burnout")
	}
	out = append(out, generalSuggestions...)
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

func formatHours(h float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", h), ".0")
}
