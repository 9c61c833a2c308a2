package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var parseNow = time.Date(2026, 3, 10, 15, 20, 30, 0, time.UTC) // Tuesday

func TestExtractPriority(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		expectedPrio   string
		expectedOutput string
	}{
		{"double exclamation marks", "Review PR !!", "high", "Review PR "},
		{"single exclamation mark", "Call mom !", "medium", "Call mom "},
		{"high priority keyword", "Complete report high priority", "high", "Complete report "},
		{"low priority keyword", "Organize files low priority", "low", "Organize files "},
		{"bare keyword is part of the title", "Climb high", "", "Climb high"},
		{"no priority", "Buy groceries", "", "Buy groceries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prio, output := extractPriority(tt.input)
			assert.Equal(t, tt.expectedPrio, prio)
			assert.Equal(t, tt.expectedOutput, output)
		})
	}
}

func TestExtractCategory(t *testing.T) {
	category, rest := extractCategory("Deploy #Work now")
	assert.Equal(t, "work", category)
	assert.Equal(t, "Deploy  now", rest)

	category, rest = extractCategory("Deploy #chores")
	assert.Empty(t, category)
	assert.Equal(t, "Deploy #chores", rest)
}

func TestExtractStartTime(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		ok       bool
	}{
		{"Standup at 9", 9 * time.Hour, true},
		{"Review at 14:30", 14*time.Hour + 30*time.Minute, true},
		{"Dinner at 7pm", 19 * time.Hour, true},
		{"Call at 12am", 0, true},
		{"Sleep at 25", 0, false},
		{"Look at this", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			offset, _ := extractStartTime(tt.input)
			if !tt.ok {
				assert.Nil(t, offset)
				return
			}
			require.NotNil(t, offset)
			assert.Equal(t, tt.expected, *offset)
		})
	}
}

func TestExtractDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
	}{
		{"Review PR 30min", 30 * time.Minute},
		{"Review PR 45 minutes", 45 * time.Minute},
		{"Write docs 1h", time.Hour},
		{"Write docs for 2 hours", 2 * time.Hour},
		{"Deep work 1.5h", 90 * time.Minute},
		{"Buy groceries", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, _ := extractDuration(tt.input)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestExtractDay(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		input    string
		expected *time.Time
	}{
		{"Gym today", &today},
		{"Gym tomorrow", ptr(today.AddDate(0, 0, 1))},
		{"Gym yesterday", ptr(today.AddDate(0, 0, -1))},
		{"Gym on friday", ptr(today.AddDate(0, 0, 3))},
		{"Gym next tuesday", ptr(today.AddDate(0, 0, 7))},
		{"Gym 2026-02-01", ptr(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))},
		{"Gym", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			day, _ := extractDay(tt.input, parseNow)
			if tt.expected == nil {
				assert.Nil(t, day)
				return
			}
			require.NotNil(t, day)
			assert.True(t, tt.expected.Equal(*day), "got %s", day)
		})
	}
}

func TestNextWeekday(t *testing.T) {
	monday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, monday.AddDate(0, 0, 7), nextWeekday(monday, time.Monday))
	assert.Equal(t, monday.AddDate(0, 0, 4), nextWeekday(monday, time.Friday))
	assert.Equal(t, monday.AddDate(0, 0, 6), nextWeekday(monday, time.Sunday))
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "Write report", cleanTitle("  Write   report  by "))
	assert.Equal(t, "Call mom", cleanTitle("on Call mom"))
	assert.Equal(t, "Buy groceries", cleanTitle("Buy groceries"))
}

func TestParseNaturalLanguage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		title    string
		category string
		priority string
		duration time.Duration
		start    time.Time
	}{
		{
			name:     "time duration and category",
			input:    "Write report at 9 for 2h #work",
			title:    "Write report",
			category: "work",
			duration: 2 * time.Hour,
			start:    time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "yesterday with minutes",
			input:    "Gym yesterday at 18:00 45min #health",
			title:    "Gym",
			category: "health",
			duration: 45 * time.Minute,
			start:    time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC),
		},
		{
			name:     "tomorrow with priority",
			input:    "Read chapter 3 tomorrow at 20 #learning low priority",
			title:    "Read chapter 3",
			category: "learning",
			priority: "low",
			duration: time.Hour,
			start:    time.Date(2026, 3, 11, 20, 0, 0, 0, time.UTC),
		},
		{
			name:     "other day defaults to morning",
			input:    "Plan sprint friday",
			title:    "Plan sprint",
			duration: time.Hour,
			start:    time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "bare title starts now",
			input:    "Buy groceries !!",
			title:    "Buy groceries",
			priority: "high",
			duration: time.Hour,
			start:    time.Date(2026, 3, 10, 15, 20, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseNaturalLanguage(tt.input, parseNow)
			assert.Equal(t, tt.title, got.title)
			assert.Equal(t, tt.category, got.category)
			assert.Equal(t, tt.priority, got.priority)
			assert.Equal(t, tt.duration, got.duration)
			assert.True(t, tt.start.Equal(got.start), "start = %s", got.start)
		})
	}
}

func ptr(t time.Time) *time.Time { return &t }
