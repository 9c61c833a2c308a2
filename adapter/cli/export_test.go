package cli

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	activityApp "github.com/felixgeelhaar/pulse/internal/activity/application"
	"github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/queries"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatICSTime(t *testing.T) {
	ts := time.Date(2024, time.May, 1, 13, 14, 15, 0, time.FixedZone("UTC+2", 2*60*60))
	assert.Equal(t, "20240501T111415Z", formatICSTime(ts))
}

func TestEscapeICS(t *testing.T) {
	input := "One\\Two;Three,Four\nFive"
	assert.Equal(t, "One\\\\Two\\;Three\\,Four\\nFive", escapeICS(input))
}

func TestGenerateICS_SingleTask(t *testing.T) {
	taskID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	start := time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.May, 2, 9, 30, 0, 0, time.UTC)

	tasks := []queries.TaskDTO{
		{
			ID:         taskID,
			Title:      "Standup, team; sync",
			Category:   "work",
			Priority:   "high",
			Difficulty: 2,
			FocusLevel: 4,
			Status:     "completed",
			StartTime:  start,
			EndTime:    end,
		},
	}

	ics := generateICS(tasks, start)

	assert.Contains(t, ics, "BEGIN:VCALENDAR\r\n")
	assert.Contains(t, ics, "BEGIN:VEVENT\r\n")
	assert.Contains(t, ics, "UID:11111111-1111-1111-1111-111111111111@pulse\r\n")
	assert.Contains(t, ics, "DTSTAMP:20240502T090000Z\r\n")
	assert.Contains(t, ics, "DTSTART:20240502T090000Z\r\n")
	assert.Contains(t, ics, "DTEND:20240502T093000Z\r\n")
	assert.Contains(t, ics, "SUMMARY:Standup\\, team\\; sync\r\n")
	assert.Contains(t, ics, "DESCRIPTION:Priority: high\\nDifficulty: 2/5\\nFocus: 4/5\r\n")
	assert.Contains(t, ics, "CATEGORIES:WORK\r\n")
	assert.Contains(t, ics, "STATUS:CONFIRMED\r\n")
	assert.Contains(t, ics, "END:VEVENT\r\n")
	assert.Contains(t, ics, "END:VCALENDAR\r\n")
}

func TestGenerateICS_StatusMapping(t *testing.T) {
	for status, want := range map[string]string{
		"cancelled":   "STATUS:CANCELLED",
		"pending":     "STATUS:TENTATIVE",
		"in-progress": "STATUS:TENTATIVE",
	} {
		ics := generateICS([]queries.TaskDTO{{Status: status}}, time.Now())
		assert.Contains(t, ics, want, status)
	}
}

func TestWriteActivityCSV(t *testing.T) {
	activities := []activityApp.ActivityDTO{
		{
			Date:              "2026-03-10",
			TotalTasks:        2,
			CompletedTasks:    1,
			TotalHours:        4,
			ProductivityScore: 36,
			Intensity:         3,
			AverageFocusLevel: 3,
			AverageDifficulty: 3,
			TasksByCategory:   domain.CategoryBreakdown{Work: 1, Other: 1},
			TasksByPriority:   domain.PriorityBreakdown{Medium: 2},
			Notes:             "busy, but fine",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeActivityCSV(&buf, activities))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, activityCSVHeader, rows[0])
	assert.Equal(t, []string{
		"2026-03-10", "2", "1", "4.0", "36", "3", "3.0", "3.0",
		"1", "0", "0", "0", "1",
		"0", "2", "0", "busy, but fine",
	}, rows[1])
}

func TestWriteActivityJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeActivityJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
