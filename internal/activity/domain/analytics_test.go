package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, key string) time.Time {
	t.Helper()
	d, err := ParseDate(key, time.UTC)
	require.NoError(t, err)
	return d
}

func record(t *testing.T, key string, completed int, hours float64, score int) *Activity {
	t.Helper()
	a := NewEmptyActivity(uuid.New(), day(t, key))
	a.TotalTasks = completed + 1
	a.CompletedTasks = completed
	a.TotalHours = hours
	a.ProductivityScore = score
	a.Intensity = Intensity(hours, score)
	return a
}

func TestBuildWeekly(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	records := []*Activity{
		record(t, "2024-03-01", 9, 9, 99), // outside the window
		record(t, "2024-03-05", 2, 3.2, 60),
		record(t, "2024-03-07", 4, 6, 80),
		record(t, "2024-03-09", 1, 6, 80),
		record(t, "2024-03-10", 3, 2.1, 40),
	}

	w := BuildWeekly(records, now, time.UTC)

	assert.Equal(t, "2024-03-04", w.StartDate)
	assert.Equal(t, "2024-03-10", w.EndDate)
	assert.Equal(t, 10, w.TotalTasks)
	assert.Equal(t, 17.3, w.TotalHours)
	assert.Equal(t, 65, w.AverageProductivity)
	assert.Equal(t, 2, w.CurrentStreak)

	require.NotNil(t, w.BestDay)
	assert.Equal(t, DayScore{Date: "2024-03-07", Score: 80}, *w.BestDay)
	require.NotNil(t, w.HighestHoursDay)
	assert.Equal(t, DayHours{Date: "2024-03-07", Hours: 6}, *w.HighestHoursDay)

	require.Len(t, w.DailyData, WeekDays)
	assert.Equal(t, "2024-03-04", w.DailyData[0].Date)
	assert.Equal(t, DailyPoint{Date: "2024-03-06"}, w.DailyData[2])
	assert.Equal(t, "2024-03-10", w.DailyData[6].Date)
	assert.Equal(t, 3, w.DailyData[6].CompletedTasks)
}

func TestBuildWeekly_Empty(t *testing.T) {
	w := BuildWeekly(nil, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), time.UTC)

	assert.Equal(t, 0, w.TotalTasks)
	assert.Equal(t, 0.0, w.TotalHours)
	assert.Equal(t, 0, w.AverageProductivity)
	assert.Equal(t, 0, w.CurrentStreak)
	assert.Nil(t, w.BestDay)
	assert.Nil(t, w.HighestHoursDay)
	assert.Len(t, w.DailyData, WeekDays)
	for _, p := range w.DailyData {
		assert.Zero(t, p.CompletedTasks)
		assert.Zero(t, p.ProductivityScore)
	}
}

func TestBuildWeekly_AllZeroHasNoBestDay(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	w := BuildWeekly([]*Activity{record(t, "2024-03-10", 0, 0, 0)}, now, time.UTC)

	assert.Nil(t, w.BestDay)
	assert.Nil(t, w.HighestHoursDay)
}

func TestCurrentStreak(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		records []*Activity
		want    int
	}{
		{
			name: "zero day breaks the streak",
			records: []*Activity{
				record(t, "2024-03-07", 3, 1, 50),
				record(t, "2024-03-08", 2, 1, 50),
				record(t, "2024-03-09", 0, 1, 50),
				record(t, "2024-03-10", 5, 1, 50),
			},
			want: 1,
		},
		{
			name: "missing day breaks the streak",
			records: []*Activity{
				record(t, "2024-03-07", 3, 1, 50),
				record(t, "2024-03-09", 2, 1, 50),
				record(t, "2024-03-10", 1, 1, 50),
			},
			want: 2,
		},
		{
			name: "nothing today means no streak",
			records: []*Activity{
				record(t, "2024-03-09", 2, 1, 50),
			},
			want: 0,
		},
		{
			name: "runs past the weekly window",
			records: func() []*Activity {
				var out []*Activity
				start := day(t, "2024-03-10")
				for i := range 12 {
					out = append(out, record(t, DateKey(start.AddDate(0, 0, -i)), 1, 1, 50))
				}
				return out
			}(),
			want: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentStreak(tt.records, now, time.UTC))
		})
	}
}

func TestBuildMonthly(t *testing.T) {
	a := record(t, "2024-02-03", 3, 4.3, 70)
	a.TotalTasks = 4
	a.TasksByCategory = CategoryBreakdown{Work: 3, Health: 1}
	a.TasksByPriority = PriorityBreakdown{High: 1, Medium: 3}

	b := record(t, "2024-02-20", 1, 1.1, 41)
	b.TotalTasks = 2
	b.TasksByCategory = CategoryBreakdown{Work: 1, Learning: 1}
	b.TasksByPriority = PriorityBreakdown{Low: 2}

	notesOnly := NewEmptyActivity(uuid.New(), day(t, "2024-02-21"))
	other := record(t, "2024-03-01", 5, 5, 90)

	m := BuildMonthly([]*Activity{a, b, notesOnly, other}, 2024, time.February)

	assert.Equal(t, 2024, m.Year)
	assert.Equal(t, 2, m.Month)
	assert.Equal(t, 6, m.TotalTasks)
	assert.Equal(t, 4, m.CompletedTasks)
	assert.Equal(t, 67, m.CompletionRate)
	assert.Equal(t, 5.4, m.TotalHours)
	assert.Equal(t, 37, m.AverageProductivity)
	assert.Equal(t, 2, m.ActiveDays)
	assert.Equal(t, CategoryBreakdown{Work: 4, Health: 1, Learning: 1}, m.ByCategory)
	assert.Equal(t, PriorityBreakdown{Low: 2, Medium: 3, High: 1}, m.ByPriority)
}

func TestBuildMonthly_Empty(t *testing.T) {
	m := BuildMonthly(nil, 2024, time.February)

	assert.Equal(t, 0, m.TotalTasks)
	assert.Equal(t, 0, m.CompletionRate)
	assert.Equal(t, 0, m.AverageProductivity)
	assert.Equal(t, 0, m.ActiveDays)
}

func TestNormalizeTrendPeriod(t *testing.T) {
	p, err := NormalizeTrendPeriod(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTrendPeriod, p)

	p, err = NormalizeTrendPeriod(-4)
	require.NoError(t, err)
	assert.Equal(t, DefaultTrendPeriod, p)

	p, err = NormalizeTrendPeriod(7)
	require.NoError(t, err)
	assert.Equal(t, 7, p)

	_, err = NormalizeTrendPeriod(MaxTrendPeriod + 1)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestBuildTrends(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	records := []*Activity{
		record(t, "2024-03-10", 1, 1, 30),
		record(t, "2024-03-03", 2, 2, 40),
		record(t, "2024-03-02", 9, 9, 90), // before the window
		record(t, "2024-03-05", 3, 3, 50),
	}

	trends := BuildTrends(records, 7, now, time.UTC)

	assert.Equal(t, 7, trends.PeriodDays)
	assert.Equal(t, "2024-03-03", trends.StartDate)
	assert.Equal(t, "2024-03-10", trends.EndDate)
	require.Len(t, trends.Points, 3)
	assert.Equal(t, []string{"2024-03-03", "2024-03-05", "2024-03-10"},
		[]string{trends.Points[0].Date, trends.Points[1].Date, trends.Points[2].Date})
	assert.Equal(t, TrendPoint{Date: "2024-03-05", ProductivityScore: 50, TotalHours: 3, CompletedTasks: 3}, trends.Points[1])
}

func TestBuildTrends_Empty(t *testing.T) {
	trends := BuildTrends(nil, 30, time.Now(), time.UTC)
	assert.NotNil(t, trends.Points)
	assert.Empty(t, trends.Points)
}

func TestBuildHeatmap(t *testing.T) {
	records := []*Activity{
		record(t, "2024-02-01", 2, 5, 85),
		record(t, "2024-02-29", 1, 1, 20),
		record(t, "2024-03-01", 1, 8, 90),
	}

	cells := BuildHeatmap(2024, time.February, records)

	require.Len(t, cells, 29)
	assert.Equal(t, HeatmapCell{Date: "2024-02-01", Intensity: 4, TotalHours: 5, CompletedTasks: 2, ProductivityScore: 85}, cells[0])
	assert.Equal(t, HeatmapCell{Date: "2024-02-02"}, cells[1])
	assert.Equal(t, "2024-02-29", cells[28].Date)
	assert.Equal(t, 1, cells[28].Intensity)
}

func TestBuildHeatmap_Lengths(t *testing.T) {
	assert.Len(t, BuildHeatmap(2023, time.February, nil), 28)
	assert.Len(t, BuildHeatmap(2024, time.April, nil), 30)
	assert.Len(t, BuildHeatmap(2024, time.January, nil), 31)
}
