package domain

import (
	"math"
	"sort"
	"time"
)

const (
	// WeekDays is the length of the weekly window, today included.
	WeekDays = 7
	// DefaultTrendPeriod is used when a trend period is not positive.
	DefaultTrendPeriod = 30
	// MaxTrendPeriod bounds trend queries.
	MaxTrendPeriod = 366
	// StreakLookbackDays bounds how far back a streak is searched.
	StreakLookbackDays = 365
)

// DayScore names the best-scoring day of a window.
type DayScore struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

// DayHours names the day with most hours in a window.
type DayHours struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// DailyPoint is one day of the weekly series.
type DailyPoint struct {
	Date              string  `json:"date"`
	CompletedTasks    int     `json:"completed_tasks"`
	TotalHours        float64 `json:"total_hours"`
	ProductivityScore int     `json:"productivity_score"`
	Intensity         int     `json:"intensity"`
}

// WeeklySummary aggregates the seven days ending at the reference date.
type WeeklySummary struct {
	StartDate           string       `json:"start_date"`
	EndDate             string       `json:"end_date"`
	TotalTasks          int          `json:"total_tasks"`
	TotalHours          float64      `json:"total_hours"`
	AverageProductivity int          `json:"average_productivity"`
	CurrentStreak       int          `json:"current_streak"`
	BestDay             *DayScore    `json:"best_day,omitempty"`
	HighestHoursDay     *DayHours    `json:"highest_hours_day,omitempty"`
	DailyData           []DailyPoint `json:"daily_data"`
}

// MonthlySummary aggregates one calendar month.
type MonthlySummary struct {
	Year                int               `json:"year"`
	Month               int               `json:"month"`
	TotalTasks          int               `json:"total_tasks"`
	CompletedTasks      int               `json:"completed_tasks"`
	CompletionRate      int               `json:"completion_rate"`
	TotalHours          float64           `json:"total_hours"`
	AverageProductivity int               `json:"average_productivity"`
	ActiveDays          int               `json:"active_days"`
	ByCategory          CategoryBreakdown `json:"by_category"`
	ByPriority          PriorityBreakdown `json:"by_priority"`
}

// TrendPoint is one recorded day of a trend series.
type TrendPoint struct {
	Date              string  `json:"date"`
	ProductivityScore int     `json:"productivity_score"`
	TotalHours        float64 `json:"total_hours"`
	CompletedTasks    int     `json:"completed_tasks"`
}

// Trends is the series of recorded days in [StartDate, EndDate].
type Trends struct {
	PeriodDays int          `json:"period_days"`
	StartDate  string       `json:"start_date"`
	EndDate    string       `json:"end_date"`
	Points     []TrendPoint `json:"points"`
}

// indexByDay keys rollups by their calendar day. Later duplicates win.
func indexByDay(records []*Activity) map[string]*Activity {
	idx := make(map[string]*Activity, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		idx[r.DateKey()] = r
	}
	return idx
}

// WeekWindow returns the first and last day of the weekly window ending on
// the calendar day of now in loc.
func WeekWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	end := StartOfDay(now, loc)
	return end.AddDate(0, 0, -(WeekDays - 1)), end
}

// BuildWeekly aggregates the seven days ending on now. Records outside the
// window only feed the streak.
func BuildWeekly(records []*Activity, now time.Time, loc *time.Location) *WeeklySummary {
	idx := indexByDay(records)
	start, end := WeekWindow(now, loc)

	summary := &WeeklySummary{
		StartDate: DateKey(start),
		EndDate:   DateKey(end),
		DailyData: make([]DailyPoint, 0, WeekDays),
	}

	var (
		hours     float64
		scoreSum  int
		withData  int
		bestScore int
		bestHours float64
	)
	for i := range WeekDays {
		key := DateKey(start.AddDate(0, 0, i))
		point := DailyPoint{Date: key}

		if a, ok := idx[key]; ok {
			point.CompletedTasks = a.CompletedTasks
			point.TotalHours = a.TotalHours
			point.ProductivityScore = a.ProductivityScore
			point.Intensity = a.Intensity

			summary.TotalTasks += a.CompletedTasks
			hours += a.TotalHours
			scoreSum += a.ProductivityScore
			withData++

			if a.ProductivityScore > bestScore {
				bestScore = a.ProductivityScore
				summary.BestDay = &DayScore{Date: key, Score: a.ProductivityScore}
			}
			if a.TotalHours > bestHours {
				bestHours = a.TotalHours
				summary.HighestHoursDay = &DayHours{Date: key, Hours: a.TotalHours}
			}
		}
		summary.DailyData = append(summary.DailyData, point)
	}

	summary.TotalHours = Round1(hours)
	if withData > 0 {
		summary.AverageProductivity = int(math.Round(float64(scoreSum) / float64(withData)))
	}
	summary.CurrentStreak = CurrentStreak(records, now, loc)
	return summary
}

// CurrentStreak counts consecutive calendar days, newest first starting at
// now, with at least one completed task. A day without a record breaks the
// streak.
func CurrentStreak(records []*Activity, now time.Time, loc *time.Location) int {
	idx := indexByDay(records)
	day := StartOfDay(now, loc)

	streak := 0
	for streak < StreakLookbackDays {
		a, ok := idx[DateKey(day)]
		if !ok || a.CompletedTasks == 0 {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// BuildMonthly aggregates the rollups of one month. Records from other
// months are ignored.
func BuildMonthly(records []*Activity, year int, month time.Month) *MonthlySummary {
	summary := &MonthlySummary{Year: year, Month: int(month)}

	var (
		hours    float64
		scoreSum int
		count    int
	)
	for _, a := range indexByDay(records) {
		if a.Date.Year() != year || a.Date.Month() != month {
			continue
		}
		count++
		summary.TotalTasks += a.TotalTasks
		summary.CompletedTasks += a.CompletedTasks
		hours += a.TotalHours
		scoreSum += a.ProductivityScore
		if a.TotalTasks > 0 {
			summary.ActiveDays++
		}
		summary.ByCategory = summary.ByCategory.Plus(a.TasksByCategory)
		summary.ByPriority = summary.ByPriority.Plus(a.TasksByPriority)
	}

	summary.TotalHours = Round1(hours)
	if summary.TotalTasks > 0 {
		summary.CompletionRate = int(math.Round(float64(summary.CompletedTasks) / float64(summary.TotalTasks) * 100))
	}
	if count > 0 {
		summary.AverageProductivity = int(math.Round(float64(scoreSum) / float64(count)))
	}
	return summary
}

// NormalizeTrendPeriod applies the default period and rejects periods
// longer than MaxTrendPeriod.
func NormalizeTrendPeriod(periodDays int) (int, error) {
	if periodDays <= 0 {
		return DefaultTrendPeriod, nil
	}
	if periodDays > MaxTrendPeriod {
		return 0, ErrInvalidRange
	}
	return periodDays, nil
}

// TrendWindow returns [now - periodDays, now] as calendar days.
func TrendWindow(periodDays int, now time.Time, loc *time.Location) (time.Time, time.Time) {
	end := StartOfDay(now, loc)
	return end.AddDate(0, 0, -periodDays), end
}

// BuildTrends lists the recorded days of the window in ascending order.
// Days without a record are skipped, not zero-filled.
func BuildTrends(records []*Activity, periodDays int, now time.Time, loc *time.Location) *Trends {
	start, end := TrendWindow(periodDays, now, loc)
	from, to := DateKey(start), DateKey(end)

	trends := &Trends{
		PeriodDays: periodDays,
		StartDate:  from,
		EndDate:    to,
		Points:     []TrendPoint{},
	}
	for key, a := range indexByDay(records) {
		if key < from || key > to {
			continue
		}
		trends.Points = append(trends.Points, TrendPoint{
			Date:              key,
			ProductivityScore: a.ProductivityScore,
			TotalHours:        a.TotalHours,
			CompletedTasks:    a.CompletedTasks,
		})
	}
	sort.Slice(trends.Points, func(i, j int) bool {
		return trends.Points[i].Date < trends.Points[j].Date
	})
	return trends
}
