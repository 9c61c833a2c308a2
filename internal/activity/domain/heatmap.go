package domain

import "time"

// HeatmapCell is one day of a month heatmap.
type HeatmapCell struct {
	Date              string  `json:"date"`
	Intensity         int     `json:"intensity"`
	TotalHours        float64 `json:"total_hours"`
	CompletedTasks    int     `json:"completed_tasks"`
	ProductivityScore int     `json:"productivity_score"`
}

// BuildHeatmap returns one cell per day of the month, ascending, with zero
// cells for days without a record.
func BuildHeatmap(year int, month time.Month, records []*Activity) []HeatmapCell {
	idx := indexByDay(records)
	days := DaysIn(year, month)

	cells := make([]HeatmapCell, 0, days)
	for d := 1; d <= days; d++ {
		key := DateKey(time.Date(year, month, d, 0, 0, 0, 0, time.UTC))
		cell := HeatmapCell{Date: key}
		if a, ok := idx[key]; ok {
			cell.Intensity = a.Intensity
			cell.TotalHours = a.TotalHours
			cell.CompletedTasks = a.CompletedTasks
			cell.ProductivityScore = a.ProductivityScore
		}
		cells = append(cells, cell)
	}
	return cells
}
