package domain

import "math"

// Score weights.
const (
	completionWeight = 0.6
	difficultyWeight = 0.2
	focusWeight      = 0.2
	// scaleBonus maps a 1-5 rating onto 0-25 points.
	scaleBonus = 5

	MaxScore     = 100
	MaxIntensity = 5
)

// ProductivityScore folds completion, difficulty and focus into 0..100.
// Completion counts 60%; average difficulty and focus count 20% each and
// apply whether or not the tasks were completed.
func ProductivityScore(totalTasks, completedTasks int, avgDifficulty, avgFocus float64) int {
	if totalTasks <= 0 {
		return 0
	}

	completionRate := float64(completedTasks) / float64(totalTasks) * 100
	raw := completionRate*completionWeight +
		avgDifficulty*scaleBonus*difficultyWeight +
		avgFocus*scaleBonus*focusWeight

	score := int(math.Round(raw))
	return max(0, min(score, MaxScore))
}

// Intensity buckets a day for the heatmap. Hours pick the base bucket; a
// score below 30 lowers it by one (never below 1) and a score above 80
// raises it by one (never above 5). A day without hours stays at 0.
func Intensity(totalHours float64, score int) int {
	var level int
	switch {
	case totalHours <= 0:
		return 0
	case totalHours < 2:
		level = 1
	case totalHours < 4:
		level = 2
	case totalHours < 6:
		level = 3
	case totalHours < 8:
		level = 4
	default:
		level = 5
	}

	switch {
	case score < 30:
		level = max(1, level-1)
	case score > 80:
		level = min(MaxIntensity, level+1)
	}
	return level
}

// Round1 rounds to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
