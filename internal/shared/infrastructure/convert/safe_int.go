// Package convert holds overflow-safe integer conversions.
package convert

import "math"

// IntToInt32Clamped converts v, saturating at the int32 bounds.
func IntToInt32Clamped(v int) int32 {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return int32(v)
}

// IntToUintClamped converts v, mapping negatives to 0.
func IntToUintClamped(v int) uint {
	if v < 0 {
		return 0
	}
	return uint(v)
}

// Int64ToIntClamped converts v, saturating at the int bounds.
func Int64ToIntClamped(v int64) int {
	switch {
	case v > math.MaxInt:
		return math.MaxInt
	case v < math.MinInt:
		return math.MinInt
	}
	return int(v)
}
