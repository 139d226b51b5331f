// Package ticks picks human-friendly step durations for resampling and
// axis ticks by rounding a raw target up to the next rung of a fixed ladder.
package ticks

// resampleLadder holds the step candidates for range query resolution.
// Finer rungs than the axis ladder so short ranges keep detail.
var resampleLadder = []int64{
	1, 2, 5, 10, 15, 30,
	60, 120, 300, 600, 900, 1800,
	3600, 7200, 10800, 21600, 43200, 86400,
}

// axisLadder holds the step candidates for x-axis tick spacing.
// Coarser start, extends into multi-day and multi-month spacing.
var axisLadder = []int64{
	5, 10, 15, 30,
	60, 120, 300, 600, 900, 1800,
	3600, 7200, 10800, 21600, 43200, 86400,
	172800, 604800, 1209600, 2592000, 5184000, 7776000,
}

// ChooseStep returns the axis tick spacing in seconds for a visible span.
// The result is the smallest ladder rung at or above span/targetCount,
// or the ladder maximum when the span outgrows every rung.
func ChooseStep(spanSeconds int64, targetCount int) int64 {
	if targetCount < 2 {
		targetCount = 2
	}
	raw := float64(spanSeconds) / float64(targetCount)
	return snapUp(axisLadder, raw)
}

// ResampleStep returns the query resolution in seconds for a span and a
// point budget, so one range query yields at most roughly budget points.
func ResampleStep(spanSeconds int64, pointBudget int) int64 {
	if pointBudget < 2 {
		pointBudget = 2
	}
	budget := int64(pointBudget)
	raw := (spanSeconds + budget - 1) / budget // ceil
	return snapUp(resampleLadder, float64(raw))
}

func snapUp(ladder []int64, raw float64) int64 {
	for _, rung := range ladder {
		if float64(rung) >= raw {
			return rung
		}
	}
	return ladder[len(ladder)-1]
}
