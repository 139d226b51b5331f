// Package series collapses multi-series range query results into one
// averaged point sequence on the millisecond timeline.
package series

import (
	"math"
	"sort"
	"strconv"

	"rtlwatch/internal/models"
)

type accumulator struct {
	sum   float64
	count int
}

// Merge combines all labeled series of one query result into a single
// ordered sequence. Values sharing an exact millisecond timestamp across
// series average into one point. Samples whose timestamp or value do not
// parse to finite numbers are dropped individually; a corrupt sample never
// fails the series it came from. Empty input is valid and yields an empty
// result with nil MinY/MaxY. Time bounds are left for the caller to fill.
func Merge(raw []models.RawSeries) models.ChartData {
	acc := make(map[int64]*accumulator)
	info := models.SeriesInfo{
		SeriesCount:     len(raw),
		PointsPerSeries: make([]int, 0, len(raw)),
		LabelCounts:     make([]int, 0, len(raw)),
	}

	for _, s := range raw {
		kept := 0
		for _, sample := range s.Samples {
			v, ok := ParseValue(sample.Value)
			if !ok || !isFinite(sample.TimestampSec) {
				continue
			}
			ms := int64(sample.TimestampSec * 1000)
			a := acc[ms]
			if a == nil {
				a = &accumulator{}
				acc[ms] = a
			}
			a.sum += v
			a.count++
			kept++
		}
		info.PointsPerSeries = append(info.PointsPerSeries, kept)
		info.LabelCounts = append(info.LabelCounts, len(s.Labels))
	}

	keys := make([]int64, 0, len(acc))
	for ms := range acc {
		keys = append(keys, ms)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	data := models.ChartData{
		Points: make([]models.MergedPoint, 0, len(keys)),
	}
	var minY, maxY float64
	for i, ms := range keys {
		a := acc[ms]
		v := a.sum / float64(a.count)
		data.Points = append(data.Points, models.MergedPoint{TimestampMs: ms, Value: v})
		if i == 0 || v < minY {
			minY = v
		}
		if i == 0 || v > maxY {
			maxY = v
		}
	}
	if len(data.Points) > 0 {
		data.MinY = &minY
		data.MaxY = &maxY
	}
	info.MergedPoints = len(data.Points)
	data.Series = info
	return data
}

// ParseValue converts one wire value to a float, with an explicit invalid
// outcome instead of letting NaN or Inf leak through.
func ParseValue(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
