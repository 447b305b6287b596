// Package cadence scores the regularity of a job posting's update history.
// Automated keep-alive reposting fires on a near-fixed schedule; organic
// edits arrive irregularly. The score reflects that: low values mean
// suspiciously regular, high values mean organic-looking.
package cadence

import (
	"math"
	"sort"
	"time"
)

const (
	// MinSamples is the number of observed updates required before the
	// interval statistics mean anything.
	MinSamples = 4

	// NeutralScore is returned when there is not enough history to judge.
	NeutralScore = 0.5

	lowerCV = 0.2
	upperCV = 0.5
)

// Analyze maps a series of observed update timestamps to a regularity score
// in [0,1]. Fewer than MinSamples timestamps yields NeutralScore: absence of
// history is not a signal. Otherwise the coefficient of variation (CV) of
// the inter-arrival intervals is computed and mapped linearly: CV below 0.2
// scores 0.0 (metronomic reposting), CV above 0.5 scores 1.0.
func Analyze(timestamps []time.Time) float64 {
	if len(timestamps) < MinSamples {
		return NeutralScore
	}

	sorted := make([]time.Time, len(timestamps))
	copy(sorted, timestamps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	intervals := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		days := sorted[i].Sub(sorted[i-1]).Hours() / 24
		intervals = append(intervals, days)
	}

	mean := meanOf(intervals)
	if mean == 0 {
		// All updates at the same instant: perfectly regular.
		return 0.0
	}

	cv := stddevOf(intervals, mean) / mean
	switch {
	case cv < lowerCV:
		return 0.0
	case cv > upperCV:
		return 1.0
	default:
		return clamp01((cv - lowerCV) / (upperCV - lowerCV))
	}
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddevOf(values []float64, mean float64) float64 {
	var sumSquares float64
	for _, v := range values {
		d := v - mean
		sumSquares += d * d
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
