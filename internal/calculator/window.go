package calculator

import (
	"math"

	"AltSentinel/internal/model"
)

// Window returns the trailing n samples. n <= 0 or n >= len returns the
// whole slice.
func Window(samples []model.IndicatorSample, n int) []model.IndicatorSample {
	if n <= 0 || n >= len(samples) {
		return samples
	}
	return samples[len(samples)-n:]
}

// Peak returns the maximum value in the window, inclusive of both ends.
// ok is false for an empty window.
func Peak(samples []model.IndicatorSample) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}
	high := math.Inf(-1)
	for _, s := range samples {
		if s.Value > high {
			high = s.Value
		}
	}
	return high, true
}

// FlattenMetric returns a normalized rate-of-change over the window:
// (max - min) / mean. Values near zero indicate a flattening series.
// ok is false when the window has fewer than 2 samples or a zero mean.
func FlattenMetric(samples []model.IndicatorSample) (float64, bool) {
	if len(samples) < 2 {
		return 0, false
	}
	high := math.Inf(-1)
	low := math.Inf(1)
	sum := 0.0
	for _, s := range samples {
		if s.Value > high {
			high = s.Value
		}
		if s.Value < low {
			low = s.Value
		}
		sum += s.Value
	}
	mean := sum / float64(len(samples))
	if mean == 0 {
		return 0, false
	}
	return math.Abs((high - low) / mean), true
}
