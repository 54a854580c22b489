package logic

import (
	"errors"
	"math"
)

// ErrEmptyInput is returned by Reduce when there are no readings.
// Callers are expected to report missing data before reducing.
var ErrEmptyInput = errors.New("no readings to reduce")

// Reduce converts readings to plot space.
//
// Both axes are quantized with round-half-to-even, so 1023 maps to value
// bucket 512 and 59 maps to 30. The time axis is anchored to the newest
// reading (X = 0) and readings Horizon or more buckets older are dropped.
// Surviving points keep their input order. Readings with a NaN or infinite
// time or value cannot be placed and are skipped.
//
// The second return value is the newest time bucket converted back to
// seconds, used only for labelling.
func Reduce(readings []Reading) ([]Point, float64, error) {
	if len(readings) == 0 {
		return nil, 0, ErrEmptyInput
	}

	// Buckets stay float64 until the horizon filter has run, so very large
	// times cannot wrap when converted to int.
	times := make([]float64, len(readings))
	newest := math.Inf(-1)
	for i, r := range readings {
		times[i] = bucket(r.Time, TimeScale)
		if finite(r) && times[i] > newest {
			newest = times[i]
		}
	}
	if math.IsInf(newest, -1) {
		return []Point{}, 0, nil
	}

	points := make([]Point, 0, len(readings))
	for i, r := range readings {
		if !finite(r) {
			continue
		}
		x := newest - times[i]
		if x >= Horizon {
			continue
		}
		points = append(points, Point{X: int(x), Y: clampInt(bucket(r.Value, ValueScale))})
	}

	return points, newest * TimeScale, nil
}

func bucket(v float64, scale float64) float64 {
	return math.RoundToEven(v / scale)
}

func finite(r Reading) bool {
	return !math.IsNaN(r.Time) && !math.IsInf(r.Time, 0) &&
		!math.IsNaN(r.Value) && !math.IsInf(r.Value, 0)
}

// clampInt converts a value bucket to int. Values far outside the plot are
// pinned to the int32 range; they land off the canvas either way.
func clampInt(v float64) int {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return int(v)
}
