// Package logic contains the pure data reduction for sensor plots.
// This package has NO external dependencies (no I/O, env, network or clock).
// Readings are always passed in; nothing is cached between calls.
package logic

import "fmt"

// Scale factors and window size in plot space.
const (
	TimeScale  = 120 // seconds per time bucket (2 minutes)
	ValueScale = 2   // raw ADC units per value bucket
	Horizon    = 720 // oldest time bucket offset still plotted (exclusive)
)

// ADC domain of the analog pins being plotted.
const (
	MinValue = 0
	MaxValue = 1023
)

// SoilSensorPin is the pin the soil moisture sensor is wired to.
const SoilSensorPin = 59

// Reading is a single stored sample.
type Reading struct {
	Time  float64 `json:"time"`  // seconds since epoch
	Value float64 `json:"value"` // raw ADC value
}

// Point is a reading in plot space.
// X is the time bucket offset from the most recent sample (0 = newest),
// Y is the value bucket.
type Point struct {
	X int
	Y int
}

// SensorMode selects the plot variant.
type SensorMode int

const (
	// ModePlain draws a uniform background with no range labels.
	ModePlain SensorMode = iota
	// ModeRanged shades the soil sensor's valid range and labels it.
	ModeRanged
)

func (m SensorMode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModeRanged:
		return "ranged"
	default:
		return fmt.Sprintf("SensorMode(%d)", int(m))
	}
}

// ModeForPin resolves the plot variant for a pin.
func ModeForPin(pin int) SensorMode {
	if pin == SoilSensorPin {
		return ModeRanged
	}
	return ModePlain
}
