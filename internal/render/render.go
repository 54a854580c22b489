// Package render draws reduced sensor points as a labelled grayscale chart.
//
// The chart is built in two layers. The plot area is drawn in plot space
// (column = time bucket offset, row = value bucket) and then flipped on both
// axes so that time runs oldest to newest left to right and values increase
// upwards. The label frame is drawn separately and the plot is copied into
// it.
package render

import (
	"image"
	"image/draw"

	"github.com/sweeney/sensor-plot/internal/logic"
)

// Output and plot geometry in pixels.
const (
	FrameWidth  = 800
	FrameHeight = 600
	PlotWidth   = logic.Horizon // one column per time bucket
	PlotHeight  = 512
)

// PlotOrigin is where the plot area's top-left corner lands in the frame.
var PlotOrigin = image.Pt(40, 44)

// Gray levels.
const (
	blank       uint8 = 255
	outOfRange  uint8 = 220
	rangeLight  uint8 = 255
	rangeDark   uint8 = 80
	gridline    uint8 = 100
	baseline    uint8 = 125
	borderLevel uint8 = 50
	ink         uint8 = 0
)

// Soil sensor range in value buckets (plot rows before flipping).
const (
	rangeTop    = 100 // rows below this are "n/a"
	rangeBottom = 425 // rows above this are "off"
)

const (
	gridRows     = 32
	baselineRow  = 384
	minorGridCol = 30 // 1 hour
	majorGridCol = 90 // 3 hours
	borderWidth  = 4
	ringRadius   = 5
	ringWidth    = 3
)

// Renderer draws charts. The zero value uses no time offset labels; use New
// for the standard layout.
type Renderer struct {
	// TimeLabels are stamped along the bottom edge of the frame.
	TimeLabels []Label
}

// New returns a Renderer with the default time offset labels.
func New() *Renderer {
	return &Renderer{TimeLabels: DefaultTimeLabels()}
}

// Render draws the standard chart. See Renderer.Render.
func Render(points []logic.Point, mostRecent float64, mode logic.SensorMode, pin int) *image.Gray {
	return New().Render(points, mostRecent, mode, pin)
}

// Render draws points into a FrameWidth x FrameHeight grayscale image.
// mostRecent is the unix time of the newest sample and only affects the
// timestamp label. An empty point set gives a chart without a trace.
func (r *Renderer) Render(points []logic.Point, mostRecent float64, mode logic.SensorMode, pin int) *image.Gray {
	plot := drawPlot(points, mode)

	sheet := image.NewGray(image.Rect(0, 0, FrameHeight, FrameWidth))
	fill(sheet, blank)
	if mode == logic.ModeRanged {
		stampLabels(sheet, rangeLabels)
	}
	frame := turnLeft(sheet)

	stampLabels(frame, valueLabels)
	stampLabels(frame, []Label{{Text: FormatTimestamp(mostRecent), Pos: timestampPos}})
	stampLabels(frame, r.TimeLabels)

	dst := image.Rectangle{Min: PlotOrigin, Max: PlotOrigin.Add(plot.Bounds().Size())}
	draw.Draw(frame, dst, plot, image.Point{}, draw.Src)

	stampHeavy(frame, Label{Text: Title(mode, pin), Pos: titlePos})
	return frame
}

// Title returns the chart title for a pin.
func Title(mode logic.SensorMode, pin int) string {
	if mode == logic.ModeRanged {
		return titleFor("soil sensor", pin)
	}
	return titleFor("sensor", pin)
}

func drawPlot(points []logic.Point, mode logic.SensorMode) *image.Gray {
	p := image.NewGray(image.Rect(0, 0, PlotWidth, PlotHeight))
	fill(p, blank)

	if mode == logic.ModeRanged {
		for i := 0; i < PlotHeight; i++ {
			fillRow(p, i, rangeShade(i))
		}
	}

	for i := 0; i < PlotHeight; i += gridRows {
		if i == baselineRow {
			fillRow(p, i, baseline)
			continue
		}
		fillRow(p, i, gridline)
	}
	for i := 0; i < PlotWidth; i += minorGridCol {
		fillCol(p, i, gridline)
	}
	for i := 0; i < PlotWidth; i += majorGridCol {
		fillCol(p, i-1, gridline)
		fillCol(p, i, gridline)
	}

	strokeRect(p, image.Pt(0, 0), image.Pt(PlotWidth-1, PlotHeight-1), borderWidth, borderLevel)

	for _, pt := range points {
		ring(p, image.Pt(pt.X, pt.Y), ringRadius, ringWidth, ink)
	}

	return flipBoth(p)
}

// rangeShade is the background level of a plot row in ranged mode: flat
// outside the sensor's range, a linear ramp from light to dark inside it.
func rangeShade(row int) uint8 {
	switch {
	case row < rangeTop, row > rangeBottom:
		return outOfRange
	default:
		frac := float64(row-rangeTop) / float64(rangeBottom-rangeTop)
		return uint8(float64(rangeLight) - float64(rangeLight-rangeDark)*frac)
	}
}
