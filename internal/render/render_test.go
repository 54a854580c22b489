package render

import (
	"image"
	"testing"

	"github.com/sweeney/sensor-plot/internal/logic"
)

// framePoint maps a plot-space pixel (column, row before flipping) to its
// position in the rendered frame.
func framePoint(col, row int) image.Point {
	return PlotOrigin.Add(image.Pt(PlotWidth-1-col, PlotHeight-1-row))
}

func grayAt(img *image.Gray, p image.Point) uint8 {
	return img.GrayAt(p.X, p.Y).Y
}

func TestRenderDimensions(t *testing.T) {
	tests := []struct {
		name   string
		points []logic.Point
		mode   logic.SensorMode
	}{
		{"empty plain", nil, logic.ModePlain},
		{"empty ranged", []logic.Point{}, logic.ModeRanged},
		{"points", []logic.Point{{X: 0, Y: 0}, {X: 719, Y: 511}, {X: 300, Y: 512}}, logic.ModeRanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := Render(tt.points, 1700000000, tt.mode, 59)
			b := img.Bounds()
			if b.Dx() != FrameWidth || b.Dy() != FrameHeight {
				t.Errorf("size: got %dx%d, want %dx%d", b.Dx(), b.Dy(), FrameWidth, FrameHeight)
			}
			if b.Min != (image.Point{}) {
				t.Errorf("origin: got %v", b.Min)
			}
		})
	}
}

func TestRenderBackground(t *testing.T) {
	plain := Render(nil, 0, logic.ModePlain, 1)
	ranged := Render(nil, 0, logic.ModeRanged, logic.SoilSensorPin)

	// column 50 is clear of every vertical gridline
	tests := []struct {
		row        int
		wantPlain  uint8
		wantRanged uint8
	}{
		{50, 255, 220},  // n/a zone
		{100, 255, 255}, // top of the sensor range
		{200, 255, 201},
		{425, 255, 80},
		{450, 255, 220}, // off zone
	}

	for _, tt := range tests {
		p := framePoint(50, tt.row)
		if got := grayAt(plain, p); got != tt.wantPlain {
			t.Errorf("plain row %d: got %d, want %d", tt.row, got, tt.wantPlain)
		}
		if got := grayAt(ranged, p); got != tt.wantRanged {
			t.Errorf("ranged row %d: got %d, want %d", tt.row, got, tt.wantRanged)
		}
	}
}

func TestRenderGridlines(t *testing.T) {
	img := Render(nil, 0, logic.ModePlain, 1)

	if got := grayAt(img, framePoint(50, 64)); got != gridline {
		t.Errorf("horizontal gridline: got %d, want %d", got, gridline)
	}
	if got := grayAt(img, framePoint(50, baselineRow)); got != baseline {
		t.Errorf("baseline row: got %d, want %d", got, baseline)
	}
	if got := grayAt(img, framePoint(60, 50)); got != gridline {
		t.Errorf("minor vertical gridline: got %d, want %d", got, gridline)
	}
	// major gridlines are two columns wide
	for _, col := range []int{179, 180} {
		if got := grayAt(img, framePoint(col, 50)); got != gridline {
			t.Errorf("major vertical gridline col %d: got %d, want %d", col, got, gridline)
		}
	}
	if got := grayAt(img, framePoint(181, 50)); got != blank {
		t.Errorf("next to major gridline: got %d, want %d", got, blank)
	}
	if got := grayAt(img, framePoint(50, 0)); got != borderLevel {
		t.Errorf("border: got %d, want %d", got, borderLevel)
	}
	if got := grayAt(img, framePoint(0, 50)); got != borderLevel {
		t.Errorf("border: got %d, want %d", got, borderLevel)
	}
}

func TestRenderTrace(t *testing.T) {
	pt := logic.Point{X: 100, Y: 200}
	without := Render(nil, 0, logic.ModePlain, 1)
	with := Render([]logic.Point{pt}, 0, logic.ModePlain, 1)

	// on the ring
	onRing := framePoint(pt.X+ringRadius, pt.Y)
	if got := grayAt(with, onRing); got != ink {
		t.Errorf("ring pixel: got %d, want %d", got, ink)
	}
	if got := grayAt(without, onRing); got != blank {
		t.Errorf("ring pixel without points: got %d, want %d", got, blank)
	}
	// rings are hollow
	if got := grayAt(with, framePoint(pt.X, pt.Y)); got != blank {
		t.Errorf("ring centre: got %d, want %d", got, blank)
	}
	// outside the stroke
	if got := grayAt(with, framePoint(pt.X+ringRadius+3, pt.Y)); got != blank {
		t.Errorf("outside ring: got %d, want %d", got, blank)
	}
}

func TestRenderNewestOnRight(t *testing.T) {
	img := Render([]logic.Point{{X: 10, Y: 250}}, 0, logic.ModePlain, 1)
	// X=10 lands near the right edge of the plot after flipping
	p := framePoint(10+ringRadius, 250)
	if p.X < PlotOrigin.X+PlotWidth-30 {
		t.Fatalf("framePoint placed newest sample at x=%d", p.X)
	}
	if got := grayAt(img, p); got != ink {
		t.Errorf("got %d, want %d", got, ink)
	}
}

func TestRenderRangeLabelsOnlyWhenRanged(t *testing.T) {
	plain := Render(nil, 0, logic.ModePlain, 1)
	ranged := Render(nil, 0, logic.ModeRanged, logic.SoilSensorPin)

	// The strip left of the plot only carries the range labels.
	strip := image.Rect(0, PlotOrigin.Y, PlotOrigin.X, PlotOrigin.Y+PlotHeight)
	if n := inked(plain, strip); n != 0 {
		t.Errorf("plain mode: %d inked pixels left of the plot", n)
	}
	if n := inked(ranged, strip); n == 0 {
		t.Error("ranged mode: expected range labels left of the plot")
	}
}

func TestRenderLabelsPresent(t *testing.T) {
	img := Render(nil, 1700000000, logic.ModePlain, 3)

	regions := map[string]image.Rectangle{
		"title":       image.Rect(titlePos.X, 0, titlePos.X+150, PlotOrigin.Y),
		"value 1023":  image.Rect(760, 36, 800, 52),
		"timestamp":   image.Rect(timestampPos.X, 566, 800, 590),
		"time offset": image.Rect(10, 566, 60, 590),
	}
	for name, r := range regions {
		if inked(img, r) == 0 {
			t.Errorf("%s: no text found in %v", name, r)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	points := []logic.Point{{X: 0, Y: 100}, {X: 300, Y: 300}}
	a := Render(points, 1700000000, logic.ModeRanged, 59)
	b := Render(points, 1700000000, logic.ModeRanged, 59)
	if string(a.Pix) != string(b.Pix) {
		t.Error("renders differ for identical input")
	}
}

func TestRendererCustomTimeLabels(t *testing.T) {
	r := &Renderer{}
	img := r.Render(nil, 0, logic.ModePlain, 1)
	if n := inked(img, image.Rect(0, 566, 600, 590)); n != 0 {
		t.Errorf("expected no time labels, found %d inked pixels", n)
	}
}

func TestTitle(t *testing.T) {
	if got := Title(logic.ModeRanged, 59); got != "SOIL SENSOR (PIN 59)" {
		t.Errorf("ranged title: got %q", got)
	}
	if got := Title(logic.ModePlain, 13); got != "SENSOR (PIN 13)" {
		t.Errorf("plain title: got %q", got)
	}
}

func TestRangeShade(t *testing.T) {
	tests := []struct {
		row  int
		want uint8
	}{
		{0, 220}, {99, 220}, {100, 255}, {425, 80}, {426, 220}, {511, 220},
	}
	for _, tt := range tests {
		if got := rangeShade(tt.row); got != tt.want {
			t.Errorf("row %d: got %d, want %d", tt.row, got, tt.want)
		}
	}
	for row := rangeTop + 1; row <= rangeBottom; row++ {
		if rangeShade(row) > rangeShade(row-1) {
			t.Fatalf("gradient not monotonic at row %d", row)
		}
	}
}

// inked counts dark pixels inside r.
func inked(img *image.Gray, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.GrayAt(x, y).Y < 128 {
				n++
			}
		}
	}
	return n
}
