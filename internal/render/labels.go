package render

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"strings"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Label is a piece of text stamped at a fixed position. Pos is the left end
// of the text baseline.
type Label struct {
	Text string
	Pos  image.Point
}

// TimestampLayout formats the time of the newest sample.
const TimestampLayout = "Jan 02 15:04 UTC"

// Range labels, written on the unrotated label sheet.
var rangeLabels = []Label{
	{Text: "off", Pos: image.Pt(500, 25)},
	{Text: "wet", Pos: image.Pt(425, 25)},
	{Text: "dry", Pos: image.Pt(160, 25)},
	{Text: "n/a", Pos: image.Pt(75, 25)},
}

var valueLabels = []Label{
	{Text: "0", Pos: image.Pt(760, 560)},
	{Text: "512", Pos: image.Pt(760, 305)},
	{Text: "1023", Pos: image.Pt(760, 50)},
}

var (
	timestampPos = image.Pt(650, 580)
	titlePos     = image.Pt(325, 25)
)

// Time offset label defaults: "-6 hr" at the rightmost column, 3 hours
// further back at each column to the left.
const (
	DefaultFirstOffsetHours = 6
	DefaultOffsetStepHours  = 3
	timeLabelRow            = 580
)

// DefaultTimeColumns are the left edges of the time offset labels,
// newest first.
var DefaultTimeColumns = []int{550, 460, 370, 280, 190, 100, 10}

// TimeLabels builds the "-N hr" labels along the bottom edge. columns are
// ordered newest first; the label at columns[i] reads first+i*step hours.
func TimeLabels(first, step int, columns []int) []Label {
	labels := make([]Label, 0, len(columns))
	for i, col := range columns {
		labels = append(labels, Label{
			Text: fmt.Sprintf("-%d hr", first+i*step),
			Pos:  image.Pt(col, timeLabelRow),
		})
	}
	return labels
}

// DefaultTimeLabels returns the standard time offset labels.
func DefaultTimeLabels() []Label {
	return TimeLabels(DefaultFirstOffsetHours, DefaultOffsetStepHours, DefaultTimeColumns)
}

// FormatTimestamp renders a unix time in seconds as the timestamp label text.
func FormatTimestamp(unix float64) string {
	sec, frac := math.Modf(unix)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC().Format(TimestampLayout)
}

func titleFor(sensorName string, pin int) string {
	return fmt.Sprintf("%s (PIN %d)", strings.ToUpper(sensorName), pin)
}

// stampLabels draws each label in black, upper-cased.
func stampLabels(dst draw.Image, labels []Label) {
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13}
	for _, l := range labels {
		d.Dot = fixed.P(l.Pos.X, l.Pos.Y)
		d.DrawString(strings.ToUpper(l.Text))
	}
}

// stampHeavy draws a label twice, one pixel apart, for a 2px stroke.
func stampHeavy(dst draw.Image, l Label) {
	stampLabels(dst, []Label{l, {Text: l.Text, Pos: l.Pos.Add(image.Pt(1, 0))}})
}
