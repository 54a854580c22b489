// Package plot ties the reducer and renderer to the command channel.
package plot

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/sweeney/sensor-plot/internal/command"
	"github.com/sweeney/sensor-plot/internal/logic"
	"github.com/sweeney/sensor-plot/internal/render"
)

// ToolName prefixes user-visible messages from the plot tool.
const ToolName = "Plot sensor data"

// Summary describes one render.
type Summary struct {
	Pin        int
	Mode       logic.SensorMode
	Readings   int
	Points     int
	Dropped    int // readings older than the horizon or not finite
	MostRecent float64
}

// Pipeline reduces and renders a pin's history.
type Pipeline struct {
	// Publisher receives the no-data notification. May be nil.
	Publisher command.Publisher

	// Tool prefixes notifications. Defaults to ToolName.
	Tool string

	// Renderer draws the chart. Defaults to render.New().
	Renderer *render.Renderer
}

// Run renders readings for pin. With no readings it sends a single no-data
// notification and returns logic.ErrEmptyInput. A failed notification is
// logged, not returned.
func (p *Pipeline) Run(ctx context.Context, readings []logic.Reading, pin int) (*image.Gray, Summary, error) {
	sum := Summary{Pin: pin, Mode: logic.ModeForPin(pin), Readings: len(readings)}

	points, mostRecent, err := logic.Reduce(readings)
	if errors.Is(err, logic.ErrEmptyInput) {
		p.notify(ctx, command.NoData(p.tool(), pin))
		return nil, sum, err
	}
	if err != nil {
		return nil, sum, fmt.Errorf("reduce: %w", err)
	}

	sum.Points = len(points)
	sum.Dropped = len(readings) - len(points)
	sum.MostRecent = mostRecent

	r := p.Renderer
	if r == nil {
		r = render.New()
	}
	return r.Render(points, mostRecent, sum.Mode, pin), sum, nil
}

func (p *Pipeline) notify(ctx context.Context, n command.Notification) {
	if p.Publisher == nil {
		return
	}
	if err := p.Publisher.Send(ctx, command.SendMessage(n)); err != nil {
		log.Printf("notify: %v", err)
	}
}

func (p *Pipeline) tool() string {
	if p.Tool == "" {
		return ToolName
	}
	return p.Tool
}
