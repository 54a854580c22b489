package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sweeney/sensor-plot/internal/botstate"
	"github.com/sweeney/sensor-plot/internal/command"
	"github.com/sweeney/sensor-plot/internal/logic"
)

// RecorderName prefixes user-visible messages from the save tool.
const RecorderName = "Save sensor data"

// ErrValueUnavailable is returned when the bot has no value for the pin.
var ErrValueUnavailable = errors.New("pin value not available")

// Recorder appends the bot's current pin value to the stored history.
type Recorder struct {
	Reader    botstate.Reader
	Publisher command.Publisher

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Record reads pin's value, timestamps it and sends the extended history
// back to the bot. When the bot has no value it sends a notification and
// returns ErrValueUnavailable without touching the store.
func (r *Recorder) Record(ctx context.Context, getenv func(string) string, pin int) (logic.Reading, error) {
	v, ok, err := r.Reader.PinValue(ctx, pin)
	if err != nil {
		return logic.Reading{}, fmt.Errorf("read pin %d: %w", pin, err)
	}
	if !ok {
		msg := command.SendMessage(command.ValueUnavailable(RecorderName, pin))
		if err := r.Publisher.Send(ctx, msg); err != nil {
			return logic.Reading{}, fmt.Errorf("notify: %w", err)
		}
		return logic.Reading{}, ErrValueUnavailable
	}

	existing, err := Load(getenv, pin)
	if err != nil {
		return logic.Reading{}, err
	}

	reading := logic.Reading{Time: r.timestamp(), Value: v}
	cmd, err := SaveCommand(pin, Append(existing, reading))
	if err != nil {
		return logic.Reading{}, err
	}
	if err := r.Publisher.Send(ctx, cmd); err != nil {
		return logic.Reading{}, fmt.Errorf("save %s: %w", Key(pin), err)
	}
	return reading, nil
}

func (r *Recorder) timestamp() float64 {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return float64(now().UnixNano()) / float64(time.Second)
}
