// Package store reads and extends the per-pin reading history.
//
// The history is an append-only JSON list kept in a bot user environment
// variable named after the pin. Reads come straight from the process
// environment; writes go back through a set_user_env command.
package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sweeney/sensor-plot/internal/command"
	"github.com/sweeney/sensor-plot/internal/logic"
)

const keyPrefix = "pin_data_"

// Key returns the environment variable holding a pin's history.
func Key(pin int) string {
	return fmt.Sprintf("%s%d", keyPrefix, pin)
}

// Load returns the stored readings for pin. A missing or blank variable is
// an empty history, not an error.
func Load(getenv func(string) string, pin int) ([]logic.Reading, error) {
	raw := strings.TrimSpace(getenv(Key(pin)))
	if raw == "" {
		return []logic.Reading{}, nil
	}

	var readings []logic.Reading
	if err := json.Unmarshal([]byte(raw), &readings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", Key(pin), err)
	}
	if readings == nil {
		readings = []logic.Reading{}
	}
	return readings, nil
}

// Append returns a new history with r at the end. existing is not modified.
func Append(existing []logic.Reading, r logic.Reading) []logic.Reading {
	out := make([]logic.Reading, len(existing), len(existing)+1)
	copy(out, existing)
	return append(out, r)
}

// SaveCommand builds the command that persists readings as pin's history.
func SaveCommand(pin int, readings []logic.Reading) (command.Command, error) {
	if readings == nil {
		readings = []logic.Reading{}
	}
	b, err := json.Marshal(readings)
	if err != nil {
		return command.Command{}, fmt.Errorf("encode %s: %w", Key(pin), err)
	}
	return command.SetUserEnv(Key(pin), string(b)), nil
}
