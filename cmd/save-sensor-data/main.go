// Command save-sensor-data appends the bot's current value for a pin to the
// pin's stored history.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/sweeney/sensor-plot/internal/botstate"
	"github.com/sweeney/sensor-plot/internal/command"
	"github.com/sweeney/sensor-plot/internal/config"
	"github.com/sweeney/sensor-plot/internal/store"
)

const farmware = "save_sensor_data"

func main() {
	log.SetPrefix("[" + store.RecorderName + "] ")

	cfg, err := config.Parse(farmware, flag.CommandLine, os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.RequireAPI(); err != nil {
		log.Fatalf("config: %v", err)
	}

	pub, err := dial(cfg)
	if err != nil {
		log.Fatalf("command channel: %v", err)
	}

	reader := botstate.NewClient(cfg.FarmwareURL, cfg.Token)
	err = run(context.Background(), cfg.Pin, os.Getenv, reader, pub, time.Now)
	pub.Close()
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// dial opens the command channel. Unlike plotting, saving always posts to
// api/v1/ whatever the OS version.
func dial(cfg config.Config) (command.Publisher, error) {
	return command.Dial(cfg, cfg.APIV1URL())
}

// run records one reading. A pin the bot has no value for is reported to the
// bot and is not an error.
func run(ctx context.Context, pin int, getenv func(string) string, reader botstate.Reader, pub command.Publisher, now func() time.Time) error {
	rec := &store.Recorder{Reader: reader, Publisher: pub, Now: now}

	reading, err := rec.Record(ctx, getenv, pin)
	if errors.Is(err, store.ErrValueUnavailable) {
		log.Printf("pin %d has no value, nothing saved", pin)
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("saved pin %d value %v at %.0f to %s", pin, reading.Value, reading.Time, store.Key(pin))
	return nil
}
