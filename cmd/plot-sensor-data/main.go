// Command plot-sensor-data draws a pin's stored readings as a grayscale chart
// in the Farmware images directory, or serves fresh charts over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/sensor-plot/internal/command"
	"github.com/sweeney/sensor-plot/internal/config"
	"github.com/sweeney/sensor-plot/internal/logic"
	"github.com/sweeney/sensor-plot/internal/plot"
	"github.com/sweeney/sensor-plot/internal/render"
	"github.com/sweeney/sensor-plot/internal/sink"
	"github.com/sweeney/sensor-plot/internal/status"
	"github.com/sweeney/sensor-plot/internal/store"
	"github.com/sweeney/sensor-plot/internal/web"
)

const farmware = "plot_sensor_data"

func main() {
	log.SetPrefix("[" + plot.ToolName + "] ")

	httpAddr := flag.String("http", "", "serve plots on this address instead of writing a file")
	cfg, err := config.Parse(farmware, flag.CommandLine, os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}

	if cfg.HTTPAddr != "" {
		if err := serve(cfg, os.Getenv); err != nil {
			log.Fatalf("fatal: %v", err)
		}
		return
	}

	pub, err := command.Dial(cfg, cfg.APIURL())
	if err != nil {
		// Plotting does not need the command channel, only the no-data
		// notification does.
		log.Printf("notifications disabled: %v", err)
	} else {
		defer pub.Close()
	}

	if err := run(context.Background(), cfg, os.Getenv, pub); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// run plots once. A pin without readings is reported to the bot and is not
// an error.
func run(ctx context.Context, cfg config.Config, getenv func(string) string, pub command.Publisher) error {
	readings, err := store.Load(getenv, cfg.Pin)
	if err != nil {
		return err
	}

	p := &plot.Pipeline{Publisher: pub}
	img, sum, err := p.Run(ctx, readings, cfg.Pin)
	if errors.Is(err, logic.ErrEmptyInput) {
		log.Printf("no data for pin %d, nothing to plot", cfg.Pin)
		return nil
	}
	if err != nil {
		return err
	}

	if err := cfg.RequireImagesDir(); err != nil {
		return err
	}
	path, err := sink.Save(cfg.ImagesDir, img)
	if err != nil {
		return fmt.Errorf("save plot: %w", err)
	}

	log.Printf("plotted pin %d (%s): %d points, %d older than horizon, newest %s -> %s",
		sum.Pin, sum.Mode, sum.Points, sum.Dropped, render.FormatTimestamp(sum.MostRecent), path)
	return nil
}

func serve(cfg config.Config, getenv func(string) string) error {
	tracker := status.NewTracker(time.Now(), status.Config{
		Pin:       cfg.Pin,
		Mode:      logic.ModeForPin(cfg.Pin),
		Transport: cfg.Transport,
		Broker:    cfg.MQTT.Broker,
		HTTPAddr:  cfg.HTTPAddr,
		ImagesDir: cfg.ImagesDir,
	})

	load := func(pin int) ([]logic.Reading, error) {
		return store.Load(getenv, pin)
	}
	srv := web.New(cfg.HTTPAddr, cfg.Pin, load, tracker)
	if pub := watchBroker(cfg, srv, command.Dial); pub != nil {
		defer pub.Close()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	log.Printf("serving pin %d on %s", cfg.Pin, cfg.HTTPAddr)
	return serveUntil(srv, srv.ListenAndServe, sigCh)
}

// watchBroker connects to the broker when the MQTT transport is configured so
// the status page shows the live connection. It returns the publisher to
// close, or nil if there is nothing to watch.
func watchBroker(cfg config.Config, srv *web.Server, dial func(config.Config, string) (command.Publisher, error)) command.Publisher {
	if cfg.Transport != config.TransportMQTT {
		return nil
	}
	pub, err := dial(cfg, cfg.APIURL())
	if err != nil {
		log.Printf("broker status unavailable: %v", err)
		return nil
	}
	if cs, ok := pub.(command.ConnectionStatus); ok {
		srv.TrackConnection(cs)
	}
	return pub
}

// serveUntil runs listen until it fails or a signal arrives, then shuts the
// server down.
func serveUntil(srv *web.Server, listen func() error, sig <-chan os.Signal) error {
	errCh := make(chan error, 1)
	go func() { errCh <- listen() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case s := <-sig:
		log.Printf("received %v, shutting down", s)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
