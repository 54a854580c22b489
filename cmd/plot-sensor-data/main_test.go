package main

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/sweeney/sensor-plot/internal/command"
	"github.com/sweeney/sensor-plot/internal/config"
	"github.com/sweeney/sensor-plot/internal/logic"
	"github.com/sweeney/sensor-plot/internal/sink"
	"github.com/sweeney/sensor-plot/internal/status"
	"github.com/sweeney/sensor-plot/internal/web"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.ImagesDir = t.TempDir()
	return cfg
}

func TestRunWritesPlot(t *testing.T) {
	cfg := testConfig(t)
	pub := command.NewFakePublisher()
	env := envFrom(map[string]string{
		"pin_data_59": `[{"time": 1700000000, "value": 700}, {"time": 1700003600, "value": 300}]`,
	})

	if err := run(context.Background(), cfg, env, pub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.Commands) != 0 {
		t.Errorf("expected no commands, got %d", len(pub.Commands))
	}

	f, err := os.Open(filepath.Join(cfg.ImagesDir, sink.FileName))
	if err != nil {
		t.Fatalf("open plot: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode plot: %v", err)
	}
	if _, ok := img.(*image.Gray); !ok {
		t.Errorf("decoded type %T, want *image.Gray", img)
	}
}

func TestRunNoDataNotifiesAndSucceeds(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pin = 13
	pub := command.NewFakePublisher()

	if err := run(context.Background(), cfg, envFrom(nil), pub); err != nil {
		t.Fatalf("no data should not be an error, got %v", err)
	}
	if len(pub.Commands) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(pub.Commands))
	}
	if msg := pub.Commands[0].Args["message"]; msg != "[Plot sensor data] No data available for pin 13." {
		t.Errorf("message: got %v", msg)
	}

	entries, _ := os.ReadDir(cfg.ImagesDir)
	if len(entries) != 0 {
		t.Errorf("expected no files written, found %d", len(entries))
	}
}

func TestRunNoDataWithoutPublisher(t *testing.T) {
	if err := run(context.Background(), testConfig(t), envFrom(nil), nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunMissingImagesDir(t *testing.T) {
	cfg := config.Default()
	env := envFrom(map[string]string{"pin_data_59": `[{"time": 0, "value": 1}]`})

	err := run(context.Background(), cfg, env, command.NewFakePublisher())
	var missing *config.MissingConfigError
	if !errors.As(err, &missing) || missing.Key != config.EnvImagesDir {
		t.Errorf("expected missing %s, got %v", config.EnvImagesDir, err)
	}
}

func TestRunCorruptStore(t *testing.T) {
	env := envFrom(map[string]string{"pin_data_59": `[{"time":`})
	if err := run(context.Background(), testConfig(t), env, command.NewFakePublisher()); err == nil {
		t.Error("expected error for corrupt store")
	}
}

func newServer() *web.Server {
	tr := status.NewTracker(time.Now(), status.Config{Pin: 59})
	return web.New("127.0.0.1:0", 59, func(int) ([]logic.Reading, error) { return nil, nil }, tr)
}

func TestServeUntilSignal(t *testing.T) {
	srv := newServer()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	sig := make(chan os.Signal, 1)
	sig <- syscall.SIGTERM

	if err := serveUntil(srv, func() error { return srv.Serve(ln) }, sig); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestServeUntilListenError(t *testing.T) {
	listenErr := errors.New("address in use")
	err := serveUntil(newServer(), func() error { return listenErr }, make(chan os.Signal))
	if !errors.Is(err, listenErr) {
		t.Errorf("expected listen error, got %v", err)
	}
}

func TestWatchBrokerReportsConnection(t *testing.T) {
	cfg := config.Default()
	cfg.Transport = config.TransportMQTT
	cfg.MQTT.Broker = "tcp://localhost:1883"

	fake := command.NewFakePublisher()
	fake.Connected = true
	dial := func(config.Config, string) (command.Publisher, error) { return fake, nil }

	srv := newServer()
	if pub := watchBroker(cfg, srv, dial); pub != fake {
		t.Fatalf("expected the dialed publisher back, got %v", pub)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go srv.Serve(ln)
	defer srv.Shutdown(context.Background())

	resp, err := http.Get("http://" + ln.Addr().String() + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()
	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
}

func TestWatchBrokerSkipsHTTPTransport(t *testing.T) {
	dialed := false
	dial := func(config.Config, string) (command.Publisher, error) {
		dialed = true
		return command.NewFakePublisher(), nil
	}
	if pub := watchBroker(config.Default(), newServer(), dial); pub != nil || dialed {
		t.Errorf("expected no dial for the HTTP transport, got %v", pub)
	}
}

func TestWatchBrokerDialError(t *testing.T) {
	cfg := config.Default()
	cfg.Transport = config.TransportMQTT
	dial := func(config.Config, string) (command.Publisher, error) {
		return nil, errors.New("connection timeout")
	}
	if pub := watchBroker(cfg, newServer(), dial); pub != nil {
		t.Errorf("expected nil publisher, got %v", pub)
	}
}
