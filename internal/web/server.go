// Package web serves freshly rendered sensor plots and a status page over
// HTTP.
package web

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweeney/sensor-plot/internal/command"
	"github.com/sweeney/sensor-plot/internal/logic"
	"github.com/sweeney/sensor-plot/internal/plot"
	"github.com/sweeney/sensor-plot/internal/sink"
	"github.com/sweeney/sensor-plot/internal/status"
)

// LoadFunc returns the stored readings for a pin.
type LoadFunc func(pin int) ([]logic.Reading, error)

// Server serves plots and the status page over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	load       LoadFunc
	pipeline   *plot.Pipeline
	metrics    *Metrics
	pin        int
	conn       command.ConnectionStatus
}

// New creates a Server for pin. Readings are loaded on every plot request.
// Metrics are registered with a private registry served on /metrics.
func New(addr string, pin int, load LoadFunc, tracker *status.Tracker) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		tracker: tracker,
		load:    load,
		// No publisher: a polling client must not flood the bot's log
		// with no-data messages.
		pipeline: &plot.Pipeline{},
		metrics:  NewMetrics(reg),
		pin:      pin,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/plot.png", s.handlePlot)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// TrackConnection reports cs as the broker connection on the status page.
// Call it before serving.
func (s *Server) TrackConnection(cs command.ConnectionStatus) {
	s.conn = cs
}

// snapshot refreshes the broker connection state and returns the status.
func (s *Server) snapshot() status.Snapshot {
	if s.conn != nil {
		s.tracker.SetMQTTConnected(s.conn.IsConnected())
	}
	return s.tracker.Snapshot()
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	pin := s.pin
	if v := r.URL.Query().Get("pin"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 0 {
			http.Error(w, "invalid pin", http.StatusBadRequest)
			return
		}
		pin = p
	}

	readings, err := s.load(pin)
	if err != nil {
		s.fail(w, start, err)
		return
	}

	img, sum, err := s.pipeline.Run(r.Context(), readings, pin)
	if errors.Is(err, logic.ErrEmptyInput) {
		s.tracker.RecordNoData()
		s.metrics.observe(outcomeNoData, start)
		http.Error(w, "no data available for pin "+strconv.Itoa(pin), http.StatusNotFound)
		return
	}
	if err != nil {
		s.fail(w, start, err)
		return
	}

	var buf bytes.Buffer
	if err := sink.Encode(&buf, img); err != nil {
		s.fail(w, start, err)
		return
	}

	s.tracker.RecordRender(status.LastRender{
		At:         start,
		Points:     sum.Points,
		Dropped:    sum.Dropped,
		MostRecent: sum.MostRecent,
	})
	s.metrics.Points.Set(float64(sum.Points))
	s.metrics.Dropped.Set(float64(sum.Dropped))
	s.metrics.observe(outcomeOK, start)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

func (s *Server) fail(w http.ResponseWriter, start time.Time, err error) {
	log.Printf("plot: %v", err)
	s.tracker.RecordError(err)
	s.metrics.observe(outcomeError, start)
	http.Error(w, "render failed", http.StatusInternalServerError)
}
