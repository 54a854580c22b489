package web

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Render outcomes used as the "outcome" label.
const (
	outcomeOK     = "ok"
	outcomeNoData = "no_data"
	outcomeError  = "error"
)

// Metrics are the Prometheus collectors for the plot server.
type Metrics struct {
	Renders        *prometheus.CounterVec
	RenderDuration prometheus.Histogram
	Points         prometheus.Gauge
	Dropped        prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sensor_plot_renders_total",
			Help: "Plot requests by outcome",
		}, []string{"outcome"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sensor_plot_render_duration_seconds",
			Help:    "Time to load, reduce, render and encode a plot",
			Buckets: prometheus.DefBuckets,
		}),
		Points: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sensor_plot_points",
			Help: "Points drawn in the last plot",
		}),
		Dropped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sensor_plot_dropped_readings",
			Help: "Readings older than the horizon in the last plot",
		}),
	}
	reg.MustRegister(m.Renders, m.RenderDuration, m.Points, m.Dropped)
	return m
}

func (m *Metrics) observe(outcome string, start time.Time) {
	m.Renders.WithLabelValues(outcome).Inc()
	m.RenderDuration.Observe(time.Since(start).Seconds())
}
