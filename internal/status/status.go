// Package status provides a thread-safe record of render outcomes for the
// plot server. It is read by the HTTP handlers.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/sensor-plot/internal/logic"
)

// Config contains server configuration for display.
type Config struct {
	Pin       int
	Mode      logic.SensorMode
	Transport string
	Broker    string
	HTTPAddr  string
	ImagesDir string
}

// Counts tallies render requests by outcome.
type Counts struct {
	Rendered int
	NoData   int
	Failed   int
}

// LastRender describes the most recent successful render.
type LastRender struct {
	At         time.Time
	Points     int
	Dropped    int
	MostRecent float64 // unix seconds of the newest bucket
}

// Snapshot is a point-in-time view of server state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Counts        Counts
	Last          *LastRender
	LastError     string
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the server started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable server state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// RecordRender counts a successful render and remembers its shape.
func (t *Tracker) RecordRender(r LastRender) {
	t.mu.Lock()
	t.snap.Counts.Rendered++
	t.snap.Last = &r
	t.snap.LastError = ""
	t.mu.Unlock()
}

// RecordNoData counts a request for a pin with no stored readings.
func (t *Tracker) RecordNoData() {
	t.mu.Lock()
	t.snap.Counts.NoData++
	t.mu.Unlock()
}

// RecordError counts a failed render.
func (t *Tracker) RecordError(err error) {
	t.mu.Lock()
	t.snap.Counts.Failed++
	if err != nil {
		t.snap.LastError = err.Error()
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the server state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	if s.Last != nil {
		last := *s.Last
		s.Last = &last
	}
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
