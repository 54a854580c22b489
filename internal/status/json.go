package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/sensor-plot/internal/render"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Pin           int             `json:"pin"`
	Mode          string          `json:"mode"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	StartTime     string          `json:"start_time"`
	Timestamp     string          `json:"timestamp"`
	MQTT          MQTTStatus      `json:"mqtt"`
	Counts        CountsJSON      `json:"render_counts"`
	Last          *LastRenderJSON `json:"last_render,omitempty"`
	LastError     string          `json:"last_error,omitempty"`
	Config        ConfigJSON      `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of render counts.
type CountsJSON struct {
	Rendered int `json:"rendered"`
	NoData   int `json:"no_data"`
	Failed   int `json:"failed"`
}

// LastRenderJSON is the JSON representation of the last render.
type LastRenderJSON struct {
	At              string  `json:"at"`
	Points          int     `json:"points"`
	Dropped         int     `json:"dropped"`
	MostRecent      float64 `json:"most_recent"`
	MostRecentLabel string  `json:"most_recent_label"`
}

// ConfigJSON is the JSON representation of server config.
type ConfigJSON struct {
	Transport string `json:"transport"`
	Broker    string `json:"broker,omitempty"`
	HTTPAddr  string `json:"http_addr"`
	ImagesDir string `json:"images_dir,omitempty"`
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	inner := StatusInner{
		Pin:           snap.Config.Pin,
		Mode:          snap.Config.Mode.String(),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Rendered: snap.Counts.Rendered,
			NoData:   snap.Counts.NoData,
			Failed:   snap.Counts.Failed,
		},
		LastError: snap.LastError,
		Config: ConfigJSON{
			Transport: snap.Config.Transport,
			Broker:    snap.Config.Broker,
			HTTPAddr:  snap.Config.HTTPAddr,
			ImagesDir: snap.Config.ImagesDir,
		},
	}

	if snap.Last != nil {
		inner.Last = &LastRenderJSON{
			At:              snap.Last.At.UTC().Format(time.RFC3339),
			Points:          snap.Last.Points,
			Dropped:         snap.Last.Dropped,
			MostRecent:      snap.Last.MostRecent,
			MostRecentLabel: render.FormatTimestamp(snap.Last.MostRecent),
		}
	}

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}
