package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/sensor-plot/internal/render"
	"github.com/sweeney/sensor-plot/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stamp": render.FormatTimestamp,
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: monospace; max-width: 840px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
img { border: 1px solid #ddd; max-width: 100%; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.connected { color: green; }
.disconnected { color: red; }
.error { color: red; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>

<p><img src="/plot.png" width="800" height="600" alt="{{.Title}}"></p>

<h2>Last Plot</h2>
<table>
{{if .Last}}<tr><th>Rendered</th><td>{{.Last.At.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Most recent reading</th><td>{{stamp .Last.MostRecent}}</td></tr>
<tr><th>Points</th><td>{{.Last.Points}}</td></tr>
<tr><th>Dropped (older than horizon)</th><td>{{.Last.Dropped}}</td></tr>
{{else}}<tr><th>Rendered</th><td>never</td></tr>
{{end}}{{if .LastError}}<tr><th>Last error</th><td class="error">{{.LastError}}</td></tr>{{end}}
</table>

<h2>Requests</h2>
<table>
<tr><th>Rendered</th><td>{{.Counts.Rendered}}</td></tr>
<tr><th>No data</th><td>{{.Counts.NoData}}</td></tr>
<tr><th>Failed</th><td>{{.Counts.Failed}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Pin</th><td>{{.Config.Pin}} ({{.Config.Mode}})</td></tr>
<tr><th>Transport</th><td>{{.Config.Transport}}</td></tr>
{{if .Config.Broker}}<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>{{end}}
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
		Title  string
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Title:    render.Title(snap.Config.Mode, snap.Config.Pin),
	}
	indexTmpl.Execute(w, data)
}
