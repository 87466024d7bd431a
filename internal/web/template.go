package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/feeder-control/internal/logic"
	"github.com/sweeney/feeder-control/internal/status"
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
	"reading": func(r logic.Reading) string {
		if !r.Known {
			return "unknown"
		}
		return fmt.Sprintf("%.1f", r.Value)
	},
	"thi": func(env logic.Environment) string {
		if !env.Temperature.Known || !env.Humidity.Known {
			return "unknown"
		}
		return fmt.Sprintf("%.1f", logic.THI(env.Temperature.Value, env.Humidity.Value))
	},
	"bowl": func(env logic.Environment, sp string) string {
		return fmt.Sprintf("%.1fg", env.BowlWeight(logic.Species(sp)))
	},
	"onOff": func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Feeder Control</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Feeder Control</h1>

<table>
<tr><th>Auto feed</th><td class="{{if .AutoFeedEnabled}}on{{else}}off{{end}}">{{onOff .AutoFeedEnabled}}</td></tr>
<tr><th>Settings loaded</th><td>{{.SettingsLoaded}}</td></tr>
<tr><th>Cat schedule entries</th><td>{{.CatEntries}}</td></tr>
<tr><th>Dog schedule entries</th><td>{{.DogEntries}}</td></tr>
</table>

<table>
<tr><th>Temperature</th><td>{{reading .Env.Temperature}} &deg;C</td></tr>
<tr><th>Humidity</th><td>{{reading .Env.Humidity}} %</td></tr>
<tr><th>Heat index (THI)</th><td>{{thi .Env}}</td></tr>
<tr><th>Heat adaptation</th><td class="{{if .Env.TempAdapt}}on{{else}}off{{end}}">{{onOff .Env.TempAdapt}}</td></tr>
<tr><th>Cat bowl</th><td>{{bowl .Env "cat"}}</td></tr>
<tr><th>Dog bowl</th><td>{{bowl .Env "dog"}}</td></tr>
</table>

<table>
<tr><th>Dispensed</th><td>{{.Counts.Dispensed}}</td></tr>
<tr><th>Heat blocked</th><td>{{.Counts.HeatBlocked}}</td></tr>
<tr><th>Bowl full skips</th><td>{{.Counts.BowlFull}}</td></tr>
<tr><th>Slots fired today</th><td>{{.FiredToday}}</td></tr>
{{if .LastDispense}}<tr><th>Last dispense</th><td>{{.LastDispense.Species}} {{.LastDispense.Amount}}g at {{.LastDispense.Time.Format "15:04:05"}}</td></tr>{{end}}
</table>

<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Account</th><td>{{.Config.Account}}</td></tr>
<tr><th>Timezone</th><td>{{.Config.Timezone}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

// renderHTML writes the status page for the given snapshot.
func renderHTML(w io.Writer, snap status.Snapshot) error {
	return indexTmpl.Execute(w, snap)
}
