package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/feeder-control/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event          string            `json:"event,omitempty"`
	Reason         string            `json:"reason,omitempty"`
	AutoFeed       bool              `json:"auto_feed"`
	SettingsLoaded bool              `json:"settings_loaded"`
	Schedules      SchedulesJSON     `json:"schedules"`
	Environment    EnvironmentJSON   `json:"environment"`
	Decisions      DecisionsJSON     `json:"decisions"`
	FiredToday     int               `json:"fired_today"`
	LastDispense   *LastDispenseJSON `json:"last_dispense,omitempty"`
	UptimeSeconds  int64             `json:"uptime_seconds"`
	StartTime      string            `json:"start_time"`
	Timestamp      string            `json:"timestamp"`
	MQTT           MQTTStatus        `json:"mqtt"`
	Config         ConfigJSON        `json:"config"`
}

// SchedulesJSON reports how many entries each species has configured.
type SchedulesJSON struct {
	CatEntries int `json:"cat_entries"`
	DogEntries int `json:"dog_entries"`
}

// EnvironmentJSON is the JSON representation of the sensor readings.
// Nil pointers mean the reading has not arrived.
type EnvironmentJSON struct {
	Temperature *float64           `json:"temperature"`
	Humidity    *float64           `json:"humidity"`
	THI         *float64           `json:"thi"`
	TempAdapt   bool               `json:"temp_adapt"`
	Bowls       map[string]float64 `json:"bowls"`
}

// DecisionsJSON is the JSON representation of decision counts.
type DecisionsJSON struct {
	Dispensed   int `json:"dispensed"`
	HeatBlocked int `json:"heat_blocked"`
	BowlFull    int `json:"bowl_full"`
}

// LastDispenseJSON is the JSON representation of the last dispense.
type LastDispenseJSON struct {
	Timestamp string `json:"timestamp"`
	Species   string `json:"species"`
	Amount    int    `json:"amount"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs      int64  `json:"tick_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	Account     string `json:"account"`
	HTTPPort    string `json:"http_port"`
	Timezone    string `json:"timezone"`
}

func buildInner(snap Snapshot) StatusInner {
	env := EnvironmentJSON{
		TempAdapt: snap.Env.TempAdapt,
		Bowls:     map[string]float64{},
	}
	if snap.Env.Temperature.Known {
		v := snap.Env.Temperature.Value
		env.Temperature = &v
	}
	if snap.Env.Humidity.Known {
		v := snap.Env.Humidity.Value
		env.Humidity = &v
	}
	if snap.Env.Temperature.Known && snap.Env.Humidity.Known {
		thi := logic.THI(snap.Env.Temperature.Value, snap.Env.Humidity.Value)
		env.THI = &thi
	}
	for sp, w := range snap.Env.Bowl {
		env.Bowls[string(sp)] = w
	}

	inner := StatusInner{
		AutoFeed:       snap.AutoFeedEnabled,
		SettingsLoaded: snap.SettingsLoaded,
		Schedules: SchedulesJSON{
			CatEntries: snap.CatEntries,
			DogEntries: snap.DogEntries,
		},
		Environment: env,
		Decisions: DecisionsJSON{
			Dispensed:   snap.Counts.Dispensed,
			HeatBlocked: snap.Counts.HeatBlocked,
			BowlFull:    snap.Counts.BowlFull,
		},
		FiredToday:    snap.FiredToday,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			TickMs:      snap.Config.TickMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			Account:     snap.Config.Account,
			HTTPPort:    snap.Config.HTTPPort,
			Timezone:    snap.Config.Timezone,
		},
	}

	if snap.LastDispense != nil {
		inner.LastDispense = &LastDispenseJSON{
			Timestamp: snap.LastDispense.Time.UTC().Format(time.RFC3339),
			Species:   string(snap.LastDispense.Species),
			Amount:    snap.LastDispense.Amount,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
