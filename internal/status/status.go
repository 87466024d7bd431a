// Package status provides a thread-safe status tracker for the feeder-control
// daemon. It is read by HTTP handlers and snapshotted into system events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/feeder-control/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs      int64
	HeartbeatMs int64
	Broker      string
	Account     string
	HTTPPort    string
	Timezone    string
}

// DispenseRecord is the most recent successful dispense.
type DispenseRecord struct {
	Time    time.Time
	Species logic.Species
	Amount  int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	SettingsLoaded  bool
	AutoFeedEnabled bool
	CatEntries      int
	DogEntries      int
	Env             logic.Environment
	Counts          logic.DecisionCounts
	FiredToday      int
	LastDispense    *DispenseRecord
	StartTime       time.Time
	Now             time.Time
	MQTTConnected   bool
	Config          Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
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

// Update sets the loop-owned fields. Called from the tick loop on every tick.
func (t *Tracker) Update(settings logic.Settings, loaded bool, env logic.Environment, counts logic.DecisionCounts, firedToday int) {
	t.mu.Lock()
	t.snap.SettingsLoaded = loaded
	t.snap.AutoFeedEnabled = settings.AutoFeedEnabled
	t.snap.CatEntries = len(settings.Cat.Schedule)
	t.snap.DogEntries = len(settings.Dog.Schedule)
	t.snap.Env = env
	t.snap.Counts = counts
	t.snap.FiredToday = firedToday
	t.mu.Unlock()
}

// RecordDispense stores the most recent successful dispense.
func (t *Tracker) RecordDispense(rec DispenseRecord) {
	t.mu.Lock()
	r := rec
	t.snap.LastDispense = &r
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
