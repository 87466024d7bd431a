// Package mqtt provides the feeder's MQTT transport: actuator command
// publishing, sensor/settings feed subscriptions, and system lifecycle
// events, with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/sweeney/feeder-control/internal/logic"
)

const topicRoot = "petfeeder"

// Topics builds the account-scoped topic layout. Every feed and actuator
// location lives under petfeeder/<account>/.
type Topics struct {
	Account string
}

func (t Topics) prefix() string {
	return topicRoot + "/" + t.Account
}

// Settings is the topic carrying the full settings document.
func (t Topics) Settings() string {
	return t.prefix() + "/settings"
}

// TempAdapt is the topic carrying the adaptation-enabled flag.
func (t Topics) TempAdapt() string {
	return t.prefix() + "/settings/tempadapt"
}

// Environment is the topic carrying temperature/humidity pairs.
func (t Topics) Environment() string {
	return t.prefix() + "/environment"
}

// Bowl is the topic carrying one species' bowl weight in grams.
func (t Topics) Bowl(sp logic.Species) string {
	return t.prefix() + "/" + string(sp) + "/bowl"
}

// DispenseAmount is the actuator location for the portion size. It must be
// written before DispenseRun so the actuator never reads a stale amount with
// a fresh trigger.
func (t Topics) DispenseAmount(sp logic.Species) string {
	return t.prefix() + "/dispenser/" + string(sp) + "/amount"
}

// DispenseRun is the actuator trigger flag.
func (t Topics) DispenseRun(sp logic.Species) string {
	return t.prefix() + "/dispenser/" + string(sp) + "/run"
}

// System is the topic for daemon lifecycle events.
func (t Topics) System() string {
	return t.prefix() + "/system"
}

// Dispenser issues dispense commands and lifecycle events to the broker.
type Dispenser interface {
	// Dispense writes the command to the actuator location: amount first,
	// then the run trigger. Returns error if either write fails (should not
	// crash the process and is never retried).
	Dispense(cmd logic.Command) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// FormatAmount renders the payload for the actuator amount location.
func FormatAmount(grams int) []byte {
	return []byte(strconv.Itoa(grams))
}

// FormatRun renders the payload for the actuator run trigger.
func FormatRun() []byte {
	return []byte("true")
}
