package mqtt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sweeney/feeder-control/internal/logic"
)

// FeedHandlers receives parsed feed updates. Each handler is invoked from
// the MQTT client's callback goroutine; handlers must be safe to call
// concurrently with the tick loop (the state caches are).
type FeedHandlers struct {
	OnSettings   func(logic.Settings)
	OnWeather    func(temperature, humidity float64)
	OnTempAdapt  func(enabled bool)
	OnBowlWeight func(sp logic.Species, grams float64)
}

// weatherPayload is the environment feed message shape. Pointers distinguish
// a missing field from a zero reading.
type weatherPayload struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
}

// ParseSettings decodes a full settings document.
func ParseSettings(payload []byte) (logic.Settings, error) {
	var s logic.Settings
	if err := json.Unmarshal(payload, &s); err != nil {
		return logic.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

// ParseWeather decodes a temperature/humidity pair. Both fields must be
// present; a partial message is an error and the cached readings keep their
// previous values.
func ParseWeather(payload []byte) (temperature, humidity float64, err error) {
	var w weatherPayload
	if err := json.Unmarshal(payload, &w); err != nil {
		return 0, 0, fmt.Errorf("decode environment: %w", err)
	}
	if w.Temperature == nil || w.Humidity == nil {
		return 0, 0, fmt.Errorf("environment message missing temperature or humidity")
	}
	return *w.Temperature, *w.Humidity, nil
}

// ParseTempAdapt decodes the adaptation flag. Anything unparseable reads as
// false.
func ParseTempAdapt(payload []byte) bool {
	v, err := strconv.ParseBool(string(bytes.TrimSpace(payload)))
	if err != nil {
		return false
	}
	return v
}

// ParseBowlWeight decodes a bowl weight in grams. An absent or invalid
// payload reads as 0.
func ParseBowlWeight(payload []byte) float64 {
	v, err := strconv.ParseFloat(string(bytes.TrimSpace(payload)), 64)
	if err != nil {
		return 0
	}
	return v
}
