package mqtt

import (
	"testing"

	"github.com/sweeney/feeder-control/internal/logic"
)

func TestParseSettings(t *testing.T) {
	payload := []byte(`{
		"autoFeedEnabled": true,
		"cat": {"schedule": [{"time": "08:00", "amount": 30}, {"time": "18:00", "amount": 25}]},
		"dog": {"schedule": [{"time": "07:30", "amount": 60}]}
	}`)

	s, err := ParseSettings(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.AutoFeedEnabled {
		t.Error("expected autoFeedEnabled true")
	}
	if len(s.Cat.Schedule) != 2 {
		t.Fatalf("expected 2 cat entries, got %d", len(s.Cat.Schedule))
	}
	if s.Cat.Schedule[0] != (logic.ScheduleEntry{Time: "08:00", Amount: 30}) {
		t.Errorf("unexpected cat entry: %+v", s.Cat.Schedule[0])
	}
	if len(s.Dog.Schedule) != 1 || s.Dog.Schedule[0].Amount != 60 {
		t.Errorf("unexpected dog schedule: %+v", s.Dog.Schedule)
	}
}

func TestParseSettingsEmptySchedules(t *testing.T) {
	s, err := ParseSettings([]byte(`{"autoFeedEnabled": false}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.AutoFeedEnabled {
		t.Error("expected autoFeedEnabled false")
	}
	if len(s.Cat.Schedule) != 0 || len(s.Dog.Schedule) != 0 {
		t.Error("expected empty schedules")
	}
}

func TestParseSettingsInvalid(t *testing.T) {
	if _, err := ParseSettings([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestParseWeather(t *testing.T) {
	temp, hum, err := ParseWeather([]byte(`{"temperature": 25.5, "humidity": 60}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if temp != 25.5 || hum != 60 {
		t.Errorf("got %v/%v, want 25.5/60", temp, hum)
	}
}

func TestParseWeatherZeroIsValid(t *testing.T) {
	temp, hum, err := ParseWeather([]byte(`{"temperature": 0, "humidity": 0}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if temp != 0 || hum != 0 {
		t.Errorf("got %v/%v, want 0/0", temp, hum)
	}
}

func TestParseWeatherMissingField(t *testing.T) {
	if _, _, err := ParseWeather([]byte(`{"temperature": 25.5}`)); err == nil {
		t.Error("expected error for missing humidity")
	}
	if _, _, err := ParseWeather([]byte(`{"humidity": 60}`)); err == nil {
		t.Error("expected error for missing temperature")
	}
	if _, _, err := ParseWeather([]byte(`{}`)); err == nil {
		t.Error("expected error for empty message")
	}
}

func TestParseWeatherInvalid(t *testing.T) {
	if _, _, err := ParseWeather([]byte(`garbage`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestParseTempAdapt(t *testing.T) {
	tests := []struct {
		payload string
		want    bool
	}{
		{"true", true},
		{"1", true},
		{"false", false},
		{"0", false},
		{" true\n", true},
		{"", false},
		{"garbage", false},
	}
	for _, tt := range tests {
		if got := ParseTempAdapt([]byte(tt.payload)); got != tt.want {
			t.Errorf("ParseTempAdapt(%q) = %v, want %v", tt.payload, got, tt.want)
		}
	}
}

func TestParseBowlWeight(t *testing.T) {
	tests := []struct {
		payload string
		want    float64
	}{
		{"12.5", 12.5},
		{"0", 0},
		{"40", 40},
		{" 7.25\n", 7.25},
		{"", 0},       // absent payload reads as 0
		{"abc", 0},    // invalid payload reads as 0
		{"null", 0},
	}
	for _, tt := range tests {
		if got := ParseBowlWeight([]byte(tt.payload)); got != tt.want {
			t.Errorf("ParseBowlWeight(%q) = %v, want %v", tt.payload, got, tt.want)
		}
	}
}
