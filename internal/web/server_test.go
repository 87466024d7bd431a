package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/feeder-control/internal/logic"
	"github.com/sweeney/feeder-control/internal/status"
)

func testServer() (*Server, *status.Tracker) {
	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:   1000,
		Broker:   "tcp://broker:1883",
		Account:  "home",
		Timezone: "Local",
	})
	return New(":0", tracker), tracker
}

func TestHandleIndex(t *testing.T) {
	srv, tracker := testServer()
	env := logic.Environment{
		Temperature: logic.Reading{Value: 25.5, Known: true},
		Humidity:    logic.Reading{Value: 60, Known: true},
		TempAdapt:   true,
		Bowl:        map[logic.Species]float64{logic.SpeciesCat: 12.5},
	}
	settings := logic.Settings{
		AutoFeedEnabled: true,
		Cat:             logic.PetSchedule{Schedule: []logic.ScheduleEntry{{Time: "08:00", Amount: 30}}},
	}
	tracker.Update(settings, true, env, logic.DecisionCounts{Dispensed: 1}, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	html := string(body)

	for _, want := range []string{"Feeder Control", "25.5", "12.5g", "ON", "tcp://broker:1883"} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestHandleIndexUnknownReadings(t *testing.T) {
	srv, tracker := testServer()
	tracker.Update(logic.Settings{}, false, logic.Environment{Bowl: map[logic.Species]float64{}}, logic.DecisionCounts{}, 0)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "unknown") {
		t.Error("page should render unknown readings as \"unknown\"")
	}
}

func TestHandleIndexNotFound(t *testing.T) {
	srv, _ := testServer()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleJSON(t *testing.T) {
	srv, tracker := testServer()
	tracker.SetMQTTConnected(true)

	req := httptest.NewRequest(http.MethodGet, "/index.json", nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}

	var parsed status.StatusJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !parsed.Status.MQTT.Connected {
		t.Error("expected mqtt connected in JSON")
	}
	if parsed.Status.Config.Account != "home" {
		t.Errorf("account: got %q", parsed.Status.Config.Account)
	}
}
