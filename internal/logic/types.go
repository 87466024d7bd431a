// Package logic contains pure business logic for the feeding decision loop.
// This package has NO external dependencies (no MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Species identifies which pet a schedule entry or command belongs to.
type Species string

const (
	SpeciesCat Species = "cat"
	SpeciesDog Species = "dog"
)

// AllSpecies lists every species the feeder knows about, in evaluation order.
var AllSpecies = []Species{SpeciesCat, SpeciesDog}

// ScheduleEntry is a single feeding slot: a wall-clock time of day ("HH:MM",
// local) and a portion size in grams.
type ScheduleEntry struct {
	Time   string `json:"time"`
	Amount int    `json:"amount"`
}

// PetSchedule holds one species' feeding slots. Order is display order only;
// every entry is checked on every tick.
type PetSchedule struct {
	Schedule []ScheduleEntry `json:"schedule"`
}

// Settings is the full feeder configuration, replaced wholesale on every
// settings update (last-write-wins, no merge).
type Settings struct {
	AutoFeedEnabled bool        `json:"autoFeedEnabled"`
	Cat             PetSchedule `json:"cat"`
	Dog             PetSchedule `json:"dog"`
}

// ScheduleFor returns the schedule for the given species.
func (s Settings) ScheduleFor(sp Species) []ScheduleEntry {
	switch sp {
	case SpeciesCat:
		return s.Cat.Schedule
	case SpeciesDog:
		return s.Dog.Schedule
	}
	return nil
}

// Reading is a sensor value that may not have arrived yet. A missing reading
// must be distinguishable from a zero reading.
type Reading struct {
	Value float64
	Known bool
}

// Environment is a point-in-time view of the sensor inputs a dispatch
// decision reads. It is a value type — safe to use after the cache lock is
// released.
type Environment struct {
	Temperature Reading
	Humidity    Reading
	TempAdapt   bool
	Bowl        map[Species]float64
}

// BowlWeight returns the last known bowl weight for the species, or 0 if no
// reading has arrived.
func (e Environment) BowlWeight(sp Species) float64 {
	return e.Bowl[sp]
}

// FireKey identifies one schedule entry's eligibility on one calendar day.
// At most one dispatch may occur per key.
type FireKey struct {
	Species Species
	Time    string // "HH:MM"
	Day     string // "2006-01-02" in the feeder's timezone
}

// Command is a dispense instruction for the actuator.
type Command struct {
	Species Species
	Amount  int // grams
}

// Outcome classifies the result of evaluating one matched schedule entry.
type Outcome string

const (
	// OutcomeDispensed means a command was issued and the slot consumed.
	OutcomeDispensed Outcome = "DISPENSED"
	// OutcomeHeatBlocked means the danger-heat cutoff suppressed feeding.
	// The slot is not consumed; it may re-evaluate within the same minute.
	OutcomeHeatBlocked Outcome = "HEAT_BLOCKED"
	// OutcomeBowlFull means the bowl already held at least the adjusted
	// amount. The slot is not consumed.
	OutcomeBowlFull Outcome = "BOWL_FULL"
)

// Decision records the evaluation of one candidate firing.
type Decision struct {
	Timestamp time.Time
	Species   Species
	Time      string // schedule slot "HH:MM"
	Base      int    // configured grams
	Adjusted  int    // heat-adjusted grams
	Outcome   Outcome
}

// DecisionCounts tracks how many decisions of each outcome occurred since
// startup.
type DecisionCounts struct {
	Dispensed   int
	HeatBlocked int
	BowlFull    int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    DecisionCounts
}
