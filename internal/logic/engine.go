package logic

import "time"

// Engine matches schedules against the clock and decides whether each
// candidate firing dispenses, is blocked by heat, or is skipped because the
// bowl is full. It tracks which (species, time, day) slots already dispensed
// so a slot fires at most once per calendar day.
//
// Engine is not safe for concurrent use; it is owned by the tick loop.
type Engine struct {
	loc           *time.Location
	fired         map[FireKey]bool
	counts        DecisionCounts
	startTime     time.Time
	lastHeartbeat time.Time
}

// NewEngine creates an Engine evaluating times and calendar days in the
// given location. The startTime is used for calculating uptime in heartbeat
// events.
func NewEngine(loc *time.Location, startTime time.Time) *Engine {
	return &Engine{
		loc:           loc,
		fired:         make(map[FireKey]bool),
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Input is everything one tick's evaluation reads.
type Input struct {
	Settings Settings
	Loaded   bool // settings have arrived at least once
	Env      Environment
	Time     time.Time
}

// Evaluate runs one tick: every schedule entry of every species whose time
// equals the current minute and whose slot has not yet dispensed today is
// pushed through the dispatch gate. Returns one Decision per candidate.
//
// Only a dispensed decision consumes the slot. Heat-blocked and bowl-full
// candidates stay eligible and re-evaluate on later ticks within the same
// matching minute.
func (e *Engine) Evaluate(in Input) []Decision {
	if !in.Loaded || !in.Settings.AutoFeedEnabled {
		return nil
	}

	local := in.Time.In(e.loc)
	minute := local.Format("15:04")
	day := local.Format("2006-01-02")

	var decisions []Decision
	for _, sp := range AllSpecies {
		for _, entry := range in.Settings.ScheduleFor(sp) {
			if !validEntry(entry) {
				continue
			}
			if entry.Time != minute {
				continue
			}
			key := FireKey{Species: sp, Time: entry.Time, Day: day}
			if e.fired[key] {
				continue
			}

			d := e.dispatch(sp, entry, in.Env, in.Time)
			if d.Outcome == OutcomeDispensed {
				e.fired[key] = true
			}
			decisions = append(decisions, d)
		}
	}

	e.count(decisions)
	return decisions
}

// dispatch applies the gate for one matched entry: heat adaptation, danger
// cutoff, bowl-full skip, then dispense.
func (e *Engine) dispatch(sp Species, entry ScheduleEntry, env Environment, now time.Time) Decision {
	d := Decision{
		Timestamp: now,
		Species:   sp,
		Time:      entry.Time,
		Base:      entry.Amount,
	}
	d.Adjusted = Adapt(entry.Amount, env.Temperature, env.Humidity, env.TempAdapt)

	if d.Adjusted == 0 && env.TempAdapt {
		d.Outcome = OutcomeHeatBlocked
		return d
	}
	if env.BowlWeight(sp) >= float64(d.Adjusted) {
		d.Outcome = OutcomeBowlFull
		return d
	}

	d.Outcome = OutcomeDispensed
	return d
}

func (e *Engine) count(decisions []Decision) {
	for _, d := range decisions {
		switch d.Outcome {
		case OutcomeDispensed:
			e.counts.Dispensed++
		case OutcomeHeatBlocked:
			e.counts.HeatBlocked++
		case OutcomeBowlFull:
			e.counts.BowlFull++
		}
	}
}

// validEntry reports whether an entry can ever match: a parseable zero-padded
// "HH:MM" time and a positive amount. Malformed entries never fire.
func validEntry(entry ScheduleEntry) bool {
	if entry.Amount <= 0 {
		return false
	}
	_, err := time.Parse("15:04", entry.Time)
	return err == nil && len(entry.Time) == 5
}

// Command builds the actuator command for a dispensed decision.
func (d Decision) Command() Command {
	return Command{Species: d.Species, Amount: d.Adjusted}
}

// ResetDay wipes the fired-slot set. Run at each local midnight so every
// slot becomes eligible for the new day.
func (e *Engine) ResetDay() {
	e.fired = make(map[FireKey]bool)
}

// FiredToday returns how many slots have dispensed since the last reset.
func (e *Engine) FiredToday() int {
	return len(e.fired)
}

// CountsSnapshot returns a copy of the decision counts since startup.
func (e *Engine) CountsSnapshot() DecisionCounts {
	return e.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since
// the last heartbeat (or startup). Returns nil if the interval has not
// elapsed, or if interval is <= 0 (disabled).
func (e *Engine) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if now.Sub(e.lastHeartbeat) < interval {
		return nil
	}

	e.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(e.startTime),
		Counts:    e.counts,
	}
}
