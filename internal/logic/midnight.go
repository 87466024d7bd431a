package logic

import "time"

// NextMidnight returns the first instant of the next calendar day in loc.
// time.Date normalizes around DST transitions, so the result is correct on
// days where local midnight is skipped or repeated.
func NextMidnight(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
}

// UntilNextMidnight returns the duration to arm a one-shot reset timer for.
// The caller rearms after each firing, keeping the timer correct across
// variable day lengths.
func UntilNextMidnight(now time.Time, loc *time.Location) time.Duration {
	return NextMidnight(now, loc).Sub(now)
}
