package logic

import (
	"testing"
	"time"
)

func TestNextMidnight(t *testing.T) {
	now := time.Date(2026, 7, 1, 15, 30, 45, 0, time.UTC)
	got := NextMidnight(now, time.UTC)
	want := time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NextMidnight = %v, want %v", got, want)
	}
}

func TestUntilNextMidnight(t *testing.T) {
	now := time.Date(2026, 7, 1, 23, 0, 0, 0, time.UTC)
	if d := UntilNextMidnight(now, time.UTC); d != time.Hour {
		t.Errorf("UntilNextMidnight = %v, want 1h", d)
	}
}

func TestNextMidnightCrossesMonth(t *testing.T) {
	now := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)
	want := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if got := NextMidnight(now, time.UTC); !got.Equal(want) {
		t.Errorf("NextMidnight = %v, want %v", got, want)
	}
}

func TestUntilNextMidnightShortDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 2026-03-08 is the US spring-forward date: the day is 23 hours long,
	// so a timer armed at midnight must fire after 23h, not 24h.
	now := time.Date(2026, 3, 8, 0, 0, 0, 0, loc)
	if d := UntilNextMidnight(now, loc); d != 23*time.Hour {
		t.Errorf("spring-forward day: UntilNextMidnight = %v, want 23h", d)
	}
}

func TestUntilNextMidnightLongDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 2026-11-01 is the US fall-back date: the day is 25 hours long.
	now := time.Date(2026, 11, 1, 0, 0, 0, 0, loc)
	if d := UntilNextMidnight(now, loc); d != 25*time.Hour {
		t.Errorf("fall-back day: UntilNextMidnight = %v, want 25h", d)
	}
}

func TestNextMidnightUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	// 23:30 UTC is already 01:30 the next day in UTC+2.
	now := time.Date(2026, 7, 1, 23, 30, 0, 0, time.UTC)
	got := NextMidnight(now, loc)
	want := time.Date(2026, 7, 3, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("NextMidnight = %v, want %v", got, want)
	}
}
