package state

import (
	"sync"
	"testing"

	"github.com/sweeney/feeder-control/internal/logic"
)

func TestSettingsStoreEmptyUntilSet(t *testing.T) {
	s := NewSettingsStore()
	if _, loaded := s.Get(); loaded {
		t.Error("new store should not report loaded")
	}
}

func TestSettingsStoreLastWriteWins(t *testing.T) {
	s := NewSettingsStore()
	s.Set(logic.Settings{AutoFeedEnabled: true})
	s.Set(logic.Settings{AutoFeedEnabled: false})

	got, loaded := s.Get()
	if !loaded {
		t.Fatal("expected loaded after Set")
	}
	if got.AutoFeedEnabled {
		t.Error("expected the later write to win")
	}
}

func TestEnvCacheUnknownUntilSet(t *testing.T) {
	c := NewEnvCache()
	env := c.Snapshot()
	if env.Temperature.Known || env.Humidity.Known {
		t.Error("readings should be unknown before any update")
	}
	if env.BowlWeight(logic.SpeciesCat) != 0 {
		t.Error("missing bowl reading should read as 0")
	}
}

func TestEnvCacheFieldOwnership(t *testing.T) {
	c := NewEnvCache()
	c.SetWeather(25.5, 60)
	c.SetTempAdapt(true)
	c.SetBowlWeight(logic.SpeciesCat, 12.5)
	c.SetBowlWeight(logic.SpeciesDog, 40)

	env := c.Snapshot()
	if !env.Temperature.Known || env.Temperature.Value != 25.5 {
		t.Errorf("temperature: got %+v", env.Temperature)
	}
	if !env.Humidity.Known || env.Humidity.Value != 60 {
		t.Errorf("humidity: got %+v", env.Humidity)
	}
	if !env.TempAdapt {
		t.Error("expected tempAdapt true")
	}
	if env.BowlWeight(logic.SpeciesCat) != 12.5 {
		t.Errorf("cat bowl: got %v", env.BowlWeight(logic.SpeciesCat))
	}
	if env.BowlWeight(logic.SpeciesDog) != 40 {
		t.Errorf("dog bowl: got %v", env.BowlWeight(logic.SpeciesDog))
	}
}

func TestEnvCacheZeroDistinctFromUnknown(t *testing.T) {
	c := NewEnvCache()
	c.SetWeather(0, 0)
	env := c.Snapshot()
	if !env.Temperature.Known {
		t.Error("a zero reading must still be known")
	}
	if env.Temperature.Value != 0 {
		t.Errorf("expected 0, got %v", env.Temperature.Value)
	}
}

func TestSnapshotOwnsBowlMap(t *testing.T) {
	c := NewEnvCache()
	c.SetBowlWeight(logic.SpeciesCat, 10)
	env := c.Snapshot()
	c.SetBowlWeight(logic.SpeciesCat, 99)
	if env.BowlWeight(logic.SpeciesCat) != 10 {
		t.Error("snapshot must not observe later writes")
	}
}

// TestConcurrentFeedWrites exercises the caches under the race detector:
// five writers (one per feed) against a reading tick loop.
func TestConcurrentFeedWrites(t *testing.T) {
	settings := NewSettingsStore()
	env := NewEnvCache()

	var wg sync.WaitGroup
	writers := []func(i int){
		func(i int) { settings.Set(logic.Settings{AutoFeedEnabled: i%2 == 0}) },
		func(i int) { env.SetWeather(float64(i), float64(i)) },
		func(i int) { env.SetTempAdapt(i%2 == 0) },
		func(i int) { env.SetBowlWeight(logic.SpeciesCat, float64(i)) },
		func(i int) { env.SetBowlWeight(logic.SpeciesDog, float64(i)) },
	}
	for _, w := range writers {
		wg.Add(1)
		go func(w func(int)) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				w(i)
			}
		}(w)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			settings.Get()
			env.Snapshot()
		}
	}()

	wg.Wait()
}
