package state

import (
	"sync"

	"github.com/sweeney/feeder-control/internal/logic"
)

// EnvCache holds the latest environmental and bowl-weight readings. Each
// setter is owned by one feed; the tick loop only reads via Snapshot.
type EnvCache struct {
	mu          sync.RWMutex
	temperature logic.Reading
	humidity    logic.Reading
	tempAdapt   bool
	bowl        map[logic.Species]float64
}

// NewEnvCache creates a cache with all readings unknown.
func NewEnvCache() *EnvCache {
	return &EnvCache{bowl: make(map[logic.Species]float64)}
}

// SetWeather records a temperature/humidity pair. The environment feed
// delivers both values in one message.
func (c *EnvCache) SetWeather(temperature, humidity float64) {
	c.mu.Lock()
	c.temperature = logic.Reading{Value: temperature, Known: true}
	c.humidity = logic.Reading{Value: humidity, Known: true}
	c.mu.Unlock()
}

// SetTempAdapt records the adaptation-enabled flag.
func (c *EnvCache) SetTempAdapt(enabled bool) {
	c.mu.Lock()
	c.tempAdapt = enabled
	c.mu.Unlock()
}

// SetBowlWeight records the bowl weight in grams for one species.
func (c *EnvCache) SetBowlWeight(sp logic.Species, grams float64) {
	c.mu.Lock()
	c.bowl[sp] = grams
	c.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the cache. The returned value
// owns its bowl map and is safe to use after the lock is released.
func (c *EnvCache) Snapshot() logic.Environment {
	c.mu.RLock()
	defer c.mu.RUnlock()

	bowl := make(map[logic.Species]float64, len(c.bowl))
	for sp, w := range c.bowl {
		bowl[sp] = w
	}
	return logic.Environment{
		Temperature: c.temperature,
		Humidity:    c.humidity,
		TempAdapt:   c.tempAdapt,
		Bowl:        bowl,
	}
}
