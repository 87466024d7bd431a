package logic

import "math"

// deadbandGrams is the minimum adjustment worth acting on. Smaller deltas are
// discarded to avoid noisy micro-adjustments from sensor jitter.
const deadbandGrams = 5

// THI computes the temperature-humidity index used as a heat-stress proxy.
// Temperature in °C, humidity in %RH.
func THI(temperature, humidity float64) float64 {
	dewPoint := temperature - (100-humidity)/5
	return temperature + 0.36*dewPoint + 41.2
}

// Adapt returns the heat-adjusted portion for a base amount in grams.
//
// If adaptation is disabled or either reading has not arrived, the base
// amount passes through unchanged. A THI above the danger band returns 0,
// which the dispatch gate treats as a safety block; zero is returned before
// the deadband comparison so a very small base cannot slip past the cutoff.
func Adapt(base int, temperature, humidity Reading, enabled bool) int {
	if !enabled || !temperature.Known || !humidity.Known {
		return base
	}

	thi := THI(temperature.Value, humidity.Value)
	if math.IsNaN(thi) || math.IsInf(thi, 0) {
		return base
	}

	var adapted int
	switch {
	case thi < 70:
		adapted = int(math.Round(float64(base) * 1.10))
	case thi <= 75:
		adapted = base
	case thi <= 80:
		adapted = int(math.Round(float64(base) * 0.90))
	case thi <= 85:
		adapted = int(math.Round(float64(base) * 0.80))
	default:
		// Danger heat: suppress feeding entirely.
		return 0
	}

	if abs(adapted-base) < deadbandGrams {
		return base
	}
	return adapted
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
