package core

import "math"

// spreadStep is the relative distance between neighbouring temperatures.
const spreadStep = 0.10

// TemperatureSpread fans count temperatures symmetrically around base, each
// step 10% of base apart, clamped to [0, 1] and rounded to three decimals.
// Clamping may compress the fan near the bounds.
func TemperatureSpread(base float64, count int) []float64 {
	if count <= 1 {
		return []float64{clampTemperature(base)}
	}

	center := float64(count-1) / 2.0
	temps := make([]float64, count)
	for i := range temps {
		offset := float64(i) - center
		temp := clampTemperature(base * (1.0 + spreadStep*offset))
		temps[i] = math.Round(temp*1000) / 1000
	}
	return temps
}

func clampTemperature(t float64) float64 {
	return math.Max(MinTemperature, math.Min(MaxTemperature, t))
}
