package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemperatureSpread_Examples(t *testing.T) {
	tests := []struct {
		name  string
		base  float64
		count int
		want  []float64
	}{
		{name: "three around 0.6", base: 0.6, count: 3, want: []float64{0.54, 0.6, 0.66}},
		{name: "clamped at one", base: 1.0, count: 3, want: []float64{0.9, 1.0, 1.0}},
		{name: "single", base: 0.7, count: 1, want: []float64{0.7}},
		{name: "single clamps high", base: 1.4, count: 1, want: []float64{1.0}},
		{name: "single clamps low", base: -0.2, count: 1, want: []float64{0.0}},
		{name: "zero count behaves as one", base: 0.5, count: 0, want: []float64{0.5}},
		{name: "even count", base: 0.5, count: 2, want: []float64{0.475, 0.525}},
		{name: "zero base", base: 0, count: 4, want: []float64{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TemperatureSpread(tt.base, tt.count)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-9, "index %d", i)
			}
		})
	}
}

func TestTemperatureSpread_Properties(t *testing.T) {
	for count := 1; count <= MaxVariants; count++ {
		for step := 0; step <= 20; step++ {
			base := float64(step) / 20

			temps := TemperatureSpread(base, count)
			require.Len(t, temps, count)

			for i, temp := range temps {
				assert.GreaterOrEqual(t, temp, 0.0)
				assert.LessOrEqual(t, temp, 1.0)

				// Symmetry holds wherever neither side was clamped.
				mirror := temps[count-1-i]
				if temp < 1.0 && mirror < 1.0 {
					assert.InDelta(t, 2*base, temp+mirror, 0.0011, "base=%v count=%d i=%d", base, count, i)
				}
			}

			for i := 1; i < count; i++ {
				assert.GreaterOrEqual(t, temps[i], temps[i-1], "spread must be non-decreasing")
			}
		}
	}
}
