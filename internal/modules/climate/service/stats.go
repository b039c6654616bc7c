package service

import "hawaii-climate/internal/modules/climate/types"

// Summarize returns min, max and arithmetic mean of values. All three are nil
// for an empty input.
func Summarize(values []float64) types.TemperatureStats {
	if len(values) == 0 {
		return types.TemperatureStats{}
	}
	lo, hi, sum := values[0], values[0], 0.0
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
		sum += v
	}
	avg := sum / float64(len(values))
	return types.TemperatureStats{Min: &lo, Max: &hi, Avg: &avg}
}
