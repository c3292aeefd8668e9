package variability

import "math"

// CV computes the coefficient of variation, (population stddev / mean) * 100,
// over the non-zero entries of values. The dataset is the full population of
// observations, so the standard deviation divides by N rather than N-1.
//
// Fewer than two qualifying entries, or a zero mean, leaves the statistic
// undefined: ok is false and no value is reported. A region active in a
// single election must not register spurious variability.
func CV(values []float64) (cv float64, ok bool) {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			valid = append(valid, v)
		}
	}

	if len(valid) < 2 {
		return 0, false
	}

	sum := 0.0
	for _, v := range valid {
		sum += v
	}
	mean := sum / float64(len(valid))
	if mean == 0 {
		return 0, false
	}

	variance := 0.0
	for _, v := range valid {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(valid))

	return math.Sqrt(variance) / mean * 100, true
}

// Round1 rounds to one decimal place. Applied only at the output boundary;
// internal computation keeps full precision.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
