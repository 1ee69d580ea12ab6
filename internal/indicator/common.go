package indicator

// ema is seeded with the first value, so every position of the result is
// defined.
func ema(data []float64, period int) []float64 {
	ema := make([]float64, len(data))
	if len(data) == 0 {
		return ema
	}

	ema[0] = data[0]

	a := 2.0 / (float64(period) + 1)
	for i, val := range data[1:] {
		ema[i+1] = (val-ema[i])*a + ema[i]
	}

	return ema
}
