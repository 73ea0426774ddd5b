package nn

// Normalize maps each observation element from [low, high] onto [0, 1].
// Callers supply slices of equal length. Values are not clamped, so
// out-of-bounds observations land outside [0, 1] and zero-width bounds
// yield non-finite values.
func Normalize(observation, low, high []float64) []float64 {
	out := make([]float64, len(observation))
	for i, value := range observation {
		out[i] = (value - low[i]) / (high[i] - low[i])
	}
	return out
}

// Argmax returns the lowest index holding the maximum value. A later
// element only replaces the current best when strictly greater, so NaN
// never wins once index 0 is taken. Empty input returns -1.
func Argmax(values []float64) int {
	if len(values) == 0 {
		return -1
	}
	best := 0
	for i, value := range values {
		if value > values[best] {
			best = i
		}
	}
	return best
}
