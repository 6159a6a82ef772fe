package analysis

// inflectionPoints filters second-derivative roots down to the points
// where concavity actually flips. A candidate with an unknown or equal
// sign on either side is dropped, not guessed.
func inflectionPoints(candidates []float64, classified []classifiedInterval) []float64 {
	out := []float64{}
	for _, x0 := range candidates {
		before, after := bracketSigns(classified, x0)
		if before == SignUnknown || after == SignUnknown {
			continue
		}
		if before != after {
			out = append(out, x0)
		}
	}
	return out
}
