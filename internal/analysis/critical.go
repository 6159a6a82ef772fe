package analysis

// bracketSigns looks up the derivative signs immediately before and after
// x0 among the unmerged test intervals. The endpoint match uses the
// shared tolerance, never exact float equality.
func bracketSigns(classified []classifiedInterval, x0 float64) (before, after SignClass) {
	before, after = SignUnknown, SignUnknown
	for _, ci := range classified {
		if near(ci.End, x0) {
			before = ci.Class
		}
		if near(ci.Start, x0) {
			after = ci.Class
		}
	}
	return before, after
}

// classifyCandidates turns first-derivative roots into classified critical
// points. The first-derivative test decides from the sign change across
// each candidate; when that is inconclusive the second derivative breaks
// the tie, and a candidate neither test resolves stays unclassified.
func classifyCandidates(f *Function, candidates []float64, classified []classifiedInterval) []ClassifiedPoint {
	points := make([]ClassifiedPoint, 0, len(candidates))
	for _, x0 := range candidates {
		y, evalOK := f.EvalAt(x0)
		if !evalOK {
			// Not a point of the graph, nothing to classify.
			continue
		}
		yv := y
		p := ClassifiedPoint{X: x0, Kind: PointUnclassified, Y: &yv}

		before, after := bracketSigns(classified, x0)
		switch {
		case before == SignNegative && after == SignPositive:
			p.Kind = PointMin
		case before == SignPositive && after == SignNegative:
			p.Kind = PointMax
		case before != SignUnknown && before == after:
			// Monotone through the candidate, as in x^3 at zero. Reported
			// but not an extremum.
		default:
			if d2, evalOK := f.Calculator().EvaluateAt(2, x0); evalOK {
				switch {
				case d2 > Tolerance:
					p.Kind = PointMin
				case d2 < -Tolerance:
					p.Kind = PointMax
				}
			}
		}
		points = append(points, p)
	}
	return points
}
