// Package projection extrapolates partially-reported vote counts to
// their eventual full-count values and aggregates them into ranked
// national summaries at a chosen granularity.
package projection

// Project extrapolates a vote count to its full-count estimate given
// the region's reporting completeness percentage.
//
// A non-positive completeness never extrapolates: the current count is
// the best available estimate. Values above 100 are not clamped; the
// formula stays well-defined and the anomaly is the quality checker's
// concern, not this function's.
func Project(votes, completeness float64) float64 {
	if completeness <= 0 {
		return votes
	}
	return votes * 100.0 / completeness
}
