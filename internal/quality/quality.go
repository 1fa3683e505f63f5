// Package quality flags suspicious reporting units. Everything here is
// advisory: a warning never blocks aggregation.
package quality

import (
	"sort"

	"escrutinio/internal/config"
	"escrutinio/internal/results"
)

// Report collects the warning sets for one snapshot.
type Report struct {
	// ZeroReportRegions are top-level regions whose tally rows sum to
	// exactly zero, the usual sign a scrape came back empty. The
	// overseas bucket is excluded: it is structurally zero until
	// overseas results arrive.
	ZeroReportRegions []string `json:"zero_report_regions"`

	// AnomalousCompleteness lists regions reporting above 100%, which
	// indicates upstream data corruption; their projections are still
	// computed with the formula as-is.
	AnomalousCompleteness []string `json:"anomalous_completeness"`

	// MalformedEntries counts candidate rows recovered or skipped at
	// the ingestion boundary.
	MalformedEntries int `json:"malformed_entries"`
}

// Empty reports whether there is nothing to warn about.
func (r *Report) Empty() bool {
	return len(r.ZeroReportRegions) == 0 && len(r.AnomalousCompleteness) == 0 && r.MalformedEntries == 0
}

// Checker scans snapshots for quality issues.
type Checker struct {
	overseas string
}

// NewChecker builds a Checker from config.
func NewChecker(cfg config.Config) *Checker {
	return &Checker{overseas: cfg.OverseasRegion}
}

// Check produces the full quality report for a snapshot.
func (c *Checker) Check(snap *results.Snapshot) *Report {
	return &Report{
		ZeroReportRegions:     c.ZeroReportRegions(snap),
		AnomalousCompleteness: c.anomalousCompleteness(snap),
		MalformedEntries:      snap.Malformed,
	}
}

// ZeroReportRegions returns the names of top-level regions whose total
// vote count is zero, pseudo-rows included: an all-zero region is
// all-zero regardless of filtering. The set is sorted for determinism.
func (c *Checker) ZeroReportRegions(snap *results.Snapshot) []string {
	var names []string
	for _, leaf := range snap.Leaves(results.Departments) {
		if leaf.Department == c.overseas {
			continue
		}
		if leaf.Region.TotalVotes() == 0 {
			names = append(names, leaf.Department)
		}
	}
	sort.Strings(names)
	return names
}

// anomalousCompleteness collects every region, at either level,
// reporting more than 100% of its expected forms.
func (c *Checker) anomalousCompleteness(snap *results.Snapshot) []string {
	var names []string
	for _, leaf := range snap.Leaves(results.Departments) {
		if leaf.Region.Completeness > 100 {
			names = append(names, leaf.Name())
		}
	}
	for _, leaf := range snap.Leaves(results.Municipalities) {
		if leaf.Region.Completeness > 100 {
			names = append(names, leaf.Name())
		}
	}
	sort.Strings(names)
	return names
}
