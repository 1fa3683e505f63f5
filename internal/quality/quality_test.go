package quality

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"escrutinio/internal/config"
	"escrutinio/internal/results"
)

func testChecker() *Checker {
	return NewChecker(config.Default())
}

func cand(name string, votes int64) results.Candidate {
	return results.Candidate{Name: name, Key: results.NormalizeName(name), Votes: votes}
}

func region(pct float64, cands ...results.Candidate) *results.Region {
	return &results.Region{Completeness: pct, Candidates: cands}
}

func snapOf(regions map[string]*results.Region) *results.Snapshot {
	for name, r := range regions {
		r.Name = name
	}
	return &results.Snapshot{Regions: regions, Mode: results.Departments}
}

func TestZeroReportRegions(t *testing.T) {
	snap := snapOf(map[string]*results.Region{
		"CON VOTOS":           region(40, cand("X", 12)),
		"VACIO":               region(0, cand("X", 0), cand("Y", 0)),
		"SIN FILAS":           region(0),
		"VOTO EN EL EXTERIOR": region(0, cand("X", 0)),
		results.NationalKey:   region(0, cand("X", 0)),
	})

	got := testChecker().ZeroReportRegions(snap)
	want := []string{"SIN FILAS", "VACIO"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("zero-report mismatch:\n%s", diff)
	}
}

// Pseudo-row votes keep a region out of the zero set: the sum is taken
// pre-filter, since an all-zero region is zero regardless of filtering.
func TestZeroReportRegions_PseudoRowVotesCount(t *testing.T) {
	snap := snapOf(map[string]*results.Region{
		"A": region(5, cand("Información Acta", 3), cand("X", 0)),
	})

	if got := testChecker().ZeroReportRegions(snap); len(got) != 0 {
		t.Errorf("zero-report = %v, want empty", got)
	}
}

func TestZeroReportRegions_AllZeroSnapshot(t *testing.T) {
	snap := snapOf(map[string]*results.Region{
		"A":                   region(0, cand("X", 0)),
		"B":                   region(0, cand("X", 0)),
		"VOTO EN EL EXTERIOR": region(0, cand("X", 0)),
	})

	got := testChecker().ZeroReportRegions(snap)
	want := []string{"A", "B"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("every non-excluded region should be flagged:\n%s", diff)
	}
}

func TestCheck_AnomalousCompleteness(t *testing.T) {
	dept := region(150, cand("X", 10))
	withChild := region(90, cand("X", 5))
	withChild.Children = map[string]*results.Region{
		"M1": region(101.5, cand("X", 5)),
	}
	snap := snapOf(map[string]*results.Region{
		"ALTO":  dept,
		"PADRE": withChild,
	})

	report := testChecker().Check(snap)
	want := []string{"ALTO", "PADRE/M1"}
	if diff := cmp.Diff(want, report.AnomalousCompleteness); diff != "" {
		t.Errorf("anomalous mismatch:\n%s", diff)
	}
}

func TestCheck_CarriesMalformedCount(t *testing.T) {
	snap := snapOf(map[string]*results.Region{"A": region(10, cand("X", 1))})
	snap.Malformed = 4

	report := testChecker().Check(snap)
	if report.MalformedEntries != 4 {
		t.Errorf("malformed = %d, want 4", report.MalformedEntries)
	}
	if report.Empty() {
		t.Error("report with warnings claims to be empty")
	}
}

func TestCheck_CleanSnapshotIsEmpty(t *testing.T) {
	snap := snapOf(map[string]*results.Region{"A": region(50, cand("X", 9))})

	if report := testChecker().Check(snap); !report.Empty() {
		t.Errorf("expected empty report, got %+v", report)
	}
}
