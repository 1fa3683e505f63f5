package format

import (
	"strings"
	"testing"

	"escrutinio/internal/projection"
	"escrutinio/internal/quality"
	"escrutinio/internal/results"
	regiontable "escrutinio/internal/table"
)

func sampleSummary() *projection.Summary {
	entries := []projection.Entry{
		{Candidate: "PRIMERO", Rank: 1, CurrentVotes: 500, ProjectedVotes: 900, Percentage: 52.5},
		{Candidate: "SEGUNDO", Rank: 2, CurrentVotes: 400, ProjectedVotes: 814, Percentage: 47.5},
	}
	return &projection.Summary{
		Granularity:     results.Departments,
		Entries:         entries,
		Headline:        entries,
		GrandCurrent:    900,
		GrandProjected:  1714,
		LeafCount:       2,
		AvgCompleteness: 55.25,
	}
}

func TestSummary_ASCII(t *testing.T) {
	out := Summary(sampleSummary(), ASCII)
	for _, want := range []string{"PRIMERO", "SEGUNDO", "TOTAL", "1714", "52.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSummary_Markdown(t *testing.T) {
	out := Summary(sampleSummary(), Markdown)
	if !strings.Contains(out, "|") {
		t.Errorf("not a markdown table:\n%s", out)
	}
}

func TestRegionTable_FooterCarriesTotals(t *testing.T) {
	tbl := &regiontable.Table{
		Granularity: results.Departments,
		Candidates:  []string{"X"},
		Rows: []regiontable.Row{
			{Department: "A", Completeness: 50, Cells: []regiontable.Cell{{Current: 100, Projected: 200}}},
		},
		Total: regiontable.Total{Cells: []regiontable.Cell{{Current: 100, Projected: 200}}},
	}
	out := RegionTable(tbl, ASCII)
	for _, want := range []string{"X (actual)", "X (proy.)", "TOTAL", "200"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestQuality(t *testing.T) {
	clean := &quality.Report{}
	if out := Quality(clean); out != "no data quality issues found" {
		t.Errorf("clean report output = %q", out)
	}

	dirty := &quality.Report{
		ZeroReportRegions:     []string{"GRACIAS A DIOS"},
		AnomalousCompleteness: []string{"COLON"},
		MalformedEntries:      2,
	}
	out := Quality(dirty)
	for _, want := range []string{"GRACIAS A DIOS", "COLON", "2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
