// Package format renders engine output as terminal or Markdown tables.
package format

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"escrutinio/internal/history"
	"escrutinio/internal/projection"
	"escrutinio/internal/quality"
	"escrutinio/internal/results"
	regiontable "escrutinio/internal/table"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // Fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

func newWriter(m Mode) table.Writer {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
	}
	return w
}

func render(w table.Writer, m Mode) string {
	if m == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

// Summary renders the ranked field with a grand-total footer.
func Summary(s *projection.Summary, m Mode) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{"#", "Candidato", "Votos actuales", "Votos proyectados", "%"})
	for _, e := range s.Entries {
		w.AppendRow(table.Row{e.Rank, e.Candidate, e.CurrentVotes, e.ProjectedVotes, fmt.Sprintf("%.2f", e.Percentage)})
	}
	w.AppendFooter(table.Row{"", "TOTAL", s.GrandCurrent, s.GrandProjected, "100.00"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	header := fmt.Sprintf("granularity=%s regions=%d avg_actas=%.2f%%",
		s.Granularity, s.LeafCount, s.AvgCompleteness)
	if s.Malformed > 0 {
		header += fmt.Sprintf(" malformed_entries=%d", s.Malformed)
	}
	return header + "\n" + render(w, m)
}

// RegionTable renders the per-region breakdown; the grand-total row
// becomes the table footer.
func RegionTable(t *regiontable.Table, m Mode) string {
	w := newWriter(m)
	muni := t.Granularity == results.Municipalities

	header := table.Row{"Departamento"}
	if muni {
		header = append(header, "Municipio")
	}
	header = append(header, "Actas %")
	for _, name := range t.Candidates {
		header = append(header, name+" (actual)", name+" (proy.)")
	}
	w.AppendHeader(header)

	for _, row := range t.Rows {
		r := table.Row{row.Department}
		if muni {
			r = append(r, row.Municipality)
		}
		r = append(r, fmt.Sprintf("%.1f", row.Completeness))
		for _, cell := range row.Cells {
			r = append(r, cell.Current, cell.Projected)
		}
		w.AppendRow(r)
	}

	footer := table.Row{"TOTAL"}
	if muni {
		footer = append(footer, "")
	}
	footer = append(footer, "")
	for _, cell := range t.Total.Cells {
		footer = append(footer, cell.Current, cell.Projected)
	}
	w.AppendFooter(footer)

	return render(w, m)
}

// Comparison renders the BOTH-mode delta table.
func Comparison(c *projection.Comparison, m Mode) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{"Candidato", "Proy. (deptos)", "Proy. (municipios)", "Delta", "Gap %"})
	for _, d := range c.Deltas {
		w.AppendRow(table.Row{
			d.Candidate, d.DepartmentVotes, d.MunicipalityVotes,
			d.ProjectedDelta, fmt.Sprintf("%+.2f", d.PercentagePointGap),
		})
	}
	return render(w, m)
}

// Quality renders the warning report, or a clean bill of health.
func Quality(r *quality.Report) string {
	if r.Empty() {
		return "no data quality issues found"
	}
	var b strings.Builder
	if len(r.ZeroReportRegions) > 0 {
		fmt.Fprintf(&b, "zero-report regions: %s\n", strings.Join(r.ZeroReportRegions, ", "))
	}
	if len(r.AnomalousCompleteness) > 0 {
		fmt.Fprintf(&b, "completeness above 100%%: %s\n", strings.Join(r.AnomalousCompleteness, ", "))
	}
	if r.MalformedEntries > 0 {
		fmt.Fprintf(&b, "malformed candidate entries recovered: %d\n", r.MalformedEntries)
	}
	return strings.TrimRight(b.String(), "\n")
}

// History renders recorded samples, newest first.
func History(samples []history.Sample, m Mode) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{"ID", "Taken at", "Granularity", "Avg actas %", "Leader", "Leader %"})
	for _, s := range samples {
		leader, leaderPct := "", ""
		if len(s.Entries) > 0 {
			leader = s.Entries[0].Candidate
			leaderPct = fmt.Sprintf("%.2f", s.Entries[0].Percentage)
		}
		w.AppendRow(table.Row{s.ID, s.TakenAt, s.Granularity, fmt.Sprintf("%.2f", s.AvgCompleteness), leader, leaderPct})
	}
	return render(w, m)
}

// Trend renders first-to-last percentage movement per candidate.
func Trend(points []history.TrendPoint, m Mode) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{"Candidato", "Primero %", "Último %", "Cambio"})
	for _, p := range points {
		w.AppendRow(table.Row{
			p.Candidate,
			fmt.Sprintf("%.2f", p.FirstPct),
			fmt.Sprintf("%.2f", p.LastPct),
			fmt.Sprintf("%+.2f", p.Change),
		})
	}
	return render(w, m)
}
