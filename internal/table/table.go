// Package table builds the per-region breakdown view: one row per
// reporting unit with current and projected counts for the headline
// candidates, plus a synthesized grand-total row consistent with the
// aggregator's arithmetic.
package table

import (
	"math"
	"sort"

	"escrutinio/internal/config"
	"escrutinio/internal/projection"
	"escrutinio/internal/results"
)

// Cell is one candidate's pair of counts inside a row. Cells follow
// the order of Table.Candidates.
type Cell struct {
	Current   int64 `json:"current"`
	Projected int64 `json:"projected"`
}

// Row is one reporting unit's line. Municipality is empty at
// department granularity.
type Row struct {
	Department   string  `json:"department"`
	Municipality string  `json:"municipality,omitempty"`
	Completeness float64 `json:"completeness"`
	Cells        []Cell  `json:"cells"`
}

// Total is the grand-total row, tagged apart from data rows by type.
// Current counts are exact integer sums of the rows; projected counts
// are rounded from the exact float sum of the unrounded per-row
// projections, not from the already-rounded row values.
type Total struct {
	Cells []Cell `json:"cells"`
}

// Table is the per-region breakdown with its total row.
type Table struct {
	Granularity results.Granularity `json:"granularity"`
	Candidates  []string            `json:"candidates"`
	Rows        []Row               `json:"rows"`
	Total       Total               `json:"total"`
}

// Builder builds RegionTables. It shares the engine's candidate filter
// so the table and the summary agree on what counts as a candidate.
type Builder struct {
	engine *projection.Engine
	size   int
}

// NewBuilder builds a Builder from config.
func NewBuilder(cfg config.Config) *Builder {
	return &Builder{engine: projection.NewEngine(cfg), size: cfg.HeadlineSize}
}

// Build produces the table for a granularity. The column candidates
// are the top vote-getters of the first leaf region (in sorted region
// order) that has any nonzero candidate votes; with no such region
// there is nothing to tabulate and ErrInsufficientData is returned.
func (b *Builder) Build(snap *results.Snapshot, g results.Granularity) (*Table, error) {
	leaves := snap.Leaves(g)

	selected := b.selectCandidates(leaves)
	if len(selected) == 0 {
		return nil, projection.ErrInsufficientData
	}

	tbl := &Table{Granularity: g, Candidates: make([]string, len(selected))}
	for i, c := range selected {
		tbl.Candidates[i] = c.Name
	}

	currentTotals := make([]int64, len(selected))
	projectedTotals := make([]float64, len(selected))

	for _, leaf := range leaves {
		row := Row{
			Department:   leaf.Department,
			Municipality: leaf.Municipality,
			Completeness: leaf.Region.Completeness,
			Cells:        make([]Cell, len(selected)),
		}
		for i, c := range selected {
			votes := leaf.Region.Votes(c.Key)
			exact := projection.Project(float64(votes), leaf.Region.Completeness)
			row.Cells[i] = Cell{
				Current:   votes,
				Projected: int64(math.RoundToEven(exact)),
			}
			currentTotals[i] += votes
			projectedTotals[i] += exact
		}
		tbl.Rows = append(tbl.Rows, row)
	}

	tbl.Total.Cells = make([]Cell, len(selected))
	for i := range selected {
		tbl.Total.Cells[i] = Cell{
			Current:   currentTotals[i],
			Projected: int64(math.RoundToEven(projectedTotals[i])),
		}
	}

	return tbl, nil
}

// selectCandidates picks the headline columns: the first leaf with any
// nonzero votes decides, its candidates ordered by votes descending
// (name ascending on ties) and truncated to the column count.
func (b *Builder) selectCandidates(leaves []results.Leaf) []results.Candidate {
	for _, leaf := range leaves {
		cands := b.engine.FilterCandidates(leaf.Region)
		nonzero := false
		for _, c := range cands {
			if c.Votes > 0 {
				nonzero = true
				break
			}
		}
		if !nonzero {
			continue
		}
		sorted := make([]results.Candidate, len(cands))
		copy(sorted, cands)
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].Votes != sorted[j].Votes {
				return sorted[i].Votes > sorted[j].Votes
			}
			return sorted[i].Name < sorted[j].Name
		})
		if len(sorted) > b.size {
			sorted = sorted[:b.size]
		}
		return sorted
	}
	return nil
}
