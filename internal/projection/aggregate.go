package projection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"escrutinio/internal/config"
	"escrutinio/internal/logging"
	"escrutinio/internal/results"
)

// ErrInsufficientData is returned when a snapshot has no usable leaf
// regions or no candidate with a nonzero vote count anywhere. It is a
// reportable "waiting for data" condition, not a failure.
var ErrInsufficientData = errors.New("projection: insufficient data")

// Entry is one candidate's line in a summary, ranked from 1.
type Entry struct {
	Candidate      string  `json:"candidate"`
	Rank           int     `json:"rank"`
	CurrentVotes   int64   `json:"current_votes"`
	ProjectedVotes int64   `json:"projected_votes"`
	Percentage     float64 `json:"percentage"`
}

// Summary is the ranked national rollup for one granularity. Entries
// carries the full ranking; Headline is its top slice for display.
type Summary struct {
	Granularity     results.Granularity `json:"granularity"`
	Entries         []Entry             `json:"entries"`
	Headline        []Entry             `json:"headline"`
	GrandCurrent    int64               `json:"grand_current"`
	GrandProjected  int64               `json:"grand_projected"`
	LeafCount       int                 `json:"leaf_count"`
	AvgCompleteness float64             `json:"avg_completeness"`
	Malformed       int                 `json:"malformed"`
}

// Engine aggregates snapshots. It holds no mutable state across calls;
// every invocation is a pure function of (snapshot, granularity).
type Engine struct {
	pseudo   map[string]struct{}
	headline int
	workers  int
	logger   *slog.Logger
}

// NewEngine builds an Engine from config.
func NewEngine(cfg config.Config) *Engine {
	pseudo := make(map[string]struct{}, len(cfg.PseudoRows))
	for _, name := range cfg.PseudoRows {
		pseudo[results.NormalizeName(name)] = struct{}{}
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		pseudo:   pseudo,
		headline: cfg.HeadlineSize,
		workers:  workers,
		logger:   logging.New("projection"),
	}
}

// FilterCandidates drops administrative pseudo-rows from a region's
// tally list. The table builder shares this filter so both outputs
// agree on what counts as a candidate.
func (e *Engine) FilterCandidates(r *results.Region) []results.Candidate {
	out := make([]results.Candidate, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		if _, skip := e.pseudo[c.Key]; skip {
			continue
		}
		out = append(out, c)
	}
	return out
}

// partial holds one leaf's contribution. Totals are accumulated as
// floats even though current counts are integral: rounding happens
// once, at the edge, or the grand total stops matching its rows.
type partial struct {
	current      map[string]float64
	projected    map[string]float64
	display      map[string]string
	completeness float64
}

// Aggregate walks the snapshot at the given granularity and produces a
// ranked summary. Leaf regions are independent, so they are processed
// on a bounded worker pool and their partial totals merged in leaf
// order; the merge order cannot change the result beyond the tolerance
// the edge rounding already absorbs.
func (e *Engine) Aggregate(ctx context.Context, snap *results.Snapshot, g results.Granularity) (*Summary, error) {
	if g != results.Departments && g != results.Municipalities {
		return nil, fmt.Errorf("aggregate: granularity %s is not a leaf selection (use Compare)", g)
	}

	leaves := snap.Leaves(g)
	if len(leaves) == 0 {
		return nil, ErrInsufficientData
	}

	partials := make([]partial, len(leaves))
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(e.workers)
	for i, leaf := range leaves {
		i, leaf := i, leaf
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			partials[i] = e.aggregateLeaf(leaf)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	current := make(map[string]float64)
	projected := make(map[string]float64)
	display := make(map[string]string)
	sumCompleteness := 0.0
	for _, p := range partials {
		for key, v := range p.current {
			current[key] += v
		}
		for key, v := range p.projected {
			projected[key] += v
		}
		for key, name := range p.display {
			if _, seen := display[key]; !seen {
				display[key] = name
			}
		}
		sumCompleteness += p.completeness
	}

	grandProjected := 0.0
	grandCurrent := 0.0
	usable := false
	for key := range projected {
		grandProjected += projected[key]
		grandCurrent += current[key]
		if current[key] > 0 {
			usable = true
		}
	}
	if !usable {
		return nil, ErrInsufficientData
	}

	// Rank on the unrounded totals, name ascending on exact ties;
	// rounding is display-only and must not reorder near-ties.
	keys := make([]string, 0, len(projected))
	for key := range projected {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if projected[keys[i]] != projected[keys[j]] {
			return projected[keys[i]] > projected[keys[j]]
		}
		return display[keys[i]] < display[keys[j]]
	})

	entries := make([]Entry, 0, len(keys))
	for i, key := range keys {
		pct := 0.0
		if grandProjected > 0 {
			pct = projected[key] / grandProjected * 100
		}
		entries = append(entries, Entry{
			Candidate:      display[key],
			Rank:           i + 1,
			CurrentVotes:   int64(math.RoundToEven(current[key])),
			ProjectedVotes: int64(math.RoundToEven(projected[key])),
			Percentage:     pct,
		})
	}

	headline := entries
	if len(headline) > e.headline {
		headline = headline[:e.headline]
	}

	summary := &Summary{
		Granularity:     g,
		Entries:         entries,
		Headline:        headline,
		GrandCurrent:    int64(math.RoundToEven(grandCurrent)),
		GrandProjected:  int64(math.RoundToEven(grandProjected)),
		LeafCount:       len(leaves),
		AvgCompleteness: sumCompleteness / float64(len(leaves)),
		Malformed:       snap.Malformed,
	}

	e.logger.Debug("aggregated snapshot",
		"granularity", string(g), "leaves", len(leaves), "candidates", len(entries),
		"grand_projected", summary.GrandProjected)

	return summary, nil
}

// aggregateLeaf computes one region's per-candidate contribution using
// that region's own completeness percentage.
func (e *Engine) aggregateLeaf(leaf results.Leaf) partial {
	p := partial{
		current:      make(map[string]float64),
		projected:    make(map[string]float64),
		display:      make(map[string]string),
		completeness: leaf.Region.Completeness,
	}
	for _, c := range e.FilterCandidates(leaf.Region) {
		p.current[c.Key] += float64(c.Votes)
		p.projected[c.Key] += Project(float64(c.Votes), leaf.Region.Completeness)
		if _, seen := p.display[c.Key]; !seen {
			p.display[c.Key] = c.Name
		}
	}
	return p
}
