// Package results holds the normalized snapshot model produced by the
// upstream scraper: a hierarchy of reporting regions (departments and
// their municipalities) with per-candidate tallies and a reporting
// completeness percentage ("actas percentage") per region.
package results

import (
	"fmt"
	"sort"
	"strings"
)

// Reserved top-level keys the aggregation must skip. raw_data is a
// pass-through blob; Nacional is the upstream's own pre-computed rollup
// and would double-count every vote if included.
const (
	RawDataKey  = "raw_data"
	NationalKey = "Nacional"
)

// Granularity selects which hierarchy level acts as the aggregation unit.
type Granularity string

const (
	Departments    Granularity = "DEPARTMENTS"
	Municipalities Granularity = "MUNICIPALITIES"
	Both           Granularity = "BOTH"
)

// ParseGranularity parses a granularity tag, case-insensitively.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(Departments):
		return Departments, nil
	case string(Municipalities):
		return Municipalities, nil
	case string(Both):
		return Both, nil
	}
	return "", fmt.Errorf("unknown granularity %q", s)
}

// Candidate is one tally row inside a region. Key is the normalized
// join key (see NormalizeName); Name keeps the first raw spelling seen
// for display. Pseudo-rows from the upstream form ("Información
// General", "Información Acta") are kept here and filtered by consumers.
type Candidate struct {
	Name  string
	Key   string
	Votes int64
}

// Region is one reporting unit. Children is populated only for
// department records that carry a municipality breakdown.
type Region struct {
	Name         string
	Completeness float64
	Candidates   []Candidate
	Children     map[string]*Region
}

// TotalVotes sums every tally row, pseudo-rows included. An all-zero
// region is all-zero regardless of filtering.
func (r *Region) TotalVotes() int64 {
	var total int64
	for _, c := range r.Candidates {
		total += c.Votes
	}
	return total
}

// Votes returns the vote count for a normalized candidate key, zero if
// the candidate does not appear in this region.
func (r *Region) Votes(key string) int64 {
	for _, c := range r.Candidates {
		if c.Key == key {
			return c.Votes
		}
	}
	return 0
}

// Snapshot is the root document handed over by the scraper. The engine
// treats it as immutable.
type Snapshot struct {
	Regions  map[string]*Region
	Mode     Granularity
	CachedAt string

	// Malformed counts candidate entries recovered (or skipped) during
	// ingestion; surfaced through the data-quality report.
	Malformed int
}

// Leaf is one aggregation unit selected by a granularity. Municipality
// is empty when the department itself is the unit.
type Leaf struct {
	Department   string
	Municipality string
	Region       *Region
}

// Name returns the leaf identity as Department or Department/Municipality.
func (l Leaf) Name() string {
	if l.Municipality == "" {
		return l.Department
	}
	return l.Department + "/" + l.Municipality
}

// Leaves selects the iteration set for a granularity, skipping the
// reserved keys. The result is sorted by (department, municipality) so
// every walk over a snapshot is deterministic. Granularity Both is not
// a leaf selection; callers run the two concrete granularities instead.
func (s *Snapshot) Leaves(g Granularity) []Leaf {
	var leaves []Leaf
	for name, region := range s.Regions {
		if name == RawDataKey || name == NationalKey {
			continue
		}
		switch g {
		case Municipalities:
			for childName, child := range region.Children {
				leaves = append(leaves, Leaf{Department: name, Municipality: childName, Region: child})
			}
		default:
			leaves = append(leaves, Leaf{Department: name, Region: region})
		}
	}
	sort.Slice(leaves, func(i, j int) bool {
		if leaves[i].Department != leaves[j].Department {
			return leaves[i].Department < leaves[j].Department
		}
		return leaves[i].Municipality < leaves[j].Municipality
	})
	return leaves
}

// NormalizeName produces the join key for a candidate name: trimmed,
// inner whitespace runs collapsed to one space, upper-cased. The raw
// data carries no numeric candidate ID, so this key is what links the
// same candidate across sibling regions.
func NormalizeName(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}
