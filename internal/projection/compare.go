package projection

import (
	"context"
	"sort"

	"escrutinio/internal/results"
)

// Delta is one candidate's projected-total difference between the two
// granularities (municipality minus department). A large delta means
// the two nesting levels disagree about where the count is headed.
type Delta struct {
	Candidate          string  `json:"candidate"`
	DepartmentVotes    int64   `json:"department_votes"`
	MunicipalityVotes  int64   `json:"municipality_votes"`
	ProjectedDelta     int64   `json:"projected_delta"`
	PercentagePointGap float64 `json:"percentage_point_gap"`
}

// Comparison is the BOTH-mode output: the same snapshot aggregated at
// both granularities, side by side.
type Comparison struct {
	Departments    *Summary `json:"departments"`
	Municipalities *Summary `json:"municipalities"`
	Deltas         []Delta  `json:"deltas"`
}

// Compare aggregates the snapshot at department and municipality
// granularity and reports per-candidate projected deltas between them.
// Candidates missing from one side contribute zero there. Either side
// alone may be insufficient; both must fail for Compare to fail.
func (e *Engine) Compare(ctx context.Context, snap *results.Snapshot) (*Comparison, error) {
	dept, deptErr := e.Aggregate(ctx, snap, results.Departments)
	muni, muniErr := e.Aggregate(ctx, snap, results.Municipalities)
	if deptErr != nil && muniErr != nil {
		return nil, deptErr
	}

	cmp := &Comparison{Departments: dept, Municipalities: muni}

	type side struct {
		projected int64
		pct       float64
	}
	deptByName := make(map[string]side)
	muniByName := make(map[string]side)
	if dept != nil {
		for _, entry := range dept.Entries {
			deptByName[entry.Candidate] = side{entry.ProjectedVotes, entry.Percentage}
		}
	}
	if muni != nil {
		for _, entry := range muni.Entries {
			muniByName[entry.Candidate] = side{entry.ProjectedVotes, entry.Percentage}
		}
	}

	seen := make(map[string]struct{})
	for name := range deptByName {
		seen[name] = struct{}{}
	}
	for name := range muniByName {
		seen[name] = struct{}{}
	}

	for name := range seen {
		d := deptByName[name]
		m := muniByName[name]
		cmp.Deltas = append(cmp.Deltas, Delta{
			Candidate:          name,
			DepartmentVotes:    d.projected,
			MunicipalityVotes:  m.projected,
			ProjectedDelta:     m.projected - d.projected,
			PercentagePointGap: m.pct - d.pct,
		})
	}
	sort.Slice(cmp.Deltas, func(i, j int) bool {
		di, dj := cmp.Deltas[i], cmp.Deltas[j]
		if di.DepartmentVotes != dj.DepartmentVotes {
			return di.DepartmentVotes > dj.DepartmentVotes
		}
		return di.Candidate < dj.Candidate
	})

	return cmp, nil
}
