// Package objective builds the lexicographic weighted objective the solver
// maximizes: a dominating primary term (schedule as many fixtures as
// possible), a dominating secondary term (prefer weeks before Christmas),
// and a tertiary tie-break (penalize drifting past the season's ideal end
// week). Each weight is a fixed multiple of the next: PrimaryWeight is 1000
// times SecondaryWeight, and SecondaryWeight is 100000 times TertiaryWeight.
package objective

import (
	"github.com/crossnet-badminton/bfs/internal/constraints"
	"github.com/crossnet-badminton/bfs/internal/league"
)

const (
	// PrimaryWeight rewards every scheduled FCS.
	PrimaryWeight int64 = 100_000_000
	// SecondaryWeight rewards FCSes whose week falls before Christmas.
	SecondaryWeight int64 = 100_000
	// TertiaryWeight is multiplied by an FCS's literal week number and
	// subtracted when that week is past the ideal end week.
	TertiaryWeight int64 = 1
)

// Objective is a per-variable integer weight map: var name (FCS identifier)
// -> weight. The solver scores any candidate assignment as a dot product
// against the set of currently-selected variables.
type Objective map[string]int64

// Build computes the objective weight of every variable named in m. Only
// variables the Constraint Builder actually emitted are scored — this
// keeps Objective and Model in lockstep without either package depending
// on the other's internals beyond the shared variable-naming scheme.
func Build(lg *league.League, m *constraints.Model) Objective {
	wXmas := lg.ChristmasWeek()
	idealEnd := lg.IdealEndWeek()

	fcsByName := make(map[string]league.FCSID, len(lg.FCSes))
	for _, f := range lg.FCSes {
		fcsByName[f.Identifier] = f.ID
	}

	obj := make(Objective, len(m.VarNames))
	for _, name := range m.VarNames {
		id, ok := fcsByName[name]
		if !ok {
			continue
		}
		w := lg.FCSWeek(id)
		weight := PrimaryWeight
		if w < wXmas {
			weight += SecondaryWeight
		}
		if w > idealEnd {
			weight -= TertiaryWeight * int64(w)
		}
		obj[name] = weight
	}
	return obj
}

// Score sums the objective weight of every variable in selected.
func (o Objective) Score(selected []string) int64 {
	var total int64
	for _, v := range selected {
		total += o[v]
	}
	return total
}
