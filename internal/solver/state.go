package solver

import (
	"fmt"

	"github.com/crossnet-badminton/bfs/internal/constraints"
	"github.com/crossnet-badminton/bfs/internal/league"
	"github.com/crossnet-badminton/bfs/internal/objective"
)

// ref points a free decision variable at one bucket it participates in,
// carrying the variable's coefficient in that bucket's linear sum.
type ref struct {
	bucket int
	coef   int64
}

// bucketTerm is one free variable's slot within a bucket's own term list
// (as opposed to ref, which is the reverse direction: var -> buckets).
// Swap repair needs this to find which currently-selected variable within
// a bucket to evict.
type bucketTerm struct {
	varIdx int
	coef   int64
}

// bucket is a presolved AtMost/AtLeast LinearConstraint: its bound already
// accounts for whatever contribution the presolved (fixed) variables make,
// so during search only the free terms matter.
type bucket struct {
	name  string
	bound int64
	terms []bucketTerm
}

// solveState is the presolved, bucketed form of a constraints.Model — the
// CSP analogue of a CP-SAT model after unit propagation on singleton
// domains.
type solveState struct {
	lg  *league.League
	obj objective.Objective

	vars   []string       // free variable names, arena order
	varIdx map[string]int // free var name -> index into vars

	fixedSelected []string // vars forced to 1 by presolve (C13 pins)

	varToFCS map[string]league.FCSID

	atMost  []bucket
	atLeast []bucket

	reverseAtMost  [][]ref // free var idx -> atMost buckets it touches
	reverseAtLeast [][]ref // free var idx -> atLeast buckets it touches

	fixtureCandidates map[league.FixtureID][]int // fixture -> free var indices

	candidateFixtureCount int64 // bestBound: fixtures with >=1 candidate FCS at all
}

func newSolveState(lg *league.League, m *constraints.Model, obj objective.Objective) (*solveState, error) {
	varToFCS := make(map[string]league.FCSID, len(lg.FCSes))
	for _, f := range lg.FCSes {
		varToFCS[f.Identifier] = f.ID
	}

	fixed := presolveFixed(m)

	var fixedSelected []string
	for _, f := range lg.FCSes {
		if fixed[f.Identifier] == 1 {
			fixedSelected = append(fixedSelected, f.Identifier)
		}
	}

	vars := make([]string, 0, len(lg.FCSes))
	varIdx := make(map[string]int, len(lg.FCSes))
	for _, f := range lg.FCSes {
		if _, isFixed := fixed[f.Identifier]; isFixed {
			continue
		}
		varIdx[f.Identifier] = len(vars)
		vars = append(vars, f.Identifier)
	}

	st := &solveState{
		lg:            lg,
		obj:           obj,
		vars:          vars,
		varIdx:        varIdx,
		fixedSelected: fixedSelected,
		varToFCS:      varToFCS,
	}

	if err := st.buildBuckets(m, fixed); err != nil {
		return nil, err
	}

	st.fixtureCandidates = make(map[league.FixtureID][]int)
	for _, fx := range lg.Fixtures {
		if len(fx.FixtureCourtSlots) == 0 {
			continue
		}
		st.candidateFixtureCount++

		pinned := false
		for _, id := range fx.FixtureCourtSlots {
			if fixed[lg.FCSes[id].Identifier] == 1 {
				pinned = true
				break
			}
		}
		if pinned {
			continue
		}

		var cands []int
		for _, id := range fx.FixtureCourtSlots {
			name := lg.FCSes[id].Identifier
			if _, isFixed := fixed[name]; isFixed {
				continue
			}
			cands = append(cands, varIdx[name])
		}
		if len(cands) > 0 {
			st.fixtureCandidates[fx.ID] = cands
		}
	}

	return st, nil
}

// presolveFixed resolves every Exactly constraint the Constraint Builder
// emitted — C13's single-candidate pins (Bound==1) and its past-date
// forced zeros (Bound==0) — into a var name -> {0,1} map. A multi-candidate
// pin (several court slots matching one predefined triple's date) is
// resolved by fixing its first term (arena order, so deterministic) to 1
// and the rest to 0: which of several same-date slots carries the pinned
// fixture doesn't affect objective or feasibility, only which FCS records
// IsScheduled.
func presolveFixed(m *constraints.Model) map[string]int64 {
	fixed := make(map[string]int64)
	for _, c := range m.Constraints {
		if c.Op != constraints.Exactly {
			continue
		}
		switch c.Bound {
		case 0:
			for _, t := range c.Terms {
				if fixed[t.Var] == 1 {
					continue
				}
				fixed[t.Var] = 0
			}
		case 1:
			for i, t := range c.Terms {
				if i == 0 {
					fixed[t.Var] = 1
				} else if _, already := fixed[t.Var]; !already {
					fixed[t.Var] = 0
				}
			}
		}
	}
	return fixed
}

// buildBuckets turns every AtMost/AtLeast LinearConstraint into a bucket
// over free variables only, folding in whatever contribution the presolved
// fixed-to-1 variables already make, and builds the reverse index used by
// the search's legality check and swap repair.
func (st *solveState) buildBuckets(m *constraints.Model, fixed map[string]int64) error {
	st.reverseAtMost = make([][]ref, len(st.vars))
	st.reverseAtLeast = make([][]ref, len(st.vars))

	for _, c := range m.Constraints {
		var fixedContribution int64
		for _, t := range c.Terms {
			if fixed[t.Var] == 1 {
				fixedContribution += t.Coef
			}
		}

		switch c.Op {
		case constraints.AtMost:
			bound := c.Bound - fixedContribution
			if bound < 0 {
				return fmt.Errorf("model infeasible at presolve: %s over-constrained by pinned fixtures", c.Name)
			}
			var terms []bucketTerm
			for _, t := range c.Terms {
				if _, isFixed := fixed[t.Var]; isFixed {
					continue
				}
				terms = append(terms, bucketTerm{varIdx: st.varIdx[t.Var], coef: t.Coef})
			}
			if len(terms) == 0 {
				continue
			}
			idx := len(st.atMost)
			for _, bt := range terms {
				st.reverseAtMost[bt.varIdx] = append(st.reverseAtMost[bt.varIdx], ref{bucket: idx, coef: bt.coef})
			}
			st.atMost = append(st.atMost, bucket{name: c.Name, bound: bound, terms: terms})

		case constraints.AtLeast:
			need := c.Bound - fixedContribution
			if need <= 0 {
				continue // already satisfied by presolved fixtures alone
			}
			var terms []bucketTerm
			for _, t := range c.Terms {
				if _, isFixed := fixed[t.Var]; isFixed {
					continue
				}
				terms = append(terms, bucketTerm{varIdx: st.varIdx[t.Var], coef: t.Coef})
			}
			// A floor with no free terms left is unsatisfiable; it is kept
			// anyway so deriveStatus reports INFEASIBLE for it.
			idx := len(st.atLeast)
			for _, bt := range terms {
				st.reverseAtLeast[bt.varIdx] = append(st.reverseAtLeast[bt.varIdx], ref{bucket: idx, coef: bt.coef})
			}
			st.atLeast = append(st.atLeast, bucket{name: c.Name, bound: need, terms: terms})

		case constraints.Exactly:
			// resolved entirely by presolveFixed above
		}
	}
	return nil
}

// bestBound is the unconstrained primary-term maximum: the count of
// fixtures that have at least one candidate FCS at all.
func (st *solveState) bestBound() int64 {
	return st.candidateFixtureCount
}

// deriveStatus walks every fixture with at least one candidate FCS and
// checks it ended with a scheduled FCS, then independently re-verifies
// every AtLeast bucket (C6's pre-Christmas floor, C12's forced-priority
// floor) against selected — repair is best-effort and can give up with a
// floor still unmet, so a winning attempt is only OPTIMAL/FEASIBLE if its
// final selection actually satisfies every bucket, not just full fixture
// coverage. timedOut marks whether the wall clock expired before every
// attempt ran, which caps the best achievable status at FEASIBLE even when
// every check passes.
func (st *solveState) deriveStatus(selected []string, timedOut bool) string {
	for _, fx := range st.lg.Fixtures {
		if len(fx.FixtureCourtSlots) == 0 {
			continue
		}
		covered := false
		for _, id := range fx.FixtureCourtSlots {
			if st.lg.FCSes[id].IsScheduled {
				covered = true
				break
			}
		}
		if !covered {
			return StatusInfeasible
		}
	}

	selectedSet := make(map[string]bool, len(selected))
	for _, name := range selected {
		selectedSet[name] = true
	}
	for _, b := range st.atLeast {
		var sum int64
		for _, t := range b.terms {
			if selectedSet[st.vars[t.varIdx]] {
				sum += t.coef
			}
		}
		if sum < b.bound {
			return StatusInfeasible
		}
	}

	if timedOut {
		return StatusFeasible
	}
	return StatusOptimal
}

// project marks every selected variable's FCS as scheduled.
func (st *solveState) project(selected []string) {
	for _, name := range selected {
		if id, ok := st.varToFCS[name]; ok {
			st.lg.FCSByID(id).IsScheduled = true
		}
	}
}
