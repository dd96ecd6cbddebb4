package solver

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"github.com/crossnet-badminton/bfs/internal/league"
)

// attempt is one construction+repair pass's mutable bucket bookkeeping.
type attempt struct {
	selected        []bool  // free var idx -> selected
	atMostRemaining []int64 // bucket idx -> remaining capacity
	atLeastProgress []int64 // bucket idx -> running coef-weighted sum selected
}

func (st *solveState) newAttempt() *attempt {
	am := make([]int64, len(st.atMost))
	for i, b := range st.atMost {
		am[i] = b.bound
	}
	return &attempt{
		selected:        make([]bool, len(st.vars)),
		atMostRemaining: am,
		atLeastProgress: make([]int64, len(st.atLeast)),
	}
}

func (st *solveState) legal(a *attempt, vi int) bool {
	for _, r := range st.reverseAtMost[vi] {
		if a.atMostRemaining[r.bucket]-r.coef < 0 {
			return false
		}
	}
	return true
}

// score returns a lower-is-better value: the negated objective weight,
// biased towards variables that would make progress on a not-yet-met
// AtLeast floor.
func (st *solveState) score(a *attempt, vi int) float64 {
	s := -float64(st.obj[st.vars[vi]])
	for _, r := range st.reverseAtLeast[vi] {
		if a.atLeastProgress[r.bucket] < st.atLeast[r.bucket].bound {
			s -= 1.0
		}
	}
	return s
}

func (st *solveState) selectVar(a *attempt, vi int) {
	a.selected[vi] = true
	for _, r := range st.reverseAtMost[vi] {
		a.atMostRemaining[r.bucket] -= r.coef
	}
	for _, r := range st.reverseAtLeast[vi] {
		a.atLeastProgress[r.bucket] += r.coef
	}
}

func (st *solveState) deselectVar(a *attempt, vi int) {
	a.selected[vi] = false
	for _, r := range st.reverseAtMost[vi] {
		a.atMostRemaining[r.bucket] += r.coef
	}
	for _, r := range st.reverseAtLeast[vi] {
		a.atLeastProgress[r.bucket] -= r.coef
	}
}

// construct shuffles the fixture list with a per-attempt seed, then
// greedily assigns each fixture its lowest-scoring still-legal candidate
// FCS.
func (st *solveState) construct(rng *rand.Rand) *attempt {
	a := st.newAttempt()

	fixtures := make([]league.FixtureID, 0, len(st.fixtureCandidates))
	for fx := range st.fixtureCandidates {
		fixtures = append(fixtures, fx)
	}
	sort.Slice(fixtures, func(i, j int) bool { return fixtures[i] < fixtures[j] })
	rng.Shuffle(len(fixtures), func(i, j int) {
		fixtures[i], fixtures[j] = fixtures[j], fixtures[i]
	})

	for _, fx := range fixtures {
		bestIdx := -1
		var bestScore float64
		for _, vi := range st.fixtureCandidates[fx] {
			if !st.legal(a, vi) {
				continue
			}
			sc := st.score(a, vi)
			if bestIdx == -1 || sc < bestScore {
				bestScore = sc
				bestIdx = vi
			}
		}
		if bestIdx == -1 {
			continue // no legal candidate this attempt; fixture stays unscheduled
		}
		st.selectVar(a, bestIdx)
	}
	return a
}

// repair runs bounded local-search swaps until every AtLeast floor (C6's
// pre-Christmas floor, C12's forced-priority minimum) is met, no swap can
// make further progress, or the wall-clock budget expires.
func (st *solveState) repair(ctx context.Context, a *attempt) {
	shortfall := func() int64 {
		var total int64
		for bi := range st.atLeast {
			if gap := st.atLeast[bi].bound - a.atLeastProgress[bi]; gap > 0 {
				total += gap
			}
		}
		return total
	}
	for {
		if ctx.Err() != nil {
			return
		}
		before := shortfall()
		for bi := range st.atLeast {
			if a.atLeastProgress[bi] >= st.atLeast[bi].bound {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			st.repairBucket(a, bi)
		}
		// A pass only counts as progress if it shrinks the total shortfall
		// across all floors; otherwise swaps could trade places forever.
		if shortfall() >= before {
			return
		}
	}
}

// repairBucket tries to push one unmet AtLeast bucket towards its floor by
// either selecting an unscheduled candidate directly, or evicting a
// lower-value rival blocking one of that candidate's AtMost buckets.
func (st *solveState) repairBucket(a *attempt, bi int) bool {
	for _, t := range st.atLeast[bi].terms {
		if a.selected[t.varIdx] {
			continue
		}
		if st.legal(a, t.varIdx) {
			st.selectVar(a, t.varIdx)
			return true
		}
		if st.trySwap(a, t.varIdx) {
			return true
		}
	}
	return false
}

// trySwap evicts the lowest-objective-weight currently-selected rival from
// every AtMost bucket blocking vi, then selects vi if that clears the way.
// It never touches an AtLeast bucket's progress beyond what selecting and
// deselecting naturally account for, so it cannot silently break a
// different floor while fixing this one — callers re-scan all buckets
// after any successful swap.
func (st *solveState) trySwap(a *attempt, vi int) bool {
	var evicted []int
	for _, r := range st.reverseAtMost[vi] {
		if a.atMostRemaining[r.bucket]-r.coef >= 0 {
			continue
		}
		victim, found := st.lowestValueSelected(a, st.atMost[r.bucket].terms, vi)
		if !found {
			st.undoEvictions(a, evicted)
			return false
		}
		st.deselectVar(a, victim)
		evicted = append(evicted, victim)
	}
	if !st.legal(a, vi) {
		st.undoEvictions(a, evicted)
		return false
	}
	st.selectVar(a, vi)
	return true
}

func (st *solveState) undoEvictions(a *attempt, evicted []int) {
	for _, vi := range evicted {
		st.selectVar(a, vi)
	}
}

func (st *solveState) lowestValueSelected(a *attempt, terms []bucketTerm, exclude int) (int, bool) {
	best := -1
	bestWeight := int64(math.MaxInt64)
	for _, t := range terms {
		if t.varIdx == exclude || !a.selected[t.varIdx] {
			continue
		}
		w := st.obj[st.vars[t.varIdx]]
		if w < bestWeight {
			bestWeight = w
			best = t.varIdx
		}
	}
	return best, best != -1
}

// collect returns the selected free variable names, in arena order.
func (st *solveState) collect(a *attempt) []string {
	var out []string
	for i, name := range st.vars {
		if a.selected[i] {
			out = append(out, name)
		}
	}
	return out
}
