package constraints

import (
	"sort"

	"github.com/crossnet-badminton/bfs/internal/league"
)

// Builder assembles a Model from a League and its Params.
type Builder struct {
	lg *league.League
	m  *Model
	p  Params
}

// Build sequences addC1..addC13 in order, so Model.Constraints has a
// deterministic, reproducible order given the same League and Params.
func Build(lg *league.League, p Params) *Model {
	p = p.withDefaults()
	m := &Model{}
	for _, f := range lg.FCSes {
		m.addVar(f.Identifier)
	}

	b := &Builder{lg: lg, m: m, p: p}
	b.addC1()
	b.addC2()
	b.addC3()
	b.addC4()
	b.addC5()
	b.addC6()
	b.addC7()
	b.addC8()
	b.addC9()
	b.addC10()
	b.addC11(p.NumAllowedIncorrect)
	b.addC12(p.NumForced)
	b.addC13(p.PredefinedFixtures, p.CurrentDay)

	return m
}

func (b *Builder) var_(id league.FCSID) string {
	return b.lg.FCSes[id].Identifier
}

func varsOf(lg *league.League, ids []league.FCSID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = lg.FCSes[id].Identifier
	}
	return out
}

// sortedIntKeys returns the keys of an int-keyed bucket map in ascending
// order, so constraints are emitted deterministically rather than in
// map-iteration order.
func sortedIntKeys(m map[int][]league.FCSID) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
