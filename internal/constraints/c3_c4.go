package constraints

import (
	"fmt"

	"github.com/crossnet-badminton/bfs/internal/league"
)

type weekFCS struct {
	week int
	id   league.FCSID
}

func (b *Builder) teamWeekFCS(t league.TeamID, fixtures []league.FixtureID) []weekFCS {
	var out []weekFCS
	for _, fx := range fixtures {
		for _, id := range b.lg.FCSesForFixture(fx) {
			out = append(out, weekFCS{week: b.lg.FCSWeek(id), id: id})
		}
	}
	return out
}

// addC3 — one fixture per N-week rolling window per team (weeks_separated =
// 2). Only candidate starting weeks are the weeks actually present among the
// team's FCSes — a window starting anywhere else collects the same or fewer
// FCSes.
func (b *Builder) addC3() {
	ws := b.p.WeeksSeparatedC3
	for ti := range b.lg.Teams {
		t := league.TeamID(ti)
		entries := b.teamWeekFCS(t, b.lg.TeamFixtures(t))
		if len(entries) == 0 {
			continue
		}
		starts := distinctWeeks(entries)
		for _, w := range starts {
			var ids []league.FCSID
			for _, e := range entries {
				if e.week >= w && e.week < w+ws {
					ids = append(ids, e.id)
				}
			}
			if len(ids) < 2 {
				continue // a bound-1 constraint over <2 vars can't bind
			}
			b.m.add(Sum(fmt.Sprintf("C3-team-%d-week-%d", t, w), varsOf(b.lg, ids), AtMost, 1))
		}
	}
}

// addC4 — max home-or-away per team per window (weeks_separated = 6,
// max_per_period = 2), buckets keyed by (starting week, is-home).
func (b *Builder) addC4() {
	ws := b.p.WeeksSeparatedC4
	cap_ := int64(b.p.MaxPerPeriodC4)
	for ti := range b.lg.Teams {
		t := league.TeamID(ti)
		team := &b.lg.Teams[t]
		for _, side := range []struct {
			name      string
			fixtures  []league.FixtureID
		}{
			{"home", team.HomeFixtures},
			{"away", team.AwayFixtures},
		} {
			entries := b.teamWeekFCS(t, side.fixtures)
			if len(entries) == 0 {
				continue
			}
			starts := distinctWeeks(entries)
			for _, w := range starts {
				var ids []league.FCSID
				for _, e := range entries {
					if e.week >= w && e.week < w+ws {
						ids = append(ids, e.id)
					}
				}
				if int64(len(ids)) <= cap_ {
					continue
				}
				b.m.add(Sum(fmt.Sprintf("C4-team-%d-%s-week-%d", t, side.name, w), varsOf(b.lg, ids), AtMost, cap_))
			}
		}
	}
}

func distinctWeeks(entries []weekFCS) []int {
	seen := make(map[int]bool, len(entries))
	var out []int
	for _, e := range entries {
		if !seen[e.week] {
			seen[e.week] = true
			out = append(out, e.week)
		}
	}
	// insertion order from entries is already arena order; sort for a
	// reproducible constraint listing independent of fixture enumeration order.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
