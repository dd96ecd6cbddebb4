package constraints

import (
	"fmt"

	"github.com/crossnet-badminton/bfs/internal/league"
)

// fixtureBetween returns the fixture with home==a, away==b, if one exists.
func (b *Builder) fixtureBetween(a, b2 league.TeamID) (league.FixtureID, bool) {
	for _, fx := range b.lg.Teams[a].HomeFixtures {
		if b.lg.Fixtures[fx].Away == b2 {
			return fx, true
		}
	}
	return 0, false
}

// reversePairFCS returns every FCS of the two directional fixtures between
// t1 and t2 (t1-home-vs-t2 and t2-home-vs-t1), combined.
func (b *Builder) reversePairFCS(t1, t2 league.TeamID) []league.FCSID {
	var out []league.FCSID
	if fx, ok := b.fixtureBetween(t1, t2); ok {
		out = append(out, b.lg.FCSesForFixture(fx)...)
	}
	if fx, ok := b.fixtureBetween(t2, t1); ok {
		out = append(out, b.lg.FCSesForFixture(fx)...)
	}
	return out
}

// addC8 — reverse-fixture separation: inter-club team pairs in the same
// (league, division) may not have both legs' candidate slots within
// weeks_separated weeks of each other.
func (b *Builder) addC8() {
	ws := b.p.WeeksSeparatedC8
	teams := b.lg.Teams
	for i := range teams {
		for j := i + 1; j < len(teams); j++ {
			t1, t2 := league.TeamID(i), league.TeamID(j)
			if teams[i].League != teams[j].League || teams[i].Division != teams[j].Division {
				continue
			}
			if teams[i].Club == teams[j].Club {
				continue // C8 is for different clubs; same-club pairs are C5's concern
			}
			fcses := b.reversePairFCS(t1, t2)
			for x := 0; x < len(fcses); x++ {
				for y := x + 1; y < len(fcses); y++ {
					wx, wy := b.lg.FCSWeek(fcses[x]), b.lg.FCSWeek(fcses[y])
					d := wx - wy
					if d < 0 {
						d = -d
					}
					if d > ws {
						continue
					}
					b.m.add(Sum(fmt.Sprintf("C8-team-%d-%d-pair-%d-%d", t1, t2, fcses[x], fcses[y]),
						[]string{b.var_(fcses[x]), b.var_(fcses[y])}, AtMost, 1))
				}
			}
		}
	}
}

// addC9 — at most one of a reverse pair's legs may fall pre-Christmas.
func (b *Builder) addC9() {
	wXmas := b.lg.ChristmasWeek()
	teams := b.lg.Teams
	for i := range teams {
		for j := i + 1; j < len(teams); j++ {
			t1, t2 := league.TeamID(i), league.TeamID(j)
			if teams[i].League != teams[j].League || teams[i].Division != teams[j].Division {
				continue
			}
			fcses := b.reversePairFCS(t1, t2)
			var pre []league.FCSID
			for _, id := range fcses {
				if b.lg.FCSWeek(id) < wXmas {
					pre = append(pre, id)
				}
			}
			if len(pre) < 2 {
				continue
			}
			b.m.add(Sum(fmt.Sprintf("C9-team-%d-%d", t1, t2), varsOf(b.lg, pre), AtMost, 1))
		}
	}
}
