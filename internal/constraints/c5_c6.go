package constraints

import (
	"fmt"

	"github.com/crossnet-badminton/bfs/internal/league"
)

// intraClubHomeCount returns k: the number of intra-club fixtures in which
// team t is the home side.
func (b *Builder) intraClubHomeCount(t league.TeamID) int {
	k := 0
	for _, fx := range b.lg.Teams[t].HomeFixtures {
		if b.lg.Fixtures[fx].IntraClub {
			k++
		}
	}
	return k
}

// addC5 — intra-club fixtures booked first: for every team with k>0
// intra-club home fixtures, every intra-club fixture of that team (home or
// away) is forced into the first k weeks from the season start or from
// Christmas.
func (b *Builder) addC5() {
	wMin := b.lg.MinWeek()
	wXmas := b.lg.ChristmasWeek()

	for ti := range b.lg.Teams {
		t := league.TeamID(ti)
		k := b.intraClubHomeCount(t)
		if k == 0 {
			continue
		}
		for _, fx := range b.lg.TeamFixtures(t) {
			if !b.lg.Fixtures[fx].IntraClub {
				continue
			}
			var disallowed []league.FCSID
			for _, id := range b.lg.FCSesForFixture(fx) {
				w := b.lg.FCSWeek(id)
				fromMin := w - wMin
				fromXmas := w - wXmas
				allowed := (fromMin >= 0 && fromMin < k) || (fromXmas >= 0 && fromXmas < k)
				if !allowed {
					disallowed = append(disallowed, id)
				}
			}
			if len(disallowed) == 0 {
				continue
			}
			b.m.add(Sum(fmt.Sprintf("C5-team-%d-fixture-%d", t, fx), varsOf(b.lg, disallowed), AtMost, 0))
		}
	}
}

// addC6 — at most half of a team's fixtures pre-Christmas, with a floor of
// min(floor(|F|/2), 3).
func (b *Builder) addC6() {
	wXmas := b.lg.ChristmasWeek()
	for ti := range b.lg.Teams {
		t := league.TeamID(ti)
		fixtures := b.lg.TeamFixtures(t)
		total := len(fixtures)
		if total == 0 {
			continue
		}
		ceiling := int64(total / 2)
		floor := ceiling
		if floor > 3 {
			floor = 3
		}

		var pre []league.FCSID
		for _, fx := range fixtures {
			for _, id := range b.lg.FCSesForFixture(fx) {
				if b.lg.FCSWeek(id) <= wXmas {
					pre = append(pre, id)
				}
			}
		}
		if len(pre) == 0 {
			continue
		}
		vars := varsOf(b.lg, pre)
		b.m.add(Sum(fmt.Sprintf("C6-team-%d-ceiling", t), vars, AtMost, ceiling))
		if floor > 0 {
			b.m.add(Sum(fmt.Sprintf("C6-team-%d-floor", t), vars, AtLeast, floor))
		}
	}
}
