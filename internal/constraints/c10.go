package constraints

import (
	"fmt"

	"github.com/crossnet-badminton/bfs/internal/league"
)

// addC10 — shared-players different week: two same-club teams where exactly
// one plays Mixed may not both have a candidate slot scheduled the same
// week.
func (b *Builder) addC10() {
	teams := b.lg.Teams
	for i := range teams {
		for j := i + 1; j < len(teams); j++ {
			a, c := league.TeamID(i), league.TeamID(j)
			if !b.lg.SharesPlayers(a, c) {
				continue
			}
			buckets := make(map[int][]league.FCSID)
			for _, e := range b.teamWeekFCS(a, b.lg.TeamFixtures(a)) {
				buckets[e.week] = append(buckets[e.week], e.id)
			}
			for _, e := range b.teamWeekFCS(c, b.lg.TeamFixtures(c)) {
				buckets[e.week] = append(buckets[e.week], e.id)
			}
			for _, w := range sortedIntKeys(buckets) {
				ids := buckets[w]
				if len(ids) < 2 {
					continue
				}
				b.m.add(Sum(fmt.Sprintf("C10-team-%d-%d-week-%d", a, c, w), varsOf(b.lg, ids), AtMost, 1))
			}
		}
	}
}
