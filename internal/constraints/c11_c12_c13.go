package constraints

import (
	"time"

	"github.com/crossnet-badminton/bfs/internal/league"
)

// addC11 — bounded incorrect-week fixtures.
func (b *Builder) addC11(numAllowedIncorrect int) {
	var ids []league.FCSID
	for _, f := range b.lg.FCSes {
		if !f.IsCorrectWeek {
			ids = append(ids, f.ID)
		}
	}
	if len(ids) == 0 {
		return
	}
	b.m.add(Sum("C11-incorrect-week", varsOf(b.lg, ids), AtMost, int64(numAllowedIncorrect)))
}

// addC12 — forced priority slots.
func (b *Builder) addC12(numForced int) {
	if numForced <= 0 {
		return
	}
	var ids []league.FCSID
	for _, cs := range b.lg.CourtSlots {
		if !cs.Priority {
			continue
		}
		ids = append(ids, cs.FixtureCourtSlots...)
	}
	if len(ids) == 0 {
		return
	}
	b.m.add(Sum("C12-forced-priority", varsOf(b.lg, ids), AtLeast, int64(numForced)))
}

// addC13 — predefined fixtures (optional): each triple pins its matching
// FCS set to exactly one selection; every other FCS on or before the
// current day is forced unscheduled (cannot retroactively schedule).
func (b *Builder) addC13(predefined []PredefinedFixture, currentDay time.Time) {
	pinned := make(map[league.FCSID]bool)

	for _, pf := range predefined {
		home, ok := b.lg.TeamByName(pf.HomeTeam)
		if !ok {
			continue
		}
		away, ok := b.lg.TeamByName(pf.AwayTeam)
		if !ok {
			continue
		}
		fx, ok := b.fixtureBetween(home, away)
		if !ok {
			continue
		}
		var match []league.FCSID
		for _, id := range b.lg.FCSesForFixture(fx) {
			cs := b.lg.CourtSlots[b.lg.FCSes[id].CourtSlot]
			date := b.lg.Dates[cs.Date]
			if date.DateStr == pf.DateStr {
				match = append(match, id)
				pinned[id] = true
			}
		}
		if len(match) == 0 {
			continue
		}
		b.m.add(Sum("C13-predefined-"+pf.HomeTeam+"-vs-"+pf.AwayTeam, varsOf(b.lg, match), Exactly, 1))
	}

	if currentDay.IsZero() {
		return
	}
	for _, f := range b.lg.FCSes {
		if pinned[f.ID] {
			continue
		}
		cs := b.lg.CourtSlots[f.CourtSlot]
		date := b.lg.Dates[cs.Date]
		if date.Calendar.After(currentDay) {
			continue
		}
		b.m.add(Sum("C13-past-"+f.Identifier, []string{f.Identifier}, Exactly, 0))
	}
}
