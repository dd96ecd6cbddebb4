package league

import (
	"fmt"
	"strings"
)

// GenerateFixtures enumerates every ordered team pair within a (league,
// division) grouping and pairs each resulting fixture with its home team's
// eligible court slots, populating Fixtures, FCSes and the back-references
// on CourtSlot.FixtureCourtSlots. Must be called after every team's
// division has been set; it calls Validate first so a zero division is
// reported before any fixture is built.
//
// Iteration is over the Teams slice in insertion order (never a map), so
// fixture and FCS creation order — and therefore every FCS identifier — is
// byte-identical across runs on the same input.
func (lg *League) GenerateFixtures() error {
	if err := lg.Validate(); err != nil {
		return err
	}

	for hi := range lg.Teams {
		h := TeamID(hi)
		home := &lg.Teams[hi]
		for ai := range lg.Teams {
			a := TeamID(ai)
			if h == a {
				continue
			}
			away := &lg.Teams[ai]
			if home.League != away.League || home.Division != away.Division {
				continue
			}
			lg.addFixture(h, a)
		}
	}
	return nil
}

// addFixture creates one directional fixture and its candidate FCSes. A
// fixture with zero candidate FCSes (home team has no eligible court slots)
// is permitted here; no constraint is built for it, and it is left out of
// the solver's fixture-coverage count, so it stays unscheduled.
func (lg *League) addFixture(home, away TeamID) FixtureID {
	homeTeam := &lg.Teams[home]
	id := FixtureID(len(lg.Fixtures))
	fx := Fixture{
		ID:        id,
		Home:      home,
		Away:      away,
		League:    homeTeam.League,
		Division:  homeTeam.Division,
		IntraClub: lg.Teams[home].Club == lg.Teams[away].Club,
	}
	lg.Fixtures = append(lg.Fixtures, fx)
	lg.Teams[home].HomeFixtures = append(lg.Teams[home].HomeFixtures, id)
	lg.Teams[away].AwayFixtures = append(lg.Teams[away].AwayFixtures, id)

	for _, slotID := range lg.Clubs[homeTeam.Club].Courts {
		cs := &lg.CourtSlots[slotID]
		if !slotListsTeam(cs.Teams, home) {
			continue
		}
		lg.addFCS(id, slotID)
	}
	return id
}

func slotListsTeam(teams []TeamID, t TeamID) bool {
	for _, x := range teams {
		if x == t {
			return true
		}
	}
	return false
}

func (lg *League) addFCS(fixture FixtureID, slot CourtSlotID) FCSID {
	fx := &lg.Fixtures[fixture]
	cs := &lg.CourtSlots[slot]
	date := &lg.Dates[cs.Date]

	id := FCSID(len(lg.FCSes))
	dateIsMixed := date.LeagueType == MixedLeague
	fixtureIsMixed := fx.League == MixedLeague

	f := FCS{
		ID:            id,
		Fixture:       fixture,
		CourtSlot:     slot,
		Identifier:    fcsIdentifier(lg.FixtureName(fixture), date.DateStr, cs.ConcurrencyIndex),
		IsCorrectWeek: dateIsMixed == fixtureIsMixed,
	}
	lg.FCSes = append(lg.FCSes, f)
	lg.Fixtures[fixture].FixtureCourtSlots = append(lg.Fixtures[fixture].FixtureCourtSlots, id)
	lg.CourtSlots[slot].FixtureCourtSlots = append(lg.CourtSlots[slot].FixtureCourtSlots, id)
	return id
}

// fcsIdentifier builds the deterministic CP variable name for a candidate,
// grounded in original_source's "fixture.name + date_str + concurrency"
// scheme with spaces folded to underscores.
func fcsIdentifier(fixtureName, dateStr string, concurrency int) string {
	raw := fmt.Sprintf("%s_%s_%d", fixtureName, dateStr, concurrency)
	return strings.ReplaceAll(raw, " ", "_")
}
