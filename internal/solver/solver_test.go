package solver

import (
	"context"
	"testing"
	"time"

	"github.com/crossnet-badminton/bfs/internal/constraints"
	"github.com/crossnet-badminton/bfs/internal/league"
	"github.com/crossnet-badminton/bfs/internal/objective"
)

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func scheduledIdentifiers(lg *league.League) []string {
	var out []string
	for _, f := range lg.FCSes {
		if f.IsScheduled {
			out = append(out, f.Identifier)
		}
	}
	return out
}

// buildS1 is scenario S1: 2 clubs, 2 Mixed teams, 2 Mixed-typed dates
// seven weeks apart (so C3's window and C8's reverse-pair separation both
// allow the two legs), 1 court slot each.
func buildS1(t *testing.T) *league.League {
	t.Helper()
	lg := league.New()
	clubA, _ := lg.AddClub("Acton")
	clubB, _ := lg.AddClub("Brentford")
	teamA, _ := lg.AddTeam(clubA, league.MixedLeague, "A", "Main")
	teamB, _ := lg.AddTeam(clubB, league.MixedLeague, "A", "Main")
	lg.SetDivision(teamA, 1)
	lg.SetDivision(teamB, 1)

	d0, _ := lg.AddDate("01-Sep-2026", league.MixedLeague, "Tuesday", 0, mustDate("2026-09-01"))
	d1, _ := lg.AddDate("20-Oct-2026", league.MixedLeague, "Tuesday", 49, mustDate("2026-10-20"))

	slotA, _ := lg.AddCourtSlot(clubA, d0, 1, false)
	lg.AddTeamToCourtSlot(slotA, teamA)
	slotB, _ := lg.AddCourtSlot(clubB, d1, 1, false)
	lg.AddTeamToCourtSlot(slotB, teamB)

	if err := lg.GenerateFixtures(); err != nil {
		t.Fatalf("GenerateFixtures: %v", err)
	}
	return lg
}

func TestS1BothReverseFixturesScheduledOnePerDate(t *testing.T) {
	lg := buildS1(t)
	m := constraints.Build(lg, constraints.Params{})
	obj := objective.Build(lg, m)

	res := Schedule(context.Background(), lg, m, obj, Options{})
	if res.Status != StatusOptimal {
		t.Fatalf("expected OPTIMAL, got %s", res.Status)
	}

	scheduled := scheduledIdentifiers(lg)
	if len(scheduled) != 2 {
		t.Fatalf("expected 2 scheduled FCSes, got %d: %v", len(scheduled), scheduled)
	}

	byDate := make(map[league.DateID]int)
	for _, f := range lg.FCSes {
		if !f.IsScheduled {
			continue
		}
		cs := lg.CourtSlots[f.CourtSlot]
		byDate[cs.Date]++
	}
	for d, n := range byDate {
		if n != 1 {
			t.Errorf("date %d has %d scheduled FCSes, want 1", d, n)
		}
	}
}

// buildS2 is scenario S2: same as S1 but both dates are
// "Open/Ladies"-typed, so every candidate FCS is incorrect-week.
func buildS2(t *testing.T) *league.League {
	t.Helper()
	lg := league.New()
	clubA, _ := lg.AddClub("Acton")
	clubB, _ := lg.AddClub("Brentford")
	teamA, _ := lg.AddTeam(clubA, league.MixedLeague, "A", "Main")
	teamB, _ := lg.AddTeam(clubB, league.MixedLeague, "A", "Main")
	lg.SetDivision(teamA, 1)
	lg.SetDivision(teamB, 1)

	d0, _ := lg.AddDate("01-Sep-2026", "Open/Ladies", "Tuesday", 0, mustDate("2026-09-01"))
	d1, _ := lg.AddDate("20-Oct-2026", "Open/Ladies", "Tuesday", 49, mustDate("2026-10-20"))

	slotA, _ := lg.AddCourtSlot(clubA, d0, 1, false)
	lg.AddTeamToCourtSlot(slotA, teamA)
	slotB, _ := lg.AddCourtSlot(clubB, d1, 1, false)
	lg.AddTeamToCourtSlot(slotB, teamB)

	if err := lg.GenerateFixtures(); err != nil {
		t.Fatalf("GenerateFixtures: %v", err)
	}
	return lg
}

func TestS2InfeasibleByC11ThenFeasibleWhenRelaxed(t *testing.T) {
	lg := buildS2(t)
	m := constraints.Build(lg, constraints.Params{NumAllowedIncorrect: 0})
	obj := objective.Build(lg, m)
	res := Schedule(context.Background(), lg, m, obj, Options{})
	if res.Status != StatusInfeasible {
		t.Fatalf("expected INFEASIBLE with num_allowed_incorrect=0, got %s", res.Status)
	}

	lg2 := buildS2(t)
	m2 := constraints.Build(lg2, constraints.Params{NumAllowedIncorrect: 2})
	obj2 := objective.Build(lg2, m2)
	res2 := Schedule(context.Background(), lg2, m2, obj2, Options{})
	if res2.Status == StatusInfeasible {
		t.Fatalf("expected a feasible status with num_allowed_incorrect=2, got %s", res2.Status)
	}
}

// buildS4 is scenario S4: 1 club with an Open-A team and a Mixed-A
// team — shared players by C10 — each playing an away team from a second
// club, on dates that land in the same week.
func buildS4(t *testing.T) *league.League {
	t.Helper()
	lg := league.New()
	home, _ := lg.AddClub("Acton")
	away, _ := lg.AddClub("Brentford")

	openHome, _ := lg.AddTeam(home, "Open", "A", "Main")
	mixedHome, _ := lg.AddTeam(home, league.MixedLeague, "A", "Main")
	openAway, _ := lg.AddTeam(away, "Open", "A", "Main")
	mixedAway, _ := lg.AddTeam(away, league.MixedLeague, "A", "Main")
	lg.SetDivision(openHome, 1)
	lg.SetDivision(mixedHome, 1)
	lg.SetDivision(openAway, 1)
	lg.SetDivision(mixedAway, 1)

	d0, _ := lg.AddDate("01-Sep-2026", "Open/Ladies", "Tuesday", 0, mustDate("2026-09-01"))
	d1, _ := lg.AddDate("02-Sep-2026", league.MixedLeague, "Wednesday", 1, mustDate("2026-09-02"))

	slotOpen, _ := lg.AddCourtSlot(home, d0, 1, false)
	lg.AddTeamToCourtSlot(slotOpen, openHome)
	slotMixed, _ := lg.AddCourtSlot(home, d1, 1, false)
	lg.AddTeamToCourtSlot(slotMixed, mixedHome)

	if err := lg.GenerateFixtures(); err != nil {
		t.Fatalf("GenerateFixtures: %v", err)
	}
	return lg
}

func TestS4SharedPlayersNeverScheduledSameWeek(t *testing.T) {
	lg := buildS4(t)
	m := constraints.Build(lg, constraints.Params{})
	obj := objective.Build(lg, m)
	Schedule(context.Background(), lg, m, obj, Options{})

	weekHasOpen := make(map[int]bool)
	weekHasMixed := make(map[int]bool)
	for _, f := range lg.FCSes {
		if !f.IsScheduled {
			continue
		}
		w := lg.FCSWeek(f.ID)
		if lg.Fixtures[f.Fixture].League == "Open" {
			weekHasOpen[w] = true
		} else if lg.Fixtures[f.Fixture].League == league.MixedLeague {
			weekHasMixed[w] = true
		}
	}
	for w := range weekHasOpen {
		if weekHasMixed[w] {
			t.Fatalf("week %d has both Open and Mixed scheduled FCSes for shared-player teams", w)
		}
	}
}

// buildS5 is scenario S5: a predefined fixture must be honoured
// regardless of objective.
func buildS5(t *testing.T) (*league.League, string, string, string) {
	t.Helper()
	lg := league.New()
	clubA, _ := lg.AddClub("Acton")
	clubB, _ := lg.AddClub("Brentford")
	teamA, _ := lg.AddTeam(clubA, league.MixedLeague, "A", "Main")
	teamB, _ := lg.AddTeam(clubB, league.MixedLeague, "A", "Main")
	lg.SetDivision(teamA, 1)
	lg.SetDivision(teamB, 1)

	d0, _ := lg.AddDate("01-Sep-2026", league.MixedLeague, "Tuesday", 0, mustDate("2026-09-01"))
	d1, _ := lg.AddDate("08-Sep-2026", league.MixedLeague, "Tuesday", 7, mustDate("2026-09-08"))

	slotA, _ := lg.AddCourtSlot(clubA, d0, 1, false)
	lg.AddTeamToCourtSlot(slotA, teamA)
	slotA2, _ := lg.AddCourtSlot(clubA, d1, 1, false)
	lg.AddTeamToCourtSlot(slotA2, teamA)

	if err := lg.GenerateFixtures(); err != nil {
		t.Fatalf("GenerateFixtures: %v", err)
	}
	return lg, lg.TeamName(teamA), lg.TeamName(teamB), "08-Sep-2026"
}

func TestS5PredefinedFixtureHonoured(t *testing.T) {
	lg, home, away, dateStr := buildS5(t)
	m := constraints.Build(lg, constraints.Params{
		PredefinedFixtures: []constraints.PredefinedFixture{
			{HomeTeam: home, AwayTeam: away, DateStr: dateStr},
		},
	})
	obj := objective.Build(lg, m)
	Schedule(context.Background(), lg, m, obj, Options{})

	found := false
	for _, f := range lg.FCSes {
		cs := lg.CourtSlots[f.CourtSlot]
		date := lg.Dates[cs.Date]
		fx := lg.Fixtures[f.Fixture]
		if lg.TeamName(fx.Home) == home && lg.TeamName(fx.Away) == away && date.DateStr == dateStr {
			found = true
			if !f.IsScheduled {
				t.Fatalf("predefined fixture's FCS on %s is not scheduled", dateStr)
			}
		}
	}
	if !found {
		t.Fatal("predefined fixture's candidate FCS not found in league")
	}
}

// buildS6 is scenario S6: three clubs with one Mixed team each (six
// fixtures) and 10 priority court slots, every one of them at a home club
// on one of two 2026 or four 2027 dates. Every FCS sits on a priority slot,
// so a full schedule puts all six fixtures on priority slots.
func buildS6(t *testing.T) *league.League {
	t.Helper()
	lg := league.New()
	type slotDate struct {
		str   string
		delta int
		iso   string
	}
	clubs := []struct {
		name   string
		courts int
		dates  []slotDate
	}{
		{"Acton", 2, []slotDate{{"01-Sep-2026", 0, "2026-09-01"}, {"02-Mar-2027", 182, "2027-03-02"}}},
		{"Brentford", 2, []slotDate{{"15-Sep-2026", 14, "2026-09-15"}, {"19-Jan-2027", 140, "2027-01-19"}}},
		{"Chiswick", 1, []slotDate{{"05-Jan-2027", 126, "2027-01-05"}, {"02-Feb-2027", 154, "2027-02-02"}}},
	}
	for _, c := range clubs {
		club, _ := lg.AddClub(c.name)
		team, _ := lg.AddTeam(club, league.MixedLeague, "A", "Main")
		lg.SetDivision(team, 1)
		for _, sd := range c.dates {
			d, _ := lg.AddDate(sd.str, league.MixedLeague, "Tuesday", sd.delta, mustDate(sd.iso))
			for ci := 1; ci <= c.courts; ci++ {
				slot, _ := lg.AddCourtSlot(club, d, ci, true)
				lg.AddTeamToCourtSlot(slot, team)
			}
		}
	}

	if err := lg.GenerateFixtures(); err != nil {
		t.Fatalf("GenerateFixtures: %v", err)
	}
	return lg
}

// TestS6PriorityFloorMet is scenario S6: 10 priority court slots,
// num_forced_prioritised_nights=6 — an achievable floor, so the run must
// report success and the final selection must actually meet the floor.
func TestS6PriorityFloorMet(t *testing.T) {
	lg := buildS6(t)

	m := constraints.Build(lg, constraints.Params{NumForced: 6})
	obj := objective.Build(lg, m)
	res := Schedule(context.Background(), lg, m, obj, Options{})
	if res.Status != StatusOptimal && res.Status != StatusFeasible {
		t.Fatalf("expected OPTIMAL or FEASIBLE, got %s", res.Status)
	}

	scheduledOnPriority := 0
	for _, f := range lg.FCSes {
		if !f.IsScheduled {
			continue
		}
		if lg.CourtSlots[f.CourtSlot].Priority {
			scheduledOnPriority++
		}
	}
	if scheduledOnPriority < 6 {
		t.Fatalf("expected >= 6 scheduled FCSes on priority slots, got %d", scheduledOnPriority)
	}
}

// TestS6PriorityFloorUnmetReportsInfeasible is S6 with a floor of 15, above
// both its six fixtures and its 10 priority slots — no selection can ever meet it, so
// deriveStatus must independently catch the unmet AtLeast bucket and
// report INFEASIBLE rather than trusting full fixture coverage alone.
func TestS6PriorityFloorUnmetReportsInfeasible(t *testing.T) {
	lg := buildS6(t)

	m := constraints.Build(lg, constraints.Params{NumForced: 15})
	obj := objective.Build(lg, m)
	res := Schedule(context.Background(), lg, m, obj, Options{})
	if res.Status != StatusInfeasible {
		t.Fatalf("expected INFEASIBLE for an unachievable priority floor, got %s", res.Status)
	}
}

func TestScheduleIsDeterministicGivenFixedSeed(t *testing.T) {
	lg1 := buildS1(t)
	m1 := constraints.Build(lg1, constraints.Params{})
	obj1 := objective.Build(lg1, m1)
	res1 := Schedule(context.Background(), lg1, m1, obj1, Options{BaseSeed: 7})

	lg2 := buildS1(t)
	m2 := constraints.Build(lg2, constraints.Params{})
	obj2 := objective.Build(lg2, m2)
	res2 := Schedule(context.Background(), lg2, m2, obj2, Options{BaseSeed: 7})

	if res1.ObjectiveValue != res2.ObjectiveValue {
		t.Fatalf("objective differs across identical runs: %d vs %d", res1.ObjectiveValue, res2.ObjectiveValue)
	}
	if len(res1.Selected) != len(res2.Selected) {
		t.Fatalf("selection size differs across identical runs: %d vs %d", len(res1.Selected), len(res2.Selected))
	}
}
