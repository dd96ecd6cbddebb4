// Package validate independently re-checks an emitted (or hand-edited)
// Match Fixture Slots workbook against the scheduling rules: re-ingest the
// season from config, overlay the workbook's is_scheduled flags, then walk
// the same invariants the constraint builder enforces during solving.
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/crossnet-badminton/bfs/internal/config"
	"github.com/crossnet-badminton/bfs/internal/ingest"
	"github.com/crossnet-badminton/bfs/internal/league"
	"github.com/xuri/excelize/v2"
)

// Violation is one rule or guideline breach found while validating.
type Violation struct {
	Type    string // "error" (hard) or "warning"
	Message string
}

// Validate re-ingests cfg's season, overlays schedulePath's scheduled flags
// onto it, and checks the result against Testable Properties 2 through 10.
func Validate(cfg *config.Config, schedulePath string) ([]Violation, error) {
	lg, err := ingest.BuildLeague(cfg)
	if err != nil {
		return nil, fmt.Errorf("rebuilding league from config: %w", err)
	}

	if err := applyScheduleWorkbook(lg, schedulePath); err != nil {
		return nil, fmt.Errorf("applying schedule workbook: %w", err)
	}

	solver := cfg.Solver
	var violations []Violation
	violations = append(violations, checkFixtureCoverage(lg)...)
	violations = append(violations, checkSlotExclusivity(lg)...)
	violations = append(violations, checkTeamWeeklyExclusivity(lg, orDefault(solver.WeeksSeparatedWindow, 2))...)
	violations = append(violations, checkReversePairSeparation(lg, orDefault(solver.ReversePairSeparationWeeks, 6))...)
	violations = append(violations, checkSharedPlayers(lg)...)
	violations = append(violations, checkCorrectWeekBound(lg, solver.NumAllowedIncorrectFixtureWeek)...)
	violations = append(violations, checkPriorityFloor(lg, solver.NumForcedPrioritisedNights)...)
	violations = append(violations, checkPreChristmasBalance(lg)...)
	violations = append(violations, checkHomeAwayBalance(lg)...)
	return violations, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// applyScheduleWorkbook reads the Match Fixture Slots sheet and sets
// FCS.IsScheduled on lg to match it, so hand-edits to an emitted workbook
// are honored rather than re-derived from the solver's own result.
func applyScheduleWorkbook(lg *league.League, path string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("opening schedule workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Match Fixture Slots")
	if err != nil {
		return fmt.Errorf("reading Match Fixture Slots: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("Match Fixture Slots is empty")
	}

	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[strings.TrimSpace(h)] = i
	}

	type fcsKey struct {
		home, away, dateStr string
		court               int
	}
	lookup := make(map[fcsKey]league.FCSID, len(lg.FCSes))
	for _, fcs := range lg.FCSes {
		fx := &lg.Fixtures[fcs.Fixture]
		cs := &lg.CourtSlots[fcs.CourtSlot]
		key := fcsKey{
			home:    lg.TeamName(fx.Home),
			away:    lg.TeamName(fx.Away),
			dateStr: lg.Dates[cs.Date].DateStr,
			court:   cs.ConcurrencyIndex + 1,
		}
		lookup[key] = fcs.ID
	}

	for i := range lg.FCSes {
		lg.FCSes[i].IsScheduled = false
	}

	for _, row := range rows[1:] {
		home := cellAt(row, idx, "Home Team")
		away := cellAt(row, idx, "Away Team")
		if home == "" || away == "" {
			continue
		}
		court, _ := strconv.Atoi(cellAt(row, idx, "Court No."))
		key := fcsKey{home: home, away: away, dateStr: cellAt(row, idx, "Date"), court: court}
		fcsID, ok := lookup[key]
		if !ok {
			return fmt.Errorf("schedule workbook row %s vs %s on %s court %d matches no candidate FCS in the rebuilt league", home, away, key.dateStr, court)
		}
		if isTruthy(cellAt(row, idx, "is_scheduled")) {
			lg.FCSes[fcsID].IsScheduled = true
		}
	}
	return nil
}

func cellAt(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func isTruthy(s string) bool {
	s = strings.TrimSpace(s)
	return s == "1" || strings.EqualFold(s, "true") || strings.EqualFold(s, "yes")
}

func scheduledFCSes(lg *league.League) []league.FCSID {
	var out []league.FCSID
	for _, fcs := range lg.FCSes {
		if fcs.IsScheduled {
			out = append(out, fcs.ID)
		}
	}
	return out
}

// checkFixtureCoverage is Testable Property 2: every fixture has exactly
// one scheduled FCS. Zero coverage is reported as a warning (a timed-out
// run can legitimately leave fixtures unscheduled); more than one
// scheduled FCS for the same fixture is a hard error.
func checkFixtureCoverage(lg *league.League) []Violation {
	var violations []Violation
	for i := range lg.Fixtures {
		fx := &lg.Fixtures[i]
		scheduled := 0
		for _, id := range fx.FixtureCourtSlots {
			if lg.FCSByID(id).IsScheduled {
				scheduled++
			}
		}
		switch {
		case scheduled > 1:
			violations = append(violations, Violation{Type: "error",
				Message: fmt.Sprintf("fixture %s has %d scheduled slots, want exactly 1", lg.FixtureName(fx.ID), scheduled)})
		case scheduled == 0:
			violations = append(violations, Violation{Type: "warning",
				Message: fmt.Sprintf("fixture %s has no scheduled slot", lg.FixtureName(fx.ID))})
		}
	}
	return violations
}

// checkSlotExclusivity is Testable Property 3: at most one scheduled FCS
// per court slot.
func checkSlotExclusivity(lg *league.League) []Violation {
	var violations []Violation
	for i := range lg.CourtSlots {
		cs := &lg.CourtSlots[i]
		scheduled := 0
		for _, id := range cs.FixtureCourtSlots {
			if lg.FCSByID(id).IsScheduled {
				scheduled++
			}
		}
		if scheduled > 1 {
			date := &lg.Dates[cs.Date]
			violations = append(violations, Violation{Type: "error",
				Message: fmt.Sprintf("court slot %s/%s concurrency %d has %d scheduled fixtures, want at most 1",
					lg.Clubs[cs.Club].Name, date.DateStr, cs.ConcurrencyIndex, scheduled)})
		}
	}
	return violations
}

// checkTeamWeeklyExclusivity is Testable Property 4: at most one scheduled
// FCS per team in any sliding window-week window.
func checkTeamWeeklyExclusivity(lg *league.League, window int) []Violation {
	var violations []Violation
	for ti := range lg.Teams {
		team := league.TeamID(ti)
		var weeks []int
		for _, fxID := range lg.TeamFixtures(team) {
			for _, id := range lg.FCSesForFixture(fxID) {
				if lg.FCSByID(id).IsScheduled {
					weeks = append(weeks, lg.FCSWeek(id))
				}
			}
		}
		for i := range weeks {
			for j := i + 1; j < len(weeks); j++ {
				if abs(weeks[i]-weeks[j]) < window {
					violations = append(violations, Violation{Type: "error",
						Message: fmt.Sprintf("team %s has scheduled fixtures in weeks %d and %d, within the %d-week exclusivity window",
							lg.TeamName(team), weeks[i], weeks[j], window)})
				}
			}
		}
	}
	return violations
}

// checkReversePairSeparation is Testable Property 5: two scheduled FCSes
// between an inter-club pair must differ by more than the configured
// number of weeks.
func checkReversePairSeparation(lg *league.League, minWeeks int) []Violation {
	var violations []Violation
	seen := make(map[[2]league.TeamID]bool)
	for fi := range lg.Fixtures {
		fx := &lg.Fixtures[fi]
		if fx.IntraClub {
			continue
		}
		pairKey := [2]league.TeamID{fx.Home, fx.Away}
		if fx.Home > fx.Away {
			pairKey = [2]league.TeamID{fx.Away, fx.Home}
		}
		if seen[pairKey] {
			continue
		}
		seen[pairKey] = true

		reverseID, ok := findFixture(lg, fx.Away, fx.Home)
		if !ok {
			continue
		}
		w1, ok1 := scheduledWeek(lg, fx.ID)
		w2, ok2 := scheduledWeek(lg, reverseID)
		if !ok1 || !ok2 {
			continue
		}
		if abs(w1-w2) <= minWeeks {
			violations = append(violations, Violation{Type: "error",
				Message: fmt.Sprintf("reverse pair %s / %s scheduled only %d weeks apart, want more than %d",
					lg.FixtureName(fx.ID), lg.FixtureName(reverseID), abs(w1-w2), minWeeks)})
		}
	}
	return violations
}

func findFixture(lg *league.League, home, away league.TeamID) (league.FixtureID, bool) {
	for _, fxID := range lg.TeamFixtures(home) {
		fx := &lg.Fixtures[fxID]
		if fx.Home == home && fx.Away == away {
			return fxID, true
		}
	}
	return 0, false
}

func scheduledWeek(lg *league.League, f league.FixtureID) (int, bool) {
	for _, id := range lg.FCSesForFixture(f) {
		if lg.FCSByID(id).IsScheduled {
			return lg.FCSWeek(id), true
		}
	}
	return 0, false
}

// checkSharedPlayers is Testable Property 6: no two scheduled FCSes for a
// same-club Mixed/level-league pair fall in the same week.
func checkSharedPlayers(lg *league.League) []Violation {
	var violations []Violation
	for a := range lg.Teams {
		for b := a + 1; b < len(lg.Teams); b++ {
			ta, tb := league.TeamID(a), league.TeamID(b)
			if !lg.SharesPlayers(ta, tb) {
				continue
			}
			weeksA := scheduledWeeksFor(lg, ta)
			weeksB := scheduledWeeksFor(lg, tb)
			for _, wa := range weeksA {
				for _, wb := range weeksB {
					if wa == wb {
						violations = append(violations, Violation{Type: "error",
							Message: fmt.Sprintf("teams %s and %s share players and both have a scheduled fixture in week %d",
								lg.TeamName(ta), lg.TeamName(tb), wa)})
					}
				}
			}
		}
	}
	return violations
}

func scheduledWeeksFor(lg *league.League, t league.TeamID) []int {
	var weeks []int
	for _, fxID := range lg.TeamFixtures(t) {
		for _, id := range lg.FCSesForFixture(fxID) {
			if lg.FCSByID(id).IsScheduled {
				weeks = append(weeks, lg.FCSWeek(id))
			}
		}
	}
	return weeks
}

// checkCorrectWeekBound is Testable Property 7: at most
// numAllowedIncorrect scheduled FCSes with IsCorrectWeek false.
func checkCorrectWeekBound(lg *league.League, numAllowedIncorrect int) []Violation {
	incorrect := 0
	for _, id := range scheduledFCSes(lg) {
		if !lg.FCSByID(id).IsCorrectWeek {
			incorrect++
		}
	}
	if incorrect > numAllowedIncorrect {
		return []Violation{{Type: "error",
			Message: fmt.Sprintf("%d scheduled fixtures fall in the wrong week, want at most %d", incorrect, numAllowedIncorrect)}}
	}
	return nil
}

// checkPriorityFloor is Testable Property 8: at least numForced scheduled
// FCSes fall on priority court slots.
func checkPriorityFloor(lg *league.League, numForced int) []Violation {
	count := 0
	for _, id := range scheduledFCSes(lg) {
		cs := &lg.CourtSlots[lg.FCSByID(id).CourtSlot]
		if cs.Priority {
			count++
		}
	}
	if count < numForced {
		return []Violation{{Type: "error",
			Message: fmt.Sprintf("%d scheduled fixtures fall on priority slots, want at least %d", count, numForced)}}
	}
	return nil
}

// checkPreChristmasBalance is Testable Property 9: per team, scheduled
// FCSes in weeks at or before the Christmas week must be between
// min(floor(|fixtures|/2), 3) and floor(|fixtures|/2).
func checkPreChristmasBalance(lg *league.League) []Violation {
	xmasWeek := lg.ChristmasWeek()
	var violations []Violation
	for ti := range lg.Teams {
		t := league.TeamID(ti)
		fixtures := lg.TeamFixtures(t)
		if len(fixtures) == 0 {
			continue
		}
		ceiling := len(fixtures) / 2
		floor := ceiling
		if floor > 3 {
			floor = 3
		}

		preCount := 0
		for _, fxID := range fixtures {
			for _, id := range lg.FCSesForFixture(fxID) {
				if lg.FCSByID(id).IsScheduled && lg.FCSWeek(id) <= xmasWeek {
					preCount++
				}
			}
		}
		if preCount > ceiling {
			violations = append(violations, Violation{Type: "error",
				Message: fmt.Sprintf("team %s has %d pre-Christmas fixtures, want at most %d", lg.TeamName(t), preCount, ceiling)})
		}
		if preCount < floor {
			violations = append(violations, Violation{Type: "error",
				Message: fmt.Sprintf("team %s has %d pre-Christmas fixtures, want at least %d", lg.TeamName(t), preCount, floor)})
		}
	}
	return violations
}

// checkHomeAwayBalance is Testable Property 10: per team per season half,
// the home/away count must not differ by more than one.
func checkHomeAwayBalance(lg *league.League) []Violation {
	xmasWeek := lg.ChristmasWeek()
	var violations []Violation
	for ti := range lg.Teams {
		t := league.TeamID(ti)
		team := &lg.Teams[t]

		var homeFirst, awayFirst, homeSecond, awaySecond int
		for _, fxID := range team.HomeFixtures {
			for _, id := range lg.FCSesForFixture(fxID) {
				if !lg.FCSByID(id).IsScheduled {
					continue
				}
				if lg.FCSWeek(id) <= xmasWeek {
					homeFirst++
				} else {
					homeSecond++
				}
			}
		}
		for _, fxID := range team.AwayFixtures {
			for _, id := range lg.FCSesForFixture(fxID) {
				if !lg.FCSByID(id).IsScheduled {
					continue
				}
				if lg.FCSWeek(id) <= xmasWeek {
					awayFirst++
				} else {
					awaySecond++
				}
			}
		}

		if abs(homeFirst-awayFirst) > 1 {
			violations = append(violations, Violation{Type: "error",
				Message: fmt.Sprintf("team %s has a first-half home/away split of %d/%d", lg.TeamName(t), homeFirst, awayFirst)})
		}
		if abs(homeSecond-awaySecond) > 1 {
			violations = append(violations, Violation{Type: "error",
				Message: fmt.Sprintf("team %s has a second-half home/away split of %d/%d", lg.TeamName(t), homeSecond, awaySecond)})
		}
	}
	return violations
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
