// Package ingest reads the season's workbooks (club entry, per-club,
// previous-division, predefined-fixtures) and builds a league.League from
// them: excelize.GetRows plus a header-indexed column lookup, no struct
// tags or reflection.
package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/crossnet-badminton/bfs/internal/config"
	"github.com/crossnet-badminton/bfs/internal/constraints"
	"github.com/crossnet-badminton/bfs/internal/league"
	"github.com/xuri/excelize/v2"
)

const dateLayout = "02-Jan-2006"

// ClubEntry is one row of the club-entry workbook: a club's name and the
// path to its own workbook.
type ClubEntry struct {
	Name         string
	WorkbookPath string
}

// TeamEntering is one row of a club workbook's Teams Entering sheet.
type TeamEntering struct {
	LeagueName        string
	Rank              string
	AvailabilityGroup string
	HomeNightsReq     int
}

// AvailabilityRow is one row of a club workbook's Availability sheet.
type AvailabilityRow struct {
	DateStr             string
	Calendar            time.Time
	LeagueType          string
	Weekday             string
	Available           string // availability-group label, or "Unavailable"
	ConcurrentMatches   int
	Priority            bool
}

// FixTeamName appends " A" to a team name that has no trailing rank letter
// " A".." G" (Testable Property 12).
func FixTeamName(name string) string {
	if len(name) >= 2 {
		c := name[len(name)-1]
		if name[len(name)-2] == ' ' && c >= 'A' && c <= 'G' {
			return name
		}
	}
	return name + " A"
}

func getSheetRows(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	return rows, nil
}

// headerIndex maps column name -> index for a header row.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func cell(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// ReadClubEntryWorkbook reads the club-entry table: one row per club naming
// that club and the path to its own workbook.
func ReadClubEntryWorkbook(path string) ([]ClubEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening club entry workbook: %w", err)
	}
	defer f.Close()

	rows, err := getSheetRows(f, "Clubs")
	if err != nil {
		return nil, err
	}
	idx := headerIndex(rows[0])

	entries := make([]ClubEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := cell(row, idx, "Club Name")
		if name == "" {
			continue
		}
		entries = append(entries, ClubEntry{
			Name:         name,
			WorkbookPath: cell(row, idx, "Workbook Path"),
		})
	}
	return entries, nil
}

// ReadClubWorkbook reads one club's own workbook: its name, its Teams
// Entering roster, and its Availability calendar.
func ReadClubWorkbook(path string) (name string, teams []TeamEntering, avail []AvailabilityRow, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", nil, nil, fmt.Errorf("opening club workbook %s: %w", path, err)
	}
	defer f.Close()

	infoRows, err := getSheetRows(f, "Club Information")
	if err != nil {
		return "", nil, nil, err
	}
	if len(infoRows) < 2 || len(infoRows[1]) == 0 {
		return "", nil, nil, fmt.Errorf("club workbook %s: Club Information has no name row", path)
	}
	name = infoRows[1][0]

	teamRows, err := getSheetRows(f, "Teams Entering")
	if err != nil {
		return "", nil, nil, err
	}
	tIdx := headerIndex(teamRows[0])
	for _, row := range teamRows[1:] {
		leagueName := cell(row, tIdx, "League Name")
		if leagueName == "" {
			continue
		}
		homeNights, _ := strconv.Atoi(cell(row, tIdx, "Home Nights Required"))
		teams = append(teams, TeamEntering{
			LeagueName:        leagueName,
			Rank:              cell(row, tIdx, "Team Rank"),
			AvailabilityGroup: cell(row, tIdx, "Availability Group"),
			HomeNightsReq:     homeNights,
		})
	}

	availRows, err := getSheetRows(f, "Availability")
	if err != nil {
		return "", nil, nil, err
	}
	aIdx := headerIndex(availRows[0])
	for _, row := range availRows[1:] {
		dateStr := cell(row, aIdx, "Date")
		if dateStr == "" {
			continue
		}
		cal, parseErr := time.Parse(dateLayout, dateStr)
		if parseErr != nil {
			return "", nil, nil, fmt.Errorf("club workbook %s: invalid availability date %q: %w", path, dateStr, parseErr)
		}
		concurrent, _ := strconv.Atoi(cell(row, aIdx, "No. Concurrent Matches"))
		avail = append(avail, AvailabilityRow{
			DateStr:           dateStr,
			Calendar:          cal,
			LeagueType:        cell(row, aIdx, "League Type"),
			Weekday:           cell(row, aIdx, "Weekday"),
			Available:         cell(row, aIdx, "Available"),
			ConcurrentMatches: concurrent,
			Priority:          isTruthy(cell(row, aIdx, "Priority")),
		})
	}

	return name, teams, avail, nil
}

func isTruthy(s string) bool {
	s = strings.TrimSpace(s)
	return strings.EqualFold(s, "yes") || strings.EqualFold(s, "true") || s == "1"
}

// ReadPreviousDivisionWorkbook reads the season-wide table assigning each
// team its New Division.
func ReadPreviousDivisionWorkbook(path string) (map[string]int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening previous division workbook: %w", err)
	}
	defer f.Close()

	rows, err := getSheetRows(f, "Previous League Organisation")
	if err != nil {
		return nil, err
	}
	idx := headerIndex(rows[0])

	out := make(map[string]int, len(rows)-1)
	for _, row := range rows[1:] {
		team := cell(row, idx, "Team")
		if team == "" {
			continue
		}
		div, parseErr := strconv.Atoi(cell(row, idx, "New Division"))
		if parseErr != nil {
			return nil, fmt.Errorf("previous division workbook: team %q has non-integer division: %w", team, parseErr)
		}
		out[team] = div
	}
	return out, nil
}

// ReadPredefinedFixturesWorkbook reads the optional predefined-fixtures
// table and resolves each row's Match Date against lg's already-ingested
// calendar, returning a ConfigError for any row naming an unknown team or
// date: a fatal configuration problem, surfaced before the solver ever runs.
func ReadPredefinedFixturesWorkbook(path string, lg *league.League) ([]constraints.PredefinedFixture, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening predefined fixtures workbook: %w", err)
	}
	defer f.Close()

	rows, err := getSheetRows(f, "Predefined Fixtures")
	if err != nil {
		return nil, err
	}
	idx := headerIndex(rows[0])

	dateStrByDay := make(map[string]string, len(lg.Dates))
	for _, d := range lg.Dates {
		dateStrByDay[d.Calendar.Format("2006-01-02")] = d.DateStr
	}

	var out []constraints.PredefinedFixture
	for _, row := range rows[1:] {
		home := cell(row, idx, "Home Team")
		away := cell(row, idx, "Away Team")
		if home == "" || away == "" {
			continue
		}
		status := strings.TrimSpace(cell(row, idx, "Status"))
		if strings.EqualFold(status, "Cancelled") {
			continue
		}

		home, away = FixTeamName(home), FixTeamName(away)
		if _, ok := lg.TeamByName(home); !ok {
			return nil, &league.ConfigError{Reason: fmt.Sprintf("predefined fixture names unknown team %q", home)}
		}
		if _, ok := lg.TeamByName(away); !ok {
			return nil, &league.ConfigError{Reason: fmt.Sprintf("predefined fixture names unknown team %q", away)}
		}

		matchDateCell := cell(row, idx, "Match Date")
		matchDate, parseErr := time.Parse("02/01/2006", matchDateCell)
		if parseErr != nil {
			return nil, &league.ConfigError{Reason: fmt.Sprintf("predefined fixture %s vs %s has invalid match date %q", home, away, matchDateCell)}
		}
		dateStr, ok := dateStrByDay[matchDate.Format("2006-01-02")]
		if !ok {
			return nil, &league.ConfigError{Reason: fmt.Sprintf("predefined fixture %s vs %s names unknown date %q", home, away, matchDateCell)}
		}

		out = append(out, constraints.PredefinedFixture{
			HomeTeam: home,
			AwayTeam: away,
			DateStr:  dateStr,
		})
	}
	return out, nil
}

// BuildLeague ingests the club-entry workbook, every per-club workbook, and
// the previous-division workbook named in cfg, then generates every
// candidate fixture-court-slot. The returned league is ready for
// constraints.Build.
func BuildLeague(cfg *config.Config) (*league.League, error) {
	lg := league.New()

	entries, err := ReadClubEntryWorkbook(cfg.ClubEntryWorkbook)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		name, teams, avail, err := ReadClubWorkbook(entry.WorkbookPath)
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = entry.Name
		}

		clubID, err := lg.AddClub(name)
		if err != nil {
			return nil, err
		}

		teamIDByGroup := make(map[string][]league.TeamID)
		for _, te := range teams {
			teamID, err := lg.AddTeam(clubID, te.LeagueName, te.Rank, te.AvailabilityGroup)
			if err != nil {
				return nil, err
			}
			teamIDByGroup[te.AvailabilityGroup] = append(teamIDByGroup[te.AvailabilityGroup], teamID)
		}

		if err := addCourtSlots(lg, clubID, cfg.SeasonAnchor.Time, avail, teamIDByGroup); err != nil {
			return nil, err
		}
	}

	divisions, err := ReadPreviousDivisionWorkbook(cfg.PreviousDivisionWorkbook)
	if err != nil {
		return nil, err
	}
	for i := range lg.Teams {
		t := league.TeamID(i)
		div, ok := divisions[lg.TeamName(t)]
		if !ok {
			return nil, &league.ConfigError{Reason: fmt.Sprintf("team %q is missing from the previous-division table", lg.TeamName(t))}
		}
		lg.SetDivision(t, div)
	}

	if err := lg.GenerateFixtures(); err != nil {
		return nil, err
	}
	return lg, nil
}

// addCourtSlots materializes an availability calendar into Date/CourtSlot
// entities, adding every team whose availability group matches a row's
// Available label to the slots that row creates.
func addCourtSlots(lg *league.League, club league.ClubID, anchor time.Time, avail []AvailabilityRow, teamIDByGroup map[string][]league.TeamID) error {
	for _, row := range avail {
		if strings.EqualFold(row.Available, "Unavailable") || row.ConcurrentMatches <= 0 {
			continue
		}

		dateID, ok := lg.DateByStr(row.DateStr)
		if !ok {
			deltaDays := int(row.Calendar.Sub(anchor).Hours() / 24)
			var err error
			dateID, err = lg.AddDate(row.DateStr, row.LeagueType, row.Weekday, deltaDays, row.Calendar)
			if err != nil {
				return err
			}
		}

		for c := 0; c < row.ConcurrentMatches; c++ {
			slotID, err := lg.AddCourtSlot(club, dateID, c, row.Priority)
			if err != nil {
				return err
			}
			for _, teamID := range teamIDByGroup[row.Available] {
				if err := lg.AddTeamToCourtSlot(slotID, teamID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
