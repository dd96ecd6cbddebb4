// Package emit writes the season's output workbooks: header styling,
// explicit column widths, one sheet per logical table.
package emit

import (
	"fmt"

	"github.com/crossnet-badminton/bfs/internal/league"
	"github.com/xuri/excelize/v2"
)

// Generate builds the Match Fixture Slots, Match Fixture Slots By Team, and
// Teams Entered sheets for the season's output workbook.
func Generate(lg *league.League) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetDefaultFont("Arial")

	if err := writeMatchFixtureSlots(f, lg); err != nil {
		return nil, fmt.Errorf("writing Match Fixture Slots: %w", err)
	}
	if err := writeMatchFixtureSlotsByTeam(f, lg); err != nil {
		return nil, fmt.Errorf("writing Match Fixture Slots By Team: %w", err)
	}
	if err := writeTeamsEntered(f, lg); err != nil {
		return nil, fmt.Errorf("writing Teams Entered: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func headerStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 12, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return style
}

func writeHeader(f *excelize.File, sheet string, headers []string) {
	style := headerStyle(f)
	for i, h := range headers {
		ref := cellRef(i+1, 1)
		f.SetCellValue(sheet, ref, h)
		if style != 0 {
			f.SetCellStyle(sheet, ref, ref, style)
		}
	}
}

func setColWidths(f *excelize.File, sheet string, widths []float64) {
	for i, w := range widths {
		col := colLetter(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
}

var matchFixtureSlotsHeaders = []string{
	"Home Team", "Away Team", "Date", "Court No.", "is_scheduled",
	"League", "Division", "Home Club", "Away Club", "Is Correct Week",
}

func writeMatchFixtureSlots(f *excelize.File, lg *league.League) error {
	sheet := "Match Fixture Slots"
	f.NewSheet(sheet)
	writeHeader(f, sheet, matchFixtureSlotsHeaders)

	for i, fcs := range lg.FCSes {
		row := i + 2
		fx := lg.Fixtures[fcs.Fixture]
		cs := lg.CourtSlots[fcs.CourtSlot]
		date := lg.Dates[cs.Date]
		home, away := lg.Teams[fx.Home], lg.Teams[fx.Away]

		values := []any{
			lg.TeamName(fx.Home),
			lg.TeamName(fx.Away),
			date.DateStr,
			cs.ConcurrencyIndex + 1,
			boolToFlag(fcs.IsScheduled),
			fx.League,
			fx.Division,
			lg.Clubs[home.Club].Name,
			lg.Clubs[away.Club].Name,
			fcs.IsCorrectWeek,
		}
		for ci, v := range values {
			f.SetCellValue(sheet, cellRef(ci+1, row), v)
		}
	}

	setColWidths(f, sheet, []float64{22, 22, 16, 10, 12, 12, 10, 18, 18, 14})
	return nil
}

var matchFixtureSlotsByTeamHeaders = []string{
	"Team", "Home/Away", "Opponent", "Date", "Court No.", "is_scheduled", "League", "Division",
}

func writeMatchFixtureSlotsByTeam(f *excelize.File, lg *league.League) error {
	sheet := "Match Fixture Slots By Team"
	f.NewSheet(sheet)
	writeHeader(f, sheet, matchFixtureSlotsByTeamHeaders)

	row := 2
	for _, fcs := range lg.FCSes {
		fx := lg.Fixtures[fcs.Fixture]
		cs := lg.CourtSlots[fcs.CourtSlot]
		date := lg.Dates[cs.Date]

		rows := [][]any{
			{lg.TeamName(fx.Home), "Home", lg.TeamName(fx.Away), date.DateStr, cs.ConcurrencyIndex + 1, boolToFlag(fcs.IsScheduled), fx.League, fx.Division},
			{lg.TeamName(fx.Away), "Away", lg.TeamName(fx.Home), date.DateStr, cs.ConcurrencyIndex + 1, boolToFlag(fcs.IsScheduled), fx.League, fx.Division},
		}
		for _, values := range rows {
			for ci, v := range values {
				f.SetCellValue(sheet, cellRef(ci+1, row), v)
			}
			row++
		}
	}

	setColWidths(f, sheet, []float64{22, 12, 22, 16, 10, 12, 12, 10})
	return nil
}

var teamsEnteredHeaders = []string{"League", "Club", "Rank"}

func writeTeamsEntered(f *excelize.File, lg *league.League) error {
	sheet := "Teams Entered"
	f.NewSheet(sheet)
	writeHeader(f, sheet, teamsEnteredHeaders)

	for i := range lg.Teams {
		t := &lg.Teams[i]
		row := i + 2
		values := []any{t.League, lg.Clubs[t.Club].Name, t.Rank}
		for ci, v := range values {
			f.SetCellValue(sheet, cellRef(ci+1, row), v)
		}
	}

	setColWidths(f, sheet, []float64{14, 22, 8})
	return nil
}

func boolToFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
