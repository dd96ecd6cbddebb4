package ingest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/crossnet-badminton/bfs/internal/config"
	"github.com/xuri/excelize/v2"
)

func writeClubWorkbook(t *testing.T, dir, filename, clubName string, teams [][]string, avail [][]string) string {
	t.Helper()
	f := excelize.NewFile()

	f.NewSheet("Club Information")
	f.SetSheetRow("Club Information", "A1", &[]string{"Name"})
	f.SetSheetRow("Club Information", "A2", &[]string{clubName})

	f.NewSheet("Teams Entering")
	f.SetSheetRow("Teams Entering", "A1", &[]string{"League Name", "Team Rank", "Availability Group", "Home Nights Required"})
	for i, row := range teams {
		cellRow, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetSheetRow("Teams Entering", cellRow, &row)
	}

	f.NewSheet("Availability")
	f.SetSheetRow("Availability", "A1", &[]string{"Date", "League Type", "Weekday", "Available", "No. Concurrent Matches", "Priority"})
	for i, row := range avail {
		cellRow, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetSheetRow("Availability", cellRow, &row)
	}

	f.DeleteSheet("Sheet1")
	path := filepath.Join(dir, filename)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving club workbook: %v", err)
	}
	return path
}

func writeClubEntryWorkbook(t *testing.T, dir string, entries [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	f.NewSheet("Clubs")
	f.SetSheetRow("Clubs", "A1", &[]string{"Club Name", "Workbook Path"})
	for i, row := range entries {
		cellRow, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetSheetRow("Clubs", cellRow, &row)
	}
	f.DeleteSheet("Sheet1")
	path := filepath.Join(dir, "clubs.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving club entry workbook: %v", err)
	}
	return path
}

func writePreviousDivisionWorkbook(t *testing.T, dir string, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	f.NewSheet("Previous League Organisation")
	f.SetSheetRow("Previous League Organisation", "A1", &[]string{"Team", "New Division"})
	for i, row := range rows {
		cellRow, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetSheetRow("Previous League Organisation", cellRow, &row)
	}
	f.DeleteSheet("Sheet1")
	path := filepath.Join(dir, "divisions.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving previous division workbook: %v", err)
	}
	return path
}

func TestFixTeamName(t *testing.T) {
	cases := map[string]string{
		"X Open A": "X Open A",
		"X Open":   "X Open A",
		"Y Mixed G": "Y Mixed G",
		"Y Mixed":   "Y Mixed A",
	}
	for in, want := range cases {
		if got := FixTeamName(in); got != want {
			t.Errorf("FixTeamName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReadClubWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := writeClubWorkbook(t, dir, "club_a.xlsx", "Club A",
		[][]string{{"Mixed", "A", "Tuesday", "1"}},
		[][]string{{"07-Sep-2026", "Mixed", "Monday", "Tuesday", "2", "Yes"}},
	)

	name, teams, avail, err := ReadClubWorkbook(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Club A" {
		t.Errorf("name = %q, want %q", name, "Club A")
	}
	if len(teams) != 1 || teams[0].LeagueName != "Mixed" || teams[0].Rank != "A" {
		t.Fatalf("teams = %+v", teams)
	}
	if len(avail) != 1 {
		t.Fatalf("avail = %+v", avail)
	}
	a := avail[0]
	if a.ConcurrentMatches != 2 || !a.Priority || a.Available != "Tuesday" {
		t.Errorf("availability row = %+v", a)
	}
	wantCal, _ := time.Parse(dateLayout, "07-Sep-2026")
	if !a.Calendar.Equal(wantCal) {
		t.Errorf("calendar = %v, want %v", a.Calendar, wantCal)
	}
}

func TestBuildLeagueEndToEnd(t *testing.T) {
	dir := t.TempDir()

	clubAPath := writeClubWorkbook(t, dir, "club_a.xlsx", "Club A",
		[][]string{{"Mixed", "A", "TuesdayGroup", "1"}},
		[][]string{{"07-Sep-2026", "Mixed", "Monday", "TuesdayGroup", "1", "No"}},
	)
	clubBPath := writeClubWorkbook(t, dir, "club_b.xlsx", "Club B",
		[][]string{{"Mixed", "A", "WedGroup", "1"}},
		[][]string{{"14-Sep-2026", "Mixed", "Wednesday", "WedGroup", "1", "No"}},
	)
	clubsPath := writeClubEntryWorkbook(t, dir, [][]string{
		{"Club A", clubAPath},
		{"Club B", clubBPath},
	})
	divisionsPath := writePreviousDivisionWorkbook(t, dir, [][]string{
		{"Club A Mixed A", "1"},
		{"Club B Mixed A", "1"},
	})

	cfg := &config.Config{
		LeagueSheetID:            "test",
		ClubEntryWorkbook:        clubsPath,
		PreviousDivisionWorkbook: divisionsPath,
		SeasonAnchor:             config.Date{Time: mustParse("2026-09-01")},
	}

	lg, err := BuildLeague(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lg.Teams) != 2 {
		t.Fatalf("teams = %d, want 2", len(lg.Teams))
	}
	if len(lg.Fixtures) != 2 {
		t.Fatalf("fixtures = %d, want 2 (both directions)", len(lg.Fixtures))
	}
	if len(lg.FCSes) == 0 {
		t.Fatal("expected at least one FCS")
	}
}

func mustParse(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
