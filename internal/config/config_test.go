package config

import (
	"testing"
	"time"
)

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

const testConfigYAML = `
league_sheet_id: "crossnet-2026-27"
season_anchor: "2026-09-07"
club_entry_workbook: "workbooks/club_entries.xlsx"
previous_division_workbook: "workbooks/previous_divisions.xlsx"
predefined_fixtures_workbook: "workbooks/predefined_fixtures.xlsx"
cache_dir: ".bfs-cache"

solver:
  allowed_run_time_seconds: 120
  weeks_separated_window: 2
  weeks_separated_balance: 6
  max_per_period: 2
  reverse_pair_separation_weeks: 6
  allowed_imbalance: 1
  num_allowed_incorrect_fixture_week: 0
  num_forced_prioritised_nights: 0
`

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(testConfigYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("identity and workbooks", func(t *testing.T) {
		if cfg.LeagueSheetID != "crossnet-2026-27" {
			t.Errorf("league sheet id = %q, want %q", cfg.LeagueSheetID, "crossnet-2026-27")
		}
		if cfg.SeasonAnchor.Time != mustDate("2026-09-07") {
			t.Errorf("season anchor = %v, want 2026-09-07", cfg.SeasonAnchor.Time)
		}
		if cfg.ClubEntryWorkbook != "workbooks/club_entries.xlsx" {
			t.Errorf("club entry workbook = %q", cfg.ClubEntryWorkbook)
		}
		if cfg.PreviousDivisionWorkbook != "workbooks/previous_divisions.xlsx" {
			t.Errorf("previous division workbook = %q", cfg.PreviousDivisionWorkbook)
		}
		if cfg.PredefinedFixturesWorkbook != "workbooks/predefined_fixtures.xlsx" {
			t.Errorf("predefined fixtures workbook = %q", cfg.PredefinedFixturesWorkbook)
		}
	})

	t.Run("solver", func(t *testing.T) {
		if cfg.Solver.AllowedRunTime() != 120*time.Second {
			t.Errorf("allowed run time = %v, want 120s", cfg.Solver.AllowedRunTime())
		}
		if cfg.Solver.WeeksSeparatedWindow != 2 {
			t.Errorf("weeks separated window = %d, want 2", cfg.Solver.WeeksSeparatedWindow)
		}
		if cfg.Solver.ReversePairSeparationWeeks != 6 {
			t.Errorf("reverse pair separation weeks = %d, want 6", cfg.Solver.ReversePairSeparationWeeks)
		}
	})
}

func TestLoadConfigCacheDirDefaulted(t *testing.T) {
	yaml := `
league_sheet_id: "crossnet-2026-27"
season_anchor: "2026-09-07"
club_entry_workbook: "workbooks/club_entries.xlsx"
previous_division_workbook: "workbooks/previous_divisions.xlsx"
`
	cfg, err := LoadFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CacheDir != ".bfs-cache" {
		t.Errorf("cache dir = %q, want default %q", cfg.CacheDir, ".bfs-cache")
	}
}

func TestLoadConfigValidation(t *testing.T) {
	t.Run("missing league sheet id", func(t *testing.T) {
		yaml := `
season_anchor: "2026-09-07"
club_entry_workbook: "workbooks/club_entries.xlsx"
previous_division_workbook: "workbooks/previous_divisions.xlsx"
`
		_, err := LoadFromBytes([]byte(yaml))
		if err == nil {
			t.Error("expected error for missing league_sheet_id")
		}
	})

	t.Run("missing season anchor", func(t *testing.T) {
		yaml := `
league_sheet_id: "crossnet-2026-27"
club_entry_workbook: "workbooks/club_entries.xlsx"
previous_division_workbook: "workbooks/previous_divisions.xlsx"
`
		_, err := LoadFromBytes([]byte(yaml))
		if err == nil {
			t.Error("expected error for missing season_anchor")
		}
	})

	t.Run("missing club entry workbook", func(t *testing.T) {
		yaml := `
league_sheet_id: "crossnet-2026-27"
season_anchor: "2026-09-07"
previous_division_workbook: "workbooks/previous_divisions.xlsx"
`
		_, err := LoadFromBytes([]byte(yaml))
		if err == nil {
			t.Error("expected error for missing club_entry_workbook")
		}
	})

	t.Run("negative allowed run time", func(t *testing.T) {
		yaml := `
league_sheet_id: "crossnet-2026-27"
season_anchor: "2026-09-07"
club_entry_workbook: "workbooks/club_entries.xlsx"
previous_division_workbook: "workbooks/previous_divisions.xlsx"
solver:
  allowed_run_time_seconds: -1
`
		_, err := LoadFromBytes([]byte(yaml))
		if err == nil {
			t.Error("expected error for negative allowed_run_time_seconds")
		}
	})
}
