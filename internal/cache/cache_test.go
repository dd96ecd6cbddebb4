package cache

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/crossnet-badminton/bfs/internal/league"
)

func buildTestLeague(t *testing.T) *league.League {
	t.Helper()
	lg := league.New()

	club, err := lg.AddClub("Club A")
	if err != nil {
		t.Fatalf("AddClub: %v", err)
	}
	team, err := lg.AddTeam(club, "Mixed", "A", "Tuesday")
	if err != nil {
		t.Fatalf("AddTeam: %v", err)
	}
	lg.SetDivision(team, 1)

	date, err := lg.AddDate("07-Sep-2026", "Mixed", "Monday", 0, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("AddDate: %v", err)
	}
	slot, err := lg.AddCourtSlot(club, date, 0, false)
	if err != nil {
		t.Fatalf("AddCourtSlot: %v", err)
	}
	if err := lg.AddTeamToCourtSlot(slot, team); err != nil {
		t.Fatalf("AddTeamToCourtSlot: %v", err)
	}

	return lg
}

func TestStoreAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	lg := buildTestLeague(t)
	Store(lg, dir, "season-2026", logger)

	loaded, ok := Load(dir, "season-2026", logger)
	if !ok {
		t.Fatal("expected cache hit after Store")
	}
	if len(loaded.Clubs) != 1 || loaded.Clubs[0].Name != "Club A" {
		t.Fatalf("clubs = %+v", loaded.Clubs)
	}

	teamID, ok := loaded.TeamByName("Club A Mixed A")
	if !ok {
		t.Fatal("expected TeamByName to resolve after RebuildIndex")
	}
	if loaded.Teams[teamID].Division != 1 {
		t.Errorf("division = %d, want 1", loaded.Teams[teamID].Division)
	}

	if _, ok := loaded.DateByStr("07-Sep-2026"); !ok {
		t.Error("expected DateByStr to resolve after RebuildIndex")
	}
}

func TestLoadMissReturnsFalse(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	if _, ok := Load(dir, "does-not-exist", logger); ok {
		t.Error("expected cache miss for nonexistent file")
	}
}

func TestLoadCorruptFileReturnsFalse(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	path := Path(dir, "bad")
	if err := os.WriteFile(path, []byte("not a gob stream"), 0o644); err != nil {
		t.Fatalf("writing corrupt cache file: %v", err)
	}

	if _, ok := Load(dir, "bad", logger); ok {
		t.Error("expected cache miss for corrupt file")
	}
}

func TestStoreLoadDeepCopyIndependence(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	lg := buildTestLeague(t)
	Store(lg, dir, "season-2026", logger)

	first, _ := Load(dir, "season-2026", logger)
	second, _ := Load(dir, "season-2026", logger)

	first.Clubs[0].Name = "Mutated"
	if second.Clubs[0].Name == "Mutated" {
		t.Error("Load must return independent copies, not shared state")
	}
}

func TestInvalidate(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	lg := buildTestLeague(t)
	Store(lg, dir, "season-2026", logger)

	if err := Invalidate(dir, "season-2026"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok := Load(dir, "season-2026", logger); ok {
		t.Error("expected cache miss after Invalidate")
	}
	if err := Invalidate(dir, "season-2026"); err != nil {
		t.Errorf("Invalidate on missing file should be a no-op, got: %v", err)
	}
}
