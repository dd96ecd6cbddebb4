// Package cache best-effort persists an ingested league.League to disk so a
// re-run against the same league_sheet_id can skip re-reading every
// workbook. It is purely a speedup: a missing or corrupt cache file is
// logged and treated as a cache miss, never a fatal error.
package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/crossnet-badminton/bfs/internal/league"
	"github.com/tiendc/go-deepcopy"
)

// Path returns the cache file for a given league_sheet_id under dir.
func Path(dir, leagueSheetID string) string {
	return filepath.Join(dir, leagueSheetID+".gob")
}

// Store gob-encodes lg and writes it to Path(dir, leagueSheetID). Failures
// are logged and swallowed: the cache is never authoritative.
func Store(lg *league.League, dir, leagueSheetID string, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("cache: creating cache directory failed", "dir", dir, "error", err)
		return
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(lg); err != nil {
		logger.Warn("cache: encoding league failed", "error", err)
		return
	}

	path := Path(dir, leagueSheetID)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		logger.Warn("cache: writing cache file failed", "path", path, "error", err)
		return
	}
	logger.Info("cache: stored league", "path", path)
}

// Load reads and gob-decodes the cached league for leagueSheetID, returning
// a deep copy so the caller never shares state with a value that might be
// mutated elsewhere. ok is false on any miss or decode failure — the
// caller should fall back to re-ingesting from the workbooks.
func Load(dir, leagueSheetID string, logger *slog.Logger) (lg *league.League, ok bool) {
	if logger == nil {
		logger = slog.Default()
	}

	path := Path(dir, leagueSheetID)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("cache: reading cache file failed", "path", path, "error", err)
		}
		return nil, false
	}

	var decoded league.League
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&decoded); err != nil {
		logger.Warn("cache: decoding cache file failed", "path", path, "error", err)
		return nil, false
	}

	var copied league.League
	if err := deepcopy.Copy(&copied, &decoded); err != nil {
		logger.Warn("cache: deep-copying cached league failed", "path", path, "error", err)
		return nil, false
	}

	copied.RebuildIndex()

	logger.Info("cache: loaded league", "path", path)
	return &copied, true
}

// Invalidate removes the cache file for leagueSheetID, if any. Used when a
// workbook changes and the caller wants to force a re-ingest.
func Invalidate(dir, leagueSheetID string) error {
	path := Path(dir, leagueSheetID)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cache file %s: %w", path, err)
	}
	return nil
}
