// Package config loads the YAML file that points at the season's workbooks
// and carries the solver's tunable rule parameters.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Date is a wrapper around time.Time for YAML date parsing.
type Date struct {
	Time time.Time
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse("2006-01-02", value.Value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value.Value, err)
	}
	d.Time = t
	return nil
}

// Solver carries the season's solver and rule parameters. The C3/C4/C7/C8
// window fields (WeeksSeparatedWindow, WeeksSeparatedBalance, MaxPerPeriod,
// ReversePairSeparationWeeks, AllowedImbalance) are not passed to the
// Constraint Builder, which always uses its own defaults; validation reads
// only WeeksSeparatedWindow and ReversePairSeparationWeeks.
type Solver struct {
	AllowedRunTimeSeconds          int `yaml:"allowed_run_time_seconds"`
	WeeksSeparatedWindow           int `yaml:"weeks_separated_window"`
	WeeksSeparatedBalance          int `yaml:"weeks_separated_balance"`
	MaxPerPeriod                   int `yaml:"max_per_period"`
	ReversePairSeparationWeeks     int `yaml:"reverse_pair_separation_weeks"`
	AllowedImbalance               int `yaml:"allowed_imbalance"`
	NumAllowedIncorrectFixtureWeek int `yaml:"num_allowed_incorrect_fixture_week"`
	NumForcedPrioritisedNights     int `yaml:"num_forced_prioritised_nights"`
}

// AllowedRunTime converts AllowedRunTimeSeconds to a time.Duration, 0
// meaning unbounded.
func (s Solver) AllowedRunTime() time.Duration {
	return time.Duration(s.AllowedRunTimeSeconds) * time.Second
}

// Config is the top-level season configuration: where the season's
// workbooks live, and how the solver should be tuned.
type Config struct {
	LeagueSheetID              string `yaml:"league_sheet_id"`
	SeasonAnchor               Date   `yaml:"season_anchor"`
	ClubEntryWorkbook          string `yaml:"club_entry_workbook"`
	PreviousDivisionWorkbook   string `yaml:"previous_division_workbook"`
	PredefinedFixturesWorkbook string `yaml:"predefined_fixtures_workbook"`
	CacheDir                   string `yaml:"cache_dir"`
	Solver                     Solver `yaml:"solver"`
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) applyDefaults() {
	if c.CacheDir == "" {
		c.CacheDir = ".bfs-cache"
	}
}

func (c *Config) validate() error {
	if c.LeagueSheetID == "" {
		return fmt.Errorf("league_sheet_id is required")
	}
	if c.ClubEntryWorkbook == "" {
		return fmt.Errorf("club_entry_workbook is required")
	}
	if c.PreviousDivisionWorkbook == "" {
		return fmt.Errorf("previous_division_workbook is required")
	}
	if c.SeasonAnchor.Time.IsZero() {
		return fmt.Errorf("season_anchor is required")
	}
	if c.Solver.AllowedRunTimeSeconds < 0 {
		return fmt.Errorf("solver.allowed_run_time_seconds must not be negative")
	}
	if c.Solver.NumAllowedIncorrectFixtureWeek < 0 {
		return fmt.Errorf("solver.num_allowed_incorrect_fixture_week must not be negative")
	}
	if c.Solver.NumForcedPrioritisedNights < 0 {
		return fmt.Errorf("solver.num_forced_prioritised_nights must not be negative")
	}
	return nil
}
