package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/crossnet-badminton/bfs/internal/cache"
	"github.com/crossnet-badminton/bfs/internal/config"
	"github.com/crossnet-badminton/bfs/internal/constraints"
	"github.com/crossnet-badminton/bfs/internal/ingest"
	"github.com/crossnet-badminton/bfs/internal/league"
	"github.com/crossnet-badminton/bfs/internal/schedule"
	"github.com/crossnet-badminton/bfs/internal/validate"
)

const defaultConfigFile = "config.yaml"

func resolveConfigPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory or pass the path as an argument", defaultConfigFile)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "bfs",
		Short: "Badminton league fixture scheduler",
	}

	var outputFile string
	var predefinedFixturesOverride string
	var allowedRunTimeFlag time.Duration
	var numAllowedIncorrect int
	var numForcedPrioritised int
	var noWrite bool

	scheduleCmd := &cobra.Command{
		Use:          "schedule [config.yaml]",
		Short:        "Ingest the season's workbooks and generate a fixture schedule",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(args)
			if err != nil {
				return err
			}
			return runSchedule(configPath, scheduleFlags{
				outputFile:            outputFile,
				predefinedFixturesOvr: predefinedFixturesOverride,
				allowedRunTime:        allowedRunTimeFlag,
				numAllowedIncorrect:   numAllowedIncorrect,
				numForcedPrioritised:  numForcedPrioritised,
				writeOutput:           !noWrite,
			})
		},
	}
	scheduleCmd.Flags().StringVarP(&outputFile, "output", "o", "schedule.xlsx", "output workbook path")
	scheduleCmd.Flags().StringVar(&predefinedFixturesOverride, "predefined-fixtures", "", "predefined fixtures workbook path, overriding config")
	scheduleCmd.Flags().DurationVar(&allowedRunTimeFlag, "allowed-run-time", 0, "solver wall-clock budget, overriding config (e.g. 2m)")
	scheduleCmd.Flags().IntVar(&numAllowedIncorrect, "num-allowed-incorrect-fixture-week", -1, "C11 tolerance, overriding config")
	scheduleCmd.Flags().IntVar(&numForcedPrioritised, "num-forced-prioritised-nights", -1, "C12 floor, overriding config")
	scheduleCmd.Flags().BoolVar(&noWrite, "no-write", false, "solve without writing the output workbook")

	validateCmd := &cobra.Command{
		Use:          "validate [config.yaml] <schedule.xlsx>",
		Short:        "Re-check an emitted or hand-edited schedule workbook against the scheduling rules",
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				return runValidate(args[0], args[1])
			}
			configPath, err := resolveConfigPath(nil)
			if err != nil {
				return err
			}
			return runValidate(configPath, args[0])
		},
	}

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter config.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "output path for the config file")

	relaxCmd := &cobra.Command{
		Use:          "relax [config.yaml]",
		Short:        "Search for the smallest rule relaxation that reaches a feasible schedule",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(args)
			if err != nil {
				return err
			}
			return runRelax(configPath)
		},
	}

	rootCmd.AddCommand(scheduleCmd, validateCmd, initCmd, relaxCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}
	if err := os.WriteFile(outputPath, []byte(configTemplate), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

const configTemplate = `# Badminton Fixture Scheduler Season Configuration
# =================================================
# This file names the season's workbooks and tunes the solver's rules.

league_sheet_id: "crossnet-2026-27"

# season_anchor is day zero for every date's week-number math.
season_anchor: "2026-09-07"

club_entry_workbook: "workbooks/club_entries.xlsx"
previous_division_workbook: "workbooks/previous_divisions.xlsx"

# predefined_fixtures_workbook is optional: pins specific fixtures to
# specific dates ahead of solving (C13). Leave blank if unused.
predefined_fixtures_workbook: ""

# cache_dir holds a gob-encoded copy of the ingested league, keyed by
# league_sheet_id, so a re-run can skip re-reading every workbook.
cache_dir: ".bfs-cache"

solver:
  # allowed_run_time_seconds bounds the solver's wall-clock budget.
  # 0 means unbounded (subject to the solver's own restart count).
  allowed_run_time_seconds: 120

  # The next five settings are not passed to the constraint builder:
  # "bfs schedule" always builds C3, C4, C7 and C8 with the values shown
  # here. "bfs validate" reads weeks_separated_window and
  # reverse_pair_separation_weeks.
  #
  # weeks_separated_window is C3's rolling no-repeat window for a team.
  weeks_separated_window: 2
  # weeks_separated_balance is C4's home/away balance window.
  weeks_separated_balance: 6
  # max_per_period is C4's per-window home or away cap.
  max_per_period: 2
  # reverse_pair_separation_weeks is C8's minimum gap between the two
  # legs of an inter-club fixture.
  reverse_pair_separation_weeks: 6
  # allowed_imbalance is C7's tolerance for a team's home/away imbalance.
  allowed_imbalance: 1

  # num_allowed_incorrect_fixture_week is C11's tolerance for fixtures
  # scheduled outside their league's usual week. Start at 0 and only
  # raise it if the season proves infeasible.
  num_allowed_incorrect_fixture_week: 0
  # num_forced_prioritised_nights is C12's floor on priority-slot usage.
  num_forced_prioritised_nights: 0
`

type scheduleFlags struct {
	outputFile            string
	predefinedFixturesOvr string
	allowedRunTime        time.Duration
	numAllowedIncorrect   int
	numForcedPrioritised  int
	writeOutput           bool
}

func runSchedule(configPath string, flags scheduleFlags) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flags.predefinedFixturesOvr != "" {
		cfg.PredefinedFixturesWorkbook = flags.predefinedFixturesOvr
	}

	logger := slog.Default()

	lg, fromCache := cache.Load(cfg.CacheDir, cfg.LeagueSheetID, logger)
	if !fromCache {
		lg, err = ingest.BuildLeague(cfg)
		if err != nil {
			return fmt.Errorf("ingesting season: %w", err)
		}
		cache.Store(lg, cfg.CacheDir, cfg.LeagueSheetID, logger)
	}

	pf, err := loadPredefinedFixtures(cfg, lg)
	if err != nil {
		return err
	}

	allowedRunTime := cfg.Solver.AllowedRunTime()
	if flags.allowedRunTime > 0 {
		allowedRunTime = flags.allowedRunTime
	}
	numAllowedIncorrect := cfg.Solver.NumAllowedIncorrectFixtureWeek
	if flags.numAllowedIncorrect >= 0 {
		numAllowedIncorrect = flags.numAllowedIncorrect
	}
	numForcedPrioritised := cfg.Solver.NumForcedPrioritisedNights
	if flags.numForcedPrioritised >= 0 {
		numForcedPrioritised = flags.numForcedPrioritised
	}

	fmt.Printf("Scheduling %d fixtures across %d court slots...\n", len(lg.Fixtures), len(lg.CourtSlots))

	status, err := schedule.Schedule(lg, schedule.Options{
		AllowedRunTime:                 allowedRunTime,
		PredefinedFixtures:             pf,
		NumAllowedIncorrectFixtureWeek: numAllowedIncorrect,
		NumForcedPrioritisedNights:     numForcedPrioritised,
		WriteOutput:                    flags.writeOutput,
		OutputPath:                     flags.outputFile,
		Logger:                         logger,
	})
	if err != nil {
		return fmt.Errorf("scheduling: %w", err)
	}

	switch status {
	case "OPTIMAL", "FEASIBLE":
		fmt.Printf("✓ Solver status: %s\n", status)
	default:
		fmt.Printf("✗ Solver status: %s\n", status)
	}

	unscheduled := schedule.UnscheduledFixtures(lg)
	if len(unscheduled) > 0 {
		fmt.Printf("\n⚠ %d fixture(s) not scheduled:\n", len(unscheduled))
		for _, name := range unscheduled {
			fmt.Printf("  ⚠ %s\n", name)
		}
	} else {
		fmt.Println("\n✓ Every fixture was scheduled")
	}

	if flags.writeOutput && (status == "OPTIMAL" || status == "FEASIBLE") {
		fmt.Printf("\n✓ Schedule saved to %s\n", flags.outputFile)
	}

	if status == "INFEASIBLE" || status == "MODEL_INVALID" {
		return fmt.Errorf("solver did not reach a usable schedule (status %s)", status)
	}
	return nil
}

func loadPredefinedFixtures(cfg *config.Config, lg *league.League) ([]constraints.PredefinedFixture, error) {
	if cfg.PredefinedFixturesWorkbook == "" {
		return nil, nil
	}
	pf, err := ingest.ReadPredefinedFixturesWorkbook(cfg.PredefinedFixturesWorkbook, lg)
	if err != nil {
		return nil, fmt.Errorf("reading predefined fixtures: %w", err)
	}
	return pf, nil
}

func runValidate(configPath, schedulePath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	violations, err := validate.Validate(cfg, schedulePath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errors, warnings := 0, 0
	for _, v := range violations {
		switch v.Type {
		case "error":
			errors++
			fmt.Printf("✗ Rule violation: %s\n", v.Message)
		case "warning":
			warnings++
			fmt.Printf("⚠ Guideline violation: %s\n", v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d rule violations, %d guideline violations\n", errors, warnings)
	if errors > 0 {
		return fmt.Errorf("%d constraint violations found", errors)
	}
	return nil
}

func runRelax(configPath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.Default()
	lg, fromCache := cache.Load(cfg.CacheDir, cfg.LeagueSheetID, logger)
	if !fromCache {
		lg, err = ingest.BuildLeague(cfg)
		if err != nil {
			return fmt.Errorf("ingesting season: %w", err)
		}
		cache.Store(lg, cfg.CacheDir, cfg.LeagueSheetID, logger)
	}

	pf, err := loadPredefinedFixtures(cfg, lg)
	if err != nil {
		return err
	}

	allowedRunTime := cfg.Solver.AllowedRunTime()

	fmt.Println("Searching for the smallest num_allowed_incorrect_fixture_week that reaches FEASIBLE...")
	numAllowedIncorrect := 0
	var status string
	for {
		trial := copyLeagueForTrial(lg)
		status, err = schedule.Schedule(trial, schedule.Options{
			AllowedRunTime:                 allowedRunTime,
			PredefinedFixtures:             pf,
			NumAllowedIncorrectFixtureWeek: numAllowedIncorrect,
			NumForcedPrioritisedNights:     0,
			WriteOutput:                    false,
			Logger:                         logger,
		})
		if err != nil {
			return fmt.Errorf("scheduling (num_allowed_incorrect_fixture_week=%d): %w", numAllowedIncorrect, err)
		}
		fmt.Printf("  num_allowed_incorrect_fixture_week=%d -> %s\n", numAllowedIncorrect, status)
		if status == "OPTIMAL" || status == "FEASIBLE" {
			break
		}
		numAllowedIncorrect++
		if numAllowedIncorrect > len(lg.Fixtures) {
			return fmt.Errorf("relaxation search exhausted num_allowed_incorrect_fixture_week without reaching FEASIBLE")
		}
	}

	fmt.Printf("✓ Feasible at num_allowed_incorrect_fixture_week=%d\n", numAllowedIncorrect)
	fmt.Println("Searching for the largest num_forced_prioritised_nights that stays FEASIBLE...")

	numForcedPrioritised := 0
	for {
		trial := copyLeagueForTrial(lg)
		nextStatus, err := schedule.Schedule(trial, schedule.Options{
			AllowedRunTime:                 allowedRunTime,
			PredefinedFixtures:             pf,
			NumAllowedIncorrectFixtureWeek: numAllowedIncorrect,
			NumForcedPrioritisedNights:     numForcedPrioritised + 1,
			WriteOutput:                    false,
			Logger:                         logger,
		})
		if err != nil {
			return fmt.Errorf("scheduling (num_forced_prioritised_nights=%d): %w", numForcedPrioritised+1, err)
		}
		fmt.Printf("  num_forced_prioritised_nights=%d -> %s\n", numForcedPrioritised+1, nextStatus)
		if nextStatus != "OPTIMAL" && nextStatus != "FEASIBLE" {
			break
		}
		numForcedPrioritised++
	}

	fmt.Printf("\n✓ Relaxation settled on num_allowed_incorrect_fixture_week=%d, num_forced_prioritised_nights=%d\n",
		numAllowedIncorrect, numForcedPrioritised)
	return nil
}

// copyLeagueForTrial resets every FCS's scheduled flag so each relaxation
// attempt re-solves from scratch, never incrementally editing a prior
// attempt's partial assignment.
func copyLeagueForTrial(lg *league.League) *league.League {
	clone := *lg
	clone.FCSes = make([]league.FCS, len(lg.FCSes))
	copy(clone.FCSes, lg.FCSes)
	for i := range clone.FCSes {
		clone.FCSes[i].IsScheduled = false
	}
	return &clone
}
