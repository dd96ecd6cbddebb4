// Package schedule composes the constraint builder, objective, and solver
// driver into the single entrypoint the CLI and the relaxation search call:
// build the model, solve it, and (on success) emit the output workbook.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crossnet-badminton/bfs/internal/constraints"
	"github.com/crossnet-badminton/bfs/internal/emit"
	"github.com/crossnet-badminton/bfs/internal/league"
	"github.com/crossnet-badminton/bfs/internal/objective"
	"github.com/crossnet-badminton/bfs/internal/solver"
)

// Options configures one scheduling run. It carries the rule-tuning knobs
// exposed as keyword arguments, plus whether and where to write the output
// workbook.
type Options struct {
	// AllowedRunTime bounds the solver's wall-clock budget; 0 means
	// unbounded (subject to the solver's own MaxAttempts default).
	AllowedRunTime time.Duration
	// PredefinedFixtures pins specific fixtures to specific dates (C13).
	PredefinedFixtures []constraints.PredefinedFixture
	// CurrentDay is C13's cutoff: FCSes on or before this day that are not
	// part of a predefined triple are forced unscheduled. Zero means no
	// cutoff.
	CurrentDay time.Time
	// NumAllowedIncorrectFixtureWeek is C11's tolerance for fixtures
	// scheduled in the wrong week.
	NumAllowedIncorrectFixtureWeek int
	// NumForcedPrioritisedNights is C12's floor on priority-slot usage.
	NumForcedPrioritisedNights int
	// WriteOutput writes the Match Fixture Slots workbook to OutputPath
	// when the run reaches OPTIMAL or FEASIBLE.
	WriteOutput bool
	// OutputPath is where the output workbook is written; defaults to
	// "schedule.xlsx" when WriteOutput is set and OutputPath is empty.
	OutputPath string
	// Logger receives the solver's incumbent-improvement records.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.OutputPath == "" {
		o.OutputPath = "schedule.xlsx"
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Schedule builds the constraint model and objective for lg, runs the
// solver, and (when requested and the run succeeds) writes the output
// workbook. It mutates lg's FCS.IsScheduled in place for the winning
// attempt, so the caller can walk lg.Fixtures after return to report which
// fixtures, if any, were left unscheduled.
//
// Schedule never returns an error for an unsatisfiable or under-specified
// model -- INFEASIBLE, UNKNOWN, and MODEL_INVALID are reported as the
// status string, not as an error. A non-nil error here means the output
// workbook could not be written.
func Schedule(lg *league.League, opts Options) (status string, err error) {
	opts = opts.withDefaults()

	p := constraints.Params{
		NumAllowedIncorrect: opts.NumAllowedIncorrectFixtureWeek,
		NumForced:           opts.NumForcedPrioritisedNights,
		PredefinedFixtures:  opts.PredefinedFixtures,
		CurrentDay:          opts.CurrentDay,
	}
	m := constraints.Build(lg, p)
	obj := objective.Build(lg, m)

	result := solver.Schedule(context.Background(), lg, m, obj, solver.Options{
		AllowedRunTime: opts.AllowedRunTime,
		Logger:         opts.Logger,
	})

	if !opts.WriteOutput {
		return result.Status, nil
	}
	if result.Status != solver.StatusOptimal && result.Status != solver.StatusFeasible {
		return result.Status, nil
	}

	f, genErr := emit.Generate(lg)
	if genErr != nil {
		return result.Status, fmt.Errorf("generating output workbook: %w", genErr)
	}
	if saveErr := f.SaveAs(opts.OutputPath); saveErr != nil {
		return result.Status, fmt.Errorf("writing output workbook %s: %w", opts.OutputPath, saveErr)
	}

	return result.Status, nil
}

// UnscheduledFixtures returns the display name of every fixture with no
// scheduled FCS, in fixture order, for the caller to report after a run
// that did not reach full coverage.
func UnscheduledFixtures(lg *league.League) []string {
	var names []string
	for i := range lg.Fixtures {
		fx := &lg.Fixtures[i]
		covered := false
		for _, fcsID := range fx.FixtureCourtSlots {
			if lg.FCSByID(fcsID).IsScheduled {
				covered = true
				break
			}
		}
		if !covered {
			names = append(names, lg.FixtureName(fx.ID))
		}
	}
	return names
}
