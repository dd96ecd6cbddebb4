// Package solver runs a randomized multi-restart constructive search
// against a declarative constraints.Model and objective.Objective instead
// of hand-written per-rule hard/soft constraint functions: shuffle,
// greedily assign the lowest-scoring legal option, keep the best of
// several restarts.
package solver

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/crossnet-badminton/bfs/internal/constraints"
	"github.com/crossnet-badminton/bfs/internal/league"
	"github.com/crossnet-badminton/bfs/internal/objective"
)

const (
	StatusOptimal      = "OPTIMAL"
	StatusFeasible     = "FEASIBLE"
	StatusInfeasible   = "INFEASIBLE"
	StatusUnknown      = "UNKNOWN"
	StatusModelInvalid = "MODEL_INVALID"
)

// Options configures one Schedule run.
type Options struct {
	// MaxAttempts bounds the number of construction+repair restarts.
	// Defaults to 10.
	MaxAttempts int
	// BaseSeed seeds attempt 0; attempt i uses rand.NewSource(BaseSeed+i).
	// Defaults to 42.
	BaseSeed int64
	// AllowedRunTime bounds the whole run; 0 means unbounded (MaxAttempts
	// still applies).
	AllowedRunTime time.Duration
	// Logger receives one Info record per improving incumbent. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts == 0 {
		o.MaxAttempts = 10
	}
	if o.BaseSeed == 0 {
		o.BaseSeed = 42
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Result is the outcome of one Schedule run.
type Result struct {
	Status         string
	ObjectiveValue int64
	BestBound      int64
	Attempts       int
	Elapsed        time.Duration
	Selected       []string // FCS identifiers scheduled in the winning attempt
}

// Schedule runs the construction+repair search against m and obj, writing
// FCS.IsScheduled back onto lg for the winning attempt. It never returns an
// error for an unsatisfiable model — INFEASIBLE/UNKNOWN/MODEL_INVALID are
// reported via Result.Status, never returned as an error: a caller asks for
// a schedule, not a go/no-go verdict, so an unsatisfiable model is a normal
// outcome, not a failure. The only Go error is a presolve contradiction (a
// C13 pin conflicting with its own bucket's capacity), reported as
// MODEL_INVALID.
func Schedule(ctx context.Context, lg *league.League, m *constraints.Model, obj objective.Objective, opts Options) *Result {
	opts = opts.withDefaults()
	start := time.Now()

	if opts.AllowedRunTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.AllowedRunTime)
		defer cancel()
	}

	st, err := newSolveState(lg, m, obj)
	if err != nil {
		opts.Logger.Error("solver model invalid", "error", err)
		return &Result{Status: StatusModelInvalid, Elapsed: time.Since(start)}
	}

	found := false
	var bestScore int64
	var bestSelected []string
	attempts := 0

	for i := 0; i < opts.MaxAttempts; i++ {
		if ctx.Err() != nil {
			break
		}
		attempts++

		rng := rand.New(rand.NewSource(opts.BaseSeed + int64(i)))
		a := st.construct(rng)
		st.repair(ctx, a)

		selected := st.collect(a)
		all := make([]string, 0, len(selected)+len(st.fixedSelected))
		all = append(all, st.fixedSelected...)
		all = append(all, selected...)
		score := obj.Score(all)

		if !found || score > bestScore {
			found = true
			bestScore = score
			bestSelected = all
			opts.Logger.Info("solver incumbent",
				"attempt", i,
				"objective", bestScore,
				"best_bound", st.bestBound(),
				"elapsed", time.Since(start))
		}
	}

	elapsed := time.Since(start)
	timedOut := ctx.Err() != nil

	if !found {
		if timedOut {
			return &Result{Status: StatusUnknown, Attempts: attempts, Elapsed: elapsed}
		}
		return &Result{Status: StatusInfeasible, Attempts: attempts, Elapsed: elapsed}
	}

	st.project(bestSelected)
	status := st.deriveStatus(bestSelected, timedOut)

	return &Result{
		Status:         status,
		ObjectiveValue: bestScore,
		BestBound:      st.bestBound(),
		Attempts:       attempts,
		Elapsed:        elapsed,
		Selected:       bestSelected,
	}
}
