package constraints

import "time"

// PredefinedFixture pins one (home, away) fixture to a specific date ahead
// of solving (C13).
type PredefinedFixture struct {
	HomeTeam string
	AwayTeam string
	DateStr  string
}

// Params carries the caller-supplied knobs the scheduling entrypoint takes
// as keyword arguments rather than fixed constants. The window/imbalance
// fields mirror the rule parameters' default values (2, 6, 2, 6, 1); they
// are exposed here, rather than kept as package constants, so the config
// layer can tune them per-season without touching the constraint functions
// themselves. withDefaults fills in those defaults when a caller leaves
// them at zero.
type Params struct {
	// NumAllowedIncorrect is C11's num_allowed_incorrect (default 0).
	NumAllowedIncorrect int
	// NumForced is C12's num_forced (default 0).
	NumForced int
	// PredefinedFixtures is C13's external pre-committed triples.
	PredefinedFixtures []PredefinedFixture
	// CurrentDay is C13's cutoff: FCSes on or before this day that are not
	// part of a predefined triple are forced unscheduled.
	CurrentDay time.Time

	// WeeksSeparatedC3 is C3's rolling-window width (default 2).
	WeeksSeparatedC3 int
	// WeeksSeparatedC4 is C4's rolling-window width (default 6).
	WeeksSeparatedC4 int
	// MaxPerPeriodC4 is C4's per-window home/away cap (default 2).
	MaxPerPeriodC4 int
	// WeeksSeparatedC8 is C8's reverse-pair separation window (default 6).
	WeeksSeparatedC8 int
	// AllowedImbalanceC7 is C7's home/away imbalance tolerance (default 1).
	AllowedImbalanceC7 int
}

// withDefaults fills in the fixed rule parameters for any field left at
// its zero value, so a Params{} built without config still reproduces the
// documented default behavior.
func (p Params) withDefaults() Params {
	if p.WeeksSeparatedC3 == 0 {
		p.WeeksSeparatedC3 = 2
	}
	if p.WeeksSeparatedC4 == 0 {
		p.WeeksSeparatedC4 = 6
	}
	if p.MaxPerPeriodC4 == 0 {
		p.MaxPerPeriodC4 = 2
	}
	if p.WeeksSeparatedC8 == 0 {
		p.WeeksSeparatedC8 = 6
	}
	if p.AllowedImbalanceC7 == 0 {
		p.AllowedImbalanceC7 = 1
	}
	return p
}
