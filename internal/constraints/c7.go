package constraints

import (
	"fmt"

	"github.com/crossnet-badminton/bfs/internal/league"
)

func terms(vars []string, coef int64) []Term {
	out := make([]Term, len(vars))
	for i, v := range vars {
		out[i] = Term{Var: v, Coef: coef}
	}
	return out
}

// addC7 — home/away balance pre- and post-Christmas, allowed_imbalance = 1,
// plus Σpre ≤ Σpost (more matches scheduled after Christmas than before).
// Expressed over ±1 coefficients rather than absolute value, since every
// variable is boolean: |a-b| ≤ 1 is equivalent to (a-b ≤ 1) ∧ (b-a ≤ 1).
func (b *Builder) addC7() {
	wXmas := b.lg.ChristmasWeek()
	imbalance := int64(b.p.AllowedImbalanceC7)

	for ti := range b.lg.Teams {
		t := league.TeamID(ti)
		team := &b.lg.Teams[t]

		var preHome, postHome, preAway, postAway []string
		for _, fx := range team.HomeFixtures {
			for _, id := range b.lg.FCSesForFixture(fx) {
				v := b.var_(id)
				if b.lg.FCSWeek(id) <= wXmas {
					preHome = append(preHome, v)
				} else {
					postHome = append(postHome, v)
				}
			}
		}
		for _, fx := range team.AwayFixtures {
			for _, id := range b.lg.FCSesForFixture(fx) {
				v := b.var_(id)
				if b.lg.FCSWeek(id) <= wXmas {
					preAway = append(preAway, v)
				} else {
					postAway = append(postAway, v)
				}
			}
		}

		b.addSignedDiff(fmt.Sprintf("C7-team-%d-pre-home-minus-away", t), preHome, preAway, imbalance)
		b.addSignedDiff(fmt.Sprintf("C7-team-%d-pre-away-minus-home", t), preAway, preHome, imbalance)
		b.addSignedDiff(fmt.Sprintf("C7-team-%d-post-home-minus-away", t), postHome, postAway, imbalance)
		b.addSignedDiff(fmt.Sprintf("C7-team-%d-post-away-minus-home", t), postAway, postHome, imbalance)

		var pre, post []string
		pre = append(append(pre, preHome...), preAway...)
		post = append(append(post, postHome...), postAway...)
		b.addSignedDiff(fmt.Sprintf("C7-team-%d-pre-minus-post", t), pre, post, 0)
	}
}

// addSignedDiff emits Σplus - Σminus ≤ bound.
func (b *Builder) addSignedDiff(name string, plus, minus []string, bound int64) {
	if len(plus) == 0 && len(minus) == 0 {
		return
	}
	lc := LinearConstraint{Name: name, Op: AtMost, Bound: bound}
	lc.Terms = append(lc.Terms, terms(plus, 1)...)
	lc.Terms = append(lc.Terms, terms(minus, -1)...)
	b.m.add(lc)
}
