package constraints

import "fmt"

// addC1 — one slot per fixture: Σ_{fcs∈f} x[fcs] ≤ 1, for every fixture.
func (b *Builder) addC1() {
	for _, fx := range b.lg.Fixtures {
		if len(fx.FixtureCourtSlots) == 0 {
			continue // vacuously true; surfaces later as a zero-sum fixture
		}
		vars := varsOf(b.lg, fx.FixtureCourtSlots)
		b.m.add(Sum(fmt.Sprintf("C1-fixture-%s", b.lg.FixtureName(fx.ID)), vars, AtMost, 1))
	}
}

// addC2 — one fixture per court slot: Σ_{fcs∈c} x[fcs] ≤ 1, for every court slot.
func (b *Builder) addC2() {
	for _, cs := range b.lg.CourtSlots {
		if len(cs.FixtureCourtSlots) == 0 {
			continue
		}
		vars := varsOf(b.lg, cs.FixtureCourtSlots)
		b.m.add(Sum(fmt.Sprintf("C2-courtslot-%d", cs.ID), vars, AtMost, 1))
	}
}
