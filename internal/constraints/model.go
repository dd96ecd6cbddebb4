// Package constraints translates league scheduling rules (C1-C13 of the
// fixture scheduling rulebook) into a declarative linear model over one
// boolean selection variable per candidate fixture-court-slot (FCS) — the
// same shape a CP-SAT model.Add(sum(coef*var) <= bound) call would produce,
// without requiring a CP-SAT binding.
package constraints

import "fmt"

// Op is the relational operator of a LinearConstraint.
type Op int

const (
	AtMost Op = iota
	AtLeast
	Exactly
)

func (op Op) String() string {
	switch op {
	case AtMost:
		return "<="
	case AtLeast:
		return ">="
	case Exactly:
		return "=="
	default:
		return "?"
	}
}

// Term is one coefficient*var addend of a linear constraint.
type Term struct {
	Var  string
	Coef int64
}

// LinearConstraint is Σ(term.Coef * x[term.Var]) Op Bound, over the boolean
// decision variables x[fcs].
type LinearConstraint struct {
	Name  string // human-readable, used in solver diagnostics
	Terms []Term
	Op    Op
	Bound int64
}

// Sum returns a LinearConstraint with every term at coefficient 1 — the
// common case (C1, C2, C3, C4, C9, C10, C11, C12 are all plain sums).
func Sum(name string, vars []string, op Op, bound int64) LinearConstraint {
	terms := make([]Term, len(vars))
	for i, v := range vars {
		terms[i] = Term{Var: v, Coef: 1}
	}
	return LinearConstraint{Name: name, Terms: terms, Op: op, Bound: bound}
}

// Model is the full declarative constraint set for one scheduling run: the
// set of decision variable names (one per FCS) plus every emitted
// LinearConstraint, in deterministic (C1..C13, then arena) order.
type Model struct {
	VarNames    []string
	Constraints []LinearConstraint
}

func (m *Model) addVar(name string) {
	m.VarNames = append(m.VarNames, name)
}

func (m *Model) add(c LinearConstraint) {
	if len(c.Terms) == 0 {
		return // vacuously satisfied; nothing to enforce
	}
	m.Constraints = append(m.Constraints, c)
}

func (m *Model) String() string {
	return fmt.Sprintf("Model{vars=%d constraints=%d}", len(m.VarNames), len(m.Constraints))
}
