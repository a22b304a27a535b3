// Package milp describes binary integer programs independently of the solver
// that evaluates them. A Model is built once, handed to any Solver
// implementation and can be serialized in CPLEX LP text for auditing.
package milp

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/fantasy-optimizer/pkg/mathutil"
)

// Sense is the optimization direction of a model's objective.
type Sense int

const (
	// Maximize asks the solver for the largest objective value.
	Maximize Sense = iota
	// Minimize asks the solver for the smallest objective value.
	Minimize
)

func (s Sense) String() string {
	if s == Minimize {
		return "Minimize"
	}
	return "Maximize"
}

// Op is the comparison operator of a linear constraint.
type Op int

const (
	// LessEq is expr <= rhs.
	LessEq Op = iota
	// GreaterEq is expr >= rhs.
	GreaterEq
	// Equal is expr == rhs.
	Equal
)

func (o Op) String() string {
	switch o {
	case GreaterEq:
		return ">="
	case Equal:
		return "="
	default:
		return "<="
	}
}

// Var is a handle to a binary decision variable. Its Index is the position in
// Model.Vars and in Result.Values.
type Var struct {
	Index int
	Name  string
}

// Variable holds the definition of a decision variable.
type Variable struct {
	Name string
	// Upper is 1 for a free binary and 0 for a variable fixed out of the model.
	Upper float64
}

// Term is a coefficient applied to a variable.
type Term struct {
	Var   Var
	Coeff float64
}

// LinearExpr is a sum of terms.
type LinearExpr struct {
	Terms []Term
}

// Add appends coeff*v to the expression and returns it. Zero coefficients are
// skipped.
func (e *LinearExpr) Add(v Var, coeff float64) *LinearExpr {
	if coeff == 0 {
		return e
	}
	e.Terms = append(e.Terms, Term{Var: v, Coeff: coeff})
	return e
}

// Constraint is a named linear constraint.
type Constraint struct {
	Name string
	Expr LinearExpr
	Op   Op
	RHS  float64
}

// Satisfied reports whether the constraint holds for the given values within
// tol.
func (c Constraint) Satisfied(values []float64, tol float64) bool {
	lhs := Evaluate(c.Expr, values)
	switch c.Op {
	case LessEq:
		return lhs <= c.RHS+tol
	case GreaterEq:
		return lhs >= c.RHS-tol
	default:
		return math.Abs(lhs-c.RHS) <= tol
	}
}

// Objective is the named expression being optimized.
type Objective struct {
	Name string
	Expr LinearExpr
}

// Model is a binary integer program.
type Model struct {
	Name        string
	Sense       Sense
	Objective   Objective
	Vars        []Variable
	Constraints []Constraint
}

// NewModel returns an empty model.
func NewModel(name string, sense Sense) *Model {
	return &Model{Name: name, Sense: sense}
}

// AddBinary adds a {0,1} variable and returns its handle.
func (m *Model) AddBinary(name string) Var {
	m.Vars = append(m.Vars, Variable{Name: name, Upper: 1})
	return Var{Index: len(m.Vars) - 1, Name: name}
}

// Fix pins a variable to zero.
func (m *Model) Fix(v Var) {
	m.Vars[v.Index].Upper = 0
}

// SetObjective replaces the objective expression.
func (m *Model) SetObjective(name string, expr LinearExpr) {
	m.Objective = Objective{Name: name, Expr: expr}
}

// AddConstraint appends a named constraint.
func (m *Model) AddConstraint(name string, expr LinearExpr, op Op, rhs float64) {
	m.Constraints = append(m.Constraints, Constraint{Name: name, Expr: expr, Op: op, RHS: rhs})
}

// NumVars returns the number of decision variables.
func (m *Model) NumVars() int {
	return len(m.Vars)
}

// Validate checks the model is well formed before it reaches a solver.
func (m *Model) Validate() error {
	if m == nil {
		return fmt.Errorf("model cannot be nil")
	}
	if len(m.Vars) == 0 {
		return fmt.Errorf("model %q has no variables", m.Name)
	}
	varNames := make(map[string]struct{}, len(m.Vars))
	for i, v := range m.Vars {
		if strings.TrimSpace(v.Name) == "" {
			return fmt.Errorf("variable %d has an empty name", i)
		}
		if _, dup := varNames[v.Name]; dup {
			return fmt.Errorf("duplicate variable name %q", v.Name)
		}
		varNames[v.Name] = struct{}{}
	}
	if err := m.checkExpr("objective", m.Objective.Expr); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(m.Constraints))
	for _, c := range m.Constraints {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("constraint with empty name")
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("duplicate constraint name %q", c.Name)
		}
		seen[c.Name] = struct{}{}
		if !mathutil.Finite(c.RHS) {
			return fmt.Errorf("constraint %s has a non-finite right-hand side", c.Name)
		}
		if err := m.checkExpr("constraint "+c.Name, c.Expr); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) checkExpr(where string, expr LinearExpr) error {
	for _, t := range expr.Terms {
		if t.Var.Index < 0 || t.Var.Index >= len(m.Vars) || m.Vars[t.Var.Index].Name != t.Var.Name {
			return fmt.Errorf("%s references variable %q that is not part of the model", where, t.Var.Name)
		}
		if !mathutil.Finite(t.Coeff) {
			return fmt.Errorf("%s has a non-finite coefficient on %s", where, t.Var.Name)
		}
	}
	return nil
}

// Evaluate computes the value of expr for an assignment indexed by Var.Index.
func Evaluate(expr LinearExpr, values []float64) float64 {
	total := 0.0
	for _, t := range expr.Terms {
		if t.Var.Index < len(values) {
			total += t.Coeff * values[t.Var.Index]
		}
	}
	return total
}
