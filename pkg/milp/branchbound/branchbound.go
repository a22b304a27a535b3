// Package branchbound is the default milp.Solver. It runs a depth-first
// branch and bound over the linear relaxation of the model, solving each
// relaxation with gonum's simplex implementation.
package branchbound

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/fantasy-optimizer/pkg/mathutil"
	"github.com/iwvelando/fantasy-optimizer/pkg/milp"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	defaultTolerance = 1e-6
	defaultMaxNodes  = 200000
	simplexTolerance = 1e-10
)

const (
	free int8 = -1
	zero int8 = 0
	one  int8 = 1
)

// Options tunes the search.
type Options struct {
	// Tolerance is the integrality and feasibility tolerance.
	Tolerance float64
	// MaxNodes bounds the number of relaxations solved. Zero means the default.
	MaxNodes int
	Logger   *zap.Logger
}

// Solver implements milp.Solver.
type Solver struct {
	tol      float64
	maxNodes int
	logger   *zap.Logger
}

var _ milp.Solver = (*Solver)(nil)

// New returns a Solver with defaults applied to any unset option.
func New(opts Options) *Solver {
	s := &Solver{tol: opts.Tolerance, maxNodes: opts.MaxNodes, logger: opts.Logger}
	if s.tol <= 0 {
		s.tol = defaultTolerance
	}
	if s.maxNodes <= 0 {
		s.maxNodes = defaultMaxNodes
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

type node struct {
	fix   []int8
	depth int
}

type relaxation struct {
	score  float64
	values []float64
}

// Solve runs the search to completion, to ctx expiry or to the node limit.
// Among optimal assignments the first one found wins: branches are explored
// with the variable set to 1 before 0 and ties in fractionality go to the
// lowest variable index.
func (s *Solver) Solve(ctx context.Context, m *milp.Model) (*milp.Result, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("branchbound: %w", err)
	}

	sign := 1.0
	if m.Sense == milp.Minimize {
		sign = -1.0
	}

	root := make([]int8, m.NumVars())
	for i, v := range m.Vars {
		root[i] = free
		if v.Upper == 0 {
			root[i] = zero
		}
	}

	var (
		best      []float64
		bestScore = math.Inf(-1)
		nodes     int
		stack     = []node{{fix: root}}
	)

	for len(stack) > 0 {
		if ctx.Err() != nil {
			s.logger.Debug("search interrupted",
				zap.String("op", "branchbound.Solve"),
				zap.Int("nodes", nodes),
				zap.Error(ctx.Err()),
			)
			return &milp.Result{Status: milp.StatusTimeLimit, Nodes: nodes}, nil
		}
		if nodes >= s.maxNodes {
			return &milp.Result{Status: milp.StatusNodeLimit, Nodes: nodes}, nil
		}

		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes++

		relax, feasible, err := s.relax(m, current.fix, sign)
		if err != nil {
			if errors.Is(err, lp.ErrUnbounded) {
				return &milp.Result{Status: milp.StatusUnbounded, Nodes: nodes}, nil
			}
			return nil, fmt.Errorf("branchbound: relaxation at depth %d failed: %w", current.depth, err)
		}
		if !feasible {
			continue
		}
		if best != nil && relax.score <= bestScore+s.pruneGap(bestScore) {
			continue
		}

		branch := s.mostFractional(relax.values, current.fix)
		if branch < 0 {
			values := roundValues(relax.values)
			if !s.satisfies(m, values) {
				continue
			}
			best = values
			bestScore = sign * milp.Evaluate(m.Objective.Expr, values)
			s.logger.Debug("new incumbent",
				zap.String("op", "branchbound.Solve"),
				zap.Float64("objective", sign*bestScore),
				zap.Int("nodes", nodes),
				zap.Int("depth", current.depth),
			)
			continue
		}

		down := append([]int8(nil), current.fix...)
		down[branch] = zero
		up := append([]int8(nil), current.fix...)
		up[branch] = one
		stack = append(stack,
			node{fix: down, depth: current.depth + 1},
			node{fix: up, depth: current.depth + 1},
		)
	}

	if best == nil {
		return &milp.Result{Status: milp.StatusInfeasible, Nodes: nodes}, nil
	}
	return &milp.Result{
		Status:    milp.StatusOptimal,
		Objective: milp.Evaluate(m.Objective.Expr, best),
		Values:    best,
		Nodes:     nodes,
	}, nil
}

func (s *Solver) pruneGap(incumbent float64) float64 {
	return s.tol * math.Max(1, math.Abs(incumbent))
}

// relax solves the LP relaxation with the given variables fixed. It returns
// feasible=false when the node has no solution.
//
// Every constraint becomes one or two rows of the form a.x + slack = b with
// its own slack column, plus one row x_j + slack = 1 per free variable, so the
// matrix handed to the simplex has full row rank and no empty rows or columns.
func (s *Solver) relax(m *milp.Model, fix []int8, sign float64) (relaxation, bool, error) {
	n := len(fix)
	col := make([]int, n)
	var freeVars []int
	for j := 0; j < n; j++ {
		col[j] = -1
		if fix[j] == free {
			col[j] = len(freeVars)
			freeVars = append(freeVars, j)
		}
	}
	k := len(freeVars)

	type row struct {
		coeffs []float64
		rhs    float64
	}
	var rows []row
	addRow := func(expr milp.LinearExpr, scale, rhs float64) bool {
		coeffs := make([]float64, k)
		nonzero := false
		for _, t := range expr.Terms {
			switch fix[t.Var.Index] {
			case one:
				rhs -= scale * t.Coeff
			case free:
				coeffs[col[t.Var.Index]] += scale * t.Coeff
			}
		}
		for _, c := range coeffs {
			if c != 0 {
				nonzero = true
				break
			}
		}
		if !nonzero {
			return rhs >= -s.tol
		}
		rows = append(rows, row{coeffs: coeffs, rhs: rhs})
		return true
	}

	for _, c := range m.Constraints {
		ok := true
		switch c.Op {
		case milp.LessEq:
			ok = addRow(c.Expr, 1, c.RHS)
		case milp.GreaterEq:
			ok = addRow(c.Expr, -1, -c.RHS)
		case milp.Equal:
			ok = addRow(c.Expr, 1, c.RHS) && addRow(c.Expr, -1, -c.RHS)
		}
		if !ok {
			return relaxation{}, false, nil
		}
	}

	values := make([]float64, n)
	for j := range fix {
		if fix[j] == one {
			values[j] = 1
		}
	}
	if k == 0 {
		return relaxation{score: sign * milp.Evaluate(m.Objective.Expr, values), values: values}, true, nil
	}

	for i := 0; i < k; i++ {
		coeffs := make([]float64, k)
		coeffs[i] = 1
		rows = append(rows, row{coeffs: coeffs, rhs: 1})
	}

	r := len(rows)
	cols := k + r
	a := mat.NewDense(r, cols, nil)
	b := make([]float64, r)
	for i, rw := range rows {
		for j, v := range rw.coeffs {
			if v != 0 {
				a.Set(i, j, v)
			}
		}
		a.Set(i, k+i, 1)
		b[i] = rw.rhs
	}

	c := make([]float64, cols)
	for _, t := range m.Objective.Expr.Terms {
		if fix[t.Var.Index] == free {
			c[col[t.Var.Index]] -= sign * t.Coeff
		}
	}

	_, x, err := lp.Simplex(c, a, b, simplexTolerance, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return relaxation{}, false, nil
		}
		return relaxation{}, false, err
	}

	for i, j := range freeVars {
		values[j] = x[i]
	}
	return relaxation{score: sign * milp.Evaluate(m.Objective.Expr, values), values: values}, true, nil
}

// mostFractional returns the free variable furthest from integrality, or -1
// when the relaxation is already integral.
func (s *Solver) mostFractional(values []float64, fix []int8) int {
	branch := -1
	worst := s.tol
	for j, v := range values {
		if fix[j] != free {
			continue
		}
		frac := mathutil.Fractionality(v)
		if frac > worst {
			worst = frac
			branch = j
		}
	}
	return branch
}

func (s *Solver) satisfies(m *milp.Model, values []float64) bool {
	for _, c := range m.Constraints {
		if !c.Satisfied(values, s.tol) {
			return false
		}
	}
	return true
}

func roundValues(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Round(v)
		if out[i] < 0 {
			out[i] = 0
		}
		if out[i] > 1 {
			out[i] = 1
		}
	}
	return out
}
