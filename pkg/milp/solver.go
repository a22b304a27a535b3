package milp

import "context"

// Status is the terminal verdict of a solve.
type Status string

const (
	StatusOptimal    Status = "optimal"
	StatusInfeasible Status = "infeasible"
	StatusUnbounded  Status = "unbounded"
	StatusTimeLimit  Status = "timed out"
	StatusNodeLimit  Status = "node limit"
	StatusNotSolved  Status = "not solved"
)

func (s Status) String() string {
	return string(s)
}

// Result is what a Solver reports back. Values is indexed by Var.Index and is
// only meaningful when Status is StatusOptimal.
type Result struct {
	Status    Status
	Objective float64
	Values    []float64
	Nodes     int
}

// Solver is any backend able to solve a binary integer program with linear
// constraints. Solve blocks until a terminal status is reached or ctx is done.
// A returned error means the backend itself failed, not that the model has no
// solution.
type Solver interface {
	Solve(ctx context.Context, m *Model) (*Result, error)
}
