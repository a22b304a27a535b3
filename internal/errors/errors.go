// Package errors defines the typed failures of the roster pipeline.
//
// Three conditions stop a solve before any roster is produced:
//   - SchemaError: a required feature cannot be derived from the input
//   - InfeasibleError: no selection satisfies every roster rule
//   - SolverError: the solver backend failed or ended without an optimum
//
// TimeoutError is a SolverError specialization for a solve that hit its time
// limit. Each type matches its sentinel through errors.Is, so callers can use
// either form:
//
//	if errors.Is(err, errors.ErrInfeasible) { ... }
//
//	var infeasible *errors.InfeasibleError
//	if errors.As(err, &infeasible) { ... }
//
// ExitCode maps any of them to the process exit code used by the CLI.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/fantasy-optimizer/pkg/milp"
)

// Re-export standard library functions so callers only import this package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Sentinel errors matched by the typed errors below.
var (
	// ErrSchema indicates the input cannot be encoded into model features.
	ErrSchema = New("schema error")
	// ErrInfeasible indicates the roster rules cannot all be satisfied.
	ErrInfeasible = New("roster infeasible")
	// ErrSolver indicates the solver failed to produce an optimal roster.
	ErrSolver = New("solver failure")
	// ErrTimeout indicates the solve exceeded its time limit.
	ErrTimeout = New("solve timed out")
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitSchema     = 2
	ExitInfeasible = 3
	ExitSolver     = 4
	ExitTimeout    = 5
)

// SchemaError reports an input that cannot be turned into the nine model
// features.
type SchemaError struct {
	Field  string
	Player string
	Row    int
	Reason string
}

// NewSchemaError creates a SchemaError for a field.
func NewSchemaError(field, format string, args ...interface{}) *SchemaError {
	return &SchemaError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// WithPlayer adds the offending player to the error context.
func (e *SchemaError) WithPlayer(name string) *SchemaError {
	e.Player = name
	return e
}

// WithRow adds the 1-based data row to the error context.
func (e *SchemaError) WithRow(row int) *SchemaError {
	e.Row = row
	return e
}

func (e *SchemaError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, "field="+e.Field)
	}
	if e.Player != "" {
		parts = append(parts, "player="+e.Player)
	}
	if e.Row > 0 {
		parts = append(parts, fmt.Sprintf("row=%d", e.Row))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s: %s", ErrSchema, e.Reason)
	}
	return fmt.Sprintf("%s [%s]: %s", ErrSchema, strings.Join(parts, ", "), e.Reason)
}

// Is matches ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// InfeasibleError reports that the solver proved no roster satisfies the
// rules. Bounds lists the rules that were in force and Diagnostics lists pool
// shortfalls found when checking the input against them.
type InfeasibleError struct {
	Status      milp.Status
	Bounds      []string
	Diagnostics []string
}

func (e *InfeasibleError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (status %s): no selection satisfies all roster rules; check the player pool and configuration", ErrInfeasible, e.Status)
	if len(e.Diagnostics) > 0 {
		fmt.Fprintf(&b, "; pool: %s", strings.Join(e.Diagnostics, "; "))
	}
	if len(e.Bounds) > 0 {
		fmt.Fprintf(&b, "; rules: %s", strings.Join(e.Bounds, ", "))
	}
	return b.String()
}

// Is matches ErrInfeasible.
func (e *InfeasibleError) Is(target error) bool {
	return target == ErrInfeasible
}

// SolverError reports a backend failure or a terminal status other than
// optimal or infeasible.
type SolverError struct {
	Status milp.Status
	Op     string
	cause  error
}

// NewSolverError wraps cause, which may be nil when only the status is known.
func NewSolverError(op string, status milp.Status, cause error) *SolverError {
	return &SolverError{Op: op, Status: status, cause: cause}
}

func (e *SolverError) Error() string {
	msg := fmt.Sprintf("%s [op=%s, status=%s]", ErrSolver, e.Op, e.Status)
	if e.cause != nil {
		return msg + ": " + e.cause.Error()
	}
	return msg
}

// Unwrap returns the underlying backend error.
func (e *SolverError) Unwrap() error {
	return e.cause
}

// Is matches ErrSolver.
func (e *SolverError) Is(target error) bool {
	return target == ErrSolver
}

// TimeoutError reports a solve stopped by its time limit.
type TimeoutError struct {
	Limit time.Duration
	Nodes int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s after %s (%d nodes explored, status %s)", ErrTimeout, e.Limit, e.Nodes, milp.StatusTimeLimit)
}

// Is matches ErrTimeout and ErrSolver.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout || target == ErrSolver
}

// StatusOf returns the solver status carried by err, or StatusNotSolved.
func StatusOf(err error) milp.Status {
	var infeasible *InfeasibleError
	var timeout *TimeoutError
	var solver *SolverError
	switch {
	case As(err, &infeasible):
		return infeasible.Status
	case As(err, &timeout):
		return milp.StatusTimeLimit
	case As(err, &solver):
		return solver.Status
	default:
		return milp.StatusNotSolved
	}
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case Is(err, ErrSchema):
		return ExitSchema
	case Is(err, ErrInfeasible):
		return ExitInfeasible
	case Is(err, ErrTimeout):
		return ExitTimeout
	case Is(err, ErrSolver):
		return ExitSolver
	default:
		return ExitFailure
	}
}
