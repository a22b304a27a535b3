package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/fantasy-optimizer/internal/config"
	"github.com/iwvelando/fantasy-optimizer/internal/encoder"
	ferrors "github.com/iwvelando/fantasy-optimizer/internal/errors"
	"github.com/iwvelando/fantasy-optimizer/pkg/mathutil"
	"github.com/iwvelando/fantasy-optimizer/pkg/milp"
	"github.com/iwvelando/fantasy-optimizer/pkg/milp/branchbound"
	"github.com/iwvelando/fantasy-optimizer/pkg/optimization"
	"go.uber.org/zap"
)

// Pick is one selected player with the features used to report on it.
type Pick struct {
	Name    string
	Credits float64
	ROI     float64
	Role    encoder.Role
	Team    string
}

// Solution is an optimal roster. It is never returned alongside an error.
type Solution struct {
	ID     uuid.UUID
	Status milp.Status
	// Players holds the selected players in input order.
	Players     []string
	Picks       []Pick
	Objective   float64
	CreditsUsed float64
	RoleCounts  map[encoder.Role]int
	TeamCounts  [2]int
	Teams       [2]string
	Nodes       int
	Duration    time.Duration
}

// Summary converts the solution into its JSON-facing form.
func (s *Solution) Summary(rules config.RosterRules) optimization.Summary {
	sum := optimization.Summary{
		ID:          s.ID.String(),
		Status:      s.Status.String(),
		Players:     make([]optimization.PlayerSummary, 0, len(s.Picks)),
		Objective:   mathutil.Round(s.Objective),
		CreditsUsed: mathutil.Round(s.CreditsUsed),
		MaxCredits:  rules.MaxCredits,
		RoleCounts:  make(map[string]int, len(s.RoleCounts)),
		TeamCounts:  map[string]int{s.Teams[0]: s.TeamCounts[0], s.Teams[1]: s.TeamCounts[1]},
		Nodes:       s.Nodes,
		DurationMS:  s.Duration.Milliseconds(),
	}
	for _, p := range s.Picks {
		sum.Players = append(sum.Players, optimization.PlayerSummary{
			Name:    p.Name,
			Credits: p.Credits,
			ROI:     mathutil.Round(p.ROI),
			Role:    p.Role.String(),
			Team:    p.Team,
		})
	}
	for role, n := range s.RoleCounts {
		sum.RoleCounts[role.String()] = n
	}
	return sum
}

// Optimizer solves roster models with a milp.Solver.
type Optimizer struct {
	logger    *zap.Logger
	solver    milp.Solver
	rules     config.RosterRules
	timeLimit time.Duration
}

// NewOptimizer constructs an Optimizer. A nil solver selects the
// branch-and-bound backend configured from solverConf.
func NewOptimizer(logger *zap.Logger, solver milp.Solver, rules config.RosterRules, solverConf config.SolverConfig) (*Optimizer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rules.Normalize()
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid roster rules: %w", err)
	}
	if solverConf.TimeLimit < 0 {
		return nil, fmt.Errorf("solver time limit %s cannot be negative", solverConf.TimeLimit)
	}
	if solver == nil {
		solver = branchbound.New(branchbound.Options{
			Tolerance: solverConf.Tolerance,
			MaxNodes:  solverConf.MaxNodes,
			Logger:    logger,
		})
	}
	return &Optimizer{logger: logger, solver: solver, rules: rules, timeLimit: solverConf.TimeLimit}, nil
}

// Rules returns the rules the optimizer enforces.
func (o *Optimizer) Rules() config.RosterRules {
	return o.rules
}

// BuildModel builds the program for enc under the optimizer's rules.
func (o *Optimizer) BuildModel(enc *encoder.Encoding) (*Model, error) {
	return BuildModel(enc, o.rules)
}

// Solve builds the model for enc and solves it.
func (o *Optimizer) Solve(ctx context.Context, enc *encoder.Encoding) (*Solution, error) {
	model, err := o.BuildModel(enc)
	if err != nil {
		return nil, err
	}
	return o.SolveModel(ctx, enc, model)
}

// SolveModel solves a model previously built from enc. The configured time
// limit applies on top of any deadline already on ctx.
func (o *Optimizer) SolveModel(ctx context.Context, enc *encoder.Encoding, model *Model) (*Solution, error) {
	if o.timeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeLimit)
		defer cancel()
	}

	o.logger.Info("solving roster model",
		zap.String("op", "roster.SolveModel"),
		zap.Int("players", len(model.Players)),
		zap.Int("variables", model.Program.NumVars()),
		zap.Int("constraints", len(model.Program.Constraints)),
		zap.Duration("timeLimit", o.timeLimit),
	)

	start := time.Now()
	res, err := o.solver.Solve(ctx, model.Program)
	elapsed := time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &ferrors.TimeoutError{Limit: o.timeLimit}
		}
		return nil, ferrors.NewSolverError("roster.SolveModel", milp.StatusNotSolved, err)
	}

	o.logger.Info("solver finished",
		zap.String("op", "roster.SolveModel"),
		zap.String("status", res.Status.String()),
		zap.Float64("objective", res.Objective),
		zap.Int("nodes", res.Nodes),
		zap.Duration("duration", elapsed),
	)

	switch res.Status {
	case milp.StatusOptimal:
	case milp.StatusInfeasible:
		return nil, &ferrors.InfeasibleError{
			Status:      res.Status,
			Bounds:      o.rules.Bounds(),
			Diagnostics: Diagnose(enc, o.rules),
		}
	case milp.StatusTimeLimit:
		return nil, &ferrors.TimeoutError{Limit: o.timeLimit, Nodes: res.Nodes}
	default:
		return nil, ferrors.NewSolverError("roster.SolveModel", res.Status, nil)
	}

	sol, err := o.extract(enc, model, res)
	if err != nil {
		return nil, err
	}
	sol.Duration = elapsed
	return sol, nil
}

func (o *Optimizer) extract(enc *encoder.Encoding, model *Model, res *milp.Result) (*Solution, error) {
	if len(res.Values) != len(model.Players) {
		return nil, ferrors.NewSolverError("roster.extract", res.Status,
			fmt.Errorf("solver returned %d values for %d variables", len(res.Values), len(model.Players)))
	}

	sol := &Solution{
		ID:     uuid.New(),
		Status: res.Status,
		Teams:  enc.Teams,
		Nodes:  res.Nodes,
	}
	for i, v := range res.Values {
		// A binary counts as picked above 0.5 rather than above 0, so a
		// backend reporting 1e-9 for an unpicked player does not select it.
		if !mathutil.Selected(v) {
			continue
		}
		player := model.Players[i]
		vec, err := enc.Features.Vector(player)
		if err != nil {
			return nil, err
		}
		team := enc.Teams[0]
		if vec.TeamB == 1 {
			team = enc.Teams[1]
		}
		sol.Players = append(sol.Players, player)
		sol.Picks = append(sol.Picks, Pick{
			Name:    player,
			Credits: vec.Credits,
			ROI:     vec.ROI,
			Role:    vec.Role(),
			Team:    team,
		})
		sol.Objective += vec.ROI
	}

	if err := ValidateSelection(enc, o.rules, sol.Players); err != nil {
		o.logger.Error("solver returned a roster that breaks the rules",
			zap.String("op", "roster.extract"),
			zap.Strings("players", sol.Players),
			zap.Error(err),
		)
		return nil, ferrors.NewSolverError("roster.extract", res.Status, err)
	}

	tally, err := Count(enc, sol.Players)
	if err != nil {
		return nil, err
	}
	sol.CreditsUsed = tally.Credits
	sol.RoleCounts = tally.Roles
	sol.TeamCounts = tally.Teams
	return sol, nil
}
