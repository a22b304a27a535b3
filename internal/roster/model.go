// Package roster builds the roster selection program from an encoded player
// pool and solves it.
package roster

import (
	"fmt"

	"github.com/iwvelando/fantasy-optimizer/internal/config"
	"github.com/iwvelando/fantasy-optimizer/internal/encoder"
	ferrors "github.com/iwvelando/fantasy-optimizer/internal/errors"
	"github.com/iwvelando/fantasy-optimizer/pkg/milp"
)

// Constraint and objective names, matching the LP files of earlier releases.
const (
	ModelName       = "FantasyCricket"
	ObjectiveName   = "MaximizeROI"
	MaxCreditsName  = "MaxCredits"
	TotalSelection  = "TotalSelection"
	WicketkeeperRow = "Wicketkeeper"
	BatsmenRow      = "Batsmen"
	BowlerRow       = "Bowler"
	AllRounderRow   = "AllRounder"
	TeamARow        = "TeamA"
	TeamBRow        = "TeamB"
)

// roleRows names the constraint rows of each role.
var roleRows = map[encoder.Role]string{
	encoder.RoleWicketkeeper: WicketkeeperRow,
	encoder.RoleBatsman:      BatsmenRow,
	encoder.RoleBowler:       BowlerRow,
	encoder.RoleAllRounder:   AllRounderRow,
}

// roleRange returns the bound the rules place on a role.
func roleRange(rules config.RosterRules, r encoder.Role) config.Range {
	switch r {
	case encoder.RoleWicketkeeper:
		return rules.Wicketkeepers
	case encoder.RoleBatsman:
		return rules.Batsmen
	case encoder.RoleBowler:
		return rules.Bowlers
	default:
		return rules.AllRounders
	}
}

// Model is the selection program plus the mapping from variable index to
// player.
type Model struct {
	Program *milp.Model
	// Players[i] is the player decided by variable i.
	Players []string
	Rules   config.RosterRules

	byPlayer map[string]milp.Var
}

// Var returns the decision variable of a player.
func (m *Model) Var(player string) (milp.Var, bool) {
	v, ok := m.byPlayer[player]
	return v, ok
}

// BuildModel creates one binary variable per player and the objective and
// constraints of the roster rules. Unavailable players have their variable
// fixed to 0. A range whose bounds coincide is a single equality row named
// after the rule; otherwise it becomes a Minimum and a Maximum row.
func BuildModel(enc *encoder.Encoding, rules config.RosterRules) (*Model, error) {
	if enc == nil || enc.Features == nil || len(enc.Players) == 0 {
		return nil, ferrors.NewSchemaError("players", "encoding is empty")
	}
	if enc.Features.Len() != len(enc.Players) {
		return nil, ferrors.NewSchemaError("players", "%d players but %d feature vectors", len(enc.Players), enc.Features.Len())
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid roster rules: %w", err)
	}

	m := &Model{
		Program:  milp.NewModel(ModelName, milp.Maximize),
		Players:  make([]string, 0, len(enc.Players)),
		Rules:    rules,
		byPlayer: make(map[string]milp.Var, len(enc.Players)),
	}

	vectors := make([]encoder.Vector, 0, len(enc.Players))
	used := make(map[string]int, len(enc.Players))
	for _, player := range enc.Players {
		vec, err := enc.Features.Vector(player)
		if err != nil {
			return nil, err
		}
		name := variableName(player, used)
		v := m.Program.AddBinary(name)
		if vec.Availability == 0 {
			m.Program.Fix(v)
		}
		m.Players = append(m.Players, player)
		m.byPlayer[player] = v
		vectors = append(vectors, vec)
	}

	sum := func(f encoder.Feature) milp.LinearExpr {
		var expr milp.LinearExpr
		for i, vec := range vectors {
			coeff, _ := vec.Get(f)
			v, _ := m.Var(m.Players[i])
			expr.Add(v, coeff)
		}
		return expr
	}

	p := m.Program
	p.SetObjective(ObjectiveName, sum(encoder.FeatureROI))
	p.AddConstraint(MaxCreditsName, sum(encoder.FeatureCredits), milp.LessEq, rules.MaxCredits)
	p.AddConstraint(TotalSelection, sum(encoder.FeatureAvailability), milp.Equal, float64(rules.RosterSize))

	for _, role := range encoder.Roles {
		addRange(p, roleRows[role], sum(encoder.RoleFeature(role)), roleRange(rules, role))
	}
	addRange(p, TeamARow, sum(encoder.FeatureTeamA), rules.TeamA)
	addRange(p, TeamBRow, sum(encoder.FeatureTeamB), rules.TeamB)

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("roster model is malformed: %w", err)
	}
	return m, nil
}

func addRange(p *milp.Model, name string, expr milp.LinearExpr, r config.Range) {
	if r.Min == r.Max {
		p.AddConstraint(name, expr, milp.Equal, float64(r.Min))
		return
	}
	p.AddConstraint(name+"Minimum", expr, milp.GreaterEq, float64(r.Min))
	p.AddConstraint(name+"Maximum", expr, milp.LessEq, float64(r.Max))
}

// variableName derives an LP-safe, unique variable name for a player.
func variableName(player string, used map[string]int) string {
	base := "x_" + milp.SanitizeName(player)
	name := base
	for n := 2; used[name] > 0; n++ {
		name = fmt.Sprintf("%s_%d", base, n)
	}
	used[name]++
	return name
}
