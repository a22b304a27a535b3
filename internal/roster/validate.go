package roster

import (
	"fmt"
	"sort"

	"github.com/iwvelando/fantasy-optimizer/internal/config"
	"github.com/iwvelando/fantasy-optimizer/internal/encoder"
	ferrors "github.com/iwvelando/fantasy-optimizer/internal/errors"
	"github.com/iwvelando/fantasy-optimizer/pkg/constants"
)

// Tally counts the roles and teams of a set of players.
type Tally struct {
	Size    int
	Credits float64
	Roles   map[encoder.Role]int
	Teams   [2]int
}

// Count tallies the named players. Unknown players are an error.
func Count(enc *encoder.Encoding, players []string) (Tally, error) {
	t := Tally{Roles: make(map[encoder.Role]int, len(encoder.Roles))}
	for _, r := range encoder.Roles {
		t.Roles[r] = 0
	}
	for _, p := range players {
		vec, err := enc.Features.Vector(p)
		if err != nil {
			return Tally{}, err
		}
		t.Size++
		t.Credits += vec.Credits
		t.Roles[vec.Role()]++
		if vec.TeamA == 1 {
			t.Teams[0]++
		} else {
			t.Teams[1]++
		}
	}
	return t, nil
}

// ValidateSelection checks a roster against every rule and returns the first
// violation found.
func ValidateSelection(enc *encoder.Encoding, rules config.RosterRules, players []string) error {
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if seen[p] {
			return fmt.Errorf("player %q selected twice", p)
		}
		seen[p] = true
		if !enc.Contains(p) {
			return ferrors.NewSchemaError("player", "selected player is not in the pool").WithPlayer(p)
		}
		avail, err := enc.Features.Value(encoder.FeatureAvailability, p)
		if err != nil {
			return err
		}
		if avail == 0 {
			return fmt.Errorf("player %q is unavailable", p)
		}
	}

	t, err := Count(enc, players)
	if err != nil {
		return err
	}
	if t.Size != rules.RosterSize {
		return fmt.Errorf("roster has %d players, want %d", t.Size, rules.RosterSize)
	}
	if t.Credits > rules.MaxCredits+constants.CreditTolerance {
		return fmt.Errorf("roster costs %g credits, budget is %g", t.Credits, rules.MaxCredits)
	}

	type check struct {
		name  string
		count int
		r     config.Range
	}
	var checks []check
	for _, role := range encoder.Roles {
		checks = append(checks, check{rolePlurals[role], t.Roles[role], roleRange(rules, role)})
	}
	checks = append(checks,
		check{"team " + enc.Teams[0], t.Teams[0], rules.TeamA},
		check{"team " + enc.Teams[1], t.Teams[1], rules.TeamB},
	)
	for _, c := range checks {
		if !c.r.Contains(c.count) {
			return fmt.Errorf("roster has %d %s, want %s", c.count, c.name, c.r)
		}
	}
	return nil
}

var rolePlurals = map[encoder.Role]string{
	encoder.RoleWicketkeeper: "wicketkeepers",
	encoder.RoleBatsman:      "batsmen",
	encoder.RoleBowler:       "bowlers",
	encoder.RoleAllRounder:   "all-rounders",
}

// Diagnose lists the reasons the available pool cannot meet the rules on its
// own. An empty result does not prove feasibility: the budget and the
// interaction between rules are only checked by the solver.
func Diagnose(enc *encoder.Encoding, rules config.RosterRules) []string {
	availability, err := enc.Features.Column(encoder.FeatureAvailability)
	if err != nil {
		return []string{err.Error()}
	}
	credits, err := enc.Features.Column(encoder.FeatureCredits)
	if err != nil {
		return []string{err.Error()}
	}
	var available []string
	var costs []float64
	for _, p := range enc.Players {
		if availability[p] == 0 {
			continue
		}
		available = append(available, p)
		costs = append(costs, credits[p])
	}
	t, err := Count(enc, available)
	if err != nil {
		return []string{err.Error()}
	}

	var out []string
	if t.Size < rules.RosterSize {
		out = append(out, fmt.Sprintf("pool has %d available player(s), roster needs %d", t.Size, rules.RosterSize))
	}
	type shortfall struct {
		name string
		have int
		need int
	}
	var shortfalls []shortfall
	for _, role := range encoder.Roles {
		shortfalls = append(shortfalls, shortfall{role.String() + "(s)", t.Roles[role], roleRange(rules, role).Min})
	}
	shortfalls = append(shortfalls,
		shortfall{"player(s) from team " + enc.Teams[0], t.Teams[0], rules.TeamA.Min},
		shortfall{"player(s) from team " + enc.Teams[1], t.Teams[1], rules.TeamB.Min},
	)
	for _, s := range shortfalls {
		if s.have < s.need {
			out = append(out, fmt.Sprintf("pool has %d available %s, rules need at least %d", s.have, s.name, s.need))
		}
	}

	if len(costs) >= rules.RosterSize {
		sort.Float64s(costs)
		cheapest := 0.0
		for _, c := range costs[:rules.RosterSize] {
			cheapest += c
		}
		if cheapest > rules.MaxCredits+constants.CreditTolerance {
			out = append(out, fmt.Sprintf("cheapest %d players cost %g credits, budget is %g", rules.RosterSize, cheapest, rules.MaxCredits))
		}
	}
	return out
}
