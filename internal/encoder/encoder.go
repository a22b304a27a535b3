// Package encoder turns a pool of players into the typed feature map consumed
// by the roster model: per-credit ROI, availability and one-hot role and team
// indicators.
package encoder

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	ferrors "github.com/iwvelando/fantasy-optimizer/internal/errors"
)

// Player is one candidate as read from the pool.
type Player struct {
	Name    string
	Credits float64
	// Selection is the popularity percentage, e.g. "42%".
	Selection string
	Role      string
	Team      string
}

// Availability overrides the default full availability per player. Players
// missing from the map are available.
type Availability map[string]bool

// Encoding is the model input derived from a pool.
type Encoding struct {
	// Players holds the unique identifiers in input order.
	Players  []string
	Features *FeatureMap
	// Teams holds the team_A and team_B labels in order of first appearance.
	Teams [2]string
}

// Contains reports whether a player is part of the encoding.
func (e *Encoding) Contains(player string) bool {
	_, ok := e.Features.vectors[player]
	return ok
}

// Encode validates the pool and derives the nine features for every player.
// The output depends only on the input values and their order.
func Encode(players []Player, availability Availability) (*Encoding, error) {
	if len(players) == 0 {
		return nil, ferrors.NewSchemaError("players", "player pool is empty")
	}

	enc := &Encoding{
		Players:  make([]string, 0, len(players)),
		Features: &FeatureMap{vectors: make(map[string]Vector, len(players))},
	}
	teams := 0

	for i, p := range players {
		row := i + 1
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, ferrors.NewSchemaError("name", "player name is empty").WithRow(row)
		}
		if _, dup := enc.Features.vectors[name]; dup {
			return nil, ferrors.NewSchemaError("name", "duplicate player").WithPlayer(name).WithRow(row)
		}

		if math.IsNaN(p.Credits) || math.IsInf(p.Credits, 0) || p.Credits <= 0 {
			return nil, ferrors.NewSchemaError("credits", "credits must be a positive number, got %v", p.Credits).WithPlayer(name).WithRow(row)
		}

		selection, err := ParseSelection(p.Selection)
		if err != nil {
			return nil, ferrors.NewSchemaError("selection", "%v", err).WithPlayer(name).WithRow(row)
		}

		role, err := ParseRole(p.Role)
		if err != nil {
			return nil, ferrors.NewSchemaError("role", "%v", err).WithPlayer(name).WithRow(row)
		}

		team := strings.TrimSpace(p.Team)
		if team == "" {
			return nil, ferrors.NewSchemaError("team", "team label is empty").WithPlayer(name).WithRow(row)
		}
		slot := -1
		for t := 0; t < teams; t++ {
			if enc.Teams[t] == team {
				slot = t
				break
			}
		}
		if slot < 0 {
			if teams == len(enc.Teams) {
				return nil, ferrors.NewSchemaError("team", "third team label %q found; pool must contain exactly two teams (%s, %s)",
					team, enc.Teams[0], enc.Teams[1]).WithPlayer(name).WithRow(row)
			}
			enc.Teams[teams] = team
			slot = teams
			teams++
		}

		v := Vector{
			Credits:      p.Credits,
			ROI:          selection / p.Credits,
			Availability: 1,
		}
		if slot == 0 {
			v.TeamA = 1
		} else {
			v.TeamB = 1
		}
		switch role {
		case RoleWicketkeeper:
			v.RoleWicketkeeper = 1
		case RoleBatsman:
			v.RoleBatsman = 1
		case RoleBowler:
			v.RoleBowler = 1
		case RoleAllRounder:
			v.RoleAllRounder = 1
		}

		enc.Players = append(enc.Players, name)
		enc.Features.vectors[name] = v
	}

	if teams < len(enc.Teams) {
		return nil, ferrors.NewSchemaError("team", "pool contains only team %q; two teams are required to derive team_B", enc.Teams[0])
	}

	names := make([]string, 0, len(availability))
	for name := range availability {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v, ok := enc.Features.vectors[name]
		if !ok {
			return nil, ferrors.NewSchemaError("availability", "availability given for a player not in the pool").WithPlayer(name)
		}
		if !availability[name] {
			v.Availability = 0
			enc.Features.vectors[name] = v
		}
	}

	return enc, nil
}

// ParseSelection converts a popularity string such as "42%" or "42.5" to its
// numeric value.
func ParseSelection(value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "%"))
	if trimmed == "" {
		return 0, fmt.Errorf("selection percentage is empty")
	}
	pct, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0, fmt.Errorf("selection percentage %q is not numeric", value)
	}
	if pct < 0 {
		return 0, fmt.Errorf("selection percentage %q is negative", value)
	}
	return pct, nil
}
