package encoder

import (
	"fmt"
	"strings"

	ferrors "github.com/iwvelando/fantasy-optimizer/internal/errors"
)

// Role is a player's position in the roster.
type Role int

const (
	RoleWicketkeeper Role = iota
	RoleBatsman
	RoleBowler
	RoleAllRounder
)

// Roles lists every role in a stable order.
var Roles = []Role{RoleWicketkeeper, RoleBatsman, RoleBowler, RoleAllRounder}

func (r Role) String() string {
	switch r {
	case RoleWicketkeeper:
		return "wicketkeeper"
	case RoleBatsman:
		return "batsman"
	case RoleBowler:
		return "bowler"
	case RoleAllRounder:
		return "all-rounder"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole accepts the long role names and the short tokens used by the
// fantasy platforms (wk, bat, bowl, ar), case-insensitively.
func ParseRole(token string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "wk", "wicketkeeper", "wicket-keeper", "wicket_keeper", "keeper":
		return RoleWicketkeeper, nil
	case "bat", "batsman", "batter":
		return RoleBatsman, nil
	case "bowl", "bowler":
		return RoleBowler, nil
	case "ar", "all-rounder", "allrounder", "all_rounder":
		return RoleAllRounder, nil
	default:
		return 0, fmt.Errorf("unrecognized role %q", token)
	}
}

// Feature names one of the nine per-player model inputs.
type Feature int

const (
	FeatureCredits Feature = iota
	FeatureROI
	FeatureAvailability
	FeatureTeamA
	FeatureTeamB
	FeatureRoleAllRounder
	FeatureRoleBatsman
	FeatureRoleBowler
	FeatureRoleWicketkeeper
)

var featureNames = [...]string{
	FeatureCredits:          "credits",
	FeatureROI:              "roi",
	FeatureAvailability:     "availability",
	FeatureTeamA:            "team_A",
	FeatureTeamB:            "team_B",
	FeatureRoleAllRounder:   "role_allrounder",
	FeatureRoleBatsman:      "role_batsman",
	FeatureRoleBowler:       "role_bowler",
	FeatureRoleWicketkeeper: "role_wicketkeeper",
}

// AllFeatures returns the nine features in canonical order.
func AllFeatures() []Feature {
	out := make([]Feature, len(featureNames))
	for i := range featureNames {
		out[i] = Feature(i)
	}
	return out
}

func (f Feature) String() string {
	if f < 0 || int(f) >= len(featureNames) {
		return fmt.Sprintf("feature(%d)", int(f))
	}
	return featureNames[f]
}

// RoleFeature returns the indicator feature for a role.
func RoleFeature(r Role) Feature {
	switch r {
	case RoleWicketkeeper:
		return FeatureRoleWicketkeeper
	case RoleBatsman:
		return FeatureRoleBatsman
	case RoleBowler:
		return FeatureRoleBowler
	default:
		return FeatureRoleAllRounder
	}
}

// Vector holds every feature value for one player.
type Vector struct {
	Credits          float64
	ROI              float64
	Availability     float64
	TeamA            float64
	TeamB            float64
	RoleAllRounder   float64
	RoleBatsman      float64
	RoleBowler       float64
	RoleWicketkeeper float64
}

// Get returns the value of a feature.
func (v Vector) Get(f Feature) (float64, bool) {
	switch f {
	case FeatureCredits:
		return v.Credits, true
	case FeatureROI:
		return v.ROI, true
	case FeatureAvailability:
		return v.Availability, true
	case FeatureTeamA:
		return v.TeamA, true
	case FeatureTeamB:
		return v.TeamB, true
	case FeatureRoleAllRounder:
		return v.RoleAllRounder, true
	case FeatureRoleBatsman:
		return v.RoleBatsman, true
	case FeatureRoleBowler:
		return v.RoleBowler, true
	case FeatureRoleWicketkeeper:
		return v.RoleWicketkeeper, true
	default:
		return 0, false
	}
}

// Role returns the role whose indicator is set.
func (v Vector) Role() Role {
	switch {
	case v.RoleWicketkeeper == 1:
		return RoleWicketkeeper
	case v.RoleBatsman == 1:
		return RoleBatsman
	case v.RoleBowler == 1:
		return RoleBowler
	default:
		return RoleAllRounder
	}
}

// FeatureMap is a total mapping from player to feature vector. It is only
// built by Encode, which guarantees an entry for every encoded player.
type FeatureMap struct {
	vectors map[string]Vector
}

// Vector returns the full feature vector of a player.
func (fm *FeatureMap) Vector(player string) (Vector, error) {
	v, ok := fm.vectors[player]
	if !ok {
		return Vector{}, ferrors.NewSchemaError("player", "no features encoded for this player").WithPlayer(player)
	}
	return v, nil
}

// Value returns one feature of one player. Unknown players and features are
// schema errors, never zero.
func (fm *FeatureMap) Value(f Feature, player string) (float64, error) {
	v, err := fm.Vector(player)
	if err != nil {
		return 0, err
	}
	val, ok := v.Get(f)
	if !ok {
		return 0, ferrors.NewSchemaError(f.String(), "unknown feature").WithPlayer(player)
	}
	return val, nil
}

// Column returns a copy of one feature's mapping over every player.
func (fm *FeatureMap) Column(f Feature) (map[string]float64, error) {
	out := make(map[string]float64, len(fm.vectors))
	for name, v := range fm.vectors {
		val, ok := v.Get(f)
		if !ok {
			return nil, ferrors.NewSchemaError(f.String(), "unknown feature")
		}
		out[name] = val
	}
	return out, nil
}

// Len returns the number of players in the map.
func (fm *FeatureMap) Len() int {
	return len(fm.vectors)
}
