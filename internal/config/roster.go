package config

import (
	"fmt"
)

// Range is an inclusive count bound.
type Range struct {
	Min int `yaml:"min" mapstructure:"min" json:"min"`
	Max int `yaml:"max" mapstructure:"max" json:"max"`
}

// Contains reports whether n lies within the range.
func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// IsZero reports whether the range was left unset.
func (r Range) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

func (r Range) String() string {
	if r.Min == r.Max {
		return fmt.Sprintf("= %d", r.Min)
	}
	return fmt.Sprintf("in [%d,%d]", r.Min, r.Max)
}

// RosterRules are the tunable composition rules of a roster.
type RosterRules struct {
	RosterSize    int     `yaml:"rosterSize" mapstructure:"rosterSize" json:"rosterSize"`
	MaxCredits    float64 `yaml:"maxCredits" mapstructure:"maxCredits" json:"maxCredits"`
	Wicketkeepers Range   `yaml:"wicketkeepers" mapstructure:"wicketkeepers" json:"wicketkeepers"`
	Batsmen       Range   `yaml:"batsmen" mapstructure:"batsmen" json:"batsmen"`
	Bowlers       Range   `yaml:"bowlers" mapstructure:"bowlers" json:"bowlers"`
	AllRounders   Range   `yaml:"allRounders" mapstructure:"allRounders" json:"allRounders"`
	TeamA         Range   `yaml:"teamA" mapstructure:"teamA" json:"teamA"`
	TeamB         Range   `yaml:"teamB" mapstructure:"teamB" json:"teamB"`
}

// DefaultRosterRules returns the standard eleven-player, 100-credit rules.
func DefaultRosterRules() RosterRules {
	return RosterRules{
		RosterSize:    11,
		MaxCredits:    100,
		Wicketkeepers: Range{Min: 1, Max: 1},
		Batsmen:       Range{Min: 3, Max: 5},
		Bowlers:       Range{Min: 3, Max: 5},
		AllRounders:   Range{Min: 1, Max: 3},
		TeamA:         Range{Min: 4, Max: 7},
		TeamB:         Range{Min: 4, Max: 7},
	}
}

// Normalize fills a zero roster size or budget with the defaults. The
// composition ranges are filled only when none of them was set, so an
// explicit {0,0} range such as "no all-rounders" survives.
func (r *RosterRules) Normalize() {
	if r == nil {
		return
	}
	d := DefaultRosterRules()
	if r.RosterSize == 0 {
		r.RosterSize = d.RosterSize
	}
	if r.MaxCredits == 0 {
		r.MaxCredits = d.MaxCredits
	}
	for _, nr := range r.named() {
		if !nr.Range.IsZero() {
			return
		}
	}
	r.Wicketkeepers = d.Wicketkeepers
	r.Batsmen = d.Batsmen
	r.Bowlers = d.Bowlers
	r.AllRounders = d.AllRounders
	r.TeamA = d.TeamA
	r.TeamB = d.TeamB
}

// Validate returns an error when the rules cannot describe any roster.
func (r *RosterRules) Validate() error {
	if r == nil {
		return fmt.Errorf("roster rules cannot be nil")
	}
	if r.RosterSize < 1 {
		return fmt.Errorf("roster size %d must be at least 1", r.RosterSize)
	}
	if r.MaxCredits <= 0 {
		return fmt.Errorf("max credits %.2f must be positive", r.MaxCredits)
	}

	for _, nr := range r.named() {
		if nr.Range.Min < 0 {
			return fmt.Errorf("%s minimum %d cannot be negative", nr.Name, nr.Range.Min)
		}
		if nr.Range.Min > nr.Range.Max {
			return fmt.Errorf("%s minimum %d must not exceed maximum %d", nr.Name, nr.Range.Min, nr.Range.Max)
		}
		if nr.Range.Min > r.RosterSize {
			return fmt.Errorf("%s minimum %d exceeds roster size %d", nr.Name, nr.Range.Min, r.RosterSize)
		}
	}

	// Every player has exactly one role and one team.
	roleMin := r.Wicketkeepers.Min + r.Batsmen.Min + r.Bowlers.Min + r.AllRounders.Min
	roleMax := r.Wicketkeepers.Max + r.Batsmen.Max + r.Bowlers.Max + r.AllRounders.Max
	if roleMin > r.RosterSize || roleMax < r.RosterSize {
		return fmt.Errorf("role ranges allow %d to %d players, roster size is %d", roleMin, roleMax, r.RosterSize)
	}
	teamMin := r.TeamA.Min + r.TeamB.Min
	teamMax := r.TeamA.Max + r.TeamB.Max
	if teamMin > r.RosterSize || teamMax < r.RosterSize {
		return fmt.Errorf("team ranges allow %d to %d players, roster size is %d", teamMin, teamMax, r.RosterSize)
	}
	return nil
}

// NamedRange pairs a rule name with its bound.
type NamedRange struct {
	Name  string
	Range Range
}

func (r *RosterRules) named() []NamedRange {
	return []NamedRange{
		{"wicketkeepers", r.Wicketkeepers},
		{"batsmen", r.Batsmen},
		{"bowlers", r.Bowlers},
		{"all-rounders", r.AllRounders},
		{"team A", r.TeamA},
		{"team B", r.TeamB},
	}
}

// Bounds describes every rule in force, for diagnostics.
func (r RosterRules) Bounds() []string {
	out := []string{
		fmt.Sprintf("roster size = %d", r.RosterSize),
		fmt.Sprintf("credits <= %g", r.MaxCredits),
	}
	for _, nr := range r.named() {
		out = append(out, fmt.Sprintf("%s %s", nr.Name, nr.Range))
	}
	return out
}
