// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/fantasy-optimizer/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for fantasy-optimizer.
type Configuration struct {
	Input   InputConfig   `yaml:"input,omitempty" mapstructure:"input"`
	Output  OutputConfig  `yaml:"output,omitempty" mapstructure:"output"`
	Logging LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`
	Roster  RosterRules   `yaml:"roster,omitempty" mapstructure:"roster"`
	Solver  SolverConfig  `yaml:"solver,omitempty" mapstructure:"solver"`
}

// InputConfig locates the player pool and names its columns.
type InputConfig struct {
	Path    string        `yaml:"path,omitempty" mapstructure:"path"`
	Columns ColumnsConfig `yaml:"columns,omitempty" mapstructure:"columns"`
}

// ColumnsConfig maps pool fields to CSV header names.
type ColumnsConfig struct {
	Name      string `yaml:"name,omitempty" mapstructure:"name"`
	Credits   string `yaml:"credits,omitempty" mapstructure:"credits"`
	Selection string `yaml:"selection,omitempty" mapstructure:"selection"`
	Role      string `yaml:"role,omitempty" mapstructure:"role"`
	Team      string `yaml:"team,omitempty" mapstructure:"team"`
	// Available is optional; when the column is absent every player is available.
	Available string `yaml:"available,omitempty" mapstructure:"available"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format and result file options
type OutputConfig struct {
	Format       string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
	ModelFile    string `yaml:"modelFile,omitempty" mapstructure:"modelFile"`
	SolutionFile string `yaml:"solutionFile,omitempty" mapstructure:"solutionFile"`
}

// SolverConfig bounds the work a single solve may do.
type SolverConfig struct {
	TimeLimit time.Duration `yaml:"timeLimit,omitempty" mapstructure:"timeLimit"`
	MaxNodes  int           `yaml:"maxNodes,omitempty" mapstructure:"maxNodes"`
	Tolerance float64       `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
}

// Default returns the configuration used when no file is given.
func Default() *Configuration {
	return &Configuration{
		Input: InputConfig{
			Path:    constants.DefaultInputFile,
			Columns: DefaultColumns(),
		},
		Output: OutputConfig{
			Format:       constants.OutputFormatPretty,
			ModelFile:    constants.DefaultModelFile,
			SolutionFile: constants.DefaultSolutionFile,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Roster:  DefaultRosterRules(),
		Solver: SolverConfig{
			TimeLimit: constants.DefaultTimeLimit,
			MaxNodes:  constants.DefaultMaxNodes,
			Tolerance: constants.IntegralityTolerance,
		},
	}
}

// DefaultColumns returns the header names of the standard pool export.
func DefaultColumns() ColumnsConfig {
	return ColumnsConfig{
		Name:      "playerName",
		Credits:   "credits",
		Selection: "selectionPercent",
		Role:      "player_role",
		Team:      "teamName",
		Available: "available",
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("input.path", d.Input.Path)
	v.SetDefault("input.columns.name", d.Input.Columns.Name)
	v.SetDefault("input.columns.credits", d.Input.Columns.Credits)
	v.SetDefault("input.columns.selection", d.Input.Columns.Selection)
	v.SetDefault("input.columns.role", d.Input.Columns.Role)
	v.SetDefault("input.columns.team", d.Input.Columns.Team)
	v.SetDefault("input.columns.available", d.Input.Columns.Available)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.modelFile", d.Output.ModelFile)
	v.SetDefault("output.solutionFile", d.Output.SolutionFile)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("roster.rosterSize", d.Roster.RosterSize)
	v.SetDefault("roster.maxCredits", d.Roster.MaxCredits)
	for key, r := range map[string]Range{
		"wicketkeepers": d.Roster.Wicketkeepers,
		"batsmen":       d.Roster.Batsmen,
		"bowlers":       d.Roster.Bowlers,
		"allRounders":   d.Roster.AllRounders,
		"teamA":         d.Roster.TeamA,
		"teamB":         d.Roster.TeamB,
	} {
		v.SetDefault("roster."+key+".min", r.Min)
		v.SetDefault("roster."+key+".max", r.Max)
	}
	v.SetDefault("solver.timeLimit", d.Solver.TimeLimit)
	v.SetDefault("solver.maxNodes", d.Solver.MaxNodes)
	v.SetDefault("solver.tolerance", d.Solver.Tolerance)
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Keys missing from the file keep their defaults and any
// key can be overridden from the environment, e.g. FANTASY_ROSTER_MAXCREDITS.
// An empty path yields the defaults.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.Roster.Normalize()

	return &configuration, nil
}

// Validate returns an error for settings that make a solve impossible.
func (c *Configuration) Validate() error {
	if err := c.Roster.Validate(); err != nil {
		return fmt.Errorf("roster rules: %w", err)
	}
	if c.Solver.TimeLimit < 0 {
		return fmt.Errorf("solver time limit %s cannot be negative", c.Solver.TimeLimit)
	}
	if c.Solver.MaxNodes < 0 {
		return fmt.Errorf("solver max nodes %d cannot be negative", c.Solver.MaxNodes)
	}
	cols := c.Input.Columns
	for field, name := range map[string]string{
		"name":      cols.Name,
		"credits":   cols.Credits,
		"selection": cols.Selection,
		"role":      cols.Role,
		"team":      cols.Team,
	} {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("input column for %s cannot be empty", field)
		}
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings that do not prevent a solve.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Solver.TimeLimit == 0 {
		warnings = append(warnings, "solver time limit is 0; a solve may block indefinitely")
	}
	if c.Output.ModelFile == "" {
		warnings = append(warnings, "output.modelFile is empty; the model will not be persisted")
	}
	if c.Output.SolutionFile == "" {
		warnings = append(warnings, "output.solutionFile is empty; the selected rows will not be persisted")
	}
	d := DefaultRosterRules()
	if c.Roster.RosterSize != d.RosterSize {
		warnings = append(warnings, fmt.Sprintf("roster size %d differs from the standard %d", c.Roster.RosterSize, d.RosterSize))
	}
	if c.Roster.MaxCredits > d.MaxCredits {
		warnings = append(warnings, fmt.Sprintf("credit budget %.1f exceeds the standard %.1f", c.Roster.MaxCredits, d.MaxCredits))
	}

	return warnings
}
