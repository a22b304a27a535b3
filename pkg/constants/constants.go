// Package constants provides shared constants for the fantasy-optimizer application.
package constants

import "time"

// Input and output file defaults
const (
	// DefaultInputFile is the player pool used when no path is given
	DefaultInputFile = "files/usecase_players.csv"

	// DefaultModelFile is where the solved model is written in LP format
	DefaultModelFile = "files/FantasyCricket.lp"

	// DefaultSolutionFile is where the selected rows are written
	DefaultSolutionFile = "files/solution.csv"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. FANTASY_ROSTER_MAXCREDITS
	EnvPrefix = "FANTASY"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for player pools (1 MB)
	DefaultMaxUploadSizeBytes int64 = 1024 * 1024
)

// Solver constants
const (
	// DefaultTimeLimit bounds a single solve
	DefaultTimeLimit = 30 * time.Second

	// DefaultMaxNodes bounds the branch-and-bound search
	DefaultMaxNodes = 200000

	// IntegralityTolerance is how far a relaxed value may sit from 0 or 1
	// and still count as integral
	IntegralityTolerance = 1e-6

	// SelectionThreshold is the value above which a decision variable
	// counts as selected
	SelectionThreshold = 0.5

	// CreditTolerance is the tolerance for credit comparisons
	CreditTolerance = 1e-6
)

// Display constants
const (
	// DisplayPrecision is the number of decimals used for ROI and credits
	DisplayPrecision = 2
)
