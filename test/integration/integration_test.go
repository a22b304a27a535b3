package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/fantasy-optimizer/internal/config"
	"github.com/iwvelando/fantasy-optimizer/internal/dataset"
	ferrors "github.com/iwvelando/fantasy-optimizer/internal/errors"
	"github.com/iwvelando/fantasy-optimizer/internal/roster"
	"github.com/iwvelando/fantasy-optimizer/pkg/optimization"
	"github.com/iwvelando/fantasy-optimizer/pkg/output"
	"go.uber.org/zap"
)

const (
	testConfig  = "../testdata/config.yaml"
	testPlayers = "../testdata/players.csv"
)

var expectedRoster = []string{
	"Rishabh Pant",
	"Virat Kohli",
	"Rohit Sharma",
	"Shreyas Iyer",
	"Jasprit Bumrah",
	"Mohammed Shami",
	"Ravindra Jadeja",
	"Nicholas Pooran",
	"Sheldon Cottrell",
	"Jason Holder",
	"Kieron Pollard",
}

// runPipeline loads the fixture pool and solves it exactly as the CLI does,
// writing the model and solution files under dir.
func runPipeline(t *testing.T, conf *config.Configuration, dir string) (*roster.Solution, optimization.Summary) {
	t.Helper()
	// Create a no-op logger to avoid debug output during testing
	logger := zap.NewNop()

	table, err := dataset.Load(testPlayers)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	enc, err := table.Encode(conf.Input.Columns)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	opt, err := roster.NewOptimizer(logger, nil, conf.Roster, conf.Solver)
	if err != nil {
		t.Fatalf("NewOptimizer() error = %v", err)
	}
	model, err := opt.BuildModel(enc)
	if err != nil {
		t.Fatalf("BuildModel() error = %v", err)
	}
	if err := output.WriteModelFile(filepath.Join(dir, "FantasyCricket.lp"), model.Program); err != nil {
		t.Fatalf("WriteModelFile() error = %v", err)
	}
	sol, err := opt.SolveModel(context.Background(), enc, model)
	if err != nil {
		t.Fatalf("SolveModel() error = %v", err)
	}
	selected, err := table.Filter(conf.Input.Columns.Name, sol.Players)
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if err := output.WriteSolutionFile(filepath.Join(dir, "solution.csv"), selected.Write); err != nil {
		t.Fatalf("WriteSolutionFile() error = %v", err)
	}
	return sol, sol.Summary(opt.Rules())
}

func loadTestConfig(t *testing.T) *config.Configuration {
	t.Helper()
	conf, err := config.LoadConfiguration(testConfig)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if err := conf.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return conf
}

// TestMainIntegrationBaseline checks the fixture pool solves to the known
// optimal roster.
func TestMainIntegrationBaseline(t *testing.T) {
	conf := loadTestConfig(t)
	sol, summary := runPipeline(t, conf, t.TempDir())

	if len(sol.Players) != len(expectedRoster) {
		t.Fatalf("Expected %d players, got %d: %v", len(expectedRoster), len(sol.Players), sol.Players)
	}
	for i, name := range expectedRoster {
		if sol.Players[i] != name {
			t.Errorf("Player %d = %s, expected %s", i, sol.Players[i], name)
		}
	}
	if summary.Objective != 56.94 {
		t.Errorf("Objective = %v, expected 56.94", summary.Objective)
	}
	if summary.CreditsUsed != 100 {
		t.Errorf("CreditsUsed = %v, expected 100", summary.CreditsUsed)
	}
	if summary.TeamCounts["IND"] != 7 || summary.TeamCounts["WI"] != 4 {
		t.Errorf("TeamCounts = %v, expected IND:7 WI:4", summary.TeamCounts)
	}
	expectedRoles := map[string]int{"wicketkeeper": 1, "batsman": 4, "bowler": 3, "all-rounder": 3}
	for role, n := range expectedRoles {
		if summary.RoleCounts[role] != n {
			t.Errorf("RoleCounts[%s] = %d, expected %d", role, summary.RoleCounts[role], n)
		}
	}
}

// TestOutputFiles checks the model and solution files written alongside a solve.
func TestOutputFiles(t *testing.T) {
	conf := loadTestConfig(t)
	dir := t.TempDir()
	runPipeline(t, conf, dir)

	lp, err := os.ReadFile(filepath.Join(dir, "FantasyCricket.lp"))
	if err != nil {
		t.Fatalf("Could not read model file: %v", err)
	}
	for _, part := range []string{"Maximize", "MaximizeROI:", "MaxCredits:", "TotalSelection:", "Binaries", "End"} {
		if !strings.Contains(string(lp), part) {
			t.Errorf("Model file missing %q", part)
		}
	}

	solution, err := os.ReadFile(filepath.Join(dir, "solution.csv"))
	if err != nil {
		t.Fatalf("Could not read solution file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(solution)), "\n")
	if len(lines) != 12 {
		t.Fatalf("Solution file should have header plus 11 rows, got %d lines", len(lines))
	}
	if lines[0] != "playerName,credits,selectionPercent,player_role,teamName,available" {
		t.Errorf("Unexpected solution header %q", lines[0])
	}
	if lines[1] != "Rishabh Pant,9,55%,wk,IND,yes" {
		t.Errorf("Solution rows should keep their original text, got %q", lines[1])
	}
}

// TestCSVOutputFormat tests the CSV report of a solve.
func TestCSVOutputFormat(t *testing.T) {
	conf := loadTestConfig(t)
	_, summary := runPipeline(t, conf, t.TempDir())

	var buf bytes.Buffer
	if err := output.Render(&buf, conf.Output.Format, summary); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 13 {
		t.Fatalf("CSV report should have header, 11 players and a total, got %d lines", len(lines))
	}
	if lines[0] != "player,credits,roi,role,team" {
		t.Errorf("Unexpected CSV header %q", lines[0])
	}
	if lines[1] != "Rishabh Pant,9,6.11,wicketkeeper,IND" {
		t.Errorf("Unexpected first row %q", lines[1])
	}
	if lines[12] != "total,100,56.94,optimal," {
		t.Errorf("Unexpected total row %q", lines[12])
	}
}

// TestPrettyOutputFormat tests the pretty print output
func TestPrettyOutputFormat(t *testing.T) {
	conf := loadTestConfig(t)
	_, summary := runPipeline(t, conf, t.TempDir())

	var buf bytes.Buffer
	output.PrettyFormat(&buf, summary)
	out := buf.String()
	for _, part := range []string{
		"--- Selected roster (11 players) ---",
		"Total credits used: 100.00 of 100.00",
		"Maximized ROI: 56.94",
		"Team IND: 7",
		"Team WI: 4",
		"Status: optimal",
	} {
		if !strings.Contains(out, part) {
			t.Errorf("Pretty output missing %q:\n%s", part, out)
		}
	}
}

// TestJSONOutputFormat checks the JSON report decodes back into a summary.
func TestJSONOutputFormat(t *testing.T) {
	conf := loadTestConfig(t)
	_, summary := runPipeline(t, conf, t.TempDir())

	var buf bytes.Buffer
	if err := output.JSONFormat(&buf, summary); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}
	var decoded optimization.Summary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSON output does not decode: %v", err)
	}
	if decoded.ID != summary.ID || decoded.Count() != 11 {
		t.Errorf("Decoded summary %+v does not match", decoded)
	}
}

// TestConfigurationVariations solves the fixture pool under altered rules.
func TestConfigurationVariations(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*config.Configuration)
		exitCode int
	}{
		{
			name:     "default rules",
			modify:   func(*config.Configuration) {},
			exitCode: ferrors.ExitOK,
		},
		{
			name: "budget below the cheapest roster",
			modify: func(c *config.Configuration) {
				c.Roster.MaxCredits = 90
			},
			exitCode: ferrors.ExitInfeasible,
		},
		{
			name: "four bowlers required",
			modify: func(c *config.Configuration) {
				c.Roster.Bowlers = config.Range{Min: 4, Max: 5}
			},
			exitCode: ferrors.ExitOK,
		},
		{
			name: "five all-rounders required",
			modify: func(c *config.Configuration) {
				c.Roster.AllRounders = config.Range{Min: 5, Max: 5}
				c.Roster.Batsmen = config.Range{Min: 2, Max: 5}
				c.Roster.Bowlers = config.Range{Min: 2, Max: 5}
			},
			exitCode: ferrors.ExitInfeasible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := loadTestConfig(t)
			tt.modify(conf)
			if err := conf.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}

			table, err := dataset.Load(testPlayers)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			enc, err := table.Encode(conf.Input.Columns)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			opt, err := roster.NewOptimizer(zap.NewNop(), nil, conf.Roster, conf.Solver)
			if err != nil {
				t.Fatalf("NewOptimizer() error = %v", err)
			}
			sol, err := opt.Solve(context.Background(), enc)
			if code := ferrors.ExitCode(err); code != tt.exitCode {
				t.Fatalf("Exit code = %d, expected %d (err: %v)", code, tt.exitCode, err)
			}
			if err != nil {
				return
			}
			if err := roster.ValidateSelection(enc, conf.Roster, sol.Players); err != nil {
				t.Errorf("Solution breaks the rules: %v", err)
			}
		})
	}
}
