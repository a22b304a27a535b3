package integration

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/fantasy-optimizer/internal/config"
	"github.com/iwvelando/fantasy-optimizer/internal/dataset"
	"github.com/iwvelando/fantasy-optimizer/internal/roster"
	"github.com/iwvelando/fantasy-optimizer/pkg/testutil"
	"go.uber.org/zap"
)

// TestRunner is a simple test runner for debugging
func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

// TestPerformance tests performance characteristics on a full match pool.
func TestPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance test in short mode")
	}
	logger := zap.NewNop()
	conf := config.Default()
	conf.Solver.TimeLimit = 20 * time.Second

	start := time.Now()
	table, err := dataset.Read(strings.NewReader(testutil.PoolCSV(testutil.GeneratePool(40, 11))))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	enc, err := table.Encode(conf.Input.Columns)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	encodeTime := time.Since(start)

	opt, err := roster.NewOptimizer(logger, nil, conf.Roster, conf.Solver)
	if err != nil {
		t.Fatalf("NewOptimizer failed: %v", err)
	}

	start = time.Now()
	model, err := opt.BuildModel(enc)
	if err != nil {
		t.Fatalf("BuildModel failed: %v", err)
	}
	buildTime := time.Since(start)

	start = time.Now()
	sol, err := opt.SolveModel(context.Background(), enc, model)
	if err != nil {
		t.Fatalf("SolveModel failed: %v", err)
	}
	solveTime := time.Since(start)

	totalTime := encodeTime + buildTime + solveTime

	t.Logf("Performance metrics:")
	t.Logf("  Encode pool: %v", encodeTime)
	t.Logf("  Build model: %v", buildTime)
	t.Logf("  Solve: %v (%d nodes)", solveTime, sol.Nodes)
	t.Logf("  Total time: %v", totalTime)

	if totalTime > 20*time.Second {
		t.Errorf("Total processing time %v exceeds 20 second threshold", totalTime)
	}
	if err := roster.ValidateSelection(enc, conf.Roster, sol.Players); err != nil {
		t.Errorf("Solution breaks the rules: %v", err)
	}
}

// TestDataConsistency validates that multiple runs produce identical rosters
func TestDataConsistency(t *testing.T) {
	conf := loadTestConfig(t)

	var first *roster.Solution
	for i := 0; i < 5; i++ {
		sol, _ := runPipeline(t, conf, t.TempDir())
		if first == nil {
			first = sol
			continue
		}
		if sol.Objective != first.Objective {
			t.Errorf("Run %d objective %v differs from %v", i, sol.Objective, first.Objective)
		}
		if strings.Join(sol.Players, ",") != strings.Join(first.Players, ",") {
			t.Errorf("Run %d roster %v differs from %v", i, sol.Players, first.Players)
		}
		if sol.ID == first.ID {
			t.Errorf("Run %d reused solution ID %s", i, sol.ID)
		}
	}
}
