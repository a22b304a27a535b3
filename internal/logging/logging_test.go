package logging

import (
	"path/filepath"
	"testing"

	"github.com/iwvelando/fantasy-optimizer/internal/config"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name      string
		logging   config.LoggingConfig
		override  string
		expectErr bool
	}{
		{"defaults", config.LoggingConfig{}, "", false},
		{"console debug", config.LoggingConfig{Level: "debug", Format: "console"}, "", false},
		{"override wins", config.LoggingConfig{Level: "bogus"}, "warn", false},
		{"bad level", config.LoggingConfig{Level: "verbose"}, "", true},
		{"bad format", config.LoggingConfig{Format: "xml"}, "", true},
		{"file output", config.LoggingConfig{OutputFile: filepath.Join(t.TempDir(), "logs", "app.log")}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := Initialize(tt.logging, tt.override)
			if (err != nil) != tt.expectErr {
				t.Fatalf("Initialize() error = %v, expectErr %v", err, tt.expectErr)
			}
			if logger != nil {
				_ = logger.Sync()
			}
		})
	}
}
