// Package output provides utilities for formatting and persisting roster
// results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/iwvelando/fantasy-optimizer/pkg/constants"
	"github.com/iwvelando/fantasy-optimizer/pkg/format"
	"github.com/iwvelando/fantasy-optimizer/pkg/milp"
	"github.com/iwvelando/fantasy-optimizer/pkg/optimization"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Render writes the summary in the named output format.
func Render(w io.Writer, outputFormat string, summary optimization.Summary) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		PrettyFormat(w, summary)
		return nil
	case constants.OutputFormatCSV:
		return CsvFormat(w, summary)
	case constants.OutputFormatJSON:
		return JSONFormat(w, summary)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, summary optimization.Summary) {
	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "--- Selected roster (%d players) ---\n", summary.Count())
	fmt.Fprintf(w, "Player                   | Credits | Role\n")
	fmt.Fprintf(w, "______                   | _______ | ____\n")
	for _, player := range summary.Players {
		fmt.Fprintf(w, "%-24s | %7s | %s\n", player.Name, format.Credits(player.Credits), player.Role)
	}
	fmt.Fprintf(w, "\n")
	_, _ = p.Fprintf(w, "Total credits used: %.2f of %.2f\n", summary.CreditsUsed, summary.MaxCredits)
	_, _ = p.Fprintf(w, "Maximized ROI: %.2f\n", summary.Objective)

	teams := make([]string, 0, len(summary.TeamCounts))
	for team := range summary.TeamCounts {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	for _, team := range teams {
		fmt.Fprintf(w, "Team %s: %d\n", team, summary.TeamCounts[team])
	}
	fmt.Fprintf(w, "Status: %s\n", summary.Status)
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, summary optimization.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"player", "credits", "roi", "role", "team"}); err != nil {
		return err
	}
	for _, player := range summary.Players {
		record := []string{
			player.Name,
			format.Credits(player.Credits),
			fmt.Sprintf("%.2f", player.ROI),
			player.Role,
			player.Team,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	total := []string{"total", format.Credits(summary.CreditsUsed), fmt.Sprintf("%.2f", summary.Objective), summary.Status, ""}
	if err := cw.Write(total); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// JSONFormat outputs the summary as indented JSON.
func JSONFormat(w io.Writer, summary optimization.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

// WriteModelFile writes the model in LP format, creating parent directories.
func WriteModelFile(path string, m *milp.Model) error {
	return writeFile(path, func(w io.Writer) error {
		return milp.WriteLP(w, m)
	})
}

// WriteSolutionFile writes the output of write to path, creating parent
// directories.
func WriteSolutionFile(path string, write func(io.Writer) error) error {
	return writeFile(path, write)
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
