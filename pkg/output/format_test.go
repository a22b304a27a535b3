package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/fantasy-optimizer/pkg/milp"
	"github.com/iwvelando/fantasy-optimizer/pkg/optimization"
)

func sampleSummary() optimization.Summary {
	return optimization.Summary{
		ID:     "7d4f3c2a-0000-4000-8000-000000000000",
		Status: "optimal",
		Players: []optimization.PlayerSummary{
			{Name: "Rishabh Pant", Credits: 9, ROI: 6.11, Role: "wicketkeeper", Team: "IND"},
			{Name: "Sheldon Cottrell", Credits: 8, ROI: 2.5, Role: "bowler", Team: "WI"},
		},
		Objective:   8.61,
		CreditsUsed: 17,
		MaxCredits:  100,
		TeamCounts:  map[string]int{"WI": 1, "IND": 1},
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, sampleSummary())
	output := buf.String()

	expected := []string{
		"--- Selected roster (2 players) ---",
		"Player                   | Credits | Role",
		"Rishabh Pant             |       9 | wicketkeeper",
		"Sheldon Cottrell         |       8 | bowler",
		"Total credits used: 17.00 of 100.00",
		"Maximized ROI: 8.61",
		"Team IND: 1\nTeam WI: 1",
		"Status: optimal",
	}
	for _, e := range expected {
		if !strings.Contains(output, e) {
			t.Errorf("PrettyFormat missing %q in:\n%s", e, output)
		}
	}
}

func TestPrettyFormatThousandsSeparator(t *testing.T) {
	s := sampleSummary()
	s.Objective = 1234.567
	var buf bytes.Buffer
	PrettyFormat(&buf, s)
	if !strings.Contains(buf.String(), "Maximized ROI: 1,234.57") {
		t.Errorf("expected grouped ROI, got:\n%s", buf.String())
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, sampleSummary()); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}
	want := `player,credits,roi,role,team
Rishabh Pant,9,6.11,wicketkeeper,IND
Sheldon Cottrell,8,2.50,bowler,WI
total,17,8.61,optimal,
`
	if buf.String() != want {
		t.Errorf("CsvFormat() = %q, want %q", buf.String(), want)
	}
}

func TestCsvFormatQuotesSpecialCharacters(t *testing.T) {
	s := sampleSummary()
	s.Players[0].Name = `Rishabh "Spidey" Pant`
	s.Players[1].Name = "Cottrell, Sheldon"

	var buf bytes.Buffer
	if err := CsvFormat(&buf, s); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CsvFormat() produced unreadable CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	if records[1][0] != `Rishabh "Spidey" Pant` {
		t.Errorf("quoted name = %q", records[1][0])
	}
	if records[2][0] != "Cottrell, Sheldon" {
		t.Errorf("name with comma = %q", records[2][0])
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, sampleSummary()); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}
	var decoded optimization.Summary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.ID != sampleSummary().ID || len(decoded.Players) != 2 {
		t.Errorf("unexpected decoded summary %+v", decoded)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		format    string
		expectErr bool
		contains  string
	}{
		{"pretty", false, "Status: optimal"},
		{"csv", false, "total,17,8.61,optimal,"},
		{"json", false, `"status": "optimal"`},
		{"xml", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			err := Render(&buf, tt.format, sampleSummary())
			if tt.expectErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("Render(%s) missing %q", tt.format, tt.contains)
			}
		})
	}
}

func TestWriteModelFile(t *testing.T) {
	m := milp.NewModel("Tiny", milp.Maximize)
	x := m.AddBinary("x")
	var obj milp.LinearExpr
	obj.Add(x, 1)
	m.SetObjective("Obj", obj)
	m.AddConstraint("Cap", obj, milp.LessEq, 1)

	path := filepath.Join(t.TempDir(), "nested", "dir", "model.lp")
	if err := WriteModelFile(path, m); err != nil {
		t.Fatalf("WriteModelFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("model file not written: %v", err)
	}
	if !strings.Contains(string(data), "Cap: x <= 1") {
		t.Errorf("unexpected model file:\n%s", data)
	}

	if err := WriteModelFile(filepath.Join(t.TempDir(), "bad.lp"), milp.NewModel("Empty", milp.Maximize)); err == nil {
		t.Error("expected error for an invalid model")
	}
}

func TestWriteSolutionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "solution.csv")
	err := WriteSolutionFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("playerName\nRishabh Pant\n"))
		return err
	})
	if err != nil {
		t.Fatalf("WriteSolutionFile() error = %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "playerName\nRishabh Pant\n" {
		t.Errorf("unexpected solution file %q", data)
	}
}
