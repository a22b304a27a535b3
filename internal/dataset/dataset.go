// Package dataset reads the player pool CSV and writes back the rows of a
// selected roster with every original column preserved.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/iwvelando/fantasy-optimizer/internal/config"
	"github.com/iwvelando/fantasy-optimizer/internal/encoder"
	ferrors "github.com/iwvelando/fantasy-optimizer/internal/errors"
)

// Table is a CSV file held in memory.
type Table struct {
	Header []string
	Rows   [][]string
}

// Load reads the CSV file at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open player pool %s: %w", path, err)
	}
	defer f.Close()

	table, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read player pool %s: %w", path, err)
	}
	return table, nil
}

// Read parses CSV text with a header row. Rows whose width differs from the
// header are reported as a SchemaError.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		schemaErr := ferrors.NewSchemaError("csv", "malformed CSV: %v", err)
		var parseErr *csv.ParseError
		if ferrors.As(err, &parseErr) && parseErr.Line > 1 {
			schemaErr = schemaErr.WithRow(parseErr.Line - 1)
		}
		return nil, schemaErr
	}
	if len(records) == 0 {
		return nil, ferrors.NewSchemaError("header", "input has no header row")
	}

	header := records[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	// Excel exports carry a byte order mark on the first header cell.
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	rows := make([][]string, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) != len(header) {
			return nil, ferrors.NewSchemaError("row", "expected %d fields, got %d", len(header), len(rec)).WithRow(i + 1)
		}
		rows = append(rows, rec)
	}

	return &Table{Header: header, Rows: rows}, nil
}

// Index returns the position of a column, or -1.
func (t *Table) Index(column string) int {
	for i, h := range t.Header {
		if strings.EqualFold(h, column) {
			return i
		}
	}
	return -1
}

// Players converts the rows into encoder input using the configured column
// names. A missing required column or non-numeric credits is a SchemaError.
// The availability column is optional.
func (t *Table) Players(columns config.ColumnsConfig) ([]encoder.Player, encoder.Availability, error) {
	required := []struct {
		field  string
		column string
	}{
		{"name", columns.Name},
		{"credits", columns.Credits},
		{"selection", columns.Selection},
		{"role", columns.Role},
		{"team", columns.Team},
	}
	idx := make(map[string]int, len(required))
	for _, r := range required {
		i := t.Index(r.column)
		if i < 0 {
			return nil, nil, ferrors.NewSchemaError(r.field, "column %q not found in header %v", r.column, t.Header)
		}
		idx[r.field] = i
	}
	availIdx := -1
	if columns.Available != "" {
		availIdx = t.Index(columns.Available)
	}

	players := make([]encoder.Player, 0, len(t.Rows))
	var availability encoder.Availability
	for n, row := range t.Rows {
		name := strings.TrimSpace(row[idx["name"]])
		raw := strings.TrimSpace(row[idx["credits"]])
		credits, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, nil, ferrors.NewSchemaError("credits", "credits %q is not a number", raw).WithPlayer(name).WithRow(n + 1)
		}

		players = append(players, encoder.Player{
			Name:      name,
			Credits:   credits,
			Selection: strings.TrimSpace(row[idx["selection"]]),
			Role:      strings.TrimSpace(row[idx["role"]]),
			Team:      strings.TrimSpace(row[idx["team"]]),
		})

		if availIdx >= 0 {
			available, err := ParseAvailable(row[availIdx])
			if err != nil {
				return nil, nil, ferrors.NewSchemaError("availability", "%v", err).WithPlayer(name).WithRow(n + 1)
			}
			if !available {
				if availability == nil {
					availability = encoder.Availability{}
				}
				availability[name] = false
			}
		}
	}

	return players, availability, nil
}

// ParseAvailable accepts true/false, 1/0, yes/no and y/n. An empty cell
// means available.
func ParseAvailable(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "true", "1", "yes", "y":
		return true, nil
	case "false", "0", "no", "n":
		return false, nil
	default:
		return false, fmt.Errorf("availability %q is not a boolean", s)
	}
}

// Filter returns a table holding only the rows of the named players, in
// their original order. column names the player name column.
func (t *Table) Filter(column string, names []string) (*Table, error) {
	i := t.Index(column)
	if i < 0 {
		return nil, ferrors.NewSchemaError("name", "column %q not found in header %v", column, t.Header)
	}
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}

	out := &Table{Header: t.Header}
	for _, row := range t.Rows {
		if keep[strings.TrimSpace(row[i])] {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// Write renders the table as CSV.
func (t *Table) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return err
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return err
	}
	return writer.Error()
}

// Encode converts the rows into players and encodes them.
func (t *Table) Encode(columns config.ColumnsConfig) (*encoder.Encoding, error) {
	players, availability, err := t.Players(columns)
	if err != nil {
		return nil, err
	}
	return encoder.Encode(players, availability)
}
