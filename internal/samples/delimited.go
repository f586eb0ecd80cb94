package samples

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LoadDelimited opens path and reads it with ReadDelimited.
func LoadDelimited(path string, comma rune, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	return ReadDelimited(f, comma, opts)
}

// ReadDelimited reads a header row followed by data rows. Columns are
// matched by name, case-insensitively, and may appear in any order.
func ReadDelimited(r io.Reader, comma rune, opts Options) (*Result, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty sample source")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	positions, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	c := newCollector(opts)
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		if isBlank(record) {
			continue
		}

		if err := c.add(row, project(record, positions)); err != nil {
			return nil, err
		}
	}

	return c.done(), nil
}

// resolveColumns maps every required column to its index in header.
func resolveColumns(header []string) ([]int, error) {
	positions := make([]int, len(Columns))
	for i, column := range Columns {
		positions[i] = findColumn(header, column)
		if positions[i] < 0 {
			return nil, &RowError{Row: 0, Cells: header, Reason: fmt.Sprintf("missing column %q", column)}
		}
	}
	return positions, nil
}

func findColumn(header []string, name string) int {
	for i, cell := range header {
		if strings.EqualFold(cleanCell(cell), name) {
			return i
		}
	}
	return -1
}

// project reorders record into Columns order. Short records keep only the
// cells they have so parseRow can report the row.
func project(record []string, positions []int) []string {
	out := make([]string, 0, len(positions))
	for _, pos := range positions {
		if pos >= len(record) {
			return record
		}
		out = append(out, record[pos])
	}
	return out
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
