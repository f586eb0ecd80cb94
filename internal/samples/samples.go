// Package samples loads labeled training rows from tabular sources.
//
// Every row is validated against an explicit schema. A row that fails is a
// malformed row: by default it is skipped and logged, with Options.Strict the
// first malformed row aborts the load.
package samples

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-recommender/internal/features"
	"github.com/spigell/career-recommender/internal/logger"
	"github.com/spigell/career-recommender/internal/utils"
	"github.com/spigell/career-recommender/internal/validation"
	"github.com/spigell/career-recommender/internal/vocab"
)

const (
	ColumnInterests     = "Interests"
	ColumnSubjects      = "Subjects"
	ColumnCommunication = "Communication"
	ColumnProgramming   = "Programming"
	ColumnManagement    = "Management"
	ColumnCreativity    = "Creativity"
	ColumnLabel         = "Label"

	defaultTokenDelimiter = ","
	previewLength         = 120
)

// Columns lists the required columns in schema order.
var Columns = []string{
	ColumnInterests,
	ColumnSubjects,
	ColumnCommunication,
	ColumnProgramming,
	ColumnManagement,
	ColumnCreativity,
	ColumnLabel,
}

// ErrMalformedRow is matched by every schema violation of a source row.
var ErrMalformedRow = errors.New("malformed row")

// RowError describes why a row was rejected. Row 0 refers to the header.
type RowError struct {
	Row    int
	Reason string
	Cells  []string
	// Err is the underlying cause, if any.
	Err error
}

func (e *RowError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("%s: header: %s", ErrMalformedRow, e.Reason)
	}
	return fmt.Sprintf("%s %d: %s", ErrMalformedRow, e.Row, e.Reason)
}

func (e *RowError) Is(target error) bool { return target == ErrMalformedRow }

func (e *RowError) Unwrap() error { return e.Err }

// Sample is one labeled training record.
type Sample struct {
	Row       int             `validate:"-"`
	Interests []string        `validate:"-"`
	Subjects  []string        `validate:"-"`
	Skills    features.Skills `validate:"required"`
	Label     string          `validate:"required"`
}

// Options controls how rows are read.
type Options struct {
	// Strict aborts the load on the first malformed row.
	Strict bool
	// TokenDelimiter separates interests and subjects inside a cell. Defaults to ",".
	TokenDelimiter string
	// Table is the SQLite table name. Defaults to "samples".
	Table  string
	Logger *zap.Logger
}

// Result holds the accepted samples in source order and the rejected rows.
type Result struct {
	Samples []Sample
	Skipped []*RowError
}

func (r *Result) Loaded() int { return len(r.Samples) }

// Load reads samples from path. The format is chosen by extension:
// .csv and .tsv are delimited text, .db, .sqlite and .sqlite3 are SQLite databases.
func Load(ctx context.Context, path string, opts Options) (*Result, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadDelimited(path, ',', opts)
	case ".tsv":
		return LoadDelimited(path, '\t', opts)
	case ".db", ".sqlite", ".sqlite3":
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return ReadSQLite(ctx, db, opts)
	default:
		return nil, fmt.Errorf("unsupported sample source %q: expected .csv, .tsv, .db, .sqlite or .sqlite3", filepath.Base(path))
	}
}

// collector applies the malformed-row policy while rows stream in.
type collector struct {
	opts   Options
	logger *zap.Logger
	result *Result
}

func newCollector(opts Options) *collector {
	if strings.TrimSpace(opts.TokenDelimiter) == "" {
		opts.TokenDelimiter = defaultTokenDelimiter
	}
	return &collector{
		opts:   opts,
		logger: logger.OrNop(opts.Logger),
		result: &Result{},
	}
}

// add parses one row whose cells are ordered like Columns.
func (c *collector) add(row int, cells []string) error {
	sample, err := parseRow(row, cells, c.opts.TokenDelimiter)
	if err == nil {
		c.result.Samples = append(c.result.Samples, sample)
		return nil
	}

	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		return err
	}

	if c.opts.Strict {
		return rowErr
	}

	c.logger.Warn("skipping malformed row",
		zap.Int("row", rowErr.Row),
		zap.String("reason", rowErr.Reason),
		zap.String("preview", utils.PreviewRow(rowErr.Cells, previewLength)),
	)
	c.result.Skipped = append(c.result.Skipped, rowErr)
	return nil
}

func (c *collector) done() *Result {
	c.logger.Debug("samples loaded",
		zap.Int("loaded", len(c.result.Samples)),
		zap.Int("skipped", len(c.result.Skipped)),
	)
	return c.result
}

func parseRow(row int, cells []string, delimiter string) (Sample, error) {
	if len(cells) < len(Columns) {
		return Sample{}, &RowError{Row: row, Cells: cells, Reason: fmt.Sprintf("expected %d cells, got %d", len(Columns), len(cells))}
	}

	var skills [4]int
	for i, column := range Columns[2:6] {
		raw := strings.TrimSpace(cells[2+i])
		value, err := strconv.Atoi(raw)
		if err != nil {
			return Sample{}, &RowError{Row: row, Cells: cells, Reason: fmt.Sprintf("%s: %q is not an integer", strings.ToLower(column), raw)}
		}
		skills[i] = value
	}

	sample := Sample{
		Row:       row,
		Interests: vocab.Split(cells[0], delimiter),
		Subjects:  vocab.Split(cells[1], delimiter),
		Skills:    features.SkillsFromValues(skills),
		Label:     strings.TrimSpace(cells[6]),
	}

	if err := validation.Struct(sample); err != nil {
		return Sample{}, &RowError{Row: row, Cells: cells, Reason: err.Error(), Err: err}
	}

	return sample, nil
}
