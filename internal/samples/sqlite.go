package samples

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"
)

const defaultTable = "samples"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// OpenSQLite opens the database file at path with the pure-Go SQLite driver.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return db, nil
}

// ReadSQLite reads samples from a table whose columns are the lower-cased
// names of Columns. Rows are returned in rowid order.
func ReadSQLite(ctx context.Context, db *sql.DB, opts Options) (*Result, error) {
	table := strings.TrimSpace(opts.Table)
	if table == "" {
		table = defaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	columns := make([]string, len(Columns))
	for i, c := range Columns {
		columns[i] = strings.ToLower(c)
	}

	query := fmt.Sprintf("SELECT rowid, %s FROM %s ORDER BY rowid", strings.Join(columns, ", "), table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	c := newCollector(opts)
	for rows.Next() {
		var rowID int
		values := make([]sql.NullString, len(Columns))
		dest := make([]any, 0, len(Columns)+1)
		dest = append(dest, &rowID)
		for i := range values {
			dest = append(dest, &values[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}

		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = v.String
		}

		if err := c.add(rowID, cells); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}

	return c.done(), nil
}
