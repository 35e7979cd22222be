package seeder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"talent-match/internal/database"
)

// Columns names the columns a seeder writes, keyed by table.
type Columns map[string][]string

var ErrSchemaMismatch = errors.New("schema mismatch")

// RequireColumns checks every table in want against information_schema in
// one round trip and reports all missing columns together.
func RequireColumns(ctx context.Context, db database.DB, want Columns) error {
	if db == nil {
		return errors.New("nil db")
	}
	tables, err := want.tables()
	if err != nil {
		return err
	}

	rows, err := db.Query(ctx, `
		SELECT table_name, column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = ANY($1)`,
		tables,
	)
	if err != nil {
		return fmt.Errorf("read columns: %w", err)
	}
	defer rows.Close()

	have := map[string]map[string]bool{}
	for rows.Next() {
		var table, col string
		if err := rows.Scan(&table, &col); err != nil {
			return err
		}
		if have[table] == nil {
			have[table] = map[string]bool{}
		}
		have[table][col] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if missing := want.missing(have); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return nil
}

func (c Columns) tables() ([]string, error) {
	if len(c) == 0 {
		return nil, errors.New("no tables")
	}
	out := make([]string, 0, len(c))
	for table, cols := range c {
		if table == "" {
			return nil, errors.New("empty table")
		}
		for _, col := range cols {
			if col == "" {
				return nil, fmt.Errorf("empty column for %s", table)
			}
		}
		out = append(out, table)
	}
	sort.Strings(out)
	return out, nil
}

// missing lists table.column pairs absent from have, sorted.
func (c Columns) missing(have map[string]map[string]bool) []string {
	var out []string
	for table, cols := range c {
		for _, col := range cols {
			if !have[table][col] {
				out = append(out, table+"."+col)
			}
		}
	}
	sort.Strings(out)
	return out
}
