package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"survey-stats/internal/dialect"
	"survey-stats/internal/schema"
)

// TableStatus reports how a family table compares to the registry.
type TableStatus struct {
	Family         schema.Family
	Table          string
	Exists         bool
	MissingColumns []string
}

// OK reports whether the table exists with every registry column.
func (s TableStatus) OK() bool {
	return s.Exists && len(s.MissingColumns) == 0
}

// Inspect introspects the database and checks each family table.
func Inspect(ctx context.Context, db *sql.DB, d dialect.Dialect, tables TableMap, families []schema.Family) ([]TableStatus, error) {
	var current string
	if err := db.QueryRowContext(ctx, d.CurrentSchemaQuery()).Scan(&current); err != nil {
		return nil, fmt.Errorf("failed to get schema name: %w", err)
	}
	target := d.GetSchemaName(current)

	rows, err := db.QueryContext(ctx, d.GetColumnsQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	// Store with normalized key (UPPERCASE) for robust lookups
	existing := make(map[string]map[string]bool)
	for rows.Next() {
		var tName, cName sql.NullString
		if err := rows.Scan(&tName, &cName); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		if !tName.Valid || !cName.Valid {
			continue
		}
		key := strings.ToUpper(tName.String)
		if existing[key] == nil {
			existing[key] = make(map[string]bool)
		}
		existing[key][strings.ToUpper(cName.String)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}

	out := make([]TableStatus, 0, len(families))
	for _, f := range families {
		s, err := schema.Get(f)
		if err != nil {
			return nil, err
		}
		table, err := tables.Table(f)
		if err != nil {
			return nil, err
		}

		name := table
		if i := strings.LastIndex(name, "."); i >= 0 {
			name = name[i+1:]
		}
		status := TableStatus{Family: f, Table: table}
		cols, ok := existing[strings.ToUpper(name)]
		if ok {
			status.Exists = true
			for _, c := range append([]string{"id"}, s.Columns...) {
				if !cols[strings.ToUpper(c)] {
					status.MissingColumns = append(status.MissingColumns, c)
				}
			}
		}
		out = append(out, status)
	}
	return out, nil
}
