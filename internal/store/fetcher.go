package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"survey-stats/internal/dialect"
	"survey-stats/internal/filter"
	"survey-stats/internal/schema"

	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// Querier is the part of *sql.DB / *sql.Tx the fetcher needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Query selects records of one family.
type Query struct {
	Family    schema.Family
	Predicate *filter.Predicate // nil selects every row

	// Limit > 0 keeps the newest rows by date field, then id.
	Limit int
}

// FetchError wraps a datastore failure for one family. The driver error is
// reachable through errors.Is / errors.As.
type FetchError struct {
	Family schema.Family
	Table  string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s from %s: %v", e.Family, e.Table, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher reads survey records through database/sql.
type Fetcher struct {
	db      Querier
	dialect dialect.Dialect
	tables  TableMap
	logger  *zap.Logger
}

func NewFetcher(db Querier, d dialect.Dialect, tables TableMap, logger *zap.Logger) *Fetcher {
	if tables == nil {
		tables = DefaultTables()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{db: db, dialect: d, tables: tables, logger: logger}
}

// BuildQuery renders the SELECT statement and bind arguments for q.
func (f *Fetcher) BuildQuery(q Query) (string, []any, error) {
	s, err := schema.Get(q.Family)
	if err != nil {
		return "", nil, err
	}
	table, err := f.tables.Table(q.Family)
	if err != nil {
		return "", nil, err
	}
	if q.Predicate != nil && q.Predicate.Family() != q.Family {
		return "", nil, &schema.ConfigurationError{
			Family: string(q.Family),
			Reason: fmt.Sprintf("predicate built for %s", q.Predicate.Family()),
		}
	}

	query := f.dialect.SelectQuery(table, s.Columns)
	var args []any
	if q.Predicate != nil {
		where, whereArgs := q.Predicate.SQL(f.dialect, 0)
		if where != "" {
			query += " WHERE " + where
			args = whereArgs
		}
	}
	if q.Limit > 0 {
		query += fmt.Sprintf(" ORDER BY %s DESC, id DESC", s.DateField)
		query = f.dialect.GetLimitRowQuery(query, q.Limit)
	}
	return query, args, nil
}

// Fetch runs q and returns the matching records in datastore order.
func (f *Fetcher) Fetch(ctx context.Context, q Query) ([]schema.Record, error) {
	query, args, err := f.BuildQuery(q)
	if err != nil {
		return nil, err
	}
	table := f.tables[q.Family]

	start := time.Now()
	rows, err := f.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &FetchError{Family: q.Family, Table: table, Err: err}
	}
	defer rows.Close()

	records, err := scanRecords(q.Family, rows)
	if err != nil {
		return nil, &FetchError{Family: q.Family, Table: table, Err: err}
	}

	f.logger.Debug("fetched survey records",
		zap.String("family", q.Family.String()),
		zap.String("table", table),
		zap.Int("rows", len(records)),
		zap.Duration("elapsed", time.Since(start)))
	return records, nil
}

func scanRecords(fam schema.Family, rows *sql.Rows) ([]schema.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = strings.ToLower(c)
	}

	var records []schema.Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		var id int64
		fields := make(map[string]any, len(cols))
		for i, name := range names {
			v := vals[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			if name == "id" {
				id = cast.ToInt64(v)
				continue
			}
			fields[name] = v
		}
		records = append(records, schema.NewRecord(fam, id, fields))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return records, nil
}
