package seed

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"survey-stats/internal/dialect"
	"survey-stats/internal/schema"
	"survey-stats/internal/store"

	"go.uber.org/zap"
)

// Result reports one family's seeding outcome.
type Result struct {
	Family    schema.Family
	TableName string
	Target    int
	Actual    int
	Status    string
	ErrorMsg  string
}

// Options controls a seeding run.
type Options struct {
	Count int // rows per family
	From  time.Time
	To    time.Time
	Seed  int64
}

// Pumper writes generated survey rows into the family tables.
type Pumper struct {
	db      *sql.DB
	dialect dialect.Dialect
	tables  store.TableMap
	logger  *zap.Logger
}

func NewPumper(db *sql.DB, d dialect.Dialect, tables store.TableMap, logger *zap.Logger) *Pumper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pumper{db: db, dialect: d, tables: tables, logger: logger}
}

// ColumnDefs lists the created columns of a family table, id excluded.
func ColumnDefs(fs *schema.FamilySchema) []dialect.ColumnDef {
	defs := make([]dialect.ColumnDef, len(fs.Columns))
	for i, c := range fs.Columns {
		st, _ := fs.Strategy(c)
		defs[i] = dialect.ColumnDef{Name: c, Kind: string(st.Kind())}
	}
	return defs
}

// EnsureTables creates the family tables that do not exist yet and returns
// the families whose tables were created.
func (p *Pumper) EnsureTables(ctx context.Context, families []schema.Family) ([]schema.Family, error) {
	statuses, err := store.Inspect(ctx, p.db, p.dialect, p.tables, families)
	if err != nil {
		return nil, err
	}

	var created []schema.Family
	for _, st := range statuses {
		if st.Exists {
			if len(st.MissingColumns) > 0 {
				return created, fmt.Errorf("table %s exists but lacks columns %v", st.Table, st.MissingColumns)
			}
			continue
		}
		fs := schema.MustGet(st.Family)
		query := p.dialect.CreateTableQuery(st.Table, ColumnDefs(fs))
		if _, err := p.db.ExecContext(ctx, query); err != nil {
			return created, fmt.Errorf("failed to create %s: %w", st.Table, err)
		}
		p.logger.Info("created survey table", zap.String("family", st.Family.String()), zap.String("table", st.Table))
		created = append(created, st.Family)
	}
	return created, nil
}

// Pump inserts opts.Count generated rows into every family table, one
// transaction per family.
func (p *Pumper) Pump(ctx context.Context, families []schema.Family, opts Options, onProgress func()) ([]Result, error) {
	if opts.To.IsZero() {
		opts.To = time.Now()
	}
	if opts.From.IsZero() {
		opts.From = opts.To.AddDate(-1, 0, 0)
	}
	gen := NewGenerator(opts.Seed)

	var results []Result
	for _, f := range families {
		fs, err := schema.Get(f)
		if err != nil {
			return results, err
		}
		table, err := p.tables.Table(f)
		if err != nil {
			return results, err
		}

		// 기존 데이터 건수 확인
		initialCount, err := p.count(ctx, table)
		if err != nil {
			return results, err
		}

		inserted, err := p.pumpTable(ctx, fs, table, gen, opts, onProgress)
		res := Result{Family: f, TableName: table, Target: opts.Count, Status: "OK"}
		if err != nil {
			res.Status = "FAILED"
			res.ErrorMsg = err.Error()
			p.logger.Warn("seeding failed", zap.String("table", table), zap.Error(err))
			results = append(results, res)
			continue
		}

		// 실제 들어간 개수 확인 (Verification)
		finalCount, err := p.count(ctx, table)
		if err != nil {
			return results, err
		}
		res.Actual = finalCount - initialCount
		if res.Actual < opts.Count {
			res.Status = "MISSING DATA"
			res.ErrorMsg = fmt.Sprintf("Only inserted %d out of %d.", res.Actual, opts.Count)
		}
		p.logger.Info("seeded survey table",
			zap.String("family", f.String()),
			zap.String("table", table),
			zap.Int("rows", inserted))
		results = append(results, res)
	}
	return results, nil
}

func (p *Pumper) pumpTable(ctx context.Context, fs *schema.FamilySchema, table string, gen *Generator, opts Options, onProgress func()) (int, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if tx != nil {
			tx.Rollback()
		}
	}()

	if err := p.dialect.BeforeSeed(tx); err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, p.dialect.InsertQuery(table, fs.Columns))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for inserted < opts.Count {
		for _, row := range gen.Respondent(fs, opts.From, opts.To) {
			if inserted >= opts.Count {
				break
			}
			if _, err := stmt.ExecContext(ctx, Values(fs, row)...); err != nil {
				return inserted, fmt.Errorf("failed to insert into %s: %w", table, err)
			}
			inserted++
			if onProgress != nil {
				onProgress()
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("failed to commit %s: %w", table, err)
	}
	tx = nil
	return inserted, nil
}

func (p *Pumper) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := p.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// Clean removes every row of the family tables.
func (p *Pumper) Clean(ctx context.Context, families []schema.Family) error {
	for _, f := range families {
		table, err := p.tables.Table(f)
		if err != nil {
			return err
		}
		if _, err := p.db.ExecContext(ctx, p.dialect.TruncateQuery(table)); err != nil {
			return fmt.Errorf("failed to clean %s: %w", table, err)
		}
		p.logger.Info("cleaned survey table", zap.String("table", table))
	}
	return nil
}
