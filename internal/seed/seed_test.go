package seed_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"survey-stats/internal/dialect"
	"survey-stats/internal/filter"
	"survey-stats/internal/schema"
	"survey-stats/internal/seed"
	"survey-stats/internal/store"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var (
	from = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to   = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
)

func TestGenerator_Bounds(t *testing.T) {
	gen := seed.NewGenerator(42)
	for _, f := range schema.Families() {
		fs := schema.MustGet(f)
		for i := 0; i < 50; i++ {
			rows := gen.Respondent(fs, from, to)
			if fs.HasPV() {
				require.Len(t, rows, 2)
				assert.Equal(t, schema.PVPre, rows[0]["pv"])
				assert.Equal(t, schema.PVPost, rows[1]["pv"])
				assert.Equal(t, rows[0]["agency"], rows[1]["agency"])
			} else {
				require.Len(t, rows, 1)
			}

			for _, row := range rows {
				day, err := time.Parse("2006-01-02", row["openday"].(string))
				require.NoError(t, err)
				assert.False(t, day.Before(from.AddDate(0, 0, -1)) || day.After(to), "openday %s", day)

				for _, sf := range fs.ScoreFields() {
					v := row[sf].(int)
					// 0은 미응답, 응답값은 1부터
					assert.True(t, v == 0 || (v >= 1 && v <= fs.ScaleMax), "%s %s=%d", f, sf, v)
				}
				assert.Len(t, seed.Values(fs, row), len(fs.Columns))
			}
		}
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	fs := schema.MustGet(schema.Counsel)
	a := seed.NewGenerator(7).Respondent(fs, from, to)
	b := seed.NewGenerator(7).Respondent(fs, from, to)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different rows:\n%s", diff)
	}
}

func TestColumnDefs(t *testing.T) {
	defs := seed.ColumnDefs(schema.MustGet(schema.Program))
	kinds := map[string]string{}
	for _, d := range defs {
		kinds[d.Name] = d.Kind
	}
	assert.Equal(t, "text", kinds["agency"])
	assert.Equal(t, "date", kinds["openday"])
	assert.Equal(t, "number", kinds["age"])
	assert.Equal(t, "number", kinds["score9"])
}

func TestPump(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	ctx := context.Background()
	d := &dialect.SQLiteDialect{}
	tables := store.DefaultTables()
	pumper := seed.NewPumper(db, d, tables, zap.NewNop())
	families := []schema.Family{schema.Program, schema.Counsel}

	created, err := pumper.EnsureTables(ctx, families)
	require.NoError(t, err)
	assert.Equal(t, families, created)

	// 두 번째 호출은 아무것도 만들지 않음
	created, err = pumper.EnsureTables(ctx, families)
	require.NoError(t, err)
	assert.Empty(t, created)

	progress := 0
	results, err := pumper.Pump(ctx, families, seed.Options{Count: 25, From: from, To: to, Seed: 1}, func() { progress++ })
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "OK", r.Status, r.ErrorMsg)
		assert.Equal(t, 25, r.Actual)
	}
	assert.Equal(t, 50, progress)

	fetcher := store.NewFetcher(db, d, tables, zap.NewNop())
	records, err := fetcher.Fetch(ctx, store.Query{Family: schema.Counsel})
	require.NoError(t, err)
	assert.Len(t, records, 25)

	pre := filter.MustBuild(schema.Counsel, []filter.Token{{Field: "pv", Value: schema.PVPre}}, filter.DateRange{})
	preRecords, err := fetcher.Fetch(ctx, store.Query{Family: schema.Counsel, Predicate: pre})
	require.NoError(t, err)
	assert.Len(t, preRecords, 13)

	require.NoError(t, pumper.Clean(ctx, families))
	records, err = fetcher.Fetch(ctx, store.Query{Family: schema.Program})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPump_MissingTable(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	pumper := seed.NewPumper(db, &dialect.SQLiteDialect{}, store.DefaultTables(), nil)
	_, err = pumper.Pump(context.Background(), []schema.Family{schema.Healing}, seed.Options{Count: 1}, nil)
	assert.Error(t, err)
}
