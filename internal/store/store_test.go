package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"survey-stats/internal/dialect"
	"survey-stats/internal/filter"
	"survey-stats/internal/schema"
	"survey-stats/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// every connection to :memory: is a new database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTable(t *testing.T, db *sql.DB, f schema.Family, table string) {
	t.Helper()
	s := schema.MustGet(f)
	d := &dialect.SQLiteDialect{}
	cols := make([]dialect.ColumnDef, 0, len(s.Columns))
	for _, c := range s.Columns {
		st, _ := s.Strategy(c)
		cols = append(cols, dialect.ColumnDef{Name: c, Kind: string(st.Kind())})
	}
	_, err := db.Exec(d.CreateTableQuery(table, cols))
	require.NoError(t, err)
}

func insert(t *testing.T, db *sql.DB, table string, row map[string]any) {
	t.Helper()
	cols := make([]string, 0, len(row))
	args := make([]any, 0, len(row))
	for c, v := range row {
		cols = append(cols, c)
		args = append(args, v)
	}
	_, err := db.Exec((&dialect.SQLiteDialect{}).InsertQuery(table, cols), args...)
	require.NoError(t, err)
}

func seedProgram(t *testing.T, db *sql.DB) {
	createTable(t, db, schema.Program, "program_satisfaction")
	rows := []map[string]any{
		{"agency": "서울 한빛초등학교", "residence": "서울", "sex": "남", "age": 12, "openday": "2024-05-10", "bunya": "명상", "score1": 4},
		{"agency": "부산 복지관", "residence": nil, "sex": "여", "age": 70, "openday": "2024-07-02", "bunya": "체험", "score1": 5},
		{"agency": "대전 시청 50%", "residence": "", "sex": "여", "age": "45", "openday": "2024-06-30", "bunya": "명상", "score1": 0},
		{"agency": "Seoul Tech", "residence": "경기", "sex": nil, "openday": nil, "bunya": "교육"},
	}
	for _, r := range rows {
		insert(t, db, "program_satisfaction", r)
	}
}

func ids(records []schema.Record) []int64 {
	out := make([]int64, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestFetch_AllRows(t *testing.T) {
	db := openTestDB(t)
	seedProgram(t, db)
	fetcher := store.NewFetcher(db, &dialect.SQLiteDialect{}, nil, zap.NewNop())

	records, err := fetcher.Fetch(context.Background(), store.Query{Family: schema.Program})
	require.NoError(t, err)
	require.Len(t, records, 4)

	first := records[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, schema.Program, first.Family)
	assert.Equal(t, "서울 한빛초등학교", first.Text("agency"))
	assert.Equal(t, "2024-05-10", first.Date("openday"))
	score, ok := first.Score(1)
	assert.True(t, ok)
	assert.Equal(t, 4.0, score)
	assert.True(t, records[3].IsBlank("openday"))
}

// SQL로 거른 결과와 메모리에서 거른 결과가 같아야 한다
func TestFetch_PredicateParity(t *testing.T) {
	db := openTestDB(t)
	seedProgram(t, db)
	fetcher := store.NewFetcher(db, &dialect.SQLiteDialect{}, nil, zap.NewNop())
	ctx := context.Background()

	all, err := fetcher.Fetch(ctx, store.Query{Family: schema.Program})
	require.NoError(t, err)

	june, _ := filter.ParseDateRange("2024-06-01", "2024-06-30")
	upper, _ := filter.ParseDateRange("", "2024-06-30")
	cases := []struct {
		name   string
		tokens []filter.Token
		dates  filter.DateRange
		want   []int64
	}{
		{"exact", []filter.Token{{Field: "sex", Value: "여"}}, filter.DateRange{}, []int64{2, 3}},
		{"substring", []filter.Token{{Field: "agency", Value: "SEOUL"}}, filter.DateRange{}, []int64{4}},
		{"wildcard-literal", []filter.Token{{Field: "agency", Value: "50%"}}, filter.DateRange{}, []int64{3}},
		{"percent-alone", []filter.Token{{Field: "agency", Value: "%"}}, filter.DateRange{}, []int64{3}},
		{"missing-text", []filter.Token{{Field: "residence", Value: "미기재"}}, filter.DateRange{}, []int64{2, 3}},
		{"missing-number", []filter.Token{{Field: "age", Value: "미기재"}}, filter.DateRange{}, []int64{4}},
		{"numeric", []filter.Token{{Field: "age", Value: "45"}}, filter.DateRange{}, []int64{3}},
		{"numeric-garbage", []filter.Token{{Field: "age", Value: "abc"}}, filter.DateRange{}, []int64{}},
		{"date-prefix", []filter.Token{{Field: "openday", Value: "2024-0"}}, filter.DateRange{}, []int64{1, 2, 3}},
		{"range", nil, june, []int64{3}},
		{"upper-bound", nil, upper, []int64{1, 3}},
		{"combined", []filter.Token{{Field: "bunya", Value: "명상"}, {Field: "sex", Value: "남"}}, upper, []int64{1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := filter.MustBuild(schema.Program, tc.tokens, tc.dates)

			fetched, err := fetcher.Fetch(ctx, store.Query{Family: schema.Program, Predicate: p})
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(fetched), "sql")
			assert.Equal(t, tc.want, ids(p.Filter(all)), "memory")
		})
	}
}

func TestFetch_Limit(t *testing.T) {
	db := openTestDB(t)
	seedProgram(t, db)
	fetcher := store.NewFetcher(db, &dialect.SQLiteDialect{}, nil, zap.NewNop())

	records, err := fetcher.Fetch(context.Background(), store.Query{Family: schema.Program, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(records))
}

func TestFetch_MissingTable(t *testing.T) {
	db := openTestDB(t)
	fetcher := store.NewFetcher(db, &dialect.SQLiteDialect{}, nil, zap.NewNop())

	_, err := fetcher.Fetch(context.Background(), store.Query{Family: schema.Healing})
	require.Error(t, err)

	var fe *store.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, schema.Healing, fe.Family)
	assert.Equal(t, "healing_effect", fe.Table)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestBuildQuery_Postgres(t *testing.T) {
	fetcher := store.NewFetcher(nil, &dialect.PostgresDialect{}, nil, nil)
	p := filter.MustBuild(schema.Counsel, []filter.Token{{Field: "pv", Value: "사전"}, {Field: "agency", Value: "센터"}}, filter.DateRange{})

	query, args, err := fetcher.BuildQuery(store.Query{Family: schema.Counsel, Predicate: p, Limit: 10})
	require.NoError(t, err)
	assert.Contains(t, query, "FROM counsel_effect WHERE LOWER(pv) = $1 AND LOWER(agency) LIKE $2 ESCAPE '!'")
	assert.Contains(t, query, "ORDER BY eval_date DESC, id DESC LIMIT 10")
	assert.Equal(t, []any{"사전", "%센터%"}, args)
}

func TestBuildQuery_FamilyMismatch(t *testing.T) {
	fetcher := store.NewFetcher(nil, &dialect.MysqlDialect{}, nil, nil)
	p := filter.MustBuild(schema.Program, nil, filter.DateRange{})

	_, _, err := fetcher.BuildQuery(store.Query{Family: schema.Facility, Predicate: p})
	var cfg *schema.ConfigurationError
	assert.True(t, errors.As(err, &cfg))
}

func TestTableMap_WithOverrides(t *testing.T) {
	tables, err := store.DefaultTables().WithOverrides(map[string]string{
		"program": "survey.program_v2",
		"5":       "healing_2025",
	})
	require.NoError(t, err)
	assert.Equal(t, "survey.program_v2", tables[schema.Program])
	assert.Equal(t, "healing_2025", tables[schema.Healing])
	assert.Equal(t, "counsel_effect", tables[schema.Counsel])
	// the receiver is not modified
	assert.Equal(t, "program_satisfaction", store.DefaultTables()[schema.Program])

	_, err = store.DefaultTables().WithOverrides(map[string]string{"program": "x; DROP TABLE y"})
	var cfg *schema.ConfigurationError
	assert.True(t, errors.As(err, &cfg))

	_, err = store.DefaultTables().WithOverrides(map[string]string{"survey": "x"})
	assert.True(t, errors.Is(err, schema.ErrUnknownFamily))
}

func TestInspect(t *testing.T) {
	db := openTestDB(t)
	createTable(t, db, schema.Program, "program_satisfaction")
	_, err := db.Exec("CREATE TABLE service_satisfaction (id INTEGER PRIMARY KEY, agency TEXT)")
	require.NoError(t, err)

	statuses, err := store.Inspect(context.Background(), db, &dialect.SQLiteDialect{}, store.DefaultTables(),
		[]schema.Family{schema.Program, schema.Facility, schema.Counsel})
	require.NoError(t, err)
	require.Len(t, statuses, 3)

	assert.True(t, statuses[0].OK())

	assert.True(t, statuses[1].Exists)
	assert.False(t, statuses[1].OK())
	assert.Contains(t, statuses[1].MissingColumns, "score10")
	assert.NotContains(t, statuses[1].MissingColumns, "agency")

	assert.False(t, statuses[2].Exists)
}
