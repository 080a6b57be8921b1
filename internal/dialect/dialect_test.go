package dialect_test

import (
	"strings"
	"testing"

	"survey-stats/internal/dialect"
)

func TestGetDialect(t *testing.T) {
	cases := map[string]string{
		"mysql":     "mysql",
		"postgres":  "postgres",
		"sqlserver": "sqlserver",
		"mssql":     "sqlserver",
		"oracle":    "oracle",
		"sqlite":    "sqlite",
		"":          "mysql",
	}
	for driver, want := range cases {
		if got := dialect.GetDialect(driver).Name(); got != want {
			t.Errorf("GetDialect(%q) = %s, want %s", driver, got, want)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	cases := []struct {
		d    dialect.Dialect
		want string
	}{
		{&dialect.MysqlDialect{}, "?, ?, ?"},
		{&dialect.SQLiteDialect{}, "?, ?, ?"},
		{&dialect.PostgresDialect{}, "$1, $2, $3"},
		{&dialect.MSSQLDialect{}, "@p1, @p2, @p3"},
		{&dialect.OracleDialect{}, ":1, :2, :3"},
	}
	for _, tc := range cases {
		if got := dialect.GeneratePlaceholders(3, tc.d.Placeholder); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.d.Name(), tc.want, got)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	in := "100%_[a]!"
	if got := (&dialect.PostgresDialect{}).EscapeLike(in); got != "100!%!_[a]!!" {
		t.Errorf("postgres: %q", got)
	}
	// 대괄호는 SQL Server에서만 와일드카드
	if got := (&dialect.MSSQLDialect{}).EscapeLike(in); got != "100!%!_![a]!!" {
		t.Errorf("mssql: %q", got)
	}
	if got := (&dialect.OracleDialect{}).EscapeLike(in); got != "100!%!_[a]!!" {
		t.Errorf("oracle: %q", got)
	}
	if got := (&dialect.MysqlDialect{}).EscapeLike("서울"); got != "서울" {
		t.Errorf("plain text must pass through: %q", got)
	}
}

func TestDateText(t *testing.T) {
	cases := []struct {
		d    dialect.Dialect
		want string
	}{
		{&dialect.MysqlDialect{}, "DATE_FORMAT(openday, '%Y-%m-%d')"},
		{&dialect.PostgresDialect{}, "TO_CHAR(openday, 'YYYY-MM-DD')"},
		{&dialect.MSSQLDialect{}, "CONVERT(VARCHAR(10), openday, 23)"},
		{&dialect.OracleDialect{}, "TO_CHAR(openday, 'YYYY-MM-DD')"},
		{&dialect.SQLiteDialect{}, "substr(openday, 1, 10)"},
	}
	for _, tc := range cases {
		if got := tc.d.DateText("openday"); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.d.Name(), tc.want, got)
		}
	}
}

func TestLimitRowQuery(t *testing.T) {
	q := "SELECT id, agency FROM program_satisfaction"

	if got := (&dialect.MSSQLDialect{}).GetLimitRowQuery(q, 5); got != "SELECT TOP 5 id, agency FROM program_satisfaction" {
		t.Errorf("mssql: %s", got)
	}
	if got := (&dialect.OracleDialect{}).GetLimitRowQuery(q, 5); got != "SELECT * FROM ("+q+") WHERE ROWNUM <= 5" {
		t.Errorf("oracle: %s", got)
	}
	if got := (&dialect.PostgresDialect{}).GetLimitRowQuery(q, 5); got != q+" LIMIT 5" {
		t.Errorf("postgres: %s", got)
	}
}

func TestCreateTableQuery(t *testing.T) {
	cols := []dialect.ColumnDef{
		{Name: "agency", Kind: "text"},
		{Name: "openday", Kind: "date"},
		{Name: "score1", Kind: "number"},
	}

	got := (&dialect.SQLiteDialect{}).CreateTableQuery("program_satisfaction", cols)
	for _, want := range []string{
		"CREATE TABLE program_satisfaction",
		"id INTEGER PRIMARY KEY AUTOINCREMENT",
		"agency TEXT NULL",
		"openday TEXT NULL",
		"score1 REAL NULL",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("sqlite DDL missing %q:\n%s", want, got)
		}
	}

	got = (&dialect.PostgresDialect{}).CreateTableQuery("program_satisfaction", cols)
	if !strings.Contains(got, "id BIGSERIAL PRIMARY KEY") || !strings.Contains(got, "score1 DOUBLE PRECISION NULL") {
		t.Errorf("postgres DDL:\n%s", got)
	}
}

func TestInsertQuery(t *testing.T) {
	got := (&dialect.PostgresDialect{}).InsertQuery("counsel_effect", []string{"agency", "pv"})
	if got != "INSERT INTO counsel_effect (agency, pv) VALUES ($1, $2)" {
		t.Errorf("unexpected insert: %s", got)
	}
}
