package dialect

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure Go SQLite driver, registered as "sqlite"
)

// SQLiteDialect serves local survey files and in-memory test databases.
// Dates are stored as ISO-8601 text.
type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string { return "sqlite" }

func (d *SQLiteDialect) CurrentSchemaQuery() string {
	return "SELECT 'main'"
}

func (d *SQLiteDialect) GetColumnsQuery(schema string) string {
	return `SELECT m.name, p.name FROM sqlite_master m JOIN pragma_table_info(m.name) p WHERE m.type = 'table' AND ? IS NOT NULL ORDER BY m.name, p.cid`
}

func (d *SQLiteDialect) BeforeSeed(tx *sql.Tx) error {
	return nil
}

func (d *SQLiteDialect) SelectQuery(table string, cols []string) string {
	return DefaultSelectQuery(table, cols)
}

func (d *SQLiteDialect) InsertQuery(table string, cols []string) string {
	return DefaultInsertQuery(table, cols, d.Placeholder)
}

func (d *SQLiteDialect) CreateTableQuery(table string, cols []ColumnDef) string {
	return DefaultCreateTableQuery(d, table, cols)
}

func (d *SQLiteDialect) TruncateQuery(table string) string {
	// no TRUNCATE in SQLite
	return fmt.Sprintf("DELETE FROM %s", table)
}

func (d *SQLiteDialect) Placeholder(index int) string {
	return "?"
}

func (d *SQLiteDialect) DateText(column string) string {
	return fmt.Sprintf("substr(%s, 1, 10)", column)
}

func (d *SQLiteDialect) EscapeLike(s string) string {
	return DefaultEscapeLike(s)
}

func (d *SQLiteDialect) ColumnType(kind string) string {
	switch kind {
	case "number":
		return "REAL"
	default:
		return "TEXT"
	}
}

func (d *SQLiteDialect) IdentityColumn(name string) string {
	return name + " INTEGER PRIMARY KEY AUTOINCREMENT"
}

func (d *SQLiteDialect) GetSchemaName(input string) string {
	if input == "" {
		return "main"
	}
	return input
}

func (d *SQLiteDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}
