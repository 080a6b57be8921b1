package dialect

import (
	"database/sql"
	"fmt"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) CurrentSchemaQuery() string {
	return "SELECT current_schema()"
}

func (d *PostgresDialect) GetColumnsQuery(schema string) string {
	// use $1 placeholder
	return `SELECT c.table_name, c.column_name FROM information_schema.columns c WHERE c.table_schema = $1 ORDER BY c.table_name, c.ordinal_position`
}

func (d *PostgresDialect) BeforeSeed(tx *sql.Tx) error {
	return nil
}

func (d *PostgresDialect) SelectQuery(table string, cols []string) string {
	return DefaultSelectQuery(table, cols)
}

func (d *PostgresDialect) InsertQuery(table string, cols []string) string {
	return DefaultInsertQuery(table, cols, d.Placeholder)
}

func (d *PostgresDialect) CreateTableQuery(table string, cols []ColumnDef) string {
	return DefaultCreateTableQuery(d, table, cols)
}

func (d *PostgresDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY", table)
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

func (d *PostgresDialect) DateText(column string) string {
	return fmt.Sprintf("TO_CHAR(%s, 'YYYY-MM-DD')", column)
}

func (d *PostgresDialect) EscapeLike(s string) string {
	return DefaultEscapeLike(s)
}

func (d *PostgresDialect) ColumnType(kind string) string {
	switch kind {
	case "number":
		return "DOUBLE PRECISION"
	case "date":
		return "DATE"
	default:
		return "VARCHAR(200)"
	}
}

func (d *PostgresDialect) IdentityColumn(name string) string {
	return name + " BIGSERIAL PRIMARY KEY"
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}

func (d *PostgresDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}
