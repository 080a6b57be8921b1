package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/denisenkom/go-mssqldb" // SQL Server Driver
)

type MSSQLDialect struct{}

// Helper: MSSQL Driver (go-mssqldb) prefers @p1, @p2 named parameters over ?

func (d *MSSQLDialect) Name() string { return "sqlserver" }

func (d *MSSQLDialect) CurrentSchemaQuery() string {
	return "SELECT SCHEMA_NAME()"
}

func (d *MSSQLDialect) GetColumnsQuery(schema string) string {
	return `SELECT c.TABLE_NAME, c.COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS c WHERE c.TABLE_SCHEMA = @p1 ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`
}

func (d *MSSQLDialect) BeforeSeed(tx *sql.Tx) error {
	return nil
}

func (d *MSSQLDialect) SelectQuery(table string, cols []string) string {
	return DefaultSelectQuery(table, cols)
}

func (d *MSSQLDialect) InsertQuery(table string, cols []string) string {
	return DefaultInsertQuery(table, cols, d.Placeholder)
}

func (d *MSSQLDialect) CreateTableQuery(table string, cols []ColumnDef) string {
	return DefaultCreateTableQuery(d, table, cols)
}

func (d *MSSQLDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", table)
}

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}

func (d *MSSQLDialect) DateText(column string) string {
	// style 23 = yyyy-mm-dd
	return fmt.Sprintf("CONVERT(VARCHAR(10), %s, 23)", column)
}

func (d *MSSQLDialect) EscapeLike(s string) string {
	// T-SQL also treats [ as a character-class opener.
	return DefaultEscapeLike(s, "[")
}

func (d *MSSQLDialect) ColumnType(kind string) string {
	switch kind {
	case "number":
		return "FLOAT"
	case "date":
		return "DATE"
	default:
		return "NVARCHAR(200)"
	}
}

func (d *MSSQLDialect) IdentityColumn(name string) string {
	return name + " BIGINT IDENTITY(1,1) PRIMARY KEY"
}

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}

func (d *MSSQLDialect) GetLimitRowQuery(query string, limit int) string {
	// Simple T-SQL TOP injection
	trimmed := strings.TrimSpace(query)
	if strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return strings.Replace(query, "SELECT", fmt.Sprintf("SELECT TOP %d", limit), 1)
	}
	return query
}
