package dialect

import (
	"database/sql"
	"fmt"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string { return "oracle" }

func (d *OracleDialect) CurrentSchemaQuery() string {
	return "SELECT USER FROM DUAL"
}

func (d *OracleDialect) GetColumnsQuery(schema string) string {
	// USER_TAB_COLUMNS lists columns of tables owned by the current user.
	// We include a dummy clause to consume the schema argument if passed by standard callers.
	return `SELECT TABLE_NAME, COLUMN_NAME FROM USER_TAB_COLUMNS WHERE :1 IS NOT NULL ORDER BY TABLE_NAME, COLUMN_ID`
}

func (d *OracleDialect) BeforeSeed(tx *sql.Tx) error {
	// Seed rows carry dates as YYYY-MM-DD strings.
	if _, err := tx.Exec("ALTER SESSION SET NLS_DATE_FORMAT = 'YYYY-MM-DD'"); err != nil {
		return fmt.Errorf("failed to set NLS_DATE_FORMAT: %w", err)
	}
	return nil
}

func (d *OracleDialect) SelectQuery(table string, cols []string) string {
	return DefaultSelectQuery(table, cols)
}

func (d *OracleDialect) InsertQuery(table string, cols []string) string {
	return DefaultInsertQuery(table, cols, d.Placeholder)
}

func (d *OracleDialect) CreateTableQuery(table string, cols []ColumnDef) string {
	return DefaultCreateTableQuery(d, table, cols)
}

func (d *OracleDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", table)
}

func (d *OracleDialect) Placeholder(index int) string {
	// Oracle uses :1, :2, etc. (1-based index)
	return fmt.Sprintf(":%d", index+1)
}

func (d *OracleDialect) DateText(column string) string {
	return fmt.Sprintf("TO_CHAR(%s, 'YYYY-MM-DD')", column)
}

func (d *OracleDialect) EscapeLike(s string) string {
	// ORA-01424: the escape character may only precede %, _ or itself.
	return DefaultEscapeLike(s)
}

func (d *OracleDialect) ColumnType(kind string) string {
	switch kind {
	case "number":
		return "NUMBER"
	case "date":
		return "DATE"
	default:
		return "VARCHAR2(200 CHAR)"
	}
}

func (d *OracleDialect) IdentityColumn(name string) string {
	return name + " NUMBER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"
}

func (d *OracleDialect) GetSchemaName(input string) string {
	return input
}

func (d *OracleDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("SELECT * FROM (%s) WHERE ROWNUM <= %d", query, limit)
}
