package dialect

import (
	"database/sql"
	"fmt"
)

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string { return "mysql" }

func (d *MysqlDialect) CurrentSchemaQuery() string {
	return "SELECT DATABASE()"
}

func (d *MysqlDialect) GetColumnsQuery(schema string) string {
	return `SELECT TABLE_NAME, COLUMN_NAME FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? ORDER BY TABLE_NAME, ORDINAL_POSITION`
}

func (d *MysqlDialect) BeforeSeed(tx *sql.Tx) error {
	return nil
}

func (d *MysqlDialect) SelectQuery(table string, cols []string) string {
	return DefaultSelectQuery(table, cols)
}

func (d *MysqlDialect) InsertQuery(table string, cols []string) string {
	return DefaultInsertQuery(table, cols, d.Placeholder)
}

func (d *MysqlDialect) CreateTableQuery(table string, cols []ColumnDef) string {
	return DefaultCreateTableQuery(d, table, cols) + " DEFAULT CHARSET=utf8mb4"
}

func (d *MysqlDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", table)
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

func (d *MysqlDialect) DateText(column string) string {
	return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m-%%d')", column)
}

func (d *MysqlDialect) EscapeLike(s string) string {
	return DefaultEscapeLike(s)
}

func (d *MysqlDialect) ColumnType(kind string) string {
	switch kind {
	case "number":
		return "DOUBLE"
	case "date":
		return "DATE"
	default:
		return "VARCHAR(200)"
	}
}

func (d *MysqlDialect) IdentityColumn(name string) string {
	return name + " BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY"
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}

func (d *MysqlDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}
