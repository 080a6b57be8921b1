package dialect

import "database/sql"

// Dialect abstracts database-specific SQL text.
type Dialect interface {
	Name() string

	// Metadata Queries (Schema Introspection)
	CurrentSchemaQuery() string
	GetColumnsQuery(schema string) string // rows of (table, column), schema bound to the first placeholder

	// Execution Hooks
	BeforeSeed(tx *sql.Tx) error

	// Query Generation
	SelectQuery(table string, cols []string) string
	InsertQuery(table string, cols []string) string
	CreateTableQuery(table string, cols []ColumnDef) string
	TruncateQuery(table string) string
	Placeholder(index int) string // Returns ?, $1, @p1, etc.

	// Predicate Helpers
	DateText(column string) string // column rendered as YYYY-MM-DD text
	EscapeLike(s string) string    // escapes LIKE wildcards for ESCAPE '!'

	// Helpers
	ColumnType(kind string) string
	IdentityColumn(name string) string
	GetSchemaName(input string) string
	GetLimitRowQuery(query string, limit int) string
}

// ColumnDef is a column of a created table. Kind is text, number or date.
type ColumnDef struct {
	Name string
	Kind string
}

// LikeEscape is the escape character used in every generated LIKE clause.
const LikeEscape = "!"
