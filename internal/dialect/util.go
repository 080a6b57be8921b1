package dialect

import (
	"fmt"
	"strings"
)

// GeneratePlaceholders is a helper function to create a slice of placeholder strings.
// It takes the number of placeholders needed and a function that returns the placeholder for a given index.
// It returns a comma-separated string of the generated placeholders.
func GeneratePlaceholders(count int, placeholderFunc func(int) string) string {
	placeholders := make([]string, count)
	for i := 0; i < count; i++ {
		placeholders[i] = placeholderFunc(i)
	}
	return strings.Join(placeholders, ", ")
}

// DefaultEscapeLike escapes %, _ and the escape character itself, plus any
// extra characters the dialect treats as wildcards.
func DefaultEscapeLike(s string, extra ...string) string {
	specials := append([]string{LikeEscape, "%", "_"}, extra...)
	var b strings.Builder
	for _, r := range s {
		ch := string(r)
		for _, sp := range specials {
			if ch == sp {
				b.WriteString(LikeEscape)
				break
			}
		}
		b.WriteString(ch)
	}
	return b.String()
}

// DefaultSelectQuery selects the id column followed by cols.
func DefaultSelectQuery(table string, cols []string) string {
	all := append([]string{"id"}, cols...)
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(all, ", "), table)
}

// DefaultInsertQuery builds a plain INSERT with dialect placeholders.
func DefaultInsertQuery(table string, cols []string, placeholder func(int) string) string {
	vals := GeneratePlaceholders(len(cols), placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), vals)
}

// DefaultCreateTableQuery builds CREATE TABLE with an identity id column.
func DefaultCreateTableQuery(d Dialect, table string, cols []ColumnDef) string {
	defs := []string{d.IdentityColumn("id")}
	for _, c := range cols {
		defs = append(defs, fmt.Sprintf("%s %s NULL", c.Name, d.ColumnType(c.Kind)))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n    %s\n)", table, strings.Join(defs, ",\n    "))
}

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}
