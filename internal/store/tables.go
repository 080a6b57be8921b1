package store

import (
	"fmt"
	"regexp"
	"sort"

	"survey-stats/internal/schema"
)

// TableMap maps each family onto its table.
type TableMap map[schema.Family]string

// DefaultTables is the deployment default naming.
func DefaultTables() TableMap {
	return TableMap{
		schema.Program:  "program_satisfaction",
		schema.Facility: "service_satisfaction",
		schema.Counsel:  "counsel_effect",
		schema.Prevent:  "prevent_effect",
		schema.Healing:  "healing_effect",
	}
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// WithOverrides returns a copy with config-supplied table names applied.
// Keys are family names or legacy codes.
func (m TableMap) WithOverrides(overrides map[string]string) (TableMap, error) {
	out := make(TableMap, len(m))
	for f, t := range m {
		out[f] = t
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		f, err := schema.ParseFamily(k)
		if err != nil {
			return nil, err
		}
		table := overrides[k]
		if !identifier.MatchString(table) {
			return nil, &schema.ConfigurationError{Family: string(f), Reason: fmt.Sprintf("invalid table name %q", table)}
		}
		out[f] = table
	}
	return out, nil
}

// Table returns the table of a family.
func (m TableMap) Table(f schema.Family) (string, error) {
	t, ok := m[f]
	if !ok || t == "" {
		return "", &schema.ConfigurationError{Family: string(f), Reason: "no table mapped"}
	}
	return t, nil
}
