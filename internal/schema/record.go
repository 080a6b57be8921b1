package schema

import (
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Record is one submitted evaluation form as read from the datastore.
// Field names are lower case column names; values are whatever the driver
// produced (string, int64, float64, time.Time or nil).
type Record struct {
	ID     int64
	Family Family
	Fields map[string]any
}

// NewRecord builds a record from column values.
func NewRecord(f Family, id int64, fields map[string]any) Record {
	if fields == nil {
		fields = make(map[string]any)
	}
	return Record{ID: id, Family: f, Fields: fields}
}

// Get returns the raw value of a field.
func (r Record) Get(field string) (any, bool) {
	v, ok := r.Fields[field]
	return v, ok
}

// IsBlank reports whether a field is absent, null or the empty string.
func (r Record) IsBlank(field string) bool {
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []byte:
		return len(t) == 0
	}
	return false
}

// Text returns the field as a string; dates use the canonical YYYY-MM-DD form.
func (r Record) Text(field string) string {
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return ""
	}
	if t, ok := v.(time.Time); ok {
		return CanonicalDate(t)
	}
	return cast.ToString(v)
}

// Date returns the canonical YYYY-MM-DD text of a date field.
func (r Record) Date(field string) string {
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return ""
	}
	return CanonicalDate(v)
}

// Number returns the field as a finite float64. ok is false for blank or
// non-numeric values.
func (r Record) Number(field string) (float64, bool) {
	if r.IsBlank(field) {
		return 0, false
	}
	return ParseNumber(r.Fields[field])
}

// Score returns score i (1-based).
func (r Record) Score(i int) (float64, bool) {
	return r.Number(ScoreField(i))
}

// Flat returns the record as a flat field map suitable for JSON output.
func (r Record) Flat() map[string]any {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		switch t := v.(type) {
		case time.Time:
			out[k] = CanonicalDate(t)
		case []byte:
			out[k] = string(t)
		default:
			out[k] = v
		}
	}
	out["id"] = r.ID
	return out
}

// ParseNumber converts a driver value to a finite float64.
func ParseNumber(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CanonicalDate renders a time.Time or date-like string as YYYY-MM-DD.
// Strings that do not start with a date are returned unchanged.
func CanonicalDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	case *time.Time:
		if t == nil {
			return ""
		}
		return CanonicalDate(*t)
	}
	s := strings.TrimSpace(cast.ToString(v))
	if len(s) >= 10 {
		if _, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return s[:10]
		}
	}
	return s
}
