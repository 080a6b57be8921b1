package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"survey-stats/internal/schema"
)

// ErrUnknownMeasure is returned for a measure name that is neither a
// subscale nor a score field of the family.
var ErrUnknownMeasure = errors.New("unknown measure")

// SubscaleAverage averages the answered items of one subscale. Null and
// zero ("not answered") items are left out; with nothing left the result is
// 0.
func SubscaleAverage(r schema.Record, g schema.SubscaleGroup) float64 {
	var sum float64
	var n int
	for _, idx := range g.Indices {
		v, ok := r.Score(idx)
		if !ok || v == 0 {
			continue
		}
		sum += v
		n++
	}
	return Round2(safeDiv(sum, n))
}

// SubscaleScore is one per-record subscale average.
type SubscaleScore struct {
	Name    string  `json:"name"`
	Average float64 `json:"average"`
}

// RecordAverages computes every subscale average of a record in registry
// order.
func RecordAverages(r schema.Record, s *schema.FamilySchema) []SubscaleScore {
	out := make([]SubscaleScore, len(s.Subscales))
	for i, g := range s.Subscales {
		out[i] = SubscaleScore{Name: g.Name, Average: SubscaleAverage(r, g)}
	}
	return out
}

// Measure is a value aggregated per cohort: a subscale average or a raw
// score field.
type Measure struct {
	Name     string
	Subscale *schema.SubscaleGroup
	Field    string
}

// Value extracts the measure from a record. ok is false when the value is
// null; a subscale is never null (its empty fallback is 0).
func (m Measure) Value(r schema.Record) (float64, bool) {
	if m.Subscale != nil {
		return SubscaleAverage(r, *m.Subscale), true
	}
	return r.Number(m.Field)
}

// ResolveMeasures maps names onto measures. No names selects every subscale.
func ResolveMeasures(s *schema.FamilySchema, names []string) ([]Measure, error) {
	if len(names) == 0 {
		out := make([]Measure, len(s.Subscales))
		for i := range s.Subscales {
			g := s.Subscales[i]
			out[i] = Measure{Name: g.Name, Subscale: &g}
		}
		return out, nil
	}

	out := make([]Measure, 0, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if g, ok := s.Subscale(name); ok {
			out = append(out, Measure{Name: name, Subscale: &g})
			continue
		}
		if st, ok := s.Strategy(name); ok && st == schema.Numeric {
			out = append(out, Measure{Name: name, Field: name})
			continue
		}
		return nil, fmt.Errorf("%w %q for %s", ErrUnknownMeasure, raw, s.Family)
	}
	return out, nil
}

// ResolveDimensions maps grouping names onto dimensions.
func ResolveDimensions(s *schema.FamilySchema, names []string) ([]schema.Dimension, error) {
	out := make([]schema.Dimension, 0, len(names))
	for _, n := range names {
		d, ok := s.Dimension(n)
		if !ok {
			return nil, &schema.ConfigurationError{Family: string(s.Family), Reason: fmt.Sprintf("cannot group by %q", n)}
		}
		out = append(out, d)
	}
	return out, nil
}

// Stat accumulates one measure over a cohort.
type Stat struct {
	Sum       float64 // over non-null values
	Responses int     // non-zero values
}

// Average is Sum / Responses rounded to 2 places, 0 without responses.
func (s Stat) Average() float64 {
	return Round2(safeDiv(s.Sum, s.Responses))
}

func (s *Stat) add(v float64) {
	s.Sum += v
	if v != 0 {
		s.Responses++
	}
}

// Cohort is the aggregate of the records sharing one key.
type Cohort struct {
	Key     []string // one value per dimension
	Records int      // every record in the cohort, answered or not
	Stats   []Stat   // aligned with the measures
}

// DimensionValue resolves a record's value for a dimension. ok is false
// when a fixed-domain dimension has no place for the value.
func DimensionValue(r schema.Record, d schema.Dimension) (string, bool) {
	raw := r.Text(d.Field)
	if d.Catalog != nil {
		return d.Catalog.Resolve(raw)
	}
	if r.IsBlank(d.Field) {
		return schema.NotRecorded, true
	}
	return raw, true
}

// Aggregate groups records by dims and accumulates each measure. Cohorts
// are returned ordered by key.
func Aggregate(records []schema.Record, dims []schema.Dimension, measures []Measure) []Cohort {
	byKey := make(map[string]*Cohort)

	for _, r := range records {
		key := make([]string, len(dims))
		skip := false
		for i, d := range dims {
			v, ok := DimensionValue(r, d)
			if !ok {
				skip = true
				break
			}
			key[i] = v
		}
		if skip {
			continue
		}

		k := joinKey(key)
		c, ok := byKey[k]
		if !ok {
			c = &Cohort{Key: key, Stats: make([]Stat, len(measures))}
			byKey[k] = c
		}
		c.Records++
		for i, m := range measures {
			if v, ok := m.Value(r); ok {
				c.Stats[i].add(v)
			}
		}
	}

	out := make([]Cohort, 0, len(byKey))
	for _, c := range byKey {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		return lessKey(out[i].Key, out[j].Key)
	})
	return out
}

func joinKey(key []string) string {
	return strings.Join(key, "\x1f")
}

func lessKey(a, b []string) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
