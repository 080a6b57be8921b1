package engine

import (
	"sort"

	"survey-stats/internal/schema"

	"github.com/shopspring/decimal"
)

// MeasureResult is the display form of a Stat.
type MeasureResult struct {
	Name      string  `json:"name"`
	Sum       float64 `json:"sum"`
	Responses int     `json:"responses"`
	Average   float64 `json:"average"`
}

// CohortResult is one row of a rollup.
type CohortResult struct {
	Key      map[string]string `json:"key"`
	Count    int               `json:"count"`
	Measures []MeasureResult   `json:"measures"`
}

// Measure looks up a measure result by name.
func (c CohortResult) Measure(name string) (MeasureResult, bool) {
	for _, m := range c.Measures {
		if m.Name == name {
			return m, true
		}
	}
	return MeasureResult{}, false
}

// Assemble turns cohorts into rollup rows. Fixed-domain dimensions are
// left-joined onto their catalogs: every catalog value appears once per
// observed combination of the free dimensions, with zero counts when no
// record matched. Free dimensions only produce combinations that occurred.
func Assemble(cohorts []Cohort, dims []schema.Dimension, measures []Measure) []CohortResult {
	var free, fixed []int
	for i, d := range dims {
		if d.Catalog != nil {
			fixed = append(fixed, i)
		} else {
			free = append(free, i)
		}
	}

	byKey := make(map[string]Cohort, len(cohorts))
	var freeParts [][]string
	seenFree := make(map[string]bool)
	for _, c := range cohorts {
		byKey[joinKey(c.Key)] = c

		part := project(c.Key, free)
		if k := joinKey(part); !seenFree[k] {
			seenFree[k] = true
			freeParts = append(freeParts, part)
		}
	}
	if len(free) == 0 && len(freeParts) == 0 {
		freeParts = [][]string{{}}
	}

	var out []CohortResult
	for _, part := range freeParts {
		for _, combo := range catalogProduct(dims, fixed) {
			key := make([]string, len(dims))
			for j, idx := range free {
				key[idx] = part[j]
			}
			for j, idx := range fixed {
				key[idx] = combo[j]
			}

			c, ok := byKey[joinKey(key)]
			if !ok {
				c = Cohort{Key: key, Stats: make([]Stat, len(measures))}
			}
			out = append(out, result(c, dims, measures))
		}
	}
	return out
}

// Total assembles a single row over all records, ignoring dimensions.
func Total(records []schema.Record, measures []Measure) CohortResult {
	cohorts := Aggregate(records, nil, measures)
	c := Cohort{Stats: make([]Stat, len(measures))}
	if len(cohorts) == 1 {
		c = cohorts[0]
	}
	return result(c, nil, measures)
}

func result(c Cohort, dims []schema.Dimension, measures []Measure) CohortResult {
	res := CohortResult{
		Key:      make(map[string]string, len(dims)),
		Count:    c.Records,
		Measures: make([]MeasureResult, len(measures)),
	}
	for i, d := range dims {
		res.Key[d.Name] = c.Key[i]
	}
	for i, m := range measures {
		st := c.Stats[i]
		res.Measures[i] = MeasureResult{
			Name:      m.Name,
			Sum:       st.Sum,
			Responses: st.Responses,
			Average:   st.Average(),
		}
	}
	return res
}

func project(key []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = key[j]
	}
	return out
}

// catalogProduct enumerates every combination of the fixed dimensions'
// catalog values in catalog order.
func catalogProduct(dims []schema.Dimension, fixed []int) [][]string {
	combos := [][]string{{}}
	for _, idx := range fixed {
		var next [][]string
		for _, prefix := range combos {
			for _, v := range dims[idx].Catalog.Values {
				combo := append(append([]string{}, prefix...), v)
				next = append(next, combo)
			}
		}
		combos = next
	}
	return combos
}

// MeasureDelta compares one measure between the pre and post cohorts.
// Pre, Post and Delta are nil when that side has no responses.
type MeasureDelta struct {
	Name      string   `json:"name"`
	Pre       *float64 `json:"pre"`
	Post      *float64 `json:"post"`
	Delta     *float64 `json:"delta"`
	PreCount  int      `json:"pre_count"`
	PostCount int      `json:"post_count"`
}

// DeltaRow pairs the pre and post rows sharing every other dimension.
type DeltaRow struct {
	Key      map[string]string `json:"key"`
	Measures []MeasureDelta    `json:"measures"`
}

// PairPrePost matches pre and post rows on every key except pvDim and
// computes delta = post - pre per measure. Rows keep first-seen order.
func PairPrePost(rows []CohortResult, pvDim string) []DeltaRow {
	type pair struct {
		key       map[string]string
		pre, post *CohortResult
	}

	var order []string
	pairs := make(map[string]*pair)
	for i := range rows {
		row := &rows[i]
		rest := make(map[string]string, len(row.Key))
		var parts []string
		for _, name := range sortedKeys(row.Key) {
			if name == pvDim {
				continue
			}
			rest[name] = row.Key[name]
			parts = append(parts, name+"="+row.Key[name])
		}
		k := joinKey(parts)
		p, ok := pairs[k]
		if !ok {
			p = &pair{key: rest}
			pairs[k] = p
			order = append(order, k)
		}
		switch row.Key[pvDim] {
		case schema.PVPre:
			p.pre = row
		case schema.PVPost:
			p.post = row
		}
	}

	out := make([]DeltaRow, 0, len(order))
	for _, k := range order {
		p := pairs[k]
		out = append(out, DeltaRow{Key: p.key, Measures: deltas(p.pre, p.post)})
	}
	return out
}

func deltas(pre, post *CohortResult) []MeasureDelta {
	var names []string
	for _, side := range []*CohortResult{pre, post} {
		if side == nil {
			continue
		}
		for _, m := range side.Measures {
			if !contains(names, m.Name) {
				names = append(names, m.Name)
			}
		}
	}

	out := make([]MeasureDelta, 0, len(names))
	for _, name := range names {
		d := MeasureDelta{Name: name}
		d.Pre, d.PreCount = sideValue(pre, name)
		d.Post, d.PostCount = sideValue(post, name)
		if d.Pre != nil && d.Post != nil {
			v := decimal.NewFromFloat(*d.Post).Sub(decimal.NewFromFloat(*d.Pre)).Round(2).InexactFloat64()
			d.Delta = &v
		}
		out = append(out, d)
	}
	return out
}

func sideValue(row *CohortResult, name string) (*float64, int) {
	if row == nil {
		return nil, 0
	}
	m, ok := row.Measure(name)
	if !ok || m.Responses == 0 {
		return nil, row.Count
	}
	v := m.Average
	return &v, row.Count
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
