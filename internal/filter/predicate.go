package filter

import (
	"strconv"
	"strings"

	"survey-stats/internal/dialect"
	"survey-stats/internal/schema"
)

type op int

const (
	opExact op = iota + 1
	opContains
	opNumber
	opDatePrefix
	opMissing
	opNever
	opDateFrom
	opDateTo
	opDateBetween
)

// condition is one atomic test against a single field.
type condition struct {
	field string
	op    op
	kind  schema.Kind
	text  string // lower-cased search text, or the lower bound for date ranges
	upper string // upper bound for opDateBetween
	num   float64
}

// Dropped records a token that contributed nothing to the predicate.
type Dropped struct {
	Token  Token
	Reason string
}

// Predicate is the AND of all surviving token conditions and the date range.
// It evaluates against in-memory records (Match) and renders parameterized
// SQL (SQL) with identical semantics.
type Predicate struct {
	family     schema.Family
	conditions []condition
	dropped    []Dropped
}

// Build turns tokens and an optional date range into a predicate for the
// family. Unknown fields and empty values are dropped silently; the only
// error is an unregistered family.
func Build(f schema.Family, tokens []Token, dates DateRange) (*Predicate, error) {
	s, err := schema.Get(f)
	if err != nil {
		return nil, err
	}

	p := &Predicate{family: f}
	for _, t := range tokens {
		field := strings.ToLower(strings.TrimSpace(t.Field))
		value := strings.TrimSpace(t.Value)

		strategy, ok := s.Strategy(field)
		if !ok {
			p.dropped = append(p.dropped, Dropped{Token: t, Reason: "field not allowed"})
			continue
		}
		if value == "" {
			p.dropped = append(p.dropped, Dropped{Token: t, Reason: "empty value"})
			continue
		}

		c := condition{field: field, kind: strategy.Kind()}
		switch {
		case value == schema.NotRecorded:
			c.op = opMissing
		case strategy == schema.Exact:
			c.op, c.text = opExact, strings.ToLower(value)
		case strategy == schema.Substring:
			c.op, c.text = opContains, strings.ToLower(value)
		case strategy == schema.DatePrefix:
			c.op, c.text = opDatePrefix, value
		case strategy == schema.Numeric:
			n, err := strconv.ParseFloat(value, 64)
			if err != nil {
				// a non-numeric value can never equal a number
				c.op = opNever
			} else {
				c.op, c.num = opNumber, n
			}
		}
		p.conditions = append(p.conditions, c)
	}

	if from, to := dates.bounds(); from != "" || to != "" {
		c := condition{field: s.DateField, kind: schema.KindDate}
		switch {
		case from != "" && to != "":
			c.op, c.text, c.upper = opDateBetween, from, to
		case from != "":
			c.op, c.text = opDateFrom, from
		default:
			c.op, c.text = opDateTo, to
		}
		p.conditions = append(p.conditions, c)
	}
	return p, nil
}

// MustBuild is Build for statically known families.
func MustBuild(f schema.Family, tokens []Token, dates DateRange) *Predicate {
	p, err := Build(f, tokens, dates)
	if err != nil {
		panic(err)
	}
	return p
}

// Family returns the family the predicate was built for.
func (p *Predicate) Family() schema.Family { return p.family }

// Dropped lists the tokens that were discarded while building.
func (p *Predicate) Dropped() []Dropped { return p.dropped }

// Len returns the number of atomic conditions.
func (p *Predicate) Len() int { return len(p.conditions) }

// DateOnly returns a predicate holding only the date range condition, used
// when tokens are applied after the fetch.
func (p *Predicate) DateOnly() *Predicate {
	out := &Predicate{family: p.family}
	for _, c := range p.conditions {
		switch c.op {
		case opDateFrom, opDateTo, opDateBetween:
			out.conditions = append(out.conditions, c)
		}
	}
	return out
}

// Match reports whether a record satisfies every condition.
func (p *Predicate) Match(r schema.Record) bool {
	for _, c := range p.conditions {
		if !c.match(r) {
			return false
		}
	}
	return true
}

// Filter returns the records that match, preserving order.
func (p *Predicate) Filter(records []schema.Record) []schema.Record {
	out := make([]schema.Record, 0, len(records))
	for _, r := range records {
		if p.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func (c condition) match(r schema.Record) bool {
	if c.op == opMissing {
		return r.IsBlank(c.field)
	}
	if r.IsBlank(c.field) {
		return false
	}

	switch c.op {
	case opExact:
		return strings.ToLower(r.Text(c.field)) == c.text
	case opContains:
		return strings.Contains(strings.ToLower(r.Text(c.field)), c.text)
	case opNumber:
		n, ok := r.Number(c.field)
		return ok && n == c.num
	case opDatePrefix:
		return strings.Contains(r.Date(c.field), c.text)
	case opDateFrom:
		return r.Date(c.field) >= c.text
	case opDateTo:
		return r.Date(c.field) <= c.text
	case opDateBetween:
		d := r.Date(c.field)
		return d >= c.text && d <= c.upper
	default:
		return false
	}
}

// SQL renders the predicate as a WHERE fragment (without the keyword) and
// its bind arguments. offset is the number of placeholders already used by
// the surrounding statement. Field names come from the registry only; every
// caller-supplied value travels as an argument.
func (p *Predicate) SQL(d dialect.Dialect, offset int) (string, []any) {
	if len(p.conditions) == 0 {
		return "", nil
	}

	var args []any
	bind := func(v any) string {
		ph := d.Placeholder(offset + len(args))
		args = append(args, v)
		return ph
	}

	parts := make([]string, 0, len(p.conditions))
	for _, c := range p.conditions {
		parts = append(parts, c.sql(d, bind))
	}
	return strings.Join(parts, " AND "), args
}

func (c condition) sql(d dialect.Dialect, bind func(any) string) string {
	col := c.field
	switch c.op {
	case opMissing:
		if c.kind == schema.KindText {
			return "(" + col + " IS NULL OR " + col + " = '')"
		}
		return col + " IS NULL"
	case opExact:
		return "LOWER(" + col + ") = " + bind(c.text)
	case opContains:
		return "LOWER(" + col + ") LIKE " + bind("%"+d.EscapeLike(c.text)+"%") + " ESCAPE '" + dialect.LikeEscape + "'"
	case opNumber:
		return col + " = " + bind(c.num)
	case opDatePrefix:
		return d.DateText(col) + " LIKE " + bind("%"+d.EscapeLike(c.text)+"%") + " ESCAPE '" + dialect.LikeEscape + "'"
	case opDateFrom:
		return d.DateText(col) + " >= " + bind(c.text)
	case opDateTo:
		return d.DateText(col) + " <= " + bind(c.text)
	case opDateBetween:
		lo := bind(c.text)
		hi := bind(c.upper)
		return d.DateText(col) + " BETWEEN " + lo + " AND " + hi
	default:
		return "1 = 0"
	}
}
