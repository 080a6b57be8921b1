package schema

import "fmt"

// Family identifies one of the survey record layouts.
type Family string

const (
	Program  Family = "PROGRAM"  // 프로그램 만족도
	Facility Family = "FACILITY" // 시설서비스 만족도
	Counsel  Family = "COUNSEL"  // 상담치유 효과
	Prevent  Family = "PREVENT"  // 예방 효과
	Healing  Family = "HEALING"  // 힐링 효과
)

func (f Family) String() string { return string(f) }

// Strategy decides how a filter token is compared against a stored field.
type Strategy int

const (
	Exact      Strategy = iota + 1 // case-insensitive equality
	Substring                      // case-insensitive contains
	Numeric                        // numeric equality
	DatePrefix                     // containment on YYYY-MM-DD text
)

func (s Strategy) String() string {
	switch s {
	case Exact:
		return "exact"
	case Substring:
		return "substring"
	case Numeric:
		return "numeric"
	case DatePrefix:
		return "date-prefix"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Kind is the storage kind of a field, used for DDL and null checks.
type Kind string

const (
	KindText   Kind = "text"
	KindNumber Kind = "number"
	KindDate   Kind = "date"
)

// Kind returns the storage kind implied by the strategy.
func (s Strategy) Kind() Kind {
	switch s {
	case Numeric:
		return KindNumber
	case DatePrefix:
		return KindDate
	default:
		return KindText
	}
}

// SubscaleGroup is a named set of score indices averaged together.
type SubscaleGroup struct {
	Name    string
	Label   string
	Indices []int // 1-based score numbers
}

// Fields returns the score column names of the group.
func (g SubscaleGroup) Fields() []string {
	out := make([]string, len(g.Indices))
	for i, idx := range g.Indices {
		out[i] = ScoreField(idx)
	}
	return out
}

// FamilySchema describes one survey family.
type FamilySchema struct {
	Family    Family
	Code      int
	Label     string
	Scores    int // number of score1..scoreN fields
	ScaleMin  int
	ScaleMax  int
	DateField string
	PVField   string // empty when the family has no pre/post marker

	// SharedItems allows a score index to appear in more than one subscale.
	SharedItems bool

	Subscales []SubscaleGroup

	// Columns lists every stored field in table order, id excluded.
	Columns []string

	strategies map[string]Strategy
	zeroNull   map[string]bool
}

// Allowed reports whether a field may be used in a filter token.
func (s *FamilySchema) Allowed(field string) bool {
	_, ok := s.strategies[field]
	return ok
}

// Strategy returns the match strategy of an allowed field.
func (s *FamilySchema) Strategy(field string) (Strategy, bool) {
	st, ok := s.strategies[field]
	return st, ok
}

// AllowedFields returns the filter whitelist in column order.
func (s *FamilySchema) AllowedFields() []string {
	out := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		if s.Allowed(c) {
			out = append(out, c)
		}
	}
	return out
}

// ZeroIsNull reports whether 0 means "not answered" for the field.
func (s *FamilySchema) ZeroIsNull(field string) bool {
	return s.zeroNull[field]
}

// HasPV reports whether the family records a pre/post marker.
func (s *FamilySchema) HasPV() bool { return s.PVField != "" }

// Subscale looks up a subscale group by name.
func (s *FamilySchema) Subscale(name string) (SubscaleGroup, bool) {
	for _, g := range s.Subscales {
		if g.Name == name {
			return g, true
		}
	}
	return SubscaleGroup{}, false
}

// ScoreFields returns score1..scoreN.
func (s *FamilySchema) ScoreFields() []string {
	out := make([]string, s.Scores)
	for i := range out {
		out[i] = ScoreField(i + 1)
	}
	return out
}

// ScoreField returns the column name of the i-th score (1-based).
func ScoreField(i int) string {
	return fmt.Sprintf("score%d", i)
}

// Pre/post marker values as stored in the pv column.
const (
	PVPre  = "사전"
	PVPost = "사후"
)

// NotRecorded is both the filter sentinel matching blank fields and the
// cohort label for blank dimension values.
const NotRecorded = "미기재"
