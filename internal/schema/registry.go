package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Field match strategies shared by every family. Family-specific fields and
// score columns are added in newSchema.
var commonFields = []fieldDef{
	{"agency", Substring},
	{"openday", DatePrefix},
	{"eval_date", DatePrefix},
	{"sex", Exact},
	{"age", Numeric},
	{"residence", Exact},
	{"job", Exact},
	{"org_nature", Exact},
	{"part_type", Exact},
	{"type", Exact},
}

type fieldDef struct {
	name     string
	strategy Strategy
}

var registry = map[Family]*FamilySchema{}

// codes maps the legacy numeric report selector onto families.
var codes = map[int]Family{}

func init() {
	defs := []*FamilySchema{
		newSchema(FamilySchema{
			Family: Program, Code: 1, Label: "프로그램 만족도",
			Scores: 9, ScaleMin: 1, ScaleMax: 5, DateField: "openday",
			Subscales: []SubscaleGroup{
				{Name: "program", Label: "프로그램", Indices: span(1, 3)},
				{Name: "content", Label: "내용", Indices: span(4, 6)},
				{Name: "effect", Label: "효과", Indices: span(7, 9)},
			},
		}, fieldDef{"ptcprogram", Substring}, fieldDef{"teacher", Substring}, fieldDef{"place", Substring}, fieldDef{"bunya", Exact}),
		newSchema(FamilySchema{
			Family: Facility, Code: 2, Label: "시설서비스 만족도",
			Scores: 10, ScaleMin: 1, ScaleMax: 5, DateField: "openday",
			Subscales: []SubscaleGroup{
				{Name: "lodging", Label: "숙소", Indices: span(1, 2)},
				{Name: "meal", Label: "식사", Indices: span(3, 4)},
				{Name: "facility", Label: "시설", Indices: span(5, 7)},
				{Name: "operation", Label: "운영", Indices: span(8, 10)},
			},
		}, fieldDef{"place", Substring}),
		newSchema(FamilySchema{
			Family: Counsel, Code: 3, Label: "상담치유 효과",
			Scores: 62, ScaleMin: 0, ScaleMax: 10, DateField: "eval_date", PVField: "pv",
			Subscales: []SubscaleGroup{
				{Name: "motivation", Label: "변화동기", Indices: span(1, 8)},
				{Name: "self_understanding", Label: "자기이해", Indices: span(9, 18)},
				{Name: "emotion", Label: "정서안정", Indices: span(19, 30)},
				{Name: "relationship", Label: "대인관계", Indices: span(31, 42)},
				{Name: "stress", Label: "스트레스", Indices: span(43, 52)},
				{Name: "resilience", Label: "회복탄력성", Indices: span(53, 62)},
			},
		}, fieldDef{"name", Substring}, fieldDef{"program_type", Exact}, fieldDef{"pv", Exact}),
		newSchema(FamilySchema{
			Family: Prevent, Code: 4, Label: "예방 효과",
			Scores: 20, ScaleMin: 0, ScaleMax: 5, DateField: "eval_date", PVField: "pv",
			Subscales: []SubscaleGroup{
				{Name: "recognition", Label: "문제인식", Indices: span(1, 5)},
				{Name: "self_control", Label: "자기조절", Indices: span(6, 10)},
				{Name: "coping", Label: "대처능력", Indices: span(11, 15)},
				{Name: "immersion", Label: "대안활동 몰입", Indices: span(16, 20)},
			},
		}, fieldDef{"name", Substring}, fieldDef{"program_type", Exact}, fieldDef{"pv", Exact}),
		newSchema(FamilySchema{
			Family: Healing, Code: 5, Label: "힐링 효과",
			Scores: 22, ScaleMin: 0, ScaleMax: 10, DateField: "eval_date", PVField: "pv",
			SharedItems: true,
			Subscales: []SubscaleGroup{
				{Name: "physical", Label: "신체", Indices: span(1, 6)},
				{Name: "emotional", Label: "정서", Indices: span(7, 12)},
				{Name: "cognitive", Label: "인지", Indices: span(13, 18)},
				// score18 is counted in both the cognitive and social items.
				{Name: "social", Label: "사회", Indices: span(18, 22)},
			},
		}, fieldDef{"name", Substring}, fieldDef{"program_type", Exact}, fieldDef{"pv", Exact}),
	}

	for _, s := range defs {
		if err := Validate(s); err != nil {
			panic(err)
		}
		registry[s.Family] = s
		codes[s.Code] = s.Family
	}
}

func newSchema(s FamilySchema, extra ...fieldDef) *FamilySchema {
	s.strategies = make(map[string]Strategy)
	s.zeroNull = make(map[string]bool)

	fields := append(append([]fieldDef{}, commonFields...), extra...)
	for _, f := range fields {
		s.Columns = append(s.Columns, f.name)
		s.strategies[f.name] = f.strategy
	}
	for i := 1; i <= s.Scores; i++ {
		name := ScoreField(i)
		s.Columns = append(s.Columns, name)
		s.strategies[name] = Numeric
		s.zeroNull[name] = true
	}
	return &s
}

func span(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

// Validate checks a family schema for structural defects.
func Validate(s *FamilySchema) error {
	if s == nil || s.Family == "" {
		return &ConfigurationError{Reason: "schema without family"}
	}
	bad := func(format string, args ...any) error {
		return &ConfigurationError{Family: string(s.Family), Reason: fmt.Sprintf(format, args...)}
	}
	if s.Scores <= 0 {
		return bad("no score fields")
	}
	if s.ScaleMax <= s.ScaleMin {
		return bad("invalid scale %d..%d", s.ScaleMin, s.ScaleMax)
	}
	if st, ok := s.strategies[s.DateField]; !ok || st != DatePrefix {
		return bad("date field %q is not a date column", s.DateField)
	}
	if s.PVField != "" && !s.Allowed(s.PVField) {
		return bad("pv field %q is not a column", s.PVField)
	}
	if len(s.Subscales) == 0 {
		return bad("no subscales")
	}

	owner := make(map[int]string)
	names := make(map[string]bool)
	for _, g := range s.Subscales {
		if g.Name == "" {
			return bad("unnamed subscale")
		}
		if names[g.Name] {
			return bad("duplicate subscale %q", g.Name)
		}
		names[g.Name] = true
		if len(g.Indices) == 0 {
			return bad("subscale %q has no items", g.Name)
		}
		for _, idx := range g.Indices {
			if idx < 1 || idx > s.Scores {
				return bad("subscale %q item %d out of range 1..%d", g.Name, idx, s.Scores)
			}
			if prev, ok := owner[idx]; ok && prev != g.Name && !s.SharedItems {
				return bad("score%d used by both %q and %q", idx, prev, g.Name)
			}
			owner[idx] = g.Name
		}
	}
	return nil
}

// Get returns the schema of a registered family.
func Get(f Family) (*FamilySchema, error) {
	s, ok := registry[f]
	if !ok {
		return nil, unknownFamily(string(f))
	}
	return s, nil
}

// MustGet is Get for families known at compile time.
func MustGet(f Family) *FamilySchema {
	s, err := Get(f)
	if err != nil {
		panic(err)
	}
	return s
}

// FamilyFromCode maps the legacy 1-5 report selector onto a family.
func FamilyFromCode(code int) (Family, error) {
	f, ok := codes[code]
	if !ok {
		return "", unknownFamily(strconv.Itoa(code))
	}
	return f, nil
}

// ParseFamily accepts a family name (any case) or a legacy numeric code.
func ParseFamily(s string) (Family, error) {
	v := strings.TrimSpace(s)
	if n, err := strconv.Atoi(v); err == nil {
		return FamilyFromCode(n)
	}
	f := Family(strings.ToUpper(v))
	if _, ok := registry[f]; !ok {
		return "", unknownFamily(s)
	}
	return f, nil
}

// Families returns every registered family ordered by legacy code.
func Families() []Family {
	out := make([]Family, 0, len(registry))
	for f := range registry {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return registry[out[i]].Code < registry[out[j]].Code
	})
	return out
}
