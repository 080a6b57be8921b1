package seed

import (
	"time"

	"survey-stats/internal/schema"

	"github.com/brianvoe/gofakeit/v6"
)

const dateLayout = "2006-01-02"

// Generator produces plausible survey rows for a family.
type Generator struct {
	faker *gofakeit.Faker

	// BlankRate is the share of optional answers left empty.
	BlankRate float64
	// SkipRate is the share of score items left unanswered (0).
	SkipRate float64
}

// NewGenerator seeds a generator; the same seed yields the same rows.
func NewGenerator(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed), BlankRate: 0.05, SkipRate: 0.1}
}

// KoreanName generates a random 성+이름.
func (g *Generator) KoreanName() string {
	return g.faker.RandomString(LastNames) + g.faker.RandomString(FirstNames)
}

// Respondent generates one respondent's rows, opening within [from, to].
// Families with a pre/post marker get a 사전 row followed by a 사후 row;
// the others a single row. Each row is a column→value map.
func (g *Generator) Respondent(fs *schema.FamilySchema, from, to time.Time) []map[string]any {
	openday := g.faker.DateRange(from, to)
	base := map[string]any{
		"agency":     g.faker.RandomString(AgencyPrefixes) + " " + g.faker.RandomString(AgencyKinds),
		"openday":    openday.Format(dateLayout),
		"eval_date":  openday.AddDate(0, 0, g.faker.Number(0, 2)).Format(dateLayout),
		"sex":        g.blankOr(g.faker.RandomString([]string{"남", "여"})),
		"age":        g.blankOr(g.faker.Number(10, 79)),
		"residence":  g.blankOr(g.faker.RandomString(Residences)),
		"job":        g.blankOr(g.faker.RandomString(Jobs)),
		"org_nature": g.faker.RandomString(OrgNatures),
		"part_type":  g.faker.RandomString(PartTypes),
		"type":       g.faker.RandomString(Types),
	}
	for _, c := range fs.Columns {
		switch c {
		case "ptcprogram":
			base[c] = g.faker.RandomString(Programs)
		case "teacher":
			base[c] = g.KoreanName()
		case "place":
			base[c] = g.faker.RandomString(Places)
		case "bunya":
			base[c] = g.faker.RandomString(Bunya)
		case "name":
			base[c] = g.KoreanName()
		case "program_type":
			base[c] = g.faker.RandomString(ProgramTypes)
		}
	}

	if !fs.HasPV() {
		g.fillScores(base, fs, 0)
		return []map[string]any{base}
	}

	pre := copyRow(base)
	pre[fs.PVField] = schema.PVPre
	g.fillScores(pre, fs, 0)

	post := copyRow(base)
	post[fs.PVField] = schema.PVPost
	g.fillScores(post, fs, 1)
	return []map[string]any{pre, post}
}

// fillScores answers every item on the family scale. 0 is reserved for
// "not answered", so answered items start at 1 even on 0-based scales.
func (g *Generator) fillScores(row map[string]any, fs *schema.FamilySchema, lift int) {
	low := fs.ScaleMin
	if low < 1 {
		low = 1
	}
	for _, name := range fs.ScoreFields() {
		if g.faker.Float64Range(0, 1) < g.SkipRate {
			row[name] = 0
			continue
		}
		v := g.faker.Number(low, fs.ScaleMax) + g.faker.Number(0, lift)
		if v > fs.ScaleMax {
			v = fs.ScaleMax
		}
		row[name] = v
	}
}

func (g *Generator) blankOr(v any) any {
	if g.faker.Float64Range(0, 1) < g.BlankRate {
		return nil
	}
	return v
}

// Values orders a generated row by the family's columns.
func Values(fs *schema.FamilySchema, row map[string]any) []any {
	out := make([]any, len(fs.Columns))
	for i, c := range fs.Columns {
		out[i] = row[c]
	}
	return out
}

func copyRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row)+1)
	for k, v := range row {
		out[k] = v
	}
	return out
}
