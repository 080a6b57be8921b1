package engine_test

import (
	"encoding/json"
	"errors"
	"testing"

	"survey-stats/internal/engine"
	"survey-stats/internal/schema"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func program(id int64, fields map[string]any) schema.Record {
	return schema.NewRecord(schema.Program, id, fields)
}

func subscale(t *testing.T, f schema.Family, name string) schema.SubscaleGroup {
	t.Helper()
	g, ok := schema.MustGet(f).Subscale(name)
	require.True(t, ok, name)
	return g
}

func TestSubscaleAverage_ExcludesZero(t *testing.T) {
	r := program(1, map[string]any{"score1": 3, "score2": 0, "score3": 5, "bunya": "forest"})
	assert.Equal(t, 4.0, engine.SubscaleAverage(r, subscale(t, schema.Program, "program")))
}

func TestSubscaleAverage_Rounding(t *testing.T) {
	r := program(1, map[string]any{"score4": 4, "score5": 4, "score6": 5})
	assert.Equal(t, 4.33, engine.SubscaleAverage(r, subscale(t, schema.Program, "content")))

	r = program(2, map[string]any{"score4": "2", "score5": nil, "score6": 3.0})
	assert.Equal(t, 2.5, engine.SubscaleAverage(r, subscale(t, schema.Program, "content")))
}

func TestSubscaleAverage_NoResponses(t *testing.T) {
	r := program(1, map[string]any{"score1": 0, "score2": 0, "score3": nil})
	assert.Equal(t, 0.0, engine.SubscaleAverage(r, subscale(t, schema.Program, "program")))
}

func TestHealingSharedItem(t *testing.T) {
	fields := map[string]any{}
	for i := 13; i <= 22; i++ {
		fields[schema.ScoreField(i)] = 2
	}
	fields["score18"] = 8
	r := schema.NewRecord(schema.Healing, 1, fields)

	// score18은 인지, 사회 두 척도에 모두 포함
	assert.Equal(t, 3.0, engine.SubscaleAverage(r, subscale(t, schema.Healing, "cognitive")))
	assert.Equal(t, 3.2, engine.SubscaleAverage(r, subscale(t, schema.Healing, "social")))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 2.68, engine.Round2(2.675))
	assert.Equal(t, 1.01, engine.Round2(1.005))
	assert.Equal(t, -2.68, engine.Round2(-2.675))
	assert.Equal(t, 0.0, engine.Round2(0))
}

func TestResolveMeasures(t *testing.T) {
	s := schema.MustGet(schema.Facility)

	all, err := engine.ResolveMeasures(s, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "lodging", all[0].Name)
	// each measure points at its own group
	assert.Equal(t, []int{8, 9, 10}, all[3].Subscale.Indices)

	picked, err := engine.ResolveMeasures(s, []string{"Meal", "score7"})
	require.NoError(t, err)
	assert.Equal(t, "meal", picked[0].Name)
	assert.Equal(t, "score7", picked[1].Field)

	_, err = engine.ResolveMeasures(s, []string{"agency"})
	assert.True(t, errors.Is(err, engine.ErrUnknownMeasure))
	_, err = engine.ResolveMeasures(s, []string{"score11"})
	assert.True(t, errors.Is(err, engine.ErrUnknownMeasure))
}

func TestResolveDimensions(t *testing.T) {
	dims, err := engine.ResolveDimensions(schema.MustGet(schema.Counsel), []string{"region", "pv", "program_type"})
	require.NoError(t, err)
	assert.Equal(t, "residence", dims[0].Field)
	assert.NotNil(t, dims[1].Catalog)
	assert.Nil(t, dims[2].Catalog)

	_, err = engine.ResolveDimensions(schema.MustGet(schema.Program), []string{"pv"})
	var cfg *schema.ConfigurationError
	assert.True(t, errors.As(err, &cfg))

	_, err = engine.ResolveDimensions(schema.MustGet(schema.Program), []string{"age"})
	assert.True(t, errors.As(err, &cfg))
}

func TestAggregate_ZeroRecordContributesNothing(t *testing.T) {
	s := schema.MustGet(schema.Program)
	measures, _ := engine.ResolveMeasures(s, []string{"program"})
	dims, _ := engine.ResolveDimensions(s, []string{"bunya"})

	records := []schema.Record{
		program(1, map[string]any{"bunya": "숲", "score1": 4, "score2": 4, "score3": 4}),
		program(2, map[string]any{"bunya": "숲", "score1": 0, "score2": 0, "score3": 0}),
		program(3, map[string]any{"bunya": "숲", "score1": 2}),
		program(4, map[string]any{"bunya": nil, "score1": 5}),
	}
	cohorts := engine.Aggregate(records, dims, measures)
	require.Len(t, cohorts, 2)

	// 미기재 sorts before 숲
	assert.Equal(t, []string{schema.NotRecorded}, cohorts[0].Key)
	forest := cohorts[1]
	assert.Equal(t, []string{"숲"}, forest.Key)
	assert.Equal(t, 3, forest.Records)
	assert.Equal(t, engine.Stat{Sum: 6, Responses: 2}, forest.Stats[0])
	assert.Equal(t, 3.0, forest.Stats[0].Average())
}

func TestAggregate_RawScore(t *testing.T) {
	s := schema.MustGet(schema.Program)
	measures, _ := engine.ResolveMeasures(s, []string{"score9"})

	records := []schema.Record{
		program(1, map[string]any{"score9": 5}),
		program(2, map[string]any{"score9": 0}),
		program(3, map[string]any{}),
	}
	total := engine.Total(records, measures)
	assert.Equal(t, 3, total.Count)
	m, ok := total.Measure("score9")
	require.True(t, ok)
	assert.Equal(t, engine.MeasureResult{Name: "score9", Sum: 5, Responses: 1, Average: 5}, m)
}

func TestAssemble_RegionZeroFill(t *testing.T) {
	s := schema.MustGet(schema.Program)
	measures, _ := engine.ResolveMeasures(s, nil)
	dims, _ := engine.ResolveDimensions(s, []string{"region"})

	for _, records := range [][]schema.Record{
		nil,
		{program(1, map[string]any{"residence": "서울특별시", "score1": 5})},
		{
			program(1, map[string]any{"residence": "부산", "score1": 5}),
			program(2, map[string]any{"residence": "해외", "score1": 3}),
			program(3, map[string]any{"residence": nil}),
		},
	} {
		rows := engine.Assemble(engine.Aggregate(records, dims, measures), dims, measures)
		require.Len(t, rows, 18)
		assert.Equal(t, "서울", rows[0].Key["region"])
		assert.Equal(t, "기타", rows[17].Key["region"])

		count := 0
		for _, row := range rows {
			count += row.Count
			require.Len(t, row.Measures, 3)
		}
		assert.Equal(t, len(records), count)
	}
}

func TestAssemble_FreeTimesFixed(t *testing.T) {
	s := schema.MustGet(schema.Counsel)
	measures, _ := engine.ResolveMeasures(s, []string{"motivation"})
	dims, _ := engine.ResolveDimensions(s, []string{"program_type", "pv"})

	records := []schema.Record{
		schema.NewRecord(schema.Counsel, 1, map[string]any{"program_type": "개인", "pv": "사전", "score1": 4}),
		schema.NewRecord(schema.Counsel, 2, map[string]any{"program_type": "집단", "pv": "사후", "score1": 6}),
		// no pv marker, left out of every pv cohort
		schema.NewRecord(schema.Counsel, 3, map[string]any{"program_type": "집단", "score1": 9}),
	}
	rows := engine.Assemble(engine.Aggregate(records, dims, measures), dims, measures)

	var keys []map[string]string
	for _, r := range rows {
		keys = append(keys, r.Key)
	}
	want := []map[string]string{
		{"program_type": "개인", "pv": "사전"},
		{"program_type": "개인", "pv": "사후"},
		{"program_type": "집단", "pv": "사전"},
		{"program_type": "집단", "pv": "사후"},
	}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("cohort keys mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, rows[0].Count)
	assert.Equal(t, 0, rows[1].Count)
	assert.Equal(t, 0.0, rows[1].Measures[0].Average)
}

func TestPairPrePost(t *testing.T) {
	s := schema.MustGet(schema.Prevent)
	measures, _ := engine.ResolveMeasures(s, []string{"recognition", "coping"})
	dims, _ := engine.ResolveDimensions(s, []string{"sex", "pv"})

	rec := func(id int64, sex, pv string, score1, score11 int) schema.Record {
		return schema.NewRecord(schema.Prevent, id, map[string]any{
			"sex": sex, "pv": pv, "score1": score1, "score11": score11,
		})
	}
	records := []schema.Record{
		rec(1, "남", "사전", 2, 3),
		rec(2, "남", "사후", 4, 0),
		rec(3, "여", "사전", 3, 3),
	}
	rows := engine.Assemble(engine.Aggregate(records, dims, measures), dims, measures)
	require.Len(t, rows, 6)

	deltas := engine.PairPrePost(rows, "pv")
	require.Len(t, deltas, 3)

	male := deltas[0]
	assert.Equal(t, map[string]string{"sex": "남"}, male.Key)
	require.NotNil(t, male.Measures[0].Delta)
	assert.Equal(t, 2.0, *male.Measures[0].Delta)
	assert.Equal(t, 1, male.Measures[0].PreCount)
	assert.Equal(t, 1, male.Measures[0].PostCount)
	// post answered no coping items
	assert.Nil(t, male.Measures[1].Post)
	assert.Nil(t, male.Measures[1].Delta)

	female := deltas[1]
	assert.Equal(t, map[string]string{"sex": "여"}, female.Key)
	require.NotNil(t, female.Measures[0].Pre)
	assert.Equal(t, 3.0, *female.Measures[0].Pre)
	assert.Nil(t, female.Measures[0].Post)
	assert.Nil(t, female.Measures[0].Delta)

	none := deltas[2]
	assert.Equal(t, map[string]string{"sex": schema.NotRecorded}, none.Key)
	for _, m := range none.Measures {
		assert.Nil(t, m.Delta)
	}
}

func TestPairPrePost_NegativeDelta(t *testing.T) {
	rows := []engine.CohortResult{
		{Key: map[string]string{"pv": "사전"}, Count: 2, Measures: []engine.MeasureResult{{Name: "stress", Sum: 9.3, Responses: 2, Average: 4.65}}},
		{Key: map[string]string{"pv": "사후"}, Count: 2, Measures: []engine.MeasureResult{{Name: "stress", Sum: 6.2, Responses: 2, Average: 3.1}}},
	}
	deltas := engine.PairPrePost(rows, "pv")
	require.Len(t, deltas, 1)
	require.NotNil(t, deltas[0].Measures[0].Delta)
	assert.Equal(t, -1.55, *deltas[0].Measures[0].Delta)
}

func TestAggregate_Idempotent(t *testing.T) {
	s := schema.MustGet(schema.Program)
	measures, _ := engine.ResolveMeasures(s, nil)
	dims, _ := engine.ResolveDimensions(s, []string{"bunya", "region"})

	records := []schema.Record{
		program(1, map[string]any{"bunya": "명상", "residence": "서울", "score1": 3, "score5": 4}),
		program(2, map[string]any{"bunya": "체험", "residence": "경기도", "score2": 5}),
		program(3, map[string]any{"bunya": "명상", "residence": "대전", "score9": 1}),
	}
	run := func() []byte {
		rows := engine.Assemble(engine.Aggregate(records, dims, measures), dims, measures)
		out, err := json.Marshal(rows)
		require.NoError(t, err)
		return out
	}
	first := run()
	for i := 0; i < 5; i++ {
		assert.Equal(t, string(first), string(run()))
	}
}
