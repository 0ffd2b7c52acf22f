package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paw-adopt-api/internal/config"
)

func testSemanticConfig() config.SemanticConfig {
	return config.SemanticConfig{
		Boosts: config.BoostConfig{
			Phrase:          5,
			Text:            2,
			Synonym:         1.5,
			Fuzzy:           1,
			GenderCanonical: 3,
			GenderRaw:       2,
			Numeric:         2,
		},
		Threshold: config.ThresholdConfig{
			Base: 0.15,
			MatchTypeFactor: map[string]float64{
				"exact": 1.5, "phrase": 1.2, "descriptive": 0.8,
			},
			SingleWordFactor: 1.3,
			LongQueryFactor:  0.7,
			GenderFactor:     0.9,
			NumericFactor:    0.85,
		},
		Synonyms: map[string][]string{
			"dog":    {"puppy", "canine"},
			"kind":   {"gentle"},
			"gentle": {"kind"},
		},
		MaxExpectedScore: map[string]float64{
			"exact":       30,
			"descriptive": 80,
		},
		AgeTolerances: []config.ToleranceBucket{
			{UpTo: 1, Tolerance: 0.5},
			{UpTo: 5, Tolerance: 1},
			{UpTo: 100, Tolerance: 3},
		},
		WeightTolerances: []config.ToleranceBucket{
			{UpTo: 5, Tolerance: 1},
			{UpTo: 20, Tolerance: 3},
		},
	}
}

func findSub(subs []SubQuery, kind SubQueryKind, field string) *SubQuery {
	for i := range subs {
		if subs[i].Kind == kind && subs[i].Field == field {
			return &subs[i]
		}
	}
	return nil
}

func TestSpecBuilder_PhraseAlwaysPresent(t *testing.T) {
	b := &specBuilder{cfg: testSemanticConfig()}
	an := &Analysis{
		Tokens: []string{"golden", "retriever"}, MatchType: MatchExact,
		Slop: 0, Multiplier: 1.5,
	}

	spec := b.Build(an, 50)
	phrase := findSub(spec.Subs, SubPhrase, "search_text")
	require.NotNil(t, phrase)
	assert.Equal(t, []string{"golden", "retriever"}, phrase.Terms)
	assert.Equal(t, 0, phrase.Slop)
	assert.InDelta(t, 5.0, phrase.Boost, 1e-9)

	terms := findSub(spec.Subs, SubTerms, "search_text")
	require.NotNil(t, terms, "multi-token query also gets a loose terms sub")
	assert.Equal(t, 50, spec.Limit)
}

func TestSpecBuilder_SingleTokenSkipsTermsSub(t *testing.T) {
	b := &specBuilder{cfg: testSemanticConfig()}
	spec := b.Build(&Analysis{Tokens: []string{"husky"}, MatchType: MatchExact}, 10)

	assert.NotNil(t, findSub(spec.Subs, SubPhrase, "search_text"))
	assert.Nil(t, findSub(spec.Subs, SubTerms, "search_text"))
}

func TestSpecBuilder_MinMatch(t *testing.T) {
	b := &specBuilder{cfg: testSemanticConfig()}

	tests := []struct {
		name      string
		tokens    []string
		matchType MatchType
		want      int
	}{
		{"exact requires all tokens", []string{"golden", "retriever"}, MatchExact, 2},
		{"exact single token", []string{"husky"}, MatchExact, 1},
		{"phrase allows one missing", []string{"calm", "senior", "cat"}, MatchPhrase, 2},
		{"mixed four tokens", []string{"a", "b", "c", "d"}, MatchMixed, 3},
		{"mixed five tokens", []string{"a", "b", "c", "d", "e"}, MatchMixed, 4},
		{"descriptive six tokens", []string{"a", "b", "c", "d", "e", "f"}, MatchDescriptive, 4},
		{"descriptive ten tokens",
			[]string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}, MatchDescriptive, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := b.Build(&Analysis{Tokens: tt.tokens, MatchType: tt.matchType}, 10)
			assert.Equal(t, tt.want, spec.MinMatch)
			assert.Equal(t, tt.tokens, spec.Tokens)
		})
	}
}

func TestSpecBuilder_SynonymExpansion(t *testing.T) {
	b := &specBuilder{cfg: testSemanticConfig()}
	an := &Analysis{
		Tokens:      []string{"kind", "gentle", "dog"},
		MatchType:   MatchDescriptive,
		UseSynonyms: true,
	}

	spec := b.Build(an, 10)
	syn := findSub(spec.Subs, SubSynonym, "search_text")
	require.NotNil(t, syn)
	// 原词不进入同义词子查询，kind/gentle 互为同义词也被去重掉
	assert.ElementsMatch(t, []string{"puppy", "canine"}, syn.Terms)
}

func TestSpecBuilder_FuzzyFiltersShortTokens(t *testing.T) {
	b := &specBuilder{cfg: testSemanticConfig()}
	an := &Analysis{
		Tokens:   []string{"big", "fluffy", "dog", "with", "floppy", "ears"},
		UseFuzzy: true,
	}

	spec := b.Build(an, 10)
	fuzzy := findSub(spec.Subs, SubFuzzy, "description")
	require.NotNil(t, fuzzy)
	assert.ElementsMatch(t, []string{"fluffy", "with", "floppy", "ears"}, fuzzy.Terms)
}

func TestSpecBuilder_GenderSubs(t *testing.T) {
	b := &specBuilder{cfg: testSemanticConfig()}

	t.Run("raw term differs from canonical", func(t *testing.T) {
		an := &Analysis{Tokens: []string{"girl"}, Gender: "female", GenderTerm: "girl"}
		spec := b.Build(an, 10)

		tag := findSub(spec.Subs, SubTag, "gender")
		require.NotNil(t, tag)
		assert.Equal(t, []string{"female"}, tag.Terms)
		assert.InDelta(t, 3.0, tag.Boost, 1e-9)

		raw := findSub(spec.Subs, SubTerms, "search_text")
		require.NotNil(t, raw)
		assert.Equal(t, []string{"girl"}, raw.Terms)
	})

	t.Run("raw term equals canonical", func(t *testing.T) {
		an := &Analysis{Tokens: []string{"female"}, Gender: "female", GenderTerm: "female"}
		spec := b.Build(an, 10)

		assert.NotNil(t, findSub(spec.Subs, SubTag, "gender"))
		assert.Nil(t, findSub(spec.Subs, SubTerms, "search_text"))
	})
}

func TestSpecBuilder_NumericRanges(t *testing.T) {
	b := &specBuilder{cfg: testSemanticConfig()}
	age := 24.0   // 2 岁，容差分桶 1 年
	weight := 3.0 // 容差分桶 1 kg
	an := &Analysis{
		Tokens: []string{"small", "young", "dog"}, AgeMonths: &age, WeightKg: &weight,
	}

	spec := b.Build(an, 10)

	ageSub := findSub(spec.Subs, SubNumeric, "age_months")
	require.NotNil(t, ageSub)
	assert.InDelta(t, 12, ageSub.Min, 1e-9)
	assert.InDelta(t, 36, ageSub.Max, 1e-9)

	weightSub := findSub(spec.Subs, SubNumeric, "weight_kg")
	require.NotNil(t, weightSub)
	assert.InDelta(t, 2, weightSub.Min, 1e-9)
	assert.InDelta(t, 4, weightSub.Max, 1e-9)
}

func TestSpecBuilder_NumericRangeClampedAtZero(t *testing.T) {
	b := &specBuilder{cfg: testSemanticConfig()}
	age := 3.0 // 0.25 岁，容差 0.5 年 = 6 个月
	spec := b.Build(&Analysis{Tokens: []string{"kitten"}, AgeMonths: &age}, 10)

	ageSub := findSub(spec.Subs, SubNumeric, "age_months")
	require.NotNil(t, ageSub)
	assert.InDelta(t, 0, ageSub.Min, 1e-9)
	assert.InDelta(t, 9, ageSub.Max, 1e-9)
}

func TestSpecBuilder_Threshold(t *testing.T) {
	b := &specBuilder{cfg: testSemanticConfig()}

	tests := []struct {
		name string
		an   *Analysis
		want float64
	}{
		{"base", &Analysis{Tokens: []string{"calm", "senior", "cat"}}, 0.15},
		{"exact match scaled by type factor",
			&Analysis{Tokens: []string{"calm", "senior", "cat"}, MatchType: MatchExact},
			0.15 * 1.5},
		{"descriptive type factor stacks with long query",
			&Analysis{Tokens: []string{"a", "b", "c", "d", "e", "f"}, MatchType: MatchDescriptive},
			0.15 * 0.8 * 0.7},
		{"unconfigured type keeps base",
			&Analysis{Tokens: []string{"calm", "senior", "cat"}, MatchType: MatchMixed}, 0.15},
		{"single word scaled up", &Analysis{Tokens: []string{"husky"}}, 0.15 * 1.3},
		{"long query scaled down",
			&Analysis{Tokens: []string{"a", "b", "c", "d", "e", "f"}}, 0.15 * 0.7},
		{"gender factor",
			&Analysis{Tokens: []string{"girl", "cat"}, Gender: "female"}, 0.15 * 0.9},
		{"gender and numeric stack",
			&Analysis{Tokens: []string{"girl", "cat"}, Gender: "female", HasNumeric: true},
			0.15 * 0.9 * 0.85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := b.Build(tt.an, 10)
			assert.InDelta(t, tt.want, spec.Threshold, 1e-9)
		})
	}
}

func TestSpecBuilder_MaxExpected(t *testing.T) {
	b := &specBuilder{cfg: testSemanticConfig()}

	spec := b.Build(&Analysis{Tokens: []string{"x"}, MatchType: MatchExact}, 10)
	assert.InDelta(t, 30, spec.MaxExpected, 1e-9)

	// 未配置的匹配类型回退到默认值
	spec = b.Build(&Analysis{Tokens: []string{"x"}, MatchType: MatchMixed}, 10)
	assert.InDelta(t, 100, spec.MaxExpected, 1e-9)
}

func TestToleranceFor(t *testing.T) {
	buckets := []config.ToleranceBucket{
		{UpTo: 1, Tolerance: 0.5},
		{UpTo: 5, Tolerance: 1},
	}

	assert.InDelta(t, 0.5, toleranceFor(0.8, buckets), 1e-9)
	assert.InDelta(t, 1, toleranceFor(3, buckets), 1e-9)
	assert.InDelta(t, 1, toleranceFor(50, buckets), 1e-9, "beyond all buckets uses the last")
	assert.InDelta(t, 0, toleranceFor(3, nil), 1e-9)
}
