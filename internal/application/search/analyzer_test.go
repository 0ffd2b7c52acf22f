package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paw-adopt-api/internal/config"
)

func testAnalyzerConfig() config.AnalyzerConfig {
	return config.AnalyzerConfig{
		GenderTerms: map[string]string{
			"female": "female",
			"male":   "male",
			"girl":   "female",
			"boy":    "male",
			"母":      "female",
			"公":      "male",
		},
		HealthTerms:      []string{"vaccinated", "neutered", "microchipped"},
		AgeYearPatterns:  []string{`(\d+(?:\.\d+)?)\s*(?:years?|yrs?|岁)`},
		AgeMonthPatterns: []string{`(\d+(?:\.\d+)?)\s*(?:months?|mos?|个月)`},
		WeightKgPatterns: []string{`(\d+(?:\.\d+)?)\s*(?:kg|kilos?|公斤)`},
		WeightLbPatterns: []string{`(\d+(?:\.\d+)?)\s*(?:lbs?|pounds?)`},
		MonthsPerYear:    12,
		PoundsPerKg:      2.2046,
	}
}

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(testAnalyzerConfig())
	require.NoError(t, err)
	return a
}

func TestAnalyze_MatchTypeClassification(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		name     string
		raw      string
		wantType MatchType
		wantSlop int
		wantMult float64
	}{
		{"two words is exact", "golden retriever", MatchExact, 0, 1.5},
		{"single word is exact", "husky", MatchExact, 0, 1.5},
		{"quoted long query is exact", `"friendly senior dog for family"`, MatchExact, 0, 1.5},
		{"three words no numbers is phrase", "calm senior cat", MatchPhrase, 1, 1.2},
		{"three words with number is mixed", "cat 2 years", MatchMixed, 2, 1.0},
		{"four words is mixed", "small quiet apartment dog", MatchMixed, 2, 1.0},
		{"six words is descriptive", "playful young dog good with kids", MatchDescriptive, 3, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			an := a.Analyze(tt.raw)
			assert.Equal(t, tt.wantType, an.MatchType)
			assert.Equal(t, tt.wantSlop, an.Slop)
			assert.InDelta(t, tt.wantMult, an.Multiplier, 1e-9)
		})
	}
}

func TestAnalyze_DescriptiveEnablesFuzzyAndSynonyms(t *testing.T) {
	a := newTestAnalyzer(t)

	an := a.Analyze("gentle fluffy companion for an elderly couple")
	assert.Equal(t, MatchDescriptive, an.MatchType)
	assert.True(t, an.UseFuzzy)
	assert.True(t, an.UseSynonyms)

	an = a.Analyze("golden retriever")
	assert.False(t, an.UseFuzzy)
	assert.False(t, an.UseSynonyms)
}

func TestAnalyze_QuotedQueryStripped(t *testing.T) {
	a := newTestAnalyzer(t)

	an := a.Analyze(`"Golden Retriever"`)
	assert.True(t, an.Quoted)
	assert.Equal(t, "golden retriever", an.Query)
	assert.Equal(t, []string{"golden", "retriever"}, an.Tokens)
}

func TestAnalyze_GenderExtraction(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		raw        string
		wantGender string
		wantTerm   string
	}{
		{"female golden retriever", "female", "female"},
		{"sweet girl cat", "female", "girl"},
		{"male husky", "male", "male"},
		{"想领养一只母猫", "female", "母"},
		{"calm senior cat", "", ""},
		// "female" contains "male" as substring; whole-word match must win
		{"female puppy", "female", "female"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			an := a.Analyze(tt.raw)
			assert.Equal(t, tt.wantGender, an.Gender)
			assert.Equal(t, tt.wantTerm, an.GenderTerm)
		})
	}
}

func TestAnalyze_AgeExtraction(t *testing.T) {
	a := newTestAnalyzer(t)

	t.Run("years converted to months", func(t *testing.T) {
		an := a.Analyze("dog 2 years old")
		require.NotNil(t, an.AgeMonths)
		assert.InDelta(t, 24, *an.AgeMonths, 1e-9)
	})

	t.Run("months kept as is", func(t *testing.T) {
		an := a.Analyze("kitten 6 months")
		require.NotNil(t, an.AgeMonths)
		assert.InDelta(t, 6, *an.AgeMonths, 1e-9)
	})

	t.Run("years take precedence over months", func(t *testing.T) {
		an := a.Analyze("dog 2 years or 30 months")
		require.NotNil(t, an.AgeMonths)
		assert.InDelta(t, 24, *an.AgeMonths, 1e-9)
	})

	t.Run("no age", func(t *testing.T) {
		an := a.Analyze("golden retriever")
		assert.Nil(t, an.AgeMonths)
	})
}

func TestAnalyze_WeightExtraction(t *testing.T) {
	a := newTestAnalyzer(t)

	t.Run("kilograms", func(t *testing.T) {
		an := a.Analyze("dog around 10 kg")
		require.NotNil(t, an.WeightKg)
		assert.InDelta(t, 10, *an.WeightKg, 1e-9)
	})

	t.Run("pounds converted", func(t *testing.T) {
		an := a.Analyze("cat about 11 lbs")
		require.NotNil(t, an.WeightKg)
		assert.InDelta(t, 11/2.2046, *an.WeightKg, 1e-6)
	})
}

func TestAnalyze_HealthTermsAndNumericSignal(t *testing.T) {
	a := newTestAnalyzer(t)

	an := a.Analyze("vaccinated and neutered dog 3 years old")
	assert.ElementsMatch(t, []string{"vaccinated", "neutered"}, an.HealthTerms)
	assert.True(t, an.HasNumeric)

	an = a.Analyze("calm senior cat")
	assert.Empty(t, an.HealthTerms)
	assert.False(t, an.HasNumeric)
}

func TestAnalyze_EmptyQuery(t *testing.T) {
	a := newTestAnalyzer(t)

	an := a.Analyze("   ")
	assert.Empty(t, an.Tokens)
	assert.Equal(t, MatchExact, an.MatchType)
}

func TestNewAnalyzer_InvalidPattern(t *testing.T) {
	cfg := testAnalyzerConfig()
	cfg.AgeYearPatterns = []string{`(\d+`}

	_, err := NewAnalyzer(cfg)
	assert.Error(t, err)
}
