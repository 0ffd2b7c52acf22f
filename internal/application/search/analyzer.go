package search

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"paw-adopt-api/internal/config"
	"paw-adopt-api/pkg/errors"
)

// MatchType 查询匹配类型
type MatchType string

const (
	MatchExact       MatchType = "exact"
	MatchPhrase      MatchType = "phrase"
	MatchMixed       MatchType = "mixed"
	MatchDescriptive MatchType = "descriptive"
)

// Analysis 查询分析结果
type Analysis struct {
	Raw        string
	Query      string
	Tokens     []string
	MatchType  MatchType
	Slop       int
	Multiplier float64
	Quoted     bool

	Gender      string
	GenderTerm  string
	HealthTerms []string
	AgeMonths   *float64
	WeightKg    *float64
	HasNumeric  bool

	UseFuzzy    bool
	UseSynonyms bool
}

// Analyzer 查询分析器：抽取结构化信号并分类匹配类型。
// 分类规则按顺序命中：
// 带引号或 ≤2 词 → Exact（slop 0，×1.5）；
// ≤3 词且无数值 → Phrase（slop 1，×1.2）；
// >5 词 → Descriptive（slop 3，×0.8，启用模糊与同义词）；
// 其余 → Mixed（slop 2，×1.0）。
type Analyzer struct {
	cfg config.AnalyzerConfig

	genderKeys []string
	ageYear    []*regexp.Regexp
	ageMonth   []*regexp.Regexp
	weightKg   []*regexp.Regexp
	weightLb   []*regexp.Regexp
}

// NewAnalyzer 创建查询分析器，预编译全部数值模式
func NewAnalyzer(cfg config.AnalyzerConfig) (*Analyzer, error) {
	a := &Analyzer{cfg: cfg}
	for key := range cfg.GenderTerms {
		a.genderKeys = append(a.genderKeys, key)
	}
	// 长词优先匹配，避免 "male" 抢先命中 "female" 的子串
	sort.Slice(a.genderKeys, func(i, j int) bool {
		if len(a.genderKeys[i]) != len(a.genderKeys[j]) {
			return len(a.genderKeys[i]) > len(a.genderKeys[j])
		}
		return a.genderKeys[i] < a.genderKeys[j]
	})

	var err error
	if a.ageYear, err = compilePatterns(cfg.AgeYearPatterns); err != nil {
		return nil, err
	}
	if a.ageMonth, err = compilePatterns(cfg.AgeMonthPatterns); err != nil {
		return nil, err
	}
	if a.weightKg, err = compilePatterns(cfg.WeightKgPatterns); err != nil {
		return nil, err
	}
	if a.weightLb, err = compilePatterns(cfg.WeightLbPatterns); err != nil {
		return nil, err
	}
	return a, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternalError, "invalid analyzer pattern: "+p)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Analyze 分析查询串，输入为空时返回空分析
func (a *Analyzer) Analyze(raw string) *Analysis {
	an := &Analysis{Raw: raw}

	trimmed := strings.TrimSpace(raw)
	if len(trimmed) >= 2 && strings.HasPrefix(trimmed, `"`) && strings.HasSuffix(trimmed, `"`) {
		an.Quoted = true
		trimmed = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	}
	lower := strings.ToLower(trimmed)
	an.Query = lower
	an.Tokens = strings.Fields(lower)

	a.extractGender(an, lower)
	a.extractHealth(an, lower)
	a.extractAge(an, lower)
	a.extractWeight(an, lower)
	an.HasNumeric = an.AgeMonths != nil || an.WeightKg != nil || containsDigit(lower)

	switch {
	case an.Quoted || len(an.Tokens) <= 2:
		an.MatchType = MatchExact
		an.Slop = 0
		an.Multiplier = 1.5
	case len(an.Tokens) <= 3 && !an.HasNumeric:
		an.MatchType = MatchPhrase
		an.Slop = 1
		an.Multiplier = 1.2
	case len(an.Tokens) > 5:
		an.MatchType = MatchDescriptive
		an.Slop = 3
		an.Multiplier = 0.8
		an.UseFuzzy = true
		an.UseSynonyms = true
	default:
		an.MatchType = MatchMixed
		an.Slop = 2
		an.Multiplier = 1.0
	}
	return an
}

func (a *Analyzer) extractGender(an *Analysis, lower string) {
	for _, key := range a.genderKeys {
		if matchTerm(an.Tokens, lower, key) {
			an.Gender = a.cfg.GenderTerms[key]
			an.GenderTerm = key
			return
		}
	}
}

func (a *Analyzer) extractHealth(an *Analysis, lower string) {
	for _, term := range a.cfg.HealthTerms {
		if matchTerm(an.Tokens, lower, strings.ToLower(term)) {
			an.HealthTerms = append(an.HealthTerms, term)
		}
	}
}

func (a *Analyzer) extractAge(an *Analysis, lower string) {
	if v, ok := firstNumber(a.ageYear, lower); ok {
		months := v * a.cfg.MonthsPerYear
		an.AgeMonths = &months
		return
	}
	if v, ok := firstNumber(a.ageMonth, lower); ok {
		an.AgeMonths = &v
	}
}

func (a *Analyzer) extractWeight(an *Analysis, lower string) {
	if v, ok := firstNumber(a.weightKg, lower); ok {
		an.WeightKg = &v
		return
	}
	if v, ok := firstNumber(a.weightLb, lower); ok {
		kg := v / a.cfg.PoundsPerKg
		an.WeightKg = &kg
	}
}

// matchTerm ASCII 词项按整词匹配，CJK 词项按子串匹配
func matchTerm(tokens []string, lower, key string) bool {
	if isASCII(key) {
		for _, tok := range tokens {
			if strings.Trim(tok, ".,!?;:") == key {
				return true
			}
		}
		return false
	}
	return strings.Contains(lower, key)
}

func firstNumber(patterns []*regexp.Regexp, s string) (float64, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(s)
		if len(m) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return v, true
		}
	}
	return 0, false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
