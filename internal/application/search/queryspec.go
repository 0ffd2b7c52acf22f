package search

import (
	"math"
	"strings"

	"paw-adopt-api/internal/config"
)

// SubQueryKind 子查询类型
type SubQueryKind string

const (
	SubPhrase  SubQueryKind = "phrase"
	SubTerms   SubQueryKind = "terms"
	SubSynonym SubQueryKind = "synonym"
	SubFuzzy   SubQueryKind = "fuzzy"
	SubTag     SubQueryKind = "tag"
	SubNumeric SubQueryKind = "numeric"
)

// SubQuery 全文索引子查询，由适配层渲染为具体语法
type SubQuery struct {
	Kind  SubQueryKind
	Field string
	Terms []string
	Min   float64
	Max   float64
	Slop  int
	Boost float64
}

// TextQuerySpec 全文检索执行描述：若干可选子查询的析取，
// 附带主文本字段的最少命中词数约束与动态分数阈值。
// 归一化所需的参数一并携带。
type TextQuerySpec struct {
	Subs      []SubQuery
	Tokens    []string
	MinMatch  int
	Threshold float64
	Limit     int

	MatchType   MatchType
	Multiplier  float64
	MaxExpected float64
}

// specBuilder 按分析结果与调优配置构造全文查询
type specBuilder struct {
	cfg config.SemanticConfig
}

// Build 构造全文查询描述。
// 主短语子查询始终存在；性别、健康、数值与同义词子查询按分析
// 信号追加；最少命中词数随匹配类型收紧。
func (b *specBuilder) Build(an *Analysis, limit int) *TextQuerySpec {
	boosts := b.cfg.Boosts
	spec := &TextQuerySpec{
		Limit:       limit,
		Tokens:      an.Tokens,
		MinMatch:    minMatch(an),
		MatchType:   an.MatchType,
		Multiplier:  an.Multiplier,
		MaxExpected: b.maxExpected(an.MatchType),
		Threshold:   b.threshold(an),
	}

	if len(an.Tokens) > 0 {
		spec.Subs = append(spec.Subs, SubQuery{
			Kind:  SubPhrase,
			Field: "search_text",
			Terms: an.Tokens,
			Slop:  an.Slop,
			Boost: boosts.Phrase,
		})
		if len(an.Tokens) > 1 {
			spec.Subs = append(spec.Subs, SubQuery{
				Kind:  SubTerms,
				Field: "search_text",
				Terms: an.Tokens,
				Boost: boosts.Text,
			})
		}
	}

	if an.UseSynonyms {
		if syns := b.expandSynonyms(an.Tokens); len(syns) > 0 {
			spec.Subs = append(spec.Subs, SubQuery{
				Kind:  SubSynonym,
				Field: "search_text",
				Terms: syns,
				Boost: boosts.Synonym,
			})
		}
	}
	if an.UseFuzzy {
		spec.Subs = append(spec.Subs, SubQuery{
			Kind:  SubFuzzy,
			Field: "description",
			Terms: fuzzyTerms(an.Tokens),
			Boost: boosts.Fuzzy,
		})
	}

	if an.Gender != "" {
		spec.Subs = append(spec.Subs, SubQuery{
			Kind:  SubTag,
			Field: "gender",
			Terms: []string{an.Gender},
			Boost: boosts.GenderCanonical,
		})
		if an.GenderTerm != "" && !strings.EqualFold(an.GenderTerm, an.Gender) {
			spec.Subs = append(spec.Subs, SubQuery{
				Kind:  SubTerms,
				Field: "search_text",
				Terms: []string{an.GenderTerm},
				Boost: boosts.GenderRaw,
			})
		}
	}
	for _, term := range an.HealthTerms {
		spec.Subs = append(spec.Subs, SubQuery{
			Kind:  SubTerms,
			Field: "health_notes",
			Terms: []string{term},
			Boost: boosts.Text,
		})
	}

	if an.AgeMonths != nil {
		tol := toleranceFor(*an.AgeMonths/12.0, b.cfg.AgeTolerances) * 12.0
		spec.Subs = append(spec.Subs, SubQuery{
			Kind:  SubNumeric,
			Field: "age_months",
			Min:   maxF(*an.AgeMonths-tol, 0),
			Max:   *an.AgeMonths + tol,
			Boost: boosts.Numeric,
		})
	}
	if an.WeightKg != nil {
		tol := toleranceFor(*an.WeightKg, b.cfg.WeightTolerances)
		spec.Subs = append(spec.Subs, SubQuery{
			Kind:  SubNumeric,
			Field: "weight_kg",
			Min:   maxF(*an.WeightKg-tol, 0),
			Max:   *an.WeightKg + tol,
			Boost: boosts.Numeric,
		})
	}
	return spec
}

const (
	mixedMinMatchRatio       = 0.75
	descriptiveMinMatchRatio = 0.6
)

// minMatch 计算主文本字段必须命中的最少词数：
// Exact 全部命中，Phrase 允许缺一，Mixed/Descriptive 按比例取整
func minMatch(an *Analysis) int {
	n := len(an.Tokens)
	if n == 0 {
		return 0
	}
	switch an.MatchType {
	case MatchExact:
		return n
	case MatchPhrase:
		if n <= 1 {
			return 1
		}
		return n - 1
	case MatchMixed:
		return int(math.Ceil(float64(n) * mixedMinMatchRatio))
	default:
		return int(math.Ceil(float64(n) * descriptiveMinMatchRatio))
	}
}

// threshold 基础阈值先乘匹配类型因子，再按查询形态缩放
func (b *specBuilder) threshold(an *Analysis) float64 {
	t := b.cfg.Threshold.Base
	if f, ok := b.cfg.Threshold.MatchTypeFactor[string(an.MatchType)]; ok && f > 0 {
		t *= f
	}
	switch {
	case len(an.Tokens) == 1:
		t *= b.cfg.Threshold.SingleWordFactor
	case len(an.Tokens) > 5:
		t *= b.cfg.Threshold.LongQueryFactor
	}
	if an.Gender != "" {
		t *= b.cfg.Threshold.GenderFactor
	}
	if an.HasNumeric {
		t *= b.cfg.Threshold.NumericFactor
	}
	return t
}

func (b *specBuilder) maxExpected(mt MatchType) float64 {
	if v, ok := b.cfg.MaxExpectedScore[string(mt)]; ok && v > 0 {
		return v
	}
	return 100
}

// expandSynonyms 去重展开查询词的同义词，不含原词
func (b *specBuilder) expandSynonyms(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		seen[t] = struct{}{}
	}
	var out []string
	for _, t := range tokens {
		for _, s := range b.cfg.Synonyms[t] {
			s = strings.ToLower(s)
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// fuzzyTerms 过滤掉过短的词，短词模糊匹配噪声过大
func fuzzyTerms(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if len(t) >= 4 {
			out = append(out, t)
		}
	}
	return out
}

// toleranceFor 按分桶查找数值容差，超出全部分桶时取末桶
func toleranceFor(value float64, buckets []config.ToleranceBucket) float64 {
	for _, b := range buckets {
		if value <= b.UpTo {
			return b.Tolerance
		}
	}
	if len(buckets) > 0 {
		return buckets[len(buckets)-1].Tolerance
	}
	return 0
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
