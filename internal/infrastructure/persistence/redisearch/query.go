package redisearch

import (
	"fmt"
	"strings"

	"paw-adopt-api/internal/application/search"
	"paw-adopt-api/internal/domain/query"
)

// RenderQuery 将全文查询描述与结构化过滤器渲染为 FT.SEARCH 查询串。
// 过滤器与最少命中词数约束作为必选前置条件，子查询以析取相连，
// 依靠 BM25 对命中的子查询加权求和。
func RenderQuery(spec *search.TextQuerySpec, filter query.Filter) string {
	var subs []string
	for _, sub := range spec.Subs {
		if s := renderSub(sub); s != "" {
			subs = append(subs, s)
		}
	}
	union := strings.Join(subs, " | ")
	if union == "" {
		union = "*"
	} else if len(subs) > 1 {
		union = "(" + union + ")"
	}

	var head []string
	if pre := RenderFilter(filter); pre != "" {
		head = append(head, pre)
	}
	if req := renderMinMatch(spec); req != "" {
		head = append(head, req)
	}
	if len(head) == 0 {
		return union
	}
	return strings.Join(head, " ") + " " + union
}

// 最少命中词数的组合枚举随缺词数指数增长，超过该上限时收紧
// 要求到 n-2 个词，仍不低于比例下限
const maxMinMatchOmissions = 2

// renderMinMatch 将最少命中词数约束渲染为零权重的必选词组：
// 要求全部词时为合取，否则枚举 m 词组合的析取。零权重使该词组
// 只做门控，不影响 BM25 得分。
func renderMinMatch(spec *search.TextQuerySpec) string {
	n := len(spec.Tokens)
	m := spec.MinMatch
	if m <= 0 || n == 0 {
		return ""
	}
	if m > n {
		m = n
	}
	if n-m > maxMinMatchOmissions {
		m = n - maxMinMatchOmissions
	}

	var body string
	if m == n {
		body = escapeTerms(spec.Tokens, " ")
	} else {
		combos := combinations(spec.Tokens, m)
		groups := make([]string, 0, len(combos))
		for _, combo := range combos {
			groups = append(groups, "("+escapeTerms(combo, " ")+")")
		}
		body = strings.Join(groups, "|")
	}
	return fmt.Sprintf("@search_text:(%s)=>{$weight: 0}", body)
}

// combinations 按原词序枚举 tokens 的全部 m 词组合
func combinations(tokens []string, m int) [][]string {
	var out [][]string
	combo := make([]string, 0, m)
	var walk func(start int)
	walk = func(start int) {
		if len(combo) == m {
			out = append(out, append([]string(nil), combo...))
			return
		}
		for i := start; i <= len(tokens)-(m-len(combo)); i++ {
			combo = append(combo, tokens[i])
			walk(i + 1)
			combo = combo[:len(combo)-1]
		}
	}
	walk(0)
	return out
}

func renderSub(sub search.SubQuery) string {
	switch sub.Kind {
	case search.SubPhrase:
		if len(sub.Terms) == 0 {
			return ""
		}
		return fmt.Sprintf("@%s:(%s)=>{$slop: %d; $weight: %g}",
			sub.Field, escapeTerms(sub.Terms, " "), sub.Slop, sub.Boost)
	case search.SubTerms, search.SubSynonym:
		if len(sub.Terms) == 0 {
			return ""
		}
		return fmt.Sprintf("@%s:(%s)=>{$weight: %g}",
			sub.Field, escapeTerms(sub.Terms, "|"), sub.Boost)
	case search.SubFuzzy:
		if len(sub.Terms) == 0 {
			return ""
		}
		fuzzy := make([]string, 0, len(sub.Terms))
		for _, t := range sub.Terms {
			fuzzy = append(fuzzy, "%"+escapeQuery(t)+"%")
		}
		return fmt.Sprintf("@%s:(%s)=>{$weight: %g}",
			sub.Field, strings.Join(fuzzy, "|"), sub.Boost)
	case search.SubTag:
		if len(sub.Terms) == 0 {
			return ""
		}
		tags := make([]string, 0, len(sub.Terms))
		for _, t := range sub.Terms {
			tags = append(tags, escapeTag(t))
		}
		return fmt.Sprintf("@%s:{%s}=>{$weight: %g}",
			sub.Field, strings.Join(tags, "|"), sub.Boost)
	case search.SubNumeric:
		// 数值范围不参与评分
		return fmt.Sprintf("@%s:[%g %g]", sub.Field, sub.Min, sub.Max)
	default:
		return ""
	}
}

// RenderFilter 将过滤谓词树渲染为 FT.SEARCH 前置过滤串。
// 字符串条件按 TAG 字段处理，数值条件按 NUMERIC 范围处理。
func RenderFilter(f query.Filter) string {
	switch t := f.(type) {
	case nil:
		return ""
	case query.Cond:
		return renderCond(t)
	case query.And:
		return renderGroup(t, " ")
	case query.Or:
		return renderGroup(t, " | ")
	default:
		return ""
	}
}

func renderCond(c query.Cond) string {
	switch c.Op {
	case query.OpEq:
		if s, ok := c.Value.(string); ok {
			return "@" + c.Field + ":{" + escapeTag(s) + "}"
		}
		return fmt.Sprintf("@%s:[%v %v]", c.Field, c.Value, c.Value)
	case query.OpNe:
		if s, ok := c.Value.(string); ok {
			return "-@" + c.Field + ":{" + escapeTag(s) + "}"
		}
		return fmt.Sprintf("-@%s:[%v %v]", c.Field, c.Value, c.Value)
	case query.OpIn:
		return "@" + c.Field + ":{" + tagUnion(c.Value) + "}"
	case query.OpNotIn:
		return "-@" + c.Field + ":{" + tagUnion(c.Value) + "}"
	case query.OpGte:
		return fmt.Sprintf("@%s:[%v +inf]", c.Field, c.Value)
	case query.OpLte:
		return fmt.Sprintf("@%s:[-inf %v]", c.Field, c.Value)
	case query.OpContains:
		return fmt.Sprintf("@%s:(%s)", c.Field, escapeQuery(fmt.Sprint(c.Value)))
	default:
		return ""
	}
}

func renderGroup(parts []query.Filter, sep string) string {
	rendered := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := RenderFilter(p); s != "" {
			rendered = append(rendered, s)
		}
	}
	switch len(rendered) {
	case 0:
		return ""
	case 1:
		return rendered[0]
	default:
		return "(" + strings.Join(rendered, sep) + ")"
	}
}

func tagUnion(v any) string {
	values, ok := v.([]string)
	if !ok {
		return escapeTag(fmt.Sprint(v))
	}
	parts := make([]string, 0, len(values))
	for _, s := range values {
		parts = append(parts, escapeTag(s))
	}
	return strings.Join(parts, "|")
}

func escapeTerms(terms []string, sep string) string {
	escaped := make([]string, 0, len(terms))
	for _, t := range terms {
		escaped = append(escaped, escapeQuery(t))
	}
	return strings.Join(escaped, sep)
}

func escapeTag(s string) string {
	return tagEscaper.Replace(s)
}

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var tagEscaper = strings.NewReplacer(
	",", "\\,", ".", "\\.", "<", "\\<", ">", "\\>",
	"{", "\\{", "}", "\\}", "\"", "\\\"", "'", "\\'",
	":", "\\:", ";", "\\;", "!", "\\!", "@", "\\@",
	"#", "\\#", "$", "\\$", "%", "\\%", "^", "\\^",
	"&", "\\&", "*", "\\*", "(", "\\(", ")", "\\)",
	"-", "\\-", "+", "\\+", "=", "\\=", "~", "\\~",
	" ", "\\ ",
)

var queryEscaper = strings.NewReplacer(
	`\`, `\\`, `'`, `\'`, `"`, `\"`, `@`, `\@`,
	`{`, `\{`, `}`, `\}`, `(`, `\(`, `)`, `\)`,
	`|`, `\|`, `-`, `\-`, `~`, `\~`, `*`, `\*`,
	`[`, `\[`, `]`, `\]`, `!`, `\!`, `%`, `\%`,
	`^`, `\^`, `$`, `\$`, `<`, `\<`, `>`, `\>`,
	`=`, `\=`, `;`, `\;`, `+`, `\+`,
)
