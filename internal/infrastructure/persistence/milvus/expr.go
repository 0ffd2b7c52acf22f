package milvus

import (
	"fmt"
	"strings"

	"paw-adopt-api/internal/domain/query"
)

// CompileExpr 将过滤谓词树编译为 Milvus 布尔表达式，空过滤器编译为空串
func CompileExpr(f query.Filter) string {
	switch t := f.(type) {
	case nil:
		return ""
	case query.Cond:
		return compileCond(t)
	case query.And:
		return compileGroup(t, " && ")
	case query.Or:
		return compileGroup(t, " || ")
	default:
		return ""
	}
}

func compileCond(c query.Cond) string {
	switch c.Op {
	case query.OpEq:
		return c.Field + " == " + literal(c.Value)
	case query.OpNe:
		return c.Field + " != " + literal(c.Value)
	case query.OpIn:
		return c.Field + " in " + listLiteral(c.Value)
	case query.OpNotIn:
		return "!(" + c.Field + " in " + listLiteral(c.Value) + ")"
	case query.OpGte:
		return c.Field + " >= " + literal(c.Value)
	case query.OpLte:
		return c.Field + " <= " + literal(c.Value)
	case query.OpContains:
		return c.Field + ` like "%` + escape(fmt.Sprint(c.Value)) + `%"`
	default:
		return ""
	}
}

func compileGroup(parts []query.Filter, sep string) string {
	exprs := make([]string, 0, len(parts))
	for _, p := range parts {
		if e := CompileExpr(p); e != "" {
			exprs = append(exprs, e)
		}
	}
	switch len(exprs) {
	case 0:
		return ""
	case 1:
		return exprs[0]
	default:
		return "(" + strings.Join(exprs, sep) + ")"
	}
}

func literal(v any) string {
	switch t := v.(type) {
	case string:
		return `"` + escape(t) + `"`
	case bool:
		return fmt.Sprintf("%t", t)
	case int, int32, int64:
		return fmt.Sprintf("%d", t)
	case float32, float64:
		return fmt.Sprintf("%v", t)
	default:
		return `"` + escape(fmt.Sprint(t)) + `"`
	}
}

func listLiteral(v any) string {
	switch t := v.(type) {
	case []string:
		parts := make([]string, 0, len(t))
		for _, s := range t {
			parts = append(parts, `"`+escape(s)+`"`)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []any:
		parts := make([]string, 0, len(t))
		for _, s := range t {
			parts = append(parts, literal(s))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "[" + literal(v) + "]"
	}
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
