// Package query 提供通用查询管线：过滤、授权、排序、分页、投影。
// 该包与具体存储无关，过滤谓词由各存储适配层编译为自身的查询语法。
package query

// Op 过滤操作符
type Op string

const (
	OpEq       Op = "eq"
	OpNe       Op = "ne"
	OpIn       Op = "in"
	OpNotIn    Op = "not_in"
	OpGte      Op = "gte"
	OpLte      Op = "lte"
	OpContains Op = "contains"
)

// Filter 后端无关的布尔过滤谓词树
type Filter interface {
	isFilter()
}

// Cond 单字段条件（叶子节点）
type Cond struct {
	Field string
	Op    Op
	Value any
}

func (Cond) isFilter() {}

// And 合取组，子节点全部成立
type And []Filter

func (And) isFilter() {}

// Or 析取组，任一子节点成立
type Or []Filter

func (Or) isFilter() {}

// Eq 等值条件
func Eq(field string, value any) Cond {
	return Cond{Field: field, Op: OpEq, Value: value}
}

// Ne 不等条件
func Ne(field string, value any) Cond {
	return Cond{Field: field, Op: OpNe, Value: value}
}

// In 集合成员条件
func In(field string, values []string) Cond {
	return Cond{Field: field, Op: OpIn, Value: values}
}

// NotIn 集合排除条件
func NotIn(field string, values []string) Cond {
	return Cond{Field: field, Op: OpNotIn, Value: values}
}

// Gte 大于等于（闭区间下界）
func Gte(field string, value any) Cond {
	return Cond{Field: field, Op: OpGte, Value: value}
}

// Lte 小于等于（闭区间上界）
func Lte(field string, value any) Cond {
	return Cond{Field: field, Op: OpLte, Value: value}
}

// Contains 子串匹配条件
func Contains(field string, value string) Cond {
	return Cond{Field: field, Op: OpContains, Value: value}
}

// IsEmpty 判断过滤器是否为空（nil 或无子节点的组）
func IsEmpty(f Filter) bool {
	switch t := f.(type) {
	case nil:
		return true
	case And:
		for _, c := range t {
			if !IsEmpty(c) {
				return false
			}
		}
		return true
	case Or:
		for _, c := range t {
			if !IsEmpty(c) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Merge 合取合并两个过滤器，任一为空时返回另一个
func Merge(a, b Filter) Filter {
	if IsEmpty(a) {
		return b
	}
	if IsEmpty(b) {
		return a
	}
	return And{a, b}
}
