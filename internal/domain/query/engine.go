package query

import (
	"context"

	"paw-adopt-api/pkg/errors"
)

// Sort 单列排序指令
type Sort struct {
	Column     string
	Descending bool
}

// Plan 引擎产出的存储层执行计划
type Plan struct {
	Filter  Filter
	Sorts   []Sort
	Skip    int
	Limit   int
	Columns []string
}

// Store 执行计划的存储后端
type Store[T any] interface {
	Find(ctx context.Context, plan *Plan) ([]*T, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}

// FieldMap 对外字段名到存储列名的映射，附带强制投影列
type FieldMap struct {
	columns map[string]string
	forced  []string
}

// NewFieldMap 创建字段映射，forced 列在任何投影下都会被保留
func NewFieldMap(columns map[string]string, forced ...string) FieldMap {
	return FieldMap{columns: columns, forced: forced}
}

// Column 解析对外字段名对应的列名
func (m FieldMap) Column(field string) (string, bool) {
	col, ok := m.columns[field]
	return col, ok
}

// Options 引擎的实体相关配置
type Options struct {
	Fields      FieldMap
	Scope       Scope
	DefaultSort []Sort
	TieBreak    string
}

// Engine 通用查询引擎：过滤、授权、排序、分页、投影依次应用，
// 各阶段均为纯变换，同一输入必然产出同一计划。
type Engine[T any] struct {
	store    Store[T]
	resolver *Resolver
	opts     Options
}

// New 创建查询引擎
func New[T any](store Store[T], resolver *Resolver, opts Options) *Engine[T] {
	if opts.TieBreak == "" {
		opts.TieBreak = "id"
	}
	if len(opts.DefaultSort) == 0 {
		opts.DefaultSort = []Sort{{Column: "created_at"}, {Column: opts.TieBreak}}
	}
	return &Engine[T]{store: store, resolver: resolver, opts: opts}
}

// BuildPlan 将查询条件编译为执行计划，不触达存储
func (e *Engine[T]) BuildPlan(flags AccessFlags, caller *Caller, crit EntityCriteria) (*Plan, error) {
	base := crit.Base()
	if err := base.Validate(); err != nil {
		return nil, err
	}

	filter, err := crit.BuildFilter()
	if err != nil {
		return nil, err
	}
	filter = e.resolver.Apply(flags, filter, caller, e.opts.Scope)

	sorts, err := e.buildSorts(base)
	if err != nil {
		return nil, err
	}
	columns, err := e.buildColumns(base)
	if err != nil {
		return nil, err
	}

	skip, limit := paginate(base.Offset, base.PageSize)
	return &Plan{
		Filter:  filter,
		Sorts:   sorts,
		Skip:    skip,
		Limit:   limit,
		Columns: columns,
	}, nil
}

// Collect 编译并执行查询，返回结果页
func (e *Engine[T]) Collect(ctx context.Context, flags AccessFlags, caller *Caller, crit EntityCriteria) ([]*T, error) {
	plan, err := e.BuildPlan(flags, caller, crit)
	if err != nil {
		return nil, err
	}
	return e.store.Find(ctx, plan)
}

// Count 统计授权过滤后的总条数，忽略分页与投影
func (e *Engine[T]) Count(ctx context.Context, flags AccessFlags, caller *Caller, crit EntityCriteria) (int64, error) {
	if err := crit.Base().Validate(); err != nil {
		return 0, err
	}
	filter, err := crit.BuildFilter()
	if err != nil {
		return 0, err
	}
	filter = e.resolver.Apply(flags, filter, caller, e.opts.Scope)
	return e.store.Count(ctx, filter)
}

// buildSorts 解析排序字段，未指定时使用默认排序，
// 末尾始终追加主键升序保证排序稳定。
func (e *Engine[T]) buildSorts(base *Criteria) ([]Sort, error) {
	if len(base.SortBy) == 0 {
		return append([]Sort(nil), e.opts.DefaultSort...), nil
	}

	sorts := make([]Sort, 0, len(base.SortBy)+1)
	hasTieBreak := false
	for _, field := range base.SortBy {
		col, ok := e.opts.Fields.Column(field)
		if !ok {
			return nil, errors.New(errors.CodeInvalidParam, "unknown sort field: "+field)
		}
		if col == e.opts.TieBreak {
			hasTieBreak = true
		}
		sorts = append(sorts, Sort{Column: col, Descending: base.SortDescending})
	}
	if !hasTieBreak {
		sorts = append(sorts, Sort{Column: e.opts.TieBreak})
	}
	return sorts, nil
}

// buildColumns 解析投影字段并并入强制列；未指定字段时返回 nil 表示全列
func (e *Engine[T]) buildColumns(base *Criteria) ([]string, error) {
	if len(base.Fields) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(base.Fields)+len(e.opts.Fields.forced))
	columns := make([]string, 0, len(base.Fields)+len(e.opts.Fields.forced))
	add := func(col string) {
		if _, ok := seen[col]; ok {
			return
		}
		seen[col] = struct{}{}
		columns = append(columns, col)
	}

	for _, col := range e.opts.Fields.forced {
		add(col)
	}
	for _, field := range base.Fields {
		col, ok := e.opts.Fields.Column(field)
		if !ok {
			return nil, errors.New(errors.CodeInvalidParam, "unknown projection field: "+field)
		}
		add(col)
	}
	return columns, nil
}

// paginate 将 1 起始页号换算为跳过条数，页号 0 与 1 等价
func paginate(offset, pageSize int) (skip, limit int) {
	page := offset - 1
	if page < 0 {
		page = 0
	}
	limit = pageSize
	if limit < 1 {
		limit = 1
	}
	return page * limit, limit
}
