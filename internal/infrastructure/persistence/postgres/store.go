package postgres

import (
	"context"
	"fmt"
	"strings"

	"paw-adopt-api/internal/domain/query"
	"paw-adopt-api/pkg/errors"
)

// store 通用执行计划存储，按表名执行 query.Plan
type store[T any] struct {
	client *Client
	table  string
}

// Find 执行查询计划
func (s *store[T]) Find(ctx context.Context, plan *query.Plan) ([]*T, error) {
	ctx, span := tracer.Start(ctx, "postgres."+s.table+".Find")
	defer span.End()

	db := s.client.dbFrom(ctx).Table(s.table)
	if where, args := CompileFilter(plan.Filter); where != "" {
		db = db.Where(where, args...)
	}
	if len(plan.Columns) > 0 {
		db = db.Select(plan.Columns)
	}
	for _, srt := range plan.Sorts {
		dir := "ASC"
		if srt.Descending {
			dir = "DESC"
		}
		db = db.Order(srt.Column + " " + dir)
	}

	var items []*T
	err := db.Offset(plan.Skip).Limit(plan.Limit).Find(&items).Error
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "find "+s.table)
	}
	return items, nil
}

// Count 统计过滤后的总条数
func (s *store[T]) Count(ctx context.Context, filter query.Filter) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres."+s.table+".Count")
	defer span.End()

	db := s.client.dbFrom(ctx).Table(s.table)
	if where, args := CompileFilter(filter); where != "" {
		db = db.Where(where, args...)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		span.RecordError(err)
		return 0, errors.Wrap(err, errors.CodeDatabaseError, "count "+s.table)
	}
	return total, nil
}

// CompileFilter 将过滤谓词树编译为 SQL 条件与参数。
// 空过滤器编译为空串。列名来自实体字段映射，无需转义。
func CompileFilter(f query.Filter) (string, []any) {
	switch t := f.(type) {
	case nil:
		return "", nil
	case query.Cond:
		return compileCond(t)
	case query.And:
		return compileGroup(t, " AND ")
	case query.Or:
		return compileGroup(t, " OR ")
	default:
		return "", nil
	}
}

func compileCond(c query.Cond) (string, []any) {
	switch c.Op {
	case query.OpEq:
		return c.Field + " = ?", []any{c.Value}
	case query.OpNe:
		return c.Field + " <> ?", []any{c.Value}
	case query.OpIn:
		return c.Field + " IN ?", []any{c.Value}
	case query.OpNotIn:
		return c.Field + " NOT IN ?", []any{c.Value}
	case query.OpGte:
		return c.Field + " >= ?", []any{c.Value}
	case query.OpLte:
		return c.Field + " <= ?", []any{c.Value}
	case query.OpContains:
		return c.Field + " ILIKE ?", []any{"%" + fmt.Sprint(c.Value) + "%"}
	default:
		return "", nil
	}
}

func compileGroup(parts []query.Filter, sep string) (string, []any) {
	clauses := make([]string, 0, len(parts))
	var args []any
	for _, p := range parts {
		clause, sub := CompileFilter(p)
		if clause == "" {
			continue
		}
		clauses = append(clauses, clause)
		args = append(args, sub...)
	}
	switch len(clauses) {
	case 0:
		return "", nil
	case 1:
		return clauses[0], args
	default:
		return "(" + strings.Join(clauses, sep) + ")", args
	}
}
