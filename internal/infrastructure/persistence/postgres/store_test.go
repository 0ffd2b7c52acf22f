package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"paw-adopt-api/internal/domain/query"
)

func TestCompileFilter_Conds(t *testing.T) {
	tests := []struct {
		name      string
		filter    query.Filter
		wantWhere string
		wantArgs  []any
	}{
		{"nil", nil, "", nil},
		{"eq", query.Eq("status", "available"), "status = ?", []any{"available"}},
		{"ne", query.Ne("status", "adopted"), "status <> ?", []any{"adopted"}},
		{"in", query.In("shelter_id", []string{"s1", "s2"}),
			"shelter_id IN ?", []any{[]string{"s1", "s2"}}},
		{"not in", query.NotIn("id", []string{"x"}), "id NOT IN ?", []any{[]string{"x"}}},
		{"gte", query.Gte("age_months", 6), "age_months >= ?", []any{6}},
		{"lte", query.Lte("weight_kg", 10.5), "weight_kg <= ?", []any{10.5}},
		{"contains uses ilike", query.Contains("name", "lu"), "name ILIKE ?", []any{"%lu%"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := CompileFilter(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestCompileFilter_Groups(t *testing.T) {
	t.Run("and", func(t *testing.T) {
		where, args := CompileFilter(query.And{
			query.Eq("species", "dog"),
			query.Gte("age_months", 6),
		})
		assert.Equal(t, "(species = ? AND age_months >= ?)", where)
		assert.Equal(t, []any{"dog", 6}, args)
	})

	t.Run("or", func(t *testing.T) {
		where, _ := CompileFilter(query.Or{
			query.Eq("created_by_id", "u1"),
			query.In("shelter_id", []string{"s1"}),
		})
		assert.Equal(t, "(created_by_id = ? OR shelter_id IN ?)", where)
	})

	t.Run("nested", func(t *testing.T) {
		where, args := CompileFilter(query.And{
			query.Eq("status", "available"),
			query.Or{
				query.Eq("created_by_id", "u1"),
				query.In("shelter_id", []string{"s1", "s2"}),
			},
		})
		assert.Equal(t, "(status = ? AND (created_by_id = ? OR shelter_id IN ?))", where)
		assert.Len(t, args, 3)
	})

	t.Run("single clause not wrapped", func(t *testing.T) {
		where, _ := CompileFilter(query.And{query.Eq("status", "available")})
		assert.Equal(t, "status = ?", where)
	})

	t.Run("empty children skipped", func(t *testing.T) {
		where, _ := CompileFilter(query.And{query.Or{}, query.Eq("status", "available")})
		assert.Equal(t, "status = ?", where)
	})

	t.Run("all empty compiles to empty", func(t *testing.T) {
		where, args := CompileFilter(query.And{query.Or{}, query.And{}})
		assert.Empty(t, where)
		assert.Nil(t, args)
	})
}
