package milvus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"paw-adopt-api/internal/domain/query"
)

func TestCompileExpr_Conds(t *testing.T) {
	tests := []struct {
		name   string
		filter query.Filter
		want   string
	}{
		{"nil", nil, ""},
		{"string eq", query.Eq("status", "available"), `status == "available"`},
		{"bool eq", query.Eq("verified", true), "verified == true"},
		{"int eq", query.Eq("age_months", 24), "age_months == 24"},
		{"ne", query.Ne("status", "adopted"), `status != "adopted"`},
		{"in", query.In("shelter_id", []string{"s1", "s2"}),
			`shelter_id in ["s1", "s2"]`},
		{"not in", query.NotIn("shelter_id", []string{"s1"}),
			`!(shelter_id in ["s1"])`},
		{"gte", query.Gte("age_months", 6), "age_months >= 6"},
		{"lte float", query.Lte("weight_kg", 10.5), "weight_kg <= 10.5"},
		{"contains", query.Contains("name", "lu"), `name like "%lu%"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompileExpr(tt.filter))
		})
	}
}

func TestCompileExpr_Groups(t *testing.T) {
	t.Run("and", func(t *testing.T) {
		got := CompileExpr(query.And{
			query.Eq("species", "dog"),
			query.Gte("age_months", 6),
		})
		assert.Equal(t, `(species == "dog" && age_months >= 6)`, got)
	})

	t.Run("or nested in and", func(t *testing.T) {
		got := CompileExpr(query.And{
			query.Eq("status", "available"),
			query.Or{
				query.Eq("created_by_id", "u1"),
				query.In("shelter_id", []string{"s1"}),
			},
		})
		assert.Equal(t,
			`(status == "available" && (created_by_id == "u1" || shelter_id in ["s1"]))`,
			got)
	})

	t.Run("single child not wrapped", func(t *testing.T) {
		assert.Equal(t, `status == "x"`, CompileExpr(query.And{query.Eq("status", "x")}))
	})

	t.Run("empty group", func(t *testing.T) {
		assert.Empty(t, CompileExpr(query.Or{}))
	})
}

func TestCompileExpr_EscapesQuotes(t *testing.T) {
	got := CompileExpr(query.Eq("name", `Lu"cky`))
	assert.Equal(t, `name == "Lu\"cky"`, got)
}
