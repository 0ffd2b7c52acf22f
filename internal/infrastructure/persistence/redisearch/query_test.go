package redisearch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"paw-adopt-api/internal/application/search"
	"paw-adopt-api/internal/domain/query"
)

func TestRenderFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter query.Filter
		want   string
	}{
		{"nil", nil, ""},
		{"string eq as tag", query.Eq("status", "available"), "@status:{available}"},
		{"numeric eq as range", query.Eq("age_months", 24), "@age_months:[24 24]"},
		{"string ne negated", query.Ne("status", "adopted"), "-@status:{adopted}"},
		{"in union", query.In("shelter_id", []string{"s1", "s2"}),
			"@shelter_id:{s1|s2}"},
		{"not in", query.NotIn("species", []string{"cat"}), "-@species:{cat}"},
		{"gte", query.Gte("age_months", 6), "@age_months:[6 +inf]"},
		{"lte", query.Lte("weight_kg", 10), "@weight_kg:[-inf 10]"},
		{"contains as text match", query.Contains("name", "lucky"), "@name:(lucky)"},
		{"and joined by space", query.And{
			query.Eq("species", "dog"),
			query.Eq("status", "available"),
		}, "(@species:{dog} @status:{available})"},
		{"or joined by pipe", query.Or{
			query.Eq("shelter_id", "s1"),
			query.Eq("shelter_id", "s2"),
		}, "(@shelter_id:{s1} | @shelter_id:{s2})"},
		{"tag value escaped", query.Eq("city", "san francisco"),
			`@city:{san\ francisco}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderFilter(tt.filter))
		})
	}
}

func TestRenderQuery_Subs(t *testing.T) {
	t.Run("phrase with slop and weight", func(t *testing.T) {
		spec := &search.TextQuerySpec{Subs: []search.SubQuery{{
			Kind: search.SubPhrase, Field: "search_text",
			Terms: []string{"golden", "retriever"}, Slop: 1, Boost: 5,
		}}}
		got := RenderQuery(spec, nil)
		assert.Equal(t, "@search_text:(golden retriever)=>{$slop: 1; $weight: 5}", got)
	})

	t.Run("terms joined by pipe", func(t *testing.T) {
		spec := &search.TextQuerySpec{Subs: []search.SubQuery{{
			Kind: search.SubTerms, Field: "search_text",
			Terms: []string{"calm", "senior"}, Boost: 2,
		}}}
		got := RenderQuery(spec, nil)
		assert.Equal(t, "@search_text:(calm|senior)=>{$weight: 2}", got)
	})

	t.Run("fuzzy terms wrapped in percent", func(t *testing.T) {
		spec := &search.TextQuerySpec{Subs: []search.SubQuery{{
			Kind: search.SubFuzzy, Field: "description",
			Terms: []string{"fluffy"}, Boost: 1,
		}}}
		got := RenderQuery(spec, nil)
		assert.Equal(t, "@description:(%fluffy%)=>{$weight: 1}", got)
	})

	t.Run("tag sub", func(t *testing.T) {
		spec := &search.TextQuerySpec{Subs: []search.SubQuery{{
			Kind: search.SubTag, Field: "gender",
			Terms: []string{"female"}, Boost: 3,
		}}}
		got := RenderQuery(spec, nil)
		assert.Equal(t, "@gender:{female}=>{$weight: 3}", got)
	})

	t.Run("numeric range without weight", func(t *testing.T) {
		spec := &search.TextQuerySpec{Subs: []search.SubQuery{{
			Kind: search.SubNumeric, Field: "age_months", Min: 12, Max: 36,
		}}}
		got := RenderQuery(spec, nil)
		assert.Equal(t, "@age_months:[12 36]", got)
	})

	t.Run("multiple subs disjoined and grouped", func(t *testing.T) {
		spec := &search.TextQuerySpec{Subs: []search.SubQuery{
			{Kind: search.SubPhrase, Field: "search_text", Terms: []string{"husky"}, Boost: 5},
			{Kind: search.SubTag, Field: "gender", Terms: []string{"male"}, Boost: 3},
		}}
		got := RenderQuery(spec, nil)
		assert.Equal(t,
			"(@search_text:(husky)=>{$slop: 0; $weight: 5} | @gender:{male}=>{$weight: 3})",
			got)
	})

	t.Run("empty spec matches all", func(t *testing.T) {
		got := RenderQuery(&search.TextQuerySpec{}, nil)
		assert.Equal(t, "*", got)
	})
}

func TestRenderQuery_MinMatch(t *testing.T) {
	t.Run("all tokens required as conjunction", func(t *testing.T) {
		spec := &search.TextQuerySpec{
			Tokens:   []string{"golden", "retriever"},
			MinMatch: 2,
			Subs: []search.SubQuery{
				{Kind: search.SubPhrase, Field: "search_text",
					Terms: []string{"golden", "retriever"}, Boost: 5},
				{Kind: search.SubTerms, Field: "search_text",
					Terms: []string{"golden", "retriever"}, Boost: 2},
			},
		}
		got := RenderQuery(spec, nil)
		assert.Equal(t,
			"@search_text:(golden retriever)=>{$weight: 0} "+
				"(@search_text:(golden retriever)=>{$slop: 0; $weight: 5} | "+
				"@search_text:(golden|retriever)=>{$weight: 2})",
			got)
	})

	t.Run("one missing token allowed", func(t *testing.T) {
		spec := &search.TextQuerySpec{
			Tokens:   []string{"calm", "senior", "cat"},
			MinMatch: 2,
			Subs: []search.SubQuery{{
				Kind: search.SubPhrase, Field: "search_text",
				Terms: []string{"calm", "senior", "cat"}, Slop: 1, Boost: 5,
			}},
		}
		got := RenderQuery(spec, nil)
		assert.Contains(t, got,
			"@search_text:((calm senior)|(calm cat)|(senior cat))=>{$weight: 0}")
	})

	t.Run("omission count capped", func(t *testing.T) {
		spec := &search.TextQuerySpec{
			Tokens:   []string{"a", "b", "c", "d", "e", "f"},
			MinMatch: 2,
			Subs: []search.SubQuery{{
				Kind: search.SubPhrase, Field: "search_text",
				Terms: []string{"a", "b", "c", "d", "e", "f"}, Slop: 3, Boost: 5,
			}},
		}
		// 缺词数收紧到 2，首个组合为前 4 个词
		got := RenderQuery(spec, nil)
		assert.Contains(t, got, "@search_text:((a b c d)|")
	})

	t.Run("min match after the filter", func(t *testing.T) {
		spec := &search.TextQuerySpec{
			Tokens:   []string{"husky"},
			MinMatch: 1,
			Subs: []search.SubQuery{{
				Kind: search.SubPhrase, Field: "search_text",
				Terms: []string{"husky"}, Boost: 5,
			}},
		}
		got := RenderQuery(spec, query.Eq("status", "available"))
		assert.Equal(t,
			"@status:{available} @search_text:(husky)=>{$weight: 0} "+
				"@search_text:(husky)=>{$slop: 0; $weight: 5}",
			got)
	})

	t.Run("zero min match adds no gate", func(t *testing.T) {
		spec := &search.TextQuerySpec{
			Tokens: []string{"husky"},
			Subs: []search.SubQuery{{
				Kind: search.SubPhrase, Field: "search_text",
				Terms: []string{"husky"}, Boost: 5,
			}},
		}
		got := RenderQuery(spec, nil)
		assert.Equal(t, "@search_text:(husky)=>{$slop: 0; $weight: 5}", got)
	})
}

func TestCombinations(t *testing.T) {
	got := combinations([]string{"a", "b", "c", "d"}, 3)
	assert.Equal(t, [][]string{
		{"a", "b", "c"},
		{"a", "b", "d"},
		{"a", "c", "d"},
		{"b", "c", "d"},
	}, got)

	assert.Len(t, combinations([]string{"a", "b", "c"}, 1), 3)
	assert.Len(t, combinations([]string{"a", "b"}, 2), 1)
}

func TestRenderQuery_FilterPrefixed(t *testing.T) {
	spec := &search.TextQuerySpec{Subs: []search.SubQuery{{
		Kind: search.SubPhrase, Field: "search_text", Terms: []string{"husky"}, Boost: 5,
	}}}
	filter := query.Eq("status", "available")

	got := RenderQuery(spec, filter)
	assert.Equal(t,
		"@status:{available} @search_text:(husky)=>{$slop: 0; $weight: 5}",
		got)
}

func TestRenderQuery_EmptyQueryWithFilter(t *testing.T) {
	got := RenderQuery(&search.TextQuerySpec{}, query.Eq("species", "dog"))
	assert.Equal(t, "@species:{dog} *", got)
}
