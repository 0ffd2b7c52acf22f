package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hits(pairs ...any) []Hit {
	out := make([]Hit, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, Hit{ID: pairs[i].(string), Score: pairs[i+1].(float64)})
	}
	return out
}

func idsOf(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestCombine_OverlapAveragedAndFirst(t *testing.T) {
	vector := hits("a", 0.9, "b", 0.8, "c", 0.7)
	text := hits("b", 0.6, "d", 0.5)

	items := Combine(vector, text, 10)
	require.NotEmpty(t, items)

	first := items[0]
	assert.Equal(t, "b", first.ID)
	assert.Equal(t, SourceBoth, first.Source)
	assert.InDelta(t, (0.8+0.6)/2, first.Score, 1e-9)
	assert.Equal(t, 2, first.VectorRank)
	assert.Equal(t, 1, first.TextRank)
}

func TestCombine_NoDuplicateIDs(t *testing.T) {
	vector := hits("a", 0.9, "b", 0.8)
	text := hits("a", 0.7, "b", 0.6, "c", 0.5)

	items := Combine(vector, text, 10)
	seen := make(map[string]bool)
	for _, it := range items {
		assert.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
	}
	assert.Len(t, items, 3)
}

func TestCombine_QuotaSplitBetweenLegs(t *testing.T) {
	vector := hits("v1", 0.9, "v2", 0.8, "v3", 0.7, "v4", 0.6)
	text := hits("t1", 0.9, "t2", 0.8, "t3", 0.7, "t4", 0.6)

	items := Combine(vector, text, 4)
	require.Len(t, items, 4)
	// 无交集时配额对半分
	assert.Equal(t, []string{"v1", "v2", "t1", "t2"}, idsOf(items))
}

func TestCombine_OddQuotaFavorsText(t *testing.T) {
	vector := hits("v1", 0.9, "v2", 0.8, "v3", 0.7)
	text := hits("t1", 0.9, "t2", 0.8, "t3", 0.7)

	items := Combine(vector, text, 3)
	require.Len(t, items, 3)
	// 向量路配额取下整，余 1 归全文路
	assert.Equal(t, []string{"v1", "t1", "t2"}, idsOf(items))
}

func TestCombine_SpilloverWhenTextShort(t *testing.T) {
	vector := hits("v1", 0.9, "v2", 0.8, "v3", 0.7, "v4", 0.6)
	text := hits("t1", 0.9)

	items := Combine(vector, text, 4)
	require.Len(t, items, 4)
	// 全文路只有 1 条，空余配额由向量路回填
	assert.Equal(t, []string{"v1", "v2", "v3", "t1"}, idsOf(items))
}

func TestCombine_SpilloverWhenVectorShort(t *testing.T) {
	vector := hits("v1", 0.9)
	text := hits("t1", 0.9, "t2", 0.8, "t3", 0.7, "t4", 0.6)

	items := Combine(vector, text, 4)
	require.Len(t, items, 4)
	assert.Equal(t, []string{"v1", "t1", "t2", "t3"}, idsOf(items))
}

func TestCombine_OverlapFillsWholePage(t *testing.T) {
	vector := hits("a", 0.5, "b", 0.9, "c", 0.7)
	text := hits("c", 0.7, "a", 0.5, "b", 0.9)

	items := Combine(vector, text, 2)
	require.Len(t, items, 2)
	// 交集超出页大小时按均值分截断
	assert.Equal(t, []string{"b", "c"}, idsOf(items))
	assert.Equal(t, SourceBoth, items[0].Source)
}

func TestCombine_SingleLegRanksSentinel(t *testing.T) {
	items := Combine(hits("v1", 0.9), hits("t1", 0.8), 10)
	require.Len(t, items, 2)

	for _, it := range items {
		switch it.Source {
		case SourceVector:
			assert.Equal(t, math.MaxInt, it.TextRank)
			assert.Equal(t, 1, it.VectorRank)
			assert.Zero(t, it.TextScore)
		case SourceText:
			assert.Equal(t, math.MaxInt, it.VectorRank)
			assert.Equal(t, 1, it.TextRank)
			assert.Zero(t, it.VectorScore)
		}
	}
}

func TestCombine_EdgeCases(t *testing.T) {
	t.Run("zero page size", func(t *testing.T) {
		assert.Nil(t, Combine(hits("a", 0.9), nil, 0))
	})

	t.Run("both legs empty", func(t *testing.T) {
		assert.Empty(t, Combine(nil, nil, 10))
	})

	t.Run("fewer hits than page size", func(t *testing.T) {
		items := Combine(hits("a", 0.9), nil, 10)
		assert.Len(t, items, 1)
	})
}
