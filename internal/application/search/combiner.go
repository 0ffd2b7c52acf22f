package search

import (
	"math"
	"sort"
)

// Source 结果来源
type Source string

const (
	SourceBoth   Source = "both"
	SourceVector Source = "vector"
	SourceText   Source = "text"
)

// Item 合并后的单条结果。某一路未命中时该路分数为 0、
// 名次为 math.MaxInt。
type Item struct {
	ID          string
	Score       float64
	Source      Source
	VectorScore float64
	TextScore   float64
	VectorRank  int
	TextRank    int
}

// Combine 合并双路结果为至多 pageSize 条且无重复 ID 的列表。
// 双路同时命中的条目取两路均值分并排在最前；剩余配额在两路
// 独有结果间对半分（向量路取下整，奇数余量归全文路），某一路
// 不足时由另一路补齐，向量路优先回填。
func Combine(vector, text []Hit, pageSize int) []Item {
	if pageSize <= 0 {
		return nil
	}

	textIdx := make(map[string]int, len(text))
	for i, h := range text {
		textIdx[h.ID] = i
	}
	vecIdx := make(map[string]int, len(vector))
	for i, h := range vector {
		vecIdx[h.ID] = i
	}

	var overlap []Item
	var vecOnly []Item
	for i, h := range vector {
		if j, ok := textIdx[h.ID]; ok {
			overlap = append(overlap, Item{
				ID:          h.ID,
				Score:       (h.Score + text[j].Score) / 2,
				Source:      SourceBoth,
				VectorScore: h.Score,
				TextScore:   text[j].Score,
				VectorRank:  i + 1,
				TextRank:    j + 1,
			})
		} else {
			vecOnly = append(vecOnly, Item{
				ID:          h.ID,
				Score:       h.Score,
				Source:      SourceVector,
				VectorScore: h.Score,
				VectorRank:  i + 1,
				TextRank:    math.MaxInt,
			})
		}
	}
	var textOnly []Item
	for j, h := range text {
		if _, ok := vecIdx[h.ID]; ok {
			continue
		}
		textOnly = append(textOnly, Item{
			ID:         h.ID,
			Score:      h.Score,
			Source:     SourceText,
			TextScore:  h.Score,
			TextRank:   j + 1,
			VectorRank: math.MaxInt,
		})
	}

	sort.SliceStable(overlap, func(i, j int) bool {
		return overlap[i].Score > overlap[j].Score
	})
	if len(overlap) >= pageSize {
		return overlap[:pageSize]
	}

	out := overlap
	quota := pageSize - len(out)
	vecShare := quota / 2
	textShare := quota - vecShare

	takeVec := minI(vecShare, len(vecOnly))
	takeText := minI(textShare, len(textOnly))

	// 溢出回填，向量路优先
	if spare := quota - takeVec - takeText; spare > 0 {
		extra := minI(spare, len(vecOnly)-takeVec)
		takeVec += extra
		spare -= extra
		takeText += minI(spare, len(textOnly)-takeText)
	}

	out = append(out, vecOnly[:takeVec]...)
	out = append(out, textOnly[:takeText]...)
	return out
}

func minI(a, b int) int {
	if a < b {
		return a
	}
	return b
}
