// Package search 实现动物混合检索：查询分析、双路并发执行与结果合并。
package search

import (
	"context"

	"paw-adopt-api/internal/domain/query"
)

// Hit 单路检索命中，分数已归一化到 [0,1]
type Hit struct {
	ID    string
	Score float64
}

// Embedder 文本向量化接口
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Translator 查询翻译接口，用于跨语言向量检索
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// VectorIndex 向量索引检索接口。
// limit 为返回上限，candidates 为近似检索的候选池大小，
// filter 由适配层编译为索引自身的过滤表达式。
type VectorIndex interface {
	Search(ctx context.Context, vector []float32, filter query.Filter, limit, candidates int) ([]Hit, error)
}

// TextIndex 全文索引检索接口，spec 由适配层渲染为索引查询语法
type TextIndex interface {
	Search(ctx context.Context, spec *TextQuerySpec, filter query.Filter) ([]Hit, error)
}
