package search

import (
	"context"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"paw-adopt-api/internal/config"
	"paw-adopt-api/internal/domain/query"
	"paw-adopt-api/pkg/errors"
	"paw-adopt-api/pkg/logger"
	"paw-adopt-api/pkg/metrics"
)

const (
	maxVectorLimit      = 1000
	maxVectorCandidates = 10000
)

// Result 混合检索结果
type Result struct {
	Items    []Item
	Analysis *Analysis
}

// Executor 混合检索执行器：向量路与全文路并发执行，任一路
// 失败则整次检索失败，两路命中经 Combine 合并。
type Executor struct {
	analyzer   *Analyzer
	builder    *specBuilder
	embedder   Embedder
	translator Translator
	vectors    VectorIndex
	texts      TextIndex
	cfg        config.SearchConfig
}

// NewExecutor 创建混合检索执行器，translator 可为 nil
func NewExecutor(
	analyzer *Analyzer,
	embedder Embedder,
	translator Translator,
	vectors VectorIndex,
	texts TextIndex,
	cfg config.SearchConfig,
) *Executor {
	return &Executor{
		analyzer:   analyzer,
		builder:    &specBuilder{cfg: cfg.Semantic},
		embedder:   embedder,
		translator: translator,
		vectors:    vectors,
		texts:      texts,
		cfg:        cfg,
	}
}

// Search 执行一次混合检索，filter 同时下推到两路索引。
// 查询先整体翻译到索引主语言，译文同时喂给分析器与两路检索。
func (e *Executor) Search(ctx context.Context, rawQuery string, filter query.Filter, pageSize int) (*Result, error) {
	if strings.TrimSpace(rawQuery) == "" {
		return nil, errors.New(errors.CodeInvalidParam, "empty search query")
	}
	text, err := e.translate(ctx, rawQuery)
	if err != nil {
		return nil, err
	}

	an := e.analyzer.Analyze(text)
	if len(an.Tokens) == 0 {
		return nil, errors.New(errors.CodeInvalidParam, "empty search query")
	}
	if pageSize < 1 {
		pageSize = 1
	}

	limit := clamp(pageSize*3, e.cfg.Vector.MinTopK, maxVectorLimit)

	var vecHits, textHits []Hit
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		hits, err := e.vectorLeg(gctx, an, filter, limit)
		metrics.SearchLegDuration.WithLabelValues("vector").Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		vecHits = hits
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		hits, err := e.textLeg(gctx, an, filter, limit)
		metrics.SearchLegDuration.WithLabelValues("text").Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		textHits = hits
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(string(an.MatchType), "error").Inc()
		return nil, err
	}

	items := Combine(vecHits, textHits, pageSize)
	metrics.SearchRequestsTotal.WithLabelValues(string(an.MatchType), "success").Inc()
	metrics.SearchResultCount.WithLabelValues(string(an.MatchType)).Observe(float64(len(items)))
	logger.Debug(ctx, "hybrid search executed",
		"match_type", an.MatchType,
		"vector_hits", len(vecHits),
		"text_hits", len(textHits),
		"merged", len(items),
	)
	return &Result{Items: items, Analysis: an}, nil
}

// translate 将查询归一化到索引主语言，未配置翻译器时原样返回
func (e *Executor) translate(ctx context.Context, text string) (string, error) {
	if e.translator == nil {
		return text, nil
	}
	translated, err := e.translator.Translate(ctx, text)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeTranslationFailed, "translate search query")
	}
	if translated == "" {
		return text, nil
	}
	return translated, nil
}

// vectorLeg 向量路：向量化、近似检索、按相似度下限截断
func (e *Executor) vectorLeg(ctx context.Context, an *Analysis, filter query.Filter, limit int) ([]Hit, error) {
	start := time.Now()
	vec, err := e.embedder.Embed(ctx, an.Query)
	metrics.EmbeddingDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EmbeddingErrorsTotal.Inc()
		return nil, errors.Wrap(err, errors.CodeEmbeddingFailed, "embed search query")
	}

	candidates := clamp(limit*10, e.cfg.Vector.MinCandidates, maxVectorCandidates)
	hits, err := e.vectors.Search(ctx, vec, filter, limit, candidates)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeVectorDBError, "vector leg search")
	}

	floor := e.cfg.Vector.SimilarityFloor
	out := hits[:0]
	for _, h := range hits {
		if h.Score >= floor {
			out = append(out, h)
		}
	}
	return out, nil
}

// textLeg 全文路：构造子查询、执行、归一化并按动态阈值截断
func (e *Executor) textLeg(ctx context.Context, an *Analysis, filter query.Filter, limit int) ([]Hit, error) {
	spec := e.builder.Build(an, limit)
	hits, err := e.texts.Search(ctx, spec, filter)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSearchIndexError, "text leg search")
	}

	out := make([]Hit, 0, len(hits))
	for _, h := range hits {
		norm := normalize(h.Score, spec)
		if norm < spec.Threshold {
			continue
		}
		out = append(out, Hit{ID: h.ID, Score: norm})
	}
	return out, nil
}

// normalize 将原始全文得分映射到 [0,1]：先乘匹配类型权重，
// 再以 sigmoid 压缩，精确匹配使用更陡的曲线。
func normalize(raw float64, spec *TextQuerySpec) float64 {
	k := 5.0
	if spec.MatchType == MatchExact {
		k = 8.0
	}
	x := raw * spec.Multiplier / spec.MaxExpected
	return 1.0 / (1.0 + math.Exp(-k*(x-0.5)))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
