package redisearch

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"paw-adopt-api/internal/application/search"
	"paw-adopt-api/internal/domain/query"
)

// Repository 全文检索仓储，实现 search.TextIndex
type Repository struct {
	client *Client
}

// NewRepository 创建全文检索仓储
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// Search 执行全文检索，返回按 BM25 原始得分降序的命中
func (r *Repository) Search(ctx context.Context, spec *search.TextQuerySpec, filter query.Filter) ([]search.Hit, error) {
	ctx, span := tracer.Start(ctx, "redisearch.Repository.Search")
	defer span.End()

	queryStr := RenderQuery(spec, filter)
	span.SetAttributes(attribute.String("query", queryStr))

	cmd := r.client.rdb.B().Arbitrary("FT.SEARCH").Args(
		r.client.config.IndexName,
		queryStr,
		"NOCONTENT",
		"WITHSCORES",
		"LIMIT", "0", strconv.Itoa(spec.Limit),
		"DIALECT", "2",
	).Build()

	raw, err := r.client.rdb.Do(ctx, cmd).ToArray()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("ft.search: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return nil, nil
	}

	// NOCONTENT + WITHSCORES 为 2 步长：[total, key1, score1, key2, score2, ...]
	hits := make([]search.Hit, 0, total)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		scoreStr, err := raw[i+1].ToString()
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			continue
		}
		hits = append(hits, search.Hit{
			ID:    strings.TrimPrefix(key, r.client.config.KeyPrefix),
			Score: score,
		})
	}

	span.SetAttributes(attribute.Int("result_count", len(hits)))
	return hits, nil
}
