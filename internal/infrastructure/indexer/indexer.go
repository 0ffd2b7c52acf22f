// Package indexer 组合向量索引与全文索引的写入路径
package indexer

import (
	"context"

	"paw-adopt-api/internal/application/search"
	"paw-adopt-api/internal/domain/entity"
	"paw-adopt-api/internal/infrastructure/persistence/milvus"
	"paw-adopt-api/internal/infrastructure/persistence/redisearch"
	"paw-adopt-api/pkg/errors"
	"paw-adopt-api/pkg/metrics"
)

// Indexer 动物检索索引写入器，实现 animal.Indexer。
// 向量索引与全文索引各写一份，任一失败即整体失败，
// 由调用方决定重试。
type Indexer struct {
	embedder search.Embedder
	vectors  *milvus.Repository
	texts    *redisearch.Client
}

// New 创建索引写入器
func New(embedder search.Embedder, vectors *milvus.Repository, texts *redisearch.Client) *Indexer {
	return &Indexer{embedder: embedder, vectors: vectors, texts: texts}
}

// Index 写入或更新动物的两路索引
func (ix *Indexer) Index(ctx context.Context, animal *entity.Animal) error {
	vec, err := ix.embedder.Embed(ctx, animal.SearchText())
	if err != nil {
		return err
	}

	if err := ix.vectors.Upsert(ctx, animal, vec); err != nil {
		metrics.IndexSyncTotal.WithLabelValues("vector", "error").Inc()
		return errors.Wrap(err, errors.CodeIndexSyncFailed, "upsert vector index")
	}
	metrics.IndexSyncTotal.WithLabelValues("vector", "success").Inc()

	if err := ix.texts.IndexAnimal(ctx, animal); err != nil {
		metrics.IndexSyncTotal.WithLabelValues("text", "error").Inc()
		return errors.Wrap(err, errors.CodeIndexSyncFailed, "write text index")
	}
	metrics.IndexSyncTotal.WithLabelValues("text", "success").Inc()
	return nil
}

// Remove 删除动物的两路索引
func (ix *Indexer) Remove(ctx context.Context, animalID string) error {
	if err := ix.vectors.Delete(ctx, animalID); err != nil {
		metrics.IndexSyncTotal.WithLabelValues("vector", "error").Inc()
		return errors.Wrap(err, errors.CodeIndexSyncFailed, "delete from vector index")
	}
	if err := ix.texts.RemoveAnimal(ctx, animalID); err != nil {
		metrics.IndexSyncTotal.WithLabelValues("text", "error").Inc()
		return errors.Wrap(err, errors.CodeIndexSyncFailed, "delete from text index")
	}
	return nil
}
