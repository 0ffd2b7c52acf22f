package indexer

import (
	"context"

	"paw-adopt-api/internal/domain/entity"
	"paw-adopt-api/internal/infrastructure/messaging"
	"paw-adopt-api/pkg/logger"
	"paw-adopt-api/pkg/metrics"
)

// Queued 带补偿队列的索引写入器。
// 在线写索引失败时将动物 ID 投入 Redis Stream，
// 由 search-indexer 消费者按退避策略重试，
// 队列投递成功即视为写入成功，不阻塞业务写路径。
type Queued struct {
	inner    *Indexer
	producer *messaging.Producer
}

// NewQueued 创建带补偿队列的索引写入器
func NewQueued(inner *Indexer, producer *messaging.Producer) *Queued {
	return &Queued{inner: inner, producer: producer}
}

// Index 写入索引，失败时转入补偿队列
func (q *Queued) Index(ctx context.Context, animal *entity.Animal) error {
	err := q.inner.Index(ctx, animal)
	if err == nil {
		return nil
	}
	return q.enqueue(ctx, animal.ID, messaging.IndexOpUpsert, err)
}

// Remove 删除索引，失败时转入补偿队列
func (q *Queued) Remove(ctx context.Context, animalID string) error {
	err := q.inner.Remove(ctx, animalID)
	if err == nil {
		return nil
	}
	return q.enqueue(ctx, animalID, messaging.IndexOpDelete, err)
}

func (q *Queued) enqueue(ctx context.Context, animalID, op string, cause error) error {
	if _, pubErr := q.producer.PublishIndexSync(ctx, animalID, op); pubErr != nil {
		// 队列也不可用时把原始错误抛给调用方
		logger.FromContext(ctx).Error("failed to enqueue index sync retry",
			"animal_id", animalID, "op", op, "error", pubErr)
		return cause
	}

	metrics.IndexSyncTotal.WithLabelValues("queued", "deferred").Inc()
	logger.FromContext(ctx).Warn("index sync deferred to retry queue",
		"animal_id", animalID, "op", op, "error", cause)
	return nil
}
