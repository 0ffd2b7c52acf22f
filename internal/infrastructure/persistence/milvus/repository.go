package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"paw-adopt-api/internal/application/search"
	domain "paw-adopt-api/internal/domain/entity"
	"paw-adopt-api/internal/domain/query"
)

// Repository 动物档案向量仓储，实现 search.VectorIndex
type Repository struct {
	client *Client
}

// NewRepository 创建向量仓储
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// Search 近似最近邻检索，返回按相似度降序的命中
func (r *Repository) Search(ctx context.Context, vector []float32, filter query.Filter, limit, candidates int) ([]search.Hit, error) {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return nil, fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.Repository.Search",
		trace.WithAttributes(
			attribute.Int("limit", limit),
			attribute.Int("candidates", candidates),
		))
	defer span.End()

	collName := r.client.CollectionName(CollectionAnimalProfiles)
	expr := CompileExpr(filter)

	sp, err := entity.NewIndexHNSWSearchParam(candidates)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	results, err := r.client.milvus.Search(ctx,
		collName,
		nil,
		expr,
		[]string{"id"},
		[]entity.Vector{entity.FloatVector(vector)},
		"vector",
		entity.COSINE,
		limit,
		sp,
	)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var hits []search.Hit
	for _, result := range results {
		idCol, ok := result.Fields.GetColumn("id").(*entity.ColumnVarChar)
		if !ok {
			continue
		}
		for i := 0; i < result.ResultCount; i++ {
			hits = append(hits, search.Hit{
				ID:    idCol.Data()[i],
				Score: float64(result.Scores[i]),
			})
		}
	}

	span.SetAttributes(attribute.Int("result_count", len(hits)))
	return hits, nil
}

// Upsert 写入或更新动物档案向量
func (r *Repository) Upsert(ctx context.Context, animal *domain.Animal, vector []float32) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.Repository.Upsert",
		trace.WithAttributes(attribute.String("animal_id", animal.ID)))
	defer span.End()

	collName := r.client.CollectionName(CollectionAnimalProfiles)

	cols := []entity.Column{
		entity.NewColumnVarChar("id", []string{animal.ID}),
		entity.NewColumnFloatVector("vector", VectorDimension, [][]float32{vector}),
		entity.NewColumnVarChar("shelter_id", []string{animal.ShelterID}),
		entity.NewColumnVarChar("created_by_id", []string{animal.CreatedByID}),
		entity.NewColumnVarChar("species", []string{animal.Species}),
		entity.NewColumnVarChar("breed", []string{animal.Breed}),
		entity.NewColumnVarChar("gender", []string{string(animal.Gender)}),
		entity.NewColumnVarChar("status", []string{string(animal.Status)}),
		entity.NewColumnInt64("age_months", []int64{int64(animal.AgeMonths)}),
		entity.NewColumnDouble("weight_kg", []float64{animal.WeightKg}),
	}

	if _, err := r.client.milvus.Upsert(ctx, collName, "", cols...); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert animal profile: %w", err)
	}
	return nil
}

// Delete 删除动物档案向量
func (r *Repository) Delete(ctx context.Context, animalID string) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.Repository.Delete",
		trace.WithAttributes(attribute.String("animal_id", animalID)))
	defer span.End()

	expr := fmt.Sprintf(`id == "%s"`, escape(animalID))
	if err := r.client.milvus.Delete(ctx, r.client.CollectionName(CollectionAnimalProfiles), "", expr); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete animal profile: %w", err)
	}
	return nil
}

// CreateIndex 创建 HNSW 索引
func (r *Repository) CreateIndex(ctx context.Context) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.Repository.CreateIndex")
	defer span.End()

	idx, err := entity.NewIndexHNSW(
		entity.COSINE,
		r.client.config.HNSWM,
		r.client.config.HNSWEfConstruction,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}

	collName := r.client.CollectionName(CollectionAnimalProfiles)
	if err := r.client.milvus.CreateIndex(ctx, collName, "vector", idx, false); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

// EnsureCollection 确保 animal_profiles 集合与索引可用，不存在则创建。
// 不做 drop/rebuild 等破坏性操作。
func (r *Repository) EnsureCollection(ctx context.Context) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}

	exists, err := r.client.HasCollection(ctx, CollectionAnimalProfiles)
	if err != nil {
		return err
	}
	if !exists {
		schema := AnimalProfilesSchema()
		schema.CollectionName = r.client.CollectionName(CollectionAnimalProfiles)
		if err := r.client.milvus.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		if err := r.CreateIndex(ctx); err != nil {
			return err
		}
	}
	return r.client.LoadCollection(ctx, CollectionAnimalProfiles)
}
