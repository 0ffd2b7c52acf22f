package redisearch

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"paw-adopt-api/internal/domain/entity"
)

// EnsureIndex 创建动物全文索引，已存在时视为成功
func (c *Client) EnsureIndex(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "redisearch.EnsureIndex",
		trace.WithAttributes(attribute.String("index", c.config.IndexName)))
	defer span.End()

	cmd := c.rdb.B().Arbitrary("FT.CREATE").Args(
		c.config.IndexName,
		"ON", "HASH",
		"PREFIX", "1", c.config.KeyPrefix,
		"SCHEMA",
		"name", "TEXT", "WEIGHT", "2",
		"search_text", "TEXT",
		"description", "TEXT",
		"health_notes", "TEXT",
		"gender", "TAG",
		"species", "TAG",
		"status", "TAG",
		"shelter_id", "TAG",
		"created_by_id", "TAG",
		"age_months", "NUMERIC",
		"weight_kg", "NUMERIC",
	).Build()

	if err := c.rdb.Do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return nil
		}
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

// DropIndex 删除索引，不删除文档
func (c *Client) DropIndex(ctx context.Context) error {
	cmd := c.rdb.B().Arbitrary("FT.DROPINDEX").Args(c.config.IndexName).Build()
	if err := c.rdb.Do(ctx, cmd).Error(); err != nil && !isRedisErr(err, "unknown index") {
		return fmt.Errorf("failed to drop index: %w", err)
	}
	return nil
}

// IndexAnimal 写入动物文档
func (c *Client) IndexAnimal(ctx context.Context, animal *entity.Animal) error {
	ctx, span := tracer.Start(ctx, "redisearch.IndexAnimal",
		trace.WithAttributes(attribute.String("animal_id", animal.ID)))
	defer span.End()

	cmd := c.rdb.B().Hset().Key(c.docKey(animal.ID)).FieldValue().
		FieldValue("name", animal.Name).
		FieldValue("search_text", animal.SearchText()).
		FieldValue("description", animal.Description).
		FieldValue("health_notes", animal.HealthNotes).
		FieldValue("gender", string(animal.Gender)).
		FieldValue("species", animal.Species).
		FieldValue("status", string(animal.Status)).
		FieldValue("shelter_id", animal.ShelterID).
		FieldValue("created_by_id", animal.CreatedByID).
		FieldValue("age_months", strconv.Itoa(animal.AgeMonths)).
		FieldValue("weight_kg", strconv.FormatFloat(animal.WeightKg, 'f', -1, 64)).
		Build()

	if err := c.rdb.Do(ctx, cmd).Error(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to index animal: %w", err)
	}
	return nil
}

// RemoveAnimal 删除动物文档
func (c *Client) RemoveAnimal(ctx context.Context, animalID string) error {
	ctx, span := tracer.Start(ctx, "redisearch.RemoveAnimal",
		trace.WithAttributes(attribute.String("animal_id", animalID)))
	defer span.End()

	cmd := c.rdb.B().Del().Key(c.docKey(animalID)).Build()
	if err := c.rdb.Do(ctx, cmd).Error(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to remove animal document: %w", err)
	}
	return nil
}

func (c *Client) docKey(id string) string {
	return c.config.KeyPrefix + id
}
