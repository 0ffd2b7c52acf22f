package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

var cacheTracer = otel.Tracer("redis.cache")

// Cache 缓存服务，实现应用层的检索缓存端口
type Cache struct {
	client *Client
	group  singleflight.Group
}

// NewCache 创建缓存服务
func NewCache(client *Client) *Cache {
	return &Cache{client: client}
}

// Get 获取缓存值
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	ctx, span := cacheTracer.Start(ctx, "cache.Get",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	val, err := c.client.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			span.RecordError(err)
		}
		span.SetAttributes(attribute.Bool("cache.hit", false))
		return "", err
	}
	span.SetAttributes(attribute.Bool("cache.hit", true))
	return val, nil
}

// Set 设置缓存值
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	ctx, span := cacheTracer.Start(ctx, "cache.Set",
		trace.WithAttributes(
			attribute.String("cache.key", key),
			attribute.Int64("cache.ttl_ms", ttl.Milliseconds()),
		))
	defer span.End()

	return c.client.rdb.Set(ctx, key, value, ttl).Err()
}

// GetOrLoad Read-Through 缓存：未命中时经 singleflight 合并并发
// 加载，返回值第二个布尔量表示是否命中缓存。
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func(ctx context.Context) (string, error)) (string, bool, error) {
	ctx, span := cacheTracer.Start(ctx, "cache.GetOrLoad",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	val, err := c.client.rdb.Get(ctx, key).Result()
	if err == nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return val, true, nil
	}
	if err != redis.Nil {
		span.RecordError(err)
		return "", false, err
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	result, err, shared := c.group.Do(key, func() (any, error) {
		// 再次检查缓存，可能已被并发请求填充
		if val, err := c.client.rdb.Get(ctx, key).Result(); err == nil {
			return val, nil
		}

		data, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.client.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
			// 缓存写入失败不影响返回结果
			span.RecordError(err)
		}
		return data, nil
	})
	span.SetAttributes(attribute.Bool("cache.shared", shared))
	if err != nil {
		span.RecordError(err)
		return "", false, err
	}
	return result.(string), false, nil
}

// Delete 删除缓存
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	ctx, span := cacheTracer.Start(ctx, "cache.Delete",
		trace.WithAttributes(attribute.Int("cache.key_count", len(keys))))
	defer span.End()

	if len(keys) == 0 {
		return nil
	}
	return c.client.rdb.Del(ctx, keys...).Err()
}

// InvalidatePattern 按模式使缓存失效
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) error {
	ctx, span := cacheTracer.Start(ctx, "cache.InvalidatePattern",
		trace.WithAttributes(attribute.String("cache.pattern", pattern)))
	defer span.End()

	iter := c.client.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		span.RecordError(err)
		return err
	}

	if len(keys) > 0 {
		span.SetAttributes(attribute.Int("cache.invalidated_count", len(keys)))
		return c.client.rdb.Del(ctx, keys...).Err()
	}
	return nil
}

// InvalidateSearch 使全部检索结果缓存失效
func (c *Cache) InvalidateSearch(ctx context.Context) error {
	return c.InvalidatePattern(ctx, "search:animals:*")
}
