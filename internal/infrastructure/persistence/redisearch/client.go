// Package redisearch 提供基于 RediSearch 的全文索引实现
package redisearch

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/rueidis"
	"go.opentelemetry.io/otel"

	"paw-adopt-api/internal/config"
)

var tracer = otel.Tracer("redisearch")

// Client RediSearch 客户端
type Client struct {
	rdb    rueidis.Client
	config *config.TextIndexConfig
}

// NewClient 创建 RediSearch 客户端
func NewClient(cfg *config.TextIndexConfig) (*Client, error) {
	rdb, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Password:     cfg.Password,
		DisableCache: true,
		// FT.SEARCH 结果解析依赖 RESP2 数组格式
		AlwaysRESP2: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redisearch client: %w", err)
	}
	return &Client{rdb: rdb, config: cfg}, nil
}

// Close 关闭连接
func (c *Client) Close() {
	c.rdb.Close()
}

// Ping 检查连接
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Do(ctx, c.rdb.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// HealthCheck 健康检查
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "redisearch.HealthCheck")
	defer span.End()
	return c.Ping(ctx)
}

// isRedisErr 判断是否为包含指定子串的服务端错误
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(re.Error()), strings.ToLower(substr))
}
