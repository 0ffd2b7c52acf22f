// Package embedding 提供 OpenAI 兼容接口的文本向量化实现
package embedding

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"

	"paw-adopt-api/internal/config"
	"paw-adopt-api/pkg/errors"
)

var tracer = otel.Tracer("embedding")

// Client 向量化客户端，实现 search.Embedder
type Client struct {
	api   *openai.Client
	model openai.EmbeddingModel
	dim   int
}

// NewClient 创建向量化客户端
func NewClient(cfg *config.EmbeddingConfig) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(clientCfg),
		model: openai.EmbeddingModel(cfg.Model),
		dim:   cfg.Dimension,
	}
}

// Embed 将文本向量化
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, span := tracer.Start(ctx, "embedding.Embed")
	defer span.End()

	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          c.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if c.dim > 0 {
		req.Dimensions = c.dim
	}

	resp, err := c.api.CreateEmbeddings(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.CodeEmbeddingFailed, "create embeddings")
	}
	if len(resp.Data) == 0 {
		return nil, errors.New(errors.CodeEmbeddingFailed, "empty embedding response")
	}
	return resp.Data[0].Embedding, nil
}

// HealthCheck 通过 ListModels 检查接口可用性
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
