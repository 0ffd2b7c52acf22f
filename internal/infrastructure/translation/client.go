// Package translation 提供基于 Chat Completion 的查询翻译实现
package translation

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"

	"paw-adopt-api/internal/config"
	"paw-adopt-api/pkg/errors"
)

var tracer = otel.Tracer("translation")

const systemPrompt = "You translate pet adoption search queries into %s. " +
	"Return only the translated query text, nothing else. " +
	"If the query is already in the target language, return it unchanged."

// Client 查询翻译客户端，实现 search.Translator
type Client struct {
	api    *openai.Client
	model  string
	target string
}

// NewClient 创建翻译客户端
func NewClient(cfg *config.TranslationConfig) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	target := cfg.TargetLanguage
	if target == "" {
		target = "English"
	}
	return &Client{
		api:    openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		target: target,
	}
}

// Translate 翻译查询文本
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	ctx, span := tracer.Start(ctx, "translation.Translate")
	defer span.End()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: strings.Replace(systemPrompt, "%s", c.target, 1)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
	})
	if err != nil {
		span.RecordError(err)
		return "", errors.Wrap(err, errors.CodeTranslationFailed, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New(errors.CodeTranslationFailed, "empty translation response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
