package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"paw-adopt-api/internal/infrastructure/persistence/milvus"
	"paw-adopt-api/internal/infrastructure/persistence/postgres"
	"paw-adopt-api/internal/infrastructure/persistence/redis"
	"paw-adopt-api/internal/infrastructure/persistence/redisearch"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	pg         *postgres.Client
	redis      *redis.Client
	milvus     *milvus.Client
	redisearch *redisearch.Client
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(pg *postgres.Client, redisClient *redis.Client, milvusClient *milvus.Client, searchClient *redisearch.Client) *HealthHandler {
	return &HealthHandler{
		pg:         pg,
		redis:      redisClient,
		milvus:     milvusClient,
		redisearch: searchClient,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Ready 就绪检查接口。Postgres 与 Redis 为必需依赖；
// 检索后端（Milvus / RediSearch）故障时列表查询仍可用，标记降级。
// @Summary 就绪检查
// @Tags System
// @Produce json
// @Success 200 {object} readinessResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]*readinessCheck)
	ready := true

	runCheck := func(name string, dep healthChecker, required bool) {
		check := &readinessCheck{Status: "unknown"}
		checks[name] = check

		start := time.Now()
		err := dep.HealthCheck(ctx)
		check.LatencyMs = time.Since(start).Milliseconds()
		if err == nil {
			check.Status = "ok"
			return
		}
		check.Error = err.Error()
		if required {
			check.Status = "error"
			ready = false
		} else {
			check.Status = "degraded"
		}
	}

	runCheck("postgres", h.pg, true)
	runCheck("redis", h.redis, true)
	runCheck("milvus", h.milvus, false)
	runCheck("redisearch", h.redisearch, false)

	resp := readinessResponse{Status: "ok", Checks: checks}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Live 存活检查接口
// @Summary 存活检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
