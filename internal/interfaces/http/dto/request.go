// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// PageRequest 分页请求参数
type PageRequest struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// Normalize 规范化分页参数
func (r *PageRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = 20
	}
	if r.PageSize > 100 {
		r.PageSize = 100
	}
}

// BindPage 从 Gin Context 绑定分页参数
func BindPage(c *gin.Context) PageRequest {
	req := PageRequest{
		Page:     parseIntWithDefault(c.Query("page"), 1),
		PageSize: parseIntWithDefault(c.Query("page_size"), 20),
	}
	req.Normalize()
	return req
}

// SortRequest 排序请求参数。sort 形如 "created_at" 或 "-created_at"，
// 前缀减号表示降序。
type SortRequest struct {
	SortBy     []string
	Descending bool
}

// BindSort 从 Gin Context 绑定排序参数
func BindSort(c *gin.Context) SortRequest {
	raw := strings.TrimSpace(c.Query("sort"))
	if raw == "" {
		return SortRequest{}
	}
	desc := strings.HasPrefix(raw, "-")
	raw = strings.TrimPrefix(raw, "-")

	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return SortRequest{SortBy: fields, Descending: desc}
}

// BindFields 从 Gin Context 绑定投影字段列表（fields=a,b,c）
func BindFields(c *gin.Context) []string {
	raw := strings.TrimSpace(c.Query("fields"))
	if raw == "" {
		return nil
	}
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// BindCSV 绑定逗号分隔的查询参数
func BindCSV(c *gin.Context, name string) []string {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// BindOptionalInt 绑定可选整数查询参数
func BindOptionalInt(c *gin.Context, name string) *int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// BindOptionalFloat 绑定可选浮点数查询参数
func BindOptionalFloat(c *gin.Context, name string) *float64 {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseIntWithDefault 解析整数，失败时返回默认值
func parseIntWithDefault(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
