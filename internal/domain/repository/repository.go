// Package repository 定义领域仓储契约
package repository

import (
	"context"
)

// PagedResult 分页查询结果
type PagedResult[T any] struct {
	Items      []*T  `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPagedResult 创建分页结果
func NewPagedResult[T any](items []*T, total int64, page, pageSize int) *PagedResult[T] {
	if page < 1 {
		page = 1
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return &PagedResult[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// Transactor 事务执行接口
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
