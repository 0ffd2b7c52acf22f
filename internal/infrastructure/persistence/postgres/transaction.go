package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager 事务管理器，实现 repository.Transactor
type TxManager struct {
	client *Client
}

// NewTxManager 创建事务管理器
func NewTxManager(client *Client) *TxManager {
	return &TxManager{client: client}
}

// Transaction 在事务中执行操作，嵌套调用复用外层事务
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	err := m.client.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

// txFromContext 从上下文获取事务
func txFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// dbFrom 按上下文选择事务或普通连接
func (c *Client) dbFrom(ctx context.Context) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return c.db.WithContext(ctx)
}
