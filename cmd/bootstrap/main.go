// Package main 基础设施初始化：建表、向量集合与全文索引
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"paw-adopt-api/internal/config"
	"paw-adopt-api/internal/domain/entity"
	"paw-adopt-api/internal/domain/repository"
	"paw-adopt-api/internal/wire"
	"paw-adopt-api/pkg/errors"
	"paw-adopt-api/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dl, cleanup, err := wire.InitializeDataLayer(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize data layer", err)
	}
	defer cleanup()

	// PostgreSQL 表结构
	if err := dl.PgClient.DB().WithContext(ctx).AutoMigrate(
		&entity.User{},
		&entity.Shelter{},
		&entity.Animal{},
		&entity.AdoptionApplication{},
	); err != nil {
		logger.Fatal(ctx, "failed to migrate postgres schema", err)
	}
	logger.Info(ctx, "postgres schema migrated")

	// Milvus 向量集合与 HNSW 索引
	if err := dl.VectorRepo.EnsureCollection(ctx); err != nil {
		logger.Fatal(ctx, "failed to ensure milvus collection", err)
	}
	logger.Info(ctx, "milvus collection ready")

	// RediSearch 全文索引
	if err := dl.SearchClient.EnsureIndex(ctx); err != nil {
		logger.Fatal(ctx, "failed to ensure redisearch index", err)
	}
	logger.Info(ctx, "redisearch index ready")

	if err := seedAdmin(ctx, dl.UserRepo); err != nil {
		logger.Fatal(ctx, "failed to seed admin user", err)
	}

	logger.Info(ctx, "bootstrap completed")
}

// seedAdmin 按 ADMIN_EMAIL/ADMIN_PASSWORD 环境变量创建初始管理员，
// 未设置或已存在时跳过
func seedAdmin(ctx context.Context, users repository.UserRepository) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Info(ctx, "admin seed skipped, ADMIN_EMAIL/ADMIN_PASSWORD not set")
		return nil
	}

	existing, err := users.GetByEmail(ctx, email)
	if err != nil && errors.AsAppError(err).Code != errors.CodeUserNotFound {
		return err
	}
	if existing != nil {
		logger.Info(ctx, "admin user already exists", "email", email)
		return nil
	}

	admin := entity.NewUser(email, "Administrator")
	admin.ID = uuid.NewString()
	admin.Role = entity.UserRoleAdmin
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	logger.Info(ctx, "admin user seeded", "email", email)
	return nil
}
