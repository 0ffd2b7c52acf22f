// Package main 检索索引同步任务。
// 默认以消费者模式运行：消费 Redis Stream 中在线写索引失败的
// 补偿消息，按退避策略重试；--resync 则逐页扫描动物表全量重建，
// 用于索引丢失或 schema 变更后的恢复。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"paw-adopt-api/internal/config"
	"paw-adopt-api/internal/domain/query"
	"paw-adopt-api/internal/infrastructure/embedding"
	"paw-adopt-api/internal/infrastructure/indexer"
	"paw-adopt-api/internal/infrastructure/messaging"
	"paw-adopt-api/internal/wire"
	"paw-adopt-api/pkg/errors"
	"paw-adopt-api/pkg/logger"
	"paw-adopt-api/pkg/metrics"
)

func main() {
	resync := flag.Bool("resync", false, "rebuild the full index instead of consuming the retry stream")
	batchSize := flag.Int("batch", 200, "animals per scan page (resync mode)")
	workers := flag.Int("workers", 4, "concurrent index writers (resync mode)")
	flag.Parse()

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

	ctx := context.Background()

	dl, cleanup, err := wire.InitializeDataLayer(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize data layer", err)
	}
	defer cleanup()

	embedder := embedding.NewClient(&cfg.Embedding)
	ix := indexer.New(embedder, dl.VectorRepo, dl.SearchClient)

	if *resync {
		runResync(ctx, dl, ix, *batchSize, *workers)
		return
	}
	runConsumer(ctx, dl, ix)
}

// runConsumer 消费索引补偿流直到收到退出信号
func runConsumer(ctx context.Context, dl *wire.DataLayer, ix *indexer.Indexer) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	consumer := messaging.NewConsumer(dl.RedisClient.Redis(), messaging.ConsumerConfig{
		Stream:       messaging.StreamIndexSync,
		Group:        messaging.ConsumerGroupIndexer,
		ConsumerName: "indexer-" + uuid.NewString()[:8],
	})

	consumer.RegisterHandler(messaging.MsgTypeIndexSync, func(ctx context.Context, msg *messaging.Message) error {
		var sync messaging.IndexSyncMessage
		if err := msg.UnmarshalPayload(&sync); err != nil {
			// 载荷损坏，重试无意义
			logger.Error(ctx, "malformed index sync payload", err, "message_id", msg.ID)
			return nil
		}

		if sync.Op == messaging.IndexOpDelete {
			return ix.Remove(ctx, sync.AnimalID)
		}

		animal, err := dl.AnimalRepo.GetByID(ctx, sync.AnimalID)
		if err != nil {
			// 记录已不存在则清理残留索引
			if errors.AsAppError(err).Code == errors.CodeAnimalNotFound {
				return ix.Remove(ctx, sync.AnimalID)
			}
			return err
		}
		return ix.Index(ctx, animal)
	})

	if err := consumer.Start(ctx); err != nil {
		logger.Fatal(ctx, "failed to start index sync consumer", err)
	}
	go consumer.MonitorDLQ(ctx, 100)

	logger.Info(ctx, "index sync consumer running",
		"stream", messaging.StreamIndexSync, "group", messaging.ConsumerGroupIndexer)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down index sync consumer")
	consumer.Stop()
}

// runResync 逐页扫描动物表并发重建两路索引
func runResync(ctx context.Context, dl *wire.DataLayer, ix *indexer.Indexer, batchSize, workers int) {
	logger.Info(ctx, "starting search index resync", "batch", batchSize, "workers", workers)

	var synced, failed atomic.Int64
	for skip := 0; ; skip += batchSize {
		plan := &query.Plan{
			Sorts: []query.Sort{{Column: "created_at"}, {Column: "id"}},
			Skip:  skip,
			Limit: batchSize,
		}
		animals, err := dl.AnimalRepo.Find(ctx, plan)
		if err != nil {
			logger.Fatal(ctx, "failed to scan animals", err, "skip", skip)
		}
		if len(animals) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, a := range animals {
			a := a
			g.Go(func() error {
				if err := ix.Index(gctx, a); err != nil {
					metrics.IndexSyncTotal.WithLabelValues("resync", "error").Inc()
					logger.Warn(gctx, "index animal failed", "animal_id", a.ID, "error", err)
					failed.Add(1)
					return nil
				}
				metrics.IndexSyncTotal.WithLabelValues("resync", "success").Inc()
				synced.Add(1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			logger.Fatal(ctx, "resync aborted", err)
		}
		logger.Info(ctx, "resync page done", "skip", skip, "page_count", len(animals))
	}

	logger.Info(ctx, "search index resync completed",
		"synced", synced.Load(), "failed", failed.Load())
}
