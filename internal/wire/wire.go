// Package wire 提供依赖装配
package wire

import (
	"context"

	"paw-adopt-api/internal/application/adoption"
	"paw-adopt-api/internal/application/animal"
	"paw-adopt-api/internal/application/search"
	"paw-adopt-api/internal/application/shelter"
	"paw-adopt-api/internal/application/user"
	"paw-adopt-api/internal/config"
	"paw-adopt-api/internal/domain/entity"
	"paw-adopt-api/internal/domain/query"
	"paw-adopt-api/internal/domain/repository"
	"paw-adopt-api/internal/infrastructure/embedding"
	"paw-adopt-api/internal/infrastructure/indexer"
	"paw-adopt-api/internal/infrastructure/messaging"
	"paw-adopt-api/internal/infrastructure/persistence/milvus"
	"paw-adopt-api/internal/infrastructure/persistence/postgres"
	"paw-adopt-api/internal/infrastructure/persistence/redis"
	"paw-adopt-api/internal/infrastructure/persistence/redisearch"
	"paw-adopt-api/internal/infrastructure/translation"
	"paw-adopt-api/internal/interfaces/http/handler"
	"paw-adopt-api/internal/interfaces/http/router"
	"paw-adopt-api/pkg/utils"
)

// DataLayer 数据层依赖容器
type DataLayer struct {
	PgClient  *postgres.Client
	TxManager *postgres.TxManager

	AnimalRepo      *postgres.AnimalRepository
	ShelterRepo     *postgres.ShelterRepository
	UserRepo        *postgres.UserRepository
	ApplicationRepo *postgres.ApplicationRepository

	RedisClient *redis.Client
	Cache       *redis.Cache
	RateLimiter *redis.RateLimiter

	MilvusClient *milvus.Client
	VectorRepo   *milvus.Repository

	SearchClient *redisearch.Client
	TextRepo     *redisearch.Repository
}

// InitializeDataLayer 初始化数据层，返回的清理函数按依赖逆序关闭连接
func InitializeDataLayer(ctx context.Context, cfg *config.Config) (*DataLayer, func(), error) {
	pg, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}

	rdb, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		pg.Close()
		return nil, nil, err
	}

	mv, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		rdb.Close()
		pg.Close()
		return nil, nil, err
	}

	rs, err := redisearch.NewClient(&cfg.TextIndex)
	if err != nil {
		mv.Close()
		rdb.Close()
		pg.Close()
		return nil, nil, err
	}

	dl := &DataLayer{
		PgClient:        pg,
		TxManager:       postgres.NewTxManager(pg),
		AnimalRepo:      postgres.NewAnimalRepository(pg),
		ShelterRepo:     postgres.NewShelterRepository(pg),
		UserRepo:        postgres.NewUserRepository(pg),
		ApplicationRepo: postgres.NewApplicationRepository(pg),
		RedisClient:     rdb,
		Cache:           redis.NewCache(rdb),
		RateLimiter:     redis.NewRateLimiter(rdb),
		MilvusClient:    mv,
		VectorRepo:      milvus.NewRepository(mv),
		SearchClient:    rs,
		TextRepo:        redisearch.NewRepository(rs),
	}

	cleanup := func() {
		rs.Close()
		mv.Close()
		rdb.Close()
		pg.Close()
	}
	return dl, cleanup, nil
}

// App 应用层依赖容器
type App struct {
	Data *DataLayer

	AnimalService   *animal.Service
	ShelterService  *shelter.Service
	AdoptionService *adoption.Service
	UserService     *user.Service

	Router *router.Router
}

// InitializeApp 装配整个应用
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	dl, cleanup, err := InitializeDataLayer(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	resolver := query.NewResolver(query.PermissionCheckerFunc(
		func(caller *query.Caller, permission string) bool {
			return entity.HasPermission(entity.UserRole(caller.Role), entity.Permission(permission))
		}))

	animalEngine := query.New[entity.Animal](dl.AnimalRepo, resolver, query.Options{
		Fields: repository.AnimalFields,
		Scope:  repository.AnimalScope,
	})
	shelterEngine := query.New[entity.Shelter](dl.ShelterRepo, resolver, query.Options{
		Fields: repository.ShelterFields,
		Scope:  repository.ShelterScope,
	})
	userEngine := query.New[entity.User](dl.UserRepo, resolver, query.Options{
		Fields: repository.UserFields,
		Scope:  repository.UserScope,
	})
	applicationEngine := query.New[entity.AdoptionApplication](dl.ApplicationRepo, resolver, query.Options{
		Fields: repository.ApplicationFields,
		Scope:  repository.ApplicationScope,
	})

	analyzer, err := search.NewAnalyzer(cfg.Search.Analyzer)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	embedder := embedding.NewClient(&cfg.Embedding)
	var translator search.Translator
	if cfg.Translation.Enabled {
		translator = translation.NewClient(&cfg.Translation)
	}
	executor := search.NewExecutor(analyzer, embedder, translator, dl.VectorRepo, dl.TextRepo, cfg.Search)

	// 在线写索引失败走 Redis Stream 补偿，由 search-indexer 重试
	producer := messaging.NewProducer(dl.RedisClient.Redis(), 0)
	searchIndexer := indexer.NewQueued(
		indexer.New(embedder, dl.VectorRepo, dl.SearchClient), producer)

	jwtManager := utils.NewJWTManager(cfg.Security.JWT.Secret, cfg.Security.JWT.Issuer)

	animalSvc := animal.NewService(dl.AnimalRepo, animalEngine, resolver, executor,
		dl.Cache, searchIndexer, cfg.Search.Cache)
	shelterSvc := shelter.NewService(dl.ShelterRepo, dl.UserRepo, shelterEngine, dl.TxManager)
	adoptionSvc := adoption.NewService(dl.ApplicationRepo, dl.AnimalRepo, applicationEngine, dl.TxManager)
	userSvc := user.NewService(dl.UserRepo, userEngine, jwtManager, cfg.Security.JWT)

	handlers := router.Handlers{
		Health:   handler.NewHealthHandler(dl.PgClient, dl.RedisClient, dl.MilvusClient, dl.SearchClient),
		Auth:     handler.NewAuthHandler(userSvc),
		Animal:   handler.NewAnimalHandler(animalSvc),
		Shelter:  handler.NewShelterHandler(shelterSvc),
		Adoption: handler.NewAdoptionHandler(adoptionSvc),
		User:     handler.NewUserHandler(userSvc),
	}

	app := &App{
		Data:            dl,
		AnimalService:   animalSvc,
		ShelterService:  shelterSvc,
		AdoptionService: adoptionSvc,
		UserService:     userSvc,
		Router:          router.New(cfg, handlers, jwtManager, dl.RateLimiter),
	}
	return app, cleanup, nil
}
