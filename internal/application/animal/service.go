// Package animal 动物应用服务
package animal

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"paw-adopt-api/internal/application/search"
	"paw-adopt-api/internal/config"
	"paw-adopt-api/internal/domain/entity"
	"paw-adopt-api/internal/domain/query"
	"paw-adopt-api/internal/domain/repository"
	"paw-adopt-api/pkg/errors"
	"paw-adopt-api/pkg/logger"
	"paw-adopt-api/pkg/metrics"
)

// SearchCache 检索结果缓存端口，加载函数在缓存未命中时执行
type SearchCache interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func(ctx context.Context) (string, error)) (string, bool, error)
	Delete(ctx context.Context, keys ...string) error
}

// Indexer 检索索引写入端口，动物记录变更后保持索引同步
type Indexer interface {
	Index(ctx context.Context, animal *entity.Animal) error
	Remove(ctx context.Context, animalID string) error
}

// Service 动物应用服务
type Service struct {
	animals  repository.AnimalRepository
	engine   *query.Engine[entity.Animal]
	resolver *query.Resolver
	executor *search.Executor
	cache    SearchCache
	indexer  Indexer
	cacheCfg config.SearchCacheConfig
}

// NewService 创建动物应用服务，cache 与 indexer 可为 nil
func NewService(
	animals repository.AnimalRepository,
	engine *query.Engine[entity.Animal],
	resolver *query.Resolver,
	executor *search.Executor,
	cache SearchCache,
	indexer Indexer,
	cacheCfg config.SearchCacheConfig,
) *Service {
	return &Service{
		animals:  animals,
		engine:   engine,
		resolver: resolver,
		executor: executor,
		cache:    cache,
		indexer:  indexer,
		cacheCfg: cacheCfg,
	}
}

// CreateRequest 创建动物请求
type CreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Species     string   `json:"species" binding:"required"`
	Breed       string   `json:"breed"`
	Gender      string   `json:"gender"`
	AgeMonths   int      `json:"age_months"`
	WeightKg    float64  `json:"weight_kg"`
	Description string   `json:"description"`
	HealthNotes string   `json:"health_notes"`
	Photos      []string `json:"photos"`
	ShelterID   string   `json:"shelter_id" binding:"required"`
}

// Create 创建动物记录，要求调用方隶属目标收容所或持有管理权限
func (s *Service) Create(ctx context.Context, caller *query.Caller, req *CreateRequest) (*entity.Animal, error) {
	if err := s.requireShelterAccess(caller, req.ShelterID); err != nil {
		return nil, err
	}

	animal := entity.NewAnimal(req.Name, req.Species, req.ShelterID, caller.ID)
	animal.ID = uuid.NewString()
	animal.Breed = req.Breed
	animal.AgeMonths = req.AgeMonths
	animal.WeightKg = req.WeightKg
	animal.Description = req.Description
	animal.HealthNotes = req.HealthNotes
	animal.Photos = req.Photos
	if req.Gender != "" {
		animal.Gender = entity.AnimalGender(req.Gender)
	}

	if err := s.animals.Create(ctx, animal); err != nil {
		return nil, err
	}
	s.syncIndex(ctx, animal)
	logger.Info(ctx, "animal created", "animal_id", animal.ID, "shelter_id", animal.ShelterID)
	return animal, nil
}

// Get 查询单条动物记录
func (s *Service) Get(ctx context.Context, id string) (*entity.Animal, error) {
	return s.animals.GetByID(ctx, id)
}

// UpdateRequest 更新动物请求，nil 字段不修改
type UpdateRequest struct {
	Name        *string  `json:"name"`
	Breed       *string  `json:"breed"`
	Gender      *string  `json:"gender"`
	AgeMonths   *int     `json:"age_months"`
	WeightKg    *float64 `json:"weight_kg"`
	Status      *string  `json:"status"`
	Description *string  `json:"description"`
	HealthNotes *string  `json:"health_notes"`
	Photos      []string `json:"photos"`
}

// Update 更新动物记录
func (s *Service) Update(ctx context.Context, caller *query.Caller, id string, req *UpdateRequest) (*entity.Animal, error) {
	animal, err := s.animals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireShelterAccess(caller, animal.ShelterID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		animal.Name = *req.Name
	}
	if req.Breed != nil {
		animal.Breed = *req.Breed
	}
	if req.Gender != nil {
		animal.Gender = entity.AnimalGender(*req.Gender)
	}
	if req.AgeMonths != nil {
		animal.AgeMonths = *req.AgeMonths
	}
	if req.WeightKg != nil {
		animal.WeightKg = *req.WeightKg
	}
	if req.Status != nil {
		animal.Status = entity.AnimalStatus(*req.Status)
	}
	if req.Description != nil {
		animal.Description = *req.Description
	}
	if req.HealthNotes != nil {
		animal.HealthNotes = *req.HealthNotes
	}
	if req.Photos != nil {
		animal.Photos = req.Photos
	}
	animal.UpdatedAt = time.Now()

	if err := s.animals.Update(ctx, animal); err != nil {
		return nil, err
	}
	s.syncIndex(ctx, animal)
	return animal, nil
}

// Delete 删除动物记录并移除索引
func (s *Service) Delete(ctx context.Context, caller *query.Caller, id string) error {
	animal, err := s.animals.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireShelterAccess(caller, animal.ShelterID); err != nil {
		return err
	}
	if err := s.animals.Delete(ctx, id); err != nil {
		return err
	}
	if s.indexer != nil {
		if err := s.indexer.Remove(ctx, id); err != nil {
			logger.Warn(ctx, "remove animal from search index failed", "animal_id", id, "error", err)
		}
	}
	return nil
}

// List 结构化列表查询，经通用查询引擎执行
func (s *Service) List(ctx context.Context, caller *query.Caller, crit *repository.AnimalCriteria) (*repository.PagedResult[entity.Animal], error) {
	flags := query.AccessOwner | query.AccessPermission | query.AccessAffiliation
	items, err := s.engine.Collect(ctx, flags, caller, crit)
	if err != nil {
		return nil, err
	}
	total, err := s.engine.Count(ctx, flags, caller, crit)
	if err != nil {
		return nil, err
	}
	return repository.NewPagedResult(items, total, crit.Offset, crit.PageSize), nil
}

// SearchRequest 混合检索请求
type SearchRequest struct {
	Query    string   `json:"query" binding:"required"`
	PageSize int      `json:"page_size"`
	Species  []string `json:"species"`
	Shelters []string `json:"shelter_ids"`
}

// SearchMatch 混合检索单条结果
type SearchMatch struct {
	Animal *entity.Animal `json:"animal"`
	Score  float64        `json:"score"`
	Source search.Source  `json:"source"`
}

// Search 混合检索可领养动物。结果以 (调用方, 查询) 为键缓存，
// 命中缓存后仅重新水合实体以保证数据新鲜。
func (s *Service) Search(ctx context.Context, caller *query.Caller, req *SearchRequest) ([]SearchMatch, error) {
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	crit := &repository.AnimalCriteria{
		Statuses:   []string{string(entity.AnimalStatusAvailable)},
		Species:    req.Species,
		ShelterIDs: req.Shelters,
	}
	filter, err := crit.BuildFilter()
	if err != nil {
		return nil, err
	}
	filter = s.resolver.Apply(query.AccessPermission|query.AccessAffiliation, filter, caller, repository.AnimalScope)

	items, err := s.searchCached(ctx, caller, req, filter, pageSize)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, items)
}

// searchCached 执行检索，开启缓存时经单飞加载避免同键并发穿透
func (s *Service) searchCached(ctx context.Context, caller *query.Caller, req *SearchRequest, filter query.Filter, pageSize int) ([]search.Item, error) {
	run := func(ctx context.Context) ([]search.Item, error) {
		res, err := s.executor.Search(ctx, req.Query, filter, pageSize)
		if err != nil {
			return nil, err
		}
		return res.Items, nil
	}

	if s.cache == nil || !s.cacheCfg.Enabled {
		return run(ctx)
	}

	callerKey := "anon"
	if caller != nil {
		callerKey = caller.ID
	}
	// 全部过滤输入都进入缓存键，过滤不同的请求绝不共享缓存
	crit := query.Criteria{PageSize: pageSize, FreeTextQuery: req.Query}
	key := "search:animals:" + callerKey + ":" + crit.Hash(
		"sp="+strings.Join(req.Species, ","),
		"sh="+strings.Join(req.Shelters, ","),
	)

	payload, hit, err := s.cache.GetOrLoad(ctx, key, s.cacheCfg.TTL, func(ctx context.Context) (string, error) {
		items, err := run(ctx)
		if err != nil {
			return "", err
		}
		raw, err := json.Marshal(items)
		if err != nil {
			return "", errors.Wrap(err, errors.CodeInternalError, "marshal search items")
		}
		return string(raw), nil
	})
	if err != nil {
		return nil, err
	}
	if hit {
		metrics.SearchCacheTotal.WithLabelValues("hit").Inc()
	} else {
		metrics.SearchCacheTotal.WithLabelValues("miss").Inc()
	}

	var items []search.Item
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, errors.Wrap(err, errors.CodeCacheError, "decode cached search items")
	}
	return items, nil
}

// hydrate 按检索结果顺序加载实体，已删除的条目静默跳过
func (s *Service) hydrate(ctx context.Context, items []search.Item) ([]SearchMatch, error) {
	if len(items) == 0 {
		return []SearchMatch{}, nil
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	animals, err := s.animals.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Animal, len(animals))
	for _, a := range animals {
		byID[a.ID] = a
	}

	matches := make([]SearchMatch, 0, len(items))
	for _, it := range items {
		a, ok := byID[it.ID]
		if !ok {
			continue
		}
		matches = append(matches, SearchMatch{Animal: a, Score: it.Score, Source: it.Source})
	}
	return matches, nil
}

// requireShelterAccess 写操作要求管理权限或目标收容所隶属关系
func (s *Service) requireShelterAccess(caller *query.Caller, shelterID string) error {
	if caller == nil {
		return errors.ErrUnauthorized
	}
	if entity.HasPermission(entity.UserRole(caller.Role), entity.PermShelterManage) {
		return nil
	}
	if !entity.HasPermission(entity.UserRole(caller.Role), entity.PermAnimalWrite) {
		return errors.ErrForbidden
	}
	for _, id := range caller.ShelterIDs {
		if id == shelterID {
			return nil
		}
	}
	return errors.ErrForbidden
}

func (s *Service) syncIndex(ctx context.Context, animal *entity.Animal) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.Index(ctx, animal); err != nil {
		metrics.IndexSyncTotal.WithLabelValues("inline", "error").Inc()
		logger.Warn(ctx, "sync animal to search index failed", "animal_id", animal.ID, "error", err)
		return
	}
	metrics.IndexSyncTotal.WithLabelValues("inline", "success").Inc()
}
