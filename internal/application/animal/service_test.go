package animal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paw-adopt-api/internal/application/search"
	"paw-adopt-api/internal/config"
	"paw-adopt-api/internal/domain/entity"
	"paw-adopt-api/internal/domain/query"
)

type fakeAnimalRepo struct {
	byID map[string]*entity.Animal
}

func (r *fakeAnimalRepo) Find(context.Context, *query.Plan) ([]*entity.Animal, error) {
	return nil, nil
}
func (r *fakeAnimalRepo) Count(context.Context, query.Filter) (int64, error)      { return 0, nil }
func (r *fakeAnimalRepo) Create(context.Context, *entity.Animal) error            { return nil }
func (r *fakeAnimalRepo) GetByID(context.Context, string) (*entity.Animal, error) { return nil, nil }
func (r *fakeAnimalRepo) Update(context.Context, *entity.Animal) error            { return nil }
func (r *fakeAnimalRepo) Delete(context.Context, string) error                    { return nil }

func (r *fakeAnimalRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Animal, error) {
	var out []*entity.Animal
	for _, id := range ids {
		if a, ok := r.byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// recordingCache 记录缓存键并始终回源
type recordingCache struct {
	keys []string
}

func (c *recordingCache) GetOrLoad(ctx context.Context, key string, _ time.Duration, loader func(ctx context.Context) (string, error)) (string, bool, error) {
	c.keys = append(c.keys, key)
	v, err := loader(ctx)
	return v, false, err
}

func (c *recordingCache) Delete(context.Context, ...string) error { return nil }

type stubEmbedder struct{}

func (stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	return []float32{0.1}, nil
}

type stubVectorIndex struct{ hits []search.Hit }

func (s stubVectorIndex) Search(context.Context, []float32, query.Filter, int, int) ([]search.Hit, error) {
	return s.hits, nil
}

type stubTextIndex struct{}

func (stubTextIndex) Search(context.Context, *search.TextQuerySpec, query.Filter) ([]search.Hit, error) {
	return nil, nil
}

func newSearchService(t *testing.T, repo *fakeAnimalRepo, cache *recordingCache) *Service {
	t.Helper()
	analyzer, err := search.NewAnalyzer(config.AnalyzerConfig{})
	require.NoError(t, err)
	executor := search.NewExecutor(analyzer, stubEmbedder{}, nil,
		stubVectorIndex{hits: []search.Hit{{ID: "a1", Score: 0.9}}}, stubTextIndex{},
		config.SearchConfig{})
	return NewService(repo, nil, query.NewResolver(nil), executor, cache, nil,
		config.SearchCacheConfig{Enabled: true, TTL: time.Minute})
}

func TestSearch_CacheKeyCoversAllFilters(t *testing.T) {
	repo := &fakeAnimalRepo{byID: map[string]*entity.Animal{
		"a1": {ID: "a1", Name: "Lucky"},
	}}
	cache := &recordingCache{}
	svc := newSearchService(t, repo, cache)

	requests := []SearchRequest{
		{Query: "golden retriever", PageSize: 10, Shelters: []string{"shelter-a"}},
		{Query: "golden retriever", PageSize: 10, Shelters: []string{"shelter-b"}},
		{Query: "golden retriever", PageSize: 10, Species: []string{"dog"}},
	}
	for i := range requests {
		matches, err := svc.Search(context.Background(), nil, &requests[i])
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "a1", matches[0].Animal.ID)
	}

	require.Len(t, cache.keys, 3)
	assert.NotEqual(t, cache.keys[0], cache.keys[1], "shelter filter must change the cache key")
	assert.NotEqual(t, cache.keys[0], cache.keys[2], "species filter must change the cache key")
	assert.NotEqual(t, cache.keys[1], cache.keys[2])
}

func TestSearch_CacheKeyDeterministic(t *testing.T) {
	repo := &fakeAnimalRepo{byID: map[string]*entity.Animal{"a1": {ID: "a1"}}}
	cache := &recordingCache{}
	svc := newSearchService(t, repo, cache)

	for i := 0; i < 2; i++ {
		req := SearchRequest{Query: "husky", PageSize: 5, Shelters: []string{"shelter-a"}}
		_, err := svc.Search(context.Background(), nil, &req)
		require.NoError(t, err)
	}

	require.Len(t, cache.keys, 2)
	assert.Equal(t, cache.keys[0], cache.keys[1])
}
