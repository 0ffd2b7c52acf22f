package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEntity struct {
	ID string
}

type fakeStore struct {
	lastPlan   *Plan
	lastFilter Filter
	items      []*testEntity
	total      int64
}

func (s *fakeStore) Find(_ context.Context, plan *Plan) ([]*testEntity, error) {
	s.lastPlan = plan
	return s.items, nil
}

func (s *fakeStore) Count(_ context.Context, filter Filter) (int64, error) {
	s.lastFilter = filter
	return s.total, nil
}

type stubCriteria struct {
	base   Criteria
	filter Filter
	err    error
}

func (c *stubCriteria) Base() *Criteria              { return &c.base }
func (c *stubCriteria) BuildFilter() (Filter, error) { return c.filter, c.err }

func newTestEngine(store *fakeStore) *Engine[testEntity] {
	fields := NewFieldMap(map[string]string{
		"name":       "name",
		"created_at": "created_at",
		"id":         "id",
		"age":        "age_months",
	}, "id", "shelter_id")

	resolver := NewResolver(PermissionCheckerFunc(denyAll))
	return New[testEntity](store, resolver, Options{Fields: fields, Scope: testScope})
}

func TestBuildPlan_Pagination(t *testing.T) {
	tests := []struct {
		name     string
		offset   int
		pageSize int
		wantSkip int
	}{
		{"page zero behaves as first page", 0, 20, 0},
		{"first page", 1, 20, 0},
		{"second page", 2, 20, 20},
		{"fifth page small size", 5, 3, 12},
	}

	engine := newTestEngine(&fakeStore{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crit := &stubCriteria{base: Criteria{Offset: tt.offset, PageSize: tt.pageSize}}
			plan, err := engine.BuildPlan(AccessNone, nil, crit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSkip, plan.Skip)
			assert.Equal(t, tt.pageSize, plan.Limit)
		})
	}
}

func TestBuildPlan_InvalidCriteria(t *testing.T) {
	engine := newTestEngine(&fakeStore{})

	t.Run("negative offset", func(t *testing.T) {
		_, err := engine.BuildPlan(AccessNone, nil, &stubCriteria{base: Criteria{Offset: -1, PageSize: 10}})
		assert.Error(t, err)
	})

	t.Run("zero page size", func(t *testing.T) {
		_, err := engine.BuildPlan(AccessNone, nil, &stubCriteria{base: Criteria{Offset: 1}})
		assert.Error(t, err)
	})

	t.Run("count rejects the same criteria", func(t *testing.T) {
		_, err := engine.Count(context.Background(), AccessNone, nil,
			&stubCriteria{base: Criteria{Offset: 1}})
		assert.Error(t, err)
	})
}

func TestBuildPlan_DefaultSortAndTieBreak(t *testing.T) {
	engine := newTestEngine(&fakeStore{})

	t.Run("no sort uses default with id tiebreak", func(t *testing.T) {
		plan, err := engine.BuildPlan(AccessNone, nil,
			&stubCriteria{base: Criteria{Offset: 1, PageSize: 10}})
		require.NoError(t, err)
		assert.Equal(t, []Sort{{Column: "created_at"}, {Column: "id"}}, plan.Sorts)
	})

	t.Run("explicit sort appends tiebreak", func(t *testing.T) {
		plan, err := engine.BuildPlan(AccessNone, nil, &stubCriteria{
			base: Criteria{Offset: 1, PageSize: 10, SortBy: []string{"age"}, SortDescending: true}})
		require.NoError(t, err)
		assert.Equal(t, []Sort{
			{Column: "age_months", Descending: true},
			{Column: "id"},
		}, plan.Sorts)
	})

	t.Run("sort on tiebreak column not duplicated", func(t *testing.T) {
		plan, err := engine.BuildPlan(AccessNone, nil, &stubCriteria{
			base: Criteria{Offset: 1, PageSize: 10, SortBy: []string{"id"}}})
		require.NoError(t, err)
		assert.Equal(t, []Sort{{Column: "id"}}, plan.Sorts)
	})

	t.Run("unknown sort field rejected", func(t *testing.T) {
		_, err := engine.BuildPlan(AccessNone, nil, &stubCriteria{
			base: Criteria{Offset: 1, PageSize: 10, SortBy: []string{"secret"}}})
		assert.Error(t, err)
	})
}

func TestBuildPlan_Projection(t *testing.T) {
	engine := newTestEngine(&fakeStore{})

	t.Run("no fields means all columns", func(t *testing.T) {
		plan, err := engine.BuildPlan(AccessNone, nil,
			&stubCriteria{base: Criteria{Offset: 1, PageSize: 10}})
		require.NoError(t, err)
		assert.Nil(t, plan.Columns)
	})

	t.Run("forced columns always included first", func(t *testing.T) {
		plan, err := engine.BuildPlan(AccessNone, nil, &stubCriteria{
			base: Criteria{Offset: 1, PageSize: 10, Fields: []string{"name"}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "shelter_id", "name"}, plan.Columns)
	})

	t.Run("duplicate of forced column collapsed", func(t *testing.T) {
		plan, err := engine.BuildPlan(AccessNone, nil, &stubCriteria{
			base: Criteria{Offset: 1, PageSize: 10, Fields: []string{"id", "name"}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "shelter_id", "name"}, plan.Columns)
	})

	t.Run("unknown projection field rejected", func(t *testing.T) {
		_, err := engine.BuildPlan(AccessNone, nil, &stubCriteria{
			base: Criteria{Offset: 1, PageSize: 10, Fields: []string{"password"}}})
		assert.Error(t, err)
	})
}

func TestBuildPlan_AuthorizationTightensFilter(t *testing.T) {
	engine := newTestEngine(&fakeStore{})
	caller := &Caller{ID: "u1"}
	crit := &stubCriteria{
		base:   Criteria{Offset: 1, PageSize: 10},
		filter: Eq("status", "available"),
	}

	plan, err := engine.BuildPlan(AccessOwner, caller, crit)
	require.NoError(t, err)

	and, ok := plan.Filter.(And)
	require.True(t, ok)
	assert.Equal(t, Filter(Eq("created_by_id", "u1")), and[1])
}

func TestCollectAndCount(t *testing.T) {
	store := &fakeStore{items: []*testEntity{{ID: "a"}}, total: 42}
	engine := newTestEngine(store)
	crit := &stubCriteria{
		base:   Criteria{Offset: 3, PageSize: 5},
		filter: Eq("status", "available"),
	}

	items, err := engine.Collect(context.Background(), AccessNone, nil, crit)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 10, store.lastPlan.Skip)

	total, err := engine.Count(context.Background(), AccessNone, nil, crit)
	require.NoError(t, err)
	assert.Equal(t, int64(42), total)
	assert.Equal(t, Filter(Eq("status", "available")), store.lastFilter)
}
