package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"nil filter", nil, true},
		{"empty and", And{}, true},
		{"empty or", Or{}, true},
		{"nested empty groups", And{Or{}, And{}}, true},
		{"single cond", Eq("status", "available"), false},
		{"group with cond", And{Or{}, Eq("id", "1")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEmpty(tt.filter))
		})
	}
}

func TestMerge(t *testing.T) {
	a := Eq("species", "dog")
	b := In("shelter_id", []string{"s1", "s2"})

	t.Run("both empty", func(t *testing.T) {
		assert.True(t, IsEmpty(Merge(nil, And{})))
	})

	t.Run("left empty returns right", func(t *testing.T) {
		assert.Equal(t, Filter(b), Merge(nil, b))
	})

	t.Run("right empty returns left", func(t *testing.T) {
		assert.Equal(t, Filter(a), Merge(a, Or{}))
	})

	t.Run("both present conjoins", func(t *testing.T) {
		merged := Merge(a, b)
		and, ok := merged.(And)
		assert.True(t, ok)
		assert.Len(t, and, 2)
		assert.Equal(t, Filter(a), and[0])
		assert.Equal(t, Filter(b), and[1])
	})
}

func TestCondConstructors(t *testing.T) {
	assert.Equal(t, Cond{Field: "age", Op: OpGte, Value: 6}, Gte("age", 6))
	assert.Equal(t, Cond{Field: "age", Op: OpLte, Value: 24}, Lte("age", 24))
	assert.Equal(t, Cond{Field: "name", Op: OpContains, Value: "lu"}, Contains("name", "lu"))
	assert.Equal(t, Cond{Field: "status", Op: OpNe, Value: "adopted"}, Ne("status", "adopted"))
	assert.Equal(t, Cond{Field: "id", Op: OpNotIn, Value: []string{"x"}}, NotIn("id", []string{"x"}))
}
