package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCriteriaValidate(t *testing.T) {
	tests := []struct {
		name    string
		crit    Criteria
		wantErr bool
	}{
		{"valid", Criteria{Offset: 1, PageSize: 20}, false},
		{"zero offset allowed", Criteria{Offset: 0, PageSize: 20}, false},
		{"negative offset", Criteria{Offset: -1, PageSize: 20}, true},
		{"zero page size", Criteria{Offset: 1, PageSize: 0}, true},
		{"negative page size", Criteria{Offset: 1, PageSize: -5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.crit.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCriteriaHash(t *testing.T) {
	a := Criteria{Offset: 1, PageSize: 20, SortBy: []string{"name"}, FreeTextQuery: "golden"}

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, a.Hash(), a.Hash())
	})

	t.Run("sensitive to base fields", func(t *testing.T) {
		b := a
		b.Offset = 2
		assert.NotEqual(t, a.Hash(), b.Hash())

		c := a
		c.SortDescending = true
		assert.NotEqual(t, a.Hash(), c.Hash())
	})

	t.Run("sensitive to extra parts", func(t *testing.T) {
		assert.NotEqual(t, a.Hash("species=dog"), a.Hash("species=cat"))
		assert.NotEqual(t, a.Hash(), a.Hash("species=dog"))
	})
}
