package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testScope = Scope{
	Permission:        "animal:manage",
	OwnerColumn:       "created_by_id",
	AffiliationColumn: "shelter_id",
}

func allowAll(_ *Caller, _ string) bool { return true }
func denyAll(_ *Caller, _ string) bool  { return false }

func TestResolverApply_NoFlagsReturnsBase(t *testing.T) {
	r := NewResolver(PermissionCheckerFunc(denyAll))
	base := Eq("status", "available")

	got := r.Apply(AccessNone, base, &Caller{ID: "u1"}, testScope)
	assert.Equal(t, Filter(base), got)
}

func TestResolverApply_NilCallerReturnsBase(t *testing.T) {
	r := NewResolver(PermissionCheckerFunc(denyAll))
	base := Eq("status", "available")

	got := r.Apply(AccessOwner|AccessPermission, base, nil, testScope)
	assert.Equal(t, Filter(base), got)
}

func TestResolverApply_PermissionHitShortCircuits(t *testing.T) {
	r := NewResolver(PermissionCheckerFunc(allowAll))
	base := Eq("status", "available")
	caller := &Caller{ID: "u1", Role: "admin"}

	got := r.Apply(AccessPermission|AccessOwner, base, caller, testScope)
	assert.Equal(t, Filter(base), got, "permission hit must not tighten the filter")
}

func TestResolverApply_PermissionMissFallsThroughToOwner(t *testing.T) {
	r := NewResolver(PermissionCheckerFunc(denyAll))
	base := Eq("status", "available")
	caller := &Caller{ID: "u1", Role: "adopter"}

	got := r.Apply(AccessPermission|AccessOwner, base, caller, testScope)

	and, ok := got.(And)
	require.True(t, ok)
	require.Len(t, and, 2)
	assert.Equal(t, Filter(base), and[0])
	assert.Equal(t, Filter(Eq("created_by_id", "u1")), and[1])
}

func TestResolverApply_OwnerAndAffiliationOrTogether(t *testing.T) {
	r := NewResolver(PermissionCheckerFunc(denyAll))
	base := Eq("status", "pending")
	caller := &Caller{ID: "u1", ShelterIDs: []string{"s1", "s2"}}

	got := r.Apply(AccessOwner|AccessAffiliation, base, caller, testScope)

	and, ok := got.(And)
	require.True(t, ok)
	require.Len(t, and, 2)

	or, ok := and[1].(Or)
	require.True(t, ok)
	require.Len(t, or, 2)
	assert.Equal(t, Filter(Eq("created_by_id", "u1")), or[0])
	assert.Equal(t, Filter(In("shelter_id", []string{"s1", "s2"})), or[1])
}

func TestResolverApply_EmptySubPredicatesReturnBase(t *testing.T) {
	r := NewResolver(PermissionCheckerFunc(denyAll))
	base := Eq("status", "available")

	t.Run("anonymous caller with owner flag", func(t *testing.T) {
		got := r.Apply(AccessOwner, base, &Caller{}, testScope)
		assert.Equal(t, Filter(base), got)
	})

	t.Run("affiliation flag without shelters", func(t *testing.T) {
		got := r.Apply(AccessAffiliation, base, &Caller{ID: "u1"}, testScope)
		assert.Equal(t, Filter(base), got)
	})

	t.Run("scope without predicate columns", func(t *testing.T) {
		got := r.Apply(AccessOwner|AccessAffiliation, base,
			&Caller{ID: "u1", ShelterIDs: []string{"s1"}}, Scope{Permission: "x"})
		assert.Equal(t, Filter(base), got)
	})
}

func TestResolverApply_EmptyBaseYieldsRestrictionOnly(t *testing.T) {
	r := NewResolver(PermissionCheckerFunc(denyAll))
	caller := &Caller{ID: "u1"}

	got := r.Apply(AccessOwner, nil, caller, testScope)
	assert.Equal(t, Filter(Eq("created_by_id", "u1")), got)
}

func TestAccessFlagsHas(t *testing.T) {
	flags := AccessOwner | AccessAffiliation
	assert.True(t, flags.Has(AccessOwner))
	assert.True(t, flags.Has(AccessAffiliation))
	assert.False(t, flags.Has(AccessPermission))
	assert.False(t, AccessNone.Has(AccessOwner))
}
