package integration

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartarus-sandbox/minos/pkg/domain"
	"github.com/tartarus-sandbox/minos/pkg/hades"
	"github.com/tartarus-sandbox/minos/pkg/themis"
)

var billingCategory = uuid.MustParse("a2f51f7e-3f3a-4e2c-9c9b-6f4a1c2d3e4f")

func TestPolicyLifecycle(t *testing.T) {
	// 1. Infrastructure
	mr := miniredis.RunT(t)
	ctx := context.Background()

	// 2. Directory contents
	dir, err := hades.NewRedisDirectory(mr.Addr(), 0, "")
	require.NoError(t, err)
	require.NoError(t, dir.Register(ctx, domain.QueueInfo{
		Path:       `olympus\orders`,
		FormatName: "PUBLIC=orders-01",
		Machine:    "olympus",
		Label:      "orders",
	}))
	require.NoError(t, dir.Register(ctx, domain.QueueInfo{
		Path:       `olympus\billing`,
		FormatName: "PUBLIC=billing-01",
		Machine:    "olympus",
		Label:      "billing",
		Category:   billingCategory,
	}))
	require.NoError(t, dir.Register(ctx, domain.QueueInfo{
		Path:       `styx\billing`,
		FormatName: "PUBLIC=billing-02",
		Machine:    "styx",
		Label:      "billing",
		Category:   billingCategory,
	}))

	// 3. Author and store a policy
	store, err := themis.NewRedisStore(mr.Addr(), 0, "")
	require.NoError(t, err)

	p := themis.NewQueuePermission()
	pathEntry, err := themis.NewPathEntry(domain.AccessSend|domain.AccessPeek, `olympus\orders`)
	require.NoError(t, err)
	require.NoError(t, p.Add(pathEntry))
	criteriaEntry, err := themis.NewCriteriaEntry(domain.AccessReceive, domain.Criteria{Category: billingCategory})
	require.NoError(t, err)
	require.NoError(t, p.Add(criteriaEntry))
	require.NoError(t, store.Put(ctx, "frontdoor", p))

	// 4. Reload after a "restart"; the stored form carries no resolution
	store2, err := themis.NewRedisStore(mr.Addr(), 0, "")
	require.NoError(t, err)
	loaded, err := store2.Get(ctx, "frontdoor")
	require.NoError(t, err)
	assert.False(t, loaded.IsResolved())
	assert.Equal(t, 2, loaded.Len())

	// 5. Resolve through a throttled directory
	throttled := hades.NewThrottledDirectory(dir, 50, 10)
	require.NoError(t, loaded.Resolve(ctx, throttled))

	grants := loaded.Grants()
	assert.Equal(t, domain.AccessSend|domain.AccessPeek, grants["PUBLIC=orders-01"])
	assert.Equal(t, domain.AccessReceive, grants["PUBLIC=billing-01"])
	assert.Equal(t, domain.AccessReceive, grants["PUBLIC=billing-02"])
	assert.Len(t, grants, 3)

	// 6. Algebra over resolved sets
	narrow, err := themis.NewPathPermission(domain.AccessSend, `olympus\orders`)
	require.NoError(t, err)
	require.NoError(t, narrow.Resolve(ctx, throttled))

	sub, err := narrow.IsSubsetOf(loaded)
	require.NoError(t, err)
	assert.True(t, sub, "Send on orders should be within the stored policy")

	sup, err := loaded.IsSubsetOf(narrow)
	require.NoError(t, err)
	assert.False(t, sup)

	intersection, err := loaded.Intersect(narrow)
	require.NoError(t, err)
	got := intersection.(*themis.QueuePermission).Grants()
	assert.Equal(t, map[domain.FormatName]domain.QueueAccess{
		"PUBLIC=orders-01": domain.AccessSend,
	}, got)

	union, err := narrow.Union(loaded)
	require.NoError(t, err)
	assert.Equal(t, loaded.Grants(), union.(*themis.QueuePermission).Grants())

	// 7. Store lifecycle across the restart boundary
	names, err := store2.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"frontdoor"}, names)

	require.NoError(t, store2.Delete(ctx, "frontdoor"))
	_, err = store.Get(ctx, "frontdoor")
	require.ErrorIs(t, err, themis.ErrPolicyNotFound)
}

func TestUnrestrictedPolicyFlow(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	store, err := themis.NewRedisStore(mr.Addr(), 0, "")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "root", themis.NewUnrestrictedQueuePermission()))

	loaded, err := store.Get(ctx, "root")
	require.NoError(t, err)
	assert.True(t, loaded.IsUnrestricted())

	// No directory needed: the unrestricted set grants everything.
	dir := hades.NewMemoryDirectory()
	require.NoError(t, loaded.Resolve(ctx, dir))
	access := loaded.AccessTo("PUBLIC=never-registered")
	assert.True(t, access.Has(domain.AccessAdminister))

	restricted, err := themis.NewPathPermission(domain.AccessSend, domain.WildcardPath)
	require.NoError(t, err)
	require.NoError(t, restricted.Resolve(ctx, dir))

	sub, err := restricted.IsSubsetOf(loaded)
	require.NoError(t, err)
	assert.True(t, sub)

	union, err := restricted.Union(loaded)
	require.NoError(t, err)
	assert.True(t, union.(*themis.QueuePermission).IsUnrestricted())
}
