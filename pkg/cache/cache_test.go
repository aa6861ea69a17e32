package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBackend(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	_, found, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	data, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("v"), data)

	require.NoError(t, c.Delete(ctx, "k"))
	_, found, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting a missing key is not an error.
	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Close())
}

func TestMemoryCache(t *testing.T) {
	testBackend(t, NewMemoryCache())
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	testBackend(t, c)
}

func TestFileCachePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileCache(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "verdict", []byte("1"), 0))

	second, err := NewFileCache(dir)
	require.NoError(t, err)
	data, found, err := second.Get(ctx, "verdict")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("1"), data)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Nanosecond))
	time.Sleep(10 * time.Millisecond)

	_, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found, "expired entries must read as misses")
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	_, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found, "null cache never stores anything")
}

func TestScopedCache(t *testing.T) {
	inner := NewMemoryCache()
	ctx := context.Background()

	a := NewScoped(inner, "a:")
	b := NewScoped(inner, "b:")

	require.NoError(t, a.Set(ctx, "k", []byte("va"), 0))
	require.NoError(t, b.Set(ctx, "k", []byte("vb"), 0))

	data, found, err := a.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("va"), data)

	data, found, err = b.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("vb"), data)

	require.NoError(t, a.Delete(ctx, "k"))
	_, found, err = b.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found, "deleting in one scope must not touch another")
}

func TestScopedCacheNilInner(t *testing.T) {
	c := NewScoped(nil, "x:")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	_, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKeyDeterministic(t *testing.T) {
	k1 := Key("query", "X", []int{1, 2})
	k2 := Key("query", "X", []int{1, 2})
	k3 := Key("query", "X", []int{2, 1})

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Contains(t, k1, "query:")
}

func TestHash(t *testing.T) {
	h := Hash([]byte("data"))
	assert.Len(t, h, 64)
	assert.Equal(t, h, Hash([]byte("data")))
	assert.NotEqual(t, h, Hash([]byte("other")))
}
