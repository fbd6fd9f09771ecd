package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedBook struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func newTestCache(t *testing.T, ttl time.Duration) (*BookCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewBookCacheWithClient(client, ttl), mr
}

func TestBookCache_GetSetBook(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	var got cachedBook
	hit, err := cache.GetBook(ctx, 42, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.SetBook(ctx, 42, cachedBook{ID: 42, Title: "Dune"}))
	assert.True(t, mr.Exists("books:detail:42"))

	hit, err = cache.GetBook(ctx, 42, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, cachedBook{ID: 42, Title: "Dune"}, got)
}

func TestBookCache_EntriesExpire(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetTrending(ctx, []cachedBook{{ID: 1, Title: "Emma"}}))
	assert.Equal(t, time.Minute, mr.TTL("books:trending"))

	var got []cachedBook
	hit, err := cache.GetTrending(ctx, &got)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Len(t, got, 1)

	mr.FastForward(time.Minute + time.Second)
	hit, err = cache.GetTrending(ctx, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestBookCache_InvalidateBooks(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, cache.SetBook(ctx, id, cachedBook{ID: id}))
	}
	require.NoError(t, cache.SetTrending(ctx, []int64{1, 2, 3}))

	require.NoError(t, cache.InvalidateBook(ctx, 1))
	assert.False(t, mr.Exists("books:detail:1"))
	assert.False(t, mr.Exists("books:trending"))
	assert.True(t, mr.Exists("books:detail:2"))

	require.NoError(t, cache.InvalidateBooks(ctx, 2, 3))
	for _, id := range []int64{2, 3} {
		assert.False(t, mr.Exists(fmt.Sprintf("books:detail:%d", id)))
	}
}

func TestBookCache_CorruptEntryIsAnError(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set("books:detail:9", "{not json"))

	var got cachedBook
	hit, err := cache.GetBook(context.Background(), 9, &got)
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestNewBookCache(t *testing.T) {
	mr := miniredis.RunT(t)

	cache, err := NewBookCache("redis://"+mr.Addr(), "", time.Minute)
	require.NoError(t, err)
	require.NoError(t, cache.SetBook(context.Background(), 1, cachedBook{ID: 1}))
	assert.True(t, mr.Exists("books:detail:1"))
	require.NoError(t, cache.Close())

	_, err = NewBookCache("://nope", "", time.Minute)
	assert.ErrorContains(t, err, "invalid REDIS_URL")
}
