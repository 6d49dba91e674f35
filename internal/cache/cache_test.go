package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	logger := slog.New(slog.NewTextHandler(testWriter{}, nil))
	c := New(client, time.Minute, logger)
	return c, mr
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

type cachedPage struct {
	IDs   []string `json:"ids"`
	Total int      `json:"total"`
}

func TestCache_SetGet_RoundTrip(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	key := BusinessReviewsKey("biz-1", 1, 20)
	c.Set(ctx, key, cachedPage{IDs: []string{"rev-1", "rev-2"}, Total: 2})

	var got cachedPage
	hit := c.Get(ctx, key, &got)
	require.True(t, hit)
	assert.Equal(t, []string{"rev-1", "rev-2"}, got.IDs)
	assert.Equal(t, 2, got.Total)
}

func TestCache_Get_MissOnAbsentKey(t *testing.T) {
	c, _ := setupTestCache(t)

	var got cachedPage
	hit := c.Get(context.Background(), BusinessReviewsKey("biz-none", 1, 20), &got)
	assert.False(t, hit)
}

func TestCache_Get_CorruptEntryIsDropped(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	key := BusinessKey("biz-1")
	require.NoError(t, mr.Set(key, "{not json"))

	var got cachedPage
	hit := c.Get(ctx, key, &got)
	assert.False(t, hit)
	// The corrupt entry is removed so subsequent reads miss cleanly.
	assert.False(t, mr.Exists(key))
}

func TestCache_Set_AppliesTTL(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	key := BusinessListKey(1, 20)
	c.Set(ctx, key, cachedPage{Total: 5})

	require.True(t, mr.Exists(key))
	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists(key))
}

func TestCache_InvalidateBusinessReviews(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	c.Set(ctx, BusinessReviewsKey("biz-1", 1, 20), cachedPage{Total: 2})
	c.Set(ctx, BusinessReviewsKey("biz-1", 2, 20), cachedPage{Total: 2})
	c.Set(ctx, BusinessReviewsKey("biz-2", 1, 20), cachedPage{Total: 1})

	c.InvalidateBusinessReviews(ctx, "biz-1")

	assert.False(t, mr.Exists(BusinessReviewsKey("biz-1", 1, 20)))
	assert.False(t, mr.Exists(BusinessReviewsKey("biz-1", 2, 20)))
	// Other businesses keep their pages.
	assert.True(t, mr.Exists(BusinessReviewsKey("biz-2", 1, 20)))
}

func TestCache_KeyShapes(t *testing.T) {
	assert.Equal(t, "otosanayi:reviews:business:biz-1:2:50", BusinessReviewsKey("biz-1", 2, 50))
	assert.Equal(t, "otosanayi:business:usta-oto-servis", BusinessKey("usta-oto-servis"))
	assert.Equal(t, "otosanayi:businesses:1:20", BusinessListKey(1, 20))
}

func TestCache_StoredPayloadIsJSON(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	key := BusinessKey("biz-1")
	c.Set(ctx, key, cachedPage{IDs: []string{"a"}, Total: 1})

	raw, err := mr.Get(key)
	require.NoError(t, err)
	var got cachedPage
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, 1, got.Total)
}
