package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*RecommendationCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRecommendationCache(client), mr
}

func TestRecommendationCache_Invalidate(t *testing.T) {
	c, mr := setupCache(t)

	require.NoError(t, mr.Set("recommendations:user:42", `["ad1","ad2"]`))

	err := c.Invalidate(context.Background(), 42)
	require.NoError(t, err)

	assert.False(t, mr.Exists("recommendations:user:42"))
}

func TestRecommendationCache_Invalidate_MissingKey(t *testing.T) {
	c, _ := setupCache(t)

	// Repeat invalidation of an absent key must not error.
	err := c.Invalidate(context.Background(), 7)
	assert.NoError(t, err)

	err = c.Invalidate(context.Background(), 7)
	assert.NoError(t, err)
}

func TestRecommendationCache_Invalidate_OtherUsersUntouched(t *testing.T) {
	c, mr := setupCache(t)

	require.NoError(t, mr.Set("recommendations:user:1", "a"))
	require.NoError(t, mr.Set("recommendations:user:2", "b"))

	require.NoError(t, c.Invalidate(context.Background(), 1))

	assert.False(t, mr.Exists("recommendations:user:1"))
	assert.True(t, mr.Exists("recommendations:user:2"))
}
