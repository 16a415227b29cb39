package util

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pepagora/internal/app/catalog/entity"
)

func newTestRedisClient(t *testing.T) *RedisClient {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return NewRedisClientFromExisting(client)
}

func TestRedisClient_SetAndGetCategories(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cache := newTestRedisClient(t)

	categories := []entity.Category{
		{ID: primitive.NewObjectID(), MainCatName: "Electronics"},
		{ID: primitive.NewObjectID(), MainCatName: "Clothing"},
	}

	// Act
	err := cache.SetCategories(ctx, categories, time.Hour)
	require.NoError(t, err)

	got, err := cache.GetCategories(ctx)

	// Assert
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Electronics", got[0].MainCatName)
	assert.Equal(t, categories[0].ID, got[0].ID)
}

func TestRedisClient_GetCategories_Miss(t *testing.T) {
	ctx := context.Background()
	cache := newTestRedisClient(t)

	got, err := cache.GetCategories(ctx)

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisClient_DeleteCategories(t *testing.T) {
	ctx := context.Background()
	cache := newTestRedisClient(t)

	require.NoError(t, cache.SetCategories(ctx, []entity.Category{{MainCatName: "Electronics"}}, time.Hour))
	require.NoError(t, cache.DeleteCategories(ctx))

	got, err := cache.GetCategories(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisClient_Counts(t *testing.T) {
	ctx := context.Background()
	cache := newTestRedisClient(t)

	// Промах до записи
	count, ok, err := cache.GetCount(ctx, "products")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, count)

	// Попадание после записи
	require.NoError(t, cache.SetCount(ctx, "products", 42, time.Minute))

	count, ok, err = cache.GetCount(ctx, "products")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(42), count)

	// Промах после инвалидации
	require.NoError(t, cache.DeleteCount(ctx, "products"))

	_, ok, err = cache.GetCount(ctx, "products")
	require.NoError(t, err)
	assert.False(t, ok)
}
