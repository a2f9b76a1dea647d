package cache_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Brooklss/Tech-EcoLab/internal/cache"
	"github.com/Brooklss/Tech-EcoLab/internal/config"
	"github.com/Brooklss/Tech-EcoLab/internal/models"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (cache.Cache, redismock.ClientMock, config.CacheConfig) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	cfg := config.CacheConfig{DefaultTTL: 10 * time.Minute}

	return cache.NewRedisCache(client, cfg), mock, cfg
}

func TestRedisCache_Get(t *testing.T) {
	ctx := t.Context()
	key := cache.ProductKey(7)
	product := models.Product{ID: 7, Name: "Keyboard", Price: decimal.RequireFromString("49.90"), StockQuantity: 3}
	data, err := json.Marshal(product)
	require.NoError(t, err)

	t.Run("Hit", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)
		mock.ExpectGet(key).SetVal(string(data))

		// Act
		var got models.Product
		found, err := redisCache.Get(ctx, key, &got)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "Keyboard", got.Name)
		assert.True(t, product.Price.Equal(got.Price))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Miss", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectGet(key).SetErr(redis.Nil)

		var got models.Product
		found, err := redisCache.Get(ctx, key, &got)

		require.NoError(t, err)
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Redis error", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		redisErr := errors.New("connection reset")
		mock.ExpectGet(key).SetErr(redisErr)

		var got models.Product
		found, err := redisCache.Get(ctx, key, &got)

		assert.False(t, found)
		assert.ErrorIs(t, err, redisErr)
	})

	t.Run("Corrupt entry", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectGet(key).SetVal(`{"id":"seven"}`)

		var got models.Product
		found, err := redisCache.Get(ctx, key, &got)

		assert.False(t, found)
		assert.ErrorContains(t, err, "failed to unmarshal cache data for key product:7")
	})
}

func TestRedisCache_Set(t *testing.T) {
	ctx := t.Context()
	key := cache.ProductKey(7)
	value := map[string]int{"stock": 3}
	data, err := json.Marshal(value)
	require.NoError(t, err)

	t.Run("Explicit TTL", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectSet(key, data, time.Minute).SetVal("OK")

		require.NoError(t, redisCache.Set(ctx, key, value, time.Minute))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Default TTL", func(t *testing.T) {
		redisCache, mock, cfg := setup(t)
		mock.ExpectSet(key, data, cfg.DefaultTTL).SetVal("OK")

		require.NoError(t, redisCache.Set(ctx, key, value, 0))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unmarshallable value", func(t *testing.T) {
		redisCache, _, _ := setup(t)

		err := redisCache.Set(ctx, key, make(chan int), time.Minute)

		var jsonErr *json.UnsupportedTypeError
		assert.ErrorAs(t, err, &jsonErr)
	})
}

func TestRedisCache_Delete(t *testing.T) {
	ctx := t.Context()

	t.Run("Several keys in one call", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		mock.ExpectDel("product:1", "product:2").SetVal(2)

		err := redisCache.Delete(ctx, cache.ProductKeys([]int64{1, 2})...)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No keys is a no-op", func(t *testing.T) {
		redisCache, mock, _ := setup(t)

		require.NoError(t, redisCache.Delete(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Redis error", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		redisErr := errors.New("DEL failed")
		mock.ExpectDel("product:1").SetErr(redisErr)

		err := redisCache.Delete(ctx, "product:1")

		assert.ErrorIs(t, err, redisErr)
	})
}

func TestNoopCache(t *testing.T) {
	c := cache.NewNoopCache()

	var got models.Product
	found, err := c.Get(t.Context(), cache.ProductKey(1), &got)

	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Set(t.Context(), "k", 1, 0))
	assert.NoError(t, c.Delete(t.Context(), "k"))
	assert.NoError(t, c.Close())
}
