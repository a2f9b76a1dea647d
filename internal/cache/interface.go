package cache

import (
	"context"
	"strconv"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

const ProductKeyPrefix = "product"

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

func ProductKey(id int64) string {
	return Key(ProductKeyPrefix, strconv.FormatInt(id, 10))
}

// ProductKeys maps product ids to their cache keys.
func ProductKeys(ids []int64) []string {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, ProductKey(id))
	}

	return keys
}

type noopCache struct{}

// NewNoopCache never stores anything. Used when Redis is not configured.
func NewNoopCache() Cache {
	return noopCache{}
}

func (noopCache) Get(context.Context, string, any) (bool, error)         { return false, nil }
func (noopCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (noopCache) Delete(context.Context, ...string) error               { return nil }
func (noopCache) Close() error                                          { return nil }
