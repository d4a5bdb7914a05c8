package cachestore

import (
	"context"
)

// Get returns (nil, nil) on a miss.
type CacheStore interface {
	Get(ctx context.Context, name, key string) ([]byte, error)
	Set(ctx context.Context, name, key string, val []byte) error
	Purge(ctx context.Context, name, key string) error
}

func cacheKey(name, key string) string {
	return name + "/" + key
}
