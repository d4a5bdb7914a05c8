package cachestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testCacheStore(t *testing.T, cs CacheStore) {
	assert := assert.New(t)
	ctx := context.Background()

	v, err := cs.Get(ctx, "tx", "abc")
	assert.NoError(err)
	assert.Nil(v)

	assert.NoError(cs.Set(ctx, "tx", "abc", []byte("one")))
	assert.NoError(cs.Set(ctx, "data", "abc", []byte("two")))

	v, err = cs.Get(ctx, "tx", "abc")
	assert.NoError(err)
	assert.Equal([]byte("one"), v)
	v, err = cs.Get(ctx, "data", "abc")
	assert.NoError(err)
	assert.Equal([]byte("two"), v)

	assert.NoError(cs.Purge(ctx, "tx", "abc"))
	v, err = cs.Get(ctx, "tx", "abc")
	assert.NoError(err)
	assert.Nil(v)

	// purging a missing key is not an error
	assert.NoError(cs.Purge(ctx, "tx", "missing"))
}

func TestMemCacheStore(t *testing.T) {
	testCacheStore(t, NewMemCacheStore(10, time.Hour))
}

func TestMemCacheStoreExpiry(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	cs := NewMemCacheStore(10, 10*time.Millisecond)
	assert.NoError(cs.Set(ctx, "tx", "abc", []byte("one")))
	time.Sleep(50 * time.Millisecond)
	v, err := cs.Get(ctx, "tx", "abc")
	assert.NoError(err)
	assert.Nil(v)
}

func TestRedisCacheStore(t *testing.T) {
	t.Skip("live test, need redis running locally")

	cs, err := NewRedisCacheStore("redis://localhost:6379/0", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	testCacheStore(t, cs)
}
