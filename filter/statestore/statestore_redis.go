package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/decentland/tribus/filter"

	"github.com/redis/go-redis/v9"
)

var redisStatePrefix = "filter/state/"

// Stores the snapshot under a single redis key per contract, overwritten on every save.
type RedisStateStore struct {
	Client *redis.Client
	key    string
}

var _ StateStore = (*RedisStateStore)(nil)

type redisSnapshot struct {
	Height int64           `json:"height"`
	State  json.RawMessage `json:"state"`
}

func NewRedisStateStore(redisURL, contractID string) (*RedisStateStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %v", err)
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	_, err = rdb.Ping(context.TODO()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis ping failed: %v", err)
	}
	return NewRedisStateStoreFromClient(rdb, contractID), nil
}

func NewRedisStateStoreFromClient(rdb *redis.Client, contractID string) *RedisStateStore {
	return &RedisStateStore{
		Client: rdb,
		key:    redisStatePrefix + contractID,
	}
}

func (s *RedisStateStore) Load(ctx context.Context) (*Snapshot, error) {
	raw, err := s.Client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("reading state snapshot: %w", err)
	}
	var rs redisSnapshot
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, fmt.Errorf("parsing state snapshot: %w", err)
	}
	st, err := filter.ParseState(rs.State)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Height: rs.Height, State: st}, nil
}

func (s *RedisStateStore) Save(ctx context.Context, snap Snapshot) error {
	stateRaw, err := json.Marshal(snap.State)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(redisSnapshot{Height: snap.Height, State: stateRaw})
	if err != nil {
		return err
	}
	// no expiry: this is the source of truth between restarts
	return s.Client.Set(ctx, s.key, raw, 0).Err()
}
