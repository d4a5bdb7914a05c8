package statestore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/decentland/tribus/filter"
)

// Keeps the latest snapshot in serialized form, in process memory.
type MemStateStore struct {
	mu     sync.Mutex
	height int64
	raw    []byte
}

var _ StateStore = (*MemStateStore)(nil)

func NewMemStateStore() *MemStateStore {
	return &MemStateStore{}
}

func (s *MemStateStore) Load(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.raw == nil {
		return nil, ErrNoSnapshot
	}
	st, err := filter.ParseState(s.raw)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Height: s.height, State: st}, nil
}

func (s *MemStateStore) Save(ctx context.Context, snap Snapshot) error {
	raw, err := json.Marshal(snap.State)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.height = snap.Height
	s.raw = raw
	return nil
}
