package countstore

import (
	"context"
	"sync"
	"time"
)

type MemCountStore struct {
	// defaults to time.Now; tests pin it
	Now func() time.Time

	mu             *sync.RWMutex
	counts         map[string]int
	distinctCounts map[string]map[string]bool
}

var _ CountStore = (*MemCountStore)(nil)

func NewMemCountStore() *MemCountStore {
	return &MemCountStore{
		Now:            time.Now,
		mu:             &sync.RWMutex{},
		counts:         make(map[string]int),
		distinctCounts: make(map[string]map[string]bool),
	}
}

func (s *MemCountStore) GetCount(ctx context.Context, name, val, period string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[periodBucket(s.Now(), name, val, period)], nil
}

func (s *MemCountStore) Increment(ctx context.Context, name, val string) error {
	now := s.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range AllPeriods {
		s.counts[periodBucket(now, name, val, p)]++
	}
	return nil
}

func (s *MemCountStore) GetCountDistinct(ctx context.Context, name, bucket, period string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.distinctCounts[periodBucket(s.Now(), name, bucket, period)]), nil
}

func (s *MemCountStore) IncrementDistinct(ctx context.Context, name, bucket, val string) error {
	now := s.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range AllPeriods {
		k := periodBucket(now, name, bucket, p)
		m, ok := s.distinctCounts[k]
		if !ok {
			m = make(map[string]bool)
			s.distinctCounts[k] = m
		}
		m[val] = true
	}
	return nil
}
