package content

import (
	"context"
	"fmt"
	"sync"

	"github.com/decentland/tribus/arweave/syntax"
)

// A fake content resolver, for use in tests
type MockResolver struct {
	mu           *sync.RWMutex
	Transactions map[syntax.TxID]Transaction
	Data         map[syntax.TxID][]byte
	// number of GetTransaction and GetData calls, for asserting on caching
	Calls int
}

var _ Resolver = (*MockResolver)(nil)

func NewMockResolver() MockResolver {
	return MockResolver{
		mu:           &sync.RWMutex{},
		Transactions: make(map[syntax.TxID]Transaction),
		Data:         make(map[syntax.TxID][]byte),
	}
}

func (r *MockResolver) Insert(tx Transaction, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Transactions[tx.ID] = tx
	if data != nil {
		r.Data[tx.ID] = data
	}
}

func (r *MockResolver) GetTransaction(ctx context.Context, id syntax.TxID) (*Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls++
	tx, ok := r.Transactions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	tags := make(map[string]string, len(tx.Tags))
	for k, v := range tx.Tags {
		tags[k] = v
	}
	tx.Tags = tags
	return &tx, nil
}

func (r *MockResolver) GetData(ctx context.Context, id syntax.TxID) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls++
	d, ok := r.Data[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return append([]byte(nil), d...), nil
}
