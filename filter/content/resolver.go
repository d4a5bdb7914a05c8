// Package content resolves content transactions (posts and replies) to their owner, declared tags, and body.
//
// The filter engine depends only on the [Resolver] interface. Implementations include a gateway-backed resolver, a caching wrapper, and an in-memory mock for tests.
package content

import (
	"context"
	"errors"

	"github.com/decentland/tribus/arweave/syntax"
)

// Metadata for a single content transaction. Immutable once resolved.
type Transaction struct {
	ID    syntax.TxID       `json:"id"`
	Owner syntax.Address    `json:"owner"`
	Tags  map[string]string `json:"tags"`
}

// Returns the tag value and whether the tag was declared at all.
func (tx *Transaction) Tag(name string) (string, bool) {
	v, ok := tx.Tags[name]
	return v, ok
}

// Read-only, idempotent lookup of content transactions.
//
// Some example implementations of this interface could be:
//   - direct requests to an Arweave gateway on every call
//   - in-process or redis cache in front of another resolver
//   - fixed fixtures, for tests
type Resolver interface {
	GetTransaction(ctx context.Context, id syntax.TxID) (*Transaction, error)
	// Raw transaction body, fetched on demand (only after metadata checks pass)
	GetData(ctx context.Context, id syntax.TxID) ([]byte, error)
}

// Indicates that resolution completed, but the transaction does not exist.
var ErrNotFound = errors.New("content transaction not found")
