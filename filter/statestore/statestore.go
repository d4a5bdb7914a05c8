// Package statestore persists snapshots of the filter state, along with the block height of the last applied action.
package statestore

import (
	"context"
	"errors"

	"github.com/decentland/tribus/filter"
)

// Returned by [StateStore.Load] when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no state snapshot saved")

type Snapshot struct {
	// height of the last action applied to State
	Height int64
	State  *filter.State
}

// Durable storage of the latest state snapshot. Implementations must return a deep copy from Load, so callers can mutate it freely.
type StateStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}
