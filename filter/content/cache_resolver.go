package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/decentland/tribus/arweave/syntax"
	"github.com/decentland/tribus/filter/cachestore"
)

// Caching wrapper around another [Resolver].
//
// Only successful lookups are cached: a transaction that is not found (yet) may show up once it propagates to the gateway.
type CacheResolver struct {
	Inner  Resolver
	Cache  cachestore.CacheStore
	Logger *slog.Logger

	txLookupChans sync.Map
}

var _ Resolver = (*CacheResolver)(nil)

func NewCacheResolver(inner Resolver, cache cachestore.CacheStore) *CacheResolver {
	return &CacheResolver{
		Inner:  inner,
		Cache:  cache,
		Logger: slog.Default().With("component", "content-cache"),
	}
}

func (r *CacheResolver) GetTransaction(ctx context.Context, id syntax.TxID) (*Transaction, error) {
	if tx := r.cachedTransaction(ctx, id); tx != nil {
		txCacheHits.Inc()
		return tx, nil
	}
	txCacheMisses.Inc()

	// coalesce concurrent requests for the same transaction
	res := make(chan struct{})
	val, loaded := r.txLookupChans.LoadOrStore(id.String(), res)
	if loaded {
		txRequestsCoalesced.Inc()
		select {
		case <-val.(chan struct{}):
			if tx := r.cachedTransaction(ctx, id); tx != nil {
				return tx, nil
			}
			// the leading request failed; fall through and try ourselves
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	} else {
		defer func() {
			r.txLookupChans.Delete(id.String())
			close(res)
		}()
	}

	tx, err := r.Inner.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("serializing transaction for cache: %w", err)
	}
	if err := r.Cache.Set(ctx, "tx", id.String(), raw); err != nil {
		r.Logger.Warn("failed to cache content transaction", "txid", id, "err", err)
	}
	return tx, nil
}

func (r *CacheResolver) cachedTransaction(ctx context.Context, id syntax.TxID) *Transaction {
	raw, err := r.Cache.Get(ctx, "tx", id.String())
	if err != nil {
		r.Logger.Warn("content cache read failed", "txid", id, "err", err)
		return nil
	}
	if raw == nil {
		return nil
	}
	var tx Transaction
	if err := json.Unmarshal(raw, &tx); err != nil {
		r.Logger.Warn("dropping unparsable cached transaction", "txid", id, "err", err)
		_ = r.Cache.Purge(ctx, "tx", id.String())
		return nil
	}
	return &tx
}

func (r *CacheResolver) GetData(ctx context.Context, id syntax.TxID) ([]byte, error) {
	raw, err := r.Cache.Get(ctx, "data", id.String())
	if err != nil {
		r.Logger.Warn("content cache read failed", "txid", id, "err", err)
	} else if raw != nil {
		dataCacheHits.Inc()
		return raw, nil
	}
	dataCacheMisses.Inc()

	d, err := r.Inner.GetData(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.Cache.Set(ctx, "data", id.String(), d); err != nil {
		r.Logger.Warn("failed to cache content data", "txid", id, "err", err)
	}
	return d, nil
}

// Flushes any cached metadata and body for the transaction.
func (r *CacheResolver) Purge(ctx context.Context, id syntax.TxID) error {
	if err := r.Cache.Purge(ctx, "tx", id.String()); err != nil {
		return err
	}
	return r.Cache.Purge(ctx, "data", id.String())
}
