package content

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/decentland/tribus/arweave/gateway"
	"github.com/decentland/tribus/arweave/syntax"
	"github.com/decentland/tribus/filter/cachestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testID    = syntax.TxID("bLAgYxAdX2Ry-nt6aH2ixgvJXbpsEYm28NgJgyqfs-U")
	testOwner = syntax.Address("vLRHFqCw1uHu75xqB4fCDW-QxpkpJxBtFD9g4QYUbfw")
)

func TestMockResolver(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	r := NewMockResolver()
	r.Insert(Transaction{
		ID:    testID,
		Owner: testOwner,
		Tags:  map[string]string{"Protocol-Action": "post"},
	}, []byte(`{"content":"hi","media":[]}`))

	tx, err := r.GetTransaction(ctx, testID)
	assert.NoError(err)
	assert.Equal(testOwner, tx.Owner)
	v, ok := tx.Tag("Protocol-Action")
	assert.True(ok)
	assert.Equal("post", v)
	_, ok = tx.Tag("reply_to")
	assert.False(ok)

	// callers can't mutate the fixture through the returned value
	tx.Tags["Protocol-Action"] = "reply"
	tx2, err := r.GetTransaction(ctx, testID)
	assert.NoError(err)
	assert.Equal("post", tx2.Tags["Protocol-Action"])

	_, err = r.GetTransaction(ctx, syntax.TxID("xu4aECL6dPhYfkb4LSaZ6OqEt_N0RK-RNUf4AEgbPSs"))
	assert.ErrorIs(err, ErrNotFound)
	_, err = r.GetData(ctx, syntax.TxID("xu4aECL6dPhYfkb4LSaZ6OqEt_N0RK-RNUf4AEgbPSs"))
	assert.ErrorIs(err, ErrNotFound)
}

func TestCacheResolver(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	inner := NewMockResolver()
	inner.Insert(Transaction{
		ID:    testID,
		Owner: testOwner,
		Tags:  map[string]string{"App-Name": "SmartWeaveContract"},
	}, []byte(`{"content":"hi","media":[]}`))

	r := NewCacheResolver(&inner, cachestore.NewMemCacheStore(100, time.Hour))

	for i := 0; i < 3; i++ {
		tx, err := r.GetTransaction(ctx, testID)
		require.NoError(err)
		assert.Equal(testOwner, tx.Owner)
		assert.Equal("SmartWeaveContract", tx.Tags["App-Name"])

		d, err := r.GetData(ctx, testID)
		require.NoError(err)
		assert.Equal(`{"content":"hi","media":[]}`, string(d))
	}
	// one metadata and one body fetch; the rest served from cache
	assert.Equal(2, inner.Calls)

	assert.NoError(r.Purge(ctx, testID))
	_, err := r.GetTransaction(ctx, testID)
	require.NoError(err)
	assert.Equal(3, inner.Calls)

	// misses are not cached
	missing := syntax.TxID("xu4aECL6dPhYfkb4LSaZ6OqEt_N0RK-RNUf4AEgbPSs")
	_, err = r.GetTransaction(ctx, missing)
	assert.ErrorIs(err, ErrNotFound)
	_, err = r.GetTransaction(ctx, missing)
	assert.ErrorIs(err, ErrNotFound)
	assert.Equal(5, inner.Calls)
}

func TestGatewayResolver(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	owner := base64.RawURLEncoding.EncodeToString([]byte("some-rsa-modulus"))
	expectedOwner, err := gateway.OwnerToAddress(owner)
	require.NoError(err)

	mux := http.NewServeMux()
	mux.HandleFunc("/tx/"+testID.String(), func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(gateway.Transaction{
			Format: 2,
			ID:     testID.String(),
			Owner:  owner,
			Tags: []gateway.Tag{{
				Name:  base64.RawURLEncoding.EncodeToString([]byte("Protocol-Name")),
				Value: base64.RawURLEncoding.EncodeToString([]byte("DecentLand")),
			}},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := NewGatewayResolver(&gateway.Client{Host: srv.URL, HTTPClient: srv.Client()})
	tx, err := r.GetTransaction(ctx, testID)
	require.NoError(err)
	assert.Equal(expectedOwner, tx.Owner)
	assert.Equal("DecentLand", tx.Tags["Protocol-Name"])

	_, err = r.GetTransaction(ctx, syntax.TxID("xu4aECL6dPhYfkb4LSaZ6OqEt_N0RK-RNUf4AEgbPSs"))
	assert.ErrorIs(err, ErrNotFound)
}
