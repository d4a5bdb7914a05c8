package gateway

import (
	"context"
	stdsha256 "crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/decentland/tribus/arweave/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testTxID  = syntax.TxID("bLAgYxAdX2Ry-nt6aH2ixgvJXbpsEYm28NgJgyqfs-U")
	testOwner = base64.RawURLEncoding.EncodeToString([]byte(strings.Repeat("modulus-", 64)))
)

func b64(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func testGateway(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/tx/"+testTxID.String(), func(w http.ResponseWriter, r *http.Request) {
		tx := Transaction{
			Format: 2,
			ID:     testTxID.String(),
			Owner:  testOwner,
			Tags: []Tag{
				{Name: b64("App-Name"), Value: b64("SmartWeaveContract")},
				{Name: b64("Protocol-Action"), Value: b64("draft")},
				{Name: b64("Protocol-Action"), Value: b64("post")},
			},
			DataSize: "38",
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tx)
	})
	mux.HandleFunc("/"+testTxID.String(), func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":"hello world","media":[]}`))
	})
	return httptest.NewServer(mux)
}

func TestGetTransaction(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	srv := testGateway(t)
	defer srv.Close()
	c := &Client{Host: srv.URL, HTTPClient: srv.Client()}

	tx, err := c.GetTransaction(ctx, testTxID)
	require.NoError(err)
	assert.Equal(testTxID.String(), tx.ID)

	tags, err := tx.DecodedTags()
	require.NoError(err)
	assert.Equal("SmartWeaveContract", tags["App-Name"])
	// repeated tag names: last value wins
	assert.Equal("post", tags["Protocol-Action"])

	data, err := c.GetData(ctx, testTxID)
	require.NoError(err)
	assert.Equal(`{"content":"hello world","media":[]}`, string(data))
}

func TestGetTransactionNotFound(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	srv := testGateway(t)
	defer srv.Close()
	c := &Client{Host: srv.URL, HTTPClient: srv.Client()}

	missing := syntax.TxID("vLRHFqCw1uHu75xqB4fCDW-QxpkpJxBtFD9g4QYUbfw")
	_, err := c.GetTransaction(ctx, missing)
	assert.ErrorIs(err, ErrTxNotFound)
}

func TestGetDataTooLarge(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	srv := testGateway(t)
	defer srv.Close()
	c := &Client{Host: srv.URL, HTTPClient: srv.Client(), MaxDataBytes: 8}

	_, err := c.GetData(ctx, testTxID)
	assert.Error(err)
}

func TestOwnerToAddress(t *testing.T) {
	assert := assert.New(t)

	raw, err := base64.RawURLEncoding.DecodeString(testOwner)
	assert.NoError(err)
	sum := stdsha256.Sum256(raw)
	expected := base64.RawURLEncoding.EncodeToString(sum[:])

	addr, err := OwnerToAddress(testOwner)
	assert.NoError(err)
	assert.Equal(expected, addr.String())
	assert.Equal(syntax.AddressLength, len(addr.String()))

	_, err = OwnerToAddress("")
	assert.Error(err)
	_, err = OwnerToAddress("not base64!")
	assert.Error(err)
}
