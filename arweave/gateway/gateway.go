// Package gateway is a minimal client for the read-only HTTP API of an Arweave gateway.
//
// Only the two calls needed to inspect a content transaction are implemented: transaction metadata (owner and tags), and raw transaction data.
package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/decentland/tribus/arweave/syntax"
	"github.com/decentland/tribus/util"

	"github.com/minio/sha256-simd"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

var DefaultHost = "https://arweave.net"

// Upper bound on the size of transaction data fetched from a gateway. Feed content bodies are small JSON documents.
var DefaultMaxDataBytes int64 = 1024 * 1024

// Indicates that the gateway does not know the transaction.
var ErrTxNotFound = errors.New("transaction not found")

// Indicates that the transaction is known but not yet mined.
var ErrTxPending = errors.New("transaction pending")

// The zero value is not usable; Host must be set. See [NewClient].
type Client struct {
	// method, hostname, and optional port; no path or trailing slash
	Host string
	// If nil, requests use [util.RobustHTTPClient]
	HTTPClient *http.Client
	// If not nil, every request waits on this limiter
	Limiter      *rate.Limiter
	MaxDataBytes int64
}

func NewClient(host string, requestsPerSecond int) *Client {
	if host == "" {
		host = DefaultHost
	}
	hc := util.RobustHTTPClient()
	hc.Transport = otelhttp.NewTransport(hc.Transport)
	c := &Client{
		Host:         host,
		HTTPClient:   hc,
		MaxDataBytes: DefaultMaxDataBytes,
	}
	if requestsPerSecond > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return c
}

// Transaction metadata as served by `GET /tx/{id}`. Owner and tag fields are base64url encoded on the wire.
type Transaction struct {
	Format   int    `json:"format"`
	ID       string `json:"id"`
	Owner    string `json:"owner"`
	Tags     []Tag  `json:"tags"`
	DataSize string `json:"data_size"`
}

type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Decodes tag names and values. When a name repeats, the last value wins.
func (tx *Transaction) DecodedTags() (map[string]string, error) {
	out := make(map[string]string, len(tx.Tags))
	for _, t := range tx.Tags {
		k, err := base64.RawURLEncoding.DecodeString(t.Name)
		if err != nil {
			return nil, fmt.Errorf("decoding tag name: %w", err)
		}
		v, err := base64.RawURLEncoding.DecodeString(t.Value)
		if err != nil {
			return nil, fmt.Errorf("decoding tag value: %w", err)
		}
		out[string(k)] = string(v)
	}
	return out, nil
}

func (tx *Transaction) OwnerAddress() (syntax.Address, error) {
	return OwnerToAddress(tx.Owner)
}

// Derives a wallet address from a base64url encoded owner public key (RSA modulus): base64url(sha256(modulus)).
func OwnerToAddress(owner string) (syntax.Address, error) {
	if owner == "" {
		return "", fmt.Errorf("empty transaction owner")
	}
	raw, err := base64.RawURLEncoding.DecodeString(owner)
	if err != nil {
		return "", fmt.Errorf("decoding transaction owner: %w", err)
	}
	sum := sha256.Sum256(raw)
	return syntax.ParseAddress(base64.RawURLEncoding.EncodeToString(sum[:]))
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return util.RobustHTTPClient()
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Host+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.httpClient().Do(req)
}

func (c *Client) GetTransaction(ctx context.Context, id syntax.TxID) (*Transaction, error) {
	start := time.Now()
	resp, err := c.get(ctx, "/tx/"+id.String())
	if err != nil {
		gatewayRequests.WithLabelValues("tx", "error").Inc()
		return nil, fmt.Errorf("fetching transaction %s: %w", id, err)
	}
	defer resp.Body.Close()
	gatewayRequestDuration.WithLabelValues("tx").Observe(time.Since(start).Seconds())
	gatewayRequests.WithLabelValues("tx", fmt.Sprint(resp.StatusCode)).Inc()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusAccepted:
		return nil, fmt.Errorf("%w: %s", ErrTxPending, id)
	case http.StatusNotFound, http.StatusGone:
		return nil, fmt.Errorf("%w: %s", ErrTxNotFound, id)
	default:
		return nil, fmt.Errorf("gateway transaction fetch failed, HTTP status: %d", resp.StatusCode)
	}

	var tx Transaction
	if err := json.NewDecoder(resp.Body).Decode(&tx); err != nil {
		return nil, fmt.Errorf("failed parse of transaction JSON: %w", err)
	}
	if tx.ID != id.String() {
		return nil, fmt.Errorf("gateway returned transaction %q for %q", tx.ID, id)
	}
	return &tx, nil
}

func (c *Client) GetData(ctx context.Context, id syntax.TxID) ([]byte, error) {
	start := time.Now()
	resp, err := c.get(ctx, "/"+id.String())
	if err != nil {
		gatewayRequests.WithLabelValues("data", "error").Inc()
		return nil, fmt.Errorf("fetching transaction data %s: %w", id, err)
	}
	defer resp.Body.Close()
	gatewayRequestDuration.WithLabelValues("data").Observe(time.Since(start).Seconds())
	gatewayRequests.WithLabelValues("data", fmt.Sprint(resp.StatusCode)).Inc()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusAccepted:
		return nil, fmt.Errorf("%w: %s", ErrTxPending, id)
	case http.StatusNotFound, http.StatusGone:
		return nil, fmt.Errorf("%w: %s", ErrTxNotFound, id)
	default:
		return nil, fmt.Errorf("gateway data fetch failed, HTTP status: %d", resp.StatusCode)
	}

	limit := c.MaxDataBytes
	if limit <= 0 {
		limit = DefaultMaxDataBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading transaction data: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("transaction data exceeds %d bytes", limit)
	}
	return body, nil
}
