package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/decentland/tribus/arweave/gateway"
	"github.com/decentland/tribus/arweave/syntax"
)

// Resolves content directly against an Arweave gateway, on every call.
type GatewayResolver struct {
	Client *gateway.Client
}

var _ Resolver = (*GatewayResolver)(nil)

func NewGatewayResolver(c *gateway.Client) *GatewayResolver {
	return &GatewayResolver{Client: c}
}

func (r *GatewayResolver) GetTransaction(ctx context.Context, id syntax.TxID) (*Transaction, error) {
	start := time.Now()
	raw, err := r.Client.GetTransaction(ctx, id)
	if err != nil {
		txResolution.WithLabelValues("gateway", "error").Inc()
		if errors.Is(err, gateway.ErrTxNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	owner, err := raw.OwnerAddress()
	if err != nil {
		txResolution.WithLabelValues("gateway", "error").Inc()
		return nil, fmt.Errorf("resolving owner of %s: %w", id, err)
	}
	tags, err := raw.DecodedTags()
	if err != nil {
		txResolution.WithLabelValues("gateway", "error").Inc()
		return nil, fmt.Errorf("decoding tags of %s: %w", id, err)
	}
	txResolution.WithLabelValues("gateway", "success").Inc()
	txResolutionDuration.WithLabelValues("gateway").Observe(time.Since(start).Seconds())
	return &Transaction{
		ID:    id,
		Owner: owner,
		Tags:  tags,
	}, nil
}

func (r *GatewayResolver) GetData(ctx context.Context, id syntax.TxID) ([]byte, error) {
	d, err := r.Client.GetData(ctx, id)
	if errors.Is(err, gateway.ErrTxNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return d, err
}
