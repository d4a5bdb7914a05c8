package filter

import (
	"context"
	"fmt"
	"slices"

	"github.com/decentland/tribus/arweave/syntax"
	"github.com/decentland/tribus/filter/content"
)

// Tags every content transaction must carry.
const (
	TagAppName        = "App-Name"
	TagAppVersion     = "App-Version"
	TagContentType    = "Content-Type"
	TagProtocolName   = "Protocol-Name"
	TagProtocolAction = "Protocol-Action"
	TagTribusID       = "Tribus-ID"
	TagReplyTo        = "reply_to"
	TagContractSrc    = "Contract-Src"

	AppName      = "SmartWeaveContract"
	AppVersion   = "0.3.0"
	ContentType  = "application/json"
	ProtocolName = "DecentLand"
)

// Resolves a content transaction and checks it was published by the claimed owner.
func (eng *Engine) resolve(ctx context.Context, id syntax.TxID, owner syntax.Address) (*content.Transaction, error) {
	tx, err := eng.Resolver.GetTransaction(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolving content %s: %w", id, err)
	}
	if tx.Owner != owner {
		return nil, fmt.Errorf("%w: %s owned by %s", ErrOwnerMismatch, id, tx.Owner)
	}
	return tx, nil
}

func requireTag(tx *content.Transaction, name, want string) error {
	got, ok := tx.Tag(name)
	if !ok {
		return fmt.Errorf("%w: missing %s", ErrInvalidTag, name)
	}
	if got != want {
		return fmt.Errorf("%w: %s=%q", ErrInvalidTag, name, got)
	}
	return nil
}

// Checks the protocol tags shared by posts and replies. parent is empty for posts.
func (eng *Engine) checkTags(st *State, tx *content.Transaction, action string, parent syntax.TxID) error {
	required := [][2]string{
		{TagAppName, AppName},
		{TagAppVersion, AppVersion},
		{TagContentType, ContentType},
		{TagProtocolName, ProtocolName},
		{TagProtocolAction, action},
		{TagTribusID, eng.Config.ContractID},
	}
	if parent != "" {
		required = append(required, [2]string{TagReplyTo, parent.String()})
	}
	for _, kv := range required {
		if err := requireTag(tx, kv[0], kv[1]); err != nil {
			return err
		}
	}

	src, ok := tx.Tag(TagContractSrc)
	if !ok || !slices.Contains(st.Sources, src) {
		return fmt.Errorf("%w: %q", ErrInvalidSource, src)
	}
	// replies must always be plain posts
	if parent != "" && src != st.Sources[0] {
		return fmt.Errorf("%w: %q", ErrInvalidReplyKind, src)
	}
	return nil
}
