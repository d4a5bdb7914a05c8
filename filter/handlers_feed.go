package filter

import (
	"context"
	"fmt"

	"github.com/decentland/tribus/arweave/syntax"
)

func (eng *Engine) handlePost(ctx context.Context, st *State, env Env, act Action) error {
	caller, err := syntax.ParseAddress(act.Caller.String())
	if err != nil {
		return syntaxErr("caller", err)
	}
	pid, err := syntax.ParseTxID(act.Input.TxID)
	if err != nil {
		return syntaxErr("txid", err)
	}
	if st.Contains(pid) {
		return fmt.Errorf("%w: %s", ErrDuplicateContentID, pid)
	}

	if err := eng.checkContent(ctx, st, pid, caller, FuncPost, ""); err != nil {
		return err
	}

	user, exists := st.getOrCreateUser(caller)
	if err := st.checkCanPublish(user, exists, env.Height); err != nil {
		return err
	}

	post := Post{
		PID:       pid,
		Type:      PostTypePost,
		Owner:     caller,
		Timestamp: env.Timestamp,
		Replies:   []Reply{},
	}
	if err := st.AppendPost(post); err != nil {
		return err
	}
	user.LastInteraction = env.Height
	st.putUser(caller, user)
	return nil
}

func (eng *Engine) handleReply(ctx context.Context, st *State, env Env, act Action) error {
	caller, err := syntax.ParseAddress(act.Caller.String())
	if err != nil {
		return syntaxErr("caller", err)
	}
	pid, err := syntax.ParseTxID(act.Input.TxID)
	if err != nil {
		return syntaxErr("txid", err)
	}
	if st.Contains(pid) {
		return fmt.Errorf("%w: %s", ErrDuplicateContentID, pid)
	}
	// an unparseable parent id can not be in the feed either
	parent := syntax.TxID(act.Input.PostID)
	if st.FindPost(parent) < 0 {
		return fmt.Errorf("%w: %q", ErrParentNotFound, act.Input.PostID)
	}

	if err := eng.checkContent(ctx, st, pid, caller, FuncReply, parent); err != nil {
		return err
	}

	user, exists := st.getOrCreateUser(caller)
	if err := st.checkCanPublish(user, exists, env.Height); err != nil {
		return err
	}

	reply := Reply{
		PID:       pid,
		ChildOf:   parent,
		Owner:     caller,
		Timestamp: env.Timestamp,
	}
	if err := st.AppendReply(reply); err != nil {
		return err
	}
	user.LastInteraction = env.Height
	st.putUser(caller, user)
	return nil
}

// Resolves the content transaction and runs the ownership, tag and body checks.
func (eng *Engine) checkContent(ctx context.Context, st *State, pid syntax.TxID, caller syntax.Address, action string, parent syntax.TxID) error {
	tx, err := eng.resolve(ctx, pid, caller)
	if err != nil {
		return err
	}
	if err := eng.checkTags(st, tx, action, parent); err != nil {
		return err
	}
	body, err := eng.Resolver.GetData(ctx, pid)
	if err != nil {
		return fmt.Errorf("fetching content body %s: %w", pid, err)
	}
	return validateBody(body, st.PostCharLimit)
}
