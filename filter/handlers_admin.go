package filter

import (
	"context"
	"fmt"

	"github.com/decentland/tribus/arweave/syntax"
)

func (eng *Engine) handleEditCharactersLimit(ctx context.Context, st *State, env Env, act Action) error {
	if err := st.requireSuperRepresentative(act.Caller); err != nil {
		return err
	}
	limit, err := syntax.ValidateIntegerBounds(act.Input.NewCharLimit, MinPostCharLimit, MaxPostCharLimit, ErrInvalidLimit)
	if err != nil {
		return syntaxErr("new_char_limit", err)
	}
	st.PostCharLimit = limit
	return nil
}

func (eng *Engine) handleEditRateLimit(ctx context.Context, st *State, env Env, act Action) error {
	if err := st.requireSuperRepresentative(act.Caller); err != nil {
		return err
	}
	limit, err := syntax.ValidateIntegerBounds(act.Input.NewRateLimit, MinRateLimit, MaxRateLimit, ErrInvalidLimit)
	if err != nil {
		return syntaxErr("new_rate_limit", err)
	}
	st.RateLimit = limit
	return nil
}

func (eng *Engine) handleEditSealing(ctx context.Context, st *State, env Env, act Action) error {
	if err := st.requireSuperRepresentative(act.Caller); err != nil {
		return err
	}
	sealing, ok := act.Input.Sealing.(bool)
	if !ok {
		return fmt.Errorf("%w: sealing must be a boolean", ErrInvalidInput)
	}
	st.IsSealed = sealing
	return nil
}

func (eng *Engine) handleRemoveRepresentative(ctx context.Context, st *State, env Env, act Action) error {
	if err := st.requireSuperRepresentative(act.Caller); err != nil {
		return err
	}
	addr, err := syntax.ParseAddress(act.Input.Address)
	if err != nil {
		return syntaxErr("address", err)
	}
	return st.removeRepresentative(addr)
}
