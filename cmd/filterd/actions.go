package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/decentland/tribus/arweave/syntax"
	"github.com/decentland/tribus/filter"
)

// Wire form of a single action, as posted to the daemon and as stored in replay logs (one per line).
type ActionRequest struct {
	Caller    string          `json:"caller"`
	Height    int64           `json:"height"`
	Timestamp int64           `json:"timestamp"`
	TxID      string          `json:"txid"`
	Input     json.RawMessage `json:"input"`
}

// Turns a request into the engine's action and environment. Failures wrap [filter.ErrInvalidInput] or a syntax error class.
func decodeAction(req ActionRequest) (filter.Env, filter.Action, error) {
	txid, err := syntax.ParseTxID(req.TxID)
	if err != nil {
		return filter.Env{}, filter.Action{}, fmt.Errorf("%w (txid): %w", filter.ErrInvalidAddress, err)
	}
	if req.Height <= 0 {
		return filter.Env{}, filter.Action{}, fmt.Errorf("%w: height must be positive", filter.ErrInvalidInput)
	}
	if len(req.Input) == 0 {
		return filter.Env{}, filter.Action{}, fmt.Errorf("%w: missing input", filter.ErrInvalidInput)
	}
	in, err := filter.ParseInput(req.Input)
	if err != nil {
		return filter.Env{}, filter.Action{}, err
	}
	env := filter.Env{
		Height:    req.Height,
		Timestamp: req.Timestamp,
		TxID:      txid,
	}
	// caller syntax is checked by the handlers that need it
	act := filter.Action{
		Caller: syntax.Address(req.Caller),
		Input:  *in,
	}
	return env, act, nil
}

type replayResult struct {
	Applied  int
	Rejected int
	Height   int64
}

// Applies every action of a JSON-lines log, in order. Rejected actions are skipped (they were rejected live as well), unless strict is set.
func replayActions(ctx context.Context, engine *filter.Engine, st *filter.State, r io.Reader, strict bool) (*replayResult, error) {
	res := &replayResult{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var req ActionRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		env, act, err := decodeAction(req)
		if err == nil {
			if env.Height < res.Height {
				return nil, fmt.Errorf("line %d: height %d is lower than previous action (%d)", line, env.Height, res.Height)
			}
			err = engine.Apply(ctx, st, env, act)
		}
		if err != nil {
			// resolver failures are not part of the moderation history; stop rather than diverge
			if strict || filter.ErrorClass(err) == "" {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			slog.Debug("skipping rejected action", "line", line, "err", err)
			res.Rejected++
			continue
		}
		res.Applied++
		res.Height = env.Height
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
