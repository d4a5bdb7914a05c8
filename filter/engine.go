package filter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/decentland/tribus/filter/content"
)

type EngineConfig struct {
	// id of the filter contract; content must declare it in its Tribus-ID tag
	ContractID string
}

// Applies moderation actions to a [State].
//
// The engine itself holds no state between actions. Callers must serialize calls to Apply against the same State.
type Engine struct {
	Logger   *slog.Logger
	Resolver content.Resolver
	Config   EngineConfig
}

func NewEngine(logger *slog.Logger, resolver content.Resolver, config EngineConfig) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		Logger:   logger,
		Resolver: resolver,
		Config:   config,
	}
}

type handlerFunc func(eng *Engine, ctx context.Context, st *State, env Env, act Action) error

var handlers = map[string]handlerFunc{
	FuncPost:                 (*Engine).handlePost,
	FuncReply:                (*Engine).handleReply,
	FuncReportPost:           (*Engine).handleReportPost,
	FuncReportReply:          (*Engine).handleReportReply,
	FuncExecuteReport:        (*Engine).handleExecuteReport,
	FuncSuspendUser:          (*Engine).handleSuspendUser,
	FuncEditCharactersLimit:  (*Engine).handleEditCharactersLimit,
	FuncEditRateLimit:        (*Engine).handleEditRateLimit,
	FuncEditSealing:          (*Engine).handleEditSealing,
	FuncRemoveRepresentative: (*Engine).handleRemoveRepresentative,
}

// Validates and applies a single action to the state.
//
// On any error the state is left exactly as it was before the call. Rejections wrap one of the error classes (see [ErrorClass]); content resolution failures are returned wrapped as-is.
func (eng *Engine) Apply(ctx context.Context, st *State, env Env, act Action) (err error) {
	start := time.Now()
	fn := act.Input.Function
	logger := eng.Logger.With("function", fn, "caller", act.Caller, "height", env.Height)

	// similar to an HTTP server, we want to recover any panics from handler execution
	defer func() {
		if r := recover(); r != nil {
			logger.Error("filter action execution exception", "err", r)
			err = fmt.Errorf("filter action execution exception: %v", r)
		}
	}()

	h, ok := handlers[fn]
	if !ok {
		err = fmt.Errorf("%w: %q", ErrUnknownFunction, fn)
		fn = "unknown"
	} else if st.IsSealed && !st.HasUser(act.Caller) {
		err = ErrContractSealed
	} else {
		err = h(eng, ctx, st, env, act)
	}

	outcome := outcomeLabel(err)
	actionsApplied.WithLabelValues(fn, outcome).Inc()
	actionDuration.WithLabelValues(fn).Observe(time.Since(start).Seconds())
	eng.canonicalLogLine(logger, err, outcome)
	return err
}

func outcomeLabel(err error) string {
	if err == nil {
		return "accepted"
	}
	if class := ErrorClass(err); class != "" {
		return class
	}
	if errors.Is(err, content.ErrNotFound) {
		return "content-not-found"
	}
	return "error"
}

func (eng *Engine) canonicalLogLine(logger *slog.Logger, err error, outcome string) {
	if err == nil {
		logger.Info("canonical-action-line", "outcome", outcome)
		return
	}
	if ErrorClass(err) == "" {
		logger.Warn("canonical-action-line", "outcome", outcome, "err", err)
		return
	}
	logger.Info("canonical-action-line", "outcome", outcome, "reason", err.Error())
}
