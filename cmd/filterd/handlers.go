package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/decentland/tribus/arweave/syntax"
	"github.com/decentland/tribus/filter"
	"github.com/decentland/tribus/filter/countstore"
	"github.com/decentland/tribus/filter/statestore"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
)

type GenericError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type GenericStatus struct {
	Daemon  string `json:"daemon"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Maps an action failure to an HTTP status and error name.
func errorResponse(err error) (int, GenericError) {
	msg := err.Error()
	switch filter.ErrorClass(err) {
	case "authorization":
		return http.StatusForbidden, GenericError{Error: "Unauthorized", Message: msg}
	case "validation":
		return http.StatusBadRequest, GenericError{Error: "InvalidAction", Message: msg}
	case "configuration":
		return http.StatusBadRequest, GenericError{Error: "InvalidLimit", Message: msg}
	case "conflict":
		return http.StatusConflict, GenericError{Error: "Conflict", Message: msg}
	case "policy":
		return http.StatusTooManyRequests, GenericError{Error: "PolicyViolation", Message: msg}
	default:
		return http.StatusBadGateway, GenericError{Error: "ContentResolutionFailed", Message: msg}
	}
}

func (srv *Server) HandleAction(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "HandleAction")
	defer span.End()

	var req ActionRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		actionRequests.WithLabelValues("400").Inc()
		return c.JSON(http.StatusBadRequest, GenericError{
			Error:   "BadRequest",
			Message: fmt.Sprintf("invalid action request body: %s", err),
		})
	}
	env, act, err := decodeAction(req)
	if err != nil {
		code, body := errorResponse(err)
		actionRequests.WithLabelValues(fmt.Sprint(code)).Inc()
		return c.JSON(code, body)
	}
	span.SetAttributes(
		attribute.String("function", act.Input.Function),
		attribute.String("caller", req.Caller),
		attribute.Int64("height", env.Height),
	)

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if env.Height < srv.height {
		actionRequests.WithLabelValues("400").Inc()
		return c.JSON(http.StatusBadRequest, GenericError{
			Error:   "StaleHeight",
			Message: fmt.Sprintf("height %d is lower than the last applied action (%d)", env.Height, srv.height),
		})
	}

	if err := srv.engine.Apply(ctx, srv.state, env, act); err != nil {
		span.RecordError(err)
		srv.count(c, "rejected", req.Caller)
		code, body := errorResponse(err)
		actionRequests.WithLabelValues(fmt.Sprint(code)).Inc()
		return c.JSON(code, body)
	}

	if err := srv.states.Save(ctx, statestore.Snapshot{Height: env.Height, State: srv.state}); err != nil {
		snapshotSaves.WithLabelValues("error").Inc()
		srv.logger.Error("failed to persist state snapshot, rolling back", "err", err, "height", env.Height)
		if rerr := srv.loadState(ctx, srv.genesisPath); rerr != nil {
			// nothing consistent to fall back on
			panic(fmt.Errorf("state rollback failed: %w", rerr))
		}
		actionRequests.WithLabelValues("500").Inc()
		return c.JSON(http.StatusInternalServerError, GenericError{
			Error:   "InternalError",
			Message: "failed to persist state",
		})
	}
	snapshotSaves.WithLabelValues("ok").Inc()
	srv.height = env.Height
	lastHeight.Set(float64(env.Height))
	srv.count(c, "accepted", req.Caller)

	actionRequests.WithLabelValues("200").Inc()
	return c.JSON(http.StatusOK, srv.state)
}

// Best-effort operator statistics.
func (srv *Server) count(c echo.Context, outcome, caller string) {
	ctx := c.Request().Context()
	if err := srv.counts.Increment(ctx, "caller-"+outcome, caller); err != nil {
		srv.logger.Warn("failed to increment action counter", "err", err)
	}
	if err := srv.counts.IncrementDistinct(ctx, "callers", outcome, caller); err != nil {
		srv.logger.Warn("failed to increment distinct caller counter", "err", err)
	}
}

func (srv *Server) HandleState(c echo.Context) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	c.Response().Header().Set("X-Filter-Height", fmt.Sprint(srv.height))
	return c.JSON(http.StatusOK, srv.state)
}

func (srv *Server) HandleContent(c echo.Context) error {
	pid, err := syntax.ParseTxID(c.Param("pid"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, GenericError{
			Error:   "InvalidContentID",
			Message: err.Error(),
		})
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if idx := srv.state.FindPost(pid); idx >= 0 {
		return c.JSON(http.StatusOK, srv.state.Feed[idx])
	}
	if i, j := srv.state.FindReply(pid); i >= 0 {
		return c.JSON(http.StatusOK, srv.state.Feed[i].Replies[j])
	}
	return c.JSON(http.StatusNotFound, GenericError{
		Error:   "ContentNotFound",
		Message: fmt.Sprintf("no post or reply with id %s", pid),
	})
}

func (srv *Server) HandleUser(c echo.Context) error {
	addr, err := syntax.ParseAddress(c.Param("address"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, GenericError{
			Error:   "InvalidAddress",
			Message: err.Error(),
		})
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	user, ok := srv.state.Users[addr]
	if !ok {
		return c.JSON(http.StatusNotFound, GenericError{
			Error:   "UserNotFound",
			Message: fmt.Sprintf("%s has not interacted with the filter", addr),
		})
	}
	return c.JSON(http.StatusOK, user)
}

func (srv *Server) HandleReport(c echo.Context) error {
	id, err := syntax.ParseTxID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, GenericError{
			Error:   "InvalidReportID",
			Message: err.Error(),
		})
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	for _, r := range srv.state.Reports {
		if r.ReportID == id {
			return c.JSON(http.StatusOK, r)
		}
	}
	return c.JSON(http.StatusNotFound, GenericError{
		Error:   "ReportNotFound",
		Message: fmt.Sprintf("no report with id %s", id),
	})
}

type CallerStats struct {
	Caller   string         `json:"caller"`
	Accepted map[string]int `json:"accepted"`
	Rejected map[string]int `json:"rejected"`
	// distinct callers with accepted actions, across all callers
	DistinctCallers map[string]int `json:"distinct_callers"`
}

func (srv *Server) HandleStats(c echo.Context) error {
	ctx := c.Request().Context()
	caller := c.Param("caller")
	stats := CallerStats{
		Caller:          caller,
		Accepted:        make(map[string]int),
		Rejected:        make(map[string]int),
		DistinctCallers: make(map[string]int),
	}
	for _, period := range countstore.AllPeriods {
		var err error
		if stats.Accepted[period], err = srv.counts.GetCount(ctx, "caller-accepted", caller, period); err != nil {
			return err
		}
		if stats.Rejected[period], err = srv.counts.GetCount(ctx, "caller-rejected", caller, period); err != nil {
			return err
		}
		if stats.DistinctCallers[period], err = srv.counts.GetCountDistinct(ctx, "callers", "accepted", period); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, stats)
}

func (srv *Server) errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	var errorMessage string
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		errorMessage = fmt.Sprintf("%s", he.Message)
	}
	if code >= 500 {
		srv.logger.Warn("filterd-http-internal-error", "err", err)
		errorMessage = "internal error"
	}
	if err := c.JSON(code, GenericStatus{Status: "error", Daemon: "filterd", Message: errorMessage}); err != nil {
		srv.logger.Warn("failed to write error response", "err", err)
	}
}

func (srv *Server) HandleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, GenericStatus{Status: "ok", Daemon: "filterd"})
}
