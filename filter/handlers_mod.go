package filter

import (
	"context"
	"fmt"
	"slices"

	"github.com/decentland/tribus/arweave/syntax"
)

func (eng *Engine) handleReportPost(ctx context.Context, st *State, env Env, act Action) error {
	return eng.raiseReport(st, env, act, ReportKindPost)
}

func (eng *Engine) handleReportReply(ctx context.Context, st *State, env Env, act Action) error {
	return eng.raiseReport(st, env, act, ReportKindReply)
}

func (eng *Engine) raiseReport(st *State, env Env, act Action, kind ReportKind) error {
	if err := st.requireRepresentative(act.Caller); err != nil {
		return err
	}
	pid, err := syntax.ParseTxID(act.Input.PID)
	if err != nil {
		return syntaxErr("pid", err)
	}
	switch kind {
	case ReportKindPost:
		if st.FindPost(pid) < 0 {
			return fmt.Errorf("%w: %s", ErrContentNotFound, pid)
		}
	case ReportKindReply:
		if i, _ := st.FindReply(pid); i < 0 {
			return fmt.Errorf("%w: %s", ErrContentNotFound, pid)
		}
	}
	if err := syntax.ValidateStringBounds(act.Input.Message, 0, MaxReportMessageLength); err != nil {
		return syntaxErr("message", err)
	}

	reportID, err := st.RaiseOrJoin(env.TxID, pid, kind, act.Input.Message, act.Caller)
	if err != nil {
		return err
	}
	eng.Logger.Debug("report filed", "report_id", reportID, "pid", pid, "kind", kind)
	return nil
}

func (eng *Engine) handleExecuteReport(ctx context.Context, st *State, env Env, act Action) error {
	if err := st.requireSuperRepresentative(act.Caller); err != nil {
		return err
	}
	reportID := syntax.TxID(act.Input.ReportID)
	report, err := st.OpenReport(reportID)
	if err != nil {
		return err
	}

	// locate the content and its owner before touching anything
	var owner syntax.Address
	switch report.Type {
	case ReportKindPost:
		idx := st.FindPost(report.PID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrContentNotFound, report.PID)
		}
		owner = st.Feed[idx].Owner
	case ReportKindReply:
		i, j := st.FindReply(report.PID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrContentNotFound, report.PID)
		}
		owner = st.Feed[i].Replies[j].Owner
	default:
		return fmt.Errorf("%w: report %s has unknown type %q", ErrInvalidInput, reportID, report.Type)
	}
	user, _ := st.getOrCreateUser(owner)
	kind := report.Type
	target := report.PID

	var removed Post
	if kind == ReportKindPost {
		removed, err = st.RemovePost(target)
	} else {
		_, err = st.RemoveReply(target)
	}
	if err != nil {
		return err
	}
	if err := st.markExecuted(reportID); err != nil {
		return err
	}
	if n := st.dismissReplyReports(removed.Replies); n > 0 {
		eng.Logger.Info("dismissed reports on removed replies", "report", reportID, "count", n)
	}
	user.ReportsCount++
	st.putUser(owner, user)

	reportsExecuted.WithLabelValues(string(kind)).Inc()
	return nil
}

func (eng *Engine) handleSuspendUser(ctx context.Context, st *State, env Env, act Action) error {
	addr, err := syntax.ParseAddress(act.Input.UserAddress)
	if err != nil {
		return syntaxErr("user_address", err)
	}
	if err := st.requireSuperRepresentative(act.Caller); err != nil {
		return err
	}
	user, ok := st.Users[addr]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUserNotFound, addr)
	}
	if user.Status != StatusOK {
		return fmt.Errorf("%w: %s", ErrAlreadySuspended, addr)
	}
	if user.ReportsCount == 0 {
		return fmt.Errorf("%w: %s", ErrNeverReported, addr)
	}
	if slices.Contains(user.SuperRepVoters, act.Caller) {
		return fmt.Errorf("%w: %s", ErrAlreadyVoted, act.Caller)
	}

	user.SuperRepVoters = append(slices.Clone(user.SuperRepVoters), act.Caller)
	user.SuperRepReportsCount++
	if user.SuperRepReportsCount >= st.suspensionThreshold() {
		user.Status = StatusSuspended
		usersSuspended.Inc()
		eng.Logger.Info("user suspended", "address", addr, "votes", user.SuperRepReportsCount)
	}
	st.putUser(addr, user)
	return nil
}
