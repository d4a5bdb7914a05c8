package filter

import (
	"fmt"
	"slices"

	"github.com/decentland/tribus/arweave/syntax"
)

func (s *State) findReport(reportID syntax.TxID) int {
	for i, r := range s.Reports {
		if r.ReportID == reportID {
			return i
		}
	}
	return -1
}

// Returns the open report with the given id.
func (s *State) OpenReport(reportID syntax.TxID) (*Report, error) {
	idx := s.findReport(reportID)
	if idx < 0 || s.Reports[idx].Status != ReportOpen {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, reportID)
	}
	return &s.Reports[idx], nil
}

// Files a report against a piece of content.
//
// If an open report of the same kind already targets the content, the reporter joins it (or nothing happens if they are already on it). Otherwise a new open report is created under reportID. Returns the id of the report the reporter ended up on.
func (s *State) RaiseOrJoin(reportID, target syntax.TxID, kind ReportKind, message string, reporter syntax.Address) (syntax.TxID, error) {
	for i := range s.Reports {
		r := &s.Reports[i]
		if r.Status != ReportOpen || r.PID != target || r.Type != kind {
			continue
		}
		if !slices.Contains(r.Reporters, reporter) {
			r.Reporters = append(r.Reporters, reporter)
		}
		return r.ReportID, nil
	}
	if s.findReport(reportID) >= 0 {
		return "", fmt.Errorf("%w: %s", ErrDuplicateReportID, reportID)
	}
	s.Reports = append(s.Reports, Report{
		ReportID:  reportID,
		PID:       target,
		Type:      kind,
		Message:   message,
		Reporters: []syntax.Address{reporter},
		Status:    ReportOpen,
	})
	return reportID, nil
}

// Dismisses every open reply report targeting one of the given replies. Returns the number of reports dismissed.
func (s *State) dismissReplyReports(replies []Reply) int {
	if len(replies) == 0 {
		return 0
	}
	gone := make(map[syntax.TxID]bool, len(replies))
	for _, r := range replies {
		gone[r.PID] = true
	}
	n := 0
	for i := range s.Reports {
		r := &s.Reports[i]
		if r.Status == ReportOpen && r.Type == ReportKindReply && gone[r.PID] {
			r.Status = ReportDismissed
			n++
		}
	}
	return n
}

// Closes an open report. Does not touch the feed.
func (s *State) markExecuted(reportID syntax.TxID) error {
	r, err := s.OpenReport(reportID)
	if err != nil {
		return err
	}
	r.Status = ReportExecuted
	return nil
}
