package filter

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/decentland/tribus/arweave/syntax"
)

// Safety bounds for administrative edits.
const (
	MinPostCharLimit = 280
	MaxPostCharLimit = 1_000_000
	MinRateLimit     = 0
	// blocks between every interaction of a single user
	MaxRateLimit = 30

	MaxReportMessageLength = 1000
)

type UserStatus string

const (
	StatusOK        UserStatus = "OK"
	StatusSuspended UserStatus = "SUSPENDED"
)

type PostType string

const (
	PostTypePost PostType = "post"
	// reserved for poll content; never created by this filter
	PostTypePoll PostType = "poll"
)

type ReportKind string

const (
	ReportKindPost  ReportKind = "post_report"
	ReportKindReply ReportKind = "reply_report"
)

type ReportStatus string

const (
	ReportOpen     ReportStatus = "open"
	ReportExecuted ReportStatus = "executed"
	// the reported reply went away with its parent post
	ReportDismissed ReportStatus = "dismissed"
)

// Per-address record, created on the first accepted post or reply.
type User struct {
	// block height of the last accepted post or reply; zero if none yet
	LastInteraction int64 `json:"last_interaction"`
	// number of executed reports against content owned by this user
	ReportsCount int `json:"reports_count"`
	// number of distinct super representatives who voted to suspend
	SuperRepReportsCount int              `json:"super_rep_reports_count"`
	SuperRepVoters       []syntax.Address `json:"super_rep_voters,omitempty"`
	Status               UserStatus       `json:"user_status"`
	// overrides the global rate limit (in blocks) for this user, when set
	RateLimit *int64 `json:"rate_limit,omitempty"`
}

type Post struct {
	PID       syntax.TxID    `json:"pid"`
	Type      PostType       `json:"type"`
	Owner     syntax.Address `json:"owner"`
	Timestamp int64          `json:"timestamp"`
	Replies   []Reply        `json:"replies"`
}

type Reply struct {
	PID       syntax.TxID    `json:"pid"`
	ChildOf   syntax.TxID    `json:"childOf"`
	Owner     syntax.Address `json:"owner"`
	Timestamp int64          `json:"timestamp"`
}

type Report struct {
	ReportID  syntax.TxID      `json:"report_id"`
	PID       syntax.TxID      `json:"pid"`
	Type      ReportKind       `json:"type"`
	Message   string           `json:"message"`
	Reporters []syntax.Address `json:"reporters"`
	Status    ReportStatus     `json:"status"`
}

// The complete shared state of the filter. The JSON layout is the persisted form.
//
// A State is exclusively owned by whoever applies actions to it; it has no internal locking.
type State struct {
	Feed                 []Post                    `json:"feed"`
	Reports              []Report                  `json:"reports"`
	Users                map[syntax.Address]User   `json:"users"`
	Representatives      []syntax.Address          `json:"representatives"`
	SuperRepresentatives []syntax.Address          `json:"super_representatives"`
	RateLimit            int64                     `json:"rate_limit"`
	PostCharLimit        int64                     `json:"post_char_limit"`
	IsSealed             bool                      `json:"is_sealed"`
	// recognized content source contracts; the first entry is the plain post source
	Sources []string `json:"nfts_src"`
}

// Returns an empty, unsealed state with the safe default limits.
func NewState(reps, superReps []syntax.Address, sources []string) *State {
	return &State{
		Feed:                 []Post{},
		Reports:              []Report{},
		Users:                make(map[syntax.Address]User),
		Representatives:      append([]syntax.Address{}, reps...),
		SuperRepresentatives: append([]syntax.Address{}, superReps...),
		RateLimit:            0,
		PostCharLimit:        MinPostCharLimit,
		Sources:              append([]string{}, sources...),
	}
}

// Checks the structural invariants of a state loaded from outside (eg, a genesis file).
func (s *State) Validate() error {
	if len(s.SuperRepresentatives) == 0 {
		return fmt.Errorf("state has no super representatives")
	}
	if len(s.Sources) == 0 {
		return fmt.Errorf("state has no recognized content sources")
	}
	supers := make(map[syntax.Address]bool, len(s.SuperRepresentatives))
	for _, a := range s.SuperRepresentatives {
		if supers[a] {
			return fmt.Errorf("duplicate super representative: %s", a)
		}
		supers[a] = true
	}
	reps := make(map[syntax.Address]bool, len(s.Representatives))
	for _, a := range s.Representatives {
		if supers[a] {
			return fmt.Errorf("address is both representative and super representative: %s", a)
		}
		if reps[a] {
			return fmt.Errorf("duplicate representative: %s", a)
		}
		reps[a] = true
	}
	seen := make(map[syntax.TxID]bool)
	for _, p := range s.Feed {
		if seen[p.PID] {
			return fmt.Errorf("duplicate content id in feed: %s", p.PID)
		}
		seen[p.PID] = true
		for _, r := range p.Replies {
			if seen[r.PID] {
				return fmt.Errorf("duplicate content id in feed: %s", r.PID)
			}
			if r.ChildOf != p.PID {
				return fmt.Errorf("reply %s filed under %s but declares parent %s", r.PID, p.PID, r.ChildOf)
			}
			seen[r.PID] = true
		}
	}
	reportIDs := make(map[syntax.TxID]bool, len(s.Reports))
	for _, r := range s.Reports {
		if reportIDs[r.ReportID] {
			return fmt.Errorf("duplicate report id: %s", r.ReportID)
		}
		reportIDs[r.ReportID] = true
		if r.Status == ReportExecuted && seen[r.PID] {
			return fmt.Errorf("content %s of executed report %s is still in the feed", r.PID, r.ReportID)
		}
	}
	for addr, u := range s.Users {
		if u.Status != StatusOK && u.Status != StatusSuspended {
			return fmt.Errorf("user %s has unknown status %q", addr, u.Status)
		}
	}
	return nil
}

// Fills in empty collections, so that a freshly decoded state can be mutated and serializes stably.
func (s *State) normalize() {
	if s.Feed == nil {
		s.Feed = []Post{}
	}
	for i := range s.Feed {
		if s.Feed[i].Replies == nil {
			s.Feed[i].Replies = []Reply{}
		}
	}
	if s.Reports == nil {
		s.Reports = []Report{}
	}
	for i := range s.Reports {
		// older states mark open reports by omitting the status
		if s.Reports[i].Status == "" {
			s.Reports[i].Status = ReportOpen
		}
	}
	if s.Users == nil {
		s.Users = make(map[syntax.Address]User)
	}
	if s.Representatives == nil {
		s.Representatives = []syntax.Address{}
	}
	if s.SuperRepresentatives == nil {
		s.SuperRepresentatives = []syntax.Address{}
	}
	if s.Sources == nil {
		s.Sources = []string{}
	}
}

func ParseState(raw []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parsing filter state: %w", err)
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter state: %w", err)
	}
	return &s, nil
}

func LoadStateFile(path string) (*State, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseState(raw)
}

func (s *State) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
