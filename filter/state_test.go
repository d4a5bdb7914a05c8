package filter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/decentland/tribus/arweave/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRoundTrip(t *testing.T) {
	assert := assert.New(t)

	window := int64(3)
	st := NewState([]syntax.Address{TestAddress("rep", 1)}, []syntax.Address{TestAddress("super", 1)}, []string{TestPostSource})
	st.RateLimit = 2
	st.IsSealed = true
	require.NoError(t, st.AppendPost(Post{PID: TestTxID("post", 1), Type: PostTypePost, Owner: TestAddress("alice", 1), Timestamp: 11}))
	require.NoError(t, st.AppendReply(Reply{PID: TestTxID("reply", 1), ChildOf: TestTxID("post", 1), Owner: TestAddress("bob", 1), Timestamp: 12}))
	st.Users[TestAddress("alice", 1)] = User{LastInteraction: 1, Status: StatusOK, RateLimit: &window}
	st.Users[TestAddress("bob", 1)] = User{LastInteraction: 2, ReportsCount: 1, SuperRepReportsCount: 1, SuperRepVoters: []syntax.Address{TestAddress("super", 1)}, Status: StatusSuspended}
	_, err := st.RaiseOrJoin(TestTxID("report", 1), TestTxID("reply", 1), ReportKindReply, "off topic", TestAddress("rep", 1))
	require.NoError(t, err)

	first, err := json.Marshal(st)
	require.NoError(t, err)
	parsed, err := ParseState(first)
	require.NoError(t, err)
	second, err := json.Marshal(parsed)
	require.NoError(t, err)
	assert.Equal(string(first), string(second))
	assert.Equal(st, parsed)
}

func TestParseGenesis(t *testing.T) {
	assert := assert.New(t)

	// layout of a deployed contract state; reports carry no status until executed
	genesis := `{
  "feed": [
    {"pid": "` + TestTxID("post", 1).String() + `", "type": "post", "owner": "` + TestAddress("alice", 1).String() + `", "timestamp": 1650000000, "replies": []}
  ],
  "reports": [
    {"report_id": "` + TestTxID("report", 1).String() + `", "pid": "` + TestTxID("post", 1).String() + `", "type": "post_report", "message": "", "reporters": ["` + TestAddress("rep", 1).String() + `"], "reports_count": 0}
  ],
  "users": {
    "` + TestAddress("alice", 1).String() + `": {"last_interaction": 900000, "reports_count": 0, "user_status": "OK"}
  },
  "representatives": ["` + TestAddress("rep", 1).String() + `"],
  "super_representatives": ["` + TestAddress("super", 1).String() + `"],
  "rate_limit": 0,
  "post_char_limit": 280,
  "is_sealed": false,
  "nfts_src": ["` + TestPostSource + `"]
}`

	dir := t.TempDir()
	path := filepath.Join(dir, "genesis.json")
	require.NoError(t, os.WriteFile(path, []byte(genesis), 0o644))

	st, err := LoadStateFile(path)
	require.NoError(t, err)
	assert.Len(st.Feed, 1)
	assert.NotNil(st.Feed[0].Replies)
	require.Len(t, st.Reports, 1)
	assert.Equal(ReportOpen, st.Reports[0].Status)
	assert.Equal(int64(900000), st.Users[TestAddress("alice", 1)].LastInteraction)
	assert.True(st.IsRepresentative(TestAddress("rep", 1)))
	assert.True(st.IsSuperRepresentative(TestAddress("super", 1)))
	assert.Equal(int64(MinPostCharLimit), st.PostCharLimit)

	_, err = LoadStateFile(filepath.Join(dir, "missing.json"))
	assert.Error(err)
}

func TestStateValidate(t *testing.T) {
	assert := assert.New(t)
	rep := TestAddress("rep", 1)
	super := TestAddress("super", 1)

	fresh := func() *State {
		return NewState([]syntax.Address{rep}, []syntax.Address{super}, []string{TestPostSource})
	}
	assert.NoError(fresh().Validate())

	st := fresh()
	st.SuperRepresentatives = nil
	assert.Error(st.Validate())

	st = fresh()
	st.Sources = nil
	assert.Error(st.Validate())

	st = fresh()
	st.Representatives = append(st.Representatives, super)
	assert.Error(st.Validate())

	st = fresh()
	st.Feed = []Post{
		{PID: TestTxID("post", 1), Replies: []Reply{}},
		{PID: TestTxID("post", 2), Replies: []Reply{{PID: TestTxID("post", 1), ChildOf: TestTxID("post", 2)}}},
	}
	assert.Error(st.Validate())

	st = fresh()
	st.Feed = []Post{{PID: TestTxID("post", 1), Replies: []Reply{{PID: TestTxID("reply", 1), ChildOf: TestTxID("post", 9)}}}}
	assert.Error(st.Validate())

	st = fresh()
	st.Feed = []Post{{PID: TestTxID("post", 1), Replies: []Reply{}}}
	st.Reports = []Report{{ReportID: TestTxID("report", 1), PID: TestTxID("post", 1), Status: ReportExecuted}}
	assert.Error(st.Validate())

	st = fresh()
	st.Users[TestAddress("alice", 1)] = User{Status: "BANNED"}
	assert.Error(st.Validate())
}

func TestFeedStore(t *testing.T) {
	assert := assert.New(t)
	st := NewState(nil, []syntax.Address{TestAddress("super", 1)}, []string{TestPostSource})
	p1 := TestTxID("post", 1)
	p2 := TestTxID("post", 2)
	r1 := TestTxID("reply", 1)

	assert.NoError(st.AppendPost(Post{PID: p1}))
	assert.NoError(st.AppendPost(Post{PID: p2}))
	assert.ErrorIs(st.AppendPost(Post{PID: p1}), ErrDuplicateContentID)
	assert.ErrorIs(st.AppendReply(Reply{PID: r1, ChildOf: TestTxID("post", 3)}), ErrParentNotFound)
	assert.NoError(st.AppendReply(Reply{PID: r1, ChildOf: p1}))
	assert.ErrorIs(st.AppendReply(Reply{PID: p2, ChildOf: p1}), ErrDuplicateContentID)

	assert.Equal(1, st.FindPost(p2))
	i, j := st.FindReply(r1)
	assert.Equal(0, i)
	assert.Equal(0, j)
	assert.True(st.Contains(r1))

	_, err := st.RemoveReply(p1)
	assert.ErrorIs(err, ErrContentNotFound)
	removed, err := st.RemovePost(p1)
	assert.NoError(err)
	assert.Len(removed.Replies, 1)
	assert.False(st.Contains(r1))
	assert.Equal(0, st.FindPost(p2))
	_, err = st.RemovePost(p1)
	assert.ErrorIs(err, ErrContentNotFound)
}

func TestReportLedger(t *testing.T) {
	assert := assert.New(t)
	st := NewState(nil, []syntax.Address{TestAddress("super", 1)}, []string{TestPostSource})
	rep1 := TestAddress("rep", 1)
	rep2 := TestAddress("rep", 2)
	p1 := TestTxID("post", 1)
	p2 := TestTxID("post", 2)
	id1 := TestTxID("report", 1)

	got, err := st.RaiseOrJoin(id1, p1, ReportKindPost, "spam", rep1)
	assert.NoError(err)
	assert.Equal(id1, got)
	got, err = st.RaiseOrJoin(TestTxID("report", 2), p1, ReportKindPost, "also spam", rep2)
	assert.NoError(err)
	assert.Equal(id1, got)
	require.Len(t, st.Reports, 1)
	assert.Equal("spam", st.Reports[0].Message)

	assert.NoError(st.markExecuted(id1))
	assert.ErrorIs(st.markExecuted(id1), ErrReportNotFound)
	_, err = st.OpenReport(id1)
	assert.ErrorIs(err, ErrReportNotFound)

	// report ids are never reused, even once executed
	_, err = st.RaiseOrJoin(id1, p2, ReportKindPost, "", rep1)
	assert.ErrorIs(err, ErrDuplicateReportID)

	// a report on content whose previous report was executed starts fresh
	got, err = st.RaiseOrJoin(TestTxID("report", 3), p1, ReportKindPost, "", rep1)
	assert.NoError(err)
	assert.Equal(TestTxID("report", 3), got)
	assert.Len(st.Reports, 2)
}
