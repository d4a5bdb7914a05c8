package filter

import (
	"fmt"
	"log/slog"

	"github.com/decentland/tribus/arweave/syntax"
	"github.com/decentland/tribus/filter/content"
)

var (
	TestContractID = TestAddress("tribus", 0).String()
	TestPostSource = TestAddress("postsrc", 0).String()
	TestPollSource = TestAddress("pollsrc", 0).String()
	TestPostBody   = []byte(`{"content":"hello from the decentralized forum","media":[]}`)
)

// Deterministic, syntactically valid address for tests, eg TestAddress("rep", 1).
func TestAddress(prefix string, n int) syntax.Address {
	return syntax.Address(fmt.Sprintf("%s%0*d", prefix, syntax.AddressLength-len(prefix), n))
}

func TestTxID(prefix string, n int) syntax.TxID {
	return syntax.TxID(TestAddress(prefix, n))
}

// An engine wired to an in-memory resolver, and a state with three representatives and three super representatives.
type EngineFixture struct {
	Engine    *Engine
	Resolver  *content.MockResolver
	State     *State
	Reps      []syntax.Address
	SuperReps []syntax.Address
}

func EngineTestFixture() *EngineFixture {
	reps := []syntax.Address{TestAddress("rep", 1), TestAddress("rep", 2), TestAddress("rep", 3)}
	supers := []syntax.Address{TestAddress("super", 1), TestAddress("super", 2), TestAddress("super", 3)}
	resolver := content.NewMockResolver()
	eng := NewEngine(slog.Default(), &resolver, EngineConfig{ContractID: TestContractID})
	return &EngineFixture{
		Engine:    eng,
		Resolver:  &resolver,
		State:     NewState(reps, supers, []string{TestPostSource, TestPollSource}),
		Reps:      reps,
		SuperReps: supers,
	}
}

// Returns a complete, valid tag set for a post (parent empty) or a reply.
func ContentTags(parent syntax.TxID) map[string]string {
	tags := map[string]string{
		TagAppName:      AppName,
		TagAppVersion:   AppVersion,
		TagContentType:  ContentType,
		TagProtocolName: ProtocolName,
		TagTribusID:     TestContractID,
		TagContractSrc:  TestPostSource,
	}
	if parent == "" {
		tags[TagProtocolAction] = FuncPost
	} else {
		tags[TagProtocolAction] = FuncReply
		tags[TagReplyTo] = parent.String()
	}
	return tags
}

// Registers a valid post transaction with the mock resolver.
func (f *EngineFixture) InsertPost(owner syntax.Address, pid syntax.TxID) {
	f.Resolver.Insert(content.Transaction{ID: pid, Owner: owner, Tags: ContentTags("")}, TestPostBody)
}

func (f *EngineFixture) InsertReply(owner syntax.Address, pid, parent syntax.TxID) {
	f.Resolver.Insert(content.Transaction{ID: pid, Owner: owner, Tags: ContentTags(parent)}, TestPostBody)
}

func TestEnv(height int64) Env {
	return Env{
		Height:    height,
		Timestamp: 1_650_000_000 + height,
		TxID:      TestTxID("action", int(height)),
	}
}
