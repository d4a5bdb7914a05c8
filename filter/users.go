package filter

import (
	"fmt"

	"github.com/decentland/tribus/arweave/syntax"
)

// Returns a copy of the user record, or a fresh one if the address has never interacted. The second return value reports whether the record already existed.
//
// The result is only persisted by [State.putUser], once the action commits.
func (s *State) getOrCreateUser(addr syntax.Address) (User, bool) {
	u, ok := s.Users[addr]
	if ok {
		return u, true
	}
	return User{Status: StatusOK}, false
}

func (s *State) putUser(addr syntax.Address, u User) {
	if s.Users == nil {
		s.Users = make(map[syntax.Address]User)
	}
	s.Users[addr] = u
}

func (s *State) HasUser(addr syntax.Address) bool {
	_, ok := s.Users[addr]
	return ok
}

// Cooldown window in blocks, taking a per-user override into account. An override of zero means no override.
func (s *State) rateLimitFor(u User) int64 {
	if u.RateLimit != nil && *u.RateLimit != 0 {
		return *u.RateLimit
	}
	return s.RateLimit
}

// Checks that the user may publish content at the given block height. Addresses without a user record are never limited.
func (s *State) checkCanPublish(u User, exists bool, height int64) error {
	if u.Status == StatusSuspended {
		return ErrUserSuspended
	}
	if !exists {
		return nil
	}
	window := s.rateLimitFor(u)
	if height <= u.LastInteraction+window {
		return fmt.Errorf("%w: next interaction allowed after block %d", ErrRateLimited, u.LastInteraction+window)
	}
	return nil
}

// Strict majority of the super representatives.
func (s *State) suspensionThreshold() int {
	return len(s.SuperRepresentatives)/2 + 1
}
