package filter

import (
	"fmt"

	"github.com/decentland/tribus/arweave/syntax"
)

// Reports whether the id is already used by any post or reply in the feed.
func (s *State) Contains(id syntax.TxID) bool {
	for _, p := range s.Feed {
		if p.PID == id {
			return true
		}
		for _, r := range p.Replies {
			if r.PID == id {
				return true
			}
		}
	}
	return false
}

// Returns the index of the post in the feed, or -1.
func (s *State) FindPost(pid syntax.TxID) int {
	for i, p := range s.Feed {
		if p.PID == pid {
			return i
		}
	}
	return -1
}

// Returns the indices of the reply and its parent post, or -1, -1.
func (s *State) FindReply(pid syntax.TxID) (int, int) {
	for i, p := range s.Feed {
		for j, r := range p.Replies {
			if r.PID == pid {
				return i, j
			}
		}
	}
	return -1, -1
}

func (s *State) AppendPost(p Post) error {
	if s.Contains(p.PID) {
		return fmt.Errorf("%w: %s", ErrDuplicateContentID, p.PID)
	}
	if p.Replies == nil {
		p.Replies = []Reply{}
	}
	s.Feed = append(s.Feed, p)
	return nil
}

func (s *State) AppendReply(r Reply) error {
	if s.Contains(r.PID) {
		return fmt.Errorf("%w: %s", ErrDuplicateContentID, r.PID)
	}
	idx := s.FindPost(r.ChildOf)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrParentNotFound, r.ChildOf)
	}
	s.Feed[idx].Replies = append(s.Feed[idx].Replies, r)
	return nil
}

// Removes the post along with all of its replies. Returns the removed post.
func (s *State) RemovePost(pid syntax.TxID) (Post, error) {
	idx := s.FindPost(pid)
	if idx < 0 {
		return Post{}, fmt.Errorf("%w: %s", ErrContentNotFound, pid)
	}
	p := s.Feed[idx]
	s.Feed = append(s.Feed[:idx:idx], s.Feed[idx+1:]...)
	return p, nil
}

func (s *State) RemoveReply(pid syntax.TxID) (Reply, error) {
	i, j := s.FindReply(pid)
	if i < 0 {
		return Reply{}, fmt.Errorf("%w: %s", ErrContentNotFound, pid)
	}
	replies := s.Feed[i].Replies
	r := replies[j]
	s.Feed[i].Replies = append(replies[:j:j], replies[j+1:]...)
	return r, nil
}
