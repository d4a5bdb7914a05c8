package filter

import (
	"fmt"
	"slices"

	"github.com/decentland/tribus/arweave/syntax"
)

func (s *State) IsRepresentative(addr syntax.Address) bool {
	return slices.Contains(s.Representatives, addr)
}

func (s *State) IsSuperRepresentative(addr syntax.Address) bool {
	return slices.Contains(s.SuperRepresentatives, addr)
}

func (s *State) requireRepresentative(addr syntax.Address) error {
	if !s.IsRepresentative(addr) {
		return fmt.Errorf("%w: %s is not a representative", ErrUnauthorized, addr)
	}
	return nil
}

func (s *State) requireSuperRepresentative(addr syntax.Address) error {
	if !s.IsSuperRepresentative(addr) {
		return fmt.Errorf("%w: %s is not a super representative", ErrUnauthorized, addr)
	}
	return nil
}

func (s *State) removeRepresentative(addr syntax.Address) error {
	idx := slices.Index(s.Representatives, addr)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrRepresentativeNotFound, addr)
	}
	s.Representatives = slices.Delete(s.Representatives, idx, idx+1)
	return nil
}
