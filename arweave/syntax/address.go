package syntax

import (
	"errors"
	"fmt"
	"regexp"
)

// Returned (wrapped) by [ParseAddress] and [ParseTxID] for any syntax failure.
var ErrInvalidAddress = errors.New("the syntax of the string is not a valid Arweave address/TX")

// Both wallet addresses and transaction ids are 32 bytes, base64url encoded without padding.
const AddressLength = 43

var addressRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{43}$`)

// Represents a syntactically valid Arweave wallet address.
//
// Always use [ParseAddress] instead of wrapping strings directly, especially when working with input.
type Address string

func ParseAddress(raw string) (Address, error) {
	if err := validateAddressSyntax(raw); err != nil {
		return "", err
	}
	return Address(raw), nil
}

func (a Address) String() string {
	return string(a)
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	addr, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Represents a syntactically valid Arweave transaction id. Content ids and report ids are transaction ids.
//
// Always use [ParseTxID] instead of wrapping strings directly, especially when working with input.
type TxID string

func ParseTxID(raw string) (TxID, error) {
	if err := validateAddressSyntax(raw); err != nil {
		return "", err
	}
	return TxID(raw), nil
}

func (t TxID) String() string {
	return string(t)
}

func (t TxID) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TxID) UnmarshalText(text []byte) error {
	id, err := ParseTxID(string(text))
	if err != nil {
		return err
	}
	*t = id
	return nil
}

// Checks address (or transaction id) syntax without allocating a typed value.
func ValidateAddress(raw string) error {
	return validateAddressSyntax(raw)
}

func validateAddressSyntax(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: got empty string", ErrInvalidAddress)
	}
	if len(raw) != AddressLength {
		return fmt.Errorf("%w: wrong length (expected %d chars)", ErrInvalidAddress, AddressLength)
	}
	if !addressRegex.MatchString(raw) {
		return fmt.Errorf("%w: syntax didn't validate via regex", ErrInvalidAddress)
	}
	return nil
}
