package filter

import (
	"errors"
	"fmt"

	"github.com/decentland/tribus/arweave/syntax"
)

// Error classes. Every error returned by [Engine.Apply] for a rejected action wraps exactly one of these.
var (
	ErrAuthorization = errors.New("authorization error")
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")
	ErrPolicy        = errors.New("policy error")
	ErrConfiguration = errors.New("configuration error")
)

var (
	ErrUnauthorized = fmt.Errorf("%w: caller does not hold the required role", ErrAuthorization)

	ErrInvalidAddress   = fmt.Errorf("%w: %w", ErrValidation, syntax.ErrInvalidAddress)
	ErrInvalidLength    = fmt.Errorf("%w: %w", ErrValidation, syntax.ErrInvalidLength)
	ErrInvalidPrimitive = fmt.Errorf("%w: %w", ErrValidation, syntax.ErrInvalidPrimitive)
	ErrInvalidInput     = fmt.Errorf("%w: the function has been given an invalid argument", ErrValidation)
	ErrUnknownFunction  = fmt.Errorf("%w: unknown function", ErrValidation)
	ErrOwnerMismatch    = fmt.Errorf("%w: the PID owner is not the caller", ErrValidation)
	ErrInvalidTag       = fmt.Errorf("%w: the TX has invalid TX tag(s)", ErrValidation)
	ErrInvalidSource    = fmt.Errorf("%w: post's NFT SRC is not supported", ErrValidation)
	ErrInvalidReplyKind = fmt.Errorf("%w: reply's type must be of type 'post'", ErrValidation)
	ErrMalformedBody    = fmt.Errorf("%w: PID data structure is not valid", ErrValidation)

	ErrDuplicateContentID     = fmt.Errorf("%w: content id already exists in the feed", ErrConflict)
	ErrDuplicateReportID      = fmt.Errorf("%w: report id already exists", ErrConflict)
	ErrParentNotFound         = fmt.Errorf("%w: parent post not found", ErrConflict)
	ErrContentNotFound        = fmt.Errorf("%w: the given PID not found", ErrConflict)
	ErrReportNotFound         = fmt.Errorf("%w: report ID does not exist or the report has been executed", ErrConflict)
	ErrUserNotFound           = fmt.Errorf("%w: the given address has not interacted with the contract", ErrConflict)
	ErrAlreadySuspended       = fmt.Errorf("%w: user already suspended", ErrConflict)
	ErrNeverReported          = fmt.Errorf("%w: cannot suspend a user without at least a single executed report", ErrConflict)
	ErrAlreadyVoted           = fmt.Errorf("%w: super representative already voted to suspend this user", ErrConflict)
	ErrRepresentativeNotFound = fmt.Errorf("%w: address is not a representative", ErrConflict)

	ErrRateLimited    = fmt.Errorf("%w: user cannot post, has reached the rate limit", ErrPolicy)
	ErrUserSuspended  = fmt.Errorf("%w: user cannot post, has been suspended", ErrPolicy)
	ErrContractSealed = fmt.Errorf("%w: the filter contract is sealed temporarily, interactions of unknown users are revoked", ErrPolicy)

	ErrInvalidLimit = fmt.Errorf("%w: limit outside of the safe bounds", ErrConfiguration)
)

// Names the class of a rejection error ("authorization", "validation", "conflict", "policy", "configuration"), or returns "" for errors outside the taxonomy (eg, content resolution failures).
func ErrorClass(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthorization):
		return "authorization"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrPolicy):
		return "policy"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return ""
	}
}

// re-tags a syntax package error with the filter's validation class
func syntaxErr(field string, err error) error {
	switch {
	case ErrorClass(err) != "":
		return fmt.Errorf("%w (%s)", err, field)
	case errors.Is(err, syntax.ErrInvalidAddress):
		return fmt.Errorf("%w (%s): %v", ErrInvalidAddress, field, err)
	case errors.Is(err, syntax.ErrInvalidLength):
		return fmt.Errorf("%w (%s): %v", ErrInvalidLength, field, err)
	case errors.Is(err, syntax.ErrInvalidPrimitive):
		return fmt.Errorf("%w (%s): %v", ErrInvalidPrimitive, field, err)
	default:
		return fmt.Errorf("%w (%s): %v", ErrInvalidInput, field, err)
	}
}
