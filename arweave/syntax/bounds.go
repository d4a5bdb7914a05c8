package syntax

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

var (
	ErrInvalidLength    = errors.New("the string surpass the allowed min-max limits")
	ErrInvalidPrimitive = errors.New("invalid primitive data type")
)

// Fails with [ErrInvalidLength] unless min <= len(s) <= max, counting characters (runes), not bytes.
func ValidateStringBounds(s string, min, max int) error {
	n := utf8.RuneCountInString(s)
	if n < min || n > max {
		return fmt.Errorf("%w: length %d not in [%d, %d]", ErrInvalidLength, n, min, max)
	}
	return nil
}

// Coerces a loosely typed value (as decoded from JSON input) to an integer and checks it against [min, max].
//
// Fails with [ErrInvalidPrimitive] if the value is not an integer, and with limitErr (wrapped) if it is out of range.
func ValidateIntegerBounds(v any, min, max int64, limitErr error) (int64, error) {
	n, err := AsInteger(v)
	if err != nil {
		return 0, err
	}
	if n < min || n > max {
		return 0, fmt.Errorf("%w: %d not in [%d, %d]", limitErr, n, min, max)
	}
	return n, nil
}

// Returns the integer value of v, or [ErrInvalidPrimitive].
//
// Accepts Go integer types, integral floats, and [json.Number]. Strings, booleans, nil and fractional numbers are rejected.
func AsInteger(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint32:
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || n > math.MaxInt64 || n < math.MinInt64 {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrInvalidPrimitive, n)
		}
		return int64(n), nil
	case json.Number:
		i, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s is not an integer", ErrInvalidPrimitive, n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%w: expected integer, got %T", ErrInvalidPrimitive, v)
	}
}
