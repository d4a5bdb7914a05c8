package syntax

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errTestLimit = errors.New("test limit")

func TestStringBounds(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(ValidateStringBounds("abc", 3, 50))
	assert.NoError(ValidateStringBounds("", 0, 75))
	assert.NoError(ValidateStringBounds("héllo", 5, 5))
	assert.ErrorIs(ValidateStringBounds("ab", 3, 50), ErrInvalidLength)
	assert.ErrorIs(ValidateStringBounds("abcdef", 0, 5), ErrInvalidLength)
}

func TestIntegerBounds(t *testing.T) {
	assert := assert.New(t)

	testVec := []struct {
		val     any
		want    int64
		wantErr error
	}{
		{val: 300, want: 300},
		{val: int64(280), want: 280},
		{val: float64(400), want: 400},
		{val: json.Number("512"), want: 512},
		{val: 279, wantErr: errTestLimit},
		{val: json.Number("100000"), wantErr: errTestLimit},
		{val: 300.5, wantErr: ErrInvalidPrimitive},
		{val: json.Number("300.5"), wantErr: ErrInvalidPrimitive},
		{val: "300", wantErr: ErrInvalidPrimitive},
		{val: true, wantErr: ErrInvalidPrimitive},
		{val: nil, wantErr: ErrInvalidPrimitive},
	}

	for _, tc := range testVec {
		n, err := ValidateIntegerBounds(tc.val, 280, 10_000, errTestLimit)
		if tc.wantErr != nil {
			assert.ErrorIs(err, tc.wantErr, "value: %v", tc.val)
			continue
		}
		assert.NoError(err)
		assert.Equal(tc.want, n)
	}
}

func TestGraphemeLength(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(0, GraphemeLength(""))
	assert.Equal(5, GraphemeLength("hello"))
	assert.Equal(5, GraphemeLength("héllo"))
	// family emoji is a single grapheme cluster built from several runes
	assert.Equal(1, GraphemeLength("👨‍👩‍👧"))
	assert.Equal(3, GraphemeLength("a🏳️‍🌈b"))
}
