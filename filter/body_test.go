package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBody(t *testing.T) {
	assert := assert.New(t)
	family := "\U0001F468\u200D\U0001F469\u200D\U0001F467"

	testCases := []struct {
		body  string
		limit int64
		valid bool
	}{
		{`{"content":"hi","media":[]}`, 280, true},
		// media alone is enough; empty text is not rejected by itself
		{`{"media":["ar://abc"],"content":""}`, 280, true},
		{`{"content":"","media":["x"]}`, 280, true},
		{` { "content" : "hi" , "media" : [ ] } `, 280, true},
		{`{"content":"` + strings.Repeat("x", 279) + `","media":[]}`, 280, true},
		{`{"content":"` + strings.Repeat("x", 280) + `","media":[]}`, 280, false},
		// a family emoji is a single character
		{`{"content":"` + strings.Repeat(family, 10) + `","media":[]}`, 11, true},
		{`{"content":"` + strings.Repeat(family, 11) + `","media":[]}`, 11, false},
		{`{"content":"","media":[]}`, 280, false},
		{`{"content":"hi"}`, 280, false},
		{`{"content":"hi","media":[],"extra":null}`, 280, false},
		{`{"content":null,"media":[]}`, 280, false},
		{`{"content":"hi","media":null}`, 280, false},
		{`{"content":"hi","media":"ar://abc"}`, 280, false},
		{`null`, 280, false},
		{`"hi"`, 280, false},
		{``, 280, false},
	}

	for _, tc := range testCases {
		err := validateBody([]byte(tc.body), tc.limit)
		if tc.valid {
			assert.NoError(err, tc.body)
		} else {
			assert.ErrorIs(err, ErrMalformedBody, tc.body)
		}
	}
}
