package filter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/decentland/tribus/arweave/syntax"
)

// Checks the shape of a post or reply body: a JSON object with exactly a "content" string and a "media" array, not empty, and shorter than the character limit.
func validateBody(raw []byte, charLimit int64) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return fmt.Errorf("%w: not a JSON object", ErrMalformedBody)
	}
	if len(fields) != 2 {
		return fmt.Errorf("%w: expected exactly content and media", ErrMalformedBody)
	}
	rawContent, ok := fields["content"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(rawContent), []byte(`"`)) {
		return fmt.Errorf("%w: content must be a string", ErrMalformedBody)
	}
	rawMedia, ok := fields["media"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(rawMedia), []byte(`[`)) {
		return fmt.Errorf("%w: media must be an array", ErrMalformedBody)
	}

	var text string
	if err := json.Unmarshal(rawContent, &text); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	var media []json.RawMessage
	if err := json.Unmarshal(rawMedia, &media); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	n := syntax.GraphemeLength(text)
	if n+len(media) == 0 {
		return fmt.Errorf("%w: empty content", ErrMalformedBody)
	}
	if int64(n) >= charLimit {
		return fmt.Errorf("%w: content has %d characters, limit is %d", ErrMalformedBody, n, charLimit)
	}
	return nil
}
