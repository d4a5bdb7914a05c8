package syntax

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInteropAddressesValid(t *testing.T) {
	assert := assert.New(t)
	file, err := os.Open("testdata/address_syntax_valid.txt")
	assert.NoError(err)
	defer file.Close()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		_, err := ParseAddress(line)
		if err != nil {
			fmt.Println("GOOD: " + line)
		}
		assert.NoError(err)
		_, err = ParseTxID(line)
		assert.NoError(err)
	}
	assert.NoError(scanner.Err())
}

func TestInteropAddressesInvalid(t *testing.T) {
	assert := assert.New(t)
	file, err := os.Open("testdata/address_syntax_invalid.txt")
	assert.NoError(err)
	defer file.Close()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		_, err := ParseAddress(line)
		if err == nil {
			fmt.Println("BAD: " + line)
		}
		assert.Error(err)
		assert.True(errors.Is(err, ErrInvalidAddress))
	}
	assert.NoError(scanner.Err())
}

func TestAddressEmpty(t *testing.T) {
	assert := assert.New(t)
	_, err := ParseAddress("")
	assert.ErrorIs(err, ErrInvalidAddress)
	assert.ErrorIs(ValidateAddress(""), ErrInvalidAddress)
}

func TestAddressJSON(t *testing.T) {
	assert := assert.New(t)

	type wrapper struct {
		Owner Address `json:"owner"`
		ID    TxID    `json:"id"`
	}
	raw := `{"owner":"vLRHFqCw1uHu75xqB4fCDW-QxpkpJxBtFD9g4QYUbfw","id":"bLAgYxAdX2Ry-nt6aH2ixgvJXbpsEYm28NgJgyqfs-U"}`
	var w wrapper
	assert.NoError(json.Unmarshal([]byte(raw), &w))
	assert.Equal("vLRHFqCw1uHu75xqB4fCDW-QxpkpJxBtFD9g4QYUbfw", w.Owner.String())
	assert.Equal("bLAgYxAdX2Ry-nt6aH2ixgvJXbpsEYm28NgJgyqfs-U", w.ID.String())

	out, err := json.Marshal(w)
	assert.NoError(err)
	assert.Equal(raw, string(out))

	bad := `{"owner":"short","id":"bLAgYxAdX2Ry-nt6aH2ixgvJXbpsEYm28NgJgyqfs-U"}`
	assert.Error(json.Unmarshal([]byte(bad), &w))
}
