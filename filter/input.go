package filter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/decentland/tribus/arweave/syntax"
)

const (
	FuncPost                 = "post"
	FuncReply                = "reply"
	FuncReportPost           = "report_post"
	FuncReportReply          = "report_reply"
	FuncExecuteReport        = "execute_report"
	FuncSuspendUser          = "suspend_user"
	FuncEditCharactersLimit  = "edit_characters_limit"
	FuncEditRateLimit        = "edit_rate_limit"
	FuncEditSealing          = "edit_sealing"
	FuncRemoveRepresentative = "remove_representative"
)

// Discriminated action payload. Which fields are meaningful depends on Function.
//
// Identifier fields are plain strings so that syntax errors surface from the handlers with the proper error class, instead of failing JSON decoding. Numeric and boolean fields are left untyped for the same reason.
type Input struct {
	Function     string `json:"function"`
	TxID         string `json:"txid,omitempty"`
	PostID       string `json:"post_id,omitempty"`
	PID          string `json:"pid,omitempty"`
	Message      string `json:"message,omitempty"`
	ReportID     string `json:"report_id,omitempty"`
	UserAddress  string `json:"user_address,omitempty"`
	Address      string `json:"address,omitempty"`
	NewCharLimit any    `json:"new_char_limit,omitempty"`
	NewRateLimit any    `json:"new_rate_limit,omitempty"`
	Sealing      any    `json:"sealing,omitempty"`
}

// Decodes an action payload. Numbers are kept as [json.Number], so that fractional values can be told apart from integers.
func ParseInput(raw []byte) (*Input, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var in Input
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return &in, nil
}

type Action struct {
	// address of the signer of the action
	Caller syntax.Address
	Input  Input
}

// Host-supplied context for a single action.
type Env struct {
	// block height at which the action is applied
	Height    int64
	Timestamp int64
	// id of the transaction carrying the action; becomes the id of a newly raised report
	TxID syntax.TxID
}
