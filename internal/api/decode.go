package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/triage/internal/common"
	"github.com/Veraticus/triage/internal/model"
)

// rawDetailLimit bounds how much of an unparseable body becomes the error detail.
const rawDetailLimit = 300

// ErrorDetail is the backend's error payload.
type ErrorDetail struct {
	Detail string
	Code   string
}

// Decoded is the outcome of decoding one response: exactly one of Result or
// Error is set.
type Decoded struct {
	Result *model.ClassificationResult
	Error  *ErrorDetail
	Status int
}

// OK reports whether the response carried a classification.
func (d Decoded) OK() bool {
	return d.Result != nil
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Code   string          `json:"code"`
}

// decodeResponse interprets a backend response. JSON bodies decode into a
// result (2xx) or an ErrorDetail; anything else becomes an ErrorDetail holding
// the first rawDetailLimit characters of the raw body.
func decodeResponse(status int, body []byte) Decoded {
	ok := status >= 200 && status < 300

	if ok {
		var result model.ClassificationResult
		if err := json.Unmarshal(body, &result); err == nil {
			return Decoded{Status: status, Result: &result}
		}
		return Decoded{Status: status, Error: &ErrorDetail{Detail: rawDetail(body)}}
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return Decoded{Status: status, Error: &ErrorDetail{Detail: rawDetail(body)}}
	}
	return Decoded{Status: status, Error: &ErrorDetail{Detail: detailText(eb.Detail), Code: eb.Code}}
}

// detailText flattens a detail that may be a string or structured JSON
// (validation errors arrive as a list).
func detailText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func rawDetail(body []byte) string {
	text := strings.ToValidUTF8(string(body), "�")
	if utf8.RuneCountInString(text) <= rawDetailLimit {
		return text
	}
	return string([]rune(text)[:rawDetailLimit])
}

// StatusError is a non-2xx outcome that survived every applicable fallback.
type StatusError struct {
	Detail string
	Code   string
	Status int
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// Unwrap lets callers match common.ErrClassificationFailed.
func (e *StatusError) Unwrap() error {
	return common.ErrClassificationFailed
}

func (d Decoded) err() error {
	se := &StatusError{Status: d.Status}
	if d.Error != nil {
		se.Detail = d.Error.Detail
		se.Code = d.Error.Code
	}
	if d.Status >= 200 && d.Status < 300 {
		return fmt.Errorf("%w: %s", common.ErrMalformedResponse, se.Error())
	}
	return se
}
