package platform

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/felixgeelhaar/evolvedu/internal/errors"
)

// User-facing messages for each classification.
const (
	MsgSessionExpired = "Session expired. Please login again."
	MsgForbidden      = "You do not have permission to perform this action."
	MsgNotFound       = "The requested resource was not found."
	MsgValidation     = "Validation error. Please check your input."
	MsgServer         = "Server error. Please try again later."
	MsgNetwork        = "Network error. Please check your connection and try again."
	MsgUnknown        = "Something went wrong"
)

// Classification is what the response stage does with a failure.
type Classification struct {
	Code         errors.ErrorCode
	Messages     []string
	FieldErrors  map[string][]string
	ClearSession bool
}

// Classify maps a failure to its classification. status is 0 and
// transportErr non-nil when no response was received.
func Classify(status int, body []byte, transportErr error) Classification {
	if transportErr != nil {
		return Classification{Code: errors.ErrCodeNetwork, Messages: []string{MsgNetwork}}
	}

	switch {
	case status == http.StatusUnauthorized:
		return Classification{
			Code:         errors.ErrCodeAuthExpired,
			Messages:     []string{MsgSessionExpired},
			ClearSession: true,
		}
	case status == http.StatusForbidden:
		return Classification{Code: errors.ErrCodeForbidden, Messages: []string{MsgForbidden}}
	case status == http.StatusNotFound:
		return Classification{Code: errors.ErrCodeNotFound, Messages: []string{MsgNotFound}}
	case status == http.StatusUnprocessableEntity:
		fields := fieldErrors(body)
		msgs := flattenFieldErrors(fields)
		if len(msgs) == 0 {
			return Classification{Code: errors.ErrCodeValidation, Messages: []string{MsgValidation}}
		}
		return Classification{Code: errors.ErrCodeValidation, Messages: msgs, FieldErrors: fields}
	case status >= 500:
		return Classification{Code: errors.ErrCodeServer, Messages: []string{MsgServer}}
	}

	msg := bodyMessage(body)
	if msg == "" && status != 0 {
		msg = fmt.Sprintf("Request failed with status code %d", status)
	}
	if msg == "" {
		msg = MsgUnknown
	}
	return Classification{Code: errors.ErrCodeUnclassified, Messages: []string{msg}}
}

func decodeObject(body []byte) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil
	}
	return obj
}

// fieldErrors reads the "errors" object of a validation response. A field
// may map to one message or to a list of them.
func fieldErrors(body []byte) map[string][]string {
	obj := decodeObject(body)
	raw, ok := obj["errors"].(map[string]any)
	if !ok || len(raw) == 0 {
		return nil
	}

	out := make(map[string][]string, len(raw))
	for field, v := range raw {
		var msgs []string
		switch val := v.(type) {
		case []any:
			for _, item := range val {
				if s := messageText(item); s != "" {
					msgs = append(msgs, s)
				}
			}
		default:
			if s := messageText(val); s != "" {
				msgs = append(msgs, s)
			}
		}
		if len(msgs) > 0 {
			out[field] = msgs
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// flattenFieldErrors lists every message, ordered by field name.
func flattenFieldErrors(fields map[string][]string) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var msgs []string
	for _, k := range keys {
		msgs = append(msgs, fields[k]...)
	}
	return msgs
}

func messageText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(encoded)
	}
}

// bodyMessage returns the first non-empty of message, error and detail.
func bodyMessage(body []byte) string {
	obj := decodeObject(body)
	for _, key := range []string{"message", "error", "detail"} {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
