package docapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse is returned when a 2xx body cannot be decoded or
// lacks a field the caller depends on.
var ErrMalformedResponse = errors.New("malformed response")

// APIError is a non-2xx reply. Detail holds the server's "detail" field when
// the body carried one.
type APIError struct {
	StatusCode int
	Detail     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Detail)
	}
	if e.Body != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// ErrorDetail returns the server-reported detail carried by err, or "".
func ErrorDetail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

const maxErrorBody = 512

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Detail:     parseDetail(body),
	}
	if apiErr.Detail == "" {
		text := strings.TrimSpace(string(body))
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody] + "..."
		}
		apiErr.Body = text
	}
	return apiErr
}

// parseDetail understands both {"detail": "text"} and the validation shape
// {"detail": [{"loc": [...], "msg": "..."}]}.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
