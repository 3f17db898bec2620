package screening

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrUnauthorized is returned after the credential has been purged and the
// login-required handler has run. Callers only need it to stop what they do.
var ErrUnauthorized = errors.New("not authorized: please log in")

const genericErrorMessage = "request failed"

// APIError is a non-success response from the backend.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	RequestID  string
	// Detail is the server supplied message, empty when the body had none.
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message())
}

// Message returns the server detail or a generic fallback.
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return strings.ToLower(text)
	}
	return genericErrorMessage
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Detail extracts a user facing message from err, falling back to fallback
// when the server did not supply one.
func Detail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if errors.Is(err, ErrUnauthorized) {
		return ErrUnauthorized.Error()
	}
	return fallback
}

// parseDetail understands both `{"detail": "text"}` and the validation form
// `{"detail": [{"msg": "..."}, ...]}`.
func parseDetail(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}

	detail := gjson.GetBytes(body, "detail")
	switch {
	case !detail.Exists():
		return strings.TrimSpace(gjson.GetBytes(body, "message").String())
	case detail.IsArray():
		msgs := make([]string, 0)
		detail.ForEach(func(_, v gjson.Result) bool {
			if msg := strings.TrimSpace(v.Get("msg").String()); msg != "" {
				msgs = append(msgs, msg)
			}
			return true
		})
		return strings.Join(msgs, "; ")
	default:
		return strings.TrimSpace(detail.String())
	}
}
