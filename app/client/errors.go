package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeMissingCredential ErrorType = "missing_credential"
	ErrorTypeSessionExpired    ErrorType = "session_expired"
	ErrorTypeRequestFailed     ErrorType = "request_failed"
	ErrorTypeUnlikeFailed      ErrorType = "unlike_failed"
)

// User-visible messages.
const (
	MissingCredentialMessage = "Please log in to view your liked posts."
	SessionExpiredMessage    = "Your session has expired. Please log in again."
	RequestFailedMessage     = "Failed to load posts. Please try again."
	UnlikeFailedMessage      = "Failed to unlike post"
)

// APIError is returned by every Fetcher call that does not succeed.
type APIError struct {
	Type   ErrorType `json:"type"`
	Status int       `json:"status,omitempty"`
	Msg    string    `json:"msg"`

	// server-provided message, if the body carried one
	ServerMsg string `json:"serverMsg,omitempty"`

	err error
}

func (e *APIError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.err)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Msg, e.Status)
	}
	return e.Msg
}

func (e *APIError) Unwrap() error {
	return e.err
}

// ErrMissingCredential is matched by errors.Is for any missing-token error.
var ErrMissingCredential = &APIError{Type: ErrorTypeMissingCredential, Msg: MissingCredentialMessage}

// Is matches APIErrors by type so errors.Is(err, ErrMissingCredential) works.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.Status == 0 && t.err == nil
}

// AsAPIError extracts an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Message returns the text a user should see for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Msg
	}
	return RequestFailedMessage
}

// IsAuthError reports whether err should send the user back to the login flow.
func IsAuthError(err error) bool {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return false
	}
	return apiErr.Type == ErrorTypeMissingCredential || apiErr.Type == ErrorTypeSessionExpired
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// serverMessage pulls {message} or {error} out of a failed response body.
func serverMessage(r *http.Response, body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	if !strings.Contains(r.Header.Get("Content-Type"), "json") {
		return ""
	}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if eb.Message != "" {
		return eb.Message
	}
	return eb.Error
}

// handleFetchError classifies a failed read call.
func handleFetchError(r *http.Response, body []byte) *APIError {
	if r.StatusCode == http.StatusUnauthorized {
		return &APIError{Type: ErrorTypeSessionExpired, Status: r.StatusCode, Msg: SessionExpiredMessage, ServerMsg: serverMessage(r, body)}
	}
	return &APIError{Type: ErrorTypeRequestFailed, Status: r.StatusCode, Msg: RequestFailedMessage, ServerMsg: serverMessage(r, body)}
}

// handleUnlikeError classifies a rejected unlike. The server's message wins
// over the fallback.
func handleUnlikeError(r *http.Response, body []byte) *APIError {
	if r.StatusCode == http.StatusUnauthorized {
		return &APIError{Type: ErrorTypeSessionExpired, Status: r.StatusCode, Msg: SessionExpiredMessage, ServerMsg: serverMessage(r, body)}
	}
	msg := serverMessage(r, body)
	apiErr := &APIError{Type: ErrorTypeUnlikeFailed, Status: r.StatusCode, Msg: UnlikeFailedMessage, ServerMsg: msg}
	if msg != "" {
		apiErr.Msg = msg
	}
	return apiErr
}
