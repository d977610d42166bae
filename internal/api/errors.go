package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Kind classifies every failure the client can return
type Kind int

const (
	// KindServer means a non-2xx response was received
	KindServer Kind = iota + 1
	// KindNetwork means the request was sent but no response came back
	KindNetwork
	// KindRequest means the request could not be built, or a 2xx body could
	// not be decoded
	KindRequest
)

func (k Kind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindRequest:
		return "request"
	default:
		return "unknown"
	}
}

// User-facing messages
const (
	MessageGeneric = "An error occurred."
	MessageNetwork = "Network error. Please check your connection."
)

// Error is the single error shape returned by Client
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int // KindServer only
	Method     string
	Path       string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func serverError(method, path string, status int, body []byte) *Error {
	return &Error{
		Kind:       KindServer,
		Message:    extractMessage(body),
		StatusCode: status,
		Method:     method,
		Path:       path,
	}
}

func networkError(method, path string, err error) *Error {
	return &Error{Kind: KindNetwork, Message: MessageNetwork, Method: method, Path: path, Err: err}
}

func requestError(method, path string, err error) *Error {
	return &Error{Kind: KindRequest, Message: err.Error(), Method: method, Path: path, Err: err}
}

// Classify returns err as an *Error. Failures raised before any request was
// sent (validation, missing session, superseded calls) become KindRequest
// with the original error kept as Err, so errors.Is still matches it.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsError(err); ok {
		return err
	}
	return &Error{Kind: KindRequest, Message: err.Error(), Err: err}
}

// extractMessage prefers the body's "message", then "error", then the
// generic fallback
func extractMessage(body []byte) string {
	var fields struct {
		Message any `json:"message"`
		Error   any `json:"error"`
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return MessageGeneric
	}
	if s, ok := fields.Message.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	if s, ok := fields.Error.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return MessageGeneric
}

// AsError extracts an *Error from err
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func isKind(err error, k Kind) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == k
}

// IsServerError checks if the backend rejected the request
func IsServerError(err error) bool { return isKind(err, KindServer) }

// IsNetworkError checks if no response was obtained
func IsNetworkError(err error) bool { return isKind(err, KindNetwork) }

// IsRequestError checks if the request failed on the client side
func IsRequestError(err error) bool { return isKind(err, KindRequest) }

// IsUnauthorized checks if the backend answered 401
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsNotFound checks if the backend answered 404
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// StatusCode returns the response status of a server error, or 0
func StatusCode(err error) int {
	if apiErr, ok := AsError(err); ok && apiErr.Kind == KindServer {
		return apiErr.StatusCode
	}
	return 0
}

// Message returns the user-facing message of any error
func Message(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsError(err); ok {
		return apiErr.Message
	}
	return err.Error()
}
