package brushwork

import (
	"errors"
	"fmt"
)

// ErrorKind classifies generation errors by what went wrong and how the
// host should react.
type ErrorKind string

const (
	// KindConfig marks a malformed profile or request. Rejected before any
	// network dispatch, never retried.
	KindConfig ErrorKind = "config"

	// KindTransport marks an HTTP-layer failure: connection refused, or a
	// non-2xx status. Carries the status code and a truncated body.
	KindTransport ErrorKind = "transport"

	// KindRefusal marks an upstream refusal: HTTP 200 but no image, with a
	// human-readable explanation extracted from the response. The message
	// is surfaced verbatim and never swallowed.
	KindRefusal ErrorKind = "refusal"

	// KindTimeout marks a graph-executor job that exhausted its retry
	// budget before producing outputs.
	KindTimeout ErrorKind = "timeout"

	// KindProtocol marks a response body that could not be parsed in the
	// shape expected for its classified family. Usually a family-detection
	// mismatch or an upstream schema change.
	KindProtocol ErrorKind = "protocol"
)

// Error is the single error value returned to the orchestrator's caller.
type Error struct {
	Kind   ErrorKind
	Msg    string
	Code   int    // HTTP status code, 0 if not applicable
	Family Family // offending family, if known
	Cause  error  // underlying error
}

// Error returns the error message.
func (e *Error) Error() string {
	msg := e.Msg
	if e.Family != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Family)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether retrying the operation could plausibly
// succeed. Only transport failures qualify: network-level errors (no
// status), rate limits and server errors. The graph-executor poll loop
// uses this to keep polling through transient hiccups.
func (e *Error) Retryable() bool {
	if e.Kind != KindTransport {
		return false
	}
	return e.Code == 0 || e.Code == 429 || e.Code >= 500
}

// NewConfigError creates a configuration error.
func NewConfigError(msg string, cause error) *Error {
	return &Error{Kind: KindConfig, Msg: msg, Cause: cause}
}

// NewTransportError creates an HTTP-layer error carrying the status code.
func NewTransportError(msg string, statusCode int, cause error) *Error {
	return &Error{Kind: KindTransport, Msg: msg, Code: statusCode, Cause: cause}
}

// NewRefusalError creates an upstream-refusal error whose message is the
// extracted explanation, verbatim.
func NewRefusalError(msg string, family Family) *Error {
	return &Error{Kind: KindRefusal, Msg: msg, Family: family}
}

// NewTimeoutError creates a retry-budget-exhaustion error.
func NewTimeoutError(msg string) *Error {
	return &Error{Kind: KindTimeout, Msg: msg}
}

// NewProtocolError creates an unexpected-response-shape error naming the
// family whose parser failed.
func NewProtocolError(msg string, family Family, cause error) *Error {
	return &Error{Kind: KindProtocol, Msg: msg, Family: family, Cause: cause}
}

// KindOf returns the kind of a generation error, or "" for nil and foreign
// errors.
func KindOf(err error) ErrorKind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}

// IsConfig reports whether err is a configuration error.
func IsConfig(err error) bool { return KindOf(err) == KindConfig }

// IsTransport reports whether err is an HTTP-layer error.
func IsTransport(err error) bool { return KindOf(err) == KindTransport }

// IsRefusal reports whether err is an upstream refusal.
func IsRefusal(err error) bool { return KindOf(err) == KindRefusal }

// IsTimeout reports whether err is a poll-budget timeout.
func IsTimeout(err error) bool { return KindOf(err) == KindTimeout }

// IsProtocol reports whether err is an unexpected-response-shape error.
func IsProtocol(err error) bool { return KindOf(err) == KindProtocol }

// StatusCodeOf returns the HTTP status code from a generation error, or 0.
func StatusCodeOf(err error) int {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return 0
}

// IsRetryable reports whether err is a transient transport failure.
func IsRetryable(err error) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Retryable()
	}
	return false
}
