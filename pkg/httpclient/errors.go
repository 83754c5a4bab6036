package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Kind classifies a request failure. The taxonomy is shared by every layer
// above the transport; the retry policy and the feed error messages key off it.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidURL
	KindRequestFailed
	KindInvalidResponse
	KindHTTPError
	KindNoData
	KindDecodingFailed
	KindUnauthorized
	KindServerError
	KindConnectionError
	KindTimeoutError
)

// String returns a short stable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindRequestFailed:
		return "request_failed"
	case KindInvalidResponse:
		return "invalid_response"
	case KindHTTPError:
		return "http_error"
	case KindNoData:
		return "no_data"
	case KindDecodingFailed:
		return "decoding_failed"
	case KindUnauthorized:
		return "unauthorized"
	case KindServerError:
		return "server_error"
	case KindConnectionError:
		return "connection_error"
	case KindTimeoutError:
		return "timeout_error"
	default:
		return "unknown"
	}
}

// Error is the typed failure produced by the transport and propagated
// unchanged through the upper layers.
type Error struct {
	Kind       Kind
	StatusCode int
	Body       []byte
	cause      error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindHTTPError:
		return fmt.Sprintf("%s: status %d: %s", e.Kind, e.StatusCode, bodySnippet(e.Body))
	case e.cause != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.cause)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.cause }

// NewError builds a bare typed error for the given kind.
func NewError(kind Kind) *Error { return &Error{Kind: kind} }

// WrapError attaches a cause to a typed error.
func WrapError(kind Kind, cause error) *Error { return &Error{Kind: kind, cause: cause} }

// NewHTTPError builds the catch-all non-2xx error carrying status and body.
func NewHTTPError(statusCode int, body []byte) *Error {
	return &Error{Kind: KindHTTPError, StatusCode: statusCode, Body: body}
}

// KindOf extracts the taxonomy kind from any error in the chain.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindUnknown
}

// Retryable reports whether the error is transient enough to reissue the
// request: connection drops, timeouts and 5xx responses only.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindConnectionError, KindTimeoutError, KindServerError:
		return true
	default:
		return false
	}
}

// ClassifyTransportError maps a transport-level failure (dial, DNS, timeout,
// dropped connection) onto the taxonomy. Errors already typed pass through.
func ClassifyTransportError(err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return WrapError(KindTimeoutError, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return WrapError(KindTimeoutError, err)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return WrapError(KindConnectionError, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return WrapError(KindConnectionError, err)
	}
	if strings.Contains(err.Error(), "connection refused") || strings.Contains(err.Error(), "connection reset") {
		return WrapError(KindConnectionError, err)
	}

	return WrapError(KindRequestFailed, err)
}

func bodySnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
