package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput     = errors.New("Given Param is not valid")
	ErrUnsupportedSchema = errors.New("Unsupported schema")
	ErrInvalidAddress    = errors.New("Invalid address")
	ErrQueueClosed       = errors.New("queue closed")

	// relay taxonomy
	ErrMalformedPayload = errors.New("malformed payload")
	ErrFetchFailed      = errors.New("fetch failed")
	ErrParseFailed      = errors.New("parse failed")
	ErrSubmitFailed     = errors.New("submit failed")
	ErrBadTokenId       = errors.New("bad token id")
	ErrTimeout          = errors.New("timeout")
	ErrUnknownSource    = errors.New("unknown source chain")
	ErrUntrustedEmitter = errors.New("untrusted emitter")
	// ErrAbandoned marks a message that used up its dispatch attempts
	ErrAbandoned = errors.New("message abandoned")
)

// DecodeError is fatal for the message, the payload is never partially decoded.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return ErrMalformedPayload
}

type ResolveErrorKind int

const (
	ResolveFetchFailed ResolveErrorKind = iota + 1
	ResolveParseFailed
)

type ResolveError struct {
	Kind ResolveErrorKind
	// StatusCode is 0 when no response was received
	StatusCode int
	Url        string
	Cause      error
}

func (e *ResolveError) Error() string {
	switch e.Kind {
	case ResolveFetchFailed:
		if e.StatusCode != 0 {
			return fmt.Sprintf("fetch %s: status %d", e.Url, e.StatusCode)
		}
		return fmt.Sprintf("fetch %s: %v", e.Url, e.Cause)
	default:
		return fmt.Sprintf("parse metadata: %v", e.Cause)
	}
}

func (e *ResolveError) Unwrap() error {
	if e.Kind == ResolveFetchFailed {
		return ErrFetchFailed
	}
	return ErrParseFailed
}

func (e *ResolveError) Is(target error) bool {
	return e.Cause != nil && errors.Is(e.Cause, target)
}

type ExecErrorKind int

const (
	ExecSubmitFailed ExecErrorKind = iota + 1
	ExecBadTokenId
	ExecTimeout
)

type ExecError struct {
	Kind  ExecErrorKind
	Cause error
}

func (e *ExecError) Error() string {
	var kind string
	switch e.Kind {
	case ExecBadTokenId:
		kind = "bad token id"
	case ExecTimeout:
		kind = "timeout"
	default:
		kind = "submit failed"
	}
	if e.Cause == nil {
		return kind
	}
	return fmt.Sprintf("%s: %v", kind, e.Cause)
}

func (e *ExecError) Unwrap() error {
	switch e.Kind {
	case ExecBadTokenId:
		return ErrBadTokenId
	case ExecTimeout:
		return ErrTimeout
	}
	return ErrSubmitFailed
}

func (e *ExecError) Is(target error) bool {
	return e.Cause != nil && errors.Is(e.Cause, target)
}

// IsTerminal reports whether a dispatch failure must not be retried.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrMalformedPayload) ||
		errors.Is(err, ErrUnknownSource) ||
		errors.Is(err, ErrUntrustedEmitter) ||
		errors.Is(err, ErrAbandoned)
}
