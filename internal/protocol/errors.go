package protocol

import (
	"errors"
	"fmt"
)

// Kind classifies a handler failure. The kind is prefixed onto the wire
// error string so clients can branch on the class without parsing prose.
type Kind string

const (
	KindValidation      Kind = "ValidationError"
	KindNotFound        Kind = "NotFound"
	KindNotADirectory   Kind = "NotADirectory"
	KindPermission      Kind = "PermissionDenied"
	KindDecode          Kind = "DecodeError"
	KindDisk            Kind = "DiskError"
	KindExecution       Kind = "ExecutionError"
	KindTimeout         Kind = "Timeout"
	KindExternalService Kind = "ExternalServiceError"
	KindInternal        Kind = "InternalError"
)

// Error is a classified handler error. It wraps an optional cause so
// callers can still errors.Is/As through it.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// E builds a classified error with a formatted message.
func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error, keeping it available for unwrapping.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf extracts the classification from err, defaulting to KindInternal
// for anything that was never classified at a handler boundary.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}
