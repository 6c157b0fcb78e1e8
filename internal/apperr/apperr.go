// Package apperr defines the error taxonomy shared by every Mosaic
// component. Errors carry a Kind (a stable machine-readable category)
// plus a human-readable message, and compose with the standard
// errors.Is/errors.As machinery.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the stable categories exposed
// to MCP callers.
type Kind string

const (
	// InvalidArgument means a shape, value-range, or semantic
	// precondition was violated by the caller.
	InvalidArgument Kind = "invalid_argument"

	// NotFound means a referenced entity does not exist.
	NotFound Kind = "not_found"

	// Conflict means a unique or semantic constraint was violated.
	Conflict Kind = "conflict"

	// PermissionDenied is reserved for future multi-user use.
	PermissionDenied Kind = "permission_denied"

	// DeliveryFailed means the notification bridge exhausted retries.
	DeliveryFailed Kind = "delivery_failed"

	// Internal means an unexpected storage, serialization, or
	// dependency failure.
	Internal Kind = "internal"
)

// Error is a kinded error. The zero value is not meaningful; construct
// with New, Newf, or Wrap.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality, so errors.Is(err, apperr.New(apperr.NotFound, ""))
// style sentinels work. Comparing against another *Error matches on Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// New builds an error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error. A nil err
// returns nil.
func Wrap(kind Kind, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the Kind of err, defaulting to Internal for errors
// that did not originate in this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
