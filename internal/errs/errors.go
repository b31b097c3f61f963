// Package errs provides the unified error type used across all of dialectdb.
//
// Every subsystem (introspection backends, cache stores, server, …) wraps its
// native errors into *errs.Error before returning them. Callers use the Is*
// predicates to handle errors without importing driver-specific packages.
//
// Usage:
//
//	// In a backend — wrap native errors:
//	return errs.Wrap(errs.ErrKindBackendUnavailable, "describe table failed", pgErr)
//
//	// In a handler — check error kind:
//	if errs.IsNotFound(err) {
//	    http.Error(w, "not found", http.StatusNotFound)
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing driver-specific codes.
// All backends (Postgres, MySQL, SQLite, MinIO, …) map their native errors
// to one of these kinds, giving callers a single consistent API.
type ErrKind int

const (
	ErrKindUnknown            ErrKind = iota
	ErrKindNotFound                   // table, schema, or view does not exist
	ErrKindBackendUnavailable         // cannot reach the engine, or it returned garbage
	ErrKindUnsupported                // operation undefined for the active dialect
	ErrKindConfiguration              // bad dialect tag, malformed raw table name, …
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindBackendUnavailable:
		return "backend_unavailable"
	case ErrKindUnsupported:
		return "unsupported"
	case ErrKindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all dialectdb subsystems.
// Backends produce it; callers inspect it via the Is* predicates below.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf creates an *Error with a formatted message and no cause.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsNotFound reports whether err represents a "not found" result
// (missing table, unknown schema, dropped view, …).
func IsNotFound(err error) bool {
	return kindOf(err) == ErrKindNotFound
}

// IsBackendUnavailable reports whether err means the introspection backend
// could not be reached or produced a malformed result.
func IsBackendUnavailable(err error) bool {
	return kindOf(err) == ErrKindBackendUnavailable
}

// IsUnsupported reports whether err marks an operation the active dialect
// does not define (e.g. schema enumeration on SQLite).
func IsUnsupported(err error) bool {
	return kindOf(err) == ErrKindUnsupported
}

// IsConfiguration reports whether err was caused by invalid configuration
// or a malformed identifier from the caller.
func IsConfiguration(err error) bool {
	return kindOf(err) == ErrKindConfiguration
}

// kindOf extracts the ErrKind from any error in the chain.
func kindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
