// internal/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so that callers can react without string matching.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindStore         Kind = "store"
	KindConfiguration Kind = "configuration"
)

// Error is the typed failure returned across service boundaries.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports caller input the operation refuses to process.
func Validation(op, message string) error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

// NotFound reports that the requested record does not exist.
func NotFound(op, message string) error {
	return &Error{Kind: KindNotFound, Op: op, Message: message}
}

// Conflict reports a request that no longer matches current state and can be
// retried once the caller has refreshed its view.
func Conflict(op, message string) error {
	return &Error{Kind: KindConflict, Op: op, Message: message}
}

// Store wraps a failure of the external data store. It is never used for "no rows".
func Store(op string, err error) error {
	return &Error{Kind: KindStore, Op: op, Message: "data store failure", Err: err}
}

// Configuration reports a missing or invalid setting detected at startup.
func Configuration(message string) error {
	return &Error{Kind: KindConfiguration, Op: "config", Message: message}
}

// KindOf returns the kind of the first *Error in the chain, or "" when err is untyped.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func IsValidation(err error) bool { return IsKind(err, KindValidation) }

func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }

func IsConflict(err error) bool { return IsKind(err, KindConflict) }

func IsStore(err error) bool { return IsKind(err, KindStore) }

// Message returns the human readable part of an *Error without op or kind prefixes.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
