// Package apperr defines the error kinds surfaced to the user interface.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for rendering and status mapping.
type Kind string

const (
	KindInvalidInput    Kind = "invalid_input"
	KindTimeout         Kind = "timeout"
	KindNotFound        Kind = "not_found"
	KindRequestFailed   Kind = "request_failed"
	KindClipboardFailed Kind = "clipboard_failed"
)

// Sentinels for errors.Is checks against a kind.
var (
	ErrInvalidInput    = &Error{Kind: KindInvalidInput}
	ErrTimeout         = &Error{Kind: KindTimeout}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrRequestFailed   = &Error{Kind: KindRequestFailed}
	ErrClipboardFailed = &Error{Kind: KindClipboardFailed}
)

// Error carries a user-facing message together with its kind.
// Message is shown verbatim; Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// New builds an Error of the given kind.
func New(kind Kind, op, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

func InvalidInput(op, message string) *Error {
	return New(KindInvalidInput, op, message, nil)
}

func Timeout(op string, err error) *Error {
	return New(KindTimeout, op, "Request timeout", err)
}

func NotFound(op, message string, status int) *Error {
	e := New(KindNotFound, op, message, nil)
	e.Status = status
	return e
}

func RequestFailed(op, message string, status int, err error) *Error {
	e := New(KindRequestFailed, op, message, err)
	e.Status = status
	return e
}

func ClipboardFailed(op string, err error) *Error {
	return New(KindClipboardFailed, op, "Error while copying", err)
}

// KindOf returns the kind of err, or an empty Kind for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// MessageOf returns the user-facing message of err, or fallback when err
// carries none.
func MessageOf(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
