package app

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures returned by the cycle service.
type ErrorKind string

const (
	KindMissingUser  ErrorKind = "missing-user"
	KindRemote       ErrorKind = "remote"
	KindInvalidInput ErrorKind = "invalid-input"
)

// Error is the uniform failure result of a cycle service operation.
// Message is safe to show to the user.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNoUser) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// ErrNoUser is returned when no authenticated identity is on the context.
var ErrNoUser = &Error{Kind: KindMissingUser, Message: "no authenticated user"}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// userMessager is implemented by collaborator errors that carry a
// service-provided, human-readable message.
type userMessager interface {
	UserMessage() string
}

// MessageOf returns the user-facing text for err.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	var m userMessager
	if errors.As(err, &m) && m.UserMessage() != "" {
		return m.UserMessage()
	}
	return err.Error()
}

// remoteError converts a store failure. The store's own message is kept.
func remoteError(err error) *Error {
	return &Error{Kind: KindRemote, Message: MessageOf(err), Err: err}
}
