package core

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	InvalidCount            ErrorKind = "InvalidCount"
	InvalidField            ErrorKind = "InvalidField"
	InvalidBurst            ErrorKind = "InvalidBurst"
	CollaboratorUnavailable ErrorKind = "CollaboratorUnavailable"
	CollaboratorError       ErrorKind = "CollaboratorError"
	NonMonotonicInput       ErrorKind = "NonMonotonicInput"
	DegenerateRange         ErrorKind = "DegenerateRange"
)

// Sentinels for errors.Is. Matching compares kinds only.
var (
	ErrInvalidCount            = &Error{Kind: InvalidCount}
	ErrInvalidField            = &Error{Kind: InvalidField}
	ErrInvalidBurst            = &Error{Kind: InvalidBurst}
	ErrCollaboratorUnavailable = &Error{Kind: CollaboratorUnavailable}
	ErrCollaboratorError       = &Error{Kind: CollaboratorError}
	ErrNonMonotonicInput       = &Error{Kind: NonMonotonicInput}
	ErrDegenerateRange         = &Error{Kind: DegenerateRange}
)

// Error is the tagged failure that crosses the core/presentation boundary.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	PID     int       `json:"pid,omitempty"`
	Err     error     `json:"-"`
}

func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewProcessError is NewError for failures tied to one process.
func NewProcessError(kind ErrorKind, pid int, format string, args ...interface{}) *Error {
	e := NewError(kind, format, args...)
	e.PID = pid
	return e
}

// WrapError tags err with kind, keeping it reachable through errors.Unwrap.
func WrapError(kind ErrorKind, err error, format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg += ": " + err.Error()
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Validation reports whether the error was raised before any collaborator call.
func (e *Error) Validation() bool {
	switch e.Kind {
	case InvalidCount, InvalidField, InvalidBurst:
		return true
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// AsError converts any error into a tagged *Error, defaulting to fallback.
func AsError(err error, fallback ErrorKind) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: fallback, Message: err.Error(), Err: err}
}
