package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that branch on failure class
// rather than message text.
type Kind string

const (
	KindDataLoad      Kind = "data_load"
	KindInvalidAmount Kind = "invalid_amount"
	KindInvalidType   Kind = "invalid_type"
	KindNotFound      Kind = "not_found"
	KindTransaction   Kind = "transaction"
	KindUnexpected    Kind = "unexpected"
)

// Error is the single error type crossing controller and service
// boundaries. It carries a Kind, a user-presentable message and an
// optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two *Error values by Kind so sentinel-style checks work:
// errors.Is(err, apperrors.DataLoad("")) is true for any data-load error.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func DataLoad(message string) *Error {
	return New(KindDataLoad, message)
}

func InvalidAmount(message string) *Error {
	return New(KindInvalidAmount, message)
}

func InvalidType(message string) *Error {
	return New(KindInvalidType, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Transaction(message string) *Error {
	return New(KindTransaction, message)
}

func Unexpected(message string) *Error {
	return New(KindUnexpected, message)
}

// KindOf extracts the Kind from any error, defaulting to KindUnexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// UserMessage returns the presentable message of an error, falling back
// to a generic string for errors that never got classified.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "An unexpected error occurred"
}
