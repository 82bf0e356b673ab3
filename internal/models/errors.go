package models

import (
	"errors"
)

type ErrorKind string

const (
	KindValidation ErrorKind = "ValidationError"
	KindConfig     ErrorKind = "ConfigError"
	KindConnection ErrorKind = "ConnectionError"
	KindProvider   ErrorKind = "ProviderError"
	KindParse      ErrorKind = "ParseError"
)

// Error carries one of the ErrorKind values through wrapping.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func NewError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of the first *Error in err's chain. Untyped errors
// count as ProviderError: they come from a backend SDK we could not classify.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindProvider
}

// MessageOf returns the user-facing message for err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
