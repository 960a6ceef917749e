package assistant

import "errors"

// ErrorKind classifies client errors for surface layers.
type ErrorKind string

const (
	KindInvalidInput      ErrorKind = "invalid_input"
	KindCompletionFailure ErrorKind = "completion_failure"
)

// Error carries a user-safe message and the underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err when it is an *Error, or "" otherwise.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
