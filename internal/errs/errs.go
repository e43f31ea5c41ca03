package errs

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUsage      Kind = "usage"
	KindPlatform   Kind = "platform"
	KindPath       Kind = "path"
	KindValidation Kind = "validation"
	KindConfig     Kind = "config"
	KindInternal   Kind = "internal"
)

// Error is an error tagged with the kind of failure, so the command
// dispatcher can decide how to exit without inspecting messages.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func New(kind Kind, message string, cause error) error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func Usage(format string, a ...any) error {
	return New(KindUsage, fmt.Sprintf(format, a...), nil)
}

func Platform(format string, a ...any) error {
	return New(KindPlatform, fmt.Sprintf(format, a...), nil)
}

func Path(format string, a ...any) error {
	return New(KindPath, fmt.Sprintf(format, a...), nil)
}

func Validation(format string, a ...any) error {
	return New(KindValidation, fmt.Sprintf(format, a...), nil)
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
