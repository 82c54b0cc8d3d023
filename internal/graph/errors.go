package graph

import (
	"errors"
	"strings"
)

// Kind classifies facade errors.
type Kind int

const (
	KindBackend Kind = iota
	KindInvalidArgument
	KindValidation
	KindNotFound
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnsupported:
		return "unsupported"
	default:
		return "backend"
	}
}

// Error is the single error type returned across the facade boundary.
type Error struct {
	Kind    Kind
	Op      string
	ID      string
	Message string

	// InvalidKeys lists every property name rejected by a validation failure.
	InvalidKeys []string

	// Cause is the backend error, if any. Backend-native error types only
	// ever appear here.
	Cause error
}

// Error renders "<op> <id>: <message>: <cause>", omitting empty parts.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		if e.ID != "" {
			b.WriteString(" ")
			b.WriteString(e.ID)
		}
		b.WriteString(": ")
	}
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(e.Kind.String())
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same Kind, so the Err* sentinels work with
// errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

var (
	ErrBackend         = &Error{Kind: KindBackend}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrValidation      = &Error{Kind: KindValidation}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrUnsupported     = &Error{Kind: KindUnsupported}
)

// KindOf returns the Kind of the outermost *Error in err's chain. Errors that
// carry no *Error are reported as KindBackend.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindBackend
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsUnsupported(err error) bool { return errors.Is(err, ErrUnsupported) }

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// Wrap reports a backend failure for op on id with the native error as cause.
func Wrap(op, id, message string, cause error) *Error {
	return &Error{Kind: KindBackend, Op: op, ID: id, Message: message, Cause: cause}
}

// NotFound reports a missing node or edge.
func NotFound(op, id, message string) *Error {
	return &Error{Kind: KindNotFound, Op: op, ID: id, Message: message}
}

// Unsupported reports an operation the adapter does not implement.
func Unsupported(op string) *Error {
	return &Error{Kind: KindUnsupported, Op: op, Message: "operation not supported"}
}

// Invalid reports a missing required argument.
func Invalid(op, message string) *Error {
	return &Error{Kind: KindInvalidArgument, Op: op, Message: message}
}

// Validation reports a request inconsistent with the registered schemas.
func Validation(op, id, message string) *Error {
	return &Error{Kind: KindValidation, Op: op, ID: id, Message: message}
}
