package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a use case matches exactly one of them
// with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation error")
)

// Error carries a kind, the failing operation and a message that is safe to
// show to the caller.
type Error struct {
	Op      string
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

func (e *Error) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	return e.Err != nil && errors.Is(e.Err, target)
}

func NewError(op string, kind error, message string) *Error {
	return &Error{Op: op, Kind: kind, Message: message}
}

func WrapError(op string, kind error, message string, err error) *Error {
	return &Error{Op: op, Kind: kind, Message: message, Err: err}
}

// Validation builds an ErrValidation error for a malformed input.
func Validation(op, message string) *Error {
	return NewError(op, ErrValidation, message)
}

// KindOf returns the kind of err, or nil when err carries none.
func KindOf(err error) error {
	for _, kind := range []error{ErrUnauthorized, ErrForbidden, ErrNotFound, ErrInvalidState, ErrConflict, ErrValidation} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Message returns the caller-facing text of err.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

var (
	ErrUserNotFound        = NewError("user.Find", ErrNotFound, "user not found")
	ErrAdminOnly           = NewError("auth.Authorize", ErrForbidden, "admin role required")
	ErrNoSession           = NewError("auth.Authenticate", ErrUnauthorized, "authentication required")
	ErrCourseNotFound      = NewError("course.Find", ErrNotFound, "course not found")
	ErrLessonNotFound      = NewError("lesson.Find", ErrNotFound, "lesson not found")
	ErrCourseNotEnrollable = NewError("enrollment.Create", ErrInvalidState, "course not enrollable")
	ErrAlreadyEnrolled     = NewError("enrollment.Create", ErrConflict, "already enrolled")
	ErrEnrollmentNotFound  = NewError("enrollment.Find", ErrNotFound, "enrollment not found")
	ErrEnrollmentDropped   = NewError("progress.Set", ErrInvalidState, "enrollment is not active")
	ErrAlreadyDropped      = NewError("enrollment.Cancel", ErrConflict, "enrollment already dropped")
	ErrObjectNotFound      = NewError("media.Get", ErrNotFound, "file not found")
)
