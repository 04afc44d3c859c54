package errors

import (
	stderrors "errors"
	"fmt"
)

// DomainError is an error with a stable machine-readable code. Two
// DomainErrors match under errors.Is when their codes are equal, so a
// wrapped copy still matches its sentinel.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap returns a copy of base carrying err as its cause.
func Wrap(base *DomainError, err error) *DomainError {
	return &DomainError{Code: base.Code, Message: base.Message, Err: err}
}

// Wrapf is Wrap with a formatted detail message in place of a cause.
func Wrapf(base *DomainError, format string, args ...interface{}) *DomainError {
	return Wrap(base, fmt.Errorf(format, args...))
}

// CodeOf returns the code of the first DomainError in err's chain, or "".
func CodeOf(err error) string {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Code
	}
	return ""
}
