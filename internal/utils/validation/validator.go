// Package validation collects field-level input errors.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validator accumulates every failed check so callers can report all
// problems of one record at once.
type Validator struct {
	Errors []FieldError
}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.Errors = append(v.Errors, FieldError{Field: field, Message: message})
	}
}

func (v *Validator) Required(value, field string) {
	v.Check(strings.TrimSpace(value) != "", field, "is required")
}

func (v *Validator) Email(value, field string) {
	v.Check(emailRegex.MatchString(value), field, "must be a valid email address")
}

func (v *Validator) Between(value, lo, hi int, field string) {
	v.Check(value >= lo && value <= hi, field, fmt.Sprintf("must be between %d and %d", lo, hi))
}

// Err joins the collected errors into one, or returns nil.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	msgs := make([]string, len(v.Errors))
	for i, e := range v.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}
