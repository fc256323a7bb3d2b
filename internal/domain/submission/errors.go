package submission

import (
	"errors"
	"strings"
)

var (
	ErrNotFound     = errors.New("submission not found")
	ErrDuplicateUID = errors.New("external uid already exists")
)

// FieldError is a message attached to one input field. Entry fields use
// indexed paths such as "bot_entries[2].amount".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every problem found in one payload. It is always
// recoverable: callers re-present it next to the original input.
type ValidationError struct {
	Fields []FieldError `json:"details,omitempty"`
	Form   []string     `json:"form_errors,omitempty"`

	cause error
}

// NewDuplicateUIDError reports a uid collision as a field error on external_uid.
func NewDuplicateUIDError() *ValidationError {
	return &ValidationError{
		Fields: []FieldError{{Field: "external_uid", Message: "UID already exists. Please use a unique UID."}},
		cause:  ErrDuplicateUID,
	}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields)+len(e.Form))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	parts = append(parts, e.Form...)
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.cause }

// Empty reports whether nothing has been recorded yet.
func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 && len(e.Form) == 0 }

func (e *ValidationError) AddField(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

func (e *ValidationError) AddForm(msg string) { e.Form = append(e.Form, msg) }

// HasField reports whether any error is attached to field.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
