package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"subsidy-intake/internal/domain/submission"
)

// Reusable error payload
type FieldError = submission.FieldError

type ErrorResponse struct {
	Error      string       `json:"error"`
	Details    []FieldError `json:"details,omitempty"`
	FormErrors []string     `json:"form_errors,omitempty"`
	Notice     string       `json:"notice,omitempty"`
	Redirect   string       `json:"redirect,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// rejects whitespace-only input that "required" lets through
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required", "notblank":
			out = append(out, FieldError{Field: field, Message: "This field is required."})
		case "max":
			out = append(out, FieldError{Field: field, Message: "Must be at most " + e.Param() + " characters."})
		case "min":
			out = append(out, FieldError{Field: field, Message: "Must be at least " + e.Param() + " characters."})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
