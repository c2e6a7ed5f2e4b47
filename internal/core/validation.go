package core

// validation.go checks conversion Options before any input is read.
//
// Field rules live in validate struct tags on Options. The "delimiter" tag
// is registered here and accepts the characters cell.ParseDelimiter knows.
// Failures come back as ValidationErrors, which unwrap to ErrInvalidOptions.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/tidysheet/internal/cell"
)

// ValidationError describes one rejected option.
type ValidationError struct {
	Field   string `json:"field"`   // Option name
	Value   string `json:"value"`   // The rejected value
	Message string `json:"message"` // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationErrors is every rejected option of one request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("%s: %s", ErrInvalidOptions, strings.Join(messages, "; "))
}

// Unwrap lets errors.Is match ErrInvalidOptions.
func (v ValidationErrors) Unwrap() error {
	return ErrInvalidOptions
}

// OptionsValidator validates Options.
type OptionsValidator struct {
	validate *validator.Validate
}

// NewOptionsValidator builds a validator with the custom tags registered.
func NewOptionsValidator() *OptionsValidator {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("delimiter", validateDelimiter)
	return &OptionsValidator{validate: v}
}

func validateDelimiter(fl validator.FieldLevel) bool {
	_, ok := cell.ParseDelimiter(fl.Field().String())
	return ok
}

// Validate returns nil or ValidationErrors.
func (v *OptionsValidator) Validate(opts Options) error {
	err := v.validate.Struct(opts)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return translateValidationErrors(fieldErrs)
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, 0, len(errs))
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		message := err.Error()

		switch err.Tag() {
		case "max":
			message = fmt.Sprintf("must be at most %s characters", err.Param())
		case "lte":
			message = fmt.Sprintf("must be at most %s", err.Param())
		case "gte":
			message = fmt.Sprintf("must be at least %s", err.Param())
		case "oneof":
			message = fmt.Sprintf("must be one of: %s", strings.ReplaceAll(err.Param(), " ", ", "))
		case "delimiter":
			message = "must be one of: comma, semicolon, tab, broken bar (¦)"
		}

		out = append(out, ValidationError{
			Field:   field,
			Value:   fmt.Sprint(err.Value()),
			Message: message,
		})
	}
	return out
}
