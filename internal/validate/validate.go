// Package validate provides input validation for the cortex CLI.
//
// Validation is built on go-playground/validator so that struct tags on
// persisted types (profiles) and ad hoc field checks (flag values, IDs) share
// one rule set and one error style.
//
// VALIDATION COVERAGE:
//   - Profiles: URL, account and username presence and format
//   - Names: profile names stored as keys in the profile file
//   - Identifiers: job and task IDs substituted into API paths
//   - Flags: timeouts and enumerated flag values
package validate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// Global validator instance using built-in validations
	validate *validator.Validate
)

func init() {
	validate = validator.New()
}

// ValidateField validates a single value against validator tags.
//
// Example: ValidateField("https://api.example.com", "required,url")
func ValidateField(value any, tag string) error {
	return validate.Var(value, tag)
}

// ValidateStruct validates a tagged struct and flattens validator's field
// errors into one readable message listing each offending field.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// describeFieldError renders one validator failure using the field's
// lower-cased name so it matches the flag the user typed.
func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url", "http_url":
		return fmt.Sprintf("%s must be a valid URL, got '%v'", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got '%v'", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed '%s' validation", field, fe.Tag())
	}
}

// ValidateRequiredString validates that a string field is not empty.
func ValidateRequiredString(value, fieldName string) error {
	if err := ValidateField(strings.TrimSpace(value), "required"); err != nil {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidatePositiveTimeout validates that a timeout duration is positive (> 0).
func ValidatePositiveTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}

// ValidateOneOf validates that value is one of the allowed strings.
func ValidateOneOf(value, name string, allowed ...string) error {
	if err := ValidateField(value, "oneof="+strings.Join(allowed, " ")); err != nil {
		return fmt.Errorf("invalid %s '%s' - valid values are: %s", name, value, strings.Join(allowed, ", "))
	}
	return nil
}
