package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of calendar dates (booking dates).
const DateLayout = "2006-01-02"

var (
	// Validate is the global validator instance
	Validate *validator.Validate

	yearRegex = regexp.MustCompile(`^\d{4}$`)
)

func init() {
	Validate = validator.New()

	// Register custom validators
	_ = Validate.RegisterValidation("accepted", validateAccepted)
	_ = Validate.RegisterValidation("year4", validateYear4)
	_ = Validate.RegisterValidation("isodate", validateISODate)
}

// ValidationError collects per-field messages.
type ValidationError struct {
	Errors map[string]string
}

// NewValidationError converts validator errors into field -> message pairs.
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	ve := &ValidationError{Errors: make(map[string]string, len(errs))}
	for _, fe := range errs {
		ve.AddError(fieldName(fe), describe(fe))
	}
	return ve
}

// AddError records a message for field, keeping the first one.
func (e *ValidationError) AddError(field, message string) {
	if e.Errors == nil {
		e.Errors = make(map[string]string)
	}
	if _, exists := e.Errors[field]; !exists {
		e.Errors[field] = message
	}
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e.Errors[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ValidateStruct validates a struct and returns a ValidationError if validation fails
func ValidateStruct(s interface{}) error {
	err := Validate.Struct(s)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewValidationError(validationErrors)
		}
		return err
	}
	return nil
}

// CheckVar validates a single value against a tag. It returns the tag that
// failed, or "" when the value passes.
func CheckVar(value interface{}, tag string) (string, error) {
	if tag == "" {
		return "", nil
	}

	err := Validate.Var(value, tag)
	if err == nil {
		return "", nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return validationErrors[0].Tag(), nil
	}
	return "", fmt.Errorf("invalid rule %q: %w", tag, err)
}

// validateAccepted requires a boolean true, e.g. a terms checkbox
func validateAccepted(fl validator.FieldLevel) bool {
	field := fl.Field()
	return field.IsValid() && field.Kind() == reflect.Bool && field.Bool()
}

// validateYear4 checks for a four digit year string
func validateYear4(fl validator.FieldLevel) bool {
	return yearRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

// validateISODate checks for a YYYY-MM-DD calendar date
func validateISODate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return fe.Namespace()
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte", "min":
		return "must be at least " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
