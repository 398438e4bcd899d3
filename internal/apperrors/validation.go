package apperrors

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FromValidation converts ozzo-validation output into a ValidationError.
// Internal rule failures are returned unchanged.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Message: err.Error()}
	}

	fields := make(map[string]string, len(fieldErrs))
	names := make([]string, 0, len(fieldErrs))
	for name, fieldErr := range fieldErrs {
		if fieldErr == nil {
			continue
		}
		fields[name] = fieldErr.Error()
		names = append(names, name)
	}
	sort.Strings(names)

	return &ValidationError{
		Message: "invalid fields: " + strings.Join(names, ", "),
		Fields:  fields,
	}
}
