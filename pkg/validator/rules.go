package validator

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var defaultPhoneValidator = NewPhoneValidator()

// MobileRule is an ozzo-validation rule for mobile numbers. Empty and nil values
// pass; combine with validation.Required when the field is mandatory.
var MobileRule = validation.By(func(value interface{}) error {
	s, ok := stringValue(value)
	if !ok {
		return nil
	}
	_, err := defaultPhoneValidator.Validate(s)
	return err
})

// GSTRule is an ozzo-validation rule for GST numbers. Empty and nil values pass.
var GSTRule = validation.By(func(value interface{}) error {
	s, ok := stringValue(value)
	if !ok {
		return nil
	}
	_, err := ValidateGST(s)
	return err
})

func stringValue(value interface{}) (string, bool) {
	value, isNil := validation.Indirect(value)
	if isNil || validation.IsEmpty(value) {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}
