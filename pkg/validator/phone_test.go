package validator

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoneValidator(t *testing.T) {
	validator := NewPhoneValidator()
	assert.NotNil(t, validator)
}

func TestValidate_ValidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	validNumbers := []struct {
		input    string
		expected string
		name     string
	}{
		{"9876543210", "9876543210", "Standard format"},
		{"98765 43210", "9876543210", "With spaces"},
		{"98765-43210", "9876543210", "With dashes"},
		{"98765.43210", "9876543210", "With dots"},
		{"(98765) 43210", "9876543210", "With parentheses"},
		{"+91 98765 43210", "9876543210", "With country code and plus"},
		{"919876543210", "9876543210", "With country code"},
		{"09876543210", "9876543210", "With trunk prefix"},
		{"6123456789", "6123456789", "Series 6"},
		{"7123456789", "7123456789", "Series 7"},
		{"8123456789", "8123456789", "Series 8"},
	}

	for _, tc := range validNumbers {
		t.Run(tc.name, func(t *testing.T) {
			sanitized, err := validator.Validate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, sanitized)
		})
	}
}

func TestValidate_InvalidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	invalidNumbers := []struct {
		input       string
		expectedErr error
		name        string
	}{
		{"", ErrEmptyPhone, "Empty string"},
		{"   ", ErrEmptyPhone, "Whitespace only"},
		{"123", ErrInvalidLength, "Too short"},
		{"98765432101", ErrInvalidLength, "Too long"},
		{"5876543210", ErrInvalidPrefix, "Invalid series 5"},
		{"0123456789", ErrInvalidPrefix, "Leading zero without trunk prefix"},
		{"987654321a", ErrInvalidFormat, "Contains letters"},
		{"98765-4321!", ErrInvalidFormat, "Contains special characters"},
	}

	for _, tc := range invalidNumbers {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validator.Validate(tc.input)
			assert.Error(t, err)
			assert.Equal(t, tc.expectedErr, err)
		})
	}
}

func TestSanitize(t *testing.T) {
	validator := NewPhoneValidator()

	tests := []struct {
		input    string
		expected string
		name     string
	}{
		{"9876543210", "9876543210", "Already clean"},
		{"+919876543210", "9876543210", "Country code with plus"},
		{"09876543210", "9876543210", "Trunk prefix"},
		{"98765 - 43210", "9876543210", "Multiple separators"},
		{"  9876543210  ", "9876543210", "Surrounding spaces"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, validator.Sanitize(tc.input))
		})
	}
}

func TestFormat(t *testing.T) {
	validator := NewPhoneValidator()

	formatted, err := validator.Format("98765-43210")
	require.NoError(t, err)
	assert.Equal(t, "+91 98765 43210", formatted)

	_, err = validator.Format("invalid")
	assert.Error(t, err)
}

func TestIsValid(t *testing.T) {
	validator := NewPhoneValidator()
	assert.True(t, validator.IsValid("9876543210"))
	assert.False(t, validator.IsValid("12345"))
}

func TestMobileRule(t *testing.T) {
	type contact struct {
		Mobile  string
		Backup  *string
		Missing *string
	}

	bad := "12345"
	c := contact{Mobile: "9876543210", Backup: &bad}
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Mobile, validation.Required, MobileRule),
		validation.Field(&c.Backup, MobileRule),
		validation.Field(&c.Missing, MobileRule),
	)
	require.Error(t, err)
	errs, ok := err.(validation.Errors)
	require.True(t, ok)
	assert.Contains(t, errs, "Backup")
	assert.NotContains(t, errs, "Mobile")
	assert.NotContains(t, errs, "Missing")
}
