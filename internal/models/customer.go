package models

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/plancare/plansale-backend/pkg/validator"
)

var phoneValidator = validator.NewPhoneValidator()

// Customer buys plans. Records are reused only on an exact match of all four fields.
type Customer struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	Address     string    `json:"address" db:"address"`
	PhoneNumber string    `json:"phone_number" db:"phone_number"`
}

// CustomerInput is the customer block of a plan sale payload
type CustomerInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

// Validate implements validation.Validatable
func (c CustomerInput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&c.Email, validation.Required, is.EmailFormat),
		validation.Field(&c.Address, validation.Required),
		validation.Field(&c.PhoneNumber, validation.Required, validator.MobileRule),
	)
}

// ToCustomer builds a new Customer. Text fields are trimmed and the phone
// number reduced to its ten digits; nothing else is normalised.
func (c CustomerInput) ToCustomer() *Customer {
	return &Customer{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(c.Name),
		Email:       strings.TrimSpace(c.Email),
		Address:     strings.TrimSpace(c.Address),
		PhoneNumber: phoneValidator.Sanitize(c.PhoneNumber),
	}
}
