package models

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	errBlankID        = errors.New("cannot be blank")
	errNegativeAmount = errors.New("must not be negative")
	errAmountScale    = errors.New("must have at most 8 integer digits and 2 decimal places")
)

// maxAmount bounds numeric(10,2) columns
var maxAmount = decimal.New(1, 8)

// requiredID rejects the nil UUID. validation.Required treats uuid.UUID as a
// non-empty array and lets uuid.Nil through.
var requiredID = validation.By(func(value interface{}) error {
	switch v := value.(type) {
	case uuid.UUID:
		if v == uuid.Nil {
			return errBlankID
		}
	case *uuid.UUID:
		if v != nil && *v == uuid.Nil {
			return errBlankID
		}
	}
	return nil
})

// amount validates a non-negative numeric(10,2) value
var amount = validation.By(func(value interface{}) error {
	var d decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		d = v
	case *decimal.Decimal:
		if v == nil {
			return nil
		}
		d = *v
	default:
		return nil
	}
	if d.IsNegative() {
		return errNegativeAmount
	}
	if !d.Round(2).Equal(d) || d.GreaterThanOrEqual(maxAmount) {
		return errAmountScale
	}
	return nil
})

// scanCategory reads a nullable text column
func scanCategory(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("cannot scan %T into category", value)
	}
}
