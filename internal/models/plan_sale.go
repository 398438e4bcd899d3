package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlanSale records a plan sold for one item. Start and end dates are derived
// from the plan and item and are never accepted from callers.
type PlanSale struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	ItemID           uuid.UUID       `json:"item_id" db:"item_id"`
	PlanID           uuid.UUID       `json:"plan_id" db:"plan_id"`
	RetailerID       uuid.UUID       `json:"retailer_id" db:"retailer_id"`
	CustomerID       *uuid.UUID      `json:"customer_id,omitempty" db:"customer_id"`
	PlanPurchaseDate Date            `json:"plan_purchase_date" db:"plan_purchase_date"`
	PlanPrice        decimal.Decimal `json:"plan_price" db:"plan_price"`
	PlanStartDate    *Date           `json:"plan_start_date" db:"plan_start_date"`
	PlanEndDate      *Date           `json:"plan_end_date" db:"plan_end_date"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// CreatePlanSaleRequest represents the request to sell a plan for an item
// identified by its serial number. The customer block is optional.
type CreatePlanSaleRequest struct {
	ESNNumber        string          `json:"esn_number"`
	PlanID           uuid.UUID       `json:"plan_id"`
	PlanPurchaseDate *Date           `json:"plan_purchase_date,omitempty"`
	PlanPrice        decimal.Decimal `json:"plan_price"`
	Customer         *CustomerInput  `json:"customer,omitempty"`
}

// Validate implements validation.Validatable
func (r CreatePlanSaleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ESNNumber, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.PlanID, requiredID),
		validation.Field(&r.PlanPrice, amount),
		validation.Field(&r.Customer),
	)
}

// PurchaseDate returns the requested purchase date or today
func (r CreatePlanSaleRequest) PurchaseDate() Date {
	if r.PlanPurchaseDate == nil || r.PlanPurchaseDate.IsZero() {
		return Today()
	}
	return *r.PlanPurchaseDate
}

// UpdatePlanSaleRequest represents an update of a sale. The serial number and
// plan are always required so the assignment and item/plan checks can run.
type UpdatePlanSaleRequest struct {
	ESNNumber        string           `json:"esn_number"`
	PlanID           uuid.UUID        `json:"plan_id"`
	PlanPurchaseDate *Date            `json:"plan_purchase_date,omitempty"`
	PlanPrice        *decimal.Decimal `json:"plan_price,omitempty"`
	Customer         *CustomerInput   `json:"customer,omitempty"`
}

// Validate implements validation.Validatable
func (r UpdatePlanSaleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ESNNumber, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.PlanID, requiredID),
		validation.Field(&r.PlanPrice, amount),
		validation.Field(&r.Customer),
	)
}
