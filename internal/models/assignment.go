package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// ManagerAssignment grants a manager visibility over a (store, plan) pair
type ManagerAssignment struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ManagerID uuid.UUID  `json:"manager_id" db:"manager_id"`
	PlanID    uuid.UUID  `json:"plan_id" db:"plan_id"`
	StoreID   *uuid.UUID `json:"store_id,omitempty" db:"store_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// RetailerAssignment grants a retailer authority over a (store, plan) pair
type RetailerAssignment struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	RetailerID uuid.UUID  `json:"retailer_id" db:"retailer_id"`
	PlanID     uuid.UUID  `json:"plan_id" db:"plan_id"`
	StoreID    *uuid.UUID `json:"store_id,omitempty" db:"store_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// ManagerAssignmentRequest is the payload for creating or updating a manager assignment
type ManagerAssignmentRequest struct {
	ManagerID uuid.UUID  `json:"manager_id"`
	PlanID    uuid.UUID  `json:"plan_id"`
	StoreID   *uuid.UUID `json:"store_id,omitempty"`
}

// Validate implements validation.Validatable
func (r ManagerAssignmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ManagerID, requiredID),
		validation.Field(&r.PlanID, requiredID),
		validation.Field(&r.StoreID, requiredID),
	)
}

// RetailerAssignmentRequest is the payload for creating or updating a retailer assignment
type RetailerAssignmentRequest struct {
	RetailerID uuid.UUID  `json:"retailer_id"`
	PlanID     uuid.UUID  `json:"plan_id"`
	StoreID    *uuid.UUID `json:"store_id,omitempty"`
}

// Validate implements validation.Validatable
func (r RetailerAssignmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RetailerID, requiredID),
		validation.Field(&r.PlanID, requiredID),
		validation.Field(&r.StoreID, requiredID),
	)
}
