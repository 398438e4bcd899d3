package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// PartnerItem associates a partner with an item in its catalogue
type PartnerItem struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	PartnerID uuid.UUID  `json:"partner_id" db:"partner_id"`
	ItemID    uuid.UUID  `json:"item_id" db:"item_id"`
	StoreID   *uuid.UUID `json:"store_id,omitempty" db:"store_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// PartnerPlan associates a partner with a plan
type PartnerPlan struct {
	ID        uuid.UUID `json:"id" db:"id"`
	PartnerID uuid.UUID `json:"partner_id" db:"partner_id"`
	PlanID    uuid.UUID `json:"plan_id" db:"plan_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PartnerItemRequest is the payload for creating or updating a partner item
type PartnerItemRequest struct {
	PartnerID uuid.UUID  `json:"partner_id"`
	ItemID    uuid.UUID  `json:"item_id"`
	StoreID   *uuid.UUID `json:"store_id,omitempty"`
}

// Validate implements validation.Validatable
func (r PartnerItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PartnerID, requiredID),
		validation.Field(&r.ItemID, requiredID),
		validation.Field(&r.StoreID, requiredID),
	)
}

// PartnerPlanRequest is the payload for creating or updating a partner plan
type PartnerPlanRequest struct {
	PartnerID uuid.UUID `json:"partner_id"`
	PlanID    uuid.UUID `json:"plan_id"`
}

// Validate implements validation.Validatable
func (r PartnerPlanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PartnerID, requiredID),
		validation.Field(&r.PlanID, requiredID),
	)
}
