package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// PlanCategory selects the rule used to derive a sale's coverage dates
type PlanCategory string

const (
	PlanCategoryExtendedWarranty PlanCategory = "extended_warranty"
	PlanCategoryScreenProtection PlanCategory = "screen_protection"
	PlanCategoryADLD             PlanCategory = "adld"
	PlanCategoryCompleteCare     PlanCategory = "complete_care"
	PlanCategoryService          PlanCategory = "service"
)

// PlanCategories lists every valid plan category
var PlanCategories = []interface{}{
	PlanCategoryExtendedWarranty,
	PlanCategoryScreenProtection,
	PlanCategoryADLD,
	PlanCategoryCompleteCare,
	PlanCategoryService,
}

// Scan implements sql.Scanner. A NULL category reads as the empty category,
// which has no date rule.
func (c *PlanCategory) Scan(value interface{}) error {
	s, err := scanCategory(value)
	*c = PlanCategory(s)
	return err
}

// Plan is a protection plan offered for one item
type Plan struct {
	ID                 uuid.UUID    `json:"id" db:"id"`
	ItemID             uuid.UUID    `json:"item_id" db:"item_id"`
	Category           PlanCategory `json:"category" db:"category"`
	DurationMonths     int          `json:"duration_months" db:"duration_months"`
	IsActive           bool         `json:"is_active" db:"is_active"`
	AssignedRetailerID *uuid.UUID   `json:"assigned_retailer_id,omitempty" db:"assigned_retailer_id"`
	CreatedBy          *uuid.UUID   `json:"created_by,omitempty" db:"created_by"`
	ModifiedBy         *uuid.UUID   `json:"modified_by,omitempty" db:"modified_by"`
	CreatedAt          time.Time    `json:"created_at" db:"created_at"`
	ModifiedAt         time.Time    `json:"modified_at" db:"modified_at"`
}

// CreatePlanRequest represents the request to create a plan
type CreatePlanRequest struct {
	ItemID             uuid.UUID    `json:"item_id"`
	Category           PlanCategory `json:"category"`
	DurationMonths     int          `json:"duration_months"`
	IsActive           *bool        `json:"is_active,omitempty"`
	AssignedRetailerID *uuid.UUID   `json:"assigned_retailer_id,omitempty"`
}

// Validate implements validation.Validatable
func (r CreatePlanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ItemID, requiredID),
		validation.Field(&r.Category, validation.Required, validation.In(PlanCategories...)),
		validation.Field(&r.DurationMonths, validation.Required, validation.Min(1), validation.Max(120)),
		validation.Field(&r.AssignedRetailerID, requiredID),
	)
}

// ToPlan builds a Plan created by the given principal
func (r CreatePlanRequest) ToPlan(createdBy uuid.UUID) *Plan {
	plan := &Plan{
		ID:                 uuid.New(),
		ItemID:             r.ItemID,
		Category:           r.Category,
		DurationMonths:     r.DurationMonths,
		IsActive:           true,
		AssignedRetailerID: r.AssignedRetailerID,
		CreatedBy:          &createdBy,
		ModifiedBy:         &createdBy,
	}
	if r.IsActive != nil {
		plan.IsActive = *r.IsActive
	}
	return plan
}

// UpdatePlanRequest represents a partial plan update
type UpdatePlanRequest struct {
	ItemID             *uuid.UUID    `json:"item_id,omitempty"`
	Category           *PlanCategory `json:"category,omitempty"`
	DurationMonths     *int          `json:"duration_months,omitempty"`
	IsActive           *bool         `json:"is_active,omitempty"`
	AssignedRetailerID *uuid.UUID    `json:"assigned_retailer_id,omitempty"`
}

// Validate implements validation.Validatable
func (r UpdatePlanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ItemID, requiredID),
		validation.Field(&r.Category, validation.NilOrNotEmpty, validation.In(PlanCategories...)),
		validation.Field(&r.DurationMonths, validation.Min(1), validation.Max(120)),
		validation.Field(&r.AssignedRetailerID, requiredID),
	)
}

// Apply copies the set fields onto plan and stamps the modifier
func (r UpdatePlanRequest) Apply(plan *Plan, modifiedBy uuid.UUID) {
	if r.ItemID != nil {
		plan.ItemID = *r.ItemID
	}
	if r.Category != nil {
		plan.Category = *r.Category
	}
	if r.DurationMonths != nil {
		plan.DurationMonths = *r.DurationMonths
	}
	if r.IsActive != nil {
		plan.IsActive = *r.IsActive
	}
	if r.AssignedRetailerID != nil {
		plan.AssignedRetailerID = r.AssignedRetailerID
	}
	plan.ModifiedBy = &modifiedBy
}
