package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// ItemCategory is the kind of appliance or device
type ItemCategory string

const (
	ItemCategoryTV             ItemCategory = "tv"
	ItemCategoryAC             ItemCategory = "ac"
	ItemCategoryMobile         ItemCategory = "mobile"
	ItemCategoryLaptop         ItemCategory = "laptop"
	ItemCategoryWashingMachine ItemCategory = "washing_machine"
)

// ItemCategories lists every valid item category
var ItemCategories = []interface{}{
	ItemCategoryTV, ItemCategoryAC, ItemCategoryMobile, ItemCategoryLaptop, ItemCategoryWashingMachine,
}

// Scan implements sql.Scanner. A NULL category reads as empty.
func (c *ItemCategory) Scan(value interface{}) error {
	s, err := scanCategory(value)
	*c = ItemCategory(s)
	return err
}

// DefaultBrandWarrantyMonths applies when an item is created without a warranty length
const DefaultBrandWarrantyMonths = 12

// Item is a serialised unit stocked by a store.
// Visibility for managers and retailers follows ManagerAssignmentID and
// RetailerAssignmentID, not StoreID.
type Item struct {
	ID                   uuid.UUID    `json:"id" db:"id"`
	Category             ItemCategory `json:"category" db:"category"`
	Type                 string       `json:"type" db:"type"`
	BrandWarrantyMonths  int          `json:"brand_warranty_months" db:"brand_warranty_months"`
	StoreID              uuid.UUID    `json:"store_id" db:"store_id"`
	ManagerAssignmentID  *uuid.UUID   `json:"manager_assignment_id,omitempty" db:"manager_assignment_id"`
	RetailerAssignmentID *uuid.UUID   `json:"retailer_assignment_id,omitempty" db:"retailer_assignment_id"`
	ManagerID            uuid.UUID    `json:"manager_id" db:"manager_id"`
	PurchaseDate         Date         `json:"purchase_date" db:"purchase_date"`
	ESNNumber            string       `json:"esn_number" db:"esn_number"`
	CreatedAt            time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at" db:"updated_at"`
}

// CreateItemRequest represents the request to create an item
type CreateItemRequest struct {
	Category             ItemCategory `json:"category"`
	Type                 string       `json:"type"`
	BrandWarrantyMonths  *int         `json:"brand_warranty_months,omitempty"`
	StoreID              uuid.UUID    `json:"store_id"`
	ManagerAssignmentID  *uuid.UUID   `json:"manager_assignment_id,omitempty"`
	RetailerAssignmentID *uuid.UUID   `json:"retailer_assignment_id,omitempty"`
	ManagerID            uuid.UUID    `json:"manager_id"`
	PurchaseDate         *Date        `json:"purchase_date,omitempty"`
	ESNNumber            string       `json:"esn_number"`
}

// Validate implements validation.Validatable
func (r CreateItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Category, validation.Required, validation.In(ItemCategories...)),
		validation.Field(&r.Type, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.BrandWarrantyMonths, validation.Min(0), validation.Max(240)),
		validation.Field(&r.StoreID, requiredID),
		validation.Field(&r.ManagerAssignmentID, requiredID),
		validation.Field(&r.RetailerAssignmentID, requiredID),
		validation.Field(&r.ManagerID, requiredID),
		validation.Field(&r.ESNNumber, validation.Required, validation.Length(1, 255)),
	)
}

// ToItem builds an Item with defaults applied
func (r CreateItemRequest) ToItem() *Item {
	item := &Item{
		ID:                   uuid.New(),
		Category:             r.Category,
		Type:                 r.Type,
		BrandWarrantyMonths:  DefaultBrandWarrantyMonths,
		StoreID:              r.StoreID,
		ManagerAssignmentID:  r.ManagerAssignmentID,
		RetailerAssignmentID: r.RetailerAssignmentID,
		ManagerID:            r.ManagerID,
		PurchaseDate:         Today(),
		ESNNumber:            r.ESNNumber,
	}
	if r.BrandWarrantyMonths != nil {
		item.BrandWarrantyMonths = *r.BrandWarrantyMonths
	}
	if r.PurchaseDate != nil && !r.PurchaseDate.IsZero() {
		item.PurchaseDate = *r.PurchaseDate
	}
	return item
}

// UpdateItemRequest represents a partial item update
type UpdateItemRequest struct {
	Category             *ItemCategory `json:"category,omitempty"`
	Type                 *string       `json:"type,omitempty"`
	BrandWarrantyMonths  *int          `json:"brand_warranty_months,omitempty"`
	StoreID              *uuid.UUID    `json:"store_id,omitempty"`
	ManagerAssignmentID  *uuid.UUID    `json:"manager_assignment_id,omitempty"`
	RetailerAssignmentID *uuid.UUID    `json:"retailer_assignment_id,omitempty"`
	ManagerID            *uuid.UUID    `json:"manager_id,omitempty"`
	PurchaseDate         *Date         `json:"purchase_date,omitempty"`
	ESNNumber            *string       `json:"esn_number,omitempty"`
}

// Validate implements validation.Validatable
func (r UpdateItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Category, validation.NilOrNotEmpty, validation.In(ItemCategories...)),
		validation.Field(&r.Type, validation.NilOrNotEmpty, validation.Length(1, 50)),
		validation.Field(&r.BrandWarrantyMonths, validation.Min(0), validation.Max(240)),
		validation.Field(&r.StoreID, requiredID),
		validation.Field(&r.ManagerAssignmentID, requiredID),
		validation.Field(&r.RetailerAssignmentID, requiredID),
		validation.Field(&r.ManagerID, requiredID),
		validation.Field(&r.ESNNumber, validation.NilOrNotEmpty, validation.Length(1, 255)),
	)
}

// Apply copies the set fields onto item
func (r UpdateItemRequest) Apply(item *Item) {
	if r.Category != nil {
		item.Category = *r.Category
	}
	if r.Type != nil {
		item.Type = *r.Type
	}
	if r.BrandWarrantyMonths != nil {
		item.BrandWarrantyMonths = *r.BrandWarrantyMonths
	}
	if r.StoreID != nil {
		item.StoreID = *r.StoreID
	}
	if r.ManagerAssignmentID != nil {
		item.ManagerAssignmentID = r.ManagerAssignmentID
	}
	if r.RetailerAssignmentID != nil {
		item.RetailerAssignmentID = r.RetailerAssignmentID
	}
	if r.ManagerID != nil {
		item.ManagerID = *r.ManagerID
	}
	if r.PurchaseDate != nil && !r.PurchaseDate.IsZero() {
		item.PurchaseDate = *r.PurchaseDate
	}
	if r.ESNNumber != nil {
		item.ESNNumber = *r.ESNNumber
	}
}
