package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/plancare/plansale-backend/pkg/validator"
)

// Store belongs to a partner and employs principals
type Store struct {
	ID           uuid.UUID `json:"id" db:"id"`
	PartnerID    uuid.UUID `json:"partner_id" db:"partner_id"`
	GSTNumber    string    `json:"gst_number" db:"gst_number"`
	MobileNumber string    `json:"mobile_number" db:"mobile_number"`
	Email        string    `json:"email" db:"email"`
	Address      string    `json:"address" db:"address"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CreateStoreRequest represents the request to create a store
type CreateStoreRequest struct {
	PartnerID    uuid.UUID `json:"partner_id"`
	GSTNumber    string    `json:"gst_number"`
	MobileNumber string    `json:"mobile_number"`
	Email        string    `json:"email"`
	Address      string    `json:"address"`
	IsActive     *bool     `json:"is_active,omitempty"`
}

// Validate implements validation.Validatable
func (r CreateStoreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PartnerID, requiredID),
		validation.Field(&r.GSTNumber, validation.Required, validator.GSTRule),
		validation.Field(&r.MobileNumber, validation.Required, validator.MobileRule),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Address, validation.Required),
	)
}

// UpdateStoreRequest represents a partial store update
type UpdateStoreRequest struct {
	PartnerID    *uuid.UUID `json:"partner_id,omitempty"`
	GSTNumber    *string    `json:"gst_number,omitempty"`
	MobileNumber *string    `json:"mobile_number,omitempty"`
	Email        *string    `json:"email,omitempty"`
	Address      *string    `json:"address,omitempty"`
	IsActive     *bool      `json:"is_active,omitempty"`
}

// Validate implements validation.Validatable
func (r UpdateStoreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PartnerID, requiredID),
		validation.Field(&r.GSTNumber, validation.NilOrNotEmpty, validator.GSTRule),
		validation.Field(&r.MobileNumber, validation.NilOrNotEmpty, validator.MobileRule),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&r.Address, validation.NilOrNotEmpty),
	)
}

// Apply copies the set fields onto s
func (r UpdateStoreRequest) Apply(s *Store) {
	if r.PartnerID != nil {
		s.PartnerID = *r.PartnerID
	}
	if r.GSTNumber != nil {
		s.GSTNumber = *r.GSTNumber
	}
	if r.MobileNumber != nil {
		s.MobileNumber = *r.MobileNumber
	}
	if r.Email != nil {
		s.Email = *r.Email
	}
	if r.Address != nil {
		s.Address = *r.Address
	}
	if r.IsActive != nil {
		s.IsActive = *r.IsActive
	}
}
