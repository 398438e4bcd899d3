package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Partner owns stores
type Partner struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreatePartnerRequest represents the request to create a partner
type CreatePartnerRequest struct {
	Name string `json:"name"`
}

// Validate implements validation.Validatable
func (r CreatePartnerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
	)
}

// UpdatePartnerRequest represents a partial partner update
type UpdatePartnerRequest struct {
	Name *string `json:"name,omitempty"`
}

// Validate implements validation.Validatable
func (r UpdatePartnerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
	)
}

// Apply copies the set fields onto p
func (r UpdatePartnerRequest) Apply(p *Partner) {
	if r.Name != nil {
		p.Name = *r.Name
	}
}
