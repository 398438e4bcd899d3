package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/plancare/plansale-backend/pkg/validator"
)

// Principal is a staff user with exactly one role and one home store.
// ManagerID is a lookup-only reference used to group retailers under a manager.
type Principal struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Mobile       string     `json:"mobile" db:"mobile"`
	Address      string     `json:"address" db:"address"`
	StoreID      uuid.UUID  `json:"store_id" db:"store_id"`
	Role         Role       `json:"role" db:"role"`
	ManagerID    *uuid.UUID `json:"manager_id,omitempty" db:"manager_id"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// IsAdmin reports whether the principal holds the admin role
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CreatePrincipalRequest represents the request to create a user profile
type CreatePrincipalRequest struct {
	Username  string     `json:"username"`
	Password  string     `json:"password"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Mobile    string     `json:"mobile"`
	Address   string     `json:"address"`
	StoreID   uuid.UUID  `json:"store_id"`
	Role      Role       `json:"role"`
	ManagerID *uuid.UUID `json:"manager_id,omitempty"`
}

// Validate implements validation.Validatable
func (r CreatePrincipalRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 150)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 30)),
		validation.Field(&r.LastName, validation.Length(0, 30)),
		validation.Field(&r.Mobile, validation.Required, validator.MobileRule),
		validation.Field(&r.StoreID, requiredID),
		validation.Field(&r.Role, validation.Required, validation.In(Roles...)),
		validation.Field(&r.ManagerID, requiredID),
	)
}

// UpdatePrincipalRequest represents a partial user profile update
type UpdatePrincipalRequest struct {
	Email     *string    `json:"email,omitempty"`
	Password  *string    `json:"password,omitempty"`
	FirstName *string    `json:"first_name,omitempty"`
	LastName  *string    `json:"last_name,omitempty"`
	Mobile    *string    `json:"mobile,omitempty"`
	Address   *string    `json:"address,omitempty"`
	StoreID   *uuid.UUID `json:"store_id,omitempty"`
	Role      *Role      `json:"role,omitempty"`
	ManagerID *uuid.UUID `json:"manager_id,omitempty"`
	IsActive  *bool      `json:"is_active,omitempty"`
}

// Validate implements validation.Validatable
func (r UpdatePrincipalRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&r.Password, validation.NilOrNotEmpty, validation.Length(8, 128)),
		validation.Field(&r.FirstName, validation.NilOrNotEmpty, validation.Length(1, 30)),
		validation.Field(&r.LastName, validation.Length(0, 30)),
		validation.Field(&r.Mobile, validation.NilOrNotEmpty, validator.MobileRule),
		validation.Field(&r.StoreID, requiredID),
		validation.Field(&r.Role, validation.NilOrNotEmpty, validation.In(Roles...)),
		validation.Field(&r.ManagerID, requiredID),
	)
}

// Apply copies the set profile fields onto p. The password is handled by the caller.
func (r UpdatePrincipalRequest) Apply(p *Principal) {
	if r.Email != nil {
		p.Email = *r.Email
	}
	if r.FirstName != nil {
		p.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		p.LastName = *r.LastName
	}
	if r.Mobile != nil {
		p.Mobile = *r.Mobile
	}
	if r.Address != nil {
		p.Address = *r.Address
	}
	if r.StoreID != nil {
		p.StoreID = *r.StoreID
	}
	if r.Role != nil {
		p.Role = *r.Role
	}
	if r.ManagerID != nil {
		p.ManagerID = r.ManagerID
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
}
