package services

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/plancare/plansale-backend/internal/apperrors"
	"github.com/plancare/plansale-backend/internal/database"
	"github.com/plancare/plansale-backend/internal/models"
)

// validate runs a request's rules and converts failures into a ValidationError
func validate(v validation.Validatable) error {
	return apperrors.FromValidation(v.Validate())
}

// asBadRequest reports a missing reference as a bad request with msg and
// passes every other error through
func asBadRequest(err error, msg string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.BadRequest(msg)
	}
	return err
}

// requireRole checks that the referenced principal exists and holds role.
// Failures are reported against the given request field.
func requireRole(ctx context.Context, principals *database.PrincipalRepository, id uuid.UUID, role models.Role, field string) error {
	target, err := principals.GetByID(ctx, id)
	if err != nil {
		return asInvalid(err, field, "user profile does not exist")
	}
	if target.Role != role {
		return apperrors.Invalid(field, fmt.Sprintf("user profile must have role %s", role))
	}
	return nil
}

// asInvalid reports a missing reference as a field validation failure
func asInvalid(err error, field, problem string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.Invalid(field, problem)
	}
	return err
}
