package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/plancare/plansale-backend/internal/apperrors"
)

// PostgreSQL error codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// mapWriteError translates constraint violations into domain errors and wraps
// anything else with the failed action.
func mapWriteError(resource, action string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return apperrors.Conflict(resource, fmt.Sprintf("%s already exists", resource))
		case foreignKeyViolation:
			return apperrors.BadRequest(fmt.Sprintf("%s references a record that does not exist", resource))
		case checkViolation:
			return apperrors.BadRequest(fmt.Sprintf("%s violates constraint %s", resource, pqErr.Constraint))
		}
	}
	return fmt.Errorf("failed to %s %s: %w", action, resource, err)
}

// mapReadError turns sql.ErrNoRows into a NotFound error
func mapReadError(resource string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(resource)
	}
	return fmt.Errorf("failed to get %s: %w", resource, err)
}

// mapUpdateError handles UPDATE ... RETURNING statements, where a missing row
// surfaces as sql.ErrNoRows
func mapUpdateError(resource string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(resource)
	}
	return mapWriteError(resource, "update", err)
}

// expectOne reports NotFound when an update or delete touched no rows
func expectOne(resource string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return apperrors.NotFound(resource)
	}
	return nil
}

// ScopeQuery restricts an assignment-scoped listing to a set of stores and,
// optionally, a single record.
type ScopeQuery struct {
	StoreIDs []uuid.UUID
	ID       *uuid.UUID
}

func (q ScopeQuery) args() []interface{} {
	return []interface{}{pq.Array(q.StoreIDs), q.ID}
}
