package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/plancare/plansale-backend/internal/models"
)

const principalColumns = `id, username, email, password_hash, first_name, last_name, mobile, address,
	store_id, role, manager_id, is_active, created_at, updated_at`

// PrincipalRepository handles database operations for user profiles
type PrincipalRepository struct {
	db DB
}

// NewPrincipalRepository creates a new PrincipalRepository
func NewPrincipalRepository(db DB) *PrincipalRepository {
	return &PrincipalRepository{db: db}
}

// Create inserts a user profile
func (r *PrincipalRepository) Create(ctx context.Context, p *models.Principal) error {
	query := `
		INSERT INTO user_profiles (
			id, username, email, password_hash, first_name, last_name,
			mobile, address, store_id, role, manager_id, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		p.ID, p.Username, p.Email, p.PasswordHash, p.FirstName, p.LastName,
		p.Mobile, p.Address, p.StoreID, p.Role, p.ManagerID, p.IsActive,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapWriteError("user profile", "create", err)
	}
	return nil
}

// GetByID retrieves a user profile by ID
func (r *PrincipalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Principal, error) {
	var p models.Principal
	query := `SELECT ` + principalColumns + ` FROM user_profiles WHERE id = $1`
	if err := conn(ctx, r.db).GetContext(ctx, &p, query, id); err != nil {
		return nil, mapReadError("user profile", err)
	}
	return &p, nil
}

// GetByUsername retrieves a user profile by its login name
func (r *PrincipalRepository) GetByUsername(ctx context.Context, username string) (*models.Principal, error) {
	var p models.Principal
	query := `SELECT ` + principalColumns + ` FROM user_profiles WHERE username = $1`
	if err := conn(ctx, r.db).GetContext(ctx, &p, query, username); err != nil {
		return nil, mapReadError("user profile", err)
	}
	return &p, nil
}

// List returns all user profiles
func (r *PrincipalRepository) List(ctx context.Context) ([]models.Principal, error) {
	principals := []models.Principal{}
	query := `SELECT ` + principalColumns + ` FROM user_profiles ORDER BY username`
	if err := conn(ctx, r.db).SelectContext(ctx, &principals, query); err != nil {
		return nil, fmt.Errorf("failed to list user profiles: %w", err)
	}
	return principals, nil
}

// ListByStoreExcludingRole returns the profiles of a store, leaving out one role
func (r *PrincipalRepository) ListByStoreExcludingRole(ctx context.Context, storeID uuid.UUID, excluded models.Role) ([]models.Principal, error) {
	principals := []models.Principal{}
	query := `
		SELECT ` + principalColumns + `
		FROM user_profiles
		WHERE store_id = $1 AND role <> $2
		ORDER BY username
	`
	if err := conn(ctx, r.db).SelectContext(ctx, &principals, query, storeID, excluded); err != nil {
		return nil, fmt.Errorf("failed to list user profiles for store: %w", err)
	}
	return principals, nil
}

// Update persists a profile's mutable fields, excluding the password
func (r *PrincipalRepository) Update(ctx context.Context, p *models.Principal) error {
	query := `
		UPDATE user_profiles SET
			email = $2, first_name = $3, last_name = $4, mobile = $5, address = $6,
			store_id = $7, role = $8, manager_id = $9, is_active = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		p.ID, p.Email, p.FirstName, p.LastName, p.Mobile, p.Address,
		p.StoreID, p.Role, p.ManagerID, p.IsActive,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return mapUpdateError("user profile", err)
	}
	return nil
}

// UpdatePassword replaces a profile's password hash
func (r *PrincipalRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE user_profiles SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash)
	if err != nil {
		return mapWriteError("user profile", "update", err)
	}
	return expectOne("user profile", res)
}

// Delete removes a user profile
func (r *PrincipalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM user_profiles WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("user profile", "delete", err)
	}
	return expectOne("user profile", res)
}
