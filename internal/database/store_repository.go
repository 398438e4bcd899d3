package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/plancare/plansale-backend/internal/models"
)

const storeColumns = `id, partner_id, gst_number, mobile_number, email, address, is_active, created_at, updated_at`

// StoreRepository handles database operations for stores
type StoreRepository struct {
	db DB
}

// NewStoreRepository creates a new StoreRepository
func NewStoreRepository(db DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// Create inserts a store
func (r *StoreRepository) Create(ctx context.Context, s *models.Store) error {
	query := `
		INSERT INTO stores (id, partner_id, gst_number, mobile_number, email, address, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		s.ID, s.PartnerID, s.GSTNumber, s.MobileNumber, s.Email, s.Address, s.IsActive,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return mapWriteError("store", "create", err)
	}
	return nil
}

// GetByID retrieves a store by ID
func (r *StoreRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var s models.Store
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = $1`
	if err := conn(ctx, r.db).GetContext(ctx, &s, query, id); err != nil {
		return nil, mapReadError("store", err)
	}
	return &s, nil
}

// List returns all stores
func (r *StoreRepository) List(ctx context.Context) ([]models.Store, error) {
	stores := []models.Store{}
	query := `SELECT ` + storeColumns + ` FROM stores ORDER BY created_at`
	if err := conn(ctx, r.db).SelectContext(ctx, &stores, query); err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, nil
}

// Update persists a store's mutable fields
func (r *StoreRepository) Update(ctx context.Context, s *models.Store) error {
	query := `
		UPDATE stores SET
			partner_id = $2, gst_number = $3, mobile_number = $4,
			email = $5, address = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		s.ID, s.PartnerID, s.GSTNumber, s.MobileNumber, s.Email, s.Address, s.IsActive,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return mapUpdateError("store", err)
	}
	return nil
}

// Delete removes a store
func (r *StoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("store", "delete", err)
	}
	return expectOne("store", res)
}
