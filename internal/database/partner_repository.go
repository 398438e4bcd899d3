package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/plancare/plansale-backend/internal/models"
)

const partnerColumns = `id, name, created_at, updated_at`

// PartnerRepository handles database operations for partners
type PartnerRepository struct {
	db DB
}

// NewPartnerRepository creates a new PartnerRepository
func NewPartnerRepository(db DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

// Create inserts a partner and fills its timestamps
func (r *PartnerRepository) Create(ctx context.Context, p *models.Partner) error {
	query := `
		INSERT INTO partners (id, name)
		VALUES ($1, $2)
		RETURNING created_at, updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query, p.ID, p.Name).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapWriteError("partner", "create", err)
	}
	return nil
}

// GetByID retrieves a partner by ID
func (r *PartnerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	var p models.Partner
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE id = $1`
	if err := conn(ctx, r.db).GetContext(ctx, &p, query, id); err != nil {
		return nil, mapReadError("partner", err)
	}
	return &p, nil
}

// List returns all partners ordered by name
func (r *PartnerRepository) List(ctx context.Context) ([]models.Partner, error) {
	partners := []models.Partner{}
	query := `SELECT ` + partnerColumns + ` FROM partners ORDER BY name`
	if err := conn(ctx, r.db).SelectContext(ctx, &partners, query); err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	return partners, nil
}

// Update persists a partner's mutable fields
func (r *PartnerRepository) Update(ctx context.Context, p *models.Partner) error {
	query := `
		UPDATE partners SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query, p.ID, p.Name).Scan(&p.UpdatedAt)
	if err != nil {
		return mapUpdateError("partner", err)
	}
	return nil
}

// Delete removes a partner
func (r *PartnerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM partners WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("partner", "delete", err)
	}
	return expectOne("partner", res)
}
