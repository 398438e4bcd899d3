package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/plancare/plansale-backend/internal/models"
)

// PartnerLinkRepository handles the partner catalogue tables
type PartnerLinkRepository struct {
	db DB
}

// NewPartnerLinkRepository creates a new PartnerLinkRepository
func NewPartnerLinkRepository(db DB) *PartnerLinkRepository {
	return &PartnerLinkRepository{db: db}
}

// CreatePartnerItem inserts a partner item link
func (r *PartnerLinkRepository) CreatePartnerItem(ctx context.Context, pi *models.PartnerItem) error {
	query := `
		INSERT INTO partner_items (id, partner_id, item_id, store_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query, pi.ID, pi.PartnerID, pi.ItemID, pi.StoreID).Scan(&pi.CreatedAt)
	if err != nil {
		return mapWriteError("partner item", "create", err)
	}
	return nil
}

// GetPartnerItem retrieves a partner item link by ID
func (r *PartnerLinkRepository) GetPartnerItem(ctx context.Context, id uuid.UUID) (*models.PartnerItem, error) {
	var pi models.PartnerItem
	query := `SELECT id, partner_id, item_id, store_id, created_at FROM partner_items WHERE id = $1`
	if err := conn(ctx, r.db).GetContext(ctx, &pi, query, id); err != nil {
		return nil, mapReadError("partner item", err)
	}
	return &pi, nil
}

// ListPartnerItems returns all partner item links
func (r *PartnerLinkRepository) ListPartnerItems(ctx context.Context) ([]models.PartnerItem, error) {
	links := []models.PartnerItem{}
	query := `SELECT id, partner_id, item_id, store_id, created_at FROM partner_items ORDER BY created_at`
	if err := conn(ctx, r.db).SelectContext(ctx, &links, query); err != nil {
		return nil, fmt.Errorf("failed to list partner items: %w", err)
	}
	return links, nil
}

// UpdatePartnerItem persists a partner item link
func (r *PartnerLinkRepository) UpdatePartnerItem(ctx context.Context, pi *models.PartnerItem) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE partner_items SET partner_id = $2, item_id = $3, store_id = $4 WHERE id = $1`,
		pi.ID, pi.PartnerID, pi.ItemID, pi.StoreID)
	if err != nil {
		return mapWriteError("partner item", "update", err)
	}
	return expectOne("partner item", res)
}

// DeletePartnerItem removes a partner item link
func (r *PartnerLinkRepository) DeletePartnerItem(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM partner_items WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("partner item", "delete", err)
	}
	return expectOne("partner item", res)
}

// CreatePartnerPlan inserts a partner plan link
func (r *PartnerLinkRepository) CreatePartnerPlan(ctx context.Context, pp *models.PartnerPlan) error {
	query := `
		INSERT INTO partner_plans (id, partner_id, plan_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query, pp.ID, pp.PartnerID, pp.PlanID).Scan(&pp.CreatedAt)
	if err != nil {
		return mapWriteError("partner plan", "create", err)
	}
	return nil
}

// GetPartnerPlan retrieves a partner plan link by ID
func (r *PartnerLinkRepository) GetPartnerPlan(ctx context.Context, id uuid.UUID) (*models.PartnerPlan, error) {
	var pp models.PartnerPlan
	query := `SELECT id, partner_id, plan_id, created_at FROM partner_plans WHERE id = $1`
	if err := conn(ctx, r.db).GetContext(ctx, &pp, query, id); err != nil {
		return nil, mapReadError("partner plan", err)
	}
	return &pp, nil
}

// ListPartnerPlans returns all partner plan links
func (r *PartnerLinkRepository) ListPartnerPlans(ctx context.Context) ([]models.PartnerPlan, error) {
	links := []models.PartnerPlan{}
	query := `SELECT id, partner_id, plan_id, created_at FROM partner_plans ORDER BY created_at`
	if err := conn(ctx, r.db).SelectContext(ctx, &links, query); err != nil {
		return nil, fmt.Errorf("failed to list partner plans: %w", err)
	}
	return links, nil
}

// UpdatePartnerPlan persists a partner plan link
func (r *PartnerLinkRepository) UpdatePartnerPlan(ctx context.Context, pp *models.PartnerPlan) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE partner_plans SET partner_id = $2, plan_id = $3 WHERE id = $1`,
		pp.ID, pp.PartnerID, pp.PlanID)
	if err != nil {
		return mapWriteError("partner plan", "update", err)
	}
	return expectOne("partner plan", res)
}

// DeletePartnerPlan removes a partner plan link
func (r *PartnerLinkRepository) DeletePartnerPlan(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM partner_plans WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("partner plan", "delete", err)
	}
	return expectOne("partner plan", res)
}
