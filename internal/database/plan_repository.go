package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/plancare/plansale-backend/internal/models"
)

const planColumns = `p.id, p.item_id, p.category, p.duration_months, p.is_active,
	p.assigned_retailer_id, p.created_by, p.modified_by, p.created_at, p.modified_at`

// PlanRepository handles database operations for plans
type PlanRepository struct {
	db DB
}

// NewPlanRepository creates a new PlanRepository
func NewPlanRepository(db DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Create inserts a plan
func (r *PlanRepository) Create(ctx context.Context, plan *models.Plan) error {
	query := `
		INSERT INTO plans (
			id, item_id, category, duration_months, is_active,
			assigned_retailer_id, created_by, modified_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, modified_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		plan.ID, plan.ItemID, plan.Category, plan.DurationMonths, plan.IsActive,
		plan.AssignedRetailerID, plan.CreatedBy, plan.ModifiedBy,
	).Scan(&plan.CreatedAt, &plan.ModifiedAt)
	if err != nil {
		return mapWriteError("plan", "create", err)
	}
	return nil
}

// GetByID retrieves a plan by ID
func (r *PlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	var plan models.Plan
	query := `SELECT ` + planColumns + ` FROM plans p WHERE p.id = $1`
	if err := conn(ctx, r.db).GetContext(ctx, &plan, query, id); err != nil {
		return nil, mapReadError("plan", err)
	}
	return &plan, nil
}

// List returns every plan
func (r *PlanRepository) List(ctx context.Context) ([]models.Plan, error) {
	plans := []models.Plan{}
	query := `SELECT ` + planColumns + ` FROM plans p ORDER BY p.created_at`
	if err := conn(ctx, r.db).SelectContext(ctx, &plans, query); err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

// ListByManagerAssignmentStores returns plans whose item's manager assignment
// points at one of the given stores
func (r *PlanRepository) ListByManagerAssignmentStores(ctx context.Context, q ScopeQuery) ([]models.Plan, error) {
	plans := []models.Plan{}
	query := `
		SELECT ` + planColumns + `
		FROM plans p
		JOIN items i ON i.id = p.item_id
		JOIN manager_assignments ma ON ma.id = i.manager_assignment_id
		WHERE ma.store_id = ANY($1::uuid[])
		  AND ($2::uuid IS NULL OR p.id = $2)
		ORDER BY p.created_at
	`
	if err := conn(ctx, r.db).SelectContext(ctx, &plans, query, q.args()...); err != nil {
		return nil, fmt.Errorf("failed to list plans by manager assignment: %w", err)
	}
	return plans, nil
}

// ListByItemStores returns plans whose item is stocked directly by one of the
// given stores. Retailer plan visibility uses this direct join rather than an
// assignment join.
func (r *PlanRepository) ListByItemStores(ctx context.Context, q ScopeQuery) ([]models.Plan, error) {
	plans := []models.Plan{}
	query := `
		SELECT ` + planColumns + `
		FROM plans p
		JOIN items i ON i.id = p.item_id
		WHERE i.store_id = ANY($1::uuid[])
		  AND ($2::uuid IS NULL OR p.id = $2)
		ORDER BY p.created_at
	`
	if err := conn(ctx, r.db).SelectContext(ctx, &plans, query, q.args()...); err != nil {
		return nil, fmt.Errorf("failed to list plans by item store: %w", err)
	}
	return plans, nil
}

// Update persists a plan's mutable fields and bumps modified_at
func (r *PlanRepository) Update(ctx context.Context, plan *models.Plan) error {
	query := `
		UPDATE plans SET
			item_id = $2, category = NULLIF($3, ''), duration_months = $4, is_active = $5,
			assigned_retailer_id = $6, modified_by = $7, modified_at = NOW()
		WHERE id = $1
		RETURNING modified_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		plan.ID, plan.ItemID, plan.Category, plan.DurationMonths, plan.IsActive,
		plan.AssignedRetailerID, plan.ModifiedBy,
	).Scan(&plan.ModifiedAt)
	if err != nil {
		return mapUpdateError("plan", err)
	}
	return nil
}

// Delete removes a plan
func (r *PlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("plan", "delete", err)
	}
	return expectOne("plan", res)
}
