package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/plancare/plansale-backend/internal/apperrors"
	"github.com/plancare/plansale-backend/internal/models"
)

const planSaleColumns = `s.id, s.item_id, s.plan_id, s.retailer_id, s.customer_id,
	s.plan_purchase_date, s.plan_price, s.plan_start_date, s.plan_end_date,
	s.created_at, s.updated_at`

// MsgItemAlreadySold is reported when an item already has a sale
const MsgItemAlreadySold = "ESN number already sold"

// PlanSaleRepository handles database operations for plan sales
type PlanSaleRepository struct {
	db DB
}

// NewPlanSaleRepository creates a new PlanSaleRepository
func NewPlanSaleRepository(db DB) *PlanSaleRepository {
	return &PlanSaleRepository{db: db}
}

// ExistsForItem reports whether any sale other than exclude references the item
func (r *PlanSaleRepository) ExistsForItem(ctx context.Context, itemID uuid.UUID, exclude *uuid.UUID) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM plan_sales
			WHERE item_id = $1 AND ($2::uuid IS NULL OR id <> $2)
		)
	`
	if err := conn(ctx, r.db).GetContext(ctx, &exists, query, itemID, exclude); err != nil {
		return false, fmt.Errorf("failed to check existing sale: %w", err)
	}
	return exists, nil
}

// Create inserts a sale. A concurrent sale of the same item fails on the
// unique item constraint and is reported as a conflict.
func (r *PlanSaleRepository) Create(ctx context.Context, s *models.PlanSale) error {
	query := `
		INSERT INTO plan_sales (
			id, item_id, plan_id, retailer_id, customer_id,
			plan_purchase_date, plan_price, plan_start_date, plan_end_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		s.ID, s.ItemID, s.PlanID, s.RetailerID, s.CustomerID,
		s.PlanPurchaseDate, s.PlanPrice, s.PlanStartDate, s.PlanEndDate,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("plan sale", MsgItemAlreadySold)
		}
		return mapWriteError("plan sale", "create", err)
	}
	return nil
}

// GetByID retrieves a sale by ID
func (r *PlanSaleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PlanSale, error) {
	var s models.PlanSale
	query := `SELECT ` + planSaleColumns + ` FROM plan_sales s WHERE s.id = $1`
	if err := conn(ctx, r.db).GetContext(ctx, &s, query, id); err != nil {
		return nil, mapReadError("plan sale", err)
	}
	return &s, nil
}

// List returns every sale, newest first
func (r *PlanSaleRepository) List(ctx context.Context) ([]models.PlanSale, error) {
	sales := []models.PlanSale{}
	query := `SELECT ` + planSaleColumns + ` FROM plan_sales s ORDER BY s.created_at DESC`
	if err := conn(ctx, r.db).SelectContext(ctx, &sales, query); err != nil {
		return nil, fmt.Errorf("failed to list plan sales: %w", err)
	}
	return sales, nil
}

// ListByManagerAssignmentStores returns sales whose plan's item has a manager
// assignment at one of the given stores
func (r *PlanSaleRepository) ListByManagerAssignmentStores(ctx context.Context, q ScopeQuery) ([]models.PlanSale, error) {
	sales := []models.PlanSale{}
	query := `
		SELECT ` + planSaleColumns + `
		FROM plan_sales s
		JOIN plans p ON p.id = s.plan_id
		JOIN items i ON i.id = p.item_id
		JOIN manager_assignments ma ON ma.id = i.manager_assignment_id
		WHERE ma.store_id = ANY($1::uuid[])
		  AND ($2::uuid IS NULL OR s.id = $2)
		ORDER BY s.created_at DESC
	`
	if err := conn(ctx, r.db).SelectContext(ctx, &sales, query, q.args()...); err != nil {
		return nil, fmt.Errorf("failed to list plan sales by manager assignment: %w", err)
	}
	return sales, nil
}

// ListByRetailerAssignmentStores returns sales whose plan's item has a
// retailer assignment at one of the given stores
func (r *PlanSaleRepository) ListByRetailerAssignmentStores(ctx context.Context, q ScopeQuery) ([]models.PlanSale, error) {
	sales := []models.PlanSale{}
	query := `
		SELECT ` + planSaleColumns + `
		FROM plan_sales s
		JOIN plans p ON p.id = s.plan_id
		JOIN items i ON i.id = p.item_id
		JOIN retailer_assignments ra ON ra.id = i.retailer_assignment_id
		WHERE ra.store_id = ANY($1::uuid[])
		  AND ($2::uuid IS NULL OR s.id = $2)
		ORDER BY s.created_at DESC
	`
	if err := conn(ctx, r.db).SelectContext(ctx, &sales, query, q.args()...); err != nil {
		return nil, fmt.Errorf("failed to list plan sales by retailer assignment: %w", err)
	}
	return sales, nil
}

// Update persists a sale. The retailer is never changed.
func (r *PlanSaleRepository) Update(ctx context.Context, s *models.PlanSale) error {
	query := `
		UPDATE plan_sales SET
			item_id = $2, plan_id = $3, customer_id = $4, plan_purchase_date = $5,
			plan_price = $6, plan_start_date = $7, plan_end_date = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		s.ID, s.ItemID, s.PlanID, s.CustomerID, s.PlanPurchaseDate,
		s.PlanPrice, s.PlanStartDate, s.PlanEndDate,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("plan sale", MsgItemAlreadySold)
		}
		return mapUpdateError("plan sale", err)
	}
	return nil
}

// Delete removes a sale
func (r *PlanSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM plan_sales WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("plan sale", "delete", err)
	}
	return expectOne("plan sale", res)
}
