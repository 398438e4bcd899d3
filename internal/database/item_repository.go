package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/plancare/plansale-backend/internal/models"
)

const itemColumns = `i.id, i.category, i.type, i.brand_warranty_months, i.store_id,
	i.manager_assignment_id, i.retailer_assignment_id, i.manager_id, i.purchase_date,
	i.esn_number, i.created_at, i.updated_at`

// ItemRepository handles database operations for items
type ItemRepository struct {
	db DB
}

// NewItemRepository creates a new ItemRepository
func NewItemRepository(db DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create inserts an item
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (
			id, category, type, brand_warranty_months, store_id,
			manager_assignment_id, retailer_assignment_id, manager_id,
			purchase_date, esn_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		item.ID, item.Category, item.Type, item.BrandWarrantyMonths, item.StoreID,
		item.ManagerAssignmentID, item.RetailerAssignmentID, item.ManagerID,
		item.PurchaseDate, item.ESNNumber,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return mapWriteError("item", "create", err)
	}
	return nil
}

// GetByID retrieves an item by ID
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.id = $1`
	if err := conn(ctx, r.db).GetContext(ctx, &item, query, id); err != nil {
		return nil, mapReadError("item", err)
	}
	return &item, nil
}

// GetByESN retrieves an item by its unique serial number
func (r *ItemRepository) GetByESN(ctx context.Context, esn string) (*models.Item, error) {
	var item models.Item
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.esn_number = $1`
	if err := conn(ctx, r.db).GetContext(ctx, &item, query, esn); err != nil {
		return nil, mapReadError("item", err)
	}
	return &item, nil
}

// List returns every item
func (r *ItemRepository) List(ctx context.Context) ([]models.Item, error) {
	items := []models.Item{}
	query := `SELECT ` + itemColumns + ` FROM items i ORDER BY i.created_at`
	if err := conn(ctx, r.db).SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// ListByManagerAssignmentStores returns items whose manager assignment points
// at one of the given stores. The item's own store is not consulted.
func (r *ItemRepository) ListByManagerAssignmentStores(ctx context.Context, q ScopeQuery) ([]models.Item, error) {
	items := []models.Item{}
	query := `
		SELECT ` + itemColumns + `
		FROM items i
		JOIN manager_assignments ma ON ma.id = i.manager_assignment_id
		WHERE ma.store_id = ANY($1::uuid[])
		  AND ($2::uuid IS NULL OR i.id = $2)
		ORDER BY i.created_at
	`
	if err := conn(ctx, r.db).SelectContext(ctx, &items, query, q.args()...); err != nil {
		return nil, fmt.Errorf("failed to list items by manager assignment: %w", err)
	}
	return items, nil
}

// ListByRetailerAssignmentStores returns items whose retailer assignment
// points at one of the given stores
func (r *ItemRepository) ListByRetailerAssignmentStores(ctx context.Context, q ScopeQuery) ([]models.Item, error) {
	items := []models.Item{}
	query := `
		SELECT ` + itemColumns + `
		FROM items i
		JOIN retailer_assignments ra ON ra.id = i.retailer_assignment_id
		WHERE ra.store_id = ANY($1::uuid[])
		  AND ($2::uuid IS NULL OR i.id = $2)
		ORDER BY i.created_at
	`
	if err := conn(ctx, r.db).SelectContext(ctx, &items, query, q.args()...); err != nil {
		return nil, fmt.Errorf("failed to list items by retailer assignment: %w", err)
	}
	return items, nil
}

// ManagerAssignmentStore returns the store of the item's manager assignment,
// or nil when the item has none or the assignment has no store
func (r *ItemRepository) ManagerAssignmentStore(ctx context.Context, itemID uuid.UUID) (*uuid.UUID, error) {
	var storeID *uuid.UUID
	query := `
		SELECT ma.store_id
		FROM items i
		LEFT JOIN manager_assignments ma ON ma.id = i.manager_assignment_id
		WHERE i.id = $1
	`
	if err := conn(ctx, r.db).GetContext(ctx, &storeID, query, itemID); err != nil {
		return nil, mapReadError("item", err)
	}
	return storeID, nil
}

// Update persists an item's mutable fields
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items SET
			category = NULLIF($2, ''), type = $3, brand_warranty_months = $4, store_id = $5,
			manager_assignment_id = $6, retailer_assignment_id = $7, manager_id = $8,
			purchase_date = $9, esn_number = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		item.ID, item.Category, item.Type, item.BrandWarrantyMonths, item.StoreID,
		item.ManagerAssignmentID, item.RetailerAssignmentID, item.ManagerID,
		item.PurchaseDate, item.ESNNumber,
	).Scan(&item.UpdatedAt)
	if err != nil {
		return mapUpdateError("item", err)
	}
	return nil
}

// Delete removes an item
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("item", "delete", err)
	}
	return expectOne("item", res)
}
