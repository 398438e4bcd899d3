package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/plancare/plansale-backend/internal/models"
)

const (
	managerAssignmentColumns  = `id, manager_id, plan_id, store_id, created_at`
	retailerAssignmentColumns = `id, retailer_id, plan_id, store_id, created_at`
)

// AssignmentRepository handles the manager and retailer assignment tables
// that drive access scoping
type AssignmentRepository struct {
	db DB
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// StoreIDsForManager returns the distinct stores of a manager's assignments
func (r *AssignmentRepository) StoreIDsForManager(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	query := `
		SELECT DISTINCT store_id FROM manager_assignments
		WHERE manager_id = $1 AND store_id IS NOT NULL
	`
	if err := conn(ctx, r.db).SelectContext(ctx, &ids, query, managerID); err != nil {
		return nil, fmt.Errorf("failed to resolve manager stores: %w", err)
	}
	return ids, nil
}

// StoreIDsForRetailer returns the distinct stores of a retailer's assignments
func (r *AssignmentRepository) StoreIDsForRetailer(ctx context.Context, retailerID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	query := `
		SELECT DISTINCT store_id FROM retailer_assignments
		WHERE retailer_id = $1 AND store_id IS NOT NULL
	`
	if err := conn(ctx, r.db).SelectContext(ctx, &ids, query, retailerID); err != nil {
		return nil, fmt.Errorf("failed to resolve retailer stores: %w", err)
	}
	return ids, nil
}

// RetailerAssignmentExists reports whether the retailer is assigned to the
// plan at the store
func (r *AssignmentRepository) RetailerAssignmentExists(ctx context.Context, retailerID, planID, storeID uuid.UUID) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM retailer_assignments
			WHERE retailer_id = $1 AND plan_id = $2 AND store_id = $3
		)
	`
	if err := conn(ctx, r.db).GetContext(ctx, &exists, query, retailerID, planID, storeID); err != nil {
		return false, fmt.Errorf("failed to check retailer assignment: %w", err)
	}
	return exists, nil
}

// CreateManagerAssignment inserts a manager assignment
func (r *AssignmentRepository) CreateManagerAssignment(ctx context.Context, a *models.ManagerAssignment) error {
	query := `
		INSERT INTO manager_assignments (id, manager_id, plan_id, store_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query, a.ID, a.ManagerID, a.PlanID, a.StoreID).Scan(&a.CreatedAt)
	if err != nil {
		return mapWriteError("manager assignment", "create", err)
	}
	return nil
}

// GetManagerAssignment retrieves a manager assignment by ID
func (r *AssignmentRepository) GetManagerAssignment(ctx context.Context, id uuid.UUID) (*models.ManagerAssignment, error) {
	var a models.ManagerAssignment
	query := `SELECT ` + managerAssignmentColumns + ` FROM manager_assignments WHERE id = $1`
	if err := conn(ctx, r.db).GetContext(ctx, &a, query, id); err != nil {
		return nil, mapReadError("manager assignment", err)
	}
	return &a, nil
}

// ListManagerAssignments returns all manager assignments, or only those of
// one manager when managerID is set
func (r *AssignmentRepository) ListManagerAssignments(ctx context.Context, managerID *uuid.UUID) ([]models.ManagerAssignment, error) {
	assignments := []models.ManagerAssignment{}
	query := `
		SELECT ` + managerAssignmentColumns + ` FROM manager_assignments
		WHERE ($1::uuid IS NULL OR manager_id = $1)
		ORDER BY created_at
	`
	if err := conn(ctx, r.db).SelectContext(ctx, &assignments, query, managerID); err != nil {
		return nil, fmt.Errorf("failed to list manager assignments: %w", err)
	}
	return assignments, nil
}

// UpdateManagerAssignment persists a manager assignment
func (r *AssignmentRepository) UpdateManagerAssignment(ctx context.Context, a *models.ManagerAssignment) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE manager_assignments SET manager_id = $2, plan_id = $3, store_id = $4 WHERE id = $1`,
		a.ID, a.ManagerID, a.PlanID, a.StoreID)
	if err != nil {
		return mapWriteError("manager assignment", "update", err)
	}
	return expectOne("manager assignment", res)
}

// DeleteManagerAssignment removes a manager assignment
func (r *AssignmentRepository) DeleteManagerAssignment(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM manager_assignments WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("manager assignment", "delete", err)
	}
	return expectOne("manager assignment", res)
}

// CreateRetailerAssignment inserts a retailer assignment
func (r *AssignmentRepository) CreateRetailerAssignment(ctx context.Context, a *models.RetailerAssignment) error {
	query := `
		INSERT INTO retailer_assignments (id, retailer_id, plan_id, store_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query, a.ID, a.RetailerID, a.PlanID, a.StoreID).Scan(&a.CreatedAt)
	if err != nil {
		return mapWriteError("retailer assignment", "create", err)
	}
	return nil
}

// GetRetailerAssignment retrieves a retailer assignment by ID
func (r *AssignmentRepository) GetRetailerAssignment(ctx context.Context, id uuid.UUID) (*models.RetailerAssignment, error) {
	var a models.RetailerAssignment
	query := `SELECT ` + retailerAssignmentColumns + ` FROM retailer_assignments WHERE id = $1`
	if err := conn(ctx, r.db).GetContext(ctx, &a, query, id); err != nil {
		return nil, mapReadError("retailer assignment", err)
	}
	return &a, nil
}

// ListRetailerAssignments returns all retailer assignments
func (r *AssignmentRepository) ListRetailerAssignments(ctx context.Context) ([]models.RetailerAssignment, error) {
	assignments := []models.RetailerAssignment{}
	query := `SELECT ` + retailerAssignmentColumns + ` FROM retailer_assignments ORDER BY created_at`
	if err := conn(ctx, r.db).SelectContext(ctx, &assignments, query); err != nil {
		return nil, fmt.Errorf("failed to list retailer assignments: %w", err)
	}
	return assignments, nil
}

// ListRetailerAssignmentsByRetailer returns one retailer's assignments
func (r *AssignmentRepository) ListRetailerAssignmentsByRetailer(ctx context.Context, retailerID uuid.UUID) ([]models.RetailerAssignment, error) {
	assignments := []models.RetailerAssignment{}
	query := `
		SELECT ` + retailerAssignmentColumns + ` FROM retailer_assignments
		WHERE retailer_id = $1
		ORDER BY created_at
	`
	if err := conn(ctx, r.db).SelectContext(ctx, &assignments, query, retailerID); err != nil {
		return nil, fmt.Errorf("failed to list retailer assignments: %w", err)
	}
	return assignments, nil
}

// ListRetailerAssignmentsByStores returns retailer assignments at the given stores
func (r *AssignmentRepository) ListRetailerAssignmentsByStores(ctx context.Context, storeIDs []uuid.UUID) ([]models.RetailerAssignment, error) {
	assignments := []models.RetailerAssignment{}
	query := `
		SELECT ` + retailerAssignmentColumns + ` FROM retailer_assignments
		WHERE store_id = ANY($1::uuid[])
		ORDER BY created_at
	`
	if err := conn(ctx, r.db).SelectContext(ctx, &assignments, query, pq.Array(storeIDs)); err != nil {
		return nil, fmt.Errorf("failed to list retailer assignments: %w", err)
	}
	return assignments, nil
}

// UpdateRetailerAssignment persists a retailer assignment
func (r *AssignmentRepository) UpdateRetailerAssignment(ctx context.Context, a *models.RetailerAssignment) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE retailer_assignments SET retailer_id = $2, plan_id = $3, store_id = $4 WHERE id = $1`,
		a.ID, a.RetailerID, a.PlanID, a.StoreID)
	if err != nil {
		return mapWriteError("retailer assignment", "update", err)
	}
	return expectOne("retailer assignment", res)
}

// DeleteRetailerAssignment removes a retailer assignment
func (r *AssignmentRepository) DeleteRetailerAssignment(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM retailer_assignments WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("retailer assignment", "delete", err)
	}
	return expectOne("retailer assignment", res)
}
