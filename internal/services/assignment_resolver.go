package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/plancare/plansale-backend/internal/apperrors"
	"github.com/plancare/plansale-backend/internal/database"
	"github.com/plancare/plansale-backend/internal/models"
)

// StoreScope is the set of stores a principal may see. All is set for admins.
type StoreScope struct {
	All      bool
	StoreIDs []uuid.UUID
}

// Empty reports whether the scope grants nothing
func (s StoreScope) Empty() bool {
	return !s.All && len(s.StoreIDs) == 0
}

// Contains reports whether the store is inside the scope
func (s StoreScope) Contains(storeID uuid.UUID) bool {
	if s.All {
		return true
	}
	for _, id := range s.StoreIDs {
		if id == storeID {
			return true
		}
	}
	return false
}

// AssignmentResolver narrows reads to what a principal's assignment records
// grant. Visibility follows the assignment tables, not the item's own store.
type AssignmentResolver struct {
	assignments *database.AssignmentRepository
	items       *database.ItemRepository
	plans       *database.PlanRepository
	sales       *database.PlanSaleRepository
	logger      *logrus.Logger
}

// NewAssignmentResolver creates a new AssignmentResolver
func NewAssignmentResolver(
	assignments *database.AssignmentRepository,
	items *database.ItemRepository,
	plans *database.PlanRepository,
	sales *database.PlanSaleRepository,
	logger *logrus.Logger,
) *AssignmentResolver {
	return &AssignmentResolver{
		assignments: assignments,
		items:       items,
		plans:       plans,
		sales:       sales,
		logger:      logger,
	}
}

// ResolveStores returns the stores reachable by the principal: every store for
// an admin, the stores of the principal's manager or retailer assignments
// otherwise. Unknown roles resolve to an empty scope.
func (r *AssignmentResolver) ResolveStores(ctx context.Context, p models.Principal) (StoreScope, error) {
	var (
		ids []uuid.UUID
		err error
	)

	switch p.Role {
	case models.RoleAdmin:
		return StoreScope{All: true}, nil
	case models.RoleManager:
		ids, err = r.assignments.StoreIDsForManager(ctx, p.ID)
	case models.RoleRetailer:
		ids, err = r.assignments.StoreIDsForRetailer(ctx, p.ID)
	default:
		r.logger.WithFields(logrus.Fields{
			"principal_id": p.ID,
			"role":         p.Role,
		}).Warn("Unrecognised role resolved to empty scope")
		return StoreScope{}, nil
	}
	if err != nil {
		return StoreScope{}, err
	}

	return StoreScope{StoreIDs: ids}, nil
}

// Items returns the items visible to the principal. A non-nil id narrows the
// result to that item.
func (r *AssignmentResolver) Items(ctx context.Context, p models.Principal, id *uuid.UUID) ([]models.Item, error) {
	if p.Role == models.RoleAdmin {
		if id != nil {
			item, err := r.items.GetByID(ctx, *id)
			if err != nil {
				return nil, err
			}
			return []models.Item{*item}, nil
		}
		return r.items.List(ctx)
	}

	scope, err := r.ResolveStores(ctx, p)
	if err != nil || scope.Empty() {
		return []models.Item{}, err
	}

	q := database.ScopeQuery{StoreIDs: scope.StoreIDs, ID: id}
	if p.Role == models.RoleManager {
		return r.items.ListByManagerAssignmentStores(ctx, q)
	}
	// Retailers reach items through the item's retailer assignment, the same
	// path their sales are scoped by. Plan.AssignedRetailerID is not consulted.
	return r.items.ListByRetailerAssignmentStores(ctx, q)
}

// Plans returns the plans visible to the principal. Managers see plans whose
// item has a manager assignment in their stores; retailers see plans whose
// item sits directly in one of their stores.
func (r *AssignmentResolver) Plans(ctx context.Context, p models.Principal, id *uuid.UUID) ([]models.Plan, error) {
	if p.Role == models.RoleAdmin {
		if id != nil {
			plan, err := r.plans.GetByID(ctx, *id)
			if err != nil {
				return nil, err
			}
			return []models.Plan{*plan}, nil
		}
		return r.plans.List(ctx)
	}

	scope, err := r.ResolveStores(ctx, p)
	if err != nil || scope.Empty() {
		return []models.Plan{}, err
	}

	q := database.ScopeQuery{StoreIDs: scope.StoreIDs, ID: id}
	if p.Role == models.RoleManager {
		return r.plans.ListByManagerAssignmentStores(ctx, q)
	}
	return r.plans.ListByItemStores(ctx, q)
}

// Sales returns the plan sales visible to the principal
func (r *AssignmentResolver) Sales(ctx context.Context, p models.Principal, id *uuid.UUID) ([]models.PlanSale, error) {
	if p.Role == models.RoleAdmin {
		if id != nil {
			sale, err := r.sales.GetByID(ctx, *id)
			if err != nil {
				return nil, err
			}
			return []models.PlanSale{*sale}, nil
		}
		return r.sales.List(ctx)
	}

	scope, err := r.ResolveStores(ctx, p)
	if err != nil || scope.Empty() {
		return []models.PlanSale{}, err
	}

	q := database.ScopeQuery{StoreIDs: scope.StoreIDs, ID: id}
	if p.Role == models.RoleManager {
		return r.sales.ListByManagerAssignmentStores(ctx, q)
	}
	return r.sales.ListByRetailerAssignmentStores(ctx, q)
}

// Item returns one visible item, or NotFound when it is outside the scope
func (r *AssignmentResolver) Item(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Item, error) {
	items, err := r.Items(ctx, p, &id)
	return single("item", items, err)
}

// Plan returns one visible plan, or NotFound when it is outside the scope
func (r *AssignmentResolver) Plan(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Plan, error) {
	plans, err := r.Plans(ctx, p, &id)
	return single("plan", plans, err)
}

// Sale returns one visible plan sale, or NotFound when it is outside the scope
func (r *AssignmentResolver) Sale(ctx context.Context, p models.Principal, id uuid.UUID) (*models.PlanSale, error) {
	sales, err := r.Sales(ctx, p, &id)
	return single("plan sale", sales, err)
}

// single picks the first row of a scoped lookup
func single[T any](resource string, rows []T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NotFound(resource)
	}
	return &rows[0], nil
}
