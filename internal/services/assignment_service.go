package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/plancare/plansale-backend/internal/access"
	"github.com/plancare/plansale-backend/internal/apperrors"
	"github.com/plancare/plansale-backend/internal/database"
	"github.com/plancare/plansale-backend/internal/models"
)

// MsgAssignmentOutOfScope is returned when a manager writes a retailer
// assignment for a store outside their own assignments
const MsgAssignmentOutOfScope = "You can only manage retailer assignments for your assigned stores."

// AssignmentService manages the manager and retailer assignment records that
// drive scoping. Assignee roles are checked on every write.
type AssignmentService struct {
	db          database.DB
	gate        *access.Gate
	resolver    *AssignmentResolver
	assignments *database.AssignmentRepository
	principals  *database.PrincipalRepository
	logger      *logrus.Logger
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(
	db database.DB,
	gate *access.Gate,
	resolver *AssignmentResolver,
	assignments *database.AssignmentRepository,
	principals *database.PrincipalRepository,
	logger *logrus.Logger,
) *AssignmentService {
	return &AssignmentService{
		db:          db,
		gate:        gate,
		resolver:    resolver,
		assignments: assignments,
		principals:  principals,
		logger:      logger,
	}
}

// ListManagerAssignments returns all assignments for admins and a manager's own otherwise
func (s *AssignmentService) ListManagerAssignments(ctx context.Context, p models.Principal) ([]models.ManagerAssignment, error) {
	decision, err := s.gate.Authorize(p, access.ResourceManagerAssignment, access.OpRead)
	if err != nil {
		return nil, err
	}
	if decision == access.Scoped {
		return s.assignments.ListManagerAssignments(ctx, &p.ID)
	}
	return s.assignments.ListManagerAssignments(ctx, nil)
}

// GetManagerAssignment returns one manager assignment visible to the principal
func (s *AssignmentService) GetManagerAssignment(ctx context.Context, p models.Principal, id uuid.UUID) (*models.ManagerAssignment, error) {
	decision, err := s.gate.Authorize(p, access.ResourceManagerAssignment, access.OpRead)
	if err != nil {
		return nil, err
	}
	a, err := s.assignments.GetManagerAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if decision == access.Scoped && a.ManagerID != p.ID {
		return nil, apperrors.NotFound(string(access.ResourceManagerAssignment))
	}
	return a, nil
}

// CreateManagerAssignment grants a manager a (store, plan) pair
func (s *AssignmentService) CreateManagerAssignment(ctx context.Context, p models.Principal, req models.ManagerAssignmentRequest) (*models.ManagerAssignment, error) {
	if _, err := s.gate.Authorize(p, access.ResourceManagerAssignment, access.OpCreate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	a := &models.ManagerAssignment{
		ID:        uuid.New(),
		ManagerID: req.ManagerID,
		PlanID:    req.PlanID,
		StoreID:   req.StoreID,
	}
	err := database.WithTx(ctx, s.db, func(ctx context.Context) error {
		if err := requireRole(ctx, s.principals, a.ManagerID, models.RoleManager, "manager_id"); err != nil {
			return err
		}
		return s.assignments.CreateManagerAssignment(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"assignment_id": a.ID,
		"manager_id":    a.ManagerID,
		"plan_id":       a.PlanID,
	}).Info("Manager assignment created")
	return a, nil
}

// UpdateManagerAssignment replaces a manager assignment
func (s *AssignmentService) UpdateManagerAssignment(ctx context.Context, p models.Principal, id uuid.UUID, req models.ManagerAssignmentRequest) (*models.ManagerAssignment, error) {
	if _, err := s.gate.Authorize(p, access.ResourceManagerAssignment, access.OpUpdate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	var a *models.ManagerAssignment
	err := database.WithTx(ctx, s.db, func(ctx context.Context) error {
		var err error
		a, err = s.assignments.GetManagerAssignment(ctx, id)
		if err != nil {
			return err
		}
		if err := requireRole(ctx, s.principals, req.ManagerID, models.RoleManager, "manager_id"); err != nil {
			return err
		}
		a.ManagerID, a.PlanID, a.StoreID = req.ManagerID, req.PlanID, req.StoreID
		return s.assignments.UpdateManagerAssignment(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteManagerAssignment removes a manager assignment
func (s *AssignmentService) DeleteManagerAssignment(ctx context.Context, p models.Principal, id uuid.UUID) error {
	if _, err := s.gate.Authorize(p, access.ResourceManagerAssignment, access.OpDelete); err != nil {
		return err
	}
	if err := s.assignments.DeleteManagerAssignment(ctx, id); err != nil {
		return err
	}

	s.logger.WithField("assignment_id", id).Info("Manager assignment deleted")
	return nil
}

// ListRetailerAssignments returns all assignments for admins, those at a
// manager's assigned stores, and a retailer's own
func (s *AssignmentService) ListRetailerAssignments(ctx context.Context, p models.Principal) ([]models.RetailerAssignment, error) {
	if _, err := s.gate.Authorize(p, access.ResourceRetailerAssignment, access.OpRead); err != nil {
		return nil, err
	}

	switch p.Role {
	case models.RoleAdmin:
		return s.assignments.ListRetailerAssignments(ctx)
	case models.RoleManager:
		scope, err := s.resolver.ResolveStores(ctx, p)
		if err != nil || scope.Empty() {
			return []models.RetailerAssignment{}, err
		}
		return s.assignments.ListRetailerAssignmentsByStores(ctx, scope.StoreIDs)
	case models.RoleRetailer:
		return s.assignments.ListRetailerAssignmentsByRetailer(ctx, p.ID)
	}
	return []models.RetailerAssignment{}, nil
}

// GetRetailerAssignment returns one retailer assignment visible to the principal
func (s *AssignmentService) GetRetailerAssignment(ctx context.Context, p models.Principal, id uuid.UUID) (*models.RetailerAssignment, error) {
	if _, err := s.gate.Authorize(p, access.ResourceRetailerAssignment, access.OpRead); err != nil {
		return nil, err
	}

	a, err := s.assignments.GetRetailerAssignment(ctx, id)
	if err != nil {
		return nil, err
	}

	switch p.Role {
	case models.RoleAdmin:
		return a, nil
	case models.RoleRetailer:
		if a.RetailerID == p.ID {
			return a, nil
		}
	case models.RoleManager:
		inScope, err := s.managesStore(ctx, p, a.StoreID)
		if err != nil {
			return nil, err
		}
		if inScope {
			return a, nil
		}
	}
	return nil, apperrors.NotFound(string(access.ResourceRetailerAssignment))
}

// CreateRetailerAssignment grants a retailer a (store, plan) pair. Managers
// may only assign within their own assigned stores.
func (s *AssignmentService) CreateRetailerAssignment(ctx context.Context, p models.Principal, req models.RetailerAssignmentRequest) (*models.RetailerAssignment, error) {
	decision, err := s.gate.Authorize(p, access.ResourceRetailerAssignment, access.OpCreate)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	a := &models.RetailerAssignment{
		ID:         uuid.New(),
		RetailerID: req.RetailerID,
		PlanID:     req.PlanID,
		StoreID:    req.StoreID,
	}
	err = database.WithTx(ctx, s.db, func(ctx context.Context) error {
		if decision == access.Scoped {
			if err := s.requireManagedStore(ctx, p, a.StoreID); err != nil {
				return err
			}
		}
		if err := requireRole(ctx, s.principals, a.RetailerID, models.RoleRetailer, "retailer_id"); err != nil {
			return err
		}
		return s.assignments.CreateRetailerAssignment(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"assignment_id": a.ID,
		"retailer_id":   a.RetailerID,
		"plan_id":       a.PlanID,
		"created_by":    p.ID,
	}).Info("Retailer assignment created")
	return a, nil
}

// UpdateRetailerAssignment replaces a retailer assignment. Managers must be
// in scope for both the current and the new store.
func (s *AssignmentService) UpdateRetailerAssignment(ctx context.Context, p models.Principal, id uuid.UUID, req models.RetailerAssignmentRequest) (*models.RetailerAssignment, error) {
	decision, err := s.gate.Authorize(p, access.ResourceRetailerAssignment, access.OpUpdate)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	var a *models.RetailerAssignment
	err = database.WithTx(ctx, s.db, func(ctx context.Context) error {
		var err error
		a, err = s.assignments.GetRetailerAssignment(ctx, id)
		if err != nil {
			return err
		}
		if decision == access.Scoped {
			if err := s.requireManagedStore(ctx, p, a.StoreID); err != nil {
				return err
			}
			if err := s.requireManagedStore(ctx, p, req.StoreID); err != nil {
				return err
			}
		}
		if err := requireRole(ctx, s.principals, req.RetailerID, models.RoleRetailer, "retailer_id"); err != nil {
			return err
		}
		a.RetailerID, a.PlanID, a.StoreID = req.RetailerID, req.PlanID, req.StoreID
		return s.assignments.UpdateRetailerAssignment(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteRetailerAssignment removes a retailer assignment
func (s *AssignmentService) DeleteRetailerAssignment(ctx context.Context, p models.Principal, id uuid.UUID) error {
	decision, err := s.gate.Authorize(p, access.ResourceRetailerAssignment, access.OpDelete)
	if err != nil {
		return err
	}

	err = database.WithTx(ctx, s.db, func(ctx context.Context) error {
		if decision == access.Scoped {
			a, err := s.assignments.GetRetailerAssignment(ctx, id)
			if err != nil {
				return err
			}
			if err := s.requireManagedStore(ctx, p, a.StoreID); err != nil {
				return err
			}
		}
		return s.assignments.DeleteRetailerAssignment(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"assignment_id": id,
		"deleted_by":    p.ID,
	}).Info("Retailer assignment deleted")
	return nil
}

// managesStore reports whether the store is among the manager's assigned stores
func (s *AssignmentService) managesStore(ctx context.Context, p models.Principal, storeID *uuid.UUID) (bool, error) {
	if storeID == nil {
		return false, nil
	}
	scope, err := s.resolver.ResolveStores(ctx, p)
	if err != nil {
		return false, err
	}
	return scope.Contains(*storeID), nil
}

func (s *AssignmentService) requireManagedStore(ctx context.Context, p models.Principal, storeID *uuid.UUID) error {
	ok, err := s.managesStore(ctx, p, storeID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Forbidden(MsgAssignmentOutOfScope)
	}
	return nil
}
