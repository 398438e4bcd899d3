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

// MsgPlanStoreMismatch is returned when a manager edits a plan outside their store
const MsgPlanStoreMismatch = "You do not have permission to update plans outside your store."

// PlanService handles business logic for plans
type PlanService struct {
	db         database.DB
	gate       *access.Gate
	resolver   *AssignmentResolver
	plans      *database.PlanRepository
	items      *database.ItemRepository
	principals *database.PrincipalRepository
	logger     *logrus.Logger
}

// NewPlanService creates a new PlanService
func NewPlanService(
	db database.DB,
	gate *access.Gate,
	resolver *AssignmentResolver,
	plans *database.PlanRepository,
	items *database.ItemRepository,
	principals *database.PrincipalRepository,
	logger *logrus.Logger,
) *PlanService {
	return &PlanService{
		db:         db,
		gate:       gate,
		resolver:   resolver,
		plans:      plans,
		items:      items,
		principals: principals,
		logger:     logger,
	}
}

// ListPlans returns the plans visible to the principal
func (s *PlanService) ListPlans(ctx context.Context, p models.Principal) ([]models.Plan, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePlan, access.OpRead); err != nil {
		return nil, err
	}
	return s.resolver.Plans(ctx, p, nil)
}

// GetPlan returns one plan visible to the principal
func (s *PlanService) GetPlan(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Plan, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePlan, access.OpRead); err != nil {
		return nil, err
	}
	return s.resolver.Plan(ctx, p, id)
}

// CreatePlan creates a plan for an existing item, recording the creator
func (s *PlanService) CreatePlan(ctx context.Context, p models.Principal, req models.CreatePlanRequest) (*models.Plan, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePlan, access.OpCreate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	plan := req.ToPlan(p.ID)
	err := database.WithTx(ctx, s.db, func(ctx context.Context) error {
		if _, err := s.items.GetByID(ctx, plan.ItemID); err != nil {
			return asInvalid(err, "item_id", "item does not exist")
		}
		if plan.AssignedRetailerID != nil {
			if err := requireRole(ctx, s.principals, *plan.AssignedRetailerID, models.RoleRetailer, "assigned_retailer_id"); err != nil {
				return err
			}
		}
		return s.plans.Create(ctx, plan)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"plan_id":    plan.ID,
		"item_id":    plan.ItemID,
		"category":   plan.Category,
		"created_by": p.ID,
	}).Info("Plan created")
	return plan, nil
}

// UpdatePlan applies a partial update. Managers may only edit plans they can
// see whose item is manager-assigned to their own store.
func (s *PlanService) UpdatePlan(ctx context.Context, p models.Principal, id uuid.UUID, req models.UpdatePlanRequest) (*models.Plan, error) {
	decision, err := s.gate.Authorize(p, access.ResourcePlan, access.OpUpdate)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	var plan *models.Plan
	err = database.WithTx(ctx, s.db, func(ctx context.Context) error {
		var err error
		plan, err = s.resolver.Plan(ctx, p, id)
		if err != nil {
			return err
		}

		if decision == access.Scoped {
			storeID, err := s.items.ManagerAssignmentStore(ctx, plan.ItemID)
			if err != nil {
				return err
			}
			if storeID == nil || *storeID != p.StoreID {
				return apperrors.Forbidden(MsgPlanStoreMismatch)
			}
		}

		if req.ItemID != nil && *req.ItemID != plan.ItemID {
			if _, err := s.items.GetByID(ctx, *req.ItemID); err != nil {
				return asInvalid(err, "item_id", "item does not exist")
			}
		}
		if req.AssignedRetailerID != nil {
			if err := requireRole(ctx, s.principals, *req.AssignedRetailerID, models.RoleRetailer, "assigned_retailer_id"); err != nil {
				return err
			}
		}

		req.Apply(plan, p.ID)
		return s.plans.Update(ctx, plan)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"plan_id":     plan.ID,
		"modified_by": p.ID,
	}).Info("Plan updated")
	return plan, nil
}

// DeletePlan removes a plan
func (s *PlanService) DeletePlan(ctx context.Context, p models.Principal, id uuid.UUID) error {
	if _, err := s.gate.Authorize(p, access.ResourcePlan, access.OpDelete); err != nil {
		return err
	}
	if err := s.plans.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithField("plan_id", id).Info("Plan deleted")
	return nil
}
