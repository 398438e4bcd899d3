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

// Error messages returned by the sale workflow
const (
	MsgItemPlanMismatch     = "Item associated with the plan must be the same."
	MsgPlanOrItemNotFound   = "Plan or Item not found."
	MsgItemNotAssigned      = "Item is not assigned to you."
	MsgSaleDeleteNotAllowed = "You do not have permission to delete this plan sale."
)

// PlanSaleService runs the sale lifecycle: item lookup by serial number,
// duplicate rejection, customer reuse, date derivation and persistence.
type PlanSaleService struct {
	db          database.DB
	gate        *access.Gate
	resolver    *AssignmentResolver
	sales       *database.PlanSaleRepository
	items       *database.ItemRepository
	plans       *database.PlanRepository
	customers   *database.CustomerRepository
	assignments *database.AssignmentRepository
	logger      *logrus.Logger
}

// NewPlanSaleService creates a new PlanSaleService
func NewPlanSaleService(
	db database.DB,
	gate *access.Gate,
	resolver *AssignmentResolver,
	sales *database.PlanSaleRepository,
	items *database.ItemRepository,
	plans *database.PlanRepository,
	customers *database.CustomerRepository,
	assignments *database.AssignmentRepository,
	logger *logrus.Logger,
) *PlanSaleService {
	return &PlanSaleService{
		db:          db,
		gate:        gate,
		resolver:    resolver,
		sales:       sales,
		items:       items,
		plans:       plans,
		customers:   customers,
		assignments: assignments,
		logger:      logger,
	}
}

// CreateSale sells a plan for the item with the given serial number. The
// acting principal is recorded as the selling retailer.
func (s *PlanSaleService) CreateSale(ctx context.Context, p models.Principal, req models.CreatePlanSaleRequest) (*models.PlanSale, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePlanSale, access.OpCreate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	var sale *models.PlanSale
	err := database.WithTx(ctx, s.db, func(ctx context.Context) error {
		item, err := s.items.GetByESN(ctx, req.ESNNumber)
		if err != nil {
			return err
		}

		sold, err := s.sales.ExistsForItem(ctx, item.ID, nil)
		if err != nil {
			return err
		}
		if sold {
			return apperrors.Conflict("plan sale", database.MsgItemAlreadySold)
		}

		plan, err := s.plans.GetByID(ctx, req.PlanID)
		if err != nil {
			return err
		}
		if plan.ItemID != item.ID {
			return apperrors.BadRequest(MsgItemPlanMismatch)
		}

		customerID, err := s.resolveCustomer(ctx, req.Customer)
		if err != nil {
			return err
		}

		purchase := req.PurchaseDate()
		dates := ComputePlanDates(plan.Category, item.PurchaseDate, item.BrandWarrantyMonths, plan.DurationMonths, purchase)

		sale = &models.PlanSale{
			ID:               uuid.New(),
			ItemID:           item.ID,
			PlanID:           plan.ID,
			RetailerID:       p.ID,
			CustomerID:       customerID,
			PlanPurchaseDate: purchase,
			PlanPrice:        req.PlanPrice,
			PlanStartDate:    dates.Start,
			PlanEndDate:      dates.End,
		}
		return s.sales.Create(ctx, sale)
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"principal_id": p.ID,
			"esn_number":   req.ESNNumber,
			"plan_id":      req.PlanID,
		}).WithError(err).Warn("Plan sale rejected")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"sale_id":     sale.ID,
		"item_id":     sale.ItemID,
		"plan_id":     sale.PlanID,
		"retailer_id": sale.RetailerID,
	}).Info("Plan sale created")

	return sale, nil
}

// UpdateSale changes a sale's item, plan, price, purchase date or customer.
// Retailers must hold an assignment for the plan at the item's store. Dates
// are derived again only when the plan or purchase date changes.
func (s *PlanSaleService) UpdateSale(ctx context.Context, p models.Principal, id uuid.UUID, req models.UpdatePlanSaleRequest) (*models.PlanSale, error) {
	decision, err := s.gate.Authorize(p, access.ResourcePlanSale, access.OpUpdate)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	var sale *models.PlanSale
	err = database.WithTx(ctx, s.db, func(ctx context.Context) error {
		plan, item, err := s.lookupPlanAndItem(ctx, req.PlanID, req.ESNNumber)
		if err != nil {
			return err
		}

		if decision == access.Scoped {
			assigned, err := s.assignments.RetailerAssignmentExists(ctx, p.ID, plan.ID, item.StoreID)
			if err != nil {
				return err
			}
			if !assigned {
				return apperrors.Forbidden(MsgItemNotAssigned)
			}
		}

		if plan.ItemID != item.ID {
			return apperrors.BadRequest(MsgItemPlanMismatch)
		}

		sale, err = s.resolver.Sale(ctx, p, id)
		if err != nil {
			return err
		}

		if item.ID != sale.ItemID {
			sold, err := s.sales.ExistsForItem(ctx, item.ID, &sale.ID)
			if err != nil {
				return err
			}
			if sold {
				return apperrors.Conflict("plan sale", database.MsgItemAlreadySold)
			}
		}

		recompute := plan.ID != sale.PlanID
		if req.PlanPurchaseDate != nil && !req.PlanPurchaseDate.IsZero() && !req.PlanPurchaseDate.Equal(sale.PlanPurchaseDate) {
			sale.PlanPurchaseDate = *req.PlanPurchaseDate
			recompute = true
		}

		sale.ItemID = item.ID
		sale.PlanID = plan.ID
		if req.PlanPrice != nil {
			sale.PlanPrice = *req.PlanPrice
		}
		if req.Customer != nil {
			customerID, err := s.resolveCustomer(ctx, req.Customer)
			if err != nil {
				return err
			}
			sale.CustomerID = customerID
		}

		if recompute {
			dates := ComputePlanDates(plan.Category, item.PurchaseDate, item.BrandWarrantyMonths, plan.DurationMonths, sale.PlanPurchaseDate)
			sale.PlanStartDate = dates.Start
			sale.PlanEndDate = dates.End
		}

		return s.sales.Update(ctx, sale)
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"principal_id": p.ID,
			"sale_id":      id,
		}).WithError(err).Warn("Plan sale update rejected")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"sale_id":      sale.ID,
		"principal_id": p.ID,
	}).Info("Plan sale updated")

	return sale, nil
}

// DeleteSale removes a sale. Retailers must hold an assignment for the sale's
// plan at its item's store.
func (s *PlanSaleService) DeleteSale(ctx context.Context, p models.Principal, id uuid.UUID) error {
	decision, err := s.gate.Authorize(p, access.ResourcePlanSale, access.OpDelete)
	if err != nil {
		return err
	}

	err = database.WithTx(ctx, s.db, func(ctx context.Context) error {
		sale, err := s.resolver.Sale(ctx, p, id)
		if err != nil {
			return err
		}

		if decision == access.Scoped {
			item, err := s.items.GetByID(ctx, sale.ItemID)
			if err != nil {
				return err
			}
			assigned, err := s.assignments.RetailerAssignmentExists(ctx, p.ID, sale.PlanID, item.StoreID)
			if err != nil {
				return err
			}
			if !assigned {
				return apperrors.Forbidden(MsgSaleDeleteNotAllowed)
			}
		}

		return s.sales.Delete(ctx, sale.ID)
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"sale_id":      id,
		"principal_id": p.ID,
	}).Info("Plan sale deleted")

	return nil
}

// GetSale returns one sale visible to the principal
func (s *PlanSaleService) GetSale(ctx context.Context, p models.Principal, id uuid.UUID) (*models.PlanSale, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePlanSale, access.OpRead); err != nil {
		return nil, err
	}
	return s.resolver.Sale(ctx, p, id)
}

// ListSales returns the sales visible to the principal
func (s *PlanSaleService) ListSales(ctx context.Context, p models.Principal) ([]models.PlanSale, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePlanSale, access.OpRead); err != nil {
		return nil, err
	}
	return s.resolver.Sales(ctx, p, nil)
}

// lookupPlanAndItem resolves the plan and item named by an update. Either one
// missing is a bad request rather than a not-found.
func (s *PlanSaleService) lookupPlanAndItem(ctx context.Context, planID uuid.UUID, esn string) (*models.Plan, *models.Item, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, nil, asBadRequest(err, MsgPlanOrItemNotFound)
	}
	item, err := s.items.GetByESN(ctx, esn)
	if err != nil {
		return nil, nil, asBadRequest(err, MsgPlanOrItemNotFound)
	}
	return plan, item, nil
}

// resolveCustomer reuses or creates the customer described by in
func (s *PlanSaleService) resolveCustomer(ctx context.Context, in *models.CustomerInput) (*uuid.UUID, error) {
	if in == nil {
		return nil, nil
	}

	customer, created, err := s.customers.GetOrCreate(ctx, in.ToCustomer())
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.WithField("customer_id", customer.ID).Debug("Customer created")
	}
	return &customer.ID, nil
}
