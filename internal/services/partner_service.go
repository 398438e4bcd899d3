package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/plancare/plansale-backend/internal/access"
	"github.com/plancare/plansale-backend/internal/database"
	"github.com/plancare/plansale-backend/internal/models"
)

// PartnerService handles business logic for partners and their catalogue links
type PartnerService struct {
	gate     *access.Gate
	partners *database.PartnerRepository
	links    *database.PartnerLinkRepository
	logger   *logrus.Logger
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(
	gate *access.Gate,
	partners *database.PartnerRepository,
	links *database.PartnerLinkRepository,
	logger *logrus.Logger,
) *PartnerService {
	return &PartnerService{
		gate:     gate,
		partners: partners,
		links:    links,
		logger:   logger,
	}
}

// ListPartners returns every partner
func (s *PartnerService) ListPartners(ctx context.Context, p models.Principal) ([]models.Partner, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePartner, access.OpRead); err != nil {
		return nil, err
	}
	return s.partners.List(ctx)
}

// GetPartner returns a partner by ID
func (s *PartnerService) GetPartner(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Partner, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePartner, access.OpRead); err != nil {
		return nil, err
	}
	return s.partners.GetByID(ctx, id)
}

// CreatePartner creates a partner
func (s *PartnerService) CreatePartner(ctx context.Context, p models.Principal, req models.CreatePartnerRequest) (*models.Partner, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePartner, access.OpCreate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	partner := &models.Partner{ID: uuid.New(), Name: req.Name}
	if err := s.partners.Create(ctx, partner); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"partner_id": partner.ID,
		"created_by": p.ID,
	}).Info("Partner created")
	return partner, nil
}

// UpdatePartner applies a partial update to a partner
func (s *PartnerService) UpdatePartner(ctx context.Context, p models.Principal, id uuid.UUID, req models.UpdatePartnerRequest) (*models.Partner, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePartner, access.OpUpdate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	partner, err := s.partners.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(partner)
	if err := s.partners.Update(ctx, partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// DeletePartner removes a partner
func (s *PartnerService) DeletePartner(ctx context.Context, p models.Principal, id uuid.UUID) error {
	if _, err := s.gate.Authorize(p, access.ResourcePartner, access.OpDelete); err != nil {
		return err
	}
	if err := s.partners.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"partner_id": id,
		"deleted_by": p.ID,
	}).Info("Partner deleted")
	return nil
}

// ListPartnerItems returns every partner/item link
func (s *PartnerService) ListPartnerItems(ctx context.Context, p models.Principal) ([]models.PartnerItem, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePartnerItem, access.OpRead); err != nil {
		return nil, err
	}
	return s.links.ListPartnerItems(ctx)
}

// GetPartnerItem returns a partner/item link by ID
func (s *PartnerService) GetPartnerItem(ctx context.Context, p models.Principal, id uuid.UUID) (*models.PartnerItem, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePartnerItem, access.OpRead); err != nil {
		return nil, err
	}
	return s.links.GetPartnerItem(ctx, id)
}

// CreatePartnerItem links a partner to an item
func (s *PartnerService) CreatePartnerItem(ctx context.Context, p models.Principal, req models.PartnerItemRequest) (*models.PartnerItem, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePartnerItem, access.OpCreate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	link := &models.PartnerItem{
		ID:        uuid.New(),
		PartnerID: req.PartnerID,
		ItemID:    req.ItemID,
		StoreID:   req.StoreID,
	}
	if err := s.links.CreatePartnerItem(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// UpdatePartnerItem replaces a partner/item link
func (s *PartnerService) UpdatePartnerItem(ctx context.Context, p models.Principal, id uuid.UUID, req models.PartnerItemRequest) (*models.PartnerItem, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePartnerItem, access.OpUpdate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	link, err := s.links.GetPartnerItem(ctx, id)
	if err != nil {
		return nil, err
	}
	link.PartnerID, link.ItemID, link.StoreID = req.PartnerID, req.ItemID, req.StoreID
	if err := s.links.UpdatePartnerItem(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// DeletePartnerItem removes a partner/item link
func (s *PartnerService) DeletePartnerItem(ctx context.Context, p models.Principal, id uuid.UUID) error {
	if _, err := s.gate.Authorize(p, access.ResourcePartnerItem, access.OpDelete); err != nil {
		return err
	}
	return s.links.DeletePartnerItem(ctx, id)
}

// ListPartnerPlans returns every partner/plan link
func (s *PartnerService) ListPartnerPlans(ctx context.Context, p models.Principal) ([]models.PartnerPlan, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePartnerPlan, access.OpRead); err != nil {
		return nil, err
	}
	return s.links.ListPartnerPlans(ctx)
}

// GetPartnerPlan returns a partner/plan link by ID
func (s *PartnerService) GetPartnerPlan(ctx context.Context, p models.Principal, id uuid.UUID) (*models.PartnerPlan, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePartnerPlan, access.OpRead); err != nil {
		return nil, err
	}
	return s.links.GetPartnerPlan(ctx, id)
}

// CreatePartnerPlan links a partner to a plan
func (s *PartnerService) CreatePartnerPlan(ctx context.Context, p models.Principal, req models.PartnerPlanRequest) (*models.PartnerPlan, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePartnerPlan, access.OpCreate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	link := &models.PartnerPlan{ID: uuid.New(), PartnerID: req.PartnerID, PlanID: req.PlanID}
	if err := s.links.CreatePartnerPlan(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// UpdatePartnerPlan replaces a partner/plan link
func (s *PartnerService) UpdatePartnerPlan(ctx context.Context, p models.Principal, id uuid.UUID, req models.PartnerPlanRequest) (*models.PartnerPlan, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePartnerPlan, access.OpUpdate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	link, err := s.links.GetPartnerPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	link.PartnerID, link.PlanID = req.PartnerID, req.PlanID
	if err := s.links.UpdatePartnerPlan(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// DeletePartnerPlan removes a partner/plan link
func (s *PartnerService) DeletePartnerPlan(ctx context.Context, p models.Principal, id uuid.UUID) error {
	if _, err := s.gate.Authorize(p, access.ResourcePartnerPlan, access.OpDelete); err != nil {
		return err
	}
	return s.links.DeletePartnerPlan(ctx, id)
}
