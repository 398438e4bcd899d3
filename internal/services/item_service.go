package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/plancare/plansale-backend/internal/access"
	"github.com/plancare/plansale-backend/internal/database"
	"github.com/plancare/plansale-backend/internal/models"
)

// ItemService handles business logic for items
type ItemService struct {
	db         database.DB
	gate       *access.Gate
	resolver   *AssignmentResolver
	items      *database.ItemRepository
	principals *database.PrincipalRepository
	logger     *logrus.Logger
}

// NewItemService creates a new ItemService
func NewItemService(
	db database.DB,
	gate *access.Gate,
	resolver *AssignmentResolver,
	items *database.ItemRepository,
	principals *database.PrincipalRepository,
	logger *logrus.Logger,
) *ItemService {
	return &ItemService{
		db:         db,
		gate:       gate,
		resolver:   resolver,
		items:      items,
		principals: principals,
		logger:     logger,
	}
}

// ListItems returns the items visible to the principal
func (s *ItemService) ListItems(ctx context.Context, p models.Principal) ([]models.Item, error) {
	if _, err := s.gate.Authorize(p, access.ResourceItem, access.OpRead); err != nil {
		return nil, err
	}
	return s.resolver.Items(ctx, p, nil)
}

// GetItem returns one item visible to the principal
func (s *ItemService) GetItem(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Item, error) {
	if _, err := s.gate.Authorize(p, access.ResourceItem, access.OpRead); err != nil {
		return nil, err
	}
	return s.resolver.Item(ctx, p, id)
}

// CreateItem creates an item owned by a manager
func (s *ItemService) CreateItem(ctx context.Context, p models.Principal, req models.CreateItemRequest) (*models.Item, error) {
	if _, err := s.gate.Authorize(p, access.ResourceItem, access.OpCreate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	item := req.ToItem()
	err := database.WithTx(ctx, s.db, func(ctx context.Context) error {
		if err := requireRole(ctx, s.principals, item.ManagerID, models.RoleManager, "manager_id"); err != nil {
			return err
		}
		return s.items.Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"item_id":    item.ID,
		"esn_number": item.ESNNumber,
		"store_id":   item.StoreID,
	}).Info("Item created")
	return item, nil
}

// UpdateItem applies a partial update to an item
func (s *ItemService) UpdateItem(ctx context.Context, p models.Principal, id uuid.UUID, req models.UpdateItemRequest) (*models.Item, error) {
	if _, err := s.gate.Authorize(p, access.ResourceItem, access.OpUpdate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	var item *models.Item
	err := database.WithTx(ctx, s.db, func(ctx context.Context) error {
		var err error
		item, err = s.items.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if req.ManagerID != nil && *req.ManagerID != item.ManagerID {
			if err := requireRole(ctx, s.principals, *req.ManagerID, models.RoleManager, "manager_id"); err != nil {
				return err
			}
		}
		req.Apply(item)
		return s.items.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item
func (s *ItemService) DeleteItem(ctx context.Context, p models.Principal, id uuid.UUID) error {
	if _, err := s.gate.Authorize(p, access.ResourceItem, access.OpDelete); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithField("item_id", id).Info("Item deleted")
	return nil
}
