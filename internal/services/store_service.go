package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/plancare/plansale-backend/internal/access"
	"github.com/plancare/plansale-backend/internal/apperrors"
	"github.com/plancare/plansale-backend/internal/database"
	"github.com/plancare/plansale-backend/internal/models"
	"github.com/plancare/plansale-backend/pkg/validator"
)

// StoreService handles business logic for stores. Managers and retailers only
// ever see their own store.
type StoreService struct {
	gate   *access.Gate
	stores *database.StoreRepository
	phone  *validator.PhoneValidator
	logger *logrus.Logger
}

// NewStoreService creates a new StoreService
func NewStoreService(gate *access.Gate, stores *database.StoreRepository, logger *logrus.Logger) *StoreService {
	return &StoreService{
		gate:   gate,
		stores: stores,
		phone:  validator.NewPhoneValidator(),
		logger: logger,
	}
}

// ListStores returns every store for admins and the principal's own store otherwise
func (s *StoreService) ListStores(ctx context.Context, p models.Principal) ([]models.Store, error) {
	decision, err := s.gate.Authorize(p, access.ResourceStore, access.OpRead)
	if err != nil {
		return nil, err
	}
	if decision == access.Allow {
		return s.stores.List(ctx)
	}

	store, err := s.stores.GetByID(ctx, p.StoreID)
	if err != nil {
		return nil, err
	}
	return []models.Store{*store}, nil
}

// GetStore returns a store visible to the principal
func (s *StoreService) GetStore(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Store, error) {
	decision, err := s.gate.Authorize(p, access.ResourceStore, access.OpRead)
	if err != nil {
		return nil, err
	}
	if decision == access.Scoped && id != p.StoreID {
		return nil, apperrors.NotFound("store")
	}
	return s.stores.GetByID(ctx, id)
}

// CreateStore creates a store. GST and mobile numbers are stored normalised.
func (s *StoreService) CreateStore(ctx context.Context, p models.Principal, req models.CreateStoreRequest) (*models.Store, error) {
	if _, err := s.gate.Authorize(p, access.ResourceStore, access.OpCreate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	store := &models.Store{
		ID:           uuid.New(),
		PartnerID:    req.PartnerID,
		GSTNumber:    req.GSTNumber,
		MobileNumber: req.MobileNumber,
		Email:        req.Email,
		Address:      req.Address,
		IsActive:     true,
	}
	if req.IsActive != nil {
		store.IsActive = *req.IsActive
	}
	s.normalise(store)

	if err := s.stores.Create(ctx, store); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"store_id":   store.ID,
		"partner_id": store.PartnerID,
	}).Info("Store created")
	return store, nil
}

// UpdateStore applies a partial update to a store
func (s *StoreService) UpdateStore(ctx context.Context, p models.Principal, id uuid.UUID, req models.UpdateStoreRequest) (*models.Store, error) {
	if _, err := s.gate.Authorize(p, access.ResourceStore, access.OpUpdate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(store)
	s.normalise(store)

	if err := s.stores.Update(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

// DeleteStore removes a store
func (s *StoreService) DeleteStore(ctx context.Context, p models.Principal, id uuid.UUID) error {
	if _, err := s.gate.Authorize(p, access.ResourceStore, access.OpDelete); err != nil {
		return err
	}
	if err := s.stores.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithField("store_id", id).Info("Store deleted")
	return nil
}

// normalise rewrites already-validated contact fields into their canonical form
func (s *StoreService) normalise(store *models.Store) {
	if gst, err := validator.ValidateGST(store.GSTNumber); err == nil {
		store.GSTNumber = gst
	}
	store.MobileNumber = s.phone.Sanitize(store.MobileNumber)
}
