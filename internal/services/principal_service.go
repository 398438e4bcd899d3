package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/plancare/plansale-backend/internal/access"
	"github.com/plancare/plansale-backend/internal/apperrors"
	"github.com/plancare/plansale-backend/internal/database"
	"github.com/plancare/plansale-backend/internal/models"
	"github.com/plancare/plansale-backend/pkg/validator"
)

// Error messages for manager-scoped profile writes
const (
	MsgManagerCreateRetailerOnly = "Managers can only create retailer profiles in their own store."
	MsgManagerUpdateRetailerOnly = "Managers can only update retailer profiles."
)

// PrincipalService handles business logic for user profiles
type PrincipalService struct {
	db         database.DB
	gate       *access.Gate
	principals *database.PrincipalRepository
	phone      *validator.PhoneValidator
	bcryptCost int
	logger     *logrus.Logger
}

// NewPrincipalService creates a new PrincipalService
func NewPrincipalService(
	db database.DB,
	gate *access.Gate,
	principals *database.PrincipalRepository,
	bcryptCost int,
	logger *logrus.Logger,
) *PrincipalService {
	return &PrincipalService{
		db:         db,
		gate:       gate,
		principals: principals,
		phone:      validator.NewPhoneValidator(),
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// ListPrincipals returns every profile for admins, the non-admin profiles of
// a manager's own store, and only the caller for retailers
func (s *PrincipalService) ListPrincipals(ctx context.Context, p models.Principal) ([]models.Principal, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePrincipal, access.OpRead); err != nil {
		return nil, err
	}

	switch p.Role {
	case models.RoleAdmin:
		return s.principals.List(ctx)
	case models.RoleManager:
		return s.principals.ListByStoreExcludingRole(ctx, p.StoreID, models.RoleAdmin)
	case models.RoleRetailer:
		self, err := s.principals.GetByID(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		return []models.Principal{*self}, nil
	}
	return []models.Principal{}, nil
}

// GetPrincipal returns a profile visible to the caller
func (s *PrincipalService) GetPrincipal(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Principal, error) {
	if _, err := s.gate.Authorize(p, access.ResourcePrincipal, access.OpRead); err != nil {
		return nil, err
	}
	if p.Role == models.RoleRetailer && id != p.ID {
		return nil, apperrors.NotFound(string(access.ResourcePrincipal))
	}

	target, err := s.principals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibleTo(p, target) {
		return nil, apperrors.NotFound(string(access.ResourcePrincipal))
	}
	return target, nil
}

// CreatePrincipal creates a profile. Managers may only create retailers in
// their own store.
func (s *PrincipalService) CreatePrincipal(ctx context.Context, p models.Principal, req models.CreatePrincipalRequest) (*models.Principal, error) {
	decision, err := s.gate.Authorize(p, access.ResourcePrincipal, access.OpCreate)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	if decision == access.Scoped && (req.Role != models.RoleRetailer || req.StoreID != p.StoreID) {
		return nil, apperrors.Forbidden(MsgManagerCreateRetailerOnly)
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	principal := &models.Principal{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Mobile:       s.phone.Sanitize(req.Mobile),
		Address:      req.Address,
		StoreID:      req.StoreID,
		Role:         req.Role,
		ManagerID:    req.ManagerID,
		IsActive:     true,
	}

	err = database.WithTx(ctx, s.db, func(ctx context.Context) error {
		if principal.ManagerID != nil {
			if err := requireRole(ctx, s.principals, *principal.ManagerID, models.RoleManager, "manager_id"); err != nil {
				return err
			}
		}
		return s.principals.Create(ctx, principal)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    principal.ID,
		"username":   principal.Username,
		"role":       principal.Role,
		"store_id":   principal.StoreID,
		"created_by": p.ID,
	}).Info("User profile created")
	return principal, nil
}

// UpdatePrincipal applies a partial update. Managers may only update retailer
// profiles in their own store and cannot move them out of it or change their role.
func (s *PrincipalService) UpdatePrincipal(ctx context.Context, p models.Principal, id uuid.UUID, req models.UpdatePrincipalRequest) (*models.Principal, error) {
	decision, err := s.gate.Authorize(p, access.ResourcePrincipal, access.OpUpdate)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	var target *models.Principal
	err = database.WithTx(ctx, s.db, func(ctx context.Context) error {
		var err error
		target, err = s.principals.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if decision == access.Scoped {
			if !visibleTo(p, target) {
				return apperrors.NotFound(string(access.ResourcePrincipal))
			}
			if target.Role != models.RoleRetailer ||
				(req.Role != nil && *req.Role != models.RoleRetailer) ||
				(req.StoreID != nil && *req.StoreID != p.StoreID) {
				return apperrors.Forbidden(MsgManagerUpdateRetailerOnly)
			}
		}

		if req.ManagerID != nil {
			if err := requireRole(ctx, s.principals, *req.ManagerID, models.RoleManager, "manager_id"); err != nil {
				return err
			}
		}

		req.Apply(target)
		target.Mobile = s.phone.Sanitize(target.Mobile)
		if err := s.principals.Update(ctx, target); err != nil {
			return err
		}

		if req.Password != nil {
			hash, err := s.hashPassword(*req.Password)
			if err != nil {
				return err
			}
			target.PasswordHash = hash
			return s.principals.UpdatePassword(ctx, target.ID, hash)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":          target.ID,
		"updated_by":       p.ID,
		"password_changed": req.Password != nil,
	}).Info("User profile updated")
	return target, nil
}

// DeletePrincipal removes a profile
func (s *PrincipalService) DeletePrincipal(ctx context.Context, p models.Principal, id uuid.UUID) error {
	if _, err := s.gate.Authorize(p, access.ResourcePrincipal, access.OpDelete); err != nil {
		return err
	}
	if id == p.ID {
		return apperrors.BadRequest("You cannot delete your own profile.")
	}
	if err := s.principals.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    id,
		"deleted_by": p.ID,
	}).Info("User profile deleted")
	return nil
}

func (s *PrincipalService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// visibleTo applies the profile read scope to a single target
func visibleTo(p models.Principal, target *models.Principal) bool {
	switch p.Role {
	case models.RoleAdmin:
		return true
	case models.RoleManager:
		return target.StoreID == p.StoreID && target.Role != models.RoleAdmin
	case models.RoleRetailer:
		return target.ID == p.ID
	}
	return false
}
