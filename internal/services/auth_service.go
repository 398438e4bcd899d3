package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/plancare/plansale-backend/internal/apperrors"
	"github.com/plancare/plansale-backend/internal/database"
	"github.com/plancare/plansale-backend/internal/models"
	"github.com/plancare/plansale-backend/internal/utils"
	"github.com/plancare/plansale-backend/pkg/jwt"
)

// Authentication failure messages. Unknown users and bad passwords share one
// message so usernames cannot be probed.
const (
	MsgInvalidCredentials = "Invalid username or password."
	MsgAccountInactive    = "Account is inactive."
	MsgInvalidRefresh     = "Invalid or expired refresh token."
)

// LoginContext carries request metadata recorded with each login attempt
type LoginContext struct {
	IP        string
	UserAgent string
}

// AuthService issues and refreshes tokens for user profiles
type AuthService struct {
	principals *database.PrincipalRepository
	jwtService *jwt.Service
	logger     *logrus.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(principals *database.PrincipalRepository, jwtService *jwt.Service, logger *logrus.Logger) *AuthService {
	return &AuthService{
		principals: principals,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login checks a username and password and returns an access/refresh token pair
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest, lc LoginContext) (*models.TokenResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	log := s.logger.WithFields(utils.ParseUserAgent(lc.UserAgent).Fields()).WithFields(logrus.Fields{
		"username": req.Username,
		"ip":       lc.IP,
	})

	principal, err := s.principals.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Warn("Login failed: unknown user")
			return nil, apperrors.Unauthorized(MsgInvalidCredentials)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn("Login failed: wrong password")
		return nil, apperrors.Unauthorized(MsgInvalidCredentials)
	}

	if !principal.IsActive {
		log.Warn("Login failed: inactive account")
		return nil, apperrors.Unauthorized(MsgAccountInactive)
	}

	access, err := s.jwtService.GenerateAccessToken(subjectOf(principal))
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtService.GenerateRefreshToken(principal.ID, principal.Username)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"user_id": principal.ID,
		"role":    principal.Role,
	}).Info("Login succeeded")

	return &models.TokenResponse{
		Token:    access,
		Refresh:  refresh,
		UserID:   principal.ID,
		Username: principal.Username,
		Email:    principal.Email,
		Role:     principal.Role,
	}, nil
}

// Refresh issues a new access token. Role and store are reloaded so changes
// to the profile take effect on the next refresh.
func (s *AuthService) Refresh(ctx context.Context, req models.RefreshTokenRequest) (*models.RefreshTokenResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	claims, err := s.jwtService.ValidateRefreshToken(req.Refresh)
	if err != nil {
		s.logger.WithError(err).Debug("Refresh token rejected")
		return nil, apperrors.Unauthorized(MsgInvalidRefresh)
	}

	principal, err := s.principals.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized(MsgInvalidRefresh)
		}
		return nil, err
	}
	if !principal.IsActive {
		return nil, apperrors.Unauthorized(MsgAccountInactive)
	}

	access, err := s.jwtService.GenerateAccessToken(subjectOf(principal))
	if err != nil {
		return nil, err
	}

	return &models.RefreshTokenResponse{
		Token:     access,
		ExpiresIn: int64(s.jwtService.AccessTokenExpiry().Seconds()),
	}, nil
}

func subjectOf(p *models.Principal) jwt.Subject {
	return jwt.Subject{
		UserID:   p.ID,
		Username: p.Username,
		Email:    p.Email,
		Role:     string(p.Role),
		StoreID:  p.StoreID,
	}
}
