package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/plancare/plansale-backend/internal/models"
	"github.com/plancare/plansale-backend/internal/services"
	"github.com/plancare/plansale-backend/internal/utils"
)

// TokenHandler serves the login and refresh endpoints
type TokenHandler struct {
	authService *services.AuthService
	logger      *logrus.Logger
}

// NewTokenHandler creates a new TokenHandler
func NewTokenHandler(authService *services.AuthService, logger *logrus.Logger) *TokenHandler {
	return &TokenHandler{authService: authService, logger: logger}
}

// Register mounts the token routes. limit guards the password endpoints.
func (h *TokenHandler) Register(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	rg.POST("/token", limit, h.Login)
	rg.POST("/custom-auth", limit, h.Login)
	rg.POST("/token/refresh", h.Refresh)
}

// Login exchanges a username and password for a token pair
// POST /api/v1/token
// POST /api/v1/custom-auth
func (h *TokenHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req, services.LoginContext{
		IP:        utils.ClientIP(c),
		UserAgent: utils.UserAgent(c),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh issues a new access token
// POST /api/v1/token/refresh
func (h *TokenHandler) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
