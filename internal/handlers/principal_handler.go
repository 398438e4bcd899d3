package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/plancare/plansale-backend/internal/models"
	"github.com/plancare/plansale-backend/internal/services"
)

// PrincipalHandler serves /userprofiles
type PrincipalHandler struct {
	service *services.PrincipalService
	logger  *logrus.Logger
}

// NewPrincipalHandler creates a new PrincipalHandler
func NewPrincipalHandler(service *services.PrincipalService, logger *logrus.Logger) *PrincipalHandler {
	return &PrincipalHandler{service: service, logger: logger}
}

// Register mounts the user profile routes
func (h *PrincipalHandler) Register(rg *gin.RouterGroup) {
	resource[models.Principal, models.CreatePrincipalRequest, models.UpdatePrincipalRequest]{
		logger: h.logger,
		list:   h.service.ListPrincipals,
		get:    h.service.GetPrincipal,
		create: h.service.CreatePrincipal,
		update: h.service.UpdatePrincipal,
		remove: h.service.DeletePrincipal,
	}.register(rg, "/userprofiles")
}
