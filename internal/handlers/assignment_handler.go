package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/plancare/plansale-backend/internal/models"
	"github.com/plancare/plansale-backend/internal/services"
)

// AssignmentHandler serves /managerassignments and /retailerassignments
type AssignmentHandler struct {
	service *services.AssignmentService
	logger  *logrus.Logger
}

// NewAssignmentHandler creates a new AssignmentHandler
func NewAssignmentHandler(service *services.AssignmentService, logger *logrus.Logger) *AssignmentHandler {
	return &AssignmentHandler{service: service, logger: logger}
}

// Register mounts both assignment resources
func (h *AssignmentHandler) Register(rg *gin.RouterGroup) {
	resource[models.ManagerAssignment, models.ManagerAssignmentRequest, models.ManagerAssignmentRequest]{
		logger: h.logger,
		list:   h.service.ListManagerAssignments,
		get:    h.service.GetManagerAssignment,
		create: h.service.CreateManagerAssignment,
		update: h.service.UpdateManagerAssignment,
		remove: h.service.DeleteManagerAssignment,
	}.register(rg, "/managerassignments")

	resource[models.RetailerAssignment, models.RetailerAssignmentRequest, models.RetailerAssignmentRequest]{
		logger: h.logger,
		list:   h.service.ListRetailerAssignments,
		get:    h.service.GetRetailerAssignment,
		create: h.service.CreateRetailerAssignment,
		update: h.service.UpdateRetailerAssignment,
		remove: h.service.DeleteRetailerAssignment,
	}.register(rg, "/retailerassignments")
}
