package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/plancare/plansale-backend/internal/models"
	"github.com/plancare/plansale-backend/internal/services"
)

// PartnerHandler serves partners and their item and plan links
type PartnerHandler struct {
	service *services.PartnerService
	logger  *logrus.Logger
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(service *services.PartnerService, logger *logrus.Logger) *PartnerHandler {
	return &PartnerHandler{service: service, logger: logger}
}

// Register mounts /partners, /partneritems and /partnerplans
func (h *PartnerHandler) Register(rg *gin.RouterGroup) {
	resource[models.Partner, models.CreatePartnerRequest, models.UpdatePartnerRequest]{
		logger: h.logger,
		list:   h.service.ListPartners,
		get:    h.service.GetPartner,
		create: h.service.CreatePartner,
		update: h.service.UpdatePartner,
		remove: h.service.DeletePartner,
	}.register(rg, "/partners")

	resource[models.PartnerItem, models.PartnerItemRequest, models.PartnerItemRequest]{
		logger: h.logger,
		list:   h.service.ListPartnerItems,
		get:    h.service.GetPartnerItem,
		create: h.service.CreatePartnerItem,
		update: h.service.UpdatePartnerItem,
		remove: h.service.DeletePartnerItem,
	}.register(rg, "/partneritems")

	resource[models.PartnerPlan, models.PartnerPlanRequest, models.PartnerPlanRequest]{
		logger: h.logger,
		list:   h.service.ListPartnerPlans,
		get:    h.service.GetPartnerPlan,
		create: h.service.CreatePartnerPlan,
		update: h.service.UpdatePartnerPlan,
		remove: h.service.DeletePartnerPlan,
	}.register(rg, "/partnerplans")
}
