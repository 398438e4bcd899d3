package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/plancare/plansale-backend/internal/models"
	"github.com/plancare/plansale-backend/internal/services"
)

// CatalogHandler serves /items and /plans
type CatalogHandler struct {
	items  *services.ItemService
	plans  *services.PlanService
	logger *logrus.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(items *services.ItemService, plans *services.PlanService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{items: items, plans: plans, logger: logger}
}

// Register mounts the item and plan routes
func (h *CatalogHandler) Register(rg *gin.RouterGroup) {
	resource[models.Item, models.CreateItemRequest, models.UpdateItemRequest]{
		logger: h.logger,
		list:   h.items.ListItems,
		get:    h.items.GetItem,
		create: h.items.CreateItem,
		update: h.items.UpdateItem,
		remove: h.items.DeleteItem,
	}.register(rg, "/items")

	resource[models.Plan, models.CreatePlanRequest, models.UpdatePlanRequest]{
		logger: h.logger,
		list:   h.plans.ListPlans,
		get:    h.plans.GetPlan,
		create: h.plans.CreatePlan,
		update: h.plans.UpdatePlan,
		remove: h.plans.DeletePlan,
	}.register(rg, "/plans")
}
