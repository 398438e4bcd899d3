package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/plancare/plansale-backend/internal/models"
	"github.com/plancare/plansale-backend/internal/services"
)

// StoreHandler serves /stores
type StoreHandler struct {
	service *services.StoreService
	logger  *logrus.Logger
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(service *services.StoreService, logger *logrus.Logger) *StoreHandler {
	return &StoreHandler{service: service, logger: logger}
}

// Register mounts the store routes
func (h *StoreHandler) Register(rg *gin.RouterGroup) {
	resource[models.Store, models.CreateStoreRequest, models.UpdateStoreRequest]{
		logger: h.logger,
		list:   h.service.ListStores,
		get:    h.service.GetStore,
		create: h.service.CreateStore,
		update: h.service.UpdateStore,
		remove: h.service.DeleteStore,
	}.register(rg, "/stores")
}
