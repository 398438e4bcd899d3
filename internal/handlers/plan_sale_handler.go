package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/plancare/plansale-backend/internal/models"
	"github.com/plancare/plansale-backend/internal/services"
)

// PlanSaleHandler serves /plansales
type PlanSaleHandler struct {
	service *services.PlanSaleService
	logger  *logrus.Logger
}

// NewPlanSaleHandler creates a new PlanSaleHandler
func NewPlanSaleHandler(service *services.PlanSaleService, logger *logrus.Logger) *PlanSaleHandler {
	return &PlanSaleHandler{service: service, logger: logger}
}

// Register mounts the plan sale routes
func (h *PlanSaleHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/plansales")
	g.GET("", h.ListSales)
	g.POST("", h.CreateSale)
	g.GET("/:id", h.GetSale)
	g.PUT("/:id", h.UpdateSale)
	g.PATCH("/:id", h.UpdateSale)
	g.DELETE("/:id", h.DeleteSale)
}

// ListSales returns the sales visible to the caller
// GET /api/v1/plansales
func (h *PlanSaleHandler) ListSales(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	sales, err := h.service.ListSales(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

// GetSale returns one visible sale
// GET /api/v1/plansales/:id
func (h *PlanSaleHandler) GetSale(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	sale, err := h.service.GetSale(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// CreateSale sells a plan for the item identified by its ESN
// POST /api/v1/plansales
func (h *PlanSaleHandler) CreateSale(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req models.CreatePlanSaleRequest
	if !bindJSON(c, &req) {
		return
	}
	sale, err := h.service.CreateSale(c.Request.Context(), p, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// UpdateSale changes a sale's plan, item, price, customer or purchase date
// PUT|PATCH /api/v1/plansales/:id
func (h *PlanSaleHandler) UpdateSale(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.UpdatePlanSaleRequest
	if !bindJSON(c, &req) {
		return
	}
	sale, err := h.service.UpdateSale(c.Request.Context(), p, id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// DeleteSale removes a sale
// DELETE /api/v1/plansales/:id
func (h *PlanSaleHandler) DeleteSale(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteSale(c.Request.Context(), p, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
