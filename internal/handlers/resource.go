package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/plancare/plansale-backend/internal/models"
)

// resource serves the list/get/create/update/delete routes of one entity.
// T is the entity, C the create payload and U the update payload.
type resource[T, C, U any] struct {
	logger *logrus.Logger
	list   func(context.Context, models.Principal) ([]T, error)
	get    func(context.Context, models.Principal, uuid.UUID) (*T, error)
	create func(context.Context, models.Principal, C) (*T, error)
	update func(context.Context, models.Principal, uuid.UUID, U) (*T, error)
	remove func(context.Context, models.Principal, uuid.UUID) error
}

// register mounts the routes under path. PUT and PATCH share one handler.
func (r resource[T, C, U]) register(rg *gin.RouterGroup, path string) {
	g := rg.Group(path)
	g.GET("", r.handleList)
	g.POST("", r.handleCreate)
	g.GET("/:id", r.handleGet)
	g.PUT("/:id", r.handleUpdate)
	g.PATCH("/:id", r.handleUpdate)
	g.DELETE("/:id", r.handleDelete)
}

func (r resource[T, C, U]) handleList(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	list, err := r.list(c.Request.Context(), p)
	if err != nil {
		respondError(c, r.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (r resource[T, C, U]) handleGet(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	entity, err := r.get(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, r.logger, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

func (r resource[T, C, U]) handleCreate(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req C
	if !bindJSON(c, &req) {
		return
	}
	entity, err := r.create(c.Request.Context(), p, req)
	if err != nil {
		respondError(c, r.logger, err)
		return
	}
	c.JSON(http.StatusCreated, entity)
}

func (r resource[T, C, U]) handleUpdate(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req U
	if !bindJSON(c, &req) {
		return
	}
	entity, err := r.update(c.Request.Context(), p, id, req)
	if err != nil {
		respondError(c, r.logger, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

func (r resource[T, C, U]) handleDelete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := r.remove(c.Request.Context(), p, id); err != nil {
		respondError(c, r.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
