package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/plancare/plansale-backend/internal/apperrors"
	"github.com/plancare/plansale-backend/internal/middleware"
	"github.com/plancare/plansale-backend/internal/models"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// respondError renders err with the status of its apperrors type. Anything
// else is logged and hidden behind a 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var httpErr apperrors.HTTPError
	if !errors.As(err, &httpErr) {
		logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
			Code:    "INTERNAL_ERROR",
		})
		return
	}

	resp := ErrorResponse{
		Error:   strings.ToLower(httpErr.Code()),
		Message: httpErr.Error(),
		Code:    httpErr.Code(),
	}
	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		resp.Details = vErr.Fields
	}
	c.JSON(httpErr.StatusCode(), resp)
}

// principal returns the caller set by the auth middleware, answering 401 when
// it is missing
func principal(c *gin.Context) (models.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
			Code:    "MISSING_USER_CONTEXT",
		})
	}
	return p, ok
}

// pathID parses the :id route parameter
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid id",
			Code:    "INVALID_ID",
		})
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the request body into dst
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
			Code:    "INVALID_BODY",
			Details: map[string]string{"body": err.Error()},
		})
		return false
	}
	return true
}
