package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/plancare/plansale-backend/internal/apperrors"
	"github.com/plancare/plansale-backend/internal/database"
)

// RequireActiveProfile reloads the caller's profile so that deactivations,
// deletions and role or store changes apply before the access token expires.
// Must be used after AuthMiddleware.
func RequireActiveProfile(principals *database.PrincipalRepository, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, exists := GetPrincipal(c)
		if !exists {
			abortUnauthorized(c, "unauthorized", "User context not found", "MISSING_USER_CONTEXT")
			return
		}

		current, err := principals.GetByID(c.Request.Context(), p.ID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				abortUnauthorized(c, "unauthorized", "User profile no longer exists", "PROFILE_NOT_FOUND")
				return
			}
			logger.WithError(err).WithField("user_id", p.ID).Error("Failed to load user profile")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "An unexpected error occurred",
				"code":    "INTERNAL_ERROR",
			})
			return
		}

		if !current.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "inactive",
				"message": "Your account is inactive.",
				"code":    "ACCOUNT_INACTIVE",
			})
			return
		}

		c.Set(PrincipalContextKey, *current)
		c.Next()
	}
}
