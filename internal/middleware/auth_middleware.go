package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/plancare/plansale-backend/internal/models"
	"github.com/plancare/plansale-backend/pkg/jwt"
)

// PrincipalContextKey is the key used to store the authenticated principal in Gin context
const PrincipalContextKey = "principal"

// AuthMiddleware creates a middleware that validates bearer access tokens and
// stores the caller as a models.Principal
func AuthMiddleware(jwtService *jwt.Service, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.WithFields(logrus.Fields{
			"path": c.Request.URL.Path,
			"ip":   c.ClientIP(),
		})

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Debug("Auth failed: missing authorization header")
			abortUnauthorized(c, "unauthorized", "Authorization header is required", "MISSING_AUTH_HEADER")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Debug("Auth failed: invalid authorization format")
			abortUnauthorized(c, "unauthorized", "Invalid authorization header format. Expected: Bearer <token>", "INVALID_AUTH_FORMAT")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			abortUnauthorized(c, "unauthorized", "Token cannot be empty", "INVALID_AUTH_FORMAT")
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			if jwtService.IsTokenExpired(tokenString) {
				log.WithError(err).Debug("Auth failed: token expired")
				abortUnauthorized(c, "token_expired", "Access token has expired. Please refresh your token.", "TOKEN_EXPIRED")
			} else {
				log.WithError(err).Warn("Auth failed: invalid token")
				abortUnauthorized(c, "invalid_token", "Invalid access token", "INVALID_TOKEN")
			}
			return
		}

		role, err := models.ParseRole(claims.Role)
		if err != nil {
			log.WithField("user_id", claims.UserID).Warn("Auth failed: token carries an unknown role")
			abortUnauthorized(c, "invalid_token", "Invalid access token", "INVALID_TOKEN")
			return
		}

		c.Set(PrincipalContextKey, models.Principal{
			ID:       claims.UserID,
			Username: claims.Username,
			Email:    claims.Email,
			StoreID:  claims.StoreID,
			Role:     role,
			IsActive: true,
		})
		c.Next()
	}
}

// GetPrincipal retrieves the principal stored by AuthMiddleware
func GetPrincipal(c *gin.Context) (models.Principal, bool) {
	value, exists := c.Get(PrincipalContextKey)
	if !exists {
		return models.Principal{}, false
	}
	p, ok := value.(models.Principal)
	return p, ok
}

func abortUnauthorized(c *gin.Context, errType, message, code string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   errType,
		"message": message,
		"code":    code,
	})
}
