package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/plancare/plansale-backend/internal/utils"
)

// RateLimit limits requests per client IP using an in-memory store.
// rate uses the limiter format "<limit>-<period>", e.g. "10-M".
func RateLimit(rate string, logger *logrus.Logger) (gin.HandlerFunc, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(memory.NewStore(), r)

	return func(c *gin.Context) {
		key := utils.ClientIP(c)
		ctx, err := instance.Get(c.Request.Context(), key)
		if err != nil {
			// Fail open when the store errors
			logger.WithError(err).Error("Rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(ctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(ctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(ctx.Reset, 10))

		if ctx.Reached {
			logger.WithFields(logrus.Fields{
				"ip":   key,
				"path": c.Request.URL.Path,
			}).Warn("Rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": "Too many requests. Please try again later.",
				"code":    "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}, nil
}
