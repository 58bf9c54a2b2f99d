package handler

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/videotube/internal/dto"
	"github.com/prperemyshlev/videotube/internal/service"
	"go.uber.org/zap"
)

// RateLimitMiddleware rejects requests over limit per window for the key
// returned by keyFunc. When Redis is unavailable requests are let through.
func RateLimitMiddleware(rateLimiter *service.RateLimiter, limit int, window time.Duration, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := rateLimiter.Allow(c.Request.Context(), keyFunc(c), limit, window)
		if err != nil {
			zap.L().Warn("rate limiter unavailable", zap.String("route", c.FullPath()), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(result.RetryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				StatusCode: http.StatusTooManyRequests,
				Error:      http.StatusText(http.StatusTooManyRequests),
				Message:    "Rate limit exceeded, try again in " + result.RetryAfter.Round(time.Second).String(),
				Success:    false,
			})
			return
		}

		c.Next()
	}
}

// RouteIPKey limits each client separately on each route. The client IP comes
// from gin, which only trusts forwarding headers from configured proxies.
func RouteIPKey(c *gin.Context) string {
	return c.FullPath() + ":" + c.ClientIP()
}
