package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"theaterbook/internal/shared/utils/response"
	"theaterbook/pkg/logger"

	"github.com/gin-gonic/gin"
)

// rate limiting middleware
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get client IP
		clientIP := getClientIP(c)

		// Determine rate limit type from route
		limitType := getRateLimitType(c.FullPath())

		// Check rate limit
		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusInternalServerError,
				"Rate limit check failed", nil, nil)
			c.Abort()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		// Check if rate limited
		if !result.Allowed {
			logger.GetDefault().LogRateLimitExceeded(c.Request.Context(), clientIP, c.FullPath())
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getRateLimitType maps a route template to its limit class. Checkout and
// payment endpoints get the strictest budget.
func getRateLimitType(path string) RateLimitType {
	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"),
		strings.HasSuffix(path, "/status"):
		return RateLimitTypeHealth

	case strings.Contains(path, "/admin/"):
		return RateLimitTypeAdmin

	case strings.Contains(path, "/auth/"):
		return RateLimitTypeAuth

	case strings.Contains(path, "/payments/orders"),
		strings.Contains(path, "/payments/verify"),
		strings.HasSuffix(path, "/bookings"):
		return RateLimitTypeBookingCritical

	case strings.Contains(path, "/bookings"),
		strings.Contains(path, "/unsaved"),
		strings.Contains(path, "/coupons/apply"):
		return RateLimitTypeBooking

	case strings.Contains(path, "/theaters"),
		strings.Contains(path, "/branches"),
		strings.Contains(path, "/coupons"),
		strings.Contains(path, "/contact"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}

// extracts real client IP
func getClientIP(c *gin.Context) string {
	// Check X-Forwarded-For header
	xForwardedFor := c.GetHeader("X-Forwarded-For")
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	// Check X-Real-IP header
	xRealIP := c.GetHeader("X-Real-IP")
	if xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	// Fall back to RemoteAddr
	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}

	return ip
}
