package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization, X-Request-ID"
)

// CORSMiddleware adds CORS headers for the marketing site's browser calls.
//
// allowedOrigins containing "*" permits every origin with a literal
// "Access-Control-Allow-Origin: *". Otherwise only listed origins are echoed
// back and preflights from other origins are refused.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		var isAllowed bool
		switch {
		case allowAll:
			isAllowed = true
			c.Header("Access-Control-Allow-Origin", "*")
		case origin == "":
			// same-origin or non-browser client
			isAllowed = true
		case allowed[origin]:
			isAllowed = true
			c.Header("Access-Control-Allow-Origin", origin)
		}

		if isAllowed {
			c.Header("Access-Control-Allow-Methods", corsAllowMethods)
			c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
			c.Header("Access-Control-Max-Age", "86400")
		}
		if !allowAll {
			// Vary header to ensure caches differentiate by Origin
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			if isAllowed {
				c.AbortWithStatus(http.StatusNoContent)
			} else {
				c.AbortWithStatus(http.StatusForbidden)
			}
			return
		}

		c.Next()
	}
}
