package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The deployment fronts this service with the school system's session layer,
// which injects the acting user's identity and role. RequireAdmin enforces
// the elevated-role requirement on every mutating import route.
const (
	RoleHeader = "X-User-Role"
	UserHeader = "X-User-Name"

	userKey = "user"
)

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetHeader(RoleHeader)
		if role != "admin" && role != "manager" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Set(userKey, c.GetHeader(UserHeader))
		c.Next()
	}
}

// Username returns the acting user recorded by RequireAdmin, for approver and
// editor attribution.
func Username(c *gin.Context) string {
	if v, ok := c.Get(userKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "unknown"
}
