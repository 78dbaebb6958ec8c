package rbac

import (
	"fmt"
	"net/http"

	"devsecops-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

// Require enforces a policy on a route group. Chain it after
// auth.RequireAuth; a request with no principal in context is treated as
// unauthenticated, not as a role mismatch.
func Require(policy Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := auth.PrincipalFrom(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing Authorization Header"})
			return
		}

		if err := policy.Authorize(principal); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": fmt.Sprintf("Lack of Permission: require %s authorization", policy.RequiredRole()),
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin is the common admin-only gate.
func RequireAdmin() gin.HandlerFunc {
	return Require(RequireRole(RoleAdmin))
}
