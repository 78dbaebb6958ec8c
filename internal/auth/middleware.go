package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"

// RequireAuth verifies the bearer credential and injects the Principal into
// the request context. It performs no role checks; those belong to
// internal/rbac.
func RequireAuth(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := m.Authenticate(c.GetHeader(authorizationHeader), time.Now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(err))
			return
		}

		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))

		// Also store on gin context for handler convenience.
		c.Set("user_id", principal.UserID)
		c.Set("role", principal.Role)

		c.Next()
	}
}

func errorBody(err error) gin.H {
	if errors.Is(err, ErrMissingCredential) {
		return gin.H{"error": "Missing Authorization Header"}
	}
	return gin.H{"error": "Invalid or Expired Token"}
}
