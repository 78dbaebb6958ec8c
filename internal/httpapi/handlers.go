package httpapi

import (
	"errors"
	"net/http"

	"devsecops-platform/internal/ratelimit"
	"devsecops-platform/internal/subscribers"
	"devsecops-platform/internal/users"
	"devsecops-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Users       *users.Service
	Files       *FileHandlers
	Subscribers *subscribers.Store
	LoginLimit  *ratelimit.LoginLimiter
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns the signed session token plus the
// account's role. Wrong credentials yield one fixed message with no token
// field.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	if h.LoginLimit != nil {
		ok, err := h.LoginLimit.Allow(c.Request.Context(), req.Email, c.ClientIP())
		if err != nil {
			logger.FromGin(c).Warn("login throttle unavailable", "err", err)
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts"})
			return
		}
	}

	result, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		logger.FromGin(c).Error("login failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   result.Token,
		"role":    result.Role,
		"message": "Login successful!",
	})
}
