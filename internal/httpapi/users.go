package httpapi

import (
	"errors"
	"net/http"

	"devsecops-platform/internal/users"
	"devsecops-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

// CreateUser registers an account. Admin-only (enforced by route policy).
func (h Handlers) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "email, password (min 8 chars) required"})
		return
	}

	u, err := h.Users.Create(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrEmailTaken):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
		case errors.Is(err, users.ErrInvalidRole):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.FromGin(c).Error("user create failed", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": u.ID, "email": u.Email, "role": u.Role})
}

func (h Handlers) ListUsers(c *gin.Context) {
	list, err := h.Users.List(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("user list failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	if list == nil {
		list = []users.User{}
	}
	c.JSON(http.StatusOK, list)
}

type updateUserRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h Handlers) UpdateUser(c *gin.Context) {
	id := c.Param("id")

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "role required"})
		return
	}

	u, err := h.Users.UpdateRole(c.Request.Context(), id, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, users.ErrInvalidRole):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.FromGin(c).Error("user update failed", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, u)
}

func (h Handlers) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	if err := h.Users.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		logger.FromGin(c).Error("user delete failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
