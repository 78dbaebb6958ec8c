package httpapi

import (
	"errors"
	"net/http"

	"devsecops-platform/internal/subscribers"
	"devsecops-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

type subscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Subscribe adds (or reactivates) a mailing-list address.
func (h Handlers) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	sub, err := h.Subscribers.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		logger.FromGin(c).Error("subscribe failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// Unsubscribe deactivates a mailing-list address.
func (h Handlers) Unsubscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	if err := h.Subscribers.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, subscribers.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "subscriber not found"})
			return
		}
		logger.FromGin(c).Error("unsubscribe failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed"})
}

// ListSubscribers returns active addresses. Admin-only by route policy.
func (h Handlers) ListSubscribers(c *gin.Context) {
	emails, err := h.Subscribers.ActiveEmails(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("subscriber list failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	if emails == nil {
		emails = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"subscribers": emails})
}
