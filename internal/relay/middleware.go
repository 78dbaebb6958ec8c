package relay

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const webhookTokenHeader = "X-Webhook-Token"

// RequireWebhookToken gates the relay behind a shared secret. Absent or
// mismatched tokens are rejected before any notification logic runs.
func RequireWebhookToken(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(webhookTokenHeader)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid webhook token"})
			return
		}
		c.Next()
	}
}
