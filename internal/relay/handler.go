package relay

import (
	"net/http"
	"time"

	"devsecops-platform/internal/notify"
	"devsecops-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handler exposes notification fan-out to CI pipelines. The relay awaits its
// own fan-out and reports the delivery count in the response; this endpoint
// is the synchronous entry point, unlike the in-process dispatcher used for
// account activity.
type Handler struct {
	Notify notify.Notifier
}

// pipelineRequest is the inbound webhook body.
type pipelineRequest struct {
	Status         string                   `json:"status"`
	WorkflowName   string                   `json:"workflowName"`
	Branch         string                   `json:"branch"`
	Commit         string                   `json:"commit"`
	Actor          string                   `json:"actor"`
	Duration       string                   `json:"duration"`
	RunURL         string                   `json:"runUrl"`
	Timestamp      string                   `json:"timestamp"`
	FailedServices []string                 `json:"failedServices"`
	Findings       *notify.SecurityFindings `json:"securityFindings"`
}

// HandlePipeline validates the payload and fans the event out.
func (h Handler) HandlePipeline(c *gin.Context) {
	var req pipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if req.Status == "" || req.WorkflowName == "" || req.Branch == "" || req.RunURL == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "Missing required fields: status, workflowName, branch, runUrl",
		})
		return
	}

	var kind notify.Kind
	switch req.Status {
	case "success":
		kind = notify.KindPipelineSuccess
	case "failure":
		kind = notify.KindPipelineFailure
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": `Invalid status: must be "success" or "failure"`,
		})
		return
	}

	var ts time.Time
	if req.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, req.Timestamp); err == nil {
			ts = parsed
		}
	}

	event := notify.Event{
		Kind:           kind,
		WorkflowName:   req.WorkflowName,
		Branch:         req.Branch,
		Commit:         req.Commit,
		Actor:          req.Actor,
		Duration:       req.Duration,
		RunURL:         req.RunURL,
		Timestamp:      ts,
		FailedServices: req.FailedServices,
		Findings:       req.Findings,
	}

	sent := h.Notify.Notify(c.Request.Context(), event)
	logger.FromGin(c).Info("pipeline notification processed", "status", req.Status, "sent", sent)

	c.JSON(http.StatusOK, gin.H{
		"message":           "Pipeline notification processed",
		"status":            req.Status,
		"notificationsSent": sent,
	})
}
