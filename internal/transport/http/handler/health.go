package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chatpdf/internal/health"
	"chatpdf/internal/transport/http/response"
)

type HealthHandler struct {
	monitor *health.Monitor
}

func NewHealthHandler(monitor *health.Monitor) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

// Check is the plain liveness probe.
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) SystemHealth(c *gin.Context) {
	snapshot := h.monitor.Check(c.Request.Context())

	components := gin.H{"api": health.StatusHealthy, "database": health.StatusHealthy, "cache": health.StatusHealthy}
	for _, issue := range snapshot.Issues {
		switch issue.ID {
		case "database_connection":
			components["database"] = issue.Severity
		case "cache_backlog":
			components["cache"] = issue.Severity
		default:
			components["api"] = issue.Severity
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         snapshot.Status,
		"components":     components,
		"metrics":        snapshot.Metrics,
		"issues":         snapshot.Issues,
		"uptime_seconds": snapshot.UptimeSec,
		"last_check":     snapshot.Timestamp.UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) SystemMetrics(c *gin.Context) {
	snapshot := h.monitor.Check(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"current_metrics": snapshot.Metrics,
		"history":         h.monitor.History(),
	})
}

type FixRequest struct {
	IssueID    string `json:"issue_id" binding:"required"`
	ConfirmFix bool   `json:"confirm_fix"`
}

func (h *HealthHandler) Fix(c *gin.Context) {
	var req FixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	outcome, err := h.monitor.Fix(c.Request.Context(), req.IssueID, req.ConfirmFix)
	if err != nil {
		switch {
		case errors.Is(err, health.ErrFixUnconfirmed):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Fix confirmation required",
				"confirmed": false,
			})
		case errors.Is(err, health.ErrIssueNotFound):
			response.Detail(c, http.StatusNotFound, "Issue not found")
		default:
			response.Detail(c, http.StatusInternalServerError, "fix failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     outcome.Success,
		"issue_id":    outcome.IssueID,
		"fix_applied": outcome.FixApplied,
		"result":      outcome.Result,
		"message":     outcome.Message,
	})
}
