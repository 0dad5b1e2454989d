package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatpdf/internal/app"
	"chatpdf/internal/transport/http/response"
)

// LibraryHandler exposes the cross-session surface: search, export, and
// insights.
type LibraryHandler struct {
	libraryService *app.LibraryService
}

func NewLibraryHandler(libraryService *app.LibraryService) *LibraryHandler {
	return &LibraryHandler{libraryService: libraryService}
}

type SearchRequest struct {
	Query      string `json:"query" binding:"required"`
	SearchType string `json:"search_type"`
}

func (h *LibraryHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	searchType := req.SearchType
	if searchType == "" {
		searchType = "all"
	}

	results, err := h.libraryService.Search(req.Query, searchType)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Detail(c, http.StatusBadRequest, "query is required")
			return
		}
		response.Detail(c, http.StatusInternalServerError, "search failed")
		return
	}

	body := gin.H{}
	if searchType != "conversations" {
		body["pdfs"] = results.PDFs
	}
	if searchType != "pdfs" {
		body["conversations"] = results.Conversations
	}

	c.JSON(http.StatusOK, gin.H{
		"query":         results.Query,
		"search_type":   searchType,
		"results":       body,
		"total_results": results.TotalResults,
	})
}

type ExportRequest struct {
	SessionID       string `json:"session_id" binding:"required"`
	ExportFormat    string `json:"export_format"`
	IncludeMessages *bool  `json:"include_messages"`
}

func (h *LibraryHandler) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	includeMessages := true
	if req.IncludeMessages != nil {
		includeMessages = *req.IncludeMessages
	}

	result, err := h.libraryService.Export(req.SessionID, req.ExportFormat, includeMessages)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSessionNotFound):
			response.Detail(c, http.StatusNotFound, "Session not found")
		case errors.Is(err, app.ErrInvalidInput):
			response.Detail(c, http.StatusBadRequest, "export_format must be txt or pdf")
		default:
			response.Detail(c, http.StatusInternalServerError, "export failed")
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

func (h *LibraryHandler) Insights(c *gin.Context) {
	insights, err := h.libraryService.GetInsights()
	if err != nil {
		response.Detail(c, http.StatusInternalServerError, "insights failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"overview": gin.H{
			"total_sessions":       insights.TotalSessions,
			"total_messages":       insights.TotalMessages,
			"total_pdfs":           insights.TotalDocuments,
			"active_sessions_week": insights.ActiveSessionsWeek,
		},
		"feature_usage": insights.FeatureUsage,
		"popular_pdfs":  insights.PopularPDFs,
		"daily_usage":   insights.DailyActivity,
	})
}
