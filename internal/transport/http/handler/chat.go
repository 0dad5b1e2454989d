package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"chatpdf/internal/app"
	"chatpdf/internal/transport/http/response"
)

const maxUploadBytes = 32 << 20

type ChatHandler struct {
	chatService *app.ChatService
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type CreateSessionRequest struct {
	Title string `json:"title" binding:"max=256"`
}

func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Detail(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	session, err := h.chatService.CreateSession(req.Title)
	if err != nil {
		response.Detail(c, http.StatusInternalServerError, "create session failed")
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *ChatHandler) ListSessions(c *gin.Context) {
	sessions, err := h.chatService.ListSessions()
	if err != nil {
		response.Detail(c, http.StatusInternalServerError, "list sessions failed")
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *ChatHandler) DeleteSession(c *gin.Context) {
	err := h.chatService.DeleteSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSessionNotFound), errors.Is(err, app.ErrInvalidInput):
			response.Detail(c, http.StatusNotFound, "Session not found")
		default:
			response.Detail(c, http.StatusInternalServerError, "delete session failed")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted successfully"})
}

func (h *ChatHandler) UploadPDF(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Detail(c, http.StatusBadRequest, "file is required")
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		response.Detail(c, http.StatusBadRequest, "Only PDF files are allowed")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		response.Detail(c, http.StatusBadRequest, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Detail(c, http.StatusBadRequest, "cannot read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		response.Detail(c, http.StatusBadRequest, "cannot read uploaded file")
		return
	}

	result, err := h.chatService.UploadPDF(c.Request.Context(), c.Param("id"), fileHeader.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSessionNotFound), errors.Is(err, app.ErrInvalidInput):
			response.Detail(c, http.StatusNotFound, "Session not found")
		case errors.Is(err, app.ErrPDFExtract):
			response.Detail(c, http.StatusBadRequest, err.Error())
		default:
			response.Detail(c, http.StatusInternalServerError, "upload failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "PDF uploaded successfully",
		"filename":       result.Filename,
		"content_length": result.ContentLength,
	})
}

type SendMessageRequest struct {
	Content     string `json:"content" binding:"required"`
	Model       string `json:"model"`
	FeatureType string `json:"feature_type"`
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.chatService.SendMessage(c.Request.Context(), app.SendMessageInput{
		SessionID:   c.Param("id"),
		Content:     req.Content,
		Model:       req.Model,
		FeatureType: req.FeatureType,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrMessageEmpty):
			response.Detail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrSessionNotFound), errors.Is(err, app.ErrInvalidInput):
			response.Detail(c, http.StatusNotFound, "Session not found")
		case errors.Is(err, app.ErrMessageEnqueue):
			response.Detail(c, http.StatusServiceUnavailable, err.Error())
		default:
			response.Detail(c, http.StatusInternalServerError, "AI service error: "+err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	messages, err := h.chatService.GetMessages(c.Request.Context(), c.Param("id"), c.Query("feature_type"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSessionNotFound), errors.Is(err, app.ErrInvalidInput):
			response.Detail(c, http.StatusNotFound, "Session not found")
		default:
			response.Detail(c, http.StatusInternalServerError, "get messages failed")
		}
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *ChatHandler) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"models":    h.chatService.AvailableModels(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
