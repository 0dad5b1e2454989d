package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatpdf/internal/app"
	"chatpdf/internal/transport/http/response"
)

// StudyHandler exposes the one-shot document features.
type StudyHandler struct {
	studyService *app.StudyService
}

func NewStudyHandler(studyService *app.StudyService) *StudyHandler {
	return &StudyHandler{studyService: studyService}
}

type GenerateQuestionsRequest struct {
	SessionID      string `json:"session_id" binding:"required"`
	QuestionType   string `json:"question_type"`
	ChapterSegment string `json:"chapter_segment"`
	Model          string `json:"model"`
}

func (h *StudyHandler) GenerateQuestions(c *gin.Context) {
	var req GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.studyService.GenerateQuestions(c.Request.Context(), app.GenerateQuestionsInput{
		SessionID:      req.SessionID,
		QuestionType:   req.QuestionType,
		ChapterSegment: req.ChapterSegment,
		Model:          req.Model,
	})
	if err != nil {
		studyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":      result.SessionID,
		"question_type":   result.QuestionType,
		"chapter_segment": req.ChapterSegment,
		"questions":       result.Questions,
	})
}

type GenerateQuizRequest struct {
	SessionID     string `json:"session_id" binding:"required"`
	QuizType      string `json:"quiz_type"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"question_count"`
	Model         string `json:"model"`
}

func (h *StudyHandler) GenerateQuiz(c *gin.Context) {
	var req GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.studyService.GenerateQuiz(c.Request.Context(), app.GenerateQuizInput{
		SessionID:     req.SessionID,
		QuizType:      req.QuizType,
		Difficulty:    req.Difficulty,
		QuestionCount: req.QuestionCount,
		Model:         req.Model,
	})
	if err != nil {
		studyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": result.SessionID,
		"quiz_type":  result.QuizType,
		"difficulty": result.Difficulty,
		"quiz":       result.Quiz,
	})
}

type TranslateRequest struct {
	SessionID      string `json:"session_id" binding:"required"`
	TargetLanguage string `json:"target_language" binding:"required"`
	ContentType    string `json:"content_type"`
	Model          string `json:"model"`
}

func (h *StudyHandler) Translate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.studyService.Translate(c.Request.Context(), app.TranslateInput{
		SessionID:      req.SessionID,
		TargetLanguage: req.TargetLanguage,
		ContentType:    req.ContentType,
		Model:          req.Model,
	})
	if err != nil {
		studyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":      result.SessionID,
		"target_language": result.TargetLanguage,
		"translation":     result.Translation,
	})
}

type ResearchRequest struct {
	SessionID    string `json:"session_id" binding:"required"`
	ResearchType string `json:"research_type"`
	Model        string `json:"model"`
}

func (h *StudyHandler) Research(c *gin.Context) {
	var req ResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.studyService.Research(c.Request.Context(), app.ResearchInput{
		SessionID:    req.SessionID,
		ResearchType: req.ResearchType,
		Model:        req.Model,
	})
	if err != nil {
		studyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":       result.SessionID,
		"research_type":    result.ResearchType,
		"research_content": result.Research,
	})
}

type ComparePDFsRequest struct {
	SessionIDs     []string `json:"session_ids" binding:"required"`
	ComparisonType string   `json:"comparison_type"`
	Model          string   `json:"model"`
}

func (h *StudyHandler) ComparePDFs(c *gin.Context) {
	var req ComparePDFsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.SessionIDs) != 2 {
		response.Detail(c, http.StatusBadRequest, "exactly two session_ids are required")
		return
	}

	result, err := h.studyService.ComparePDFs(c.Request.Context(), app.ComparePDFsInput{
		SessionID1:     req.SessionIDs[0],
		SessionID2:     req.SessionIDs[1],
		ComparisonType: req.ComparisonType,
		Model:          req.Model,
	})
	if err != nil {
		studyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_ids":     req.SessionIDs,
		"comparison_type": result.ComparisonType,
		"comparison":      result.Comparison,
	})
}

func studyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrNoDocument):
		response.Detail(c, http.StatusBadRequest, "No PDF uploaded in this session")
	case errors.Is(err, app.ErrSessionNotFound):
		response.Detail(c, http.StatusNotFound, "Session not found")
	case errors.Is(err, app.ErrInvalidInput):
		response.Detail(c, http.StatusBadRequest, "invalid request payload")
	case errors.Is(err, app.ErrMessageEnqueue):
		response.Detail(c, http.StatusServiceUnavailable, err.Error())
	default:
		response.Detail(c, http.StatusInternalServerError, "AI service error: "+err.Error())
	}
}
