package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"chatpdf/internal/ai"
	"chatpdf/internal/model"
	"chatpdf/internal/pkg/pdfextract"
	"chatpdf/internal/prompt"
	"chatpdf/internal/repository"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrSessionNotFound = errors.New("Session not found")
	ErrMessageEmpty    = errors.New("message content is empty")
	ErrMessageEnqueue  = errors.New("message enqueue failed")
	ErrNoDocument      = errors.New("No PDF uploaded in this session")
	ErrPDFExtract      = errors.New("Error processing PDF")
)

// historyFetchLimit bounds how much history is loaded before the prompt
// window is applied.
const historyFetchLimit = 100

// AIClient is the routing layer seen by services: provider dispatch, key
// rotation, and cross-provider fallback behind one call.
type AIClient interface {
	Complete(ctx context.Context, messages []ai.ChatMessage, model string) (string, error)
	AvailableModels() []ai.ModelInfo
}

// AsyncMessagePublisher hands a message to the persistence queue.
type AsyncMessagePublisher interface {
	Publish(ctx context.Context, msg model.Message) error
}

// HistoryCache is the read-through cache for session message lists.
type HistoryCache interface {
	GetHistory(ctx context.Context, sessionID string) ([]model.Message, bool, error)
	SetHistory(ctx context.Context, sessionID string, messages []model.Message) error
	DeleteHistory(ctx context.Context, sessionID string) error
	MarkDirty(ctx context.Context, sessionID string) error
	IsDirty(ctx context.Context, sessionID string) (bool, error)
}

type ChatService struct {
	sessionRepo  *repository.SessionRepository
	messageRepo  *repository.MessageRepository
	documentRepo *repository.DocumentRepository
	publisher    AsyncMessagePublisher
	historyCache HistoryCache
	aiClient     AIClient
	defaultModel string
}

func NewChatService(
	sessionRepo *repository.SessionRepository,
	messageRepo *repository.MessageRepository,
	documentRepo *repository.DocumentRepository,
	publisher AsyncMessagePublisher,
	historyCache HistoryCache,
	aiClient AIClient,
	defaultModel string,
) *ChatService {
	if defaultModel == "" {
		defaultModel = "claude-3-opus-20240229"
	}
	return &ChatService{
		sessionRepo:  sessionRepo,
		messageRepo:  messageRepo,
		documentRepo: documentRepo,
		publisher:    publisher,
		historyCache: historyCache,
		aiClient:     aiClient,
		defaultModel: defaultModel,
	}
}

func (s *ChatService) CreateSession(title string) (*model.Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "New Chat"
	}

	session := &model.Session{Title: title}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *ChatService) ListSessions() ([]model.Session, error) {
	return s.sessionRepo.List(100)
}

// GetSession returns ErrSessionNotFound for unknown ids.
func (s *ChatService) GetSession(id string) (*model.Session, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	session, err := s.sessionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *ChatService) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.GetSession(id); err != nil {
		return err
	}
	if err := s.messageRepo.DeleteBySessionID(id); err != nil {
		return err
	}
	if err := s.sessionRepo.Delete(id); err != nil {
		return err
	}
	if s.historyCache != nil {
		_ = s.historyCache.DeleteHistory(ctx, id)
	}
	return nil
}

type UploadPDFResult struct {
	Filename      string `json:"filename"`
	ContentLength int    `json:"content_length"`
}

// UploadPDF extracts text from the uploaded bytes, records the document in
// the upload log, and attaches filename+text to the session. Document rows
// outlive their session (see DESIGN.md).
func (s *ChatService) UploadPDF(ctx context.Context, sessionID, filename string, data []byte) (*UploadPDFResult, error) {
	if _, err := s.GetSession(sessionID); err != nil {
		return nil, err
	}

	text, err := pdfextract.ExtractBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFExtract, err)
	}

	doc := &model.Document{
		Filename: filename,
		Content:  text,
		FileSize: int64(len(data)),
	}
	if err := s.documentRepo.Create(doc); err != nil {
		return nil, err
	}

	if err := s.sessionRepo.AttachPDF(sessionID, filename, text); err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		_ = s.historyCache.DeleteHistory(ctx, sessionID)
	}

	return &UploadPDFResult{Filename: filename, ContentLength: len(text)}, nil
}

type SendMessageInput struct {
	SessionID   string
	Content     string
	Model       string
	FeatureType string
}

type SendMessageResult struct {
	UserMessage model.Message `json:"user_message"`
	AIResponse  model.Message `json:"ai_response"`
}

// SendMessage enqueues the user turn, assembles the prompt, dispatches it
// through the AI router, and enqueues the assistant turn. The two writes are
// deliberately not transactional; each enqueue/persist is independent.
func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (*SendMessageResult, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrMessageEmpty
	}

	session, err := s.GetSession(input.SessionID)
	if err != nil {
		return nil, err
	}

	featureType := input.FeatureType
	if featureType == "" {
		featureType = model.FeatureChat
	}
	modelID := input.Model
	if modelID == "" {
		modelID = s.defaultModel
	}

	history, err := s.messageRepo.ListBySessionID(session.ID, "", historyFetchLimit)
	if err != nil {
		return nil, err
	}
	promptMessages := prompt.BuildMessages(session, history, featureType, content)

	userMessage := model.Message{
		ID:          uuid.NewString(),
		SessionID:   session.ID,
		Role:        model.RoleUser,
		Content:     content,
		FeatureType: featureType,
		CreatedAt:   time.Now(),
	}
	if err := s.enqueue(ctx, userMessage); err != nil {
		return nil, err
	}

	aiText, err := s.aiClient.Complete(ctx, promptMessages, modelID)
	if err != nil {
		return nil, err
	}
	aiText = strings.TrimSpace(aiText)
	if aiText == "" {
		aiText = "The model returned an empty response."
	}

	assistantMessage := model.Message{
		ID:          uuid.NewString(),
		SessionID:   session.ID,
		Role:        model.RoleAssistant,
		Content:     aiText,
		FeatureType: featureType,
		CreatedAt:   time.Now(),
	}
	if err := s.enqueue(ctx, assistantMessage); err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Touch(session.ID); err != nil {
		return nil, err
	}

	return &SendMessageResult{
		UserMessage: userMessage,
		AIResponse:  assistantMessage,
	}, nil
}

// GetMessages lists a session's messages oldest first. Unfiltered reads go
// through the history cache unless a write marked it dirty.
func (s *ChatService) GetMessages(ctx context.Context, sessionID, featureType string) ([]model.Message, error) {
	if _, err := s.GetSession(sessionID); err != nil {
		return nil, err
	}

	if featureType == "" && s.historyCache != nil {
		if dirty, err := s.historyCache.IsDirty(ctx, sessionID); err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, sessionID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	messages, err := s.messageRepo.ListBySessionID(sessionID, featureType, 1000)
	if err != nil {
		return nil, err
	}

	if featureType == "" && s.historyCache != nil {
		if dirty, err := s.historyCache.IsDirty(ctx, sessionID); err == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, sessionID, messages)
		}
	}
	return messages, nil
}

func (s *ChatService) AvailableModels() []ai.ModelInfo {
	return s.aiClient.AvailableModels()
}

// enqueue invalidates the cache, marks it dirty, and hands the message to
// the persistence queue.
func (s *ChatService) enqueue(ctx context.Context, msg model.Message) error {
	if s.publisher == nil {
		return ErrMessageEnqueue
	}
	if s.historyCache != nil {
		_ = s.historyCache.MarkDirty(ctx, msg.SessionID)
		_ = s.historyCache.DeleteHistory(ctx, msg.SessionID)
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		return ErrMessageEnqueue
	}
	return nil
}
