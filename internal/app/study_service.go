package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"chatpdf/internal/model"
	"chatpdf/internal/prompt"
	"chatpdf/internal/repository"
)

// StudyService implements the one-shot document features: question and quiz
// generation, translation, research, and two-document comparison. Each call
// runs a single completion against the session's document and persists the
// result as an assistant turn tagged with the feature type.
type StudyService struct {
	sessionRepo  *repository.SessionRepository
	messageRepo  *repository.MessageRepository
	publisher    AsyncMessagePublisher
	historyCache HistoryCache
	aiClient     AIClient
	defaultModel string
}

func NewStudyService(
	sessionRepo *repository.SessionRepository,
	messageRepo *repository.MessageRepository,
	publisher AsyncMessagePublisher,
	historyCache HistoryCache,
	aiClient AIClient,
	defaultModel string,
) *StudyService {
	if defaultModel == "" {
		defaultModel = "claude-3-opus-20240229"
	}
	return &StudyService{
		sessionRepo:  sessionRepo,
		messageRepo:  messageRepo,
		publisher:    publisher,
		historyCache: historyCache,
		aiClient:     aiClient,
		defaultModel: defaultModel,
	}
}

type GenerateQuestionsInput struct {
	SessionID      string
	QuestionType   string
	ChapterSegment string
	Model          string
}

type GenerateQuestionsResult struct {
	Questions    string `json:"questions"`
	QuestionType string `json:"question_type"`
	SessionID    string `json:"session_id"`
}

func (s *StudyService) GenerateQuestions(ctx context.Context, input GenerateQuestionsInput) (*GenerateQuestionsResult, error) {
	session, err := s.documentSession(input.SessionID)
	if err != nil {
		return nil, err
	}

	if segment := strings.TrimSpace(input.ChapterSegment); segment != "" {
		scoped := *session
		scoped.PDFContent = prompt.ChapterSegment(session.PDFContent, segment)
		session = &scoped
	}

	questionType := input.QuestionType
	if questionType == "" {
		questionType = "mixed"
	}

	text, err := s.run(ctx, session, model.FeatureQuestionGeneration, prompt.QuestionInstruction(questionType), input.Model)
	if err != nil {
		return nil, err
	}

	record := fmt.Sprintf("Generated Questions (%s):\n%s", questionType, text)
	if err := s.persist(ctx, session.ID, model.FeatureQuestionGeneration, record); err != nil {
		return nil, err
	}

	return &GenerateQuestionsResult{
		Questions:    text,
		QuestionType: questionType,
		SessionID:    session.ID,
	}, nil
}

type GenerateQuizInput struct {
	SessionID     string
	QuizType      string
	Difficulty    string
	QuestionCount int
	Model         string
}

type GenerateQuizResult struct {
	Quiz       string `json:"quiz"`
	QuizType   string `json:"quiz_type"`
	Difficulty string `json:"difficulty"`
	SessionID  string `json:"session_id"`
}

func (s *StudyService) GenerateQuiz(ctx context.Context, input GenerateQuizInput) (*GenerateQuizResult, error) {
	session, err := s.documentSession(input.SessionID)
	if err != nil {
		return nil, err
	}

	quizType := input.QuizType
	if quizType == "" {
		quizType = "daily"
	}
	difficulty := input.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}

	instruction := prompt.QuizInstruction(quizType, difficulty, input.QuestionCount)
	text, err := s.run(ctx, session, model.FeatureQuizGeneration, instruction, input.Model)
	if err != nil {
		return nil, err
	}

	record := fmt.Sprintf("Generated Quiz (%s, %s):\n%s", quizType, difficulty, text)
	if err := s.persist(ctx, session.ID, model.FeatureQuizGeneration, record); err != nil {
		return nil, err
	}

	return &GenerateQuizResult{
		Quiz:       text,
		QuizType:   quizType,
		Difficulty: difficulty,
		SessionID:  session.ID,
	}, nil
}

type TranslateInput struct {
	SessionID      string
	TargetLanguage string
	ContentType    string
	Model          string
}

type TranslateResult struct {
	Translation    string `json:"translation"`
	TargetLanguage string `json:"target_language"`
	ContentType    string `json:"content_type"`
	SessionID      string `json:"session_id"`
}

func (s *StudyService) Translate(ctx context.Context, input TranslateInput) (*TranslateResult, error) {
	session, err := s.documentSession(input.SessionID)
	if err != nil {
		return nil, err
	}

	targetLanguage := strings.TrimSpace(input.TargetLanguage)
	if targetLanguage == "" {
		return nil, ErrInvalidInput
	}
	contentType := input.ContentType
	if contentType == "" {
		contentType = "summary"
	}

	instruction := prompt.TranslationInstruction(targetLanguage, contentType)
	text, err := s.run(ctx, session, model.FeatureTranslation, instruction, input.Model)
	if err != nil {
		return nil, err
	}

	record := fmt.Sprintf("Translation to %s:\n%s", targetLanguage, text)
	if err := s.persist(ctx, session.ID, model.FeatureTranslation, record); err != nil {
		return nil, err
	}

	return &TranslateResult{
		Translation:    text,
		TargetLanguage: targetLanguage,
		ContentType:    contentType,
		SessionID:      session.ID,
	}, nil
}

type ResearchInput struct {
	SessionID    string
	ResearchType string
	Model        string
}

type ResearchResult struct {
	Research     string `json:"research"`
	ResearchType string `json:"research_type"`
	SessionID    string `json:"session_id"`
}

func (s *StudyService) Research(ctx context.Context, input ResearchInput) (*ResearchResult, error) {
	session, err := s.documentSession(input.SessionID)
	if err != nil {
		return nil, err
	}

	researchType := input.ResearchType
	if researchType == "" {
		researchType = "summary"
	}

	text, err := s.run(ctx, session, model.FeatureResearch, prompt.ResearchInstruction(researchType), input.Model)
	if err != nil {
		return nil, err
	}

	record := fmt.Sprintf("Research (%s):\n%s", researchType, text)
	if err := s.persist(ctx, session.ID, model.FeatureResearch, record); err != nil {
		return nil, err
	}

	return &ResearchResult{
		Research:     text,
		ResearchType: researchType,
		SessionID:    session.ID,
	}, nil
}

type ComparePDFsInput struct {
	SessionID1     string
	SessionID2     string
	ComparisonType string
	Model          string
}

type ComparePDFsResult struct {
	Comparison     string   `json:"comparison"`
	ComparisonType string   `json:"comparison_type"`
	Documents      []string `json:"documents"`
}

// ComparePDFs runs a single comparison request over two sessions' documents
// and persists the result under the first session.
func (s *StudyService) ComparePDFs(ctx context.Context, input ComparePDFsInput) (*ComparePDFsResult, error) {
	first, err := s.documentSession(input.SessionID1)
	if err != nil {
		return nil, err
	}
	second, err := s.documentSession(input.SessionID2)
	if err != nil {
		return nil, err
	}

	comparisonType := input.ComparisonType
	if comparisonType == "" {
		comparisonType = "content"
	}

	modelID := input.Model
	if modelID == "" {
		modelID = s.defaultModel
	}

	text, err := s.aiClient.Complete(ctx, prompt.CompareMessages(first, second, comparisonType), modelID)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		text = "The model returned an empty response."
	}

	record := fmt.Sprintf("Comparison with %s (%s):\n%s", second.PDFFilename, comparisonType, text)
	if err := s.persist(ctx, first.ID, model.FeatureComparison, record); err != nil {
		return nil, err
	}

	return &ComparePDFsResult{
		Comparison:     text,
		ComparisonType: comparisonType,
		Documents:      []string{first.PDFFilename, second.PDFFilename},
	}, nil
}

// documentSession loads the session and requires an attached document.
func (s *StudyService) documentSession(sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, ErrInvalidInput
	}
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.PDFContent == "" {
		return nil, ErrNoDocument
	}
	return session, nil
}

func (s *StudyService) run(ctx context.Context, session *model.Session, featureType, instruction, modelID string) (string, error) {
	if modelID == "" {
		modelID = s.defaultModel
	}

	history, err := s.messageRepo.ListBySessionID(session.ID, "", historyFetchLimit)
	if err != nil {
		return "", err
	}

	text, err := s.aiClient.Complete(ctx, prompt.BuildMessages(session, history, featureType, instruction), modelID)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		text = "The model returned an empty response."
	}
	return text, nil
}

func (s *StudyService) persist(ctx context.Context, sessionID, featureType, content string) error {
	if s.historyCache != nil {
		_ = s.historyCache.MarkDirty(ctx, sessionID)
		_ = s.historyCache.DeleteHistory(ctx, sessionID)
	}

	msg := model.Message{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		Role:        model.RoleAssistant,
		Content:     content,
		FeatureType: featureType,
		CreatedAt:   time.Now(),
	}
	if s.publisher == nil {
		return ErrMessageEnqueue
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		return ErrMessageEnqueue
	}
	return s.sessionRepo.Touch(sessionID)
}
