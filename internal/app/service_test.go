package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-pdf/fpdf"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chatpdf/internal/ai"
	"chatpdf/internal/model"
	"chatpdf/internal/repository"
)

// syncPublisher persists messages directly instead of going through the
// queue, so tests observe writes immediately.
type syncPublisher struct {
	repo   *repository.MessageRepository
	failed bool
}

func (p *syncPublisher) Publish(ctx context.Context, msg model.Message) error {
	if p.failed {
		return context.DeadlineExceeded
	}
	return p.repo.Create(&msg)
}

// scriptedCompleter replies with a fixed answer and records what it was
// asked.
type scriptedCompleter struct {
	reply    string
	err      error
	lastMsgs []ai.ChatMessage
	lastMdl  string
	calls    int
}

func (c *scriptedCompleter) Complete(ctx context.Context, messages []ai.ChatMessage, mdl string) (string, error) {
	c.calls++
	c.lastMsgs = messages
	c.lastMdl = mdl
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func (c *scriptedCompleter) AvailableModels() []ai.ModelInfo {
	return []ai.ModelInfo{{ID: "claude-3-opus-20240229", Name: "Claude 3 Opus", Provider: "OpenRouter"}}
}

type testEnv struct {
	db           *gorm.DB
	sessionRepo  *repository.SessionRepository
	messageRepo  *repository.MessageRepository
	documentRepo *repository.DocumentRepository
	publisher    *syncPublisher
	completer    *scriptedCompleter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.User{}, &model.Session{}, &model.Message{}, &model.Document{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	messageRepo := repository.NewMessageRepository(db)
	return &testEnv{
		db:           db,
		sessionRepo:  repository.NewSessionRepository(db),
		messageRepo:  messageRepo,
		documentRepo: repository.NewDocumentRepository(db),
		publisher:    &syncPublisher{repo: messageRepo},
		completer:    &scriptedCompleter{reply: "canned answer"},
	}
}

func (e *testEnv) chatService() *ChatService {
	return NewChatService(e.sessionRepo, e.messageRepo, e.documentRepo, e.publisher, nil, e.completer, "")
}

func (e *testEnv) studyService() *StudyService {
	return NewStudyService(e.sessionRepo, e.messageRepo, e.publisher, nil, e.completer, "")
}

func (e *testEnv) libraryService() *LibraryService {
	return NewLibraryService(e.sessionRepo, e.messageRepo, e.documentRepo)
}

// helloWorldPDF renders a one-page PDF containing "Hello World".
func helloWorldPDF(t *testing.T) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 14)
	doc.Cell(40, 10, "Hello World")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("render test pdf: %v", err)
	}
	return buf.Bytes()
}
