package app

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"chatpdf/internal/model"
	"chatpdf/internal/repository"
)

// LibraryService covers the cross-session surface: search over uploads and
// conversations, conversation export, and usage insights.
type LibraryService struct {
	sessionRepo  *repository.SessionRepository
	messageRepo  *repository.MessageRepository
	documentRepo *repository.DocumentRepository
}

func NewLibraryService(
	sessionRepo *repository.SessionRepository,
	messageRepo *repository.MessageRepository,
	documentRepo *repository.DocumentRepository,
) *LibraryService {
	return &LibraryService{
		sessionRepo:  sessionRepo,
		messageRepo:  messageRepo,
		documentRepo: documentRepo,
	}
}

type SearchResults struct {
	Query         string                    `json:"query"`
	PDFs          []repository.DocumentHit  `json:"pdfs"`
	Conversations []repository.SearchResult `json:"conversations"`
	TotalResults  int                       `json:"total_results"`
}

// Search runs a substring search over uploads, conversations, or both.
// searchType is one of "all", "pdfs", "conversations"; anything else behaves
// like "all".
func (s *LibraryService) Search(query, searchType string) (*SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidInput
	}

	results := &SearchResults{
		Query:         query,
		PDFs:          []repository.DocumentHit{},
		Conversations: []repository.SearchResult{},
	}

	if searchType != "conversations" {
		hits, err := s.documentRepo.Search(query, 20)
		if err != nil {
			return nil, err
		}
		results.PDFs = hits
	}
	if searchType != "pdfs" {
		hits, err := s.messageRepo.Search(query, 20)
		if err != nil {
			return nil, err
		}
		results.Conversations = hits
	}

	results.TotalResults = len(results.PDFs) + len(results.Conversations)
	return results, nil
}

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Export renders a session's conversation as a downloadable file. format is
// "txt" or "pdf"; includeMessages false exports the header only.
func (s *LibraryService) Export(sessionID, format string, includeMessages bool) (*ExportResult, error) {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	var messages []model.Message
	if includeMessages {
		messages, err = s.messageRepo.ListBySessionID(sessionID, "", 1000)
		if err != nil {
			return nil, err
		}
	}

	switch format {
	case "", "txt":
		return &ExportResult{
			Filename:    fmt.Sprintf("chat_export_%s.txt", shortID(session.ID)),
			ContentType: "text/plain; charset=utf-8",
			Data:        []byte(renderTranscript(session, messages)),
		}, nil
	case "pdf":
		data, err := renderTranscriptPDF(session, messages)
		if err != nil {
			return nil, fmt.Errorf("render export pdf failed: %w", err)
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("chat_export_%s.pdf", shortID(session.ID)),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, ErrInvalidInput
	}
}

type Insights struct {
	TotalSessions      int64                      `json:"total_sessions"`
	TotalMessages      int64                      `json:"total_messages"`
	TotalDocuments     int64                      `json:"total_documents"`
	ActiveSessionsWeek int64                      `json:"active_sessions_week"`
	FeatureUsage       map[string]int64           `json:"feature_usage"`
	PopularPDFs        []repository.FilenameCount `json:"popular_pdfs"`
	DailyActivity      []repository.DailyCount    `json:"daily_activity"`
}

// GetInsights aggregates library-wide usage statistics.
func (s *LibraryService) GetInsights() (*Insights, error) {
	totalSessions, err := s.sessionRepo.Count()
	if err != nil {
		return nil, err
	}
	totalMessages, err := s.messageRepo.Count()
	if err != nil {
		return nil, err
	}
	totalDocuments, err := s.documentRepo.Count()
	if err != nil {
		return nil, err
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	activeWeek, err := s.sessionRepo.CountActiveSince(weekAgo)
	if err != nil {
		return nil, err
	}

	featureUsage, err := s.messageRepo.FeatureUsage()
	if err != nil {
		return nil, err
	}
	popular, err := s.documentRepo.TopFilenames(5)
	if err != nil {
		return nil, err
	}
	daily, err := s.messageRepo.DailyCounts(weekAgo)
	if err != nil {
		return nil, err
	}

	if popular == nil {
		popular = []repository.FilenameCount{}
	}
	if daily == nil {
		daily = []repository.DailyCount{}
	}

	return &Insights{
		TotalSessions:      totalSessions,
		TotalMessages:      totalMessages,
		TotalDocuments:     totalDocuments,
		ActiveSessionsWeek: activeWeek,
		FeatureUsage:       featureUsage,
		PopularPDFs:        popular,
		DailyActivity:      daily,
	}, nil
}

func renderTranscript(session *model.Session, messages []model.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Chat Export: %s\n", session.Title)
	if session.PDFFilename != "" {
		fmt.Fprintf(&b, "Document: %s\n", session.PDFFilename)
	}
	fmt.Fprintf(&b, "Exported: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	for _, msg := range messages {
		label := "User"
		if msg.Role == model.RoleAssistant {
			label = "Assistant"
		}
		fmt.Fprintf(&b, "[%s] %s:\n%s\n\n", msg.CreatedAt.Format("2006-01-02 15:04"), label, msg.Content)
	}
	return b.String()
}

func renderTranscriptPDF(session *model.Session, messages []model.Message) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.MultiCell(0, 8, sanitizePDFText("Chat Export: "+session.Title), "", "L", false)
	doc.SetFont("Helvetica", "", 10)
	if session.PDFFilename != "" {
		doc.MultiCell(0, 6, sanitizePDFText("Document: "+session.PDFFilename), "", "L", false)
	}
	doc.MultiCell(0, 6, "Exported: "+time.Now().Format("2006-01-02 15:04:05"), "", "L", false)
	doc.Ln(4)

	for _, msg := range messages {
		label := "User"
		if msg.Role == model.RoleAssistant {
			label = "Assistant"
		}
		doc.SetFont("Helvetica", "B", 11)
		doc.MultiCell(0, 6, fmt.Sprintf("[%s] %s:", msg.CreatedAt.Format("2006-01-02 15:04"), label), "", "L", false)
		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(0, 5, sanitizePDFText(msg.Content), "", "L", false)
		doc.Ln(3)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sanitizePDFText drops characters outside the core font's codepage so the
// renderer does not emit replacement glyphs.
func sanitizePDFText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || (r >= 32 && r < 127) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
