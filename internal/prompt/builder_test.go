package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"chatpdf/internal/model"
)

func docSession(content string) *model.Session {
	return &model.Session{
		ID:          "session-1",
		Title:       "Test",
		PDFFilename: "doc.pdf",
		PDFContent:  content,
	}
}

func TestBuildMessagesTruncatesDocument(t *testing.T) {
	long := strings.Repeat("x", DocumentContextLimit+500)
	messages := BuildMessages(docSession(long), nil, model.FeatureChat, "summarize")

	system := messages[0]
	if system.Role != model.RoleSystem {
		t.Fatalf("first turn must be system, got %q", system.Role)
	}
	if !strings.Contains(system.Content, long[:DocumentContextLimit]) {
		t.Fatal("system turn missing the truncated document prefix")
	}
	if strings.Contains(system.Content, long[:DocumentContextLimit+1]) {
		t.Fatal("system turn contains text past the truncation bound")
	}
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	text := "aaaa日本語" // "日" spans bytes 4..6

	got := Truncate(text, 5)
	if got != "aaaa" {
		t.Fatalf("expected cut before the split rune, got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncated text is not valid UTF-8: %q", got)
	}
	if Truncate(text, 7) != "aaaa日" {
		t.Fatalf("cut on a rune boundary must keep the rune, got %q", Truncate(text, 7))
	}
	if Truncate(text, 100) != text {
		t.Fatal("text under the limit must pass through unchanged")
	}
}

func TestBuildMessagesGeneralAINeverSeesDocument(t *testing.T) {
	messages := BuildMessages(docSession("SECRET DOCUMENT TEXT"), nil, model.FeatureGeneralAI, "hello")
	for _, msg := range messages {
		if strings.Contains(msg.Content, "SECRET DOCUMENT TEXT") {
			t.Fatal("general_ai prompt leaked document text")
		}
	}
}

func TestBuildMessagesNoDocumentAsksForUpload(t *testing.T) {
	session := &model.Session{ID: "session-1", Title: "Empty"}
	messages := BuildMessages(session, nil, model.FeatureChat, "what does the PDF say?")

	if !strings.Contains(messages[0].Content, "upload a PDF") {
		t.Fatalf("expected upload hint in system turn, got %q", messages[0].Content)
	}
	last := messages[len(messages)-1]
	if last.Role != model.RoleUser || last.Content != "what does the PDF say?" {
		t.Fatalf("request must still carry the user turn, got %+v", last)
	}
}

func TestBuildMessagesHistoryWindow(t *testing.T) {
	var history []model.Message
	for i := 0; i < HistoryWindow+5; i++ {
		history = append(history, model.Message{
			Role:        model.RoleUser,
			Content:     string(rune('a' + i)),
			FeatureType: model.FeatureChat,
		})
	}

	messages := BuildMessages(docSession("doc"), history, model.FeatureChat, "latest")
	// system + window + current
	if len(messages) != HistoryWindow+2 {
		t.Fatalf("expected %d turns, got %d", HistoryWindow+2, len(messages))
	}
	// Oldest turns must fall out of the window.
	if messages[1].Content != history[5].Content {
		t.Fatalf("window should start at history[5], got %q", messages[1].Content)
	}
}

func TestBuildMessagesFiltersByFeatureType(t *testing.T) {
	history := []model.Message{
		{Role: model.RoleUser, Content: "chat turn", FeatureType: model.FeatureChat},
		{Role: model.RoleAssistant, Content: "research turn", FeatureType: model.FeatureResearch},
	}

	// A research request only sees research turns.
	messages := BuildMessages(docSession("doc"), history, model.FeatureResearch, "more research")
	for _, msg := range messages[1 : len(messages)-1] {
		if msg.Content == "chat turn" {
			t.Fatal("research request must not see chat history")
		}
	}

	// An incoming chat request sees everything.
	messages = BuildMessages(docSession("doc"), history, model.FeatureChat, "hello")
	var sawResearch bool
	for _, msg := range messages {
		if msg.Content == "research turn" {
			sawResearch = true
		}
	}
	if !sawResearch {
		t.Fatal("chat request should carry all stored feature types")
	}
}

func TestCompareMessagesSplitsBudget(t *testing.T) {
	first := docSession(strings.Repeat("a", DocumentContextLimit))
	second := docSession(strings.Repeat("b", DocumentContextLimit))
	second.PDFFilename = "other.pdf"

	messages := CompareMessages(first, second, "content")
	if len(messages) != 2 {
		t.Fatalf("expected system + user turns, got %d", len(messages))
	}

	user := messages[1].Content
	if strings.Contains(user, strings.Repeat("a", DocumentContextLimit/2+1)) {
		t.Fatal("first document exceeds half the context budget")
	}
	if !strings.Contains(user, "doc.pdf") || !strings.Contains(user, "other.pdf") {
		t.Fatal("comparison turn must name both documents")
	}
}

func TestChapterSegment(t *testing.T) {
	text := "intro line\nChapter 1: Basics\nbasics body\nChapter 2: Advanced\nadvanced body"

	segment := ChapterSegment(text, "chapter 1")
	if !strings.Contains(segment, "basics body") {
		t.Fatalf("segment should include the chapter body, got %q", segment)
	}
	if strings.Contains(segment, "advanced body") {
		t.Fatalf("segment should stop at the next chapter, got %q", segment)
	}

	// Unknown segment falls back to the whole text.
	if got := ChapterSegment(text, "chapter 9"); got != text {
		t.Fatalf("missing segment should return full text, got %q", got)
	}
}

func TestInstructionFallbacks(t *testing.T) {
	if got := QuestionInstruction("nonsense"); !strings.Contains(got, "3 FAQs") {
		t.Fatalf("unknown question type should use the mixed template, got %q", got)
	}
	if got := QuizInstruction("nonsense", "", 0); !strings.Contains(got, "daily practice quiz") {
		t.Fatalf("unknown quiz type should use the daily template, got %q", got)
	}
	if got := ResearchInstruction("nonsense"); !strings.Contains(got, "concise summary") {
		t.Fatalf("unknown research type should use the summary template, got %q", got)
	}
	if got := TranslationInstruction("French", "nonsense"); !strings.Contains(got, "French") {
		t.Fatalf("translation instruction must name the target language, got %q", got)
	}
}
