// Package prompt assembles provider-neutral message lists from session
// state. It is a pure transform: no storage, no clocks, no provider calls.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"chatpdf/internal/ai"
	"chatpdf/internal/model"
)

// BuildMessages produces the ordered message list for one request:
// a system turn chosen by feature type and document presence, up to
// HistoryWindow prior turns filtered to the request's feature type, then the
// current user content.
//
// general_ai never sees document text, even when a PDF is attached. A
// non-general feature without a document is not refused; the system turn
// asks the model to request an upload.
func BuildMessages(session *model.Session, history []model.Message, featureType, currentContent string) []ai.ChatMessage {
	messages := make([]ai.ChatMessage, 0, HistoryWindow+2)
	messages = append(messages, ai.ChatMessage{
		Role:    model.RoleSystem,
		Content: systemFor(session, featureType),
	})

	for _, msg := range recentWindow(history, HistoryWindow) {
		if !historyCompatible(msg.FeatureType, featureType) {
			continue
		}
		role := msg.Role
		if role == "" {
			role = model.RoleUser
		}
		messages = append(messages, ai.ChatMessage{Role: role, Content: msg.Content})
	}

	if content := strings.TrimSpace(currentContent); content != "" {
		messages = append(messages, ai.ChatMessage{Role: model.RoleUser, Content: content})
	}
	return messages
}

// CompareMessages builds the two-document comparison request. Each document
// gets half the context budget.
func CompareMessages(first, second *model.Session, comparisonType string) []ai.ChatMessage {
	segment := DocumentContextLimit / 2
	userTurn := fmt.Sprintf("%s\n\nDocument 1 (%s):\n%s\n\nDocument 2 (%s):\n%s",
		ComparisonInstruction(comparisonType),
		first.PDFFilename, Truncate(first.PDFContent, segment),
		second.PDFFilename, Truncate(second.PDFContent, segment),
	)
	return []ai.ChatMessage{
		{Role: model.RoleSystem, Content: documentSystemTemplates["comparison"]},
		{Role: model.RoleUser, Content: userTurn},
	}
}

// Truncate hard-cuts text to at most limit bytes, backing off to the nearest
// rune boundary so a multi-byte character is never split.
func Truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}

// ChapterSegment slices the lines from the first occurrence of segment up to
// the next chapter/section heading. Falls back to the whole text when the
// segment is not found.
func ChapterSegment(text, segment string) string {
	if strings.TrimSpace(segment) == "" {
		return text
	}

	needle := strings.ToLower(segment)
	var chapter []string
	inChapter := false
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, needle) {
			inChapter = true
		} else if inChapter && (strings.Contains(lower, "chapter") || strings.Contains(lower, "section")) {
			break
		}
		if inChapter {
			chapter = append(chapter, line)
		}
	}
	if len(chapter) == 0 {
		return text
	}
	return strings.Join(chapter, "\n")
}

func systemFor(session *model.Session, featureType string) string {
	if featureType == model.FeatureGeneralAI {
		return generalAssistantSystem
	}
	if session == nil || session.PDFContent == "" {
		return noDocumentSystem
	}

	template, ok := documentSystemTemplates[featureType]
	if !ok {
		template = documentSystemTemplates[model.FeatureChat]
	}
	if !strings.Contains(template, "%s") {
		return template
	}
	return fmt.Sprintf(template, Truncate(session.PDFContent, DocumentContextLimit))
}

// historyCompatible applies the single filter rule: a stored turn rides
// along iff its feature type matches the request's, except an incoming chat
// request accepts any stored type.
func historyCompatible(stored, requested string) bool {
	return stored == requested || requested == model.FeatureChat
}

func recentWindow(history []model.Message, n int) []model.Message {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
