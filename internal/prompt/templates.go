package prompt

import "fmt"

// One truncation bound for every document-grounded feature. The documents
// this backend sees are interpolated straight into the system turn, so the
// bound caps prompt size, not storage.
const DocumentContextLimit = 4000

// HistoryWindow bounds how many prior turns ride along with a request.
const HistoryWindow = 10

const (
	generalAssistantSystem = "You are a helpful AI assistant. Answer any questions the user has with accurate and helpful information."

	noDocumentSystem = "You are a helpful AI assistant. No PDF has been uploaded yet. Please ask the user to upload a PDF document first."
)

// documentSystemTemplates key feature types to the system instruction that
// wraps the (truncated) document text.
var documentSystemTemplates = map[string]string{
	"chat": `You are an AI assistant specialized in analyzing PDF documents.

PDF Content:
%s...

Please answer questions based on this PDF content. Be specific and reference the document when possible.`,

	"qa_generation": `You are an AI assistant that answers questions strictly from the supplied document.

PDF Content:
%s...

Answer based only on this PDF content and say so when the document does not cover a question.`,

	"question_generation": `You are an AI assistant specialized in creating educational questions from document content. Generate clear, relevant questions that test comprehension and knowledge retention.

PDF Content:
%s...`,

	"quiz_generation": `You are an AI assistant that builds quizzes from document content. Write questions that are self-contained and answerable from the document alone.

PDF Content:
%s...`,

	"translation": `You are an AI assistant specialized in translating document content accurately while preserving meaning, tone, and technical terminology.

PDF Content:
%s...`,

	"research": `You are an AI research assistant. Analyze the supplied document and produce well-structured findings grounded in its content.

PDF Content:
%s...`,

	"comparison": `You are an AI assistant specialized in comparing documents. Identify similarities, differences, and notable points across the supplied texts.`,
}

var questionInstructions = map[string]string{
	"faq":        "Generate 8-10 frequently asked questions (FAQs) with detailed answers based on this document content.",
	"mcq":        "Generate 10 multiple choice questions (A, B, C, D) with correct answers marked, based on this document content.",
	"true_false": "Generate 10 true/false questions with explanations for each answer, based on this document content.",
	"mixed":      "Generate a mix of question types: 3 FAQs, 4 multiple choice questions, and 3 true/false questions based on this document content.",
}

const defaultQuestionType = "mixed"

var quizInstructions = map[string]string{
	"daily":     "Create a daily practice quiz from this document content.",
	"chapter":   "Create a chapter-review quiz covering the major sections of this document.",
	"challenge": "Create a challenge quiz with tricky questions that test deep understanding of this document.",
}

const defaultQuizType = "daily"

var researchInstructions = map[string]string{
	"summary":           "Provide a concise summary of this document: its purpose, key points, and conclusions.",
	"detailed_research": "Provide a detailed research analysis of this document: methodology, findings, implications, and open questions, with section-by-section commentary.",
}

const defaultResearchType = "summary"

var translationScopes = map[string]string{
	"summary":    "Translate a concise summary of this document",
	"full":       "Translate the document content",
	"key_points": "Translate the key points of this document",
}

const defaultTranslationScope = "summary"

var comparisonInstructions = map[string]string{
	"content":   "Compare the content of the two documents: shared topics, unique material, and contradictions.",
	"structure": "Compare how the two documents are organized and structured.",
	"themes":    "Compare the central themes and arguments of the two documents.",
}

const defaultComparisonType = "content"

// QuestionInstruction builds the final user turn for question generation.
// Unknown types fall back to the mixed template.
func QuestionInstruction(questionType string) string {
	instruction, ok := questionInstructions[questionType]
	if !ok {
		instruction = questionInstructions[defaultQuestionType]
	}
	return instruction + "\n\nFormat your response clearly with question numbers, and for MCQs include all options (A, B, C, D) with the correct answer marked."
}

func QuizInstruction(quizType, difficulty string, questionCount int) string {
	instruction, ok := quizInstructions[quizType]
	if !ok {
		instruction = quizInstructions[defaultQuizType]
	}
	if questionCount <= 0 {
		questionCount = 10
	}
	if difficulty == "" {
		difficulty = "medium"
	}
	return fmt.Sprintf("%s Write %d questions at %s difficulty, numbered, with the correct answer marked for each.", instruction, questionCount, difficulty)
}

func ResearchInstruction(researchType string) string {
	instruction, ok := researchInstructions[researchType]
	if !ok {
		instruction = researchInstructions[defaultResearchType]
	}
	return instruction
}

func TranslationInstruction(targetLanguage, contentType string) string {
	scope, ok := translationScopes[contentType]
	if !ok {
		scope = translationScopes[defaultTranslationScope]
	}
	return fmt.Sprintf("%s into %s. Keep formatting and do not add commentary.", scope, targetLanguage)
}

func ComparisonInstruction(comparisonType string) string {
	instruction, ok := comparisonInstructions[comparisonType]
	if !ok {
		instruction = comparisonInstructions[defaultComparisonType]
	}
	return instruction
}
