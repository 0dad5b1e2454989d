package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feature types tag what a message was for. History assembly filters on them.
const (
	FeatureChat               = "chat"
	FeatureGeneralAI          = "general_ai"
	FeatureQAGeneration       = "qa_generation"
	FeatureResearch           = "research"
	FeatureTranslation        = "translation"
	FeatureQuizGeneration     = "quiz_generation"
	FeatureQuestionGeneration = "question_generation"
	FeatureComparison         = "comparison"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single turn inside a session. Messages are never mutated;
// they go away only when their session is deleted.
type Message struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	SessionID   string    `gorm:"size:36;not null;index" json:"session_id"`
	Role        string    `gorm:"size:16;not null" json:"role"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	FeatureType string    `gorm:"size:32;not null;index;default:chat" json:"feature_type"`
	CreatedAt   time.Time `json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
