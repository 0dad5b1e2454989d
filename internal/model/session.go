package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is one chat workspace. A PDF can be attached at most once; the
// extracted text is denormalized onto the session so the chat path never
// reads Document rows.
type Session struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;index" json:"user_id,omitempty"`
	Title       string    `gorm:"size:128;not null" json:"title"`
	PDFFilename string    `gorm:"size:256" json:"pdf_filename,omitempty"`
	PDFContent  string    `gorm:"type:text" json:"pdf_content,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
