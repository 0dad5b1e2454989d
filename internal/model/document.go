package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is the upload log: one row per uploaded PDF, immutable, retained
// even when the session it was uploaded into is deleted.
type Document struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Filename  string    `gorm:"size:256;not null" json:"filename"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	FileSize  int64     `gorm:"not null" json:"file_size"`
	CreatedAt time.Time `json:"upload_date"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
