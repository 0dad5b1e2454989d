package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"chatpdf/internal/model"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(session *model.Session) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("create session failed: %w", err)
	}
	return nil
}

// List returns sessions most-recently-updated first.
func (r *SessionRepository) List(limit int) ([]model.Session, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var sessions []model.Session
	if err := r.db.Order("updated_at DESC").Limit(limit).Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list sessions failed: %w", err)
	}
	return sessions, nil
}

// GetByID returns (nil, nil) when the session does not exist.
func (r *SessionRepository) GetByID(id string) (*model.Session, error) {
	var session model.Session
	if err := r.db.Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session failed: %w", err)
	}
	return &session, nil
}

// AttachPDF records the uploaded document on the session and bumps
// updated_at.
func (r *SessionRepository) AttachPDF(id, filename, content string) error {
	updates := map[string]interface{}{
		"pdf_filename": filename,
		"pdf_content":  content,
		"updated_at":   time.Now(),
	}
	if err := r.db.Model(&model.Session{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("attach pdf failed: %w", err)
	}
	return nil
}

// Touch bumps the session's updated_at after a message exchange.
func (r *SessionRepository) Touch(id string) error {
	if err := r.db.Model(&model.Session{}).Where("id = ?", id).Update("updated_at", time.Now()).Error; err != nil {
		return fmt.Errorf("touch session failed: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&model.Session{}).Error; err != nil {
		return fmt.Errorf("delete session failed: %w", err)
	}
	return nil
}

// Count is used by insights and the health monitor.
func (r *SessionRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Session{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count sessions failed: %w", err)
	}
	return count, nil
}

// CountActiveSince counts sessions touched after the cutoff.
func (r *SessionRepository) CountActiveSince(cutoff time.Time) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Session{}).Where("updated_at >= ?", cutoff).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count active sessions failed: %w", err)
	}
	return count, nil
}
