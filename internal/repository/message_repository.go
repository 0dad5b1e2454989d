package repository

import (
	"fmt"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"chatpdf/internal/model"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("create message failed: %w", err)
	}
	return nil
}

// ListBySessionID returns messages oldest first, optionally filtered by
// feature type.
func (r *MessageRepository) ListBySessionID(sessionID, featureType string, limit int) ([]model.Message, error) {
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}

	query := r.db.Where("session_id = ?", sessionID)
	if featureType != "" {
		query = query.Where("feature_type = ?", featureType)
	}

	var messages []model.Message
	if err := query.Order("created_at ASC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list messages failed: %w", err)
	}
	return messages, nil
}

func (r *MessageRepository) DeleteBySessionID(sessionID string) error {
	if err := r.db.Where("session_id = ?", sessionID).Delete(&model.Message{}).Error; err != nil {
		return fmt.Errorf("delete messages failed: %w", err)
	}
	return nil
}

// SearchResult is a conversation search hit.
type SearchResult struct {
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Snippet   string    `json:"snippet"`
	CreatedAt time.Time `json:"created_at"`
}

// Search finds messages whose content contains the query, newest first.
func (r *MessageRepository) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var messages []model.Message
	if err := r.db.Where("content LIKE ?", "%"+query+"%").
		Order("created_at DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("search messages failed: %w", err)
	}

	results := make([]SearchResult, 0, len(messages))
	for _, msg := range messages {
		results = append(results, SearchResult{
			SessionID: msg.SessionID,
			Role:      msg.Role,
			Snippet:   snippet(msg.Content, 200),
			CreatedAt: msg.CreatedAt,
		})
	}
	return results, nil
}

func (r *MessageRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Message{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count messages failed: %w", err)
	}
	return count, nil
}

// FeatureUsage counts messages per feature type.
func (r *MessageRepository) FeatureUsage() (map[string]int64, error) {
	var rows []struct {
		FeatureType string
		Total       int64
	}
	if err := r.db.Model(&model.Message{}).
		Select("feature_type, count(*) as total").
		Group("feature_type").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("feature usage failed: %w", err)
	}

	usage := make(map[string]int64, len(rows))
	for _, row := range rows {
		usage[row.FeatureType] = row.Total
	}
	return usage, nil
}

// DailyCount is one day of message volume.
type DailyCount struct {
	Day   string `json:"date"`
	Total int64  `json:"count"`
}

// DailyCounts aggregates message volume per day since the cutoff.
func (r *MessageRepository) DailyCounts(since time.Time) ([]DailyCount, error) {
	var rows []DailyCount
	if err := r.db.Model(&model.Message{}).
		Select("date(created_at) as day, count(*) as total").
		Where("created_at >= ?", since).
		Group("date(created_at)").
		Order("day ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("daily counts failed: %w", err)
	}
	return rows, nil
}

func snippet(content string, max int) string {
	if len(content) <= max {
		return content
	}
	for max > 0 && !utf8.RuneStart(content[max]) {
		max--
	}
	return content[:max] + "..."
}
