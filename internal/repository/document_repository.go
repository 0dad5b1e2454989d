package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"chatpdf/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

// DocumentHit is a PDF search hit.
type DocumentHit struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Snippet    string    `json:"snippet"`
	UploadDate time.Time `json:"upload_date"`
}

// Search matches the query against filenames and extracted text, newest
// first.
func (r *DocumentRepository) Search(query string, limit int) ([]DocumentHit, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	pattern := "%" + query + "%"
	var docs []model.Document
	if err := r.db.Where("filename LIKE ? OR content LIKE ?", pattern, pattern).
		Order("created_at DESC").Limit(limit).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("search documents failed: %w", err)
	}

	hits := make([]DocumentHit, 0, len(docs))
	for _, doc := range docs {
		hits = append(hits, DocumentHit{
			ID:         doc.ID,
			Filename:   doc.Filename,
			Snippet:    snippet(doc.Content, 200),
			UploadDate: doc.CreatedAt,
		})
	}
	return hits, nil
}

func (r *DocumentRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Document{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count documents failed: %w", err)
	}
	return count, nil
}

// FilenameCount is one entry of the popular-PDFs ranking.
type FilenameCount struct {
	Filename string `json:"filename"`
	Total    int64  `json:"count"`
}

// TopFilenames ranks uploaded filenames by upload count.
func (r *DocumentRepository) TopFilenames(limit int) ([]FilenameCount, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []FilenameCount
	if err := r.db.Model(&model.Document{}).
		Select("filename, count(*) as total").
		Group("filename").
		Order("total DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("top filenames failed: %w", err)
	}
	return rows, nil
}
