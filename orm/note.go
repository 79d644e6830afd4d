package orm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Note is a user note saved by the notes tools
type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"not null" json:"content"`
	Tags      string    `json:"tags,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Note) TableName() string { return "notes" }

// CreateNote inserts a note and writes back its ID
func CreateNote(ctx context.Context, db *gorm.DB, note *Note) error {
	if strings.TrimSpace(note.Title) == "" {
		return errors.New("note title is required")
	}
	if err := db.WithContext(ctx).Create(note).Error; err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	return nil
}

// SearchNotes returns the newest notes, optionally filtered by a
// case-insensitive match on title, content or tags.
func SearchNotes(ctx context.Context, db *gorm.DB, term string, limit int) ([]Note, error) {
	notes := make([]Note, 0)
	if limit <= 0 {
		limit = 10
	}

	q := db.WithContext(ctx).Model(&Note{})
	if term = strings.TrimSpace(term); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(tags) LIKE ?", pattern, pattern, pattern)
	}
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}
	return notes, nil
}
