// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// ChatMessage model (the per-day transcript).
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-assistant/internal/domain"
)

// CreateChatMessage appends a transcript line dated day.
func CreateChatMessage(ctx context.Context, db *gorm.DB, userID uint, role, content string, questionID *uint, day domain.Day, at time.Time) (*domain.ChatMessage, error) {
	m := &domain.ChatMessage{
		UserID:     userID,
		Role:       role,
		Content:    content,
		QuestionID: questionID,
		Date:       day,
		CreatedAt:  at.UTC(),
	}
	return m, db.WithContext(ctx).Create(m).Error
}

// ListChatMessages returns the day's transcript ordered deterministically
// (CreatedAt ASC, ID ASC).
func ListChatMessages(ctx context.Context, db *gorm.DB, userID uint, day domain.Day) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	err := db.WithContext(ctx).
		Where("user_id = ? AND m_date = ?", userID, day).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// DeleteChatMessagesForDay removes the user's transcript for day.
func DeleteChatMessagesForDay(ctx context.Context, db *gorm.DB, userID uint, day domain.Day) (int64, error) {
	res := db.WithContext(ctx).
		Where("user_id = ? AND m_date = ?", userID, day).
		Delete(&domain.ChatMessage{})
	return res.RowsAffected, res.Error
}
