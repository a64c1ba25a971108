// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-assistant/internal/domain"
)

// ChatMessagesStats returns the number of transcript lines for (userID, day)
// and the newest CreatedAt among them. When there are no rows, the count is 0
// and newest is nil.
func ChatMessagesStats(ctx context.Context, db *gorm.DB, userID uint, day domain.Day) (count int64, newest *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.ChatMessage{}).Where("user_id = ? AND m_date = ?", userID, day)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Avoid MAX() -> TEXT in SQLite.
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
