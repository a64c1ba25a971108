// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Answer model.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-assistant/internal/domain"
)

// CreateAnswer inserts an answer to questionID.
func CreateAnswer(ctx context.Context, db *gorm.DB, userID, questionID uint, text string, at time.Time) (*domain.Answer, error) {
	a := &domain.Answer{
		UserID:     userID,
		QuestionID: questionID,
		Text:       text,
		CreatedAt:  at.UTC(),
	}
	return a, db.WithContext(ctx).Create(a).Error
}

// GetAnswer fetches an answer owned by userID.
func GetAnswer(ctx context.Context, db *gorm.DB, id, userID uint) (*domain.Answer, error) {
	var a domain.Answer
	if err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAnswersForQuestions returns the user's answers to questionIDs ordered by
// question, then creation time (ID breaks ties).
func ListAnswersForQuestions(ctx context.Context, db *gorm.DB, userID uint, questionIDs []uint) ([]domain.Answer, error) {
	var out []domain.Answer
	if len(questionIDs) == 0 {
		return out, nil
	}
	err := db.WithContext(ctx).
		Where("user_id = ? AND question_id IN ?", userID, questionIDs).
		Order("question_id ASC, created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// CountAnsweredForDay returns how many of the user's questions on day have at
// least one answer.
func CountAnsweredForDay(ctx context.Context, db *gorm.DB, userID uint, day domain.Day) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Question{}).
		Where("questions.user_id = ? AND questions.q_date = ?", userID, day).
		Where("EXISTS (SELECT 1 FROM answers a WHERE a.question_id = questions.id AND a.user_id = ?)", userID).
		Count(&n).Error
	return n, err
}

// DeleteAnswersForQuestions removes the user's answers to questionIDs.
func DeleteAnswersForQuestions(ctx context.Context, db *gorm.DB, userID uint, questionIDs []uint) (int64, error) {
	if len(questionIDs) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).
		Where("user_id = ? AND question_id IN ?", userID, questionIDs).
		Delete(&domain.Answer{})
	return res.RowsAffected, res.Error
}
