// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Question
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only persistence
// and query composition.
//
// Error semantics:
//   - Single-row lookups return ErrNotFound when nothing matches.
//   - CreateQuestions returns ErrDuplicate when the (user, day, position)
//     unique index rejects the batch.
//   - Other DB errors are propagated unchanged.
//
// Functions:
//
//   - ListQuestionsForDay(ctx, db, userID, day) -> []domain.Question, error
//     The day's set ordered by position.
//
//   - CountQuestionsForDay / MaxPositionForDay
//     Cheap probes used by the session manager and admin seeding.
//
//   - CreateQuestions(ctx, db, qs) -> error
//     Batch insert; callers run it inside a transaction.
//
//   - GetQuestion(ctx, db, id, userID) -> *domain.Question, error
//     Ownership-scoped lookup.
//
//   - NextUnanswered(ctx, db, userID, day) -> *domain.Question, error
//     Lowest-position question of the day without an answer from the user.
//
//   - MarkAsked(ctx, db, id, at) -> bool, error
//     Sets asked_at only if it is still NULL; reports whether this call won.
//
//   - ListQuestionsInRange(ctx, db, userID, start, end) -> []domain.Question, error
//     Inclusive day range ordered by day, then position.
//
//   - DeleteQuestionsForDay(ctx, db, userID, day) -> int64, error
//
//   - ListUsersWithQuestionsOn(ctx, db, day) -> []uint, error
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-assistant/internal/domain"
)

// ListQuestionsForDay returns the user's questions for day ordered by position.
func ListQuestionsForDay(ctx context.Context, db *gorm.DB, userID uint, day domain.Day) ([]domain.Question, error) {
	var out []domain.Question
	err := db.WithContext(ctx).
		Where("user_id = ? AND q_date = ?", userID, day).
		Order("order_index ASC").
		Find(&out).Error
	return out, err
}

// CountQuestionsForDay returns the size of the user's set for day.
func CountQuestionsForDay(ctx context.Context, db *gorm.DB, userID uint, day domain.Day) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Question{}).
		Where("user_id = ? AND q_date = ?", userID, day).
		Count(&n).Error
	return n, err
}

// MaxPositionForDay returns the highest position used on day, or -1 when the
// day has no questions.
func MaxPositionForDay(ctx context.Context, db *gorm.DB, userID uint, day domain.Day) (int, error) {
	var row struct{ Max *int }
	err := db.WithContext(ctx).Model(&domain.Question{}).
		Select("MAX(order_index) AS max").
		Where("user_id = ? AND q_date = ?", userID, day).
		Scan(&row).Error
	if err != nil {
		return 0, err
	}
	if row.Max == nil {
		return -1, nil
	}
	return *row.Max, nil
}

// CreateQuestions inserts qs in a single statement.
func CreateQuestions(ctx context.Context, db *gorm.DB, qs []domain.Question) error {
	if len(qs) == 0 {
		return nil
	}
	if err := db.WithContext(ctx).Create(&qs).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetQuestion fetches a question owned by userID.
func GetQuestion(ctx context.Context, db *gorm.DB, id, userID uint) (*domain.Question, error) {
	var q domain.Question
	if err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// NextUnanswered returns the lowest-position question on day that has no
// answer from userID. Answers are matched by question and user, not by date.
func NextUnanswered(ctx context.Context, db *gorm.DB, userID uint, day domain.Day) (*domain.Question, error) {
	var q domain.Question
	err := db.WithContext(ctx).
		Where("questions.user_id = ? AND questions.q_date = ?", userID, day).
		Where("NOT EXISTS (SELECT 1 FROM answers a WHERE a.question_id = questions.id AND a.user_id = ?)", userID).
		Order("questions.order_index ASC").
		First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// MarkAsked stamps asked_at on question id unless it is already set.
// It returns true only for the call that performed the update.
func MarkAsked(ctx context.Context, db *gorm.DB, id uint, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Model(&domain.Question{}).
		Where("id = ? AND asked_at IS NULL", id).
		Update("asked_at", at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListQuestionsInRange returns questions with start <= day <= end ordered by
// day then position.
func ListQuestionsInRange(ctx context.Context, db *gorm.DB, userID uint, start, end domain.Day) ([]domain.Question, error) {
	var out []domain.Question
	err := db.WithContext(ctx).
		Where("user_id = ? AND q_date >= ? AND q_date <= ?", userID, start, end).
		Order("q_date ASC, order_index ASC").
		Find(&out).Error
	return out, err
}

// DeleteQuestionsForDay removes the user's set for day.
func DeleteQuestionsForDay(ctx context.Context, db *gorm.DB, userID uint, day domain.Day) (int64, error) {
	res := db.WithContext(ctx).
		Where("user_id = ? AND q_date = ?", userID, day).
		Delete(&domain.Question{})
	return res.RowsAffected, res.Error
}

// ListUsersWithQuestionsOn returns the distinct users that have a set on day.
func ListUsersWithQuestionsOn(ctx context.Context, db *gorm.DB, day domain.Day) ([]uint, error) {
	var ids []uint
	err := db.WithContext(ctx).Model(&domain.Question{}).
		Where("q_date = ?", day).
		Distinct().
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}
