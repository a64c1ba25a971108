// Package services – ChatService
//
// ChatService drives the one-question-at-a-time check-in conversation. Each
// (user, day) moves NoQuestionsYet -> InProgress -> Complete; a question is
// the "current" one while it has no answer from the user, and it is asked
// (asked_at stamped, assistant message appended) at most once.
//
// Every method takes the instant it acts at explicitly; the day is derived
// from it in UTC.
package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-assistant/internal/domain"
	"github.com/tbourn/go-health-assistant/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultIdempotencyTTL bounds how long a replayed answer submission returns
// the original result.
const DefaultIdempotencyTTL = 24 * time.Hour

// ChatService coordinates questions, answers and the chat transcript.
type ChatService struct {
	DB       *gorm.DB
	Sessions DayEnsurer

	IdempotencyTTL time.Duration
}

// NextQuestion ensures today's set exists and returns the lowest-position
// question without an answer. The first time a question is returned it is
// stamped asked and an assistant message carrying its text is appended, both
// in one transaction. When every question is answered it returns
// ErrNoMoreQuestions.
func (s *ChatService) NextQuestion(ctx context.Context, userID uint, now time.Time, description string) (*domain.Question, error) {
	day := domain.DayOf(now)
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "NextQuestion",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.String("day", day.String()),
		),
	)
	defer span.End()

	if _, _, err := s.Sessions.EnsureDay(ctx, userID, day, description); err != nil {
		span.RecordError(err)
		return nil, err
	}

	var next *domain.Question
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q, err := repo.NextUnanswered(ctx, tx, userID, day)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNoMoreQuestions
		}
		if err != nil {
			return err
		}
		if q.AskedAt == nil {
			at := now.UTC()
			won, err := repo.MarkAsked(ctx, tx, q.ID, at)
			if err != nil {
				return err
			}
			if won {
				q.AskedAt = &at
				qid := q.ID
				if _, err := repo.CreateChatMessage(ctx, tx, userID, domain.RoleAssistant, q.Text, &qid, day, at); err != nil {
					return err
				}
			}
		}
		next = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("question.position", next.Position))
	return next, nil
}

// SubmitAnswer stores text as an answer to questionID plus the matching user
// message dated day(now). The question must belong to userID; otherwise
// ErrQuestionNotFound is returned and nothing is written. Answering an
// already answered question adds another answer.
func (s *ChatService) SubmitAnswer(ctx context.Context, userID, questionID uint, text string, now time.Time) (*domain.Answer, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "SubmitAnswer",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.Int64("question.id", int64(questionID)),
		),
	)
	defer span.End()

	var ans *domain.Answer
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := s.submit(ctx, tx, userID, questionID, text, now)
		ans = a
		return err
	})
	if err != nil {
		return nil, err
	}
	return ans, nil
}

// SubmitAnswerIdempotent behaves like SubmitAnswer, but a repeated call with
// the same non-empty key for the same (user, question) returns the original
// answer instead of storing a new one. replayed reports that case.
func (s *ChatService) SubmitAnswerIdempotent(ctx context.Context, userID, questionID uint, text, key string, now time.Time) (ans *domain.Answer, replayed bool, err error) {
	key = strings.TrimSpace(key)
	if key == "" {
		a, err := s.SubmitAnswer(ctx, userID, questionID, text, now)
		return a, false, err
	}

	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "SubmitAnswerIdempotent",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.Int64("question.id", int64(questionID)),
		),
	)
	defer span.End()

	if a, ok, err := s.replay(ctx, userID, questionID, key, now); err != nil || ok {
		return a, ok, err
	}

	ttl := s.IdempotencyTTL
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := s.submit(ctx, tx, userID, questionID, text, now)
		if err != nil {
			return err
		}
		// An expired record with the same key would otherwise block the insert.
		if _, err := repo.PurgeExpiredIdempotency(ctx, tx, now); err != nil {
			return err
		}
		if _, err := repo.CreateIdempotency(ctx, tx, userID, questionID, key, a.ID, http.StatusCreated, now, ttl); err != nil {
			return err
		}
		ans = a
		return nil
	})
	if errors.Is(err, repo.ErrDuplicate) {
		// A concurrent request with the same key committed first.
		a, ok, rerr := s.replay(ctx, userID, questionID, key, now)
		if rerr == nil && !ok {
			rerr = err
		}
		return a, ok, rerr
	}
	if err != nil {
		return nil, false, err
	}
	return ans, false, nil
}

func (s *ChatService) replay(ctx context.Context, userID, questionID uint, key string, now time.Time) (*domain.Answer, bool, error) {
	rec, err := repo.GetIdempotency(ctx, s.DB, userID, questionID, key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	a, err := repo.GetAnswer(ctx, s.DB, rec.AnswerID, userID)
	if err != nil {
		return nil, false, err
	}
	return a, true, nil
}

func (s *ChatService) submit(ctx context.Context, tx *gorm.DB, userID, questionID uint, text string, now time.Time) (*domain.Answer, error) {
	q, err := repo.GetQuestion(ctx, tx, questionID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	at := now.UTC()
	a, err := repo.CreateAnswer(ctx, tx, userID, q.ID, text, at)
	if err != nil {
		return nil, err
	}
	qid := q.ID
	if _, err := repo.CreateChatMessage(ctx, tx, userID, domain.RoleUser, text, &qid, domain.DayOf(at), at); err != nil {
		return nil, err
	}
	return a, nil
}

// ListMessages returns the transcript of (user, day) ordered by creation.
func (s *ChatService) ListMessages(ctx context.Context, userID uint, day domain.Day) ([]domain.ChatMessage, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "ListMessages",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.String("day", day.String()),
		),
	)
	defer span.End()

	msgs, err := repo.ListChatMessages(ctx, s.DB, userID, day)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	return msgs, nil
}

// MessagesStats returns the message count and newest created_at of (user, day).
func (s *ChatService) MessagesStats(ctx context.Context, userID uint, day domain.Day) (int64, *time.Time, error) {
	return repo.ChatMessagesStats(ctx, s.DB, userID, day)
}
