// Package services – AdminService
//
// AdminService holds maintenance operations used by tests, demos and the
// seed CLI: replacing a day's set by hand, wiping a day, and backfilling a
// past day with a complete, answered session.
package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-health-assistant/internal/domain"
	"github.com/tbourn/go-health-assistant/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Backfill timing: question i is asked at 09:00 + i*BackfillInterval and
// answered BackfillAnswerDelay later.
const (
	BackfillInterval    = 5 * time.Minute
	BackfillAnswerDelay = 2 * time.Minute
)

// ResetCounts reports what ResetDay removed.
type ResetCounts struct {
	Questions int64 `json:"questions"`
	Answers   int64 `json:"answers"`
	Messages  int64 `json:"messages"`
}

// BackfillResult reports what BackfillDay wrote.
type BackfillResult struct {
	Day       domain.Day `json:"date"`
	Questions int        `json:"questions"`
	Answers   int        `json:"answers"`
	Skipped   bool       `json:"skipped"` // the day already had a set
}

// AdminService performs maintenance on stored sessions.
type AdminService struct {
	DB       *gorm.DB
	Sessions DayEnsurer
}

// ResetDay deletes the day's answers (to the day's questions), the day's
// chat messages and the day's questions, in one transaction.
func (s *AdminService) ResetDay(ctx context.Context, userID uint, day domain.Day) (ResetCounts, error) {
	tr := otel.Tracer("services/AdminService")
	ctx, span := tr.Start(ctx, "ResetDay",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.String("day", day.String()),
		),
	)
	defer span.End()

	var counts ResetCounts
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		counts, err = resetDay(ctx, tx, userID, day)
		return err
	})
	if err != nil {
		return ResetCounts{}, err
	}
	log.Info().Uint("user_id", userID).Str("day", day.String()).
		Int64("questions", counts.Questions).Int64("answers", counts.Answers).Int64("messages", counts.Messages).
		Msg("day reset")
	return counts, nil
}

func resetDay(ctx context.Context, tx *gorm.DB, userID uint, day domain.Day) (ResetCounts, error) {
	var c ResetCounts
	qs, err := repo.ListQuestionsForDay(ctx, tx, userID, day)
	if err != nil {
		return c, err
	}
	ids := make([]uint, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	if c.Answers, err = repo.DeleteAnswersForQuestions(ctx, tx, userID, ids); err != nil {
		return c, err
	}
	if c.Messages, err = repo.DeleteChatMessagesForDay(ctx, tx, userID, day); err != nil {
		return c, err
	}
	if c.Questions, err = repo.DeleteQuestionsForDay(ctx, tx, userID, day); err != nil {
		return c, err
	}
	return c, nil
}

// SeedQuestions inserts texts as the user's questions for day. With reset
// the day is wiped first and positions start at 0; otherwise positions
// continue after the day's current maximum.
func (s *AdminService) SeedQuestions(ctx context.Context, userID uint, texts []string, reset bool, day domain.Day, now time.Time) ([]domain.Question, error) {
	tr := otel.Tracer("services/AdminService")
	ctx, span := tr.Start(ctx, "SeedQuestions",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.Int("questions.count", len(texts)),
			attribute.Bool("reset", reset),
		),
	)
	defer span.End()

	clean := make([]string, 0, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) == 0 {
		return nil, invalidInput("questions must contain at least one non-empty text")
	}

	var rows []domain.Question
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		start := 0
		if reset {
			if _, err := resetDay(ctx, tx, userID, day); err != nil {
				return err
			}
		} else {
			top, err := repo.MaxPositionForDay(ctx, tx, userID, day)
			if err != nil {
				return err
			}
			start = top + 1
		}
		rows = make([]domain.Question, len(clean))
		for i, t := range clean {
			rows[i] = domain.Question{
				UserID:    userID,
				Text:      t,
				Date:      day,
				Position:  start + i,
				Source:    domain.SourceDaily,
				CreatedAt: now.UTC(),
			}
		}
		return repo.CreateQuestions(ctx, tx, rows)
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// BackfillDay generates a set for a past day and records a complete
// session: every question asked and answered with answers[i % len(answers)],
// both transcript lines included. A day that already has a set is left
// untouched and reported as skipped.
func (s *AdminService) BackfillDay(ctx context.Context, userID uint, day domain.Day, description string, answers []string) (*BackfillResult, error) {
	tr := otel.Tracer("services/AdminService")
	ctx, span := tr.Start(ctx, "BackfillDay",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.String("day", day.String()),
		),
	)
	defer span.End()

	if len(answers) == 0 {
		return nil, invalidInput("at least one sample answer is required")
	}

	qs, created, err := s.Sessions.EnsureDay(ctx, userID, day, description)
	if err != nil {
		return nil, err
	}
	res := &BackfillResult{Day: day, Questions: len(qs)}
	if !created {
		res.Skipped = true
		return res, nil
	}

	base := day.Time().Add(9 * time.Hour)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, q := range qs {
			asked := base.Add(time.Duration(i) * BackfillInterval)
			answered := asked.Add(BackfillAnswerDelay)
			text := answers[i%len(answers)]
			qid := q.ID

			if _, err := repo.MarkAsked(ctx, tx, q.ID, asked); err != nil {
				return err
			}
			if _, err := repo.CreateChatMessage(ctx, tx, userID, domain.RoleAssistant, q.Text, &qid, day, asked); err != nil {
				return err
			}
			if _, err := repo.CreateAnswer(ctx, tx, userID, q.ID, text, answered); err != nil {
				return err
			}
			if _, err := repo.CreateChatMessage(ctx, tx, userID, domain.RoleUser, text, &qid, day, answered); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Answers = len(qs)
	return res, nil
}
