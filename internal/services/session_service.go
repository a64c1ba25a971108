// Package services – SessionService
//
// SessionService owns the daily question set of each user: exactly one
// ordered set per (user, day), generated on first use. Concurrent callers in
// one process share a single generation per (user, day) through a
// singleflight group; an optional Locker extends that across processes. The
// unique index on (user_id, q_date, order_index) catches a writer neither
// can see, and a losing writer re-reads and returns the winner's set.
package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/tbourn/go-health-assistant/internal/domain"
	"github.com/tbourn/go-health-assistant/internal/generator"
	"github.com/tbourn/go-health-assistant/internal/repo"
	"github.com/tbourn/go-health-assistant/internal/sysutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultDescription is used when neither the request nor the service
// carries a patient description.
const DefaultDescription = "General daily health check"

// SessionState is the derived progress of a (user, day).
type SessionState string

const (
	StateNoQuestionsYet SessionState = "no_questions_yet"
	StateInProgress     SessionState = "in_progress"
	StateComplete       SessionState = "complete"
)

// DayEnsurer returns the question set for a (user, day), creating it if needed.
type DayEnsurer interface {
	EnsureDay(ctx context.Context, userID uint, day domain.Day, description string) ([]domain.Question, bool, error)
}

// SessionService manages daily question sets.
type SessionService struct {
	DB    *gorm.DB
	Gen   QuestionGenerator
	Locks Locker // cross-process lock; nil for a single instance

	// DefaultDescription overrides the package default when set.
	DefaultDescription string

	// Clock stamps created_at; nil means time.Now.
	Clock func() time.Time

	flight singleflight.Group
}

// daySet is the outcome of one generation, shared by every caller that
// joined it.
type daySet struct {
	qs      []domain.Question
	created bool
	claimed atomic.Bool
}

// take reports created to exactly one of the sharing callers.
func (d *daySet) take() bool {
	return d.created && d.claimed.CompareAndSwap(false, true)
}

// SessionProgress summarizes a day for GET /chat/state.
type SessionProgress struct {
	Day      domain.Day   `json:"date"`
	State    SessionState `json:"state"`
	Total    int64        `json:"total"`
	Answered int64        `json:"answered"`
}

func (s *SessionService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

func (s *SessionService) description(d string) string {
	return strings.TrimSpace(sysutil.FirstNonEmpty(d, s.DefaultDescription, DefaultDescription))
}

// EnsureDay returns the user's set for day ordered by position. created is
// true only for the call that generated and stored it. When a set exists
// the generator is not called and nothing is written.
func (s *SessionService) EnsureDay(ctx context.Context, userID uint, day domain.Day, description string) ([]domain.Question, bool, error) {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "EnsureDay",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.String("day", day.String()),
		),
	)
	defer span.End()

	if qs, err := repo.ListQuestionsForDay(ctx, s.DB, userID, day); err != nil {
		return nil, false, err
	} else if len(qs) > 0 {
		return qs, false, nil
	}

	// The generation outlives a caller that gives up so the others still
	// get the stored set.
	ch := s.flight.DoChan(dayLockKey(userID, day), func() (any, error) {
		return s.generateDay(context.WithoutCancel(ctx), userID, day, description)
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			span.RecordError(r.Err)
			return nil, false, r.Err
		}
		set := r.Val.(*daySet)
		return set.qs, set.take(), nil
	}
}

func (s *SessionService) generateDay(ctx context.Context, userID uint, day domain.Day, description string) (*daySet, error) {
	if s.Locks != nil {
		unlock, err := s.Locks.Lock(ctx, dayLockKey(userID, day))
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	// Someone may have generated while we waited.
	if qs, err := repo.ListQuestionsForDay(ctx, s.DB, userID, day); err != nil {
		return nil, err
	} else if len(qs) > 0 {
		return &daySet{qs: qs}, nil
	}

	set, err := s.Gen.DailyQuestions(ctx, s.description(description))
	if err != nil {
		trace.SpanFromContext(ctx).SetStatus(codes.Error, "generation failed")
		log.Warn().Err(err).Uint("user_id", userID).Str("day", day.String()).Msg("daily question generation failed")
		return nil, generationError(err)
	}

	now := s.now()
	items := set.Ordered()
	rows := make([]domain.Question, len(items))
	for i, it := range items {
		rows[i] = domain.Question{
			UserID:    userID,
			Text:      it.Text,
			Date:      day,
			Position:  it.Order,
			Source:    domain.SourceDaily,
			CreatedAt: now,
		}
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repo.CreateQuestions(ctx, tx, rows)
	})
	if errors.Is(err, repo.ErrDuplicate) {
		log.Info().Uint("user_id", userID).Str("day", day.String()).Msg("daily set created concurrently; using existing")
		qs, rerr := repo.ListQuestionsForDay(ctx, s.DB, userID, day)
		if rerr != nil {
			return nil, rerr
		}
		return &daySet{qs: qs}, nil
	}
	if err != nil {
		return nil, err
	}

	log.Info().Uint("user_id", userID).Str("day", day.String()).Int("count", len(rows)).Msg("daily questions generated")
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("questions.count", len(rows)))
	return &daySet{qs: rows, created: true}, nil
}

// Preview generates an ordered set without storing it.
func (s *SessionService) Preview(ctx context.Context, description string) ([]generator.Item, error) {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "Preview")
	defer span.End()

	set, err := s.Gen.DailyQuestions(ctx, s.description(description))
	if err != nil {
		span.RecordError(err)
		return nil, generationError(err)
	}
	return set.Ordered(), nil
}

// State derives the session state of (user, day) from stored rows.
func (s *SessionService) State(ctx context.Context, userID uint, day domain.Day) (*SessionProgress, error) {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "State",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.String("day", day.String()),
		),
	)
	defer span.End()

	total, err := repo.CountQuestionsForDay(ctx, s.DB, userID, day)
	if err != nil {
		return nil, err
	}
	p := &SessionProgress{Day: day, Total: total, State: StateNoQuestionsYet}
	if total == 0 {
		return p, nil
	}
	answered, err := repo.CountAnsweredForDay(ctx, s.DB, userID, day)
	if err != nil {
		return nil, err
	}
	p.Answered = answered
	if answered >= total {
		p.State = StateComplete
	} else {
		p.State = StateInProgress
	}
	return p, nil
}
