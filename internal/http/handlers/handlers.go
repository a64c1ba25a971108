// Package handlers exposes the check-in API over HTTP.
//
// Handlers are transport-thin: they validate input, resolve the user and the
// current day, call application services, and translate results into HTTP
// responses. The current time comes from an injected clock so every handler
// sees one consistent UTC "now" per request.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-health-assistant/internal/domain"
	"github.com/tbourn/go-health-assistant/internal/generator"
	"github.com/tbourn/go-health-assistant/internal/http/middleware"
	"github.com/tbourn/go-health-assistant/internal/services"
	"github.com/tbourn/go-health-assistant/internal/utils"
)

//
// Service contracts (context-aware)
//

// SessionService manages daily question sets.
type SessionService interface {
	// EnsureDay returns the (user, day) set, generating it on first use.
	EnsureDay(ctx context.Context, userID uint, day domain.Day, description string) ([]domain.Question, bool, error)
	// Preview generates an ordered set without storing it.
	Preview(ctx context.Context, description string) ([]generator.Item, error)
	// State derives the session state of (user, day).
	State(ctx context.Context, userID uint, day domain.Day) (*services.SessionProgress, error)
}

// ChatService drives the one-question-at-a-time conversation.
type ChatService interface {
	NextQuestion(ctx context.Context, userID uint, now time.Time, description string) (*domain.Question, error)
	SubmitAnswerIdempotent(ctx context.Context, userID, questionID uint, text, key string, now time.Time) (*domain.Answer, bool, error)
	ListMessages(ctx context.Context, userID uint, day domain.Day) ([]domain.ChatMessage, error)
	MessagesStats(ctx context.Context, userID uint, day domain.Day) (int64, *time.Time, error)
}

// FollowupService derives follow-up questions.
type FollowupService interface {
	FromAnswers(ctx context.Context, answers, reference string) (generator.QuestionSet, error)
	FromTrend(ctx context.Context, answersOverDays string) (generator.QuestionSet, error)
	FromHistory(ctx context.Context, userID uint, r services.DateRange) (generator.QuestionSet, error)
}

// ReportService assembles report data and the narrative PDF.
type ReportService interface {
	BuildReportData(ctx context.Context, userID uint, r services.DateRange) (*services.ReportData, error)
	NarrativePDF(ctx context.Context, userID uint, r services.DateRange) (*services.ReportFile, error)
}

// AdminService seeds and resets stored sessions.
type AdminService interface {
	SeedQuestions(ctx context.Context, userID uint, texts []string, reset bool, day domain.Day, now time.Time) ([]domain.Question, error)
	ResetDay(ctx context.Context, userID uint, day domain.Day) (services.ResetCounts, error)
}

//
// Handler wiring
//

// Services bundles the handler dependencies.
type Services struct {
	Sessions  SessionService
	Chat      ChatService
	Followups FollowupService
	Reports   ReportService
	Admin     AdminService
}

// Handlers groups all HTTP endpoints.
type Handlers struct {
	sessions  SessionService
	chat      ChatService
	followups FollowupService
	reports   ReportService
	admin     AdminService
	now       func() time.Time
}

// New constructs Handlers. A nil clock means time.Now.
func New(svc Services, now func() time.Time) *Handlers {
	if now == nil {
		now = time.Now
	}
	return &Handlers{
		sessions:  svc.Sessions,
		chat:      svc.Chat,
		followups: svc.Followups,
		reports:   svc.Reports,
		admin:     svc.Admin,
		now:       now,
	}
}

//
// Helpers
//

// clock returns the current UTC time and its day.
func (h *Handlers) clock() (time.Time, domain.Day) {
	now := h.now().UTC()
	return now, domain.DayOf(now)
}

// bindJSON decodes the body into v. It writes the error response and
// returns false on failure.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, "request body too large")
			return false
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// resolveUser picks the explicit id when set, else the caller identity
// (X-User-ID header or ?user_id=). It writes a 400 when neither is usable.
func resolveUser(c *gin.Context, explicit uint) (uint, bool) {
	if explicit != 0 {
		return explicit, true
	}
	if raw := middleware.UserID(c); raw != "" {
		if id, err := utils.ParseID(raw); err == nil {
			return id, true
		}
	}
	fail(c, http.StatusBadRequest, ErrCodeValidation, "user_id must be a positive integer")
	return 0, false
}

// dayParam parses an optional YYYY-MM-DD value, defaulting to today.
func dayParam(c *gin.Context, raw string, today domain.Day) (domain.Day, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return today, true
	}
	d, err := domain.ParseDay(raw)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "invalid date format, use YYYY-MM-DD")
		return "", false
	}
	return d, true
}

// questionMap flattens ordered items into an id→text mapping.
func questionMap(items []generator.Item) map[string]string {
	out := make(map[string]string, len(items))
	for _, it := range items {
		out[it.ID] = it.Text
	}
	return out
}

// nonNilSet keeps empty sets serialized as {} rather than null.
func nonNilSet(s generator.QuestionSet) generator.QuestionSet {
	if s == nil {
		return generator.QuestionSet{}
	}
	return s
}
