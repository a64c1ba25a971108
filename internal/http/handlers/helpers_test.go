package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-health-assistant/internal/generator"
	"github.com/tbourn/go-health-assistant/internal/repo"
	"github.com/tbourn/go-health-assistant/internal/services"
)

var testNow = time.Date(2024, 3, 10, 10, 30, 0, 0, time.UTC)

func init() { gin.SetMode(gin.TestMode) }

// ---------- test DB ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// ---------- fake generator ----------

var errUpstream = errors.New("upstream down")

type fakeGen struct {
	mu sync.Mutex

	daily      generator.QuestionSet
	dailyErr   error
	dailyCalls int

	followups generator.QuestionSet
	lastRef   string

	trend     generator.QuestionSet
	lastTrend string

	narrative string
}

func (g *fakeGen) DailyQuestions(_ context.Context, _ string) (generator.QuestionSet, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dailyCalls++
	if g.dailyErr != nil {
		return nil, g.dailyErr
	}
	return g.daily, nil
}

func (g *fakeGen) FollowupsFromAnswers(_ context.Context, _, symptoms string) (generator.QuestionSet, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastRef = symptoms
	return g.followups, nil
}

func (g *fakeGen) FollowupsFromTrend(_ context.Context, timeline string) (generator.QuestionSet, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastTrend = timeline
	return g.trend, nil
}

func (g *fakeGen) Narrative(_ context.Context, _ string) (string, error) {
	return g.narrative, nil
}

func (g *fakeGen) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dailyCalls
}

func defaultSet() generator.QuestionSet {
	return generator.QuestionSet{
		"Q10": "Any new symptoms?",
		"Q2":  "How did you sleep?",
		"Q1":  "How do you feel today?",
	}
}

// ---------- router ----------

type testAPI struct {
	r   *gin.Engine
	db  *gorm.DB
	gen *fakeGen
}

func newTestAPI(t *testing.T, gen *fakeGen) *testAPI {
	t.Helper()
	db := newHandlerDB(t)
	clock := func() time.Time { return testNow }

	sessions := &services.SessionService{DB: db, Gen: gen, Clock: clock}
	reports := &services.ReportService{DB: db, Gen: gen, Author: "test"}
	h := New(Services{
		Sessions:  sessions,
		Chat:      &services.ChatService{DB: db, Sessions: sessions},
		Followups: &services.FollowupService{Gen: gen, Reports: reports},
		Reports:   reports,
		Admin:     &services.AdminService{DB: db, Sessions: sessions},
	}, clock)

	r := gin.New()
	r.POST("/generate_daily_questions", h.GenerateDailyQuestions)
	r.POST("/sessions/:session_id/generate_daily_questions", h.GenerateSessionQuestions)
	r.POST("/init_daily_session", h.InitDailySession)
	r.POST("/chat/next-question", h.NextQuestion)
	r.POST("/chat/answer", h.SubmitAnswer)
	r.GET("/chat/messages", h.ListMessages)
	r.GET("/chat/state", h.SessionState)
	r.POST("/generate_followup_questions", h.GenerateFollowups)
	r.POST("/generate_trend_followups", h.GenerateTrendFollowups)
	r.POST("/generate_report_json", h.GenerateReportJSON)
	r.POST("/generate_report_pdf", h.GenerateReportPDF)
	r.POST("/admin/seed_questions", h.SeedQuestions)
	r.POST("/admin/reset_today", h.ResetToday)

	return &testAPI{r: r, db: db, gen: gen}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v; body=%s", v, err, w.Body.String())
	}
	return v
}

func wantError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status=%d want %d; body=%s", w.Code, status, w.Body.String())
	}
	er := decode[ErrorResponse](t, w)
	if er.Status != StatusError || er.Code != code {
		t.Fatalf("unexpected error body: %+v", er)
	}
}

func (a *testAPI) next(t *testing.T, userID uint) NextQuestionResponse {
	t.Helper()
	w := a.do(t, http.MethodPost, "/chat/next-question", gin.H{"user_id": userID}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("next-question status=%d body=%s", w.Code, w.Body.String())
	}
	return decode[NextQuestionResponse](t, w)
}

func (a *testAPI) answer(t *testing.T, userID, questionID uint, text string) *httptest.ResponseRecorder {
	t.Helper()
	return a.do(t, http.MethodPost, "/chat/answer", gin.H{
		"user_id":     userID,
		"question_id": questionID,
		"answer_text": text,
	}, nil)
}
