package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-health-assistant/internal/domain"
	"github.com/tbourn/go-health-assistant/internal/generator"
	"github.com/tbourn/go-health-assistant/internal/repo"
)

// ---------- test helpers ----------

var (
	testDay = domain.Day("2024-03-10")
	testNow = time.Date(2024, 3, 10, 10, 30, 0, 0, time.UTC)
)

func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// stubGen is a QuestionGenerator with canned results.
type stubGen struct {
	mu sync.Mutex

	daily      generator.QuestionSet
	dailyErr   error
	dailyHook  func() // runs inside DailyQuestions before returning
	dailyCalls atomic.Int32
	lastDesc   string

	followups   generator.QuestionSet
	followErr   error
	lastAnswers string
	lastRef     string

	trend     generator.QuestionSet
	trendErr  error
	lastTrend string

	narrative    string
	narrativeErr error
	lastTimeline string
}

func (g *stubGen) DailyQuestions(_ context.Context, description string) (generator.QuestionSet, error) {
	g.dailyCalls.Add(1)
	g.mu.Lock()
	g.lastDesc = description
	hook := g.dailyHook
	g.mu.Unlock()
	if hook != nil {
		hook()
	}
	if g.dailyErr != nil {
		return nil, g.dailyErr
	}
	return g.daily, nil
}

func (g *stubGen) FollowupsFromAnswers(_ context.Context, answers, symptoms string) (generator.QuestionSet, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastAnswers, g.lastRef = answers, symptoms
	return g.followups, g.followErr
}

func (g *stubGen) FollowupsFromTrend(_ context.Context, timeline string) (generator.QuestionSet, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastTrend = timeline
	return g.trend, g.trendErr
}

func (g *stubGen) Narrative(_ context.Context, timelineJSON string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastTimeline = timelineJSON
	return g.narrative, g.narrativeErr
}

// threeQuestions returns Q1..Q3 plus Q10 to exercise numeric ordering.
func threeQuestions() generator.QuestionSet {
	return generator.QuestionSet{
		"Q10": "Any new symptoms?",
		"Q2":  "How did you sleep?",
		"Q1":  "How do you feel today?",
	}
}

func newSessions(db *gorm.DB, gen *stubGen) *SessionService {
	return &SessionService{
		DB:    db,
		Gen:   gen,
		Clock: func() time.Time { return testNow },
	}
}

func questionTexts(qs []domain.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Text
	}
	return out
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
