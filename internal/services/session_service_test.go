package services

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tbourn/go-health-assistant/internal/domain"
	"github.com/tbourn/go-health-assistant/internal/generator"
)

func TestSessionService_EnsureDay_CreatesOrderedSet(t *testing.T) {
	db := newSvcDB(t)
	gen := &stubGen{daily: threeQuestions()}
	s := newSessions(db, gen)

	qs, created, err := s.EnsureDay(context.Background(), 1, testDay, "")
	if err != nil {
		t.Fatalf("EnsureDay: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true")
	}
	want := []string{"How do you feel today?", "How did you sleep?", "Any new symptoms?"}
	if got := questionTexts(qs); !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i, q := range qs {
		if q.Position != i || q.Date != testDay || q.Source != domain.SourceDaily || q.AskedAt != nil {
			t.Fatalf("row %d = %+v", i, q)
		}
	}
	if gen.lastDesc != DefaultDescription {
		t.Fatalf("description = %q, want default", gen.lastDesc)
	}
}

func TestSessionService_EnsureDay_Idempotent(t *testing.T) {
	db := newSvcDB(t)
	gen := &stubGen{daily: threeQuestions()}
	s := newSessions(db, gen)
	ctx := context.Background()

	first, _, err := s.EnsureDay(ctx, 1, testDay, "knee surgery recovery")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, created, err := s.EnsureDay(ctx, 1, testDay, "something else")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if created {
		t.Fatalf("second call must not create")
	}
	if gen.dailyCalls.Load() != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.dailyCalls.Load())
	}
	if !reflect.DeepEqual(questionTexts(first), questionTexts(second)) {
		t.Fatalf("sets differ: %v vs %v", questionTexts(first), questionTexts(second))
	}
	if gen.lastDesc != "knee surgery recovery" {
		t.Fatalf("description = %q", gen.lastDesc)
	}
}

func TestSessionService_EnsureDay_Concurrent(t *testing.T) {
	db := newSvcDB(t)
	gen := &stubGen{daily: threeQuestions()}
	s := newSessions(db, gen)

	release := make(chan struct{})
	gen.dailyHook = func() { <-release }

	const n = 8
	var wg sync.WaitGroup
	var created atomic.Int32
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, c, err := s.EnsureDay(context.Background(), 7, testDay, "")
			if c {
				created.Add(1)
			}
			errs <- err
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("EnsureDay: %v", err)
		}
	}
	if created.Load() != 1 {
		t.Fatalf("created reported %d times, want 1", created.Load())
	}
	if gen.dailyCalls.Load() != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.dailyCalls.Load())
	}
	if got := countRows(t, db, &domain.Question{}); got != 3 {
		t.Fatalf("questions = %d, want 3", got)
	}
}

func TestSessionService_EnsureDay_LostRaceReturnsWinner(t *testing.T) {
	db := newSvcDB(t)
	gen := &stubGen{daily: threeQuestions()}
	// Another writer stores a set while our generator call is in flight.
	gen.dailyHook = func() {
		rows := []domain.Question{
			{UserID: 1, Text: "winner A", Date: testDay, Position: 0, Source: domain.SourceDaily, CreatedAt: testNow},
			{UserID: 1, Text: "winner B", Date: testDay, Position: 1, Source: domain.SourceDaily, CreatedAt: testNow},
		}
		if err := db.Create(&rows).Error; err != nil {
			t.Errorf("seed winner: %v", err)
		}
	}
	s := newSessions(db, gen)

	qs, created, err := s.EnsureDay(context.Background(), 1, testDay, "")
	if err != nil {
		t.Fatalf("EnsureDay: %v", err)
	}
	if created {
		t.Fatalf("loser must report created=false")
	}
	if got := questionTexts(qs); !reflect.DeepEqual(got, []string{"winner A", "winner B"}) {
		t.Fatalf("got %v", got)
	}
	if got := countRows(t, db, &domain.Question{}); got != 2 {
		t.Fatalf("questions = %d, want 2", got)
	}
}

func TestSessionService_EnsureDay_GenerationFailure(t *testing.T) {
	db := newSvcDB(t)
	gen := &stubGen{dailyErr: &generator.ParseError{Shape: "question map", Reason: "not json"}}
	s := newSessions(db, gen)

	_, _, err := s.EnsureDay(context.Background(), 1, testDay, "")
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	if !errors.Is(err, generator.ErrInvalidOutput) {
		t.Fatalf("generator cause lost: %v", err)
	}
	if got := countRows(t, db, &domain.Question{}); got != 0 {
		t.Fatalf("questions = %d, want 0", got)
	}

	// a failed generation is not cached; the next call tries again
	gen.dailyErr = nil
	gen.daily = threeQuestions()
	if _, created, err := s.EnsureDay(context.Background(), 1, testDay, ""); err != nil || !created {
		t.Fatalf("retry: created=%v err=%v", created, err)
	}
	if gen.dailyCalls.Load() != 2 {
		t.Fatalf("generator calls = %d, want 2", gen.dailyCalls.Load())
	}
}

func TestSessionService_EnsureDay_PerUserAndDay(t *testing.T) {
	db := newSvcDB(t)
	gen := &stubGen{daily: threeQuestions()}
	s := newSessions(db, gen)
	ctx := context.Background()

	for _, tc := range []struct {
		user uint
		day  domain.Day
	}{{1, testDay}, {2, testDay}, {1, testDay.AddDays(1)}} {
		if _, created, err := s.EnsureDay(ctx, tc.user, tc.day, ""); err != nil || !created {
			t.Fatalf("EnsureDay(%d,%s) created=%v err=%v", tc.user, tc.day, created, err)
		}
	}
	if gen.dailyCalls.Load() != 3 {
		t.Fatalf("generator calls = %d, want 3", gen.dailyCalls.Load())
	}
}

func TestSessionService_Preview(t *testing.T) {
	db := newSvcDB(t)
	gen := &stubGen{daily: threeQuestions()}
	s := newSessions(db, gen)
	s.DefaultDescription = "post-op monitoring"

	items, err := s.Preview(context.Background(), "  ")
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(items) != 3 || items[0].ID != "Q1" || items[1].ID != "Q2" || items[2].ID != "Q10" {
		t.Fatalf("items = %+v", items)
	}
	if items[2].Order != 2 {
		t.Fatalf("order = %d", items[2].Order)
	}
	if gen.lastDesc != "post-op monitoring" {
		t.Fatalf("description = %q", gen.lastDesc)
	}
	if got := countRows(t, db, &domain.Question{}); got != 0 {
		t.Fatalf("Preview must not store questions")
	}

	gen.dailyErr = generator.ErrUpstream
	if _, err := s.Preview(context.Background(), "x"); !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestSessionService_State(t *testing.T) {
	db := newSvcDB(t)
	gen := &stubGen{daily: generator.QuestionSet{"Q1": "a", "Q2": "b"}}
	s := newSessions(db, gen)
	chat := &ChatService{DB: db, Sessions: s}
	ctx := context.Background()

	p, err := s.State(ctx, 1, testDay)
	if err != nil || p.State != StateNoQuestionsYet || p.Total != 0 {
		t.Fatalf("initial state = %+v err=%v", p, err)
	}

	q, err := chat.NextQuestion(ctx, 1, testNow, "")
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	p, _ = s.State(ctx, 1, testDay)
	if p.State != StateInProgress || p.Total != 2 || p.Answered != 0 {
		t.Fatalf("state = %+v", p)
	}

	if _, err := chat.SubmitAnswer(ctx, 1, q.ID, "fine", testNow); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if q, err = chat.NextQuestion(ctx, 1, testNow, ""); err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if _, err := chat.SubmitAnswer(ctx, 1, q.ID, "better", testNow); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	p, _ = s.State(ctx, 1, testDay)
	if p.State != StateComplete || p.Answered != 2 {
		t.Fatalf("state = %+v", p)
	}
}

func TestSessionService_EnsureDay_CallerGivesUp(t *testing.T) {
	db := newSvcDB(t)
	gen := &stubGen{daily: threeQuestions()}
	release := make(chan struct{})
	gen.dailyHook = func() { <-release }
	s := newSessions(db, gen)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, _, err := s.EnsureDay(ctx, 1, testDay, ""); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	// the abandoned generation still stores the set
	close(release)
	deadline := time.Now().Add(2 * time.Second)
	for countRows(t, db, &domain.Question{}) != 3 {
		if time.Now().After(deadline) {
			t.Fatalf("set not stored after caller gave up")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if _, created, err := s.EnsureDay(context.Background(), 1, testDay, ""); err != nil || created {
		t.Fatalf("after: created=%v err=%v", created, err)
	}
	if gen.dailyCalls.Load() != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.dailyCalls.Load())
	}
}

type recordingLocker struct {
	mu       sync.Mutex
	keys     []string
	unlocked int
	err      error
}

func (l *recordingLocker) Lock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys = append(l.keys, key)
	if l.err != nil {
		return nil, l.err
	}
	return func() {
		l.mu.Lock()
		l.unlocked++
		l.mu.Unlock()
	}, nil
}

func TestSessionService_EnsureDay_UsesCrossProcessLock(t *testing.T) {
	db := newSvcDB(t)
	gen := &stubGen{daily: threeQuestions()}
	locks := &recordingLocker{}
	s := newSessions(db, gen)
	s.Locks = locks

	if _, created, err := s.EnsureDay(context.Background(), 4, testDay, ""); err != nil || !created {
		t.Fatalf("EnsureDay: created=%v err=%v", created, err)
	}
	if !reflect.DeepEqual(locks.keys, []string{"daily-questions:4:" + testDay.String()}) || locks.unlocked != 1 {
		t.Fatalf("lock usage: keys=%v unlocked=%d", locks.keys, locks.unlocked)
	}

	locks.err = ErrLockTimeout
	if _, _, err := s.EnsureDay(context.Background(), 5, testDay, ""); !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout, got %v", err)
	}
	if gen.dailyCalls.Load() != 1 {
		t.Fatalf("generator ran without the lock")
	}
}
