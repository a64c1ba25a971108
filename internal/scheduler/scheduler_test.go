package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-health-assistant/internal/domain"
	"github.com/tbourn/go-health-assistant/internal/repo"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:sched_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repo.AutoMigrate(db))
	return db
}

type fakeEnsurer struct {
	mu    sync.Mutex
	calls map[uint]domain.Day
	fail  map[uint]bool
}

func (f *fakeEnsurer) EnsureDay(_ context.Context, userID uint, day domain.Day, _ string) ([]domain.Question, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[uint]domain.Day{}
	}
	f.calls[userID] = day
	if f.fail[userID] {
		return nil, false, errors.New("boom")
	}
	return nil, true, nil
}

func TestPregenerator_Run(t *testing.T) {
	db := newDB(t)
	yesterday := domain.Day("2024-06-09")
	for _, uid := range []uint{1, 2, 3} {
		q := domain.Question{UserID: uid, Text: "q", Date: yesterday, Source: domain.SourceDaily}
		require.NoError(t, db.Create(&q).Error)
	}
	old := domain.Question{UserID: 9, Text: "q", Date: "2024-06-01", Source: domain.SourceDaily}
	require.NoError(t, db.Create(&old).Error)

	ens := &fakeEnsurer{fail: map[uint]bool{2: true}}
	p := &Pregenerator{
		DB:       db,
		Sessions: ens,
		Now:      func() time.Time { return time.Date(2024, 6, 10, 3, 0, 0, 0, time.UTC) },
	}

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Day: "2024-06-10", Users: 3, Created: 2, Failed: 1}, res)
	assert.Len(t, ens.calls, 3)
	assert.Equal(t, domain.Day("2024-06-10"), ens.calls[1])
	assert.NotContains(t, ens.calls, uint(9))
}

func TestStart_Disabled(t *testing.T) {
	_, err := Start("  ", func() {})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestStart_InvalidSpec(t *testing.T) {
	_, err := Start("not a schedule", func() {})
	assert.Error(t, err)
}

func TestStart_RunsJob(t *testing.T) {
	fired := make(chan struct{}, 1)
	c, err := Start("@every 1s", func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer c.Stop()

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}
