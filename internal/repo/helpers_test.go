package repo

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-health-assistant/internal/domain"
)

// newRepoDB opens a private in-memory database with the full schema.
func newRepoDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", uuid.NewString())
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
	// One connection so the foreign_keys PRAGMA applies to every statement.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedQuestions(t *testing.T, db *gorm.DB, userID uint, day domain.Day, texts ...string) []domain.Question {
	t.Helper()
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	qs := make([]domain.Question, len(texts))
	for i, txt := range texts {
		qs[i] = domain.Question{UserID: userID, Text: txt, Date: day, Position: i, Source: domain.SourceDaily, CreatedAt: now}
	}
	if err := db.Create(&qs).Error; err != nil {
		t.Fatalf("seed questions: %v", err)
	}
	return qs
}
