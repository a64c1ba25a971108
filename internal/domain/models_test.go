package domain

import (
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	// Enforce FKs so cascades actually execute.
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(&Question{}, &Answer{}, &ChatMessage{}, &Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		(Question{}).TableName():    "questions",
		(Answer{}).TableName():      "answers",
		(ChatMessage{}).TableName(): "chat_messages",
		(Idempotency{}).TableName(): "idempotency",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("TableName() = %q; want %q", got, want)
		}
	}
}

func TestMigrations_Indexes(t *testing.T) {
	db := newDomainDB(t)
	m := db.Migrator()

	if !m.HasIndex(&Question{}, "ux_question_user_day_pos") {
		t.Fatalf("expected unique index ux_question_user_day_pos on questions")
	}
	if !m.HasIndex(&Answer{}, "idx_answer_user_question") {
		t.Fatalf("expected index idx_answer_user_question on answers")
	}
	if !m.HasIndex(&ChatMessage{}, "idx_chat_user_day") {
		t.Fatalf("expected index idx_chat_user_day on chat_messages")
	}
	if !m.HasIndex(&Idempotency{}, "ux_idem_user_question_key") {
		t.Fatalf("expected unique index ux_idem_user_question_key on idempotency")
	}
	if !m.HasColumn(&Question{}, "q_date") || !m.HasColumn(&Question{}, "order_index") {
		t.Fatalf("expected q_date and order_index columns on questions")
	}
	if !m.HasColumn(&ChatMessage{}, "m_date") {
		t.Fatalf("expected m_date column on chat_messages")
	}
}

func TestQuestion_UniquePositionPerDay(t *testing.T) {
	db := newDomainDB(t)
	now := time.Now().UTC()

	q1 := &Question{UserID: 1, Text: "a", Date: "2024-01-01", Position: 0, CreatedAt: now}
	if err := db.Create(q1).Error; err != nil {
		t.Fatalf("insert q1: %v", err)
	}
	dup := &Question{UserID: 1, Text: "b", Date: "2024-01-01", Position: 0, CreatedAt: now}
	if err := db.Create(dup).Error; err == nil {
		t.Fatalf("expected unique violation for duplicate (user, day, position)")
	}
	// Same position on another day, or for another user, is fine.
	if err := db.Create(&Question{UserID: 1, Text: "c", Date: "2024-01-02", Position: 0, CreatedAt: now}).Error; err != nil {
		t.Fatalf("insert other day: %v", err)
	}
	if err := db.Create(&Question{UserID: 2, Text: "d", Date: "2024-01-01", Position: 0, CreatedAt: now}).Error; err != nil {
		t.Fatalf("insert other user: %v", err)
	}
	if q1.Source != "" && q1.Source != SourceDaily {
		t.Fatalf("unexpected source default %q", q1.Source)
	}
}

func TestCascades(t *testing.T) {
	db := newDomainDB(t)
	now := time.Now().UTC()

	q := &Question{UserID: 1, Text: "How did you sleep?", Date: "2024-01-01", CreatedAt: now}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("insert question: %v", err)
	}
	if err := db.Create(&Answer{UserID: 1, QuestionID: q.ID, Text: "well", CreatedAt: now}).Error; err != nil {
		t.Fatalf("insert answer: %v", err)
	}
	qid := q.ID
	msg := &ChatMessage{UserID: 1, Role: RoleAssistant, Content: q.Text, QuestionID: &qid, Date: "2024-01-01", CreatedAt: now}
	if err := db.Create(msg).Error; err != nil {
		t.Fatalf("insert message: %v", err)
	}

	if err := db.Delete(&Question{}, q.ID).Error; err != nil {
		t.Fatalf("delete question: %v", err)
	}

	var cnt int64
	db.Model(&Answer{}).Where("question_id = ?", qid).Count(&cnt)
	if cnt != 0 {
		t.Fatalf("expected answers to cascade-delete, got %d", cnt)
	}

	var got ChatMessage
	if err := db.First(&got, msg.ID).Error; err != nil {
		t.Fatalf("message should survive question delete: %v", err)
	}
	if got.QuestionID != nil {
		t.Fatalf("expected question_id set to NULL, got %v", *got.QuestionID)
	}
}

func TestChatMessage_RoleCheck(t *testing.T) {
	db := newDomainDB(t)
	bad := &ChatMessage{UserID: 1, Role: "system", Content: "x", Date: "2024-01-01", CreatedAt: time.Now()}
	if err := db.Create(bad).Error; err == nil {
		t.Fatalf("expected check constraint failure for role=system")
	}
}
