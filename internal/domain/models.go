// Package domain defines the persistence models for daily check-in questions,
// patient answers, and the chat transcript that records the conversation.
// These types are mapped with GORM and form the core data layer of the
// health assistant.
package domain

import "time"

// Question sources.
const (
	SourceDaily    = "daily"
	SourceFollowup = "followup"
)

// Chat message roles.
const (
	RoleAssistant = "assistant"
	RoleUser      = "user"
)

// Question is one entry of a user's question set for a single day.
//
// Fields:
//   - ID: autoincrement primary key.
//   - UserID: owner of the question set.
//   - Text: question text as produced by the generator (or seeded by an admin).
//   - Date: the day the question is scheduled for (column q_date).
//   - Position: zero-based ordinal inside the day's set (column order_index).
//   - Source: "daily" for generated sets, "followup" for derived questions.
//   - AskedAt: set once, the first time the question is served.
//   - CreatedAt: insertion time.
//
// (user_id, q_date, order_index) is unique, so two concurrent generations for
// the same day cannot both commit a set.
type Question struct {
	ID        uint       `json:"id"         gorm:"primaryKey"`
	UserID    uint       `json:"user_id"    gorm:"not null;index;uniqueIndex:ux_question_user_day_pos,priority:1"`
	Text      string     `json:"text"       gorm:"type:text;not null"`
	Date      Day        `json:"date"       gorm:"column:q_date;type:char(10);not null;index;uniqueIndex:ux_question_user_day_pos,priority:2"`
	Position  int        `json:"position"   gorm:"column:order_index;not null;uniqueIndex:ux_question_user_day_pos,priority:3"`
	Source    string     `json:"source"     gorm:"type:varchar(20);not null;default:'daily'"`
	AskedAt   *time.Time `json:"asked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName returns the database table name for Question.
func (Question) TableName() string { return "questions" }

// Answer is a patient's reply to a question. A question may collect several
// answers; they carry no date of their own and belong to the question's day.
type Answer struct {
	ID         uint      `json:"id"          gorm:"primaryKey"`
	UserID     uint      `json:"user_id"     gorm:"not null;index:idx_answer_user_question,priority:1"`
	QuestionID uint      `json:"question_id" gorm:"not null;index:idx_answer_user_question,priority:2"`
	Text       string    `json:"text"        gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"  gorm:"index"`

	// Question is the answered question. Answers are cascade-deleted
	// with it.
	Question Question `json:"-" gorm:"foreignKey:QuestionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Answer.
func (Answer) TableName() string { return "answers" }

// ChatMessage is one line of the check-in transcript.
//
// Fields:
//   - Role: "assistant" (question asked) or "user" (answer given), enforced by a DB check.
//   - QuestionID: the question the line refers to, if any.
//   - Date: the day the line belongs to (column m_date). It is set by the
//     writer and does not have to match CreatedAt's calendar day.
type ChatMessage struct {
	ID         uint      `json:"id"          gorm:"primaryKey"`
	UserID     uint      `json:"user_id"     gorm:"not null;index:idx_chat_user_day,priority:1"`
	Role       string    `json:"role"        gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Content    string    `json:"content"     gorm:"type:text;not null"`
	QuestionID *uint     `json:"question_id" gorm:"index"`
	Date       Day       `json:"date"        gorm:"column:m_date;type:char(10);not null;index:idx_chat_user_day,priority:2"`
	CreatedAt  time.Time `json:"created_at"`

	Question *Question `json:"-" gorm:"foreignKey:QuestionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for ChatMessage.
func (ChatMessage) TableName() string { return "chat_messages" }

// Idempotency records the answer produced for a retried POST /chat/answer,
// keyed by (user_id, question_id, key).
type Idempotency struct {
	ID         string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID     uint      `gorm:"not null;uniqueIndex:ux_idem_user_question_key,priority:1"`
	QuestionID uint      `gorm:"not null;uniqueIndex:ux_idem_user_question_key,priority:2"`
	Key        string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_idem_user_question_key,priority:3"`
	AnswerID   uint      `gorm:"not null"`
	Status     int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt  time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt  time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
