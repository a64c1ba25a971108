// Chat HTTP handlers.
//
// This file exposes the one-question-at-a-time conversation:
//   - POST /chat/next-question  (serve the next unanswered question)
//   - POST /chat/answer         (store an answer, Idempotency-Key aware)
//   - GET  /chat/messages       (transcript for a day, weak ETag support)
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-health-assistant/internal/domain"
	"github.com/tbourn/go-health-assistant/internal/http/middleware"
	"github.com/tbourn/go-health-assistant/internal/services"
)

// HeaderIdempotencyReplayed is set to "true" when an answer was replayed.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

//
// DTOs
//

// NextQuestionRequest is the payload of POST /chat/next-question.
type NextQuestionRequest struct {
	UserID             uint   `json:"user_id" example:"1"`
	PatientDescription string `json:"patient_description" example:"Type 2 diabetes"`
}

// NextQuestionResponse is either a question (status "question") or the end
// of today's set (status "complete", no question fields).
type NextQuestionResponse struct {
	Status     string `json:"status" example:"question"`
	QuestionID uint   `json:"question_id,omitempty" example:"42"`
	Text       string `json:"text,omitempty" example:"How did you sleep last night?"`
	Position   *int   `json:"position,omitempty" example:"0"`
	Message    string `json:"message,omitempty" example:"No more questions for today"`
}

// AnswerRequest is the payload of POST /chat/answer.
type AnswerRequest struct {
	UserID     uint   `json:"user_id" example:"1"`
	QuestionID uint   `json:"question_id" binding:"required" example:"42"`
	AnswerText string `json:"answer_text" example:"About six hours, woke up twice"`
}

// AnswerResponse confirms a stored answer.
type AnswerResponse struct {
	Status   string `json:"status" example:"success"`
	AnswerID uint   `json:"answer_id" example:"7"`
	Replayed bool   `json:"replayed" example:"false"`
}

// MessageDTO is one transcript line.
type MessageDTO struct {
	ID         uint   `json:"id" example:"3"`
	Role       string `json:"role" example:"assistant"`
	Content    string `json:"content" example:"How did you sleep last night?"`
	QuestionID *uint  `json:"question_id" example:"42"`
	CreatedAt  string `json:"created_at" example:"2024-03-10T10:30:00Z"`
}

func toMessageDTOs(ms []domain.ChatMessage) []MessageDTO {
	out := make([]MessageDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, MessageDTO{
			ID:         m.ID,
			Role:       m.Role,
			Content:    m.Content,
			QuestionID: m.QuestionID,
			CreatedAt:  m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

//
// Handlers
//

// NextQuestion godoc
// @ID          nextQuestion
// @Summary     Next question of today's check-in
// @Description Ensures today's set exists, then returns the lowest-position unanswered question. The first time a question is served it is recorded in the transcript. When every question has an answer the status is "complete".
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header    string                         false "User id when absent from the body"
// @Param       body       body      handlers.NextQuestionRequest  true  "User and optional description"
// @Success     200        {object}  handlers.NextQuestionResponse
// @Failure     400        {object}  handlers.ErrorResponse "Bad request"
// @Failure     502        {object}  handlers.ErrorResponse "Generation failed"
// @Failure     503        {object}  handlers.ErrorResponse "Generation lock busy"
// @Router      /chat/next-question [post]
func (h *Handlers) NextQuestion(c *gin.Context) {
	var req NextQuestionRequest
	if !bindJSON(c, &req) {
		return
	}
	uid, good := resolveUser(c, req.UserID)
	if !good {
		return
	}
	now, _ := h.clock()

	q, err := h.chat.NextQuestion(c.Request.Context(), uid, now, req.PatientDescription)
	if errors.Is(err, services.ErrNoMoreQuestions) {
		ok(c, http.StatusOK, NextQuestionResponse{
			Status:  StatusComplete,
			Message: "No more questions for today",
		})
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}
	pos := q.Position
	ok(c, http.StatusOK, NextQuestionResponse{
		Status:     StatusQuestion,
		QuestionID: q.ID,
		Text:       q.Text,
		Position:   &pos,
	})
}

// SubmitAnswer godoc
// @ID          submitAnswer
// @Summary     Answer a question
// @Description Stores the answer and a user line in today's transcript. With an Idempotency-Key, a retried request returns the original answer and sets Idempotency-Replayed.
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Param       X-User-ID        header    string                   false "User id when absent from the body"
// @Param       Idempotency-Key  header    string                   false "Client retry key"  example(0d3c8c2a-5d1e-4a57-9f3f-2b0b1b3d9c10)
// @Param       body             body      handlers.AnswerRequest  true  "Answer payload"
// @Success     201              {object}  handlers.AnswerResponse
// @Success     200              {object}  handlers.AnswerResponse "Replayed"
// @Header      200              {string}  Idempotency-Replayed "true"
// @Failure     400              {object}  handlers.ErrorResponse "Bad request"
// @Failure     404              {object}  handlers.ErrorResponse "Question not found for user"
// @Router      /chat/answer [post]
func (h *Handlers) SubmitAnswer(c *gin.Context) {
	var req AnswerRequest
	if !bindJSON(c, &req) {
		return
	}
	uid, good := resolveUser(c, req.UserID)
	if !good {
		return
	}
	key, found := middleware.GetIdempotencyKey(c)
	if !found {
		key = c.GetHeader(middleware.HeaderIdempotencyKey)
	}
	now, _ := h.clock()

	ans, replayed, err := h.chat.SubmitAnswerIdempotent(c.Request.Context(), uid, req.QuestionID, req.AnswerText, key, now)
	if err != nil {
		serviceError(c, err)
		return
	}
	status := http.StatusCreated
	if replayed {
		c.Header(HeaderIdempotencyReplayed, "true")
		status = http.StatusOK
	}
	ok(c, status, AnswerResponse{Status: StatusSuccess, AnswerID: ans.ID, Replayed: replayed})
}

// ListMessages godoc
// @ID          listMessages
// @Summary     Transcript for a day
// @Description Returns the day's messages oldest first. Supports a weak ETag via If-None-Match and may return 304.
// @Tags        Chat
// @Produce     json
// @Param       user_id        query   int     false "User id (or X-User-ID)"
// @Param       date           query   string  false "Day, YYYY-MM-DD (default today)"
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Success     200  {array}   handlers.MessageDTO
// @Header      200  {string}  ETag "Weak ETag for current result"
// @Success     304  {string}  string "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Router      /chat/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()
	uid, good := resolveUser(c, 0)
	if !good {
		return
	}
	_, today := h.clock()
	day, good := dayParam(c, firstQuery(c, "date", "for_date"), today)
	if !good {
		return
	}

	// ETag pre-check (best effort).
	if count, newest, err := h.chat.MessagesStats(ctx, uid, day); err == nil {
		var ts int64
		if newest != nil {
			ts = newest.UnixNano()
		}
		etag := fmt.Sprintf(`W/"messages:%d:%s:%d:%d"`, uid, day, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	msgs, err := h.chat.ListMessages(ctx, uid, day)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, toMessageDTOs(msgs))
}

// firstQuery returns the first non-empty query parameter among names.
func firstQuery(c *gin.Context, names ...string) string {
	for _, n := range names {
		if v := c.Query(n); v != "" {
			return v
		}
	}
	return ""
}
