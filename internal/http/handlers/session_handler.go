// Session HTTP handlers.
//
// This file exposes question-set endpoints:
//   - POST /generate_daily_questions                     (stateless)
//   - POST /sessions/{session_id}/generate_daily_questions (stateless, ordered)
//   - POST /init_daily_session                           (ensure today's set)
//   - GET  /chat/state                                   (derived session state)
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-health-assistant/internal/generator"
	"github.com/tbourn/go-health-assistant/internal/services"
)

// Response status values.
const (
	StatusSuccess            = "success"
	StatusAlreadyInitialized = "already_initialized"
	StatusQuestion           = "question"
	StatusComplete           = "complete"
	StatusNoData             = "no_data"
)

//
// DTOs
//

// GenerateQuestionsRequest is the payload of POST /generate_daily_questions.
type GenerateQuestionsRequest struct {
	// Description is the patient context used to tailor the questions.
	Description string `json:"description" binding:"required" example:"65-year-old with type 2 diabetes and hypertension"`
}

// GenerateQuestionsResponse carries a freshly generated, unsaved set.
type GenerateQuestionsResponse struct {
	Status string `json:"status" example:"success"`
	// Questions maps Q-ids to question text.
	Questions map[string]string `json:"questions"`
	// Ordered lists the same questions sorted by numeric id (Q2 before Q10).
	Ordered []generator.Item `json:"ordered"`
}

// SessionQuestionsRequest is the payload of the session-scoped generator.
type SessionQuestionsRequest struct {
	PatientDescription string `json:"patient_description" example:"Recovering from knee surgery"`
}

// SessionQuestionsResponse returns an ordered set for a client-held session.
type SessionQuestionsResponse struct {
	Status    string           `json:"status" example:"success"`
	SessionID string           `json:"session_id" example:"b6b1b6c4"`
	Questions []generator.Item `json:"questions"`
}

// InitSessionRequest is the payload of POST /init_daily_session.
type InitSessionRequest struct {
	UserID             uint   `json:"user_id" example:"1"`
	PatientDescription string `json:"patient_description" example:"Asthma, seasonal allergies"`
}

// InitSessionResponse reports whether today's set was created by this call.
type InitSessionResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"Generated and stored 7 questions"`
	Date    string `json:"date" example:"2024-03-10"`
	Count   int    `json:"count" example:"7"`
}

// SessionStateResponse is the body of GET /chat/state.
type SessionStateResponse struct {
	UserID uint `json:"user_id" example:"1"`
	services.SessionProgress
}

//
// Handlers
//

// GenerateDailyQuestions godoc
// @ID          generateDailyQuestions
// @Summary     Generate a daily question set (not stored)
// @Description Asks the language model for a daily question set tailored to the description and returns it without saving.
// @Tags        Sessions
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.GenerateQuestionsRequest  true  "Patient description"
// @Success     200   {object}  handlers.GenerateQuestionsResponse
// @Failure     400   {object}  handlers.ErrorResponse "Bad request"
// @Failure     502   {object}  handlers.ErrorResponse "Generation failed"
// @Router      /generate_daily_questions [post]
func (h *Handlers) GenerateDailyQuestions(c *gin.Context) {
	var req GenerateQuestionsRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "description must not be empty")
		return
	}

	items, err := h.sessions.Preview(c.Request.Context(), req.Description)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, GenerateQuestionsResponse{
		Status:    StatusSuccess,
		Questions: questionMap(items),
		Ordered:   items,
	})
}

// GenerateSessionQuestions godoc
// @ID          generateSessionQuestions
// @Summary     Generate an ordered question set for a client session
// @Description Returns a stable, ordered list the client can persist locally. Nothing is stored server-side.
// @Tags        Sessions
// @Accept      json
// @Produce     json
// @Param       session_id  path      string                             true  "Client session id"
// @Param       body        body      handlers.SessionQuestionsRequest  false "Optional patient description"
// @Success     200         {object}  handlers.SessionQuestionsResponse
// @Failure     400         {object}  handlers.ErrorResponse "Bad request"
// @Failure     502         {object}  handlers.ErrorResponse "Generation failed"
// @Router      /sessions/{session_id}/generate_daily_questions [post]
func (h *Handlers) GenerateSessionQuestions(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("session_id"))
	if sessionID == "" {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "session_id required")
		return
	}
	var req SessionQuestionsRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	items, err := h.sessions.Preview(c.Request.Context(), req.PatientDescription)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, SessionQuestionsResponse{
		Status:    StatusSuccess,
		SessionID: sessionID,
		Questions: items,
	})
}

// InitDailySession godoc
// @ID          initDailySession
// @Summary     Ensure today's question set exists
// @Description Generates and stores today's set on first call; later calls report already_initialized.
// @Tags        Sessions
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header    string                        false "User id when absent from the body"
// @Param       body       body      handlers.InitSessionRequest  true  "User and optional description"
// @Success     200        {object}  handlers.InitSessionResponse
// @Failure     400        {object}  handlers.ErrorResponse "Bad request"
// @Failure     502        {object}  handlers.ErrorResponse "Generation failed"
// @Failure     503        {object}  handlers.ErrorResponse "Generation lock busy"
// @Router      /init_daily_session [post]
func (h *Handlers) InitDailySession(c *gin.Context) {
	var req InitSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	uid, good := resolveUser(c, req.UserID)
	if !good {
		return
	}
	_, today := h.clock()

	qs, created, err := h.sessions.EnsureDay(c.Request.Context(), uid, today, req.PatientDescription)
	if err != nil {
		serviceError(c, err)
		return
	}
	resp := InitSessionResponse{Date: today.String(), Count: len(qs)}
	if created {
		resp.Status = StatusSuccess
		resp.Message = fmt.Sprintf("Generated and stored %d questions", len(qs))
	} else {
		resp.Status = StatusAlreadyInitialized
		resp.Message = "Questions already exist for today"
	}
	ok(c, http.StatusOK, resp)
}

// SessionState godoc
// @ID          sessionState
// @Summary     Session state for a day
// @Description Derived from stored rows: no_questions_yet, in_progress or complete.
// @Tags        Chat
// @Produce     json
// @Param       user_id  query     int     false "User id (or X-User-ID)"
// @Param       date     query     string  false "Day, YYYY-MM-DD (default today)"
// @Success     200      {object}  handlers.SessionStateResponse
// @Failure     400      {object}  handlers.ErrorResponse "Bad request"
// @Router      /chat/state [get]
func (h *Handlers) SessionState(c *gin.Context) {
	uid, good := resolveUser(c, 0)
	if !good {
		return
	}
	_, today := h.clock()
	day, good := dayParam(c, c.Query("date"), today)
	if !good {
		return
	}

	p, err := h.sessions.State(c.Request.Context(), uid, day)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, SessionStateResponse{UserID: uid, SessionProgress: *p})
}
