package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-health-assistant/internal/domain"
	"github.com/tbourn/go-health-assistant/internal/services"
)

// SeedQuestionsRequest is the payload of POST /admin/seed_questions.
type SeedQuestionsRequest struct {
	UserID     uint     `json:"user_id" example:"1"`
	Questions  []string `json:"questions" binding:"required" example:"How did you sleep?,Any pain today?"`
	ResetToday *bool    `json:"reset_today" example:"true"` // defaults to true
}

// reset reports whether today's set is cleared before inserting.
func (r SeedQuestionsRequest) reset() bool {
	return r.ResetToday == nil || *r.ResetToday
}

// SeedQuestionsResponse lists the inserted rows.
type SeedQuestionsResponse struct {
	Status    string            `json:"status" example:"success"`
	Inserted  int               `json:"inserted" example:"2"`
	Questions []domain.Question `json:"questions"`
}

// ResetTodayRequest is the payload of POST /admin/reset_today.
type ResetTodayRequest struct {
	UserID uint `json:"user_id" example:"1"`
}

// ResetTodayResponse reports what was removed.
type ResetTodayResponse struct {
	Status  string               `json:"status" example:"success"`
	Date    string               `json:"date" example:"2024-03-10"`
	Deleted services.ResetCounts `json:"deleted"`
}

// SeedQuestions godoc
// @ID          seedQuestions
// @Summary     Seed today's questions
// @Description Inserts the given texts into today's set. Unless reset_today is false the day is cleared first; with false, positions continue after the current last question.
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header    string                          false "User id when absent from the body"
// @Param       body       body      handlers.SeedQuestionsRequest  true  "Questions to insert"
// @Success     201        {object}  handlers.SeedQuestionsResponse
// @Failure     400        {object}  handlers.ErrorResponse "Bad request"
// @Router      /admin/seed_questions [post]
func (h *Handlers) SeedQuestions(c *gin.Context) {
	var req SeedQuestionsRequest
	if !bindJSON(c, &req) {
		return
	}
	uid, good := resolveUser(c, req.UserID)
	if !good {
		return
	}
	now, today := h.clock()

	qs, err := h.admin.SeedQuestions(c.Request.Context(), uid, req.Questions, req.reset(), today, now)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusCreated, SeedQuestionsResponse{Status: StatusSuccess, Inserted: len(qs), Questions: qs})
}

// ResetToday godoc
// @ID          resetToday
// @Summary     Reset today's session
// @Description Deletes today's questions, their answers and today's transcript. The next question request regenerates a fresh set.
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header    string                       false "User id when absent from the body"
// @Param       body       body      handlers.ResetTodayRequest  true  "User"
// @Success     200        {object}  handlers.ResetTodayResponse
// @Failure     400        {object}  handlers.ErrorResponse "Bad request"
// @Router      /admin/reset_today [post]
func (h *Handlers) ResetToday(c *gin.Context) {
	var req ResetTodayRequest
	if !bindJSON(c, &req) {
		return
	}
	uid, good := resolveUser(c, req.UserID)
	if !good {
		return
	}
	_, today := h.clock()

	counts, err := h.admin.ResetDay(c.Request.Context(), uid, today)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, ResetTodayResponse{Status: StatusSuccess, Date: today.String(), Deleted: counts})
}
