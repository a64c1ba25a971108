package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-health-assistant/internal/generator"
	"github.com/tbourn/go-health-assistant/internal/services"
)

// FollowupRequest is the payload of POST /generate_followup_questions.
type FollowupRequest struct {
	// Answers is the patient's answers as free text.
	Answers string `json:"answers" example:"Q1: slept 4 hours. Q2: mild headache since noon."`
	// Symptoms is an optional reference; when blank the loaded symptom
	// database is consulted.
	Symptoms string `json:"symptoms" example:"Migraine: throbbing headache, light sensitivity"`
}

// FollowupResponse carries derived follow-up questions keyed by Q-id.
type FollowupResponse struct {
	Status            string                `json:"status" example:"success"`
	FollowupQuestions generator.QuestionSet `json:"followup_questions"`
}

// TrendRequest is the payload of POST /generate_trend_followups. Either
// AnswersOverDays is given, or the trend is built from the stored answers of
// UserID within the optional range.
type TrendRequest struct {
	AnswersOverDays string `json:"answers_over_days" example:"2024-03-08: slept 7h; 2024-03-09: slept 5h; 2024-03-10: slept 4h"`
	UserID          uint   `json:"user_id" example:"1"`
	StartDate       string `json:"start_date" example:"2024-03-01"`
	EndDate         string `json:"end_date" example:"2024-03-10"`
}

// TrendResponse carries trend follow-ups; an empty object means nothing
// notable was found.
type TrendResponse struct {
	Status                 string                `json:"status" example:"success"`
	TrendFollowupQuestions generator.QuestionSet `json:"trend_followup_questions"`
}

// GenerateFollowups godoc
// @ID          generateFollowups
// @Summary     Follow-up questions from answers
// @Description Asks the language model for follow-ups to the given answers, optionally grounded on a symptom reference.
// @Tags        Follow-ups
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.FollowupRequest  true  "Answers and optional symptom reference"
// @Success     200   {object}  handlers.FollowupResponse
// @Failure     400   {object}  handlers.ErrorResponse "Bad request"
// @Failure     502   {object}  handlers.ErrorResponse "Generation failed"
// @Router      /generate_followup_questions [post]
func (h *Handlers) GenerateFollowups(c *gin.Context) {
	var req FollowupRequest
	if !bindJSON(c, &req) {
		return
	}

	set, err := h.followups.FromAnswers(c.Request.Context(), req.Answers, req.Symptoms)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, FollowupResponse{Status: StatusSuccess, FollowupQuestions: nonNilSet(set)})
}

// GenerateTrendFollowups godoc
// @ID          generateTrendFollowups
// @Summary     Follow-up questions from multi-day trends
// @Description Uses answers_over_days when given; otherwise builds the trend from the user's stored answers in the range.
// @Tags        Follow-ups
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header    string                  false "User id when answers_over_days is absent"
// @Param       body       body      handlers.TrendRequest  true  "Trend input"
// @Success     200        {object}  handlers.TrendResponse
// @Failure     400        {object}  handlers.ErrorResponse "Bad request"
// @Failure     404        {object}  handlers.ErrorResponse "No stored answers in range"
// @Failure     502        {object}  handlers.ErrorResponse "Generation failed"
// @Router      /generate_trend_followups [post]
func (h *Handlers) GenerateTrendFollowups(c *gin.Context) {
	var req TrendRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	var (
		set generator.QuestionSet
		err error
	)
	if strings.TrimSpace(req.AnswersOverDays) != "" {
		set, err = h.followups.FromTrend(ctx, req.AnswersOverDays)
	} else {
		uid, good := resolveUser(c, req.UserID)
		if !good {
			return
		}
		_, today := h.clock()
		r, rerr := services.ResolveRange(req.StartDate, req.EndDate, today)
		if rerr != nil {
			serviceError(c, rerr)
			return
		}
		set, err = h.followups.FromHistory(ctx, uid, r)
	}
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, TrendResponse{Status: StatusSuccess, TrendFollowupQuestions: nonNilSet(set)})
}
