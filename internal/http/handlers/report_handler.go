// Report HTTP handlers.
//
// This file exposes:
//   - POST /generate_report_json  (question → answers mapping for a range)
//   - POST /generate_report_pdf   (narrative PDF download)
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-health-assistant/internal/services"
)

// HeaderReportPlaceholder is "true" when the PDF is the fallback page.
const HeaderReportPlaceholder = "X-Report-Placeholder"

// ReportRequest selects the user and an optional inclusive date range.
type ReportRequest struct {
	UserID    uint   `json:"user_id" example:"1"`
	StartDate string `json:"start_date" example:"2024-03-01"`
	EndDate   string `json:"end_date" example:"2024-03-10"`
}

// ReportDataResponse is the body of POST /generate_report_json. Data is
// omitted when Status is "no_data".
type ReportDataResponse struct {
	Status    string               `json:"status" example:"success"`
	UserID    uint                 `json:"user_id" example:"1"`
	DateRange services.DateRange   `json:"date_range"`
	Data      *services.ReportData `json:"data,omitempty" swaggertype:"object,string"`
	Message   string               `json:"message,omitempty" example:"No questions found in the requested range"`
}

// reportRange resolves the user and range of a report request, writing the
// error response on failure.
func (h *Handlers) reportRange(c *gin.Context, req ReportRequest) (uint, services.DateRange, bool) {
	uid, good := resolveUser(c, req.UserID)
	if !good {
		return 0, services.DateRange{}, false
	}
	_, today := h.clock()
	r, err := services.ResolveRange(req.StartDate, req.EndDate, today)
	if err != nil {
		serviceError(c, err)
		return 0, services.DateRange{}, false
	}
	return uid, r, true
}

// GenerateReportJSON godoc
// @ID          generateReportJSON
// @Summary     Report data
// @Description Maps each question text to its answers ("A1": "<YYYY-MM-DD HH:MM:SS>, <text>", ...) ordered by day and position. An empty range yields status "no_data".
// @Tags        Reports
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header    string                   false "User id when absent from the body"
// @Param       body       body      handlers.ReportRequest  true  "User and optional range"
// @Success     200        {object}  handlers.ReportDataResponse
// @Failure     400        {object}  handlers.ErrorResponse "Bad request"
// @Router      /generate_report_json [post]
func (h *Handlers) GenerateReportJSON(c *gin.Context) {
	var req ReportRequest
	if !bindJSON(c, &req) {
		return
	}
	uid, r, good := h.reportRange(c, req)
	if !good {
		return
	}

	data, err := h.reports.BuildReportData(c.Request.Context(), uid, r)
	if errors.Is(err, services.ErrNoReportData) {
		ok(c, http.StatusOK, ReportDataResponse{
			Status:    StatusNoData,
			UserID:    uid,
			DateRange: r,
			Message:   "No questions found in the requested range",
		})
		return
	}
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, ReportDataResponse{
		Status:    StatusSuccess,
		UserID:    uid,
		DateRange: r,
		Data:      data,
	})
}

// GenerateReportPDF godoc
// @ID          generateReportPDF
// @Summary     Narrative PDF report
// @Description Builds a day-by-day timeline, asks the language model for a narrative and typesets it. If the narrative cannot be typeset a one-page placeholder is returned and X-Report-Placeholder is set.
// @Tags        Reports
// @Accept      json
// @Produce     application/pdf
// @Param       X-User-ID  header    string                   false "User id when absent from the body"
// @Param       body       body      handlers.ReportRequest  true  "User and optional range"
// @Success     200        {file}    file
// @Header      200        {string}  Content-Disposition "attachment; filename=patient_report_<user>_<end>.pdf"
// @Failure     400        {object}  handlers.ErrorResponse "Bad request"
// @Failure     404        {object}  handlers.ErrorResponse "No questions in range"
// @Failure     502        {object}  handlers.ErrorResponse "Generation failed"
// @Router      /generate_report_pdf [post]
func (h *Handlers) GenerateReportPDF(c *gin.Context) {
	var req ReportRequest
	if !bindJSON(c, &req) {
		return
	}
	uid, r, good := h.reportRange(c, req)
	if !good {
		return
	}

	f, err := h.reports.NarrativePDF(c.Request.Context(), uid, r)
	if err != nil {
		serviceError(c, err)
		return
	}
	if f.Placeholder {
		c.Header(HeaderReportPlaceholder, "true")
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Filename))
	c.Data(http.StatusOK, "application/pdf", f.Content)
}
