// Package services – ReportService
//
// ReportService reshapes stored questions and answers over a date range into
// the report data structure, the per-day timeline fed to the narrative
// generator, and the final PDF.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-health-assistant/internal/document"
	"github.com/tbourn/go-health-assistant/internal/domain"
	"github.com/tbourn/go-health-assistant/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// EarliestDay is the default start of a report range.
const EarliestDay domain.Day = "2000-01-01"

// ReportTitle heads every generated PDF.
const ReportTitle = "Patient Summary Report"

// DateRange is an inclusive range of days.
type DateRange struct {
	Start domain.Day `json:"start"`
	End   domain.Day `json:"end"`
}

// ResolveRange parses optional start/end (YYYY-MM-DD). A blank start means
// EarliestDay and a blank end means today. Malformed dates and start after
// end return ErrInvalidInput.
func ResolveRange(start, end string, today domain.Day) (DateRange, error) {
	r := DateRange{Start: EarliestDay, End: today}
	if strings.TrimSpace(start) != "" {
		d, err := domain.ParseDay(start)
		if err != nil {
			return DateRange{}, invalidInput("start_date: %v", err)
		}
		r.Start = d
	}
	if strings.TrimSpace(end) != "" {
		d, err := domain.ParseDay(end)
		if err != nil {
			return DateRange{}, invalidInput("end_date: %v", err)
		}
		r.End = d
	}
	if r.Start > r.End {
		return DateRange{}, invalidInput("start_date %s is after end_date %s", r.Start, r.End)
	}
	return r, nil
}

// ReportFile is a rendered report ready for download.
type ReportFile struct {
	Filename    string
	Content     []byte
	Placeholder bool // narrative could not be rendered; a title page was returned
}

// ReportService assembles reports.
type ReportService struct {
	DB     *gorm.DB
	Gen    QuestionGenerator
	Author string
}

type answeredQuestion struct {
	q       domain.Question
	answers []domain.Answer
}

// load returns the range's questions with their answers (created_at order).
func (s *ReportService) load(ctx context.Context, userID uint, r DateRange) ([]answeredQuestion, error) {
	qs, err := repo.ListQuestionsInRange(ctx, s.DB, userID, r.Start, r.End)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, ErrNoReportData
	}
	ids := make([]uint, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	ans, err := repo.ListAnswersForQuestions(ctx, s.DB, userID, ids)
	if err != nil {
		return nil, err
	}
	byQ := make(map[uint][]domain.Answer, len(qs))
	for _, a := range ans {
		byQ[a.QuestionID] = append(byQ[a.QuestionID], a)
	}
	out := make([]answeredQuestion, len(qs))
	for i, q := range qs {
		out[i] = answeredQuestion{q: q, answers: byQ[q.ID]}
	}
	return out, nil
}

// BuildReportData maps each question text in range to its answers, keyed
// A1, A2, ... with values "<YYYY-MM-DD HH:MM:SS>, <text>". Questions are
// visited by day then position. Identical texts on different days share one
// entry. ErrNoReportData is returned when the range holds no questions.
func (s *ReportService) BuildReportData(ctx context.Context, userID uint, r DateRange) (*ReportData, error) {
	tr := otel.Tracer("services/ReportService")
	ctx, span := tr.Start(ctx, "BuildReportData",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.String("range.start", r.Start.String()),
			attribute.String("range.end", r.End.String()),
		),
	)
	defer span.End()

	rows, err := s.load(ctx, userID, r)
	if err != nil {
		return nil, err
	}
	data := &ReportData{}
	for _, row := range rows {
		vals := make([]string, len(row.answers))
		for i, a := range row.answers {
			vals[i] = fmt.Sprintf("%s, %s", a.CreatedAt.UTC().Format(AnswerTimeLayout), a.Text)
		}
		data.merge(row.q.Text, vals)
	}
	span.SetAttributes(attribute.Int("report.questions", data.Len()))
	return data, nil
}

// BuildTimeline maps each day in range to {question text: first answer}.
func (s *ReportService) BuildTimeline(ctx context.Context, userID uint, r DateRange) (*Timeline, error) {
	tr := otel.Tracer("services/ReportService")
	ctx, span := tr.Start(ctx, "BuildTimeline",
		trace.WithAttributes(attribute.Int64("user.id", int64(userID))),
	)
	defer span.End()

	rows, err := s.load(ctx, userID, r)
	if err != nil {
		return nil, err
	}
	tl := &Timeline{}
	for _, row := range rows {
		first := ""
		if len(row.answers) > 0 {
			first = row.answers[0].Text
		}
		tl.add(row.q.Date.String(), row.q.Text, first, len(row.answers) > 0)
	}
	return tl, nil
}

// NarrativePDF asks the generator for a narrative over the range's timeline
// and typesets it. When the narrative yields no blocks or cannot be
// rendered, a title-only placeholder is returned instead.
func (s *ReportService) NarrativePDF(ctx context.Context, userID uint, r DateRange) (*ReportFile, error) {
	tr := otel.Tracer("services/ReportService")
	ctx, span := tr.Start(ctx, "NarrativePDF",
		trace.WithAttributes(attribute.Int64("user.id", int64(userID))),
	)
	defer span.End()

	tl, err := s.BuildTimeline(ctx, userID, r)
	if err != nil {
		return nil, err
	}
	js, err := tl.Indent()
	if err != nil {
		return nil, err
	}
	text, err := s.Gen.Narrative(ctx, js)
	if err != nil {
		span.RecordError(err)
		return nil, generationError(err)
	}

	meta := document.Meta{Title: ReportTitle, Author: s.Author}
	file := &ReportFile{Filename: fmt.Sprintf("patient_report_%d_%s.pdf", userID, r.End)}

	blocks := document.ParseBlocks(text)
	if len(blocks) > 0 {
		pdf, rerr := document.RenderPDF(blocks, meta)
		if rerr == nil {
			file.Content = pdf
			return file, nil
		}
		span.RecordError(rerr)
		log.Warn().Err(rerr).Uint("user_id", userID).Msg("narrative render failed; using placeholder")
	}

	pdf, err := document.Placeholder(meta)
	if err != nil {
		return nil, err
	}
	file.Content = pdf
	file.Placeholder = true
	return file, nil
}
