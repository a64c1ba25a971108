// Package services – FollowupService
//
// FollowupService turns answers into follow-up questions. It is stateless:
// nothing it produces is stored.
package services

import (
	"context"
	"strings"

	"github.com/tbourn/go-health-assistant/internal/generator"
	"github.com/tbourn/go-health-assistant/internal/symptoms"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultSymptomTopK is used when TopK is unset.
const DefaultSymptomTopK = 5

// FollowupService derives follow-up questions through the generator.
type FollowupService struct {
	Gen QuestionGenerator

	// Symptoms, when loaded, supplies a reference for requests that carry
	// none.
	Symptoms symptoms.Index
	TopK     int

	Reports *ReportService
}

// FromAnswers returns follow-ups keyed by generator id. A blank reference
// is filled from the symptom index when one is loaded.
func (s *FollowupService) FromAnswers(ctx context.Context, answers, reference string) (generator.QuestionSet, error) {
	tr := otel.Tracer("services/FollowupService")
	ctx, span := tr.Start(ctx, "FromAnswers")
	defer span.End()

	if strings.TrimSpace(answers) == "" {
		return nil, invalidInput("answers must not be empty")
	}
	if strings.TrimSpace(reference) == "" {
		reference = s.reference(answers)
		span.SetAttributes(attribute.Bool("symptoms.from_index", reference != ""))
	}

	set, err := s.Gen.FollowupsFromAnswers(ctx, answers, reference)
	if err != nil {
		span.RecordError(err)
		return nil, generationError(err)
	}
	return set, nil
}

func (s *FollowupService) reference(answers string) string {
	if s.Symptoms == nil || s.Symptoms.Len() == 0 {
		return ""
	}
	k := s.TopK
	if k <= 0 {
		k = DefaultSymptomTopK
	}
	res := s.Symptoms.TopK(answers, k)
	if len(res) == 0 {
		return ""
	}
	return symptoms.Reference(res)
}

// FromTrend returns follow-ups for multi-day answers. An empty result means
// nothing notable and is not an error.
func (s *FollowupService) FromTrend(ctx context.Context, answersOverDays string) (generator.QuestionSet, error) {
	tr := otel.Tracer("services/FollowupService")
	ctx, span := tr.Start(ctx, "FromTrend")
	defer span.End()

	if strings.TrimSpace(answersOverDays) == "" {
		return nil, invalidInput("answers_over_days must not be empty")
	}
	set, err := s.Gen.FollowupsFromTrend(ctx, answersOverDays)
	if err != nil {
		span.RecordError(err)
		return nil, generationError(err)
	}
	if set == nil {
		set = generator.QuestionSet{}
	}
	return set, nil
}

// FromHistory runs FromTrend over the user's stored report data for r.
func (s *FollowupService) FromHistory(ctx context.Context, userID uint, r DateRange) (generator.QuestionSet, error) {
	tr := otel.Tracer("services/FollowupService")
	ctx, span := tr.Start(ctx, "FromHistory",
		trace.WithAttributes(attribute.Int64("user.id", int64(userID))),
	)
	defer span.End()

	data, err := s.Reports.BuildReportData(ctx, userID, r)
	if err != nil {
		return nil, err
	}
	raw, err := data.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return s.FromTrend(ctx, string(raw))
}
