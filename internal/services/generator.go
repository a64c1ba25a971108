package services

import (
	"context"

	"github.com/tbourn/go-health-assistant/internal/generator"
)

// QuestionGenerator is the language-model collaborator used by the services.
// *generator.Client implements it.
type QuestionGenerator interface {
	DailyQuestions(ctx context.Context, description string) (generator.QuestionSet, error)
	FollowupsFromAnswers(ctx context.Context, answers, symptoms string) (generator.QuestionSet, error)
	FollowupsFromTrend(ctx context.Context, timeline string) (generator.QuestionSet, error)
	Narrative(ctx context.Context, timelineJSON string) (string, error)
}

var _ QuestionGenerator = (*generator.Client)(nil)
