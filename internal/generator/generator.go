// Package generator talks to the language model that writes daily check-in
// questions, follow-up questions and report narratives.
//
// A Completer performs one raw completion. Client builds the prompts, sends
// them through a Completer and parses every structured response strictly:
// callers get either a well-formed QuestionSet or an error wrapping
// ErrInvalidOutput (bad shape) or ErrUpstream (call failed). Calls are single
// attempt; nothing is retried.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tbourn/go-health-assistant/internal/config"
)

// Task names label metrics, spans and logs.
const (
	TaskDailyQuestions = "daily_questions"
	TaskFollowups      = "followups"
	TaskTrend          = "trend_followups"
	TaskNarrative      = "narrative"
)

// Request is one completion call.
type Request struct {
	Task      string
	Model     string
	System    string
	User      string
	MaxTokens int64
	Schema    *Schema // nil for free text
}

// Completer performs a single chat completion and returns the raw text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) { return f(ctx, req) }

// Client generates health-monitoring content through a Completer.
type Client struct {
	backend Completer

	model           string
	reportModel     string
	maxTokens       int64
	reportMaxTokens int64
	strictSchemas   bool
}

// New returns a Client using backend with the models and limits from cfg.
func New(backend Completer, cfg config.LLMConfig) *Client {
	c := &Client{
		backend:         backend,
		model:           cfg.Model,
		reportModel:     cfg.ReportModel,
		maxTokens:       int64(cfg.MaxTokens),
		reportMaxTokens: int64(cfg.ReportMaxTokens),
		strictSchemas:   cfg.StrictJSONSchemas,
	}
	if c.model == "" {
		c.model = "gpt-4o-mini"
	}
	if c.reportModel == "" {
		c.reportModel = c.model
	}
	if c.maxTokens <= 0 {
		c.maxTokens = 5000
	}
	if c.reportMaxTokens <= 0 {
		c.reportMaxTokens = 8000
	}
	return c
}

// DailyQuestions generates a question set for a patient description. An
// empty set is rejected as invalid output.
func (c *Client) DailyQuestions(ctx context.Context, description string) (QuestionSet, error) {
	raw, err := c.call(ctx, Request{
		Task:      TaskDailyQuestions,
		Model:     c.model,
		System:    dailyQuestionsSystem,
		User:      dailyQuestionsUser(description),
		MaxTokens: c.maxTokens,
		Schema:    c.schema(dailyQuestionsSchema),
	})
	if err != nil {
		return nil, err
	}
	set, err := ParseQuestionSet(raw)
	if err == nil && len(set) == 0 {
		err = &ParseError{Shape: "question map", Reason: "no questions returned"}
	}
	return set, c.observeParse(TaskDailyQuestions, err)
}

// FollowupsFromAnswers derives follow-up questions from a block of answers
// and a symptom reference.
func (c *Client) FollowupsFromAnswers(ctx context.Context, answers, symptoms string) (QuestionSet, error) {
	raw, err := c.call(ctx, Request{
		Task:      TaskFollowups,
		Model:     c.model,
		System:    followupSystem,
		User:      followupUser(answers, symptoms),
		MaxTokens: c.maxTokens,
		Schema:    c.schema(followupListSchema),
	})
	if err != nil {
		return nil, err
	}
	set, err := ParseFollowupList(raw)
	return set, c.observeParse(TaskFollowups, err)
}

// FollowupsFromTrend derives follow-up questions from a multi-day timeline.
// An empty set is a valid answer meaning nothing notable was found.
func (c *Client) FollowupsFromTrend(ctx context.Context, timeline string) (QuestionSet, error) {
	raw, err := c.call(ctx, Request{
		Task:      TaskTrend,
		Model:     c.model,
		System:    trendSystem,
		User:      trendUser(timeline),
		MaxTokens: c.maxTokens,
		Schema:    c.schema(trendFollowupSchema),
	})
	if err != nil {
		return nil, err
	}
	set, err := ParseQuestionSet(raw)
	return set, c.observeParse(TaskTrend, err)
}

// Narrative writes the markdown-like report text for a timeline.
func (c *Client) Narrative(ctx context.Context, timelineJSON string) (string, error) {
	raw, err := c.call(ctx, Request{
		Task:      TaskNarrative,
		Model:     c.reportModel,
		System:    narrativeSystem,
		User:      narrativeUser(timelineJSON),
		MaxTokens: c.reportMaxTokens,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func (c *Client) schema(s *Schema) *Schema {
	if !c.strictSchemas {
		return nil
	}
	return s
}

// call runs one completion with a span, metrics and a debug log line.
func (c *Client) call(ctx context.Context, req Request) (string, error) {
	ctx, span := otel.Tracer("generator").Start(ctx, "generator."+req.Task)
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", req.Model),
		attribute.Int64("llm.max_tokens", req.MaxTokens),
	)

	start := time.Now()
	raw, err := c.backend.Complete(ctx, req)
	elapsed := time.Since(start)
	callLatency.WithLabelValues(req.Task).Observe(elapsed.Seconds())

	if err != nil {
		if !errors.Is(err, ErrUpstream) && !errors.Is(err, ErrNotConfigured) {
			err = fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		callsTotal.WithLabelValues(req.Task, "upstream_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		log.Warn().Err(err).Str("task", req.Task).Dur("elapsed", elapsed).Msg("generator call failed")
		return "", err
	}

	span.SetAttributes(attribute.Int("llm.response_bytes", len(raw)))
	log.Debug().Str("task", req.Task).Str("model", req.Model).Dur("elapsed", elapsed).Int("bytes", len(raw)).Msg("generator call")
	return raw, nil
}

// observeParse records the parse outcome and passes err through.
func (c *Client) observeParse(task string, err error) error {
	if err != nil {
		callsTotal.WithLabelValues(task, "invalid_output").Inc()
		log.Warn().Err(err).Str("task", task).Msg("generator returned unusable output")
		return err
	}
	callsTotal.WithLabelValues(task, "ok").Inc()
	return nil
}
