package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/tbourn/go-health-assistant/internal/config"
)

// OpenAI is a Completer backed by an OpenAI-compatible chat completions API.
type OpenAI struct {
	client     *openai.Client
	configured bool
}

// NewOpenAI builds the API client from cfg. Retries are disabled so every
// generation is a single attempt; LLM_TIMEOUT bounds each request.
func NewOpenAI(cfg config.LLMConfig) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &OpenAI{
		client:     openai.NewClient(opts...),
		configured: strings.TrimSpace(cfg.APIKey) != "",
	}
}

// Complete sends req as a system + user message pair.
func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	if !o.configured {
		return "", fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrNotConfigured)
	}

	params := openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		}),
		Model: openai.F(openai.ChatModel(req.Model)),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.F(req.MaxTokens)
	}
	if req.Schema != nil {
		params.ResponseFormat = openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			openai.ResponseFormatJSONSchemaParam{
				Type: openai.F(openai.ResponseFormatJSONSchemaTypeJSONSchema),
				JSONSchema: openai.F(openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   openai.F(req.Schema.Name),
					Schema: openai.F[interface{}](req.Schema.Body),
					Strict: openai.F(true),
				}),
			},
		)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", ErrUpstream)
	}
	return resp.Choices[0].Message.Content, nil
}
