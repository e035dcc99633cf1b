package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ChatCompleter is the subset of *openai.Client used by OpenAIProvider. It
// lets tests and other OpenAI-compatible backends stand in.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider sends each prompt as a single user message to an
// OpenAI-compatible chat completion endpoint.
type OpenAIProvider struct {
	Inner       ChatCompleter
	Model       string
	Temperature float32
}

// NewOpenAIProvider builds a provider backed by *openai.Client.
func NewOpenAIProvider(opts Options) (*OpenAIProvider, error) {
	if strings.TrimSpace(opts.Model) == "" {
		return nil, errors.New("openai provider requires a model name")
	}
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	return &OpenAIProvider{Inner: openai.NewClientWithConfig(cfg), Model: opts.Model}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p == nil || p.Inner == nil {
		return "", fmt.Errorf("%w: openai provider not configured", ErrGeneration)
	}
	resp, err := p.Inner.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: p.Temperature,
		N:           1,
	})
	if err != nil {
		return "", wrapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", emptyResponse(ProviderOpenAI)
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", emptyResponse(ProviderOpenAI)
	}
	return text, nil
}

func wrapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && authStatus(apiErr.HTTPStatusCode) {
		return fmt.Errorf("%w: openai: %w", ErrAuth, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && authStatus(reqErr.HTTPStatusCode) {
		return fmt.Errorf("%w: openai: %w", ErrAuth, err)
	}
	return fmt.Errorf("%w: openai: %w", ErrGeneration, err)
}
