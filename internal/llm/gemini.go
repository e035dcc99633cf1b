package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ContentGenerator is the subset of genai's Models service used here.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider calls the Gemini API with the prompt as a single text part.
type GeminiProvider struct {
	Models ContentGenerator
	Model  string
}

// NewGeminiProvider builds a provider on the Gemini API backend.
func NewGeminiProvider(ctx context.Context, opts Options) (*GeminiProvider, error) {
	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions.BaseURL = opts.BaseURL
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiProvider{Models: client.Models, Model: model}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p == nil || p.Models == nil {
		return "", fmt.Errorf("%w: gemini provider not configured", ErrGeneration)
	}
	resp, err := p.Models.GenerateContent(ctx, p.Model, genai.Text(prompt), nil)
	if err != nil {
		return "", wrapGeminiError(err)
	}
	if resp == nil {
		return "", emptyResponse(ProviderGemini)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", emptyResponse(ProviderGemini)
	}
	return text, nil
}

func wrapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && authStatus(apiErr.Code) {
		return fmt.Errorf("%w: gemini: %w", ErrAuth, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && authStatus(apiErrPtr.Code) {
		return fmt.Errorf("%w: gemini: %w", ErrAuth, err)
	}
	return fmt.Errorf("%w: gemini: %w", ErrGeneration, err)
}
