// Package llm adapts text-generation backends to a single prompt-in,
// text-out capability.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Client is the narrow capability the recommendation logic depends on: one
// prompt in, the model's raw text out.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrAuth is returned when the credential is missing or rejected.
	ErrAuth = errors.New("authentication error")
	// ErrGeneration is returned when the backend call fails or yields no
	// usable text.
	ErrGeneration = errors.New("generation error")
)

// Provider names accepted by New.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// DefaultGeminiModel is used when no model is configured for Gemini.
const DefaultGeminiModel = "gemini-2.5-flash"

// Options selects and configures a backend.
type Options struct {
	Provider   string
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// New builds the backend named by opts.Provider. An empty provider means
// Gemini. A missing API key is reported as ErrAuth before any network call.
func New(ctx context.Context, opts Options) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = ProviderGemini
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("%w: no API key configured for %s", ErrAuth, provider)
	}
	switch provider {
	case ProviderGemini:
		return NewGeminiProvider(ctx, opts)
	case ProviderOpenAI:
		return NewOpenAIProvider(opts)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", opts.Provider)
	}
}

// authStatus reports whether an HTTP status code means the credential was
// rejected.
func authStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

func emptyResponse(provider string) error {
	return fmt.Errorf("%w: %s returned no text", ErrGeneration, provider)
}
