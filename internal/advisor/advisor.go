// Package advisor turns questionnaire answers into prompts and asks a text
// generation backend for a project recommendation.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nexovate/fypadvisor/internal/cache"
	"github.com/nexovate/fypadvisor/internal/llm"
)

// Advisor produces and refines recommendations. Responses are returned
// verbatim; nothing is parsed or validated here.
type Advisor struct {
	Client llm.Client
	// Model scopes cache keys. It does not select the backend model.
	Model string
	// Cache, when set, replays earlier responses for identical prompts.
	Cache *cache.LLMCache
}

// Generate asks for a recommendation tailored to answers and notes. The
// backend is called exactly once; failures are not retried.
func (a *Advisor) Generate(ctx context.Context, answers Answers, notes string) (string, error) {
	if len(answers) == 0 {
		return "", errors.New("no questionnaire answers to summarize")
	}
	return a.call(ctx, "generate", BuildGeneratePrompt(answers, notes))
}

// Refine asks for a revised version of existing that applies modifications.
func (a *Advisor) Refine(ctx context.Context, existing, modifications string) (string, error) {
	if strings.TrimSpace(existing) == "" || strings.TrimSpace(modifications) == "" {
		return "", errors.New("refinement needs both the existing text and the modifications")
	}
	return a.call(ctx, "refine", BuildRefinePrompt(existing, modifications))
}

type cachedResponse struct {
	Text string `json:"text"`
}

func (a *Advisor) call(ctx context.Context, kind, prompt string) (string, error) {
	if a == nil || a.Client == nil {
		return "", fmt.Errorf("%w: advisor has no text generation client", llm.ErrGeneration)
	}
	key := cache.KeyFrom(a.Model, prompt)
	if a.Cache != nil {
		if raw, ok, _ := a.Cache.Get(ctx, key); ok {
			var out cachedResponse
			if err := json.Unmarshal(raw, &out); err == nil && strings.TrimSpace(out.Text) != "" {
				log.Debug().Str("kind", kind).Msg("recommendation served from cache")
				return out.Text, nil
			}
		}
	}

	log.Debug().Str("kind", kind).Int("prompt_chars", len(prompt)).Msg("requesting recommendation")
	text, err := a.Client.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%s recommendation: %w", kind, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s recommendation: %w: empty response", kind, llm.ErrGeneration)
	}
	if a.Cache != nil {
		if payload, err := json.Marshal(cachedResponse{Text: text}); err == nil {
			if err := a.Cache.Save(ctx, key, payload); err != nil {
				log.Warn().Err(err).Msg("could not cache recommendation")
			}
		}
	}
	return text, nil
}
