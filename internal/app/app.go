// Package app wires configuration, the recommendation client, the image
// fetcher and the PDF renderer into a single run.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nexovate/fypadvisor/internal/advisor"
	"github.com/nexovate/fypadvisor/internal/cache"
	"github.com/nexovate/fypadvisor/internal/fetch"
	"github.com/nexovate/fypadvisor/internal/llm"
	"github.com/nexovate/fypadvisor/internal/render"
)

type App struct {
	cfg        Config
	client     llm.Client
	httpClient *http.Client
	httpCache  *cache.HTTPCache
	llmCache   *cache.LLMCache
	console    io.Reader
	prompts    io.Writer
	// session is set once answers were collected interactively.
	session    *advisor.Console
}

// Option customizes an App.
type Option func(*App)

// WithLLMClient replaces the configured text-generation backend.
func WithLLMClient(c llm.Client) Option { return func(a *App) { a.client = c } }

// WithHTTPClient replaces the HTTP client used for images and the backend.
func WithHTTPClient(c *http.Client) Option { return func(a *App) { a.httpClient = c } }

// WithConsole sets where interactive answers are read from and where the
// questions are written.
func WithConsole(r io.Reader, w io.Writer) Option {
	return func(a *App) { a.console, a.prompts = r, w }
}

// Result describes a finished run.
type Result struct {
	// Text is the recommendation as returned by the backend.
	Text string
	// PDFPath is the absolute path of the written document. Empty in draft
	// mode.
	PDFPath string
	UserID  string
}

func New(ctx context.Context, cfg Config, opts ...Option) (*App, error) {
	cfg.ApplyDefaults()
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, console: os.Stdin, prompts: os.Stderr}
	for _, o := range opts {
		o(a)
	}
	if a.httpClient == nil {
		a.httpClient = newHTTPClient(0)
	}

	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			// Purging is best-effort; a stale entry only costs a refetch.
			if n, err := cache.PurgeHTTPCacheByAge(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
				log.Warn().Err(err).Msg("http cache purge failed")
			} else if n > 0 {
				log.Debug().Int("removed", n).Msg("purged http cache")
			}
			if n, err := cache.PurgeLLMCacheByAge(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
				log.Warn().Err(err).Msg("llm cache purge failed")
			} else if n > 0 {
				log.Debug().Int("removed", n).Msg("purged llm cache")
			}
		}
		a.httpCache = &cache.HTTPCache{Dir: filepath.Join(cfg.CacheDir, "http"), StrictPerms: cfg.CacheStrictPerms}
		a.llmCache = &cache.LLMCache{Dir: filepath.Join(cfg.CacheDir, "llm"), StrictPerms: cfg.CacheStrictPerms}
	}
	return a, nil
}

func (a *App) Close() {
	if a.httpClient != nil {
		a.httpClient.CloseIdleConnections()
	}
}

func (a *App) Run(ctx context.Context) (Result, error) {
	in, err := a.loadInput()
	if err != nil {
		return Result{}, err
	}
	res := Result{UserID: ResolveUserID(string(in.UserID))}

	text, err := a.recommendation(ctx, in)
	if err != nil {
		return res, err
	}
	res.Text = text
	if a.cfg.Draft {
		log.Info().Int("chars", len(text)).Msg("draft ready")
		return res, nil
	}

	path, err := a.writePDF(ctx, in, text, res.UserID)
	if err != nil {
		return res, err
	}
	res.PDFPath = path
	log.Info().Str("path", path).Msg("recommendation written")
	return res, nil
}

func (a *App) loadInput() (Input, error) {
	switch {
	case a.cfg.InputPath != "":
		return LoadInput(a.cfg.InputPath)
	case a.cfg.Interactive:
		a.session = advisor.NewConsole(a.console, a.prompts)
		answers, notes, err := a.session.Collect()
		if err != nil {
			return Input{}, fmt.Errorf("%w: %w", ErrInput, err)
		}
		return Input{Answers: answers, ExtraNotes: notes}, nil
	default:
		// Refinement without a request document.
		return Input{}, nil
	}
}

// recommendation refines an existing text, passes a supplied one through, or
// generates a new one, in that order of preference.
func (a *App) recommendation(ctx context.Context, in Input) (string, error) {
	if a.cfg.ExistingPath != "" {
		b, err := os.ReadFile(a.cfg.ExistingPath)
		if err != nil {
			return "", fmt.Errorf("%w: read existing recommendation: %w", ErrInput, err)
		}
		if strings.TrimSpace(string(b)) == "" {
			return "", fmt.Errorf("%w: existing recommendation %s is empty", ErrInput, a.cfg.ExistingPath)
		}
		adv, err := a.advisor(ctx)
		if err != nil {
			return "", err
		}
		return adv.Refine(ctx, string(b), a.cfg.Modifications)
	}
	if strings.TrimSpace(in.Recommendation) != "" {
		log.Debug().Msg("using supplied recommendation")
		return in.Recommendation, nil
	}
	if len(in.Answers) == 0 {
		return "", fmt.Errorf("%w: no questionnaire answers", ErrInput)
	}
	adv, err := a.advisor(ctx)
	if err != nil {
		return "", err
	}
	text, err := adv.Generate(ctx, in.Answers, in.ExtraNotes)
	if err != nil || a.session == nil {
		return text, err
	}
	return a.session.Review(ctx, adv, in.Answers, in.ExtraNotes, text)
}

// advisor builds the backend on first use so runs that never call it need
// no credential.
func (a *App) advisor(ctx context.Context) (*advisor.Advisor, error) {
	if a.client == nil {
		c, err := llm.New(ctx, llm.Options{
			Provider:   a.cfg.LLMProvider,
			APIKey:     a.cfg.LLMAPIKey,
			Model:      a.cfg.LLMModel,
			BaseURL:    a.cfg.LLMBaseURL,
			HTTPClient: a.httpClient,
		})
		if err != nil {
			return nil, fmt.Errorf("init llm: %w", err)
		}
		a.client = c
	}
	return &advisor.Advisor{Client: a.client, Model: a.cacheModel(), Cache: a.llmCache}, nil
}

func (a *App) cacheModel() string {
	if a.cfg.LLMModel != "" {
		return a.cfg.LLMProvider + "/" + a.cfg.LLMModel
	}
	if strings.EqualFold(a.cfg.LLMProvider, llm.ProviderGemini) {
		return llm.ProviderGemini + "/" + llm.DefaultGeminiModel
	}
	return a.cfg.LLMProvider
}

func (a *App) imageSource() render.ImageSource {
	fc := &fetch.Client{
		HTTPClient:        a.httpClient,
		UserAgent:         a.cfg.UserAgent,
		MaxAttempts:       a.cfg.FetchAttempts,
		PerRequestTimeout: a.cfg.FetchTimeout,
		Cache:             a.httpCache,
	}
	return render.ImageSourceFunc(func(ctx context.Context, url string) ([]byte, error) {
		body, ct, err := fc.Get(ctx, url)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("url", url).Str("content_type", ct).Int("bytes", len(body)).Msg("fetched image")
		return body, nil
	})
}

func (a *App) writePDF(ctx context.Context, in Input, text, userID string) (string, error) {
	doc := render.New(render.Options{
		Title:     in.Title(),
		Copyright: a.cfg.Copyright,
		Author:    a.cfg.Author,
		Creator:   Creator(),
	})
	if err := doc.WriteText(text); err != nil {
		return "", err
	}
	if err := doc.AddImagePanel(ctx, a.imageSource(), in.Links()); err != nil {
		return "", err
	}

	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create output dir: %w", render.ErrRender, err)
	}
	path, err := filepath.Abs(OutputPath(a.cfg.OutputDir, userID))
	if err != nil {
		return "", fmt.Errorf("%w: resolve output path: %w", render.ErrRender, err)
	}
	if err := doc.Save(path); err != nil {
		return "", err
	}
	log.Debug().Int("pages", doc.Pages()).Str("user_id", userID).Msg("document saved")
	return path, nil
}
