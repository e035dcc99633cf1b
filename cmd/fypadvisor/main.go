package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nexovate/fypadvisor/internal/app"
	"github.com/nexovate/fypadvisor/internal/fetch"
	"github.com/nexovate/fypadvisor/internal/llm"
	"github.com/nexovate/fypadvisor/internal/render"
)

// Exit codes by failure kind.
const (
	exitOK         = 0
	exitOther      = 1
	exitInput      = 2
	exitAuth       = 3
	exitGeneration = 4
	exitFetch      = 5
	exitRender     = 6
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	fs := flag.NewFlagSet("fypadvisor", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: fypadvisor [flags] <input.json>\n\n")
		fs.PrintDefaults()
	}
	cfg, showVersion, err := buildConfig(fs, os.Args[1:])
	if showVersion {
		fmt.Printf("fypadvisor %s (%s, %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("invalid arguments")
		os.Exit(exitCode(err))
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(exitCode(err))
	}
}

// buildConfig resolves settings with flags over environment over config file
// over defaults.
func buildConfig(fs *flag.FlagSet, args []string) (app.Config, bool, error) {
	var (
		flags       app.Config
		configPath  string
		envPath     string
		showVersion bool
	)
	fs.BoolVar(&flags.Draft, "draft", false, "Print the recommendation text instead of writing a PDF")
	fs.BoolVar(&flags.Interactive, "interactive", false, "Ask the questionnaire on the console instead of reading an input file")
	fs.StringVar(&flags.ExistingPath, "existing", "", "Path to an existing recommendation to refine (requires -modify)")
	fs.StringVar(&flags.Modifications, "modify", "", "Requested changes to the existing recommendation (requires -existing)")
	fs.StringVar(&flags.OutputDir, "out.dir", "", "Directory for the generated PDF (default \".\", env OUTPUT_DIR)")
	fs.StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	fs.StringVar(&envPath, "env", "", "Additional dotenv file loaded after ./.env")
	fs.StringVar(&flags.LLMProvider, "llm.provider", "", "Text generation backend: gemini or openai (env LLM_PROVIDER)")
	fs.StringVar(&flags.LLMModel, "llm.model", "", "Model name (env LLM_MODEL)")
	fs.StringVar(&flags.LLMBaseURL, "llm.base", "", "Backend base URL override (env LLM_BASE_URL)")
	fs.StringVar(&flags.LLMAPIKey, "llm.key", "", "API key (env GOOGLE_API_KEY or GEMINI_API_KEY for gemini, LLM_API_KEY for openai)")
	fs.StringVar(&flags.CacheDir, "cache.dir", "", "Cache directory for images and responses; empty disables caching (env CACHE_DIR)")
	fs.DurationVar(&flags.CacheMaxAge, "cache.maxAge", 0, "Purge cache entries older than this (e.g. 24h); 0 disables")
	fs.BoolVar(&flags.CacheClear, "cache.clear", false, "Clear the cache directory before the run")
	fs.BoolVar(&flags.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	fs.DurationVar(&flags.FetchTimeout, "fetch.timeout", 0, "Deadline for each image download (default 30s)")
	fs.IntVar(&flags.FetchAttempts, "fetch.attempts", 0, "Attempts per image download including the first (default 1)")
	fs.BoolVar(&flags.Verbose, "v", false, "Verbose logging")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return app.Config{}, false, fmt.Errorf("%w: %w", app.ErrInput, err)
	}
	if showVersion {
		return app.Config{}, true, nil
	}
	if fs.NArg() > 1 {
		return app.Config{}, false, fmt.Errorf("%w: expected one input file, got %d arguments", app.ErrInput, fs.NArg())
	}

	if err := app.LoadEnvFiles(".env", envPath); err != nil {
		return app.Config{}, false, fmt.Errorf("load env: %w", err)
	}

	var cfg app.Config
	var fileKey string
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return app.Config{}, false, fmt.Errorf("%w: config file: %w", app.ErrInput, err)
		}
		app.ApplyFileConfig(&cfg, fc)
		fileKey = fc.LLM.APIKey
	}
	app.ApplyEnvOverrides(&cfg)

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	overlayFlags(&cfg, flags, set)
	cfg.InputPath = fs.Arg(0)

	// The key belongs to the provider finally chosen.
	if !set["llm.key"] {
		cfg.LLMAPIKey = app.APIKeyFromEnv(cfg.LLMProvider)
		if cfg.LLMAPIKey == "" {
			cfg.LLMAPIKey = fileKey
		}
	}
	return cfg, false, nil
}

func overlayFlags(cfg *app.Config, f app.Config, set map[string]bool) {
	if set["draft"] {
		cfg.Draft = f.Draft
	}
	if set["interactive"] {
		cfg.Interactive = f.Interactive
	}
	if set["existing"] {
		cfg.ExistingPath = f.ExistingPath
	}
	if set["modify"] {
		cfg.Modifications = f.Modifications
	}
	if set["out.dir"] {
		cfg.OutputDir = f.OutputDir
	}
	if set["llm.provider"] {
		cfg.LLMProvider = f.LLMProvider
	}
	if set["llm.model"] {
		cfg.LLMModel = f.LLMModel
	}
	if set["llm.base"] {
		cfg.LLMBaseURL = f.LLMBaseURL
	}
	if set["llm.key"] {
		cfg.LLMAPIKey = f.LLMAPIKey
	}
	if set["cache.dir"] {
		cfg.CacheDir = f.CacheDir
	}
	if set["cache.maxAge"] {
		cfg.CacheMaxAge = f.CacheMaxAge
	}
	if set["cache.clear"] {
		cfg.CacheClear = f.CacheClear
	}
	if set["cache.strictPerms"] {
		cfg.CacheStrictPerms = f.CacheStrictPerms
	}
	if set["fetch.timeout"] {
		cfg.FetchTimeout = f.FetchTimeout
	}
	if set["fetch.attempts"] {
		cfg.FetchAttempts = f.FetchAttempts
	}
	if set["v"] {
		cfg.Verbose = f.Verbose
	}
}

func run(ctx context.Context, cfg app.Config, stdout io.Writer) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	res, err := a.Run(ctx)
	if err != nil {
		return err
	}
	if cfg.Draft {
		_, err = fmt.Fprintln(stdout, res.Text)
		return err
	}
	_, err = fmt.Fprintln(stdout, res.PDFPath)
	return err
}

// exitCode maps the failure kind to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, app.ErrInput):
		return exitInput
	case errors.Is(err, llm.ErrAuth):
		return exitAuth
	case errors.Is(err, llm.ErrGeneration):
		return exitGeneration
	case errors.Is(err, fetch.ErrFetch):
		return exitFetch
	case errors.Is(err, render.ErrRender):
		return exitRender
	default:
		return exitOther
	}
}
