package app

import "time"

// Config holds runtime configuration for the application.
type Config struct {
	// InputPath is the questionnaire document. It may be empty when answers
	// are collected interactively or an existing recommendation is refined.
	InputPath string
	// OutputDir receives the generated PDF.
	OutputDir string

	// Behavior
	Draft         bool
	Interactive   bool
	ExistingPath  string
	Modifications string

	// LLM
	LLMProvider string
	LLMBaseURL  string
	LLMModel    string
	LLMAPIKey   string

	// Document chrome
	Copyright string
	Author    string

	// Image fetching
	FetchTimeout  time.Duration
	FetchAttempts int
	UserAgent     string

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool

	Verbose bool
}

// Defaults applied by ApplyDefaults.
const (
	DefaultOutputDir = "."
	DefaultUserAgent = "fypadvisor/1.0"
)

// ApplyDefaults fills fields left unset by flags, environment and config
// file.
func (c *Config) ApplyDefaults() {
	if c == nil {
		return
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.LLMProvider == "" {
		c.LLMProvider = "gemini"
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 30 * time.Second
	}
	if c.FetchAttempts == 0 {
		c.FetchAttempts = 1
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
}
