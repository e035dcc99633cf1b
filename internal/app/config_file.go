package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/nexovate/fypadvisor/internal/llm"
)

// FileConfig represents the single-file configuration schema.
// Nested sections map naturally to the dotted flag names.
type FileConfig struct {
	Output struct {
		Dir string `yaml:"dir" json:"dir"`
	} `yaml:"out" json:"out"`

	LLM struct {
		Provider string `yaml:"provider" json:"provider"`
		BaseURL  string `yaml:"base" json:"base"`
		Model    string `yaml:"model" json:"model"`
		APIKey   string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Fetch struct {
		Timeout   time.Duration `yaml:"timeout" json:"timeout"`
		Attempts  int           `yaml:"attempts" json:"attempts"`
		UserAgent string        `yaml:"userAgent" json:"userAgent"`
	} `yaml:"fetch" json:"fetch"`

	Document struct {
		Copyright string `yaml:"copyright" json:"copyright"`
		Author    string `yaml:"author" json:"author"`
	} `yaml:"document" json:"document"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
	} `yaml:"cache" json:"cache"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset/zero in cfg.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, v string) {
		if *dst == "" && v != "" {
			*dst = v
		}
	}
	setString(&cfg.OutputDir, fc.Output.Dir)
	setString(&cfg.LLMProvider, fc.LLM.Provider)
	setString(&cfg.LLMBaseURL, fc.LLM.BaseURL)
	setString(&cfg.LLMModel, fc.LLM.Model)
	setString(&cfg.LLMAPIKey, fc.LLM.APIKey)
	setString(&cfg.UserAgent, fc.Fetch.UserAgent)
	setString(&cfg.Copyright, fc.Document.Copyright)
	setString(&cfg.Author, fc.Document.Author)
	setString(&cfg.CacheDir, fc.Cache.Dir)

	if cfg.FetchTimeout == 0 && fc.Fetch.Timeout > 0 {
		cfg.FetchTimeout = fc.Fetch.Timeout
	}
	if cfg.FetchAttempts == 0 && fc.Fetch.Attempts > 0 {
		cfg.FetchAttempts = fc.Fetch.Attempts
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig checks the settings that can be judged before any input is
// read. Every failure wraps ErrInput.
func ValidateConfig(cfg Config) error {
	refining := strings.TrimSpace(cfg.ExistingPath) != ""
	modifying := strings.TrimSpace(cfg.Modifications) != ""
	if refining != modifying {
		return fmt.Errorf("%w: -existing and -modify must be given together", ErrInput)
	}
	if strings.TrimSpace(cfg.InputPath) == "" && !cfg.Interactive && !refining {
		return fmt.Errorf("%w: an input document is required (or use -interactive)", ErrInput)
	}
	if strings.TrimSpace(cfg.InputPath) != "" && cfg.Interactive {
		return fmt.Errorf("%w: -interactive cannot be combined with an input document", ErrInput)
	}
	if strings.TrimSpace(cfg.OutputDir) == "" && !cfg.Draft {
		return fmt.Errorf("%w: output directory is required", ErrInput)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "", llm.ProviderGemini, llm.ProviderOpenAI:
	default:
		return fmt.Errorf("%w: unsupported llm provider %q", ErrInput, cfg.LLMProvider)
	}
	if cfg.FetchTimeout < 0 || cfg.CacheMaxAge < 0 || cfg.FetchAttempts < 0 {
		return fmt.Errorf("%w: negative durations or attempts are not allowed", ErrInput)
	}
	return nil
}
