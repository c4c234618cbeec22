// Package config loads service configuration from an optional file,
// RESUME_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/resume-interviewer/internal/interview"
	"github.com/jonathan/resume-interviewer/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g. RESUME_SERVER_PORT.
const EnvPrefix = "RESUME"

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig       `mapstructure:"server"`
	LLM       LLMConfig          `mapstructure:"llm"`
	Interview interview.Settings `mapstructure:"interview"`
	Sessions  SessionsConfig     `mapstructure:"sessions"`
	Log       LogConfig          `mapstructure:"log"`
}

// ServerConfig configures the HTTP host.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigin   string        `mapstructure:"allowed_origin"`
}

// LLMConfig selects the generation provider. The API key is never read from
// the config file; it comes from the environment only.
type LLMConfig struct {
	Provider string            `mapstructure:"provider"`
	BaseURL  string            `mapstructure:"base_url"`
	Timeout  time.Duration     `mapstructure:"timeout"`
	Models   map[string]string `mapstructure:"models"` // tier -> model overrides
	APIKey   string            `mapstructure:"-"`
}

// SessionsConfig configures the in-memory session registry.
type SessionsConfig struct {
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Debug bool   `mapstructure:"debug"`
	File  string `mapstructure:"file"`
}

// providerKeys lists the environment variables checked for each provider's
// API key, in order.
var providerKeys = map[llm.Provider][]string{
	llm.ProviderGroq:   {"RESUME_LLM_API_KEY", "GROQ_API_KEY"},
	llm.ProviderGemini: {"RESUME_LLM_API_KEY", "GEMINI_API_KEY"},
	llm.ProviderOpenAI: {"RESUME_LLM_API_KEY", "OPENAI_API_KEY"},
}

// New returns a viper instance with defaults and environment binding applied.
// Callers may bind command flags to it before Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	defaults := interview.DefaultSettings()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.allowed_origin", "*")

	v.SetDefault("llm.provider", string(llm.ProviderGroq))
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", 2*time.Minute)

	v.SetDefault("interview.max_turns", defaults.MaxTurns)
	v.SetDefault("interview.completion_threshold", defaults.CompletionThreshold)
	v.SetDefault("interview.section_ceiling", defaults.SectionCeiling)
	v.SetDefault("interview.min_skills", defaults.MinSkills)
	v.SetDefault("interview.early_finish_after", defaults.EarlyFinishAfter)
	v.SetDefault("interview.review_after_turns", defaults.ReviewAfterTurns)
	v.SetDefault("interview.history_turns", defaults.HistoryTurns)

	v.SetDefault("sessions.idle_timeout", time.Hour)
	v.SetDefault("sessions.cleanup_interval", 10*time.Minute)

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
	v.SetDefault("log.file", "")
}

// Load reads the optional config file at path into v and decodes the result.
// An empty path skips the file; a named file that cannot be read is an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = New()
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	cfg.LLM.APIKey = lookupAPIKey(llm.Provider(cfg.LLM.Provider))

	return &cfg, nil
}

func lookupAPIKey(provider llm.Provider) string {
	for _, key := range providerKeys[provider] {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

// Validate checks that the configuration has usable values. It does not
// require an API key; commands that call the model use RequireAPIKey.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 0 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("config error: 'server.shutdown_timeout' must be non-negative")
	}

	if _, ok := providerKeys[llm.Provider(c.LLM.Provider)]; !ok {
		return fmt.Errorf("config error: unknown llm provider %q", c.LLM.Provider)
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("config error: 'llm.timeout' must be non-negative")
	}
	for tier := range c.LLM.Models {
		switch llm.ModelTier(tier) {
		case llm.TierLite, llm.TierStandard, llm.TierAdvanced:
		default:
			return fmt.Errorf("config error: unknown model tier %q", tier)
		}
	}

	if err := c.Interview.Validate(); err != nil {
		return fmt.Errorf("config error: interview: %w", err)
	}

	if c.Sessions.IdleTimeout < 0 || c.Sessions.CleanupInterval < 0 {
		return fmt.Errorf("config error: session durations must be non-negative")
	}

	return nil
}

// ErrMissingAPIKey is returned by RequireAPIKey when no key is set for the provider.
var ErrMissingAPIKey = errors.New("missing API key")

// RequireAPIKey returns an error naming the environment variables to set
// when the configured provider has no key.
func (c *Config) RequireAPIKey() error {
	if c.LLM.APIKey != "" {
		return nil
	}
	names := providerKeys[llm.Provider(c.LLM.Provider)]
	return fmt.Errorf("%w: set %s", ErrMissingAPIKey, strings.Join(names, " or "))
}

// LLMClientConfig builds the provider configuration with any overrides applied.
func (c *Config) LLMClientConfig() *llm.Config {
	cfg := llm.ConfigForProvider(llm.Provider(c.LLM.Provider))
	if c.LLM.BaseURL != "" {
		cfg.BaseURL = c.LLM.BaseURL
	}
	if c.LLM.Timeout > 0 {
		cfg.Timeout = c.LLM.Timeout
	}
	for tier, model := range c.LLM.Models {
		if model = strings.TrimSpace(model); model != "" {
			cfg = cfg.WithModel(llm.ModelTier(tier), model)
		}
	}
	return cfg
}
