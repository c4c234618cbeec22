// Package llm provides centralized LLM configuration and client abstractions.
// The interview core only sees the Client interface; provider and credential details stay here.
package llm

import "time"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for short classification prompts such as the completion review
	TierLite ModelTier = "lite"
	// TierStandard is for conversational turns: the next interview question
	TierStandard ModelTier = "standard"
	// TierAdvanced is for structured extraction over the whole transcript
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderGroq is Groq's OpenAI-compatible chat completions API
	ProviderGroq Provider = "groq"
	// ProviderOpenAI is any other OpenAI-compatible chat completions endpoint
	ProviderOpenAI Provider = "openai"
)

// Default endpoints for the OpenAI-compatible providers.
const (
	DefaultGroqBaseURL   = "https://api.groq.com/openai/v1"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	BaseURL  string        // Only used by OpenAI-compatible providers
	Timeout  time.Duration // Per-request timeout, including the full stream
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Timeout: 2 * time.Minute,
	}
}

// DefaultGroqConfig returns the default Groq configuration. The reasoning model
// emits <think> blocks, which callers strip with SanitizeReasoning.
func DefaultGroqConfig() *Config {
	return &Config{
		Provider: ProviderGroq,
		Models: map[ModelTier]string{
			TierLite:     "llama-3.1-8b-instant",
			TierStandard: "deepseek-r1-distill-llama-70b",
			TierAdvanced: "deepseek-r1-distill-llama-70b",
		},
		BaseURL: DefaultGroqBaseURL,
		Timeout: 2 * time.Minute,
	}
}

// ConfigForProvider returns the default configuration for a provider name.
// Unknown providers fall back to DefaultConfig.
func ConfigForProvider(provider Provider) *Config {
	switch provider {
	case ProviderGroq:
		return DefaultGroqConfig()
	case ProviderOpenAI:
		cfg := DefaultGroqConfig()
		cfg.Provider = ProviderOpenAI
		cfg.BaseURL = DefaultOpenAIBaseURL
		cfg.Models = map[ModelTier]string{
			TierLite:     "gpt-4o-mini",
			TierStandard: "gpt-4o-mini",
			TierAdvanced: "gpt-4o",
		}
		return cfg
	default:
		return DefaultConfig()
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string),
		BaseURL:  c.BaseURL,
		Timeout:  c.Timeout,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
