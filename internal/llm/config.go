package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures the completion backend.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig also serves OpenAI-compatible endpoints through BaseURL.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string // defaults to the SDK's Gemini API endpoint
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string // defaults to https://openrouter.ai/api/v1
}

// RetryConfig configures backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the configuration used when nothing overrides it.
// Every provider has a fixed default model so question generation is
// reproducible across deployments.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderOpenAI,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "meta-llama/llama-3.1-8b-instruct"},
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     4 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ApplyEnv overlays MATHQUIZ_* environment variables onto cfg.
func ApplyEnv(cfg Config) Config {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	set(&cfg.Provider, "MATHQUIZ_LLM_PROVIDER")

	set(&cfg.Anthropic.APIKey, "MATHQUIZ_ANTHROPIC_API_KEY")
	set(&cfg.Anthropic.Model, "MATHQUIZ_ANTHROPIC_MODEL")

	set(&cfg.OpenAI.APIKey, "MATHQUIZ_OPENAI_API_KEY")
	set(&cfg.OpenAI.Model, "MATHQUIZ_OPENAI_MODEL")
	set(&cfg.OpenAI.BaseURL, "MATHQUIZ_OPENAI_BASE_URL")

	set(&cfg.Gemini.APIKey, "MATHQUIZ_GEMINI_API_KEY")
	set(&cfg.Gemini.Model, "MATHQUIZ_GEMINI_MODEL")
	set(&cfg.Gemini.BaseURL, "MATHQUIZ_GEMINI_BASE_URL")

	set(&cfg.OpenRouter.APIKey, "MATHQUIZ_OPENROUTER_API_KEY")
	set(&cfg.OpenRouter.Model, "MATHQUIZ_OPENROUTER_MODEL")

	return cfg
}

// Discover fills in an API key from the vendors' standard environment
// variables when cfg has none for its provider. When cfg has no usable key
// at all, the first vendor variable found (OpenAI, Anthropic, Gemini,
// OpenRouter) picks the provider. It reports whether a key was found.
func Discover(cfg Config) (Config, bool) {
	if cfg.Provider == ProviderMock || cfg.Validate() == nil {
		return cfg, true
	}

	vendors := []struct {
		provider string
		env      string
		key      *string
	}{
		{ProviderOpenAI, "OPENAI_API_KEY", &cfg.OpenAI.APIKey},
		{ProviderAnthropic, "ANTHROPIC_API_KEY", &cfg.Anthropic.APIKey},
		{ProviderGemini, "GEMINI_API_KEY", &cfg.Gemini.APIKey},
		{ProviderOpenRouter, "OPENROUTER_API_KEY", &cfg.OpenRouter.APIKey},
	}

	// The configured provider wins when its vendor key is present.
	for _, v := range vendors {
		if v.provider == cfg.Provider {
			if k := os.Getenv(v.env); k != "" {
				*v.key = k
				return cfg, true
			}
		}
	}
	for _, v := range vendors {
		if k := os.Getenv(v.env); k != "" {
			cfg.Provider = v.provider
			*v.key = k
			return cfg, true
		}
	}
	return cfg, false
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("MATHQUIZ_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("MATHQUIZ_OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("MATHQUIZ_GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("MATHQUIZ_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

// SetModel overrides the model of the selected provider. Empty is a no-op.
func (c *Config) SetModel(model string) {
	if model == "" {
		return
	}
	switch c.Provider {
	case ProviderAnthropic:
		c.Anthropic.Model = model
	case ProviderOpenAI:
		c.OpenAI.Model = model
	case ProviderGemini:
		c.Gemini.Model = model
	case ProviderOpenRouter:
		c.OpenRouter.Model = model
	}
}
