package transliteration

import (
	"context"
	"fmt"
	"time"
)

// Provider names
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Generator defines the interface for text generation providers
type Generator interface {
	// Generate sends prompt to model and returns the raw response text
	Generate(ctx context.Context, model, prompt string) (string, error)

	// Name returns the provider name
	Name() string
}

// Config holds the transliteration client and provider settings
type Config struct {
	Provider    string  // "gemini" or "openai"
	APIKey      string  // Credential for the selected provider
	Model       string  // Empty selects the provider default
	Temperature float32 // Sampling temperature; low values keep output stable

	// Circuit breaker settings
	BreakerThreshold uint32        // Consecutive failures before failing fast
	BreakerCooldown  time.Duration // How long to fail fast before probing again
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:         ProviderGemini,
		Temperature:      0.2,
		BreakerThreshold: 5,
		BreakerCooldown:  30 * time.Second,
	}
}

// DefaultModel returns the model used when none is configured
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	default:
		return "gemini-2.5-flash"
	}
}

// modelOrDefault returns the configured model or the provider default
func (c *Config) modelOrDefault() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel(c.Provider)
}

// NewGenerator creates the appropriate generator based on configuration.
// A missing API key yields ErrConfiguration.
func NewGenerator(ctx context.Context, config *Config) (Generator, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if config.APIKey == "" {
		return nil, ErrConfiguration
	}

	switch config.Provider {
	case ProviderGemini, "":
		return NewGeminiGenerator(ctx, config.APIKey, config.Temperature)

	case ProviderOpenAI:
		return NewOpenAIGenerator(config.APIKey, config.Temperature), nil

	default:
		return nil, fmt.Errorf("unknown provider: %s", config.Provider)
	}
}
