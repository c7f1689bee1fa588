package transliteration

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"codeberg.org/snonux/odialipi/internal"
)

var (
	// ErrConfiguration reports that no API key is available. It is detected
	// before any request and should be shown as a persistent notice.
	ErrConfiguration = errors.New("API key is missing. Set GEMINI_API_KEY or configure it in ~/.odialipi.yaml")

	// ErrTransliteration is returned for every failed request. The cause is
	// logged, never returned.
	ErrTransliteration = errors.New("Failed to transliterate text. Please check your connection or API key.")
)

// Client turns phonetic English text into Odia script through a Generator
type Client struct {
	generator Generator
	model     string
	breaker   *gobreaker.CircuitBreaker
	logger    zerolog.Logger
}

// NewClient creates a transliteration client. A nil generator leaves the
// client unconfigured: every call fails with ErrConfiguration.
func NewClient(generator Generator, config *Config, logger zerolog.Logger) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	threshold := config.BreakerThreshold
	if threshold == 0 {
		threshold = DefaultConfig().BreakerThreshold
	}
	cooldown := config.BreakerCooldown
	if cooldown <= 0 {
		cooldown = DefaultConfig().BreakerCooldown
	}

	c := &Client{
		generator: generator,
		model:     config.modelOrDefault(),
		logger:    logger.With().Str("component", "transliteration").Logger(),
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "transliteration",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A caller abandoning a request says nothing about the service
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})

	return c
}

// CheckConfig reports ErrConfiguration when no provider is configured
func (c *Client) CheckConfig() error {
	if c.generator == nil {
		return ErrConfiguration
	}
	return nil
}

// Model returns the model identifier sent with every request
func (c *Client) Model() string {
	return c.model
}

// Transliterate converts text to Odia script. Whitespace-only text returns
// "" without contacting the service; every other call makes exactly one
// request. Failures are returned as ErrTransliteration.
func (c *Client) Transliterate(ctx context.Context, text string) (string, error) {
	if err := c.CheckConfig(); err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	start := time.Now()
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.generator.Generate(ctx, c.model, BuildPrompt(text))
	})
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("provider", c.generator.Name()).
			Str("model", c.model).
			Str("input", internal.Abbreviate(text, 40)).
			Dur("elapsed", time.Since(start)).
			Msg("Transliteration request failed")
		return "", ErrTransliteration
	}

	result := strings.TrimSpace(out.(string))

	c.logger.Debug().
		Str("provider", c.generator.Name()).
		Str("input", internal.Abbreviate(text, 40)).
		Int("output_len", len(result)).
		Dur("elapsed", time.Since(start)).
		Msg("Transliteration complete")

	return result, nil
}
