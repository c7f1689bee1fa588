package transliteration

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiGenerator generates text with the Gemini API
type GeminiGenerator struct {
	client      *genai.Client
	temperature float32
}

// NewGeminiGenerator creates a Gemini generator. No request is made until Generate.
func NewGeminiGenerator(ctx context.Context, apiKey string, temperature float32) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{
		client:      client,
		temperature: temperature,
	}, nil
}

// Generate implements Generator
func (g *GeminiGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	return resp.Text(), nil
}

// Name implements Generator
func (g *GeminiGenerator) Name() string {
	return ProviderGemini
}
