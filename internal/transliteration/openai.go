package transliteration

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIGenerator generates text with the OpenAI chat completion API
type OpenAIGenerator struct {
	client      *openai.Client
	temperature float32
}

// NewOpenAIGenerator creates an OpenAI generator
func NewOpenAIGenerator(apiKey string, temperature float32) *OpenAIGenerator {
	return &OpenAIGenerator{
		client:      openai.NewClient(apiKey),
		temperature: temperature,
	}
}

// Generate implements Generator
func (g *OpenAIGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: g.temperature,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	// An empty choice list is treated like an empty text response
	if len(resp.Choices) == 0 {
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}

// Name implements Generator
func (g *OpenAIGenerator) Name() string {
	return ProviderOpenAI
}
