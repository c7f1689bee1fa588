package models

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"codeberg.org/snonux/odialipi/internal/transliteration"
)

// Lister handles listing available models
type Lister struct {
	provider string
	apiKey   string
	out      io.Writer
}

// NewLister creates a new model lister
func NewLister(provider, apiKey string) *Lister {
	if provider == "" {
		provider = transliteration.ProviderGemini
	}
	return &Lister{
		provider: provider,
		apiKey:   apiKey,
		out:      os.Stdout,
	}
}

// ListAvailableModels prints the text generation models of the provider
func (l *Lister) ListAvailableModels(ctx context.Context) error {
	if l.apiKey == "" {
		return fmt.Errorf("API key not found. Set GEMINI_API_KEY (or OPENAI_API_KEY for --provider openai) or configure it in ~/.odialipi.yaml")
	}

	var names []string
	var err error

	switch l.provider {
	case transliteration.ProviderGemini:
		names, err = l.geminiModels(ctx)
	case transliteration.ProviderOpenAI:
		names, err = l.openAIModels(ctx)
	default:
		return fmt.Errorf("unknown provider: %s", l.provider)
	}
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	sort.Strings(names)

	fmt.Fprintf(l.out, "Available %s text models:\n", l.provider)
	if len(names) == 0 {
		fmt.Fprintln(l.out, "  No text models found")
		return nil
	}
	def := transliteration.DefaultModel(l.provider)
	for _, name := range names {
		marker := ""
		if name == def {
			marker = " (default)"
		}
		fmt.Fprintf(l.out, "  %s%s\n", name, marker)
	}

	return nil
}

func (l *Lister) geminiModels(ctx context.Context) ([]string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  l.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	var names []string
	for model, err := range client.Models.All(ctx) {
		if err != nil {
			return nil, err
		}
		if !slices.Contains(model.SupportedActions, "generateContent") {
			continue
		}
		names = append(names, strings.TrimPrefix(model.Name, "models/"))
	}
	return names, nil
}

func (l *Lister) openAIModels(ctx context.Context) ([]string, error) {
	client := openai.NewClient(l.apiKey)

	models, err := client.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, model := range models.Models {
		if strings.HasPrefix(model.ID, "gpt") {
			names = append(names, model.ID)
		}
	}
	return names, nil
}
