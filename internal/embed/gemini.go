package embed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultEmbeddingModel = "text-embedding-004"
	defaultDimension      = 768
)

// Gemini talks to the Gemini API for embeddings and, optionally, short text
// generation used by the explanation paraphraser.
type Gemini struct {
	client         *genai.Client
	embeddingModel string
	textModel      string
	dimension      int
}

// GeminiConfig configures the Gemini-backed provider.
type GeminiConfig struct {
	APIKey         string
	EmbeddingModel string
	// TextModel is only needed when the explanation paraphraser is enabled.
	TextModel string
	Dimension int
}

// NewGemini creates a provider configured for the Gemini API backend.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.EmbeddingModel)
	if model == "" {
		model = defaultEmbeddingModel
	}

	dimension := cfg.Dimension
	if dimension <= 0 {
		dimension = defaultDimension
	}

	return &Gemini{
		client:         client,
		embeddingModel: model,
		textModel:      strings.TrimSpace(cfg.TextModel),
		dimension:      dimension,
	}, nil
}

// EmbedText returns the embedding vector for the given text.
func (g *Gemini) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if g == nil || g.client == nil {
		return nil, errors.New("gemini provider is not initialized")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("text must not be empty")
	}

	dim := int32(g.dimension)
	cfg := &genai.EmbedContentConfig{OutputDimensionality: &dim}

	resp, err := g.client.Models.EmbedContent(ctx, g.embeddingModel, genai.Text(text), cfg)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, errors.New("gemini api returned empty embedding")
	}

	values := resp.Embeddings[0].Values
	if len(values) != g.dimension {
		return nil, fmt.Errorf("embedding dimension mismatch: want %d, got %d", g.dimension, len(values))
	}

	return values, nil
}

func (g *Gemini) Dimension() int {
	if g == nil {
		return 0
	}
	return g.dimension
}

func (g *Gemini) ModelName() string {
	if g == nil {
		return ""
	}
	return g.embeddingModel
}

// GenerateText sends the prompt to the text model and returns the first
// textual response. Used only by the optional explanation paraphraser.
func (g *Gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini provider is not initialized")
	}
	if g.textModel == "" {
		return "", errors.New("gemini text model is not configured")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.textModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}
