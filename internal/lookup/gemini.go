package lookup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// Gemini asks a Google Gemini model for a definition
type Gemini struct {
	model  string
	client *genai.Client
}

// NewGemini creates a Gemini definer. An empty model uses gemini-2.0-flash.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key not found")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{model: model, client: client}, nil
}

// Name returns the provider name
func (g *Gemini) Name() string { return "gemini" }

// Define requests a one-sentence definition
func (g *Gemini) Define(ctx context.Context, term string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(fmt.Sprintf(definitionPrompt, strings.TrimSpace(term))),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](0.3),
			MaxOutputTokens: 100,
		})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	return cleanDefinition(resp.Text())
}
