package lookup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const definitionPrompt = "Give a short dictionary definition of the English word '%s' suitable for a vocabulary learner. " +
	"Respond with only the definition in one sentence, without repeating the word. " +
	"If it is not an English word, respond with exactly: UNKNOWN"

// OpenAI asks an OpenAI chat model for a definition
type OpenAI struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAI creates an OpenAI definer. An empty model uses gpt-4o-mini.
func NewOpenAI(apiKey, model string) *OpenAI {
	return newOpenAIWithConfig(apiKey, model, openai.DefaultConfig(apiKey))
}

func newOpenAIWithConfig(apiKey, model string, cfg openai.ClientConfig) *OpenAI {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClientWithConfig(cfg),
	}
}

// Name returns the provider name
func (o *OpenAI) Name() string { return "openai" }

// Define requests a one-sentence definition
func (o *OpenAI) Define(ctx context.Context, term string) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not found")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(definitionPrompt, strings.TrimSpace(term)),
			},
		},
		MaxTokens:   100,
		Temperature: 0.3,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoDefinition
	}
	return cleanDefinition(resp.Choices[0].Message.Content)
}

// cleanDefinition trims a model answer and maps the UNKNOWN marker
func cleanDefinition(answer string) (string, error) {
	def := strings.Trim(strings.TrimSpace(answer), `"`)
	if def == "" || strings.EqualFold(def, "UNKNOWN") {
		return "", ErrNoDefinition
	}
	return def, nil
}
