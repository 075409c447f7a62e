package collab

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicDefaultModel = "claude-sonnet-4-5-20250929"

// Anthropic invokes capabilities through the Anthropic Messages API.
type Anthropic struct {
	client anthropic.Client
	cfg    Config
	apiKey string
}

// NewAnthropic creates the Anthropic-backed collaborator. An empty APIKey
// falls back to ANTHROPIC_API_KEY.
func NewAnthropic(cfg Config) *Anthropic {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	if cfg.Model == "" {
		cfg.Model = anthropicDefaultModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 4096
	}

	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Anthropic{
		client: anthropic.NewClient(opts...),
		cfg:    cfg,
		apiKey: apiKey,
	}
}

func (a *Anthropic) Name() string {
	return "anthropic"
}

func (a *Anthropic) IsConfigured() bool {
	return a.apiKey != ""
}

// Invoke sends one capability request and returns the model's text.
func (a *Anthropic) Invoke(ctx context.Context, capability, systemPrompt, userPrompt string) (string, error) {
	if !a.IsConfigured() {
		return "", fmt.Errorf("%w: missing ANTHROPIC_API_KEY", ErrNoCredentials)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.cfg.Model),
		MaxTokens: int64(a.cfg.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}
	if a.cfg.Temperature > 0 {
		params.Temperature = anthropic.Float(a.cfg.Temperature)
	}

	message, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %s %s: %v", ErrUpstream, a.Name(), capability, err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(text.String()), nil
}
