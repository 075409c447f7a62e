package collab

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const openAIDefaultModel = "gpt-4o-mini"

// OpenAI invokes capabilities through an OpenAI-compatible chat endpoint.
// The original backend this gateway replaces ran against OpenAI.
type OpenAI struct {
	llm    llms.Model
	cfg    Config
	apiKey string
}

// NewOpenAI creates the OpenAI-backed collaborator. An empty APIKey falls
// back to OPENAI_API_KEY.
func NewOpenAI(cfg Config) (*OpenAI, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}

	// The client constructor rejects an empty token outright. Build it with
	// a placeholder so an uncredentialed gateway still starts; Invoke
	// refuses to call out until real credentials exist.
	token := apiKey
	if token == "" {
		token = "unconfigured"
	}

	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}

	return &OpenAI{llm: llm, cfg: cfg, apiKey: apiKey}, nil
}

func (o *OpenAI) Name() string {
	return "openai"
}

func (o *OpenAI) IsConfigured() bool {
	return o.apiKey != ""
}

// Invoke sends one capability request and returns the model's text.
func (o *OpenAI) Invoke(ctx context.Context, capability, systemPrompt, userPrompt string) (string, error) {
	if !o.IsConfigured() {
		return "", fmt.Errorf("%w: missing OPENAI_API_KEY", ErrNoCredentials)
	}

	var messages []llms.MessageContent
	if systemPrompt != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userPrompt))

	callOpts := []llms.CallOption{}
	if o.cfg.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(o.cfg.MaxTokens))
	}
	if o.cfg.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(o.cfg.Temperature))
	}

	resp, err := o.llm.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", fmt.Errorf("%w: %s %s: %v", ErrUpstream, o.Name(), capability, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %s %s: empty response", ErrUpstream, o.Name(), capability)
	}
	return resp.Choices[0].Content, nil
}
