// Package collab provides the gateway's interface to its external AI
// collaborator. The gateway treats the collaborator as an opaque remote
// call that returns text or fails; it never inspects or retries content.
package collab

import (
	"context"
	"errors"
	"fmt"
)

// Common collaborator errors.
var (
	ErrNoCredentials = errors.New("collaborator credentials not configured")
	ErrUpstream      = errors.New("collaborator upstream error")
)

// Capability names the collaborator operations the gateway delegates.
const (
	CapabilityAnalyze  = "analyze"
	CapabilityGenerate = "generate"
	CapabilityTests    = "tests"
	CapabilityRefactor = "refactor"
)

// Collaborator sends a capability invocation to an external AI backend and
// returns its text result.
type Collaborator interface {
	// Name identifies the backing provider (e.g. "anthropic", "openai").
	Name() string

	// Invoke sends the prompts for one capability and returns the text
	// result. capability is opaque to the provider; it exists for
	// logging and metrics.
	Invoke(ctx context.Context, capability, systemPrompt, userPrompt string) (string, error)

	// IsConfigured reports whether the provider has usable credentials.
	IsConfigured() bool
}

// Config selects and parameterizes a provider.
type Config struct {
	Provider    string  // "anthropic" (default) or "openai"
	Model       string  // provider default when empty
	MaxTokens   int     // response length cap
	Temperature float64 // sampling temperature
	APIKey      string  // overrides environment lookup
	BaseURL     string  // endpoint override for proxies/self-hosted
}

// New builds the provider named in cfg.
func New(cfg Config) (Collaborator, error) {
	switch cfg.Provider {
	case "", "anthropic":
		return NewAnthropic(cfg), nil
	case "openai":
		return NewOpenAI(cfg)
	default:
		return nil, fmt.Errorf("unknown collaborator provider: %q", cfg.Provider)
	}
}
