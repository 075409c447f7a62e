package collab

import (
	"context"
	"errors"
	"testing"
)

func TestNew_SelectsProvider(t *testing.T) {
	c, err := New(Config{Provider: "anthropic", APIKey: "test-key"})
	if err != nil {
		t.Fatalf("New(anthropic) error = %v", err)
	}
	if c.Name() != "anthropic" {
		t.Errorf("Name() = %q, want anthropic", c.Name())
	}

	c, err = New(Config{Provider: "openai", APIKey: "test-key"})
	if err != nil {
		t.Fatalf("New(openai) error = %v", err)
	}
	if c.Name() != "openai" {
		t.Errorf("Name() = %q, want openai", c.Name())
	}

	if _, err := New(Config{Provider: "carrier-pigeon"}); err == nil {
		t.Error("New(unknown) should fail")
	}
}

func TestNew_DefaultsToAnthropic(t *testing.T) {
	c, err := New(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Name() != "anthropic" {
		t.Errorf("Name() = %q, want anthropic", c.Name())
	}
}

func TestAnthropic_Unconfigured(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	a := NewAnthropic(Config{})
	if a.IsConfigured() {
		t.Fatal("IsConfigured() = true with no key anywhere")
	}
	_, err := a.Invoke(context.Background(), CapabilityAnalyze, "sys", "user")
	if !errors.Is(err, ErrNoCredentials) {
		t.Errorf("Invoke() error = %v, want ErrNoCredentials", err)
	}
}

func TestAnthropic_ConfiguredFromConfig(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	a := NewAnthropic(Config{APIKey: "explicit"})
	if !a.IsConfigured() {
		t.Error("IsConfigured() = false with explicit key")
	}
}
