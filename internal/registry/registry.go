// Package registry maps action names to their handlers. The action set is
// closed: every binding happens before the gateway accepts its first
// connection, and the registry is frozen afterwards.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/deepgate/deepgate/internal/protocol"
)

// Handler executes one action. It receives the raw, handler-specific data
// payload and is responsible for validating it.
type Handler func(ctx context.Context, data json.RawMessage) (*protocol.Result, error)

// Registry is safe for concurrent dispatch. Registration is append-only and
// must complete before Freeze.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	frozen   bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds an action name to a handler. Duplicate names and
// registration after Freeze are programming errors, reported rather than
// silently overwritten.
func (r *Registry) Register(name string, h Handler) error {
	if name == "" {
		return fmt.Errorf("action name is required")
	}
	if h == nil {
		return fmt.Errorf("handler for %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("registry is frozen, cannot register %q", name)
	}
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("action %q already registered", name)
	}
	r.handlers[name] = h
	return nil
}

// Freeze closes the action set. Called once, after startup wiring.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Actions returns the registered action names in sorted order.
func (r *Registry) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch looks up and invokes the handler for name. An unknown action is
// rejected before any handler-specific validation runs.
func (r *Registry) Dispatch(ctx context.Context, name string, data json.RawMessage) (*protocol.Result, error) {
	r.mu.RLock()
	h, ok := r.handlers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, protocol.E(protocol.KindValidation, "unknown action: %q", name)
	}
	return h(ctx, data)
}
