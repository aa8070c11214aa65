package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/poiesic/switchboard/router"
)

// Tool produces raw output for a query.
type Tool interface {
	Invoke(ctx context.Context, query string) (any, error)
}

// ToolFunc adapts a function to the Tool interface.
type ToolFunc func(ctx context.Context, query string) (any, error)

// Invoke calls f.
func (f ToolFunc) Invoke(ctx context.Context, query string) (any, error) {
	return f(ctx, query)
}

// Registry maps capabilities to tools.
type Registry struct {
	mu    sync.RWMutex
	tools map[router.Capability]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[router.Capability]Tool)}
}

// Register binds tool to capability, replacing any previous binding.
func (r *Registry) Register(capability router.Capability, tool Tool) error {
	if !capability.Resolved() {
		return fmt.Errorf("%w: cannot register %s", ErrToolNotRegistered, capability)
	}
	if tool == nil {
		return fmt.Errorf("%w: nil tool for %s", ErrToolNotRegistered, capability)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[capability] = tool
	return nil
}

// Get returns the tool for capability.
func (r *Registry) Get(capability router.Capability) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[capability]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotRegistered, capability)
	}
	return tool, nil
}

// Invoke runs the tool registered for capability.
func (r *Registry) Invoke(ctx context.Context, capability router.Capability, query string) (any, error) {
	tool, err := r.Get(capability)
	if err != nil {
		return nil, err
	}
	return tool.Invoke(ctx, query)
}
