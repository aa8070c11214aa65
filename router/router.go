package router

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/switchboard/ai"
)

// DefaultTemperature keeps classification close to deterministic.
const DefaultTemperature = 0.2

// Route is the outcome of one routing decision.
type Route struct {
	Capability Capability
	Tool       ToolDescriptor // zero when Unresolved
	Reply      string         // raw model reply, empty on model failure
}

// Resolved reports whether the route names a tool.
func (r Route) Resolved() bool {
	return r.Capability.Resolved()
}

// Router maps queries onto catalog tools using a language model.
type Router struct {
	model       ai.LanguageModel
	catalog     *Catalog
	prompt      string
	temperature float64
	logger      *slog.Logger
}

// Option configures a Router.
type Option func(*Router) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithTemperature sets the sampling temperature of the classification call.
// Default is DefaultTemperature.
func WithTemperature(temperature float64) Option {
	return func(r *Router) error {
		r.temperature = temperature
		return nil
	}
}

// NewRouter creates a router over catalog.
func NewRouter(model ai.LanguageModel, catalog *Catalog, opts ...Option) (*Router, error) {
	if model == nil {
		return nil, ErrModelRequired
	}
	if catalog == nil {
		return nil, ErrCatalogRequired
	}

	r := &Router{
		model:       model,
		catalog:     catalog,
		prompt:      BuildPrompt(catalog),
		temperature: DefaultTemperature,
		logger:      slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "router")

	return r, nil
}

// Catalog returns the router's catalog.
func (r *Router) Catalog() *Catalog {
	return r.catalog
}

// Select classifies query. It never fails: a model error or an unknown
// reply yields an Unresolved route.
func (r *Router) Select(ctx context.Context, query string) Route {
	reply, err := r.model.Complete(ctx, r.prompt, userPrompt(query), r.temperature)
	if err != nil {
		r.logger.Error("tool selection failed", "err", err)
		return Route{Capability: Unresolved}
	}

	route := r.Resolve(reply)
	if !route.Resolved() {
		r.logger.Warn("invalid tool selection", "reply", reply)
		return route
	}
	r.logger.Debug("tool selected", "tool", route.Tool.Name)
	return route
}

// Resolve maps a raw model reply onto the catalog.
func (r *Router) Resolve(reply string) Route {
	route := Route{Capability: Unresolved, Reply: reply}
	if t, ok := r.catalog.Lookup(Normalize(reply)); ok {
		route.Capability = t.Capability
		route.Tool = t
	}
	return route
}

// Normalize trims surrounding whitespace, then removes one pair of matching
// surrounding quote characters. The quoted text itself is not trimmed.
func Normalize(reply string) string {
	s := strings.TrimSpace(reply)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && strings.IndexByte("\"'`", first) >= 0 {
			return s[1 : len(s)-1]
		}
	}
	return s
}
