package agent

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/switchboard/assembler"
	"github.com/poiesic/switchboard/router"
	"github.com/poiesic/switchboard/synth"
	"github.com/poiesic/switchboard/tools"
)

// Outcome classifies a finished exchange.
type Outcome = synth.Outcome

// Exchange outcomes.
const (
	OutcomeAnswer   = synth.OutcomeAnswer
	OutcomeReferral = synth.OutcomeReferral
	OutcomeApology  = synth.OutcomeApology
	OutcomeNoSource = synth.OutcomeNoSource
)

// Exchange records one query and everything produced while answering it.
type Exchange struct {
	Query      string
	Route      router.Route
	ToolOutput any
	Context    string
	Answer     string
	Outcome    Outcome
}

// Observer is notified as exchanges progress.
type Observer interface {
	RouteSelected(route router.Route)
	ExchangeCompleted(exchange *Exchange, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) RouteSelected(router.Route)                 {}
func (noopObserver) ExchangeCompleted(*Exchange, time.Duration) {}

// Agent wires routing, tools, assembly and synthesis together.
// Agent is safe for concurrent use.
type Agent struct {
	router      *router.Router
	registry    *tools.Registry
	assembler   *assembler.Assembler
	synthesizer *synth.Synthesizer
	observer    Observer
	logger      *slog.Logger
}

// Option configures an Agent.
type Option func(*Agent) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// WithObserver installs an exchange observer.
func WithObserver(observer Observer) Option {
	return func(a *Agent) error {
		if observer == nil {
			observer = noopObserver{}
		}
		a.observer = observer
		return nil
	}
}

// WithAssembler replaces the default context assembler.
func WithAssembler(asm *assembler.Assembler) Option {
	return func(a *Agent) error {
		if asm != nil {
			a.assembler = asm
		}
		return nil
	}
}

// New creates an agent.
func New(r *router.Router, registry *tools.Registry, synthesizer *synth.Synthesizer, opts ...Option) (*Agent, error) {
	if r == nil {
		return nil, ErrRouterRequired
	}
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	if synthesizer == nil {
		return nil, ErrSynthesizerRequired
	}

	a := &Agent{
		router:      r,
		registry:    registry,
		assembler:   assembler.New(),
		synthesizer: synthesizer,
		observer:    noopObserver{},
		logger:      slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	a.logger = a.logger.With("component", "agent")

	return a, nil
}

// Route runs only the routing stage.
func (a *Agent) Route(ctx context.Context, query string) router.Route {
	return a.router.Select(ctx, query)
}

// Answer runs every stage for query. The returned error is non-nil only when
// the corpus is unreachable; all other failures degrade to a fixed message.
func (a *Agent) Answer(ctx context.Context, query string) (*Exchange, error) {
	start := time.Now()
	ex := &Exchange{Query: query}
	messages := a.synthesizer.Messages()

	// ROUTE
	ex.Route = a.router.Select(ctx, query)
	a.observer.RouteSelected(ex.Route)
	if !ex.Route.Resolved() {
		return a.finish(ex, messages.NoSource, OutcomeNoSource, start), nil
	}

	// RETRIEVE
	var err error
	ex.ToolOutput, err = a.registry.Invoke(ctx, ex.Route.Capability, query)
	if errors.Is(err, tools.ErrToolNotRegistered) {
		a.logger.Error("selected tool is not registered", "tool", ex.Route.Tool.Name, "err", err)
		return a.finish(ex, messages.NoSource, OutcomeNoSource, start), nil
	}
	if err != nil {
		a.logger.Error("tool failed", "tool", ex.Route.Tool.Name, "err", err)
		return ex, err
	}

	// ASSEMBLE
	ex.Context, err = a.assembler.Assemble(ex.ToolOutput)
	if err != nil {
		a.logger.Error("error assembling context", "tool", ex.Route.Tool.Name, "err", err)
		return a.finish(ex, messages.Apology, OutcomeApology, start), nil
	}

	// SYNTHESIZE
	answer := a.synthesizer.Synthesize(ctx, query, ex.Context)
	return a.finish(ex, answer.Text, answer.Outcome, start), nil
}

func (a *Agent) finish(ex *Exchange, text string, outcome Outcome, start time.Time) *Exchange {
	ex.Answer = text
	ex.Outcome = outcome
	elapsed := time.Since(start)
	a.logger.Info("exchange complete",
		"tool", ex.Route.Tool.Name,
		"outcome", outcome,
		"elapsed", elapsed)
	a.observer.ExchangeCompleted(ex, elapsed)
	return ex
}
