package synth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/switchboard/ai"
)

// DefaultTemperature is the sampling temperature for answers.
const DefaultTemperature = 0.7

const systemPromptTemplate = `You are an AI assistant for %[1]s.
Your role is to provide clear, accurate, and professional responses based on the retrieved company information.
Use the following structured data as context to generate informative answers.

Context:
%[3]s

If the requested information is unavailable, direct users to %[1]s's official website %[2]s.
Keep responses professional, well-structured, and concise.`

// SystemPrompt renders the answer instructions around contextText.
func SystemPrompt(organization, website, contextText string) string {
	return fmt.Sprintf(systemPromptTemplate, organization, website, contextText)
}

// Answer is the synthesized reply.
type Answer struct {
	Text    string
	Outcome Outcome
	Raw     string // model reply before the policy was applied
}

// Synthesizer turns a query and context into a final answer.
type Synthesizer struct {
	model        ai.LanguageModel
	organization string
	website      string
	policy       Policy
	messages     Messages
	temperature  float64
	logger       *slog.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synthesizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithOrganization sets the organization name and website used in prompts
// and default messages.
func WithOrganization(name, website string) Option {
	return func(s *Synthesizer) error {
		s.organization = name
		s.website = website
		return nil
	}
}

// WithPolicy sets the confidence policy.
// Default is DefaultPolicy().
func WithPolicy(policy Policy) Option {
	return func(s *Synthesizer) error {
		if err := policy.Validate(); err != nil {
			return err
		}
		s.policy = policy
		return nil
	}
}

// WithMessages overrides the fixed replies. Empty fields keep their defaults.
func WithMessages(messages Messages) Option {
	return func(s *Synthesizer) error {
		s.messages = messages
		return nil
	}
}

// WithTemperature sets the answer sampling temperature.
// Default is DefaultTemperature.
func WithTemperature(temperature float64) Option {
	return func(s *Synthesizer) error {
		s.temperature = temperature
		return nil
	}
}

// NewSynthesizer creates an answer synthesizer.
func NewSynthesizer(model ai.LanguageModel, opts ...Option) (*Synthesizer, error) {
	if model == nil {
		return nil, ErrModelRequired
	}

	s := &Synthesizer{
		model:        model,
		organization: "our company",
		website:      "",
		policy:       DefaultPolicy(),
		temperature:  DefaultTemperature,
		logger:       slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.messages = s.messages.withDefaults(DefaultMessages(s.organization, s.website))
	s.logger = s.logger.With("component", "synthesizer")

	return s, nil
}

// Messages returns the fixed replies in effect.
func (s *Synthesizer) Messages() Messages {
	return s.messages
}

// Synthesize answers query from contextText. It never fails: model errors
// become the apology and unconfident replies become the referral.
func (s *Synthesizer) Synthesize(ctx context.Context, query, contextText string) Answer {
	system := SystemPrompt(s.organization, s.website, contextText)
	reply, err := s.model.Complete(ctx, system, query, s.temperature)
	if err != nil {
		s.logger.Error("error generating answer", "err", err)
		return Answer{Text: s.messages.Apology, Outcome: OutcomeApology}
	}

	if !s.policy.Confident(reply) {
		s.logger.Warn("answer not confident, referring to website", "reply", reply)
		return Answer{Text: s.messages.Referral, Outcome: OutcomeReferral, Raw: reply}
	}
	return Answer{Text: reply, Outcome: OutcomeAnswer, Raw: reply}
}
