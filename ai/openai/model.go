package openai

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/switchboard/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrNoChoices is returned when the service answers without any completion.
var ErrNoChoices = errors.New("openai: response contained no choices")

// LanguageModel implements ai.LanguageModel using OpenAI-compatible chat APIs.
type LanguageModel struct {
	client llms.Model
	logger *slog.Logger
}

// newLanguageModel is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newLanguageModel(config *ai.Config) (*LanguageModel, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.CompletionHost),
		openai.WithToken(config.APIToken),
		openai.WithModel(config.CompletionModel),
	)
	if err != nil {
		return nil, err
	}

	return &LanguageModel{
		client: client,
		logger: slog.Default().With("component", "openai-model"),
	}, nil
}

// NewLanguageModel creates a completion client using the provided configuration.
//
// Returns ai.LanguageModel interface to enforce abstraction.
func NewLanguageModel(config *ai.Config) (ai.LanguageModel, error) {
	return newLanguageModel(config)
}

// Complete sends the system and user messages and returns the first choice.
func (m *LanguageModel) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(user)},
		},
	}

	response, err := m.client.GenerateContent(ctx, content, llms.WithTemperature(temperature))
	if err != nil {
		m.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		m.logger.Warn("no choices returned from model")
		return "", ErrNoChoices
	}

	return response.Choices[0].Content, nil
}
