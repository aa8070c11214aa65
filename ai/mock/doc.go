// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.LanguageModel
// and ai.AIProvider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Fixed answers
//	model := mock.NewMockLanguageModelWithResponse("Jobs Scraper")
//
//	// Custom behavior injection
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
//	// Check calls
//	count := model.CallCount()
//	last := model.Calls()[0].Temperature
//
// # Default Behavior
//
//   - MockEmbedder: returns deterministic, strictly positive vectors based on text hash
//   - MockLanguageModel: returns the configured Response (empty by default)
//   - MockProvider: aggregates mock embedder and model
package mock
