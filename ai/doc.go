// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides abstractions for the AI services Switchboard consumes.
//
// Two capabilities are treated as black boxes:
//
//   - Embedder: converts text to a fixed-dimension vector
//   - LanguageModel: produces a completion from a system and user message
//
// AIProvider bundles both so they share configuration and lifecycle.
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible APIs through langchaingo
//   - ai/mock: test doubles for unit tests without external services
//
// Public constructors in ai/openai return interface types. Mock constructors
// return concrete types so tests can inject behavior and inspect calls:
//
//	model := mock.NewMockLanguageModel()
//	model.CompleteFunc = func(ctx context.Context, system, user string, temp float64) (string, error) {
//	    return "Service Offerings", nil
//	}
//	count := model.CallCount()
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithHost("https://api.openai.com/v1"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "What services do you offer?")
//	answer, err := provider.LanguageModel().Complete(ctx, system, query, 0.7)
package ai
