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


// Package switchboard wires a company information assistant together from
// a configuration: the article corpus, the AI provider, the tool router,
// the tools and the answer synthesizer.
//
//	cfg, _ := config.Load("switchboard.yaml")
//	sb, err := switchboard.Open(cfg)
//	if err != nil {
//	    return err
//	}
//	defer sb.Close()
//	exchange, err := sb.Ask(ctx, "Who founded the company?")
package switchboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/switchboard/agent"
	"github.com/poiesic/switchboard/ai"
	"github.com/poiesic/switchboard/ai/openai"
	"github.com/poiesic/switchboard/config"
	"github.com/poiesic/switchboard/indexing"
	"github.com/poiesic/switchboard/metrics"
	"github.com/poiesic/switchboard/retrieval"
	"github.com/poiesic/switchboard/router"
	"github.com/poiesic/switchboard/storage"
	"github.com/poiesic/switchboard/storage/badger"
	"github.com/poiesic/switchboard/storage/sqlite"
	"github.com/poiesic/switchboard/synth"
	"github.com/poiesic/switchboard/tools"
)

// ErrConfigRequired is returned by Open when no configuration is given.
var ErrConfigRequired = errors.New("configuration is required")

// Switchboard owns every component built from one configuration.
type Switchboard struct {
	config    *config.Config
	backend   *badger.Backend // nil for the sqlite backend
	corpus    storage.CorpusRepository
	provider  ai.AIProvider
	retriever *retrieval.Retriever
	router    *router.Router
	registry  *tools.Registry
	services  *tools.ServiceCatalog
	agent     *agent.Agent
	metrics   *metrics.Recorder
	logger    *slog.Logger
}

// Option configures Open.
type Option func(*options)

type options struct {
	provider ai.AIProvider
	logger   *slog.Logger
}

// WithProvider supplies the AI provider instead of building an
// OpenAI-compatible one from the configuration.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Open validates cfg and builds the assistant. The caller must Close it.
func Open(cfg *config.Config, opts ...Option) (*Switchboard, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sb := &Switchboard{
		config:   cfg,
		metrics:  metrics.NewRecorder(),
		registry: tools.NewRegistry(),
		logger:   o.logger.With("component", "switchboard"),
	}
	if err := sb.openCorpus(); err != nil {
		return nil, err
	}

	sb.provider = o.provider
	if sb.provider == nil {
		provider, err := openai.NewProvider(&cfg.AI)
		if err != nil {
			sb.closeCorpus()
			return nil, fmt.Errorf("failed to create AI provider: %w", err)
		}
		sb.provider = provider
	}

	if err := sb.build(o.logger); err != nil {
		sb.Close()
		return nil, err
	}
	return sb, nil
}

func (sb *Switchboard) openCorpus() error {
	switch sb.config.Corpus.Backend {
	case config.BackendSQLite:
		store, err := sqlite.Open(sb.config.Corpus.Path)
		if err != nil {
			return err
		}
		sb.corpus = store
	default:
		backend, err := badger.OpenBackend(sb.config.Corpus.Path, false)
		if err != nil {
			return err
		}
		corpus, err := badger.NewCorpusRepository(backend)
		if err != nil {
			backend.Close()
			return err
		}
		sb.backend = backend
		sb.corpus = corpus
	}
	return nil
}

func (sb *Switchboard) build(logger *slog.Logger) error {
	cfg := sb.config
	org := cfg.Organization

	retrievalOpts := []retrieval.Option{
		retrieval.WithLogger(logger),
		retrieval.WithDimension(cfg.Retrieval.Dimension),
		retrieval.WithPrefixRunes(cfg.Retrieval.PrefixRunes),
		retrieval.WithCandidates(cfg.Retrieval.Candidates),
		retrieval.WithMonitor(sb.metrics),
	}
	engine, err := retrieval.NewEngine(sb.corpus, sb.provider.Embedder(), retrievalOpts...)
	if err != nil {
		return err
	}
	lexical, err := retrieval.NewLexicalSearch(sb.corpus, retrievalOpts...)
	if err != nil {
		return err
	}
	sb.retriever, err = retrieval.NewRetriever(engine, lexical, retrievalOpts...)
	if err != nil {
		return err
	}

	sb.router, err = router.NewRouter(sb.provider.LanguageModel(), router.DefaultCatalog(org.Name),
		router.WithLogger(logger),
		router.WithTemperature(cfg.Router.Temperature))
	if err != nil {
		return err
	}

	if err := sb.registerTools(); err != nil {
		return err
	}

	synthesizer, err := synth.NewSynthesizer(sb.provider.LanguageModel(),
		synth.WithLogger(logger),
		synth.WithOrganization(org.Name, org.Website),
		synth.WithPolicy(cfg.Policy()),
		synth.WithMessages(cfg.Messages()),
		synth.WithTemperature(cfg.Synthesis.Temperature))
	if err != nil {
		return err
	}

	sb.agent, err = agent.New(sb.router, sb.registry, synthesizer,
		agent.WithLogger(logger),
		agent.WithObserver(sb.metrics))
	return err
}

// registerTools registers the blog tool and every tool whose data file is
// configured.
func (sb *Switchboard) registerTools() error {
	t := sb.config.Tools

	blog, err := tools.NewBlogReferences(sb.retriever, tools.WithTopK(sb.config.Retrieval.TopK))
	if err != nil {
		return err
	}
	if err := sb.registry.Register(router.BlogReferences, blog); err != nil {
		return err
	}

	if t.TeamFile != "" {
		founder, err := tools.NewFounderInfo(t.TeamFile)
		if err != nil {
			return err
		}
		if err := sb.registry.Register(router.FounderInfo, founder); err != nil {
			return err
		}
	}

	if t.JobsFile != "" {
		board, err := tools.NewFileJobBoard(t.JobsFile, t.CareersURL)
		if err != nil {
			return err
		}
		jobs, err := tools.NewJobListings(board)
		if err != nil {
			return err
		}
		if err := sb.registry.Register(router.JobListings, jobs); err != nil {
			return err
		}
	}

	if t.ServicesFile != "" {
		sb.services, err = tools.LoadServiceCatalog(t.ServicesFile)
		if err != nil {
			return err
		}
		offering, err := tools.NewServiceOffering(sb.services)
		if err != nil {
			return err
		}
		if err := sb.registry.Register(router.ServiceOffering, offering); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes metrics and releases the provider and the corpus.
func (sb *Switchboard) Close() error {
	var errs []error
	if err := sb.FlushMetrics(); err != nil {
		sb.logger.Error("error writing metrics", "err", err)
		errs = append(errs, err)
	}
	if sb.provider != nil {
		if err := sb.provider.Close(); err != nil {
			sb.logger.Error("error closing AI provider", "err", err)
		}
	}
	if err := sb.closeCorpus(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (sb *Switchboard) closeCorpus() error {
	if err := sb.corpus.Close(); err != nil && !errors.Is(err, storage.ErrStorageClosed) {
		sb.logger.Error("error closing corpus", "err", err)
		return err
	}
	if sb.backend != nil {
		if err := sb.backend.Close(); err != nil {
			sb.logger.Error("error closing backend storage", "err", err)
			return err
		}
	}
	return nil
}

// FlushMetrics writes the metrics textfile when one is configured.
func (sb *Switchboard) FlushMetrics() error {
	path := sb.config.Metrics.Textfile
	if path == "" {
		return nil
	}
	return sb.metrics.WriteTextfile(path)
}

// Ask answers one query.
func (sb *Switchboard) Ask(ctx context.Context, query string) (*agent.Exchange, error) {
	return sb.agent.Answer(ctx, query)
}

// Route returns the routing decision for query without running a tool.
func (sb *Switchboard) Route(ctx context.Context, query string) router.Route {
	return sb.agent.Route(ctx, query)
}

// Search runs article retrieval for query.
func (sb *Switchboard) Search(ctx context.Context, query string, topK int) (*retrieval.Result, error) {
	return sb.retriever.Retrieve(ctx, retrieval.Query{Text: query, TopK: topK})
}

// NewLoader returns an article loader whose keyword vocabulary includes
// the configured service names.
func (sb *Switchboard) NewLoader() (*indexing.Loader, error) {
	var names []string
	if sb.services != nil {
		names = sb.services.Names()
	}
	return indexing.NewLoader(sb.corpus, indexing.StandardKeywords(names))
}

// NewIndexer returns an embedding backfill over the corpus.
func (sb *Switchboard) NewIndexer(force bool, opts ...indexing.Option) (*indexing.Indexer, error) {
	opts = append([]indexing.Option{indexing.WithConfig(sb.config.IndexerConfig(force))}, opts...)
	return indexing.NewIndexer(sb.corpus, sb.provider.Embedder(), opts...)
}

// Corpus returns the article store.
func (sb *Switchboard) Corpus() storage.CorpusRepository {
	return sb.corpus
}

// Retriever returns the article retriever.
func (sb *Switchboard) Retriever() *retrieval.Retriever {
	return sb.retriever
}

// Agent returns the request pipeline.
func (sb *Switchboard) Agent() *agent.Agent {
	return sb.agent
}

// Metrics returns the metrics recorder.
func (sb *Switchboard) Metrics() *metrics.Recorder {
	return sb.metrics
}
