package switchboard

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/switchboard/agent"
	"github.com/poiesic/switchboard/ai/mock"
	"github.com/poiesic/switchboard/config"
	"github.com/poiesic/switchboard/core"
	"github.com/poiesic/switchboard/retrieval"
	"github.com/poiesic/switchboard/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articles = `[
  {"title": "Bakery rebrand", "content": "How we refreshed a neighbourhood bakery with new branding.", "summary": "Bakery branding", "source_url": "https://acme.example/bakery"},
  {"title": "Podcast launch", "content": "Launching a weekly podcast for a fintech client.", "summary": "Podcast"}
]`

type fixture struct {
	cfg      *config.Config
	provider *mock.MockProvider
	model    *mock.MockLanguageModel
}

// newFixture routes every query to toolName and answers with answer.
func newFixture(t *testing.T, backend, toolName, answer string) *fixture {
	t.Helper()
	dir := t.TempDir()

	services := filepath.Join(dir, "services.json")
	require.NoError(t, os.WriteFile(services, []byte(`{"services": {"Branding": {}, "Podcasts": {}}}`), 0o644))

	cfg := config.Default()
	cfg.Organization = config.Organization{Name: "Acme", Website: "https://acme.example"}
	cfg.Corpus = config.Corpus{Backend: backend, Path: filepath.Join(dir, "corpus")}
	cfg.Tools.ServicesFile = services
	cfg.Metrics.Textfile = filepath.Join(dir, "switchboard.prom")

	model := mock.NewMockLanguageModel()
	model.CompleteFunc = func(_ context.Context, system, _ string, _ float64) (string, error) {
		if strings.Contains(system, "Respond with ONLY the tool name") {
			return toolName, nil
		}
		return answer, nil
	}
	embedder := mock.NewMockEmbedder()
	embedder.Dimensions = 16

	return &fixture{
		cfg:      cfg,
		provider: mock.NewMockProviderWithServices(embedder, model),
		model:    model,
	}
}

func (f *fixture) open(t *testing.T) *Switchboard {
	t.Helper()
	sb, err := Open(f.cfg, WithProvider(f.provider))
	require.NoError(t, err)
	return sb
}

func TestOpen(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := Open(nil)
		assert.Equal(t, ErrConfigRequired, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := config.Default()
		cfg.Corpus.Backend = "postgres"
		_, err := Open(cfg, WithProvider(mock.NewMockProvider()))
		assert.Error(t, err)
	})

	t.Run("missing services file", func(t *testing.T) {
		f := newFixture(t, config.BackendBadger, "", "")
		f.cfg.Tools.ServicesFile = filepath.Join(t.TempDir(), "missing.json")
		_, err := Open(f.cfg, WithProvider(f.provider))
		assert.Error(t, err)
	})

	for _, backend := range []string{config.BackendBadger, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			f := newFixture(t, backend, "", "")
			sb := f.open(t)
			assert.NotNil(t, sb.Corpus())
			assert.NotNil(t, sb.Retriever())
			assert.NotNil(t, sb.Agent())
			assert.NotNil(t, sb.Metrics())
			require.NoError(t, sb.Close())
			assert.True(t, f.provider.Closed())
			assert.FileExists(t, f.cfg.Metrics.Textfile)
		})
	}
}

func TestSwitchboard_LoadIndexAsk(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, config.BackendBadger, `"Company References (SQLite)"`, "We rebranded a bakery; see the case study.")
	sb := f.open(t)
	defer sb.Close()

	loader, err := sb.NewLoader()
	require.NoError(t, err)
	report, err := loader.Load(ctx, strings.NewReader(articles))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Inserted)

	bakery, err := sb.Corpus().FindByTitle(ctx, "Bakery rebrand")
	require.NoError(t, err)
	assert.Equal(t, []string{"branding"}, bakery.Keywords, "service names feed the keyword vocabulary")

	// Before indexing only the lexical stage can answer
	result, err := sb.Search(ctx, "bakery", 3)
	require.NoError(t, err)
	assert.Equal(t, retrieval.StageLexical, result.Stage)

	ix, err := sb.NewIndexer(false)
	require.NoError(t, err)
	ixReport, err := ix.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, ixReport.Embedded)

	result, err = sb.Search(ctx, "bakery", 1)
	require.NoError(t, err)
	assert.Equal(t, retrieval.StageVector, result.Stage)
	assert.Len(t, result.Chunks, 1)

	route := sb.Route(ctx, "Show me your bakery work")
	assert.Equal(t, router.BlogReferences, route.Capability)

	exchange, err := sb.Ask(ctx, "Show me your bakery work")
	require.NoError(t, err)
	assert.Equal(t, agent.OutcomeAnswer, exchange.Outcome)
	assert.Equal(t, "We rebranded a bakery; see the case study.", exchange.Answer)
	refs, ok := exchange.ToolOutput.([]core.Reference)
	require.True(t, ok)
	assert.Len(t, refs, 2)
}

func TestSwitchboard_Fallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("unregistered tool has no source", func(t *testing.T) {
		f := newFixture(t, config.BackendSQLite, "Founder/Employee Info", "unused")
		sb := f.open(t)
		defer sb.Close()

		exchange, err := sb.Ask(ctx, "Who founded Acme?")
		require.NoError(t, err)
		assert.Equal(t, agent.OutcomeNoSource, exchange.Outcome)
		assert.Equal(t, "I couldn't determine the best source for your query.", exchange.Answer)
	})

	t.Run("services answer below the confidence floor is a referral", func(t *testing.T) {
		f := newFixture(t, config.BackendBadger, "Service Offerings", "I don't know")
		sb := f.open(t)
		defer sb.Close()

		exchange, err := sb.Ask(ctx, "What do you offer?")
		require.NoError(t, err)
		assert.Equal(t, agent.OutcomeReferral, exchange.Outcome)
		assert.Contains(t, exchange.Answer, "[Acme Website](https://acme.example)")
		assert.Contains(t, exchange.Context, `"Branding"`)
	})
}
