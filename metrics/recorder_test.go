package metrics

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/switchboard/agent"
	"github.com/poiesic/switchboard/ai/mock"
	"github.com/poiesic/switchboard/core"
	"github.com/poiesic/switchboard/indexing"
	"github.com/poiesic/switchboard/retrieval"
	"github.com/poiesic/switchboard/router"
	"github.com/poiesic/switchboard/storage/badger"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Observer(t *testing.T) {
	rec := NewRecorder()

	rec.RouteSelected(router.Route{
		Capability: router.BlogReferences,
		Tool:       router.ToolDescriptor{Name: "Company References (SQLite)", Capability: router.BlogReferences},
	})
	rec.RouteSelected(router.Route{})
	rec.RouteSelected(router.Route{})

	rec.ExchangeCompleted(&agent.Exchange{Outcome: agent.OutcomeReferral}, 120*time.Millisecond)
	rec.ExchangeCompleted(&agent.Exchange{Outcome: agent.OutcomeNoSource}, time.Millisecond)
	rec.ExchangeCompleted(nil, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.routes.WithLabelValues("Company References (SQLite)")))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.routes.WithLabelValues(unresolvedTool)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.outcomes.WithLabelValues("referral")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.outcomes.WithLabelValues("no_source")))

	families, err := rec.Registry().Gather()
	require.NoError(t, err)
	var observed uint64
	for _, mf := range families {
		if mf.GetName() == "switchboard_exchange_duration_seconds" {
			observed = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, uint64(2), observed)
}

func TestRecorder_Monitor(t *testing.T) {
	ctx := context.Background()
	corpus, backend, err := badger.NewMemoryCorpus()
	require.NoError(t, err)
	t.Cleanup(func() {
		corpus.Close()
		backend.Close()
	})

	body := "Our client feedback on the bakery rebrand was glowing."
	_, err = corpus.AddChunks(ctx,
		&core.Chunk{Title: "one", Content: body},
		&core.Chunk{Title: "two", Content: body},
	)
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	embedder.Dimensions = 8
	engine, err := retrieval.NewEngine(corpus, embedder, retrieval.WithDimension(8))
	require.NoError(t, err)
	lexical, err := retrieval.NewLexicalSearch(corpus)
	require.NoError(t, err)

	rec := NewRecorder()
	retriever, err := retrieval.NewRetriever(engine, lexical, retrieval.WithMonitor(rec))
	require.NoError(t, err)

	// No chunk has a vector so the lexical stage answers
	result, err := retriever.Retrieve(ctx, retrieval.Query{Text: "bakery", TopK: 3})
	require.NoError(t, err)
	assert.Equal(t, retrieval.StageLexical, result.Stage)
	assert.Len(t, result.Chunks, 1)

	_, err = retriever.Retrieve(ctx, retrieval.Query{Text: "plumbing", TopK: 3})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.stages.WithLabelValues("lexical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.stages.WithLabelValues("empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.dedupeCut))
}

func TestRecorder_Export(t *testing.T) {
	rec := NewRecorder(WithRuntimeCollectors())
	rec.ObserveIndexing(indexing.Report{Embedded: 7, Failed: 2})
	assert.Equal(t, 7.0, testutil.ToFloat64(rec.indexed.WithLabelValues("embedded")))

	path := filepath.Join(t.TempDir(), "switchboard.prom")
	require.NoError(t, rec.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `switchboard_indexed_chunks_total{result="failed"} 2`)
	assert.Contains(t, string(data), "go_goroutines")

	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "switchboard_indexed_chunks_total")
}
