// Package metrics exports routing, retrieval and answer counters in the
// Prometheus exposition format.
//
// A Recorder plugs into the agent as an Observer and into the retriever as
// a Monitor:
//
//	rec := metrics.NewRecorder()
//	retriever, _ := retrieval.NewRetriever(engine, lexical, retrieval.WithMonitor(rec))
//	a, _ := agent.New(r, registry, s, agent.WithObserver(rec))
//	...
//	rec.WriteTextfile("/var/lib/node_exporter/switchboard.prom")
package metrics

import (
	"net/http"
	"time"

	"github.com/poiesic/switchboard/agent"
	"github.com/poiesic/switchboard/core"
	"github.com/poiesic/switchboard/indexing"
	"github.com/poiesic/switchboard/retrieval"
	"github.com/poiesic/switchboard/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "switchboard"

// unresolvedTool labels routes that named no tool.
const unresolvedTool = "none"

// Recorder collects switchboard metrics on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	routes    *prometheus.CounterVec
	outcomes  *prometheus.CounterVec
	stages    *prometheus.CounterVec
	duration  prometheus.Histogram
	dedupeCut prometheus.Counter
	indexed   *prometheus.CounterVec
}

var (
	_ agent.Observer    = (*Recorder)(nil)
	_ retrieval.Monitor = (*Recorder)(nil)
)

// Option configures a Recorder.
type Option func(*Recorder)

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(r *Recorder) {
		r.registry.MustRegister(collectors.NewGoCollector())
		r.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		routes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routes_total",
			Help:      "Queries routed, by selected tool.",
		}, []string{"tool"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_total",
			Help:      "Exchanges completed, by outcome.",
		}, []string{"outcome"}),
		stages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_stage_total",
			Help:      "Retrievals, by the stage that produced the result.",
		}, []string{"stage"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "exchange_duration_seconds",
			Help:      "Time to answer one query.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		dedupeCut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_duplicates_dropped_total",
			Help:      "Retrieved chunks dropped as near duplicates.",
		}),
		indexed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "indexed_chunks_total",
			Help:      "Chunks processed by the embedding backfill, by result.",
		}, []string{"result"}),
	}
	r.registry.MustRegister(r.routes, r.outcomes, r.stages, r.duration, r.dedupeCut, r.indexed)

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler returns an HTTP handler for scraping.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes all metrics to path in the text exposition format,
// for collection by a node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// RouteSelected counts the routed tool.
func (r *Recorder) RouteSelected(route router.Route) {
	tool := unresolvedTool
	if route.Resolved() {
		tool = route.Tool.Name
	}
	r.routes.WithLabelValues(tool).Inc()
}

// ExchangeCompleted counts the outcome and its latency.
func (r *Recorder) ExchangeCompleted(exchange *agent.Exchange, elapsed time.Duration) {
	if exchange == nil {
		return
	}
	r.outcomes.WithLabelValues(exchange.Outcome.String()).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// ObserveIndexing counts the chunks of one backfill run.
func (r *Recorder) ObserveIndexing(report indexing.Report) {
	r.indexed.WithLabelValues("embedded").Add(float64(report.Embedded))
	r.indexed.WithLabelValues("failed").Add(float64(report.Failed))
}

func (r *Recorder) Start(_ string)                         {}
func (r *Recorder) AfterVectorSearch(_ []core.ScoredChunk) {}
func (r *Recorder) AfterLexicalFallback(_ []*core.Chunk)   {}

// AfterDedupe counts dropped duplicates.
func (r *Recorder) AfterDedupe(before, after int) {
	if before > after {
		r.dedupeCut.Add(float64(before - after))
	}
}

// Finish counts the stage that produced result.
func (r *Recorder) Finish(result *retrieval.Result) {
	if result == nil {
		return
	}
	r.stages.WithLabelValues(result.Stage.String()).Inc()
}
