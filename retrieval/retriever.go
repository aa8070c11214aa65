package retrieval

import (
	"context"
	"log/slog"
	"math"

	"github.com/poiesic/switchboard/core"
)

// Stage names the retrieval stage that produced a result.
type Stage int

const (
	// StageEmpty means neither stage found anything.
	StageEmpty Stage = iota
	// StageVector means vector ranking produced the result.
	StageVector
	// StageLexical means the lexical fallback produced the result.
	StageLexical
)

func (s Stage) String() string {
	switch s {
	case StageVector:
		return "vector"
	case StageLexical:
		return "lexical"
	default:
		return "empty"
	}
}

// Query is a single retrieval request.
type Query struct {
	Text string
	TopK int
}

// Result is the outcome of one retrieval.
type Result struct {
	Query  Query
	Stage  Stage
	Chunks []*core.Chunk      // final, deduplicated, at most TopK
	Hits   []core.ScoredChunk // scored vector hits behind Chunks; nil for lexical results
}

// Empty reports whether the result holds no chunks.
func (r *Result) Empty() bool {
	return len(r.Chunks) == 0
}

// References returns the result as records for answer synthesis.
func (r *Result) References() []core.Reference {
	return references(r.Chunks)
}

// Retriever runs vector ranking, then lexical fallback when ranking is
// empty, and collapses near-duplicates before truncating to topK.
type Retriever struct {
	engine      *Engine
	lexical     *LexicalSearch
	prefixRunes int
	candidates  int
	monitor     Monitor
	logger      *slog.Logger
}

// NewRetriever creates a hybrid retriever.
func NewRetriever(engine *Engine, lexical *LexicalSearch, opts ...Option) (*Retriever, error) {
	if engine == nil {
		return nil, ErrEngineRequired
	}
	if lexical == nil {
		return nil, ErrLexicalRequired
	}
	s := defaultSettings()
	if err := s.apply(opts); err != nil {
		return nil, err
	}
	return &Retriever{
		engine:      engine,
		lexical:     lexical,
		prefixRunes: s.prefixRunes,
		candidates:  s.candidates,
		monitor:     s.monitor,
		logger:      s.logger.With("component", "retriever"),
	}, nil
}

// Retrieve answers q. The vector stage runs exactly once; the lexical stage
// runs only if it returned nothing. Errors mean the corpus is unreachable.
func (r *Retriever) Retrieve(ctx context.Context, q Query) (*Result, error) {
	return r.RetrieveWithMonitor(ctx, q, nil)
}

// RetrieveWithMonitor is Retrieve with an extra per-call monitor.
// The monitor receives callbacks in addition to the one set with WithMonitor.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, q Query, monitor Monitor) (*Result, error) {
	monitors := multiMonitor{r.monitor}
	if monitor != nil {
		monitors = append(monitors, monitor)
	}
	monitors.Start(q.Text)

	result := &Result{Query: q, Chunks: []*core.Chunk{}}
	if q.TopK <= 0 {
		monitors.Finish(result)
		return result, nil
	}

	hits, err := r.engine.Rank(ctx, q.Text, r.candidateLimit())
	if err != nil {
		return nil, err
	}
	monitors.AfterVectorSearch(hits)

	if len(hits) > 0 {
		before := len(hits)
		hits = Dedupe(hits, r.prefixRunes, func(h core.ScoredChunk) string { return h.Chunk.Body() })
		monitors.AfterDedupe(before, len(hits))
		if len(hits) > q.TopK {
			hits = hits[:q.TopK]
		}
		result.Stage = StageVector
		result.Hits = hits
		for _, h := range hits {
			result.Chunks = append(result.Chunks, h.Chunk)
		}
	} else {
		matches, err := r.lexical.Candidates(ctx, q.Text, r.candidates)
		if err != nil {
			return nil, err
		}
		monitors.AfterLexicalFallback(matches)

		before := len(matches)
		matches = Dedupe(matches, r.prefixRunes, (*core.Chunk).Body)
		monitors.AfterDedupe(before, len(matches))
		if len(matches) > q.TopK {
			matches = matches[:q.TopK]
		}
		if len(matches) > 0 {
			result.Stage = StageLexical
			result.Chunks = matches
		}
	}

	r.logger.Debug("retrieval complete", "query", q.Text, "stage", result.Stage, "results", len(result.Chunks))
	monitors.Finish(result)
	return result, nil
}

func (r *Retriever) candidateLimit() int {
	if r.candidates > 0 {
		return r.candidates
	}
	return math.MaxInt
}

type multiMonitor []Monitor

func (m multiMonitor) Start(query string) {
	for _, mon := range m {
		mon.Start(query)
	}
}

func (m multiMonitor) AfterVectorSearch(hits []core.ScoredChunk) {
	for _, mon := range m {
		mon.AfterVectorSearch(hits)
	}
}

func (m multiMonitor) AfterLexicalFallback(matches []*core.Chunk) {
	for _, mon := range m {
		mon.AfterLexicalFallback(matches)
	}
}

func (m multiMonitor) AfterDedupe(before, after int) {
	for _, mon := range m {
		mon.AfterDedupe(before, after)
	}
}

func (m multiMonitor) Finish(result *Result) {
	for _, mon := range m {
		mon.Finish(result)
	}
}
