package retrieval

import "github.com/poiesic/switchboard/core"

// Monitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results.
type Monitor interface {
	Start(query string)
	AfterVectorSearch(hits []core.ScoredChunk)
	AfterLexicalFallback(matches []*core.Chunk)
	AfterDedupe(before, after int)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterVectorSearch(_ []core.ScoredChunk) {}
func (n *noopMonitor) AfterLexicalFallback(_ []*core.Chunk)   {}
func (n *noopMonitor) AfterDedupe(_, _ int)                   {}
func (n *noopMonitor) Finish(_ *Result)                       {}
