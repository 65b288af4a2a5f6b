package testutil

import "sync"

// FixedTraceIDs returns predetermined trace ids in order, then repeats the
// last one. It satisfies cli.TraceIDGenerator.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedTraceIDs struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedTraceIDs creates a generator over ids. With no ids it returns
// "test-trace".
func NewFixedTraceIDs(ids ...string) *FixedTraceIDs {
	if len(ids) == 0 {
		ids = []string{"test-trace"}
	}
	return &FixedTraceIDs{ids: ids}
}

// Generate returns the next id.
func (g *FixedTraceIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.ids[g.idx]
	if g.idx < len(g.ids)-1 {
		g.idx++
	}
	return id
}
