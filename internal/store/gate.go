package store

import (
	"context"
	"sync"
)

// ReadyGate is a resolve-once handoff between the asynchronous remote store
// initialization and the callers that need it. It replaces the old
// poll-with-fixed-delay startup race: main resolves the gate exactly once
// (with either a connected store or the connection error) and every caller
// awaits the same resolution.
type ReadyGate struct {
	once sync.Once
	done chan struct{}
	st   Store
	err  error
}

// NewReadyGate returns an unresolved gate.
func NewReadyGate() *ReadyGate {
	return &ReadyGate{done: make(chan struct{})}
}

// Resolve records the initialization outcome. Calls after the first are
// ignored.
func (g *ReadyGate) Resolve(st Store, err error) {
	g.once.Do(func() {
		g.st = st
		g.err = err
		close(g.done)
	})
}

// Await blocks until the gate resolves or ctx expires.
func (g *ReadyGate) Await(ctx context.Context) (Store, error) {
	select {
	case <-g.done:
		return g.st, g.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
