package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect is a reactive side effect that reruns when its dependencies change.
// The effect body runs immediately on creation; any signal or memo read
// during execution becomes a dependency. The body may return a Cleanup that
// runs before the next rerun and on Stop.
type Effect struct {
	id uint64

	// fn is the effect body.
	fn func() Cleanup

	// cleanup is the cleanup from the last run.
	cleanup Cleanup

	// sources are the signals/memos this effect depends on.
	sources   []*signalBase
	sourcesMu sync.Mutex

	// running guards against re-entrant runs from dependency writes made
	// inside the body.
	running atomic.Bool

	// stopped marks the effect as disposed.
	stopped atomic.Bool
}

// NewEffect creates and immediately runs an effect.
//
// Example:
//
//	eff := NewEffect(func() Cleanup {
//	    log.Printf("back flag: %v", isBack.Get())
//	    return nil
//	})
//	defer eff.Stop()
func NewEffect(fn func() Cleanup) *Effect {
	e := &Effect{
		id: nextID(),
		fn: fn,
	}
	e.run()
	return e
}

// MarkDirty reruns the effect. Implements the Listener interface.
// Reruns are synchronous: the write that invalidated a dependency observes
// the effect's side effects before returning.
func (e *Effect) MarkDirty() {
	if e.stopped.Load() {
		return
	}
	e.run()
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Stop disposes the effect: runs the pending cleanup and unsubscribes from
// all sources. Safe to call more than once.
func (e *Effect) Stop() {
	if e.stopped.Swap(true) {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}

// run executes the effect body, rebuilding its dependency set.
func (e *Effect) run() {
	if e.running.Swap(true) {
		return
	}
	defer e.running.Store(false)

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()

	old := setCurrentListener(e)
	e.cleanup = e.fn()
	setCurrentListener(old)
}

// addSource records a dependency. Implements sourceTracker.
func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

var _ sourceTracker = (*Effect)(nil)
