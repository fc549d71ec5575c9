package reactive

import "sync/atomic"

// Listener is anything that can be notified when a dependency changes.
// Memos and effects implement it.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	// For memos this invalidates the cached value; for effects it reruns
	// the effect body.
	MarkDirty()

	// ID returns a unique identifier for this listener, used for
	// deduplication during batch processing.
	ID() uint64
}

// Cleanup is returned by an effect body to release resources.
// It runs before the effect reruns and when the effect is stopped.
type Cleanup func()

// idCounter is the source of unique IDs for all reactive primitives.
var idCounter uint64

// nextID returns the next unique ID. IDs are never reused.
func nextID() uint64 {
	return atomic.AddUint64(&idCounter, 1)
}
