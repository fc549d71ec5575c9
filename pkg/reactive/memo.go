package reactive

import (
	"sync"
	"sync/atomic"
)

// Memo is a cached computation that automatically tracks its dependencies.
//
// Without subscribers a memo is lazy: it only computes when Get or Peek is
// called, and multiple dependency changes before a read recompute once. Once
// something subscribes, an invalidation recomputes eagerly and the memo only
// notifies downstream when the new value differs (per WithEquals, or
// defaultEquals), so unrelated upstream writes do not fan out.
//
// Memos can themselves be subscribed to, so chains of derived values work.
type Memo[T any] struct {
	base signalBase

	// compute produces the memo's value.
	compute func() T

	// value is the cached computed value.
	value   T
	valueMu sync.RWMutex

	// valid reports whether the cached value is current.
	valid atomic.Bool

	// sources are the signals/memos this memo depends on.
	sources   []*signalBase
	sourcesMu sync.Mutex

	// equal determines whether a recomputation changed the value.
	equal func(T, T) bool

	// computing prevents infinite recursion on circular dependencies.
	computing atomic.Bool
}

// NewMemo creates a memo with the given computation function.
// The computation runs lazily on first Get.
func NewMemo[T any](compute func() T) *Memo[T] {
	return &Memo[T]{
		base: signalBase{
			id: nextID(),
		},
		compute: compute,
	}
}

// Get returns the memo's value, recomputing if invalid, and subscribes the
// current listener.
func (m *Memo[T]) Get() T {
	if listener := getCurrentListener(); listener != nil {
		m.base.subscribe(listener)
		if src, ok := listener.(sourceTracker); ok {
			src.addSource(&m.base)
		}
	}

	if !m.valid.Load() {
		m.recompute()
	}

	m.valueMu.RLock()
	value := m.value
	m.valueMu.RUnlock()
	return value
}

// Peek returns the memo's value without subscribing.
// Still recomputes if the cached value is invalid.
func (m *Memo[T]) Peek() T {
	if !m.valid.Load() {
		m.recompute()
	}
	m.valueMu.RLock()
	value := m.value
	m.valueMu.RUnlock()
	return value
}

// MarkDirty invalidates the memo. If anyone is subscribed downstream, the
// memo recomputes immediately and notifies only when the result actually
// changed, so an upstream write that leaves this projection equal stops here.
// Implements the Listener interface.
func (m *Memo[T]) MarkDirty() {
	// CAS keeps repeated invalidations from recomputing more than once.
	if !m.valid.CompareAndSwap(true, false) {
		return
	}

	// No subscribers means nothing to suppress; stay lazy and recompute
	// on the next read.
	if !m.base.hasSubscribers() {
		return
	}

	m.valueMu.RLock()
	oldValue := m.value
	m.valueMu.RUnlock()

	m.recompute()

	m.valueMu.RLock()
	newValue := m.value
	m.valueMu.RUnlock()

	if !m.equals(oldValue, newValue) {
		m.base.notifySubscribers()
	}
}

// ID returns the unique identifier for this memo.
func (m *Memo[T]) ID() uint64 {
	return m.base.id
}

// addSource records a dependency. Implements sourceTracker.
func (m *Memo[T]) addSource(source *signalBase) {
	m.sourcesMu.Lock()
	defer m.sourcesMu.Unlock()

	for _, s := range m.sources {
		if s == source {
			return
		}
	}
	m.sources = append(m.sources, source)
}

// WithEquals configures a custom equality function.
func (m *Memo[T]) WithEquals(fn func(T, T) bool) *Memo[T] {
	m.equal = fn
	return m
}

// recompute runs the computation and updates the cached value.
func (m *Memo[T]) recompute() {
	if m.computing.Swap(true) {
		// Circular dependency; keep the stale value.
		return
	}
	defer m.computing.Store(false)

	// Rebuild the dependency set from scratch each run.
	m.sourcesMu.Lock()
	for _, source := range m.sources {
		source.unsubscribe(m)
	}
	m.sources = m.sources[:0]
	m.sourcesMu.Unlock()

	old := setCurrentListener(m)
	newValue := m.compute()
	setCurrentListener(old)

	m.valueMu.Lock()
	m.value = newValue
	m.valueMu.Unlock()

	m.valid.Store(true)
}

func (m *Memo[T]) equals(a, b T) bool {
	if m.equal != nil {
		return m.equal(a, b)
	}
	return defaultEquals(a, b)
}

var _ sourceTracker = (*Memo[int])(nil)
