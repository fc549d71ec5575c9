package reactive

// ReadSignal is a read-only view of a Signal. Handing one out lets a
// component expose reactive state without giving callers the ability to
// write it.
type ReadSignal[T any] struct {
	s *Signal[T]
}

// ReadOnly returns a read-only view of the signal.
func (s *Signal[T]) ReadOnly() ReadSignal[T] {
	return ReadSignal[T]{s: s}
}

// Get returns the current value and subscribes the current listener.
func (r ReadSignal[T]) Get() T {
	return r.s.Get()
}

// Peek returns the current value without subscribing.
func (r ReadSignal[T]) Peek() T {
	return r.s.Peek()
}

// ID returns the underlying signal's identifier.
func (r ReadSignal[T]) ID() uint64 {
	return r.s.ID()
}
