package reactive

// Batch groups multiple signal updates into a single notification phase.
// All updates within the batch function are collected, deduplicated by
// listener ID, and the affected listeners are notified once when the
// outermost batch completes.
//
// Batches can be nested; notifications only fire when the outermost one ends.
//
// Example:
//
//	Batch(func() {
//	    url.Set(next)
//	    isBack.Set(false)
//	})
func Batch(fn func()) {
	incrementBatchDepth()

	defer func() {
		if decrementBatchDepth() {
			processPendingUpdates()
		}
	}()

	fn()
}

// processPendingUpdates deduplicates and notifies all pending listeners.
func processPendingUpdates() {
	updates := drainPendingUpdates()
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	for _, listener := range updates {
		id := listener.ID()
		if seen[id] {
			continue
		}
		seen[id] = true
		listener.MarkDirty()
	}
}

// Untracked runs fn without tracking signal reads as dependencies.
// Useful when a tracked context needs to read a signal it is about to
// overwrite, without becoming a consumer of it.
//
// For a single signal read, Peek is more direct.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}
