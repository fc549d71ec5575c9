// Package reactive provides the signal graph the navigation core is built on.
//
// A Signal holds a value; reading it inside a tracked context (a memo
// computation or an effect body) subscribes the current listener, so the
// listener is notified when the value changes. A Memo is a lazily cached
// derived value that recomputes only when one of its dependencies changed
// since the last read. An Effect is a side effect that reruns when its
// dependencies change.
//
// Writes with a value equal to the current one (per the configured equality
// function) do not notify subscribers. Peek and Untracked read values without
// establishing a dependency.
package reactive
