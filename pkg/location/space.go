package location

// The navigation core works in two coordinate systems. Browser-space values
// reflect the literal document location; router-space values are the logical
// URL the route table sees, always absolute and base-relative. In hash
// routing the two differ structurally (the logical path lives inside the
// fragment), so confusing them is a real bug class, not a style concern.
//
// Tagged combines a value with a zero-sized space marker so the compiler
// rejects accidental mixing. Crossing between spaces is always an explicit
// ChangeSpace call: the caller asserts the value has actually been rewritten
// into the target coordinate system. There is no runtime cost and no runtime
// check.

// Space is the marker constraint for URL coordinate systems.
type Space interface {
	space()
}

// BrowserSpace marks values in the browser's literal coordinate system.
type BrowserSpace struct{}

func (BrowserSpace) space() {}

// RouterSpace marks values in the router's logical coordinate system.
type RouterSpace struct{}

func (RouterSpace) space() {}

// Tagged is a value of type T tagged with the coordinate system S.
// The tag occupies no storage; Tagged[S, T] is exactly a T at runtime.
type Tagged[S Space, T any] struct {
	value T
}

// NewTagged constructs a tagged value in the coordinate system S.
func NewTagged[S Space, T any](value T) Tagged[S, T] {
	return Tagged[S, T]{value: value}
}

// Forget returns the inner value. The caller must name the expected tag,
// which documents at the call site which coordinate system the raw value is
// being read in.
func (t Tagged[S, T]) Forget(S) T {
	return t.value
}

// Map applies a pure transform to the inner value, preserving the tag.
func Map[S Space, T, Q any](t Tagged[S, T], fn func(T) Q) Tagged[S, Q] {
	return Tagged[S, Q]{value: fn(t.value)}
}

// ChangeSpace consumes a tagged value and reassigns its coordinate system.
// The from tag must be named so the conversion reads as a deliberate
// assertion, never an incidental cast.
func ChangeSpace[To Space, From Space, T any](t Tagged[From, T], _ From) Tagged[To, T] {
	return Tagged[To, T]{value: t.value}
}
