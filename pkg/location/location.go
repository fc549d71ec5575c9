// Package location models the navigation core's view of the current URL:
// coordinate-tagged URL values, the reactive Location read-model, navigation
// intents, history state, and anchor-click interception.
package location

import (
	"reflect"

	"github.com/mohe2015/leptos/pkg/params"
	"github.com/mohe2015/leptos/pkg/reactive"
)

// Location is a reactive description of the current URL, one memoized
// projection per part. Each projection recomputes only when the URL signal
// changes; repeated reads without intervening writes return the cached value.
type Location struct {
	// Pathname is the path, without query string or fragment.
	Pathname *reactive.Memo[Tagged[RouterSpace, string]]

	// Search is the raw query string.
	Search *reactive.Memo[Tagged[RouterSpace, string]]

	// Query is the query string parsed into ordered key-value pairs.
	Query *reactive.Memo[Tagged[RouterSpace, params.Map]]

	// Hash is the fragment.
	Hash *reactive.Memo[Tagged[RouterSpace, string]]

	// State is the history state at the top of the stack.
	State *reactive.Signal[State]
}

// NewLocation derives a Location from the authoritative URL signal and the
// history-state signal.
func NewLocation(url *reactive.Signal[Tagged[RouterSpace, Url]], state *reactive.Signal[State]) Location {
	return Location{
		Pathname: reactive.NewMemo(func() Tagged[RouterSpace, string] {
			return Map(url.Get(), func(u Url) string { return u.Path })
		}),
		Search: reactive.NewMemo(func() Tagged[RouterSpace, string] {
			return Map(url.Get(), func(u Url) string { return u.Search })
		}),
		Query: reactive.NewMemo(func() Tagged[RouterSpace, params.Map] {
			return Map(url.Get(), func(u Url) params.Map { return u.SearchParams.Clone() })
		}),
		Hash: reactive.NewMemo(func() Tagged[RouterSpace, string] {
			return Map(url.Get(), func(u Url) string { return u.Hash })
		}),
		State: state,
	}
}

// LocationChange is a navigation intent. It is created per navigation
// request, consumed once by the provider's commit step, then discarded.
type LocationChange struct {
	// To is the target URL in router space.
	To Tagged[RouterSpace, string]

	// Replace overwrites the current history entry instead of pushing;
	// clicking "back" will not return to the current location.
	Replace bool

	// Scroll scrolls to the top of the page at the end of the navigation.
	Scroll bool

	// State is the history state added during navigation.
	State State
}

// NewLocationChange returns an intent with the defaults applied:
// replace and scroll both on.
func NewLocationChange() LocationChange {
	return LocationChange{
		Replace: true,
		Scroll:  true,
	}
}

// State wraps the opaque platform value stored as history state.
// The zero value is "no state".
type State struct {
	value any
}

// NewState wraps a platform state value. nil means no state.
func NewState(value any) State {
	return State{value: value}
}

// Value returns the underlying platform value; nil when empty.
func (s State) Value() any {
	return s.value
}

// IsEmpty reports whether this is the "no state" sentinel.
func (s State) IsEmpty() bool {
	return s.value == nil
}

// Equal compares underlying values: two empty states are equal, an empty and
// a non-empty state are unequal regardless of the non-empty value's content.
func (s State) Equal(other State) bool {
	if s.value == nil || other.value == nil {
		return s.value == nil && other.value == nil
	}
	return reflect.DeepEqual(s.value, other.value)
}
