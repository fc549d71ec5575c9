// Package params provides the ordered query-parameter container used by the
// navigation core. Keys are unique with last-write-wins semantics, and
// iteration follows insertion order, matching how the browser's
// URLSearchParams presents a query string.
package params

import (
	"net/url"
	"strings"
)

// Pair is a single key-value entry.
type Pair struct {
	Key   string
	Value string
}

// Map is an insertion-order-preserving key-value container.
// The zero value is an empty, usable map. Map is not safe for concurrent
// mutation; the navigation core only shares it read-only inside URL values.
type Map struct {
	pairs []Pair
}

// NewMap creates a Map from the given pairs, applying last-write-wins on
// duplicate keys.
func NewMap(pairs ...Pair) Map {
	var m Map
	for _, p := range pairs {
		m.Insert(p.Key, p.Value)
	}
	return m
}

// Get returns the value for key and whether it is present.
func (m Map) Get(key string) (string, bool) {
	for _, p := range m.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// GetStr returns the value for key, or "" if absent.
func (m Map) GetStr(key string) string {
	v, _ := m.Get(key)
	return v
}

// Insert sets key to value. An existing key keeps its position and takes the
// new value; a new key appends.
func (m *Map) Insert(key, value string) {
	for i, p := range m.pairs {
		if p.Key == key {
			m.pairs[i].Value = value
			return
		}
	}
	m.pairs = append(m.pairs, Pair{Key: key, Value: value})
}

// Remove deletes key, preserving the order of the remaining entries.
// Returns true if the key was present.
func (m *Map) Remove(key string) bool {
	for i, p := range m.pairs {
		if p.Key == key {
			m.pairs = append(m.pairs[:i], m.pairs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of entries.
func (m Map) Len() int {
	return len(m.pairs)
}

// Pairs returns the entries in insertion order. The caller must not mutate
// the returned slice.
func (m Map) Pairs() []Pair {
	return m.pairs
}

// Clone returns a deep copy.
func (m Map) Clone() Map {
	if len(m.pairs) == 0 {
		return Map{}
	}
	pairs := make([]Pair, len(m.pairs))
	copy(pairs, m.pairs)
	return Map{pairs: pairs}
}

// Equal reports whether two maps hold the same entries in the same order.
func (m Map) Equal(other Map) bool {
	if len(m.pairs) != len(other.pairs) {
		return false
	}
	for i, p := range m.pairs {
		if other.pairs[i] != p {
			return false
		}
	}
	return true
}

// Encode renders the map as a query string without the leading "?",
// escaping keys and values.
func (m Map) Encode() string {
	var b strings.Builder
	for i, p := range m.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		if p.Value != "" {
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(p.Value))
		}
	}
	return b.String()
}

// ParseQuery parses a query string into a Map. A leading "?" is accepted and
// ignored. Undecodable components are kept verbatim rather than dropped, so
// a malformed link degrades instead of losing parameters.
func ParseQuery(query string) Map {
	query = strings.TrimPrefix(query, "?")
	var m Map
	if query == "" {
		return m
	}
	for _, part := range strings.Split(query, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		m.Insert(key, value)
	}
	return m
}
