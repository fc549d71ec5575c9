// Package platform defines the seam between the navigation core and the
// browser. Providers talk to a Window; in production that is a bridge
// session driving a real browser tab, in tests it is the in-memory Fake.
package platform

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mohe2015/leptos/pkg/location"
)

// Snapshot is a point-in-time read of the browser's location. Fields mirror
// the platform's Location object: Search includes the leading "?" and Hash
// the leading "#" when non-empty.
type Snapshot struct {
	Origin   string
	Pathname string
	Search   string
	Hash     string
	Href     string
}

// ParseSnapshot parses an absolute href into a Snapshot.
func ParseSnapshot(href string) (Snapshot, error) {
	u, err := url.Parse(href)
	if err != nil {
		return Snapshot{}, fmt.Errorf("invalid href %q: %w", href, err)
	}

	search := ""
	if u.RawQuery != "" {
		search = "?" + u.RawQuery
	}

	// The browser reports location.hash verbatim, nested "#" included, so
	// slice it off the href rather than re-encode the parsed fragment.
	hash := ""
	if i := strings.Index(href, "#"); i >= 0 && i < len(href)-1 {
		hash = href[i:]
	}

	return Snapshot{
		Origin:   u.Scheme + "://" + u.Host,
		Pathname: u.EscapedPath(),
		Search:   search,
		Hash:     hash,
		Href:     href,
	}, nil
}

// ResolveHref resolves ref against an absolute base href, keeping ref's
// fragment verbatim the way the browser does (URL serialization would
// percent-encode a "#" inside it).
func ResolveHref(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("corrupt base href %q: %w", base, err)
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", ref, err)
	}
	resolved := baseURL.ResolveReference(refURL).String()

	if i := strings.Index(ref, "#"); i >= 0 {
		if j := strings.Index(resolved, "#"); j >= 0 {
			resolved = resolved[:j]
		}
		resolved += ref[i:]
	}
	return resolved, nil
}

// Window is the navigation core's view of a browser tab.
//
// Event subscriptions registered through OnPopstate and OnClick live for the
// remaining lifetime of the window; there is no unsubscribe, matching the
// browser contract the providers are written against.
type Window interface {
	// Location reads the live platform location.
	Location() (Snapshot, error)

	// Origin reads the document origin.
	Origin() (string, error)

	// HistoryState reads the state of the current history entry; nil when
	// none was set.
	HistoryState() any

	// PushState appends a history entry with the given state and URL.
	PushState(state any, url string) error

	// ReplaceState overwrites the current history entry.
	ReplaceState(state any, url string) error

	// OnPopstate subscribes to back/forward traversal events.
	OnPopstate(fn func())

	// OnClick subscribes a capture-phase click listener.
	OnClick(fn func(*location.AnchorEvent))

	// ScrollTo scrolls the viewport to the given coordinates.
	ScrollTo(x, y float64)

	// ScrollIntoView scrolls the element with the given id into view,
	// reporting whether the element was found.
	ScrollIntoView(id string) bool

	// RequestAnimationFrame defers fn by one animation-frame tick.
	RequestAnimationFrame(fn func())

	// SetHref performs a hard navigation (full page load).
	SetHref(href string) error
}
