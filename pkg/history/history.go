// Package history implements the routing providers: the navigation state
// machines that keep the reactive URL signal, the browser's history entries,
// and the back-detection path stack consistent under asynchronous,
// possibly-cancelled transitions.
//
// Two providers exist. BrowserRouter maps the router's logical URL directly
// onto the browser's path; HashRouter keeps the browser path pinned at "/"
// and folds the logical URL into the fragment. Both run the same
// navigate → ready-to-complete → commit protocol.
package history

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mohe2015/leptos/pkg/location"
	"github.com/mohe2015/leptos/pkg/platform"
	"github.com/mohe2015/leptos/pkg/reactive"
)

// Provider is the navigation surface the route matcher and application code
// consume.
type Provider interface {
	// URL is the authoritative router-space URL signal. It updates
	// optimistically when a navigation starts, before the browser URL moves.
	URL() *reactive.Signal[location.Tagged[location.RouterSpace, location.Url]]

	// Location derives the reactive read-model from the URL signal.
	Location() location.Location

	// Init registers the click-interception and popstate listeners on the
	// window for the remaining lifetime of the provider. One active
	// provider per window.
	Init(base string)

	// NavigateTo starts a programmatic client-side navigation to a
	// router-space target.
	NavigateTo(to string, change location.LocationChange)

	// ReadyToComplete signals that route components and data for the
	// pending navigation have loaded and the browser URL may be updated.
	// No-op when no navigation is pending.
	ReadyToComplete()

	// CompleteNavigation commits an intent to the browser history.
	CompleteNavigation(change location.LocationChange)

	// Redirect resolves loc against the document origin and either
	// performs a client-side navigation (same origin, deferred one
	// animation frame) or a hard navigation (cross origin).
	Redirect(loc string)

	// IsBack reports whether the last URL change was a back navigation.
	IsBack() reactive.ReadSignal[bool]

	// Close tears the provider down. Popstate events arriving after Close
	// are ignored. Normal operation never calls this; the provider lives
	// for the page lifetime.
	Close()
}

// mode is the part that differs between path-based and hash-based routing.
type mode interface {
	// current reads the live platform location as a router-space URL.
	current() (location.Tagged[location.RouterSpace, location.Url], error)

	// browserHref converts a router-space target into the href handed to
	// the history API.
	browserHref(to location.Tagged[location.RouterSpace, string]) (string, error)
}

// pendingNav is the one-shot completion channel of an in-flight navigation.
// Exactly one of fire and cancel is ever closed.
type pendingNav struct {
	fire   chan struct{}
	cancel chan struct{}
}

// core is the provider state machine shared by both routing modes.
type core struct {
	win  platform.Window
	mode mode
	log  *slog.Logger

	url   *reactive.Signal[location.Tagged[location.RouterSpace, location.Url]]
	state *reactive.Signal[location.State]

	// pending holds at most one outstanding navigation. Arming a new one
	// cancels the old. Guarded by pendingMu; the critical sections are
	// tiny and panic-free, so a panic elsewhere can never leave the slot
	// locked.
	pendingMu sync.Mutex
	pending   *pendingNav

	// pathStack is append-only and used only to classify popstate events
	// as back navigations. It is a heuristic, never pruned, not a mirror
	// of the real history stack.
	pathStackMu sync.Mutex
	pathStack   []location.Tagged[location.RouterSpace, location.Url]

	isBack *reactive.Signal[bool]

	base   string
	closed atomic.Bool
}

// Option configures a provider.
type Option func(*core)

// WithLogger sets the provider's logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(c *core) {
		c.log = log
	}
}

// newCore seeds the shared state from the live platform location.
// A location read or parse failure here is fatal to construction.
func newCore(win platform.Window, m mode, opts ...Option) (*core, error) {
	c := &core{
		win:  win,
		mode: m,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = slog.Default()
	}

	cur, err := m.current()
	if err != nil {
		return nil, fmt.Errorf("reading initial location: %w", err)
	}

	c.url = reactive.NewSignal(cur).WithEquals(taggedUrlEqual)
	c.state = reactive.NewSignal(location.NewState(win.HistoryState()))
	c.isBack = reactive.NewSignal(false)
	c.pathStack = []location.Tagged[location.RouterSpace, location.Url]{cur}
	return c, nil
}

func taggedUrlEqual(a, b location.Tagged[location.RouterSpace, location.Url]) bool {
	return a.Forget(location.RouterSpace{}).Equal(b.Forget(location.RouterSpace{}))
}

// URL implements Provider.
func (c *core) URL() *reactive.Signal[location.Tagged[location.RouterSpace, location.Url]] {
	return c.url
}

// Location implements Provider.
func (c *core) Location() location.Location {
	return location.NewLocation(c.url, c.state)
}

// IsBack implements Provider.
func (c *core) IsBack() reactive.ReadSignal[bool] {
	return c.isBack.ReadOnly()
}

// Close implements Provider.
func (c *core) Close() {
	c.closed.Store(true)
}

// Init implements Provider.
func (c *core) Init(base string) {
	c.base = base

	origin := func() (location.Tagged[location.BrowserSpace, string], error) {
		org, err := c.win.Origin()
		if err != nil {
			return location.Tagged[location.BrowserSpace, string]{}, err
		}
		return location.NewTagged[location.BrowserSpace](org), nil
	}

	clickHandler := location.HandleAnchorClick(base, origin, location.ParseWithBase, c.navigate)
	c.win.OnClick(func(ev *location.AnchorEvent) {
		if err := clickHandler(ev); err != nil {
			// A broken link falls through to native handling; it must
			// never take the navigation subsystem down.
			c.log.Error("anchor click handling failed", "error", err)
		}
	})

	c.win.OnPopstate(func() {
		newURL, err := c.mode.current()
		if err != nil {
			c.log.Error("reading location on popstate failed", "error", err)
			return
		}

		// The signals may already be torn down if the provider was
		// disposed while the event was in flight.
		if c.closed.Load() {
			return
		}

		c.pathStackMu.Lock()
		stack := c.pathStack
		isNavigatingBack := len(stack) == 1 ||
			(len(stack) >= 2 && taggedUrlEqual(stack[len(stack)-2], newURL))
		c.pathStackMu.Unlock()

		c.isBack.Set(isNavigatingBack)
		c.state.Set(location.NewState(c.win.HistoryState()))
		c.url.Set(newURL)
	})
}

// NavigateTo implements Provider.
func (c *core) NavigateTo(to string, change location.LocationChange) {
	org, err := c.win.Origin()
	if err != nil {
		c.log.Error("reading origin failed", "error", err)
		return
	}
	url, err := location.ParseWithBase(to, location.NewTagged[location.BrowserSpace](org))
	if err != nil {
		c.log.Error("invalid navigation target", "to", to, "error", err)
		return
	}
	// The commit step translates change.To into a browser href, so it must
	// carry the resolved full path, not the caller's possibly-relative target.
	change.To = location.NewTagged[location.RouterSpace](url.Forget(location.RouterSpace{}).FullPath())
	c.navigate(url, change)
}

// navigate runs the provider's half of the navigation protocol. The URL
// comparison must not register this code as a consumer of the signal it is
// about to overwrite, so it reads untracked.
func (c *core) navigate(newURL location.Tagged[location.RouterSpace, location.Url], change location.LocationChange) {
	curr := c.url.Peek()
	samePath := curr.Forget(location.RouterSpace{}).SamePath(newURL.Forget(location.RouterSpace{}))

	// Optimistic update: route matching starts before the browser URL moves.
	c.url.Set(newURL)

	if samePath {
		// Nothing downstream needs to load; commit without a round trip.
		c.CompleteNavigation(change)
		return
	}

	nav := &pendingNav{
		fire:   make(chan struct{}),
		cancel: make(chan struct{}),
	}

	c.pendingMu.Lock()
	if c.pending != nil {
		// A newer navigation supersedes the in-flight one; its commit
		// must never land.
		close(c.pending.cancel)
	}
	c.pending = nav
	c.pendingMu.Unlock()

	go func() {
		select {
		case <-nav.cancel:
			// Superseded; the browser URL stays untouched.
		case <-nav.fire:
			// Commit only if this is still the current URL; another
			// navigation may have landed in the meantime.
			curr := c.url.Peek()
			if taggedUrlEqual(curr, newURL) {
				c.CompleteNavigation(change)
			}
		}
	}()
}

// ReadyToComplete implements Provider.
func (c *core) ReadyToComplete() {
	c.pendingMu.Lock()
	nav := c.pending
	c.pending = nil
	c.pendingMu.Unlock()

	if nav != nil {
		close(nav.fire)
	}
}

// CompleteNavigation implements Provider.
func (c *core) CompleteNavigation(change location.LocationChange) {
	href, err := c.mode.browserHref(change.To)
	if err != nil {
		c.log.Error("converting navigation target failed", "error", err)
		return
	}

	if change.Replace {
		err = c.win.ReplaceState(change.State.Value(), href)
	} else {
		err = c.win.PushState(change.State.Value(), href)
	}
	if err != nil {
		// No corrective action exists at this layer; the navigation is lost.
		c.log.Error("history mutation failed", "href", href, "error", err)
		return
	}

	c.state.Set(change.State)

	hash := ""
	if url, err := c.mode.current(); err == nil {
		hash = url.Forget(location.RouterSpace{}).Hash
		c.pathStackMu.Lock()
		c.pathStack = append(c.pathStack, url)
		c.pathStackMu.Unlock()
		c.isBack.Set(false)
	} else {
		c.log.Error("re-reading location after commit failed", "error", err)
	}

	c.scrollToEl(hash, change.Scroll)
}

// scrollToEl scrolls to the element named by the logical fragment, if any,
// else to the viewport origin when the intent asked for scrolling. The
// router-space fragment is the right one to use: in hash mode the browser
// fragment holds the whole folded logical path, not an element id.
func (c *core) scrollToEl(hash string, scroll bool) {
	if hash != "" {
		id := location.Unescape(strings.TrimPrefix(hash, "#"))
		if c.win.ScrollIntoView(id) {
			return
		}
	}

	if scroll {
		c.win.ScrollTo(0, 0)
	}
}

// Redirect implements Provider.
func (c *core) Redirect(loc string) {
	org, err := c.win.Origin()
	if err != nil {
		c.log.Error("reading origin failed", "error", err)
		return
	}

	resolved, err := location.ParseWithBase(loc, location.NewTagged[location.BrowserSpace](org))
	if err != nil {
		c.log.Error("invalid redirect target", "to", loc, "error", err)
		return
	}
	u := resolved.Forget(location.RouterSpace{})

	if u.Origin == org {
		// Defer a tick so in-flight reactive updates settle before the
		// navigation fires. A redirect lands as a new history entry.
		change := location.NewLocationChange()
		change.Replace = false
		change.To = location.NewTagged[location.RouterSpace](u.FullPath())
		c.win.RequestAnimationFrame(func() {
			c.navigate(resolved, change)
		})
		return
	}

	if err := c.win.SetHref(u.Origin + u.FullPath()); err != nil {
		c.log.Error("redirect failed", "to", loc, "error", err)
	}
}
