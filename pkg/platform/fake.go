package platform

import (
	"sync"

	"github.com/mohe2015/leptos/pkg/location"
)

var _ Window = (*Fake)(nil)

// historyEntry is one entry of the fake's history stack.
type historyEntry struct {
	href  string
	state any
}

// Fake is an in-memory Window with a real history stack, used by provider
// and interception tests. Back and Forward traverse the stack and fire the
// registered popstate listeners, the way the browser does; DispatchClick
// feeds a synthetic event through the registered click listeners.
//
// All methods are safe for concurrent use; navigation goroutines touch the
// fake from outside the test goroutine.
type Fake struct {
	mu sync.Mutex

	entries []historyEntry
	index   int

	popstate []func()
	clicks   []func(*location.AnchorEvent)

	// Elements are the ids ScrollIntoView can find.
	Elements map[string]bool

	// Recorded calls, for assertions.
	Pushes          []string
	Replaces        []string
	Scrolls         [][2]float64
	ScrolledIntoV   []string
	HardNavigations []string

	// LocationErr, when set, fails Location and Origin reads. Used to test
	// constructor failure propagation.
	LocationErr error

	rafCount int
}

// NewFake creates a fake window whose current location is href.
func NewFake(href string) *Fake {
	return &Fake{
		entries:  []historyEntry{{href: href}},
		Elements: make(map[string]bool),
	}
}

// Location implements Window.
func (f *Fake) Location() (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LocationErr != nil {
		return Snapshot{}, f.LocationErr
	}
	return ParseSnapshot(f.entries[f.index].href)
}

// Origin implements Window.
func (f *Fake) Origin() (string, error) {
	snap, err := f.Location()
	if err != nil {
		return "", err
	}
	return snap.Origin, nil
}

// HistoryState implements Window.
func (f *Fake) HistoryState() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[f.index].state
}

// PushState implements Window. Pushing discards any forward entries, the
// way the browser history contract does.
func (f *Fake) PushState(state any, rawURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	href, err := f.resolveLocked(rawURL)
	if err != nil {
		return err
	}
	f.entries = append(f.entries[:f.index+1], historyEntry{href: href, state: state})
	f.index = len(f.entries) - 1
	f.Pushes = append(f.Pushes, href)
	return nil
}

// ReplaceState implements Window.
func (f *Fake) ReplaceState(state any, rawURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	href, err := f.resolveLocked(rawURL)
	if err != nil {
		return err
	}
	f.entries[f.index] = historyEntry{href: href, state: state}
	f.Replaces = append(f.Replaces, href)
	return nil
}

// OnPopstate implements Window.
func (f *Fake) OnPopstate(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.popstate = append(f.popstate, fn)
}

// OnClick implements Window.
func (f *Fake) OnClick(fn func(*location.AnchorEvent)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clicks = append(f.clicks, fn)
}

// ScrollTo implements Window.
func (f *Fake) ScrollTo(x, y float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Scrolls = append(f.Scrolls, [2]float64{x, y})
}

// ScrollIntoView implements Window.
func (f *Fake) ScrollIntoView(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.Elements[id] {
		return false
	}
	f.ScrolledIntoV = append(f.ScrolledIntoV, id)
	return true
}

// RequestAnimationFrame implements Window. The fake runs fn synchronously;
// tests that care about the deferral count frames through RAFCount.
func (f *Fake) RequestAnimationFrame(fn func()) {
	f.mu.Lock()
	f.rafCount++
	f.mu.Unlock()
	fn()
}

// SetHref implements Window: a hard navigation replaces the whole stack.
func (f *Fake) SetHref(href string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	resolved, err := f.resolveLocked(href)
	if err != nil {
		return err
	}
	f.HardNavigations = append(f.HardNavigations, resolved)
	f.entries = []historyEntry{{href: resolved}}
	f.index = 0
	return nil
}

// Back moves one entry back and fires popstate listeners.
// No-op at the oldest entry, like the browser.
func (f *Fake) Back() {
	f.mu.Lock()
	if f.index == 0 {
		f.mu.Unlock()
		return
	}
	f.index--
	listeners := append([]func(){}, f.popstate...)
	f.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Forward moves one entry forward and fires popstate listeners.
func (f *Fake) Forward() {
	f.mu.Lock()
	if f.index >= len(f.entries)-1 {
		f.mu.Unlock()
		return
	}
	f.index++
	listeners := append([]func(){}, f.popstate...)
	f.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// DispatchClick feeds a synthetic click through the registered listeners.
func (f *Fake) DispatchClick(ev *location.AnchorEvent) {
	f.mu.Lock()
	listeners := append([]func(*location.AnchorEvent){}, f.clicks...)
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// Href returns the current entry's href.
func (f *Fake) Href() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[f.index].href
}

// Depth returns the number of history entries.
func (f *Fake) Depth() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

// RAFCount returns how many animation frames have been requested.
func (f *Fake) RAFCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rafCount
}

// resolveLocked resolves rawURL against the current href.
func (f *Fake) resolveLocked(rawURL string) (string, error) {
	return ResolveHref(f.entries[f.index].href, rawURL)
}
