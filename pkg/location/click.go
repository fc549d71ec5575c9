package location

import "strings"

// Anchor is the projection of the anchor element found on a click event's
// composed path. Href, Target and Rel mirror the element's resolved
// properties; State and Replace are framework-injected JS properties read
// directly off the element, not HTML attributes.
type Anchor struct {
	// Href is the anchor's resolved href property ("" when absent).
	Href string

	// Target is the anchor's target attribute.
	Target string

	// Rel is the anchor's rel attribute, a whitespace-separated token list.
	Rel string

	// HasDownload reports a download attribute.
	HasDownload bool

	// HasState reports an explicit state property on the element.
	HasState bool

	// State is the state property's value; nil when undefined.
	State any

	// Replace is the replace property, false when undefined.
	Replace bool

	// NoScroll reports a "noscroll" or "data-noscroll" attribute.
	NoScroll bool
}

// relContains scans the rel token list for a token, splitting on spaces and
// tabs the way the platform does.
func (a *Anchor) relContains(token string) bool {
	for _, t := range strings.FieldsFunc(a.Rel, func(r rune) bool {
		return r == ' ' || r == '\t'
	}) {
		if t == token {
			return true
		}
	}
	return false
}

// AnchorEvent is the platform click event as the interception handler sees
// it: button, modifiers, and the nearest anchor on the composed path.
type AnchorEvent struct {
	// DefaultPrevented reports whether some earlier handler already
	// claimed the event.
	DefaultPrevented bool

	// Button is the mouse button (0 = primary).
	Button int

	// Modifier keys.
	CtrlKey  bool
	ShiftKey bool
	AltKey   bool
	MetaKey  bool

	// Anchor is the anchor element found on the composed path, nil if none.
	Anchor *Anchor

	prevented bool
}

// PreventDefault suppresses the browser's native handling of the click.
func (e *AnchorEvent) PreventDefault() {
	e.prevented = true
}

// Prevented reports whether PreventDefault was called by the handler.
func (e *AnchorEvent) Prevented() bool {
	return e.prevented
}

// ParseFunc parses a raw href against a browser-space base into a
// router-space URL.
type ParseFunc func(raw string, base Tagged[BrowserSpace, string]) (Tagged[RouterSpace, Url], error)

// NavigateFunc receives the accepted navigation. Implementations must
// return without waiting for the navigation to settle (the asynchronous
// tail runs on its own goroutine); the click handler never blocks.
type NavigateFunc func(Tagged[RouterSpace, Url], LocationChange)

// HandleAnchorClick builds the click-interception handler. The returned
// function inspects each click and either returns having done nothing
// (native browser handling proceeds) or calls PreventDefault and dispatches
// a navigation intent.
//
// The handler bails out, in order, when: the default is already prevented;
// the click is not a plain primary-button click; the composed path holds no
// anchor; the anchor has a target; the anchor has neither href nor state;
// the anchor has a download attribute or rel=external; the resolved URL
// leaves the current origin; or the router runs under a base path the
// resolved path is outside of.
func HandleAnchorClick(
	routerBase string,
	origin func() (Tagged[BrowserSpace, string], error),
	parse ParseFunc,
	navigate NavigateFunc,
) func(*AnchorEvent) error {
	return func(ev *AnchorEvent) error {
		if ev.DefaultPrevented ||
			ev.Button != 0 ||
			ev.MetaKey || ev.AltKey || ev.CtrlKey || ev.ShiftKey {
			return nil
		}

		a := ev.Anchor
		if a == nil {
			return nil
		}

		// Let the browser handle the event if the link has a target, or
		// has neither an href nor a state property.
		if a.Target != "" || (a.Href == "" && !a.HasState) {
			return nil
		}

		if a.HasDownload || a.relContains("external") {
			return nil
		}

		org, err := origin()
		if err != nil {
			return err
		}

		url, err := parse(a.Href, org)
		if err != nil {
			return err
		}

		pathName := UnescapeMinimal(url.Forget(RouterSpace{}).Path)

		// Let the browser handle the event if it leaves our domain or our
		// base path.
		if url.Forget(RouterSpace{}).Origin != org.Forget(BrowserSpace{}) {
			return nil
		}
		if routerBase != "" && pathName != "" && !strings.HasPrefix(pathName, routerBase) {
			return nil
		}

		// All checks passed; this click navigates on the client side.
		ev.PreventDefault()

		u := url.Forget(RouterSpace{})
		to := pathName
		if u.Search != "" {
			to += "?" + Unescape(u.Search)
		}
		to += Unescape(u.Hash)

		change := LocationChange{
			To:      NewTagged[RouterSpace](to),
			Replace: a.Replace,
			Scroll:  !a.NoScroll,
			State:   NewState(a.State),
		}

		navigate(url, change)
		return nil
	}
}
