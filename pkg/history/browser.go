package history

import (
	"strings"

	"github.com/mohe2015/leptos/pkg/location"
	"github.com/mohe2015/leptos/pkg/params"
	"github.com/mohe2015/leptos/pkg/platform"
)

// BrowserRouter is the path-based routing provider: the router's logical URL
// is the browser's literal path, search and hash.
type BrowserRouter struct {
	*core
}

var _ Provider = (*BrowserRouter)(nil)

// NewBrowserRouter creates a path-based provider on the given window,
// seeding the URL signal and path stack from the live location. Fails when
// the current location cannot be read.
func NewBrowserRouter(win platform.Window, opts ...Option) (*BrowserRouter, error) {
	c, err := newCore(win, browserMode{win: win}, opts...)
	if err != nil {
		return nil, err
	}
	return &BrowserRouter{core: c}, nil
}

// BrowserToRouterURL converts a browser-space URL to router space. In path
// mode the coordinate systems coincide structurally, so this is the explicit
// type-level assertion with no rewriting.
func (r *BrowserRouter) BrowserToRouterURL(u location.Tagged[location.BrowserSpace, location.Url]) (location.Tagged[location.RouterSpace, location.Url], error) {
	return location.ChangeSpace[location.RouterSpace](u, location.BrowserSpace{}), nil
}

// RouterToBrowserURL converts a router-space URL to browser space.
func (r *BrowserRouter) RouterToBrowserURL(u location.Tagged[location.RouterSpace, location.Url]) (location.Tagged[location.BrowserSpace, location.Url], error) {
	return location.ChangeSpace[location.BrowserSpace](u, location.RouterSpace{}), nil
}

// browserMode reads the literal platform location.
type browserMode struct {
	win platform.Window
}

func (m browserMode) current() (location.Tagged[location.RouterSpace, location.Url], error) {
	snap, err := m.win.Location()
	if err != nil {
		return location.Tagged[location.RouterSpace, location.Url]{}, err
	}

	search := strings.TrimPrefix(snap.Search, "?")
	u := location.Url{
		Origin:       snap.Origin,
		Path:         snap.Pathname,
		Search:       search,
		SearchParams: params.ParseQuery(search),
		Hash:         snap.Hash,
	}
	return location.NewTagged[location.RouterSpace](u), nil
}

// browserHref hands the router-space target to the history API unchanged:
// in path mode it already is a valid browser-space reference.
func (m browserMode) browserHref(to location.Tagged[location.RouterSpace, string]) (string, error) {
	return to.Forget(location.RouterSpace{}), nil
}
