package history

import (
	"strings"

	"github.com/mohe2015/leptos/pkg/location"
	"github.com/mohe2015/leptos/pkg/platform"
)

// HashRouter is the fragment-based routing provider: the browser path stays
// pinned at "/" and the router's logical URL lives after the "#". Useful
// where the server cannot be taught to rewrite arbitrary paths to the app
// shell.
type HashRouter struct {
	*core
}

var _ Provider = (*HashRouter)(nil)

// NewHashRouter creates a hash-based provider on the given window.
func NewHashRouter(win platform.Window, opts ...Option) (*HashRouter, error) {
	c, err := newCore(win, hashMode{win: win}, opts...)
	if err != nil {
		return nil, err
	}
	return &HashRouter{core: c}, nil
}

// BrowserToRouterURL unfolds the fragment into the logical URL: everything
// after the first "#" becomes the router-space path, search and hash. An
// empty fragment means the logical root "/". The conversion is lossless
// against RouterToBrowserURL.
func (r *HashRouter) BrowserToRouterURL(u location.Tagged[location.BrowserSpace, location.Url]) (location.Tagged[location.RouterSpace, location.Url], error) {
	b := u.Forget(location.BrowserSpace{})
	return parseLogical(b.Origin, b.Hash)
}

// RouterToBrowserURL folds the logical URL into the fragment: the browser
// path is pinned at "/" and the full logical path (path, query, fragment)
// moves after the "#".
func (r *HashRouter) RouterToBrowserURL(u location.Tagged[location.RouterSpace, location.Url]) (location.Tagged[location.BrowserSpace, location.Url], error) {
	logical := u.Forget(location.RouterSpace{})
	b := location.Url{
		Origin: logical.Origin,
		Path:   "/",
		Hash:   "#" + logical.FullPath(),
	}
	return location.NewTagged[location.BrowserSpace](b), nil
}

// parseLogical parses the fragment's content as a router URL under origin.
func parseLogical(origin, fragment string) (location.Tagged[location.RouterSpace, location.Url], error) {
	logical := strings.TrimPrefix(fragment, "#")
	if logical == "" {
		logical = "/"
	}
	if !strings.HasPrefix(logical, "/") {
		logical = "/" + logical
	}
	return location.ParseWithBase(origin+logical, location.NewTagged[location.BrowserSpace](origin))
}

// hashMode reads the logical location out of the fragment.
type hashMode struct {
	win platform.Window
}

func (m hashMode) current() (location.Tagged[location.RouterSpace, location.Url], error) {
	snap, err := m.win.Location()
	if err != nil {
		return location.Tagged[location.RouterSpace, location.Url]{}, err
	}
	return parseLogical(snap.Origin, snap.Hash)
}

// browserHref folds a router-space target into a fragment href.
func (m hashMode) browserHref(to location.Tagged[location.RouterSpace, string]) (string, error) {
	org, err := m.win.Origin()
	if err != nil {
		return "", err
	}

	target := to.Forget(location.RouterSpace{})
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}
	return org + "/#" + target, nil
}
