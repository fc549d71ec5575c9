package location

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mohe2015/leptos/pkg/params"
)

// DefaultBase is the base used when parsing a URL with no document origin
// available (server-side tests, detached parsing).
const DefaultBase = "https://example.com"

// Url is the parsed URL value the navigation core passes around.
// Parsing itself is delegated to net/url; this type only fixes the shape the
// rest of the core relies on.
type Url struct {
	// Origin is scheme://host[:port].
	Origin string

	// Path never contains the query string or fragment.
	Path string

	// Search is the raw query string without the leading "?".
	Search string

	// SearchParams is Search parsed into ordered key-value pairs.
	SearchParams params.Map

	// Hash is the fragment. Producers differ on whether the leading "#"
	// is included; normalize before comparing.
	Hash string
}

// Equal reports structural equality.
func (u Url) Equal(other Url) bool {
	return u.Origin == other.Origin &&
		u.Path == other.Path &&
		u.Search == other.Search &&
		u.Hash == other.Hash &&
		u.SearchParams.Equal(other.SearchParams)
}

// SamePath reports whether two URLs share origin and path. This is the
// comparison `navigate` uses to decide whether a round-trip wait is needed.
func (u Url) SamePath(other Url) bool {
	return u.Origin == other.Origin && u.Path == other.Path
}

// FullPath renders path + query + fragment, inserting "?" and "#" where the
// stored fields omit them.
func (u Url) FullPath() string {
	var b strings.Builder
	b.WriteString(u.Path)
	if u.Search != "" {
		b.WriteByte('?')
		b.WriteString(u.Search)
	}
	if u.Hash != "" {
		if !strings.HasPrefix(u.Hash, "#") {
			b.WriteByte('#')
		}
		b.WriteString(u.Hash)
	}
	return b.String()
}

// ParseWithBase parses raw against a browser-space base (normally the
// document origin) and returns the result tagged router-space. Relative
// references resolve against the base; the caller asserts the outcome is a
// logical router URL.
func ParseWithBase(raw string, base Tagged[BrowserSpace, string]) (Tagged[RouterSpace, Url], error) {
	baseURL, err := url.Parse(base.Forget(BrowserSpace{}))
	if err != nil {
		return Tagged[RouterSpace, Url]{}, fmt.Errorf("invalid base url: %w", err)
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return Tagged[RouterSpace, Url]{}, fmt.Errorf("invalid url %q: %w", raw, err)
	}

	resolved := baseURL.ResolveReference(ref)

	hash := ""
	if resolved.Fragment != "" {
		hash = "#" + resolved.EscapedFragment()
	}

	u := Url{
		Origin:       originOf(resolved),
		Path:         resolved.EscapedPath(),
		Search:       resolved.RawQuery,
		SearchParams: params.ParseQuery(resolved.RawQuery),
		Hash:         hash,
	}
	return NewTagged[RouterSpace](u), nil
}

// Parse parses raw against DefaultBase.
func Parse(raw string) (Tagged[RouterSpace, Url], error) {
	return ParseWithBase(raw, NewTagged[BrowserSpace](DefaultBase))
}

func originOf(u *url.URL) string {
	if u.Scheme == "" && u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Escape percent-encodes a URL component.
func Escape(s string) string {
	return url.QueryEscape(s)
}

// Unescape percent-decodes a URL component. On malformed input the input is
// returned unchanged; a broken link must degrade, not fail the handler.
func Unescape(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// reservedAfterDecode are the characters a whole-URL decode must leave
// encoded, because decoding them changes the URL's structure.
const reservedAfterDecode = "#$&+,/:;=?@"

// UnescapeMinimal percent-decodes s but leaves URL-structural characters
// encoded, mirroring a whole-URL decode rather than a component decode.
// Malformed input is returned unchanged.
func UnescapeMinimal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '%' {
			b.WriteByte(s[i])
			i++
			continue
		}
		if i+3 > len(s) {
			return s
		}
		hi, ok1 := unhex(s[i+1])
		lo, ok2 := unhex(s[i+2])
		if !ok1 || !ok2 {
			return s
		}
		c := hi<<4 | lo
		if strings.IndexByte(reservedAfterDecode, c) >= 0 {
			b.WriteString(s[i : i+3])
		} else {
			b.WriteByte(c)
		}
		i += 3
	}
	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
