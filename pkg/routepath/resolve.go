// Package routepath implements the pure path arithmetic of the navigation
// core: normalizing router-space paths and resolving link targets against a
// router base and the path they were clicked from.
package routepath

import "strings"

// Normalize canonicalizes the edges of a path:
//
//   - all leading slashes are removed
//   - runs of trailing slashes collapse to exactly one (kept only if the
//     input had any)
//   - interior slash runs are left untouched
//   - the result gets exactly one leading slash, unless it is empty, begins
//     with "?" or "#", or omitSlash is set
//
// Normalize is idempotent for omitSlash == false.
func Normalize(path string, omitSlash bool) string {
	s := strings.TrimLeft(path, "/")

	// Collapse a trailing slash run to a single slash.
	trailing := len(s) - len(strings.TrimRight(s, "/"))
	if trailing > 1 {
		s = s[:len(s)-(trailing-1)]
	}

	if s == "" || omitSlash || beginsWithQueryOrHash(s) {
		return s
	}
	return "/" + s
}

// HasScheme reports whether path is scheme-qualified: protocol-relative
// ("//…"), "tel:", "mailto:", or "<alnum>://". Such paths are never treated
// as router-relative.
func HasScheme(path string) bool {
	if strings.HasPrefix(path, "//") ||
		strings.HasPrefix(path, "tel:") ||
		strings.HasPrefix(path, "mailto:") {
		return true
	}

	prefix, _, found := strings.Cut(path, "://")
	if !found {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if !isAlnum(prefix[i]) {
			return false
		}
	}
	return true
}

// ResolvePath resolves path against base with no resolved-from context.
// Scheme-qualified paths pass through untouched.
func ResolvePath(base, path string) string {
	return resolve(base, path, "", false)
}

// ResolvePathFrom resolves path against base relative to from, the
// router-space path the link was activated from. An absolute path ignores
// from and resolves under base; a relative path stays under from, unless
// from escaped the base (an external redirect can do that), in which case it
// is re-anchored with the base prefix.
func ResolvePathFrom(base, path, from string) string {
	return resolve(base, path, from, true)
}

func resolve(base, path, from string, hasFrom bool) string {
	if HasScheme(path) {
		return path
	}

	basePath := Normalize(base, false)

	var result string
	if hasFrom {
		fromPath := Normalize(from, false)
		switch {
		case strings.HasPrefix(path, "/"):
			result = basePath
		case strings.Index(fromPath, basePath) != 0:
			result = basePath + fromPath
		default:
			result = fromPath
		}
	} else {
		result = basePath
	}

	resultEmpty := result == ""
	prefix := result
	if resultEmpty {
		prefix = "/"
	}

	return prefix + Normalize(path, resultEmpty)
}

// SplitPathAndQuery splits input at the first "?". The query is returned
// without the leading "?".
func SplitPathAndQuery(input string) (path, query string) {
	path, query, _ = strings.Cut(input, "?")
	return path, query
}

func beginsWithQueryOrHash(s string) bool {
	return s != "" && (s[0] == '?' || s[0] == '#')
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
