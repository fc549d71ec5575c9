package routepath

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		omitSlash bool
		want      string
	}{
		{
			name:  "query string with opening slash",
			input: "/?foo=bar",
			want:  "?foo=bar",
		},
		{
			name:  "retain trailing slash",
			input: "foo/bar/",
			want:  "/foo/bar/",
		},
		{
			name:  "dedup trailing slashes",
			input: "foo/bar/////",
			want:  "/foo/bar/",
		},
		{
			name:  "dedup leading slashes",
			input: "///foo",
			want:  "/foo",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "only slashes",
			input: "///",
			want:  "",
		},
		{
			name:  "interior slashes untouched",
			input: "/foo//bar",
			want:  "/foo//bar",
		},
		{
			name:  "hash fragment",
			input: "/#section",
			want:  "#section",
		},
		{
			name:      "omit slash",
			input:     "foo",
			omitSlash: true,
			want:      "foo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input, tt.omitSlash)
			if got != tt.want {
				t.Errorf("Normalize(%q, %v) = %q, want %q", tt.input, tt.omitSlash, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"", "/", "//", "foo", "/foo", "foo/", "foo///", "///foo///",
		"/?a=b", "#x", "/a//b/c/", "a/b",
	}
	for _, in := range inputs {
		once := Normalize(in, false)
		twice := Normalize(once, false)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestHasScheme(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"//cdn.example.com/x", true},
		{"tel:+15551234567", true},
		{"mailto:a@b.com", true},
		{"https://example.com", true},
		{"ftp2://example.com", true},
		{"/foo", false},
		{"foo://bar", true},
		{"fo o://bar", false},
		{"ht!tp://x", false},
		{"", false},
		{"relative/path", false},
	}

	for _, tt := range tests {
		if got := HasScheme(tt.input); got != tt.want {
			t.Errorf("HasScheme(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{
			name: "empty base and path",
			base: "",
			path: "",
			want: "/",
		},
		{
			name: "path under base",
			base: "/app",
			path: "x",
			want: "/app/x",
		},
		{
			name: "absolute path under base",
			base: "/app",
			path: "/x",
			want: "/app/x",
		},
		{
			name: "no base",
			base: "",
			path: "foo",
			want: "/foo",
		},
		{
			name: "scheme passthrough",
			base: "/app",
			path: "mailto:a@b.com",
			want: "mailto:a@b.com",
		},
		{
			name: "protocol relative passthrough",
			base: "/app",
			path: "//example.com/x",
			want: "//example.com/x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePath(tt.base, tt.path)
			if got != tt.want {
				t.Errorf("ResolvePath(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
			}
		})
	}
}

func TestResolvePathFrom(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		from string
		want string
	}{
		{
			name: "absolute path ignores from, uses base",
			base: "/app",
			path: "/x",
			from: "/app/y",
			want: "/app/x",
		},
		{
			name: "relative path stays under from",
			base: "/app",
			path: "x",
			from: "/app/y",
			want: "/app/y/x",
		},
		{
			name: "from outside base gets re-anchored",
			base: "/app",
			path: "x",
			from: "/other",
			want: "/app/other/x",
		},
		{
			name: "scheme passthrough ignores from",
			base: "/app",
			path: "tel:123",
			from: "/app/y",
			want: "tel:123",
		},
		{
			name: "empty everything",
			base: "",
			path: "",
			from: "",
			want: "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePathFrom(tt.base, tt.path, tt.from)
			if got != tt.want {
				t.Errorf("ResolvePathFrom(%q, %q, %q) = %q, want %q", tt.base, tt.path, tt.from, got, tt.want)
			}
		})
	}
}

func TestSplitPathAndQuery(t *testing.T) {
	path, query := SplitPathAndQuery("/a/b?c=d&e=f")
	if path != "/a/b" || query != "c=d&e=f" {
		t.Errorf("unexpected split: %q %q", path, query)
	}

	path, query = SplitPathAndQuery("/a/b")
	if path != "/a/b" || query != "" {
		t.Errorf("unexpected split without query: %q %q", path, query)
	}
}
