package location

import (
	"testing"

	"github.com/mohe2015/leptos/pkg/reactive"
)

func TestTaggedRoundTrip(t *testing.T) {
	browser := NewTagged[BrowserSpace]("https://example.com/app")

	if got := browser.Forget(BrowserSpace{}); got != "https://example.com/app" {
		t.Errorf("Forget returned %q", got)
	}

	upper := Map(browser, func(s string) int { return len(s) })
	if upper.Forget(BrowserSpace{}) != len("https://example.com/app") {
		t.Error("Map should transform the inner value and keep the tag")
	}

	router := ChangeSpace[RouterSpace](browser, BrowserSpace{})
	if router.Forget(RouterSpace{}) != "https://example.com/app" {
		t.Error("ChangeSpace should carry the value unchanged")
	}
}

func TestParseWithBase(t *testing.T) {
	base := NewTagged[BrowserSpace]("https://example.com")

	tests := []struct {
		name       string
		raw        string
		wantOrigin string
		wantPath   string
		wantSearch string
		wantHash   string
	}{
		{
			name:       "absolute path",
			raw:        "/users/42?tab=posts#bio",
			wantOrigin: "https://example.com",
			wantPath:   "/users/42",
			wantSearch: "tab=posts",
			wantHash:   "#bio",
		},
		{
			name:       "full url same origin",
			raw:        "https://example.com/about",
			wantOrigin: "https://example.com",
			wantPath:   "/about",
		},
		{
			name:       "cross origin",
			raw:        "https://other.test/x",
			wantOrigin: "https://other.test",
			wantPath:   "/x",
		},
		{
			name:       "query only",
			raw:        "/?q=go",
			wantOrigin: "https://example.com",
			wantPath:   "/",
			wantSearch: "q=go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWithBase(tt.raw, base)
			if err != nil {
				t.Fatalf("ParseWithBase(%q): %v", tt.raw, err)
			}
			u := got.Forget(RouterSpace{})
			if u.Origin != tt.wantOrigin {
				t.Errorf("origin = %q, want %q", u.Origin, tt.wantOrigin)
			}
			if u.Path != tt.wantPath {
				t.Errorf("path = %q, want %q", u.Path, tt.wantPath)
			}
			if u.Search != tt.wantSearch {
				t.Errorf("search = %q, want %q", u.Search, tt.wantSearch)
			}
			if u.Hash != tt.wantHash {
				t.Errorf("hash = %q, want %q", u.Hash, tt.wantHash)
			}
		})
	}
}

func TestParseWithBaseRejectsMalformed(t *testing.T) {
	base := NewTagged[BrowserSpace]("https://example.com")
	if _, err := ParseWithBase("http://bad url with spaces\x7f", base); err == nil {
		t.Error("expected parse error for malformed url")
	}
}

func TestFullPath(t *testing.T) {
	tests := []struct {
		name string
		url  Url
		want string
	}{
		{
			name: "path only",
			url:  Url{Path: "/a"},
			want: "/a",
		},
		{
			name: "path and search",
			url:  Url{Path: "/a", Search: "b=c"},
			want: "/a?b=c",
		},
		{
			name: "hash without marker gets one",
			url:  Url{Path: "/a", Hash: "x"},
			want: "/a#x",
		},
		{
			name: "hash with marker kept",
			url:  Url{Path: "/a", Hash: "#x"},
			want: "/a#x",
		},
		{
			name: "everything",
			url:  Url{Path: "/a", Search: "b=c", Hash: "#d"},
			want: "/a?b=c#d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.url.FullPath(); got != tt.want {
				t.Errorf("FullPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStateEquality(t *testing.T) {
	empty := NewState(nil)
	other := NewState(nil)
	filled := NewState(map[string]any{"k": "v"})
	same := NewState(map[string]any{"k": "v"})
	different := NewState("x")

	if !empty.Equal(other) {
		t.Error("two empty states must be equal")
	}
	if empty.Equal(filled) || filled.Equal(empty) {
		t.Error("empty and non-empty states must be unequal")
	}
	if !filled.Equal(same) {
		t.Error("deep-equal values must compare equal")
	}
	if filled.Equal(different) {
		t.Error("different values must compare unequal")
	}
}

func TestUnescape(t *testing.T) {
	if got := Unescape("a%20b"); got != "a b" {
		t.Errorf("Unescape = %q", got)
	}
	// Malformed input is returned untouched.
	if got := Unescape("%zz"); got != "%zz" {
		t.Errorf("malformed Unescape = %q", got)
	}
}

func TestUnescapeMinimal(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a%20b", "a b"},
		// Structural characters stay encoded.
		{"a%2Fb", "a%2Fb"},
		{"a%3Fb", "a%3Fb"},
		{"%23top", "%23top"},
		{"plain", "plain"},
		{"%zz", "%zz"},
	}
	for _, tt := range tests {
		if got := UnescapeMinimal(tt.input); got != tt.want {
			t.Errorf("UnescapeMinimal(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLocationProjectionsMemoized(t *testing.T) {
	urlSig := reactive.NewSignal(NewTagged[RouterSpace](Url{
		Path:   "/a",
		Search: "x=1",
		Hash:   "#top",
	}))
	state := reactive.NewSignal(NewState(nil))

	loc := NewLocation(urlSig, state)

	if got := loc.Pathname.Get().Forget(RouterSpace{}); got != "/a" {
		t.Errorf("pathname = %q", got)
	}
	if got := loc.Search.Get().Forget(RouterSpace{}); got != "x=1" {
		t.Errorf("search = %q", got)
	}
	if got := loc.Hash.Get().Forget(RouterSpace{}); got != "#top" {
		t.Errorf("hash = %q", got)
	}
	if got := loc.Query.Get().Forget(RouterSpace{}).GetStr("x"); got != "1" {
		t.Errorf("query x = %q", got)
	}

	// A URL write invalidates the projections.
	urlSig.Set(NewTagged[RouterSpace](Url{Path: "/b"}))
	if got := loc.Pathname.Get().Forget(RouterSpace{}); got != "/b" {
		t.Errorf("pathname after write = %q", got)
	}
	if got := loc.Search.Get().Forget(RouterSpace{}); got != "" {
		t.Errorf("search after write = %q", got)
	}
}

func TestSearchOnlyWriteSkipsPathnameConsumers(t *testing.T) {
	urlSig := reactive.NewSignal(NewTagged[RouterSpace](Url{
		Path:   "/users",
		Search: "tab=posts",
	}))
	state := reactive.NewSignal(NewState(nil))

	loc := NewLocation(urlSig, state)

	pathRuns := 0
	pathEff := reactive.NewEffect(func() reactive.Cleanup {
		_ = loc.Pathname.Get()
		pathRuns++
		return nil
	})
	defer pathEff.Stop()

	searchRuns := 0
	searchEff := reactive.NewEffect(func() reactive.Cleanup {
		_ = loc.Search.Get()
		searchRuns++
		return nil
	})
	defer searchEff.Stop()

	if pathRuns != 1 || searchRuns != 1 {
		t.Fatalf("expected both effects to run once initially, got path=%d search=%d", pathRuns, searchRuns)
	}

	// Same path, different query string: only the search consumer re-runs.
	urlSig.Set(NewTagged[RouterSpace](Url{Path: "/users", Search: "tab=about"}))

	if pathRuns != 1 {
		t.Errorf("pathname consumer re-ran on search-only write: %d runs", pathRuns)
	}
	if searchRuns != 2 {
		t.Errorf("expected search consumer to re-run, got %d runs", searchRuns)
	}

	// A path change still reaches the pathname consumer.
	urlSig.Set(NewTagged[RouterSpace](Url{Path: "/about", Search: "tab=about"}))

	if pathRuns != 2 {
		t.Errorf("expected pathname consumer to re-run after path change, got %d runs", pathRuns)
	}
	if searchRuns != 2 {
		t.Errorf("search consumer re-ran on path-only write: %d runs", searchRuns)
	}
}
