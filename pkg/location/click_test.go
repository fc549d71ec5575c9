package location

import (
	"testing"
)

type clickRecorder struct {
	urls    []Tagged[RouterSpace, Url]
	changes []LocationChange
}

func (r *clickRecorder) navigate(u Tagged[RouterSpace, Url], c LocationChange) {
	r.urls = append(r.urls, u)
	r.changes = append(r.changes, c)
}

func newClickHandler(routerBase string, rec *clickRecorder) func(*AnchorEvent) error {
	origin := func() (Tagged[BrowserSpace, string], error) {
		return NewTagged[BrowserSpace]("https://example.com"), nil
	}
	return HandleAnchorClick(routerBase, origin, ParseWithBase, rec.navigate)
}

func plainClick(a *Anchor) *AnchorEvent {
	return &AnchorEvent{Anchor: a}
}

func TestClickBailouts(t *testing.T) {
	anchor := &Anchor{Href: "https://example.com/page"}

	tests := []struct {
		name string
		ev   *AnchorEvent
	}{
		{
			name: "default already prevented",
			ev:   &AnchorEvent{DefaultPrevented: true, Anchor: anchor},
		},
		{
			name: "secondary button",
			ev:   &AnchorEvent{Button: 1, Anchor: anchor},
		},
		{
			name: "meta key",
			ev:   &AnchorEvent{MetaKey: true, Anchor: anchor},
		},
		{
			name: "ctrl key",
			ev:   &AnchorEvent{CtrlKey: true, Anchor: anchor},
		},
		{
			name: "shift key",
			ev:   &AnchorEvent{ShiftKey: true, Anchor: anchor},
		},
		{
			name: "alt key",
			ev:   &AnchorEvent{AltKey: true, Anchor: anchor},
		},
		{
			name: "no anchor on composed path",
			ev:   &AnchorEvent{},
		},
		{
			name: "target set",
			ev:   plainClick(&Anchor{Href: "https://example.com/x", Target: "_blank"}),
		},
		{
			name: "no href and no state",
			ev:   plainClick(&Anchor{}),
		},
		{
			name: "download attribute",
			ev:   plainClick(&Anchor{Href: "https://example.com/x", HasDownload: true}),
		},
		{
			name: "rel external",
			ev:   plainClick(&Anchor{Href: "https://example.com/x", Rel: "noopener external"}),
		},
		{
			name: "cross origin",
			ev:   plainClick(&Anchor{Href: "https://other.test/x"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &clickRecorder{}
			handler := newClickHandler("", rec)

			if err := handler(tt.ev); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if len(rec.changes) != 0 {
				t.Errorf("expected native handling, got %d navigations", len(rec.changes))
			}
			if tt.ev.Prevented() {
				t.Error("bail-out must not prevent default")
			}
		})
	}
}

func TestClickOutsideBasePathBailsOut(t *testing.T) {
	rec := &clickRecorder{}
	handler := newClickHandler("/app", rec)

	ev := plainClick(&Anchor{Href: "https://example.com/other/page"})
	if err := handler(ev); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(rec.changes) != 0 || ev.Prevented() {
		t.Error("click outside the base path must fall through to the browser")
	}
}

func TestClickAccepted(t *testing.T) {
	rec := &clickRecorder{}
	handler := newClickHandler("", rec)

	ev := plainClick(&Anchor{Href: "https://example.com/users/42?tab=posts#bio"})
	if err := handler(ev); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if !ev.Prevented() {
		t.Fatal("accepted click must call PreventDefault")
	}
	if len(rec.changes) != 1 {
		t.Fatalf("expected exactly one navigation, got %d", len(rec.changes))
	}

	change := rec.changes[0]
	if got := change.To.Forget(RouterSpace{}); got != "/users/42?tab=posts#bio" {
		t.Errorf("target = %q", got)
	}
	if change.Replace {
		t.Error("replace defaults to false for anchors without the property")
	}
	if !change.Scroll {
		t.Error("scroll defaults to true")
	}
	if !change.State.IsEmpty() {
		t.Error("state defaults to empty")
	}
}

func TestClickInsideBasePathAccepted(t *testing.T) {
	rec := &clickRecorder{}
	handler := newClickHandler("/app", rec)

	ev := plainClick(&Anchor{Href: "https://example.com/app/settings"})
	if err := handler(ev); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(rec.changes) != 1 {
		t.Fatalf("expected one navigation, got %d", len(rec.changes))
	}
}

func TestClickAnchorProperties(t *testing.T) {
	rec := &clickRecorder{}
	handler := newClickHandler("", rec)

	ev := plainClick(&Anchor{
		Href:     "https://example.com/a",
		HasState: true,
		State:    "persisted",
		Replace:  true,
		NoScroll: true,
	})
	if err := handler(ev); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(rec.changes) != 1 {
		t.Fatalf("expected one navigation, got %d", len(rec.changes))
	}

	change := rec.changes[0]
	if !change.Replace {
		t.Error("replace property must carry through")
	}
	if change.Scroll {
		t.Error("noscroll attribute must disable scrolling")
	}
	if change.State.Value() != "persisted" {
		t.Errorf("state = %v", change.State.Value())
	}
}

func TestClickEscapedPathUnescaped(t *testing.T) {
	rec := &clickRecorder{}
	handler := newClickHandler("", rec)

	ev := plainClick(&Anchor{Href: "https://example.com/caf%C3%A9?q=a%20b"})
	if err := handler(ev); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(rec.changes) != 1 {
		t.Fatalf("expected one navigation, got %d", len(rec.changes))
	}
	if got := rec.changes[0].To.Forget(RouterSpace{}); got != "/café?q=a b" {
		t.Errorf("target = %q", got)
	}
}
