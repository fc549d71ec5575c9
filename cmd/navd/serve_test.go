package main

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mohe2015/leptos/pkg/location"
	"github.com/mohe2015/leptos/pkg/platform"
)

// fakeTab backs attachProvider with an in-memory window.
type fakeTab struct {
	*platform.Fake
	closed bool
}

func (f *fakeTab) ID() string { return "tab-1" }
func (f *fakeTab) Close()     { f.closed = true }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestAttachProviderCommitsClickNavigation(t *testing.T) {
	tab := &fakeTab{Fake: platform.NewFake("https://app.test/")}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	attachProvider(tab, false, log)

	ev := &location.AnchorEvent{Anchor: &location.Anchor{Href: "https://app.test/about"}}
	tab.DispatchClick(ev)
	if !ev.Prevented() {
		t.Fatal("expected the click to be claimed by the provider")
	}

	// The URL effect schedules the ready-to-complete step on each change,
	// so the pending navigation must land in the history on its own.
	waitFor(t, func() bool { return tab.Depth() == 2 })
	if got := tab.Href(); got != "https://app.test/about" {
		t.Errorf("href = %q, want %q", got, "https://app.test/about")
	}
	if tab.closed {
		t.Error("session closed during a successful attach")
	}
}
