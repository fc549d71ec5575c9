package platform

import "testing"

func TestFakeLocationSnapshot(t *testing.T) {
	f := NewFake("https://example.com/a/b?x=1#frag")

	snap, err := f.Location()
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if snap.Origin != "https://example.com" {
		t.Errorf("origin = %q", snap.Origin)
	}
	if snap.Pathname != "/a/b" {
		t.Errorf("pathname = %q", snap.Pathname)
	}
	if snap.Search != "?x=1" {
		t.Errorf("search = %q", snap.Search)
	}
	if snap.Hash != "#frag" {
		t.Errorf("hash = %q", snap.Hash)
	}
}

func TestFakePushGrowsStack(t *testing.T) {
	f := NewFake("https://example.com/")

	if err := f.PushState(nil, "/a"); err != nil {
		t.Fatalf("PushState: %v", err)
	}
	if err := f.PushState(nil, "/b"); err != nil {
		t.Fatalf("PushState: %v", err)
	}

	if f.Depth() != 3 {
		t.Errorf("depth = %d, want 3", f.Depth())
	}
	if f.Href() != "https://example.com/b" {
		t.Errorf("href = %q", f.Href())
	}
}

func TestFakeReplaceRewritesTop(t *testing.T) {
	f := NewFake("https://example.com/")

	if err := f.ReplaceState("s", "/a"); err != nil {
		t.Fatalf("ReplaceState: %v", err)
	}

	if f.Depth() != 1 {
		t.Errorf("depth = %d, want 1", f.Depth())
	}
	if f.Href() != "https://example.com/a" {
		t.Errorf("href = %q", f.Href())
	}
	if f.HistoryState() != "s" {
		t.Errorf("state = %v", f.HistoryState())
	}
}

func TestFakeBackForwardFirePopstate(t *testing.T) {
	f := NewFake("https://example.com/")
	_ = f.PushState(nil, "/a")
	_ = f.PushState(nil, "/b")

	var fired int
	f.OnPopstate(func() { fired++ })

	f.Back()
	if fired != 1 {
		t.Fatalf("popstate fired %d times", fired)
	}
	if f.Href() != "https://example.com/a" {
		t.Errorf("href after back = %q", f.Href())
	}

	f.Forward()
	if fired != 2 {
		t.Fatalf("popstate fired %d times", fired)
	}
	if f.Href() != "https://example.com/b" {
		t.Errorf("href after forward = %q", f.Href())
	}

	// At the newest entry Forward is a no-op.
	f.Forward()
	if fired != 2 {
		t.Errorf("forward at top of stack must not fire popstate")
	}
}

func TestFakePushDiscardsForwardEntries(t *testing.T) {
	f := NewFake("https://example.com/")
	_ = f.PushState(nil, "/a")
	_ = f.PushState(nil, "/b")
	f.Back()

	_ = f.PushState(nil, "/c")

	if f.Depth() != 3 {
		t.Errorf("depth = %d, want 3", f.Depth())
	}
	f.Forward()
	if f.Href() != "https://example.com/c" {
		t.Errorf("forward after push should stay at %q, got %q", "https://example.com/c", f.Href())
	}
}

func TestFakeRelativeResolution(t *testing.T) {
	f := NewFake("https://example.com/app/page")

	if err := f.PushState(nil, "/app/other?x=1"); err != nil {
		t.Fatalf("PushState: %v", err)
	}
	if f.Href() != "https://example.com/app/other?x=1" {
		t.Errorf("href = %q", f.Href())
	}
}
