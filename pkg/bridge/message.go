package bridge

import "encoding/json"

// Server-to-client message types.
const (
	msgPush           = "push"
	msgReplace        = "replace"
	msgScrollTo       = "scrollTo"
	msgScrollIntoView = "scrollIntoView"
	msgSetHref        = "setHref"
	msgRAF            = "raf"
)

// Client-to-server message types.
const (
	msgHello    = "hello"
	msgPopstate = "popstate"
	msgClick    = "click"
	msgScrolled = "scrolled"
	msgPong     = "pong"
)

// serverMessage is a command sent to the client shim.
type serverMessage struct {
	Type string `json:"type"`

	// Href carries the target URL for push, replace and setHref.
	Href string `json:"href,omitempty"`

	// State carries the history state for push and replace.
	State any `json:"state,omitempty"`

	// X and Y carry the viewport coordinates for scrollTo.
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// ID carries the element id for scrollIntoView.
	ID string `json:"id,omitempty"`

	// Seq correlates a command with its reply (scrollIntoView, raf).
	Seq uint64 `json:"seq,omitempty"`
}

// wireSnapshot is the client's serialization of its Location object.
type wireSnapshot struct {
	Origin   string `json:"origin"`
	Pathname string `json:"pathname"`
	Search   string `json:"search"`
	Hash     string `json:"hash"`
	Href     string `json:"href"`
}

// wireAnchor mirrors the anchor element found on a click's composed path.
type wireAnchor struct {
	Href        string `json:"href"`
	Target      string `json:"target,omitempty"`
	Rel         string `json:"rel,omitempty"`
	HasDownload bool   `json:"download,omitempty"`
	HasState    bool   `json:"hasState,omitempty"`
	State       any    `json:"state,omitempty"`
	Replace     bool   `json:"replace,omitempty"`
	NoScroll    bool   `json:"noscroll,omitempty"`
}

// wireClick mirrors the platform click event.
type wireClick struct {
	DefaultPrevented bool        `json:"defaultPrevented,omitempty"`
	Button           int         `json:"button"`
	CtrlKey          bool        `json:"ctrlKey,omitempty"`
	ShiftKey         bool        `json:"shiftKey,omitempty"`
	AltKey           bool        `json:"altKey,omitempty"`
	MetaKey          bool        `json:"metaKey,omitempty"`
	Anchor           *wireAnchor `json:"anchor,omitempty"`
}

// clientMessage is an event received from the client shim.
type clientMessage struct {
	Type string `json:"type"`

	// Location accompanies hello and popstate.
	Location *wireSnapshot `json:"location,omitempty"`

	// State is the current history entry's state for hello and popstate.
	// Kept raw so "no state" and "null state" stay distinguishable.
	State json.RawMessage `json:"state,omitempty"`

	// Click accompanies click events.
	Click *wireClick `json:"click,omitempty"`

	// Seq echoes the command this message replies to.
	Seq uint64 `json:"seq,omitempty"`

	// Found is the scrollIntoView result.
	Found bool `json:"found,omitempty"`
}

// historyState decodes the raw state into the value handed to listeners.
// Absent and JSON null both mean "no state".
func (m *clientMessage) historyState() any {
	if len(m.State) == 0 || string(m.State) == "null" {
		return nil
	}
	var v any
	if err := json.Unmarshal(m.State, &v); err != nil {
		return nil
	}
	return v
}
