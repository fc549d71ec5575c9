package bridge

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mohe2015/leptos/pkg/location"
	"github.com/mohe2015/leptos/pkg/platform"
)

// ErrSessionClosed is returned by window operations after the WebSocket
// connection is gone.
var ErrSessionClosed = errors.New("bridge: session closed")

// Session is one connected browser tab. It implements platform.Window by
// sending commands over the WebSocket and caching the location and history
// state the client shim reports with every hello and popstate, so reads
// never need a round trip.
type Session struct {
	id      string
	conn    *websocket.Conn
	cfg     *Config
	log     *slog.Logger
	metrics *metrics
	tracer  trace.Tracer

	// writeMu serializes data writes; gorilla allows one concurrent writer.
	writeMu sync.Mutex

	mu       sync.Mutex
	snap     platform.Snapshot
	state    any
	popstate []func()
	clicks   []func(*location.AnchorEvent)
	pending  map[uint64]chan clientMessage

	seq       atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

var _ platform.Window = (*Session)(nil)

func newSession(conn *websocket.Conn, cfg *Config, log *slog.Logger, m *metrics, tracer trace.Tracer, hello clientMessage) (*Session, error) {
	if hello.Location == nil {
		return nil, errors.New("bridge: hello without location")
	}

	id := newSessionID()
	s := &Session{
		id:      id,
		conn:    conn,
		cfg:     cfg,
		log:     log.With("session_id", id),
		metrics: m,
		tracer:  tracer,
		snap: platform.Snapshot{
			Origin:   hello.Location.Origin,
			Pathname: hello.Location.Pathname,
			Search:   hello.Location.Search,
			Hash:     hello.Location.Hash,
			Href:     hello.Location.Href,
		},
		state:   hello.historyState(),
		pending: make(map[uint64]chan clientMessage),
		done:    make(chan struct{}),
	}
	return s, nil
}

// newSessionID generates a cryptographically random session identifier.
func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

// ID returns the session's identifier.
func (s *Session) ID() string {
	return s.id
}

// Close tears the session down. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
		s.conn.Close()
	})
}

// Location implements platform.Window from the cached snapshot.
func (s *Session) Location() (platform.Snapshot, error) {
	if s.closed.Load() {
		return platform.Snapshot{}, ErrSessionClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap, nil
}

// Origin implements platform.Window.
func (s *Session) Origin() (string, error) {
	snap, err := s.Location()
	if err != nil {
		return "", err
	}
	return snap.Origin, nil
}

// HistoryState implements platform.Window.
func (s *Session) HistoryState() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PushState implements platform.Window.
func (s *Session) PushState(state any, rawURL string) error {
	return s.commit(msgPush, state, rawURL)
}

// ReplaceState implements platform.Window.
func (s *Session) ReplaceState(state any, rawURL string) error {
	return s.commit(msgReplace, state, rawURL)
}

// commit sends a history mutation to the client and updates the cached
// snapshot, tracing and counting the write.
func (s *Session) commit(kind string, state any, rawURL string) error {
	s.mu.Lock()
	base := s.snap.Href
	s.mu.Unlock()

	href, err := platform.ResolveHref(base, rawURL)
	if err != nil {
		return err
	}

	_, span := s.tracer.Start(context.Background(), "bridge.navigation",
		trace.WithAttributes(
			attribute.String("nav.href", href),
			attribute.Bool("nav.replace", kind == msgReplace),
		))
	defer span.End()

	start := time.Now()
	err = s.send(serverMessage{Type: kind, Href: href, State: state})
	s.metrics.navigationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.navigationsTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit write failed")
		return err
	}
	s.metrics.navigationsTotal.WithLabelValues("ok").Inc()

	snap, err := platform.ParseSnapshot(href)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snap = snap
	s.state = state
	s.mu.Unlock()
	return nil
}

// OnPopstate implements platform.Window.
func (s *Session) OnPopstate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.popstate = append(s.popstate, fn)
}

// OnClick implements platform.Window.
func (s *Session) OnClick(fn func(*location.AnchorEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clicks = append(s.clicks, fn)
}

// ScrollTo implements platform.Window. Fire and forget.
func (s *Session) ScrollTo(x, y float64) {
	if err := s.send(serverMessage{Type: msgScrollTo, X: x, Y: y}); err != nil {
		s.log.Error("scrollTo write failed", "error", err)
	}
}

// ScrollIntoView implements platform.Window. The client reports whether the
// element exists; a missing reply counts as not found.
func (s *Session) ScrollIntoView(id string) bool {
	seq, ch := s.armReply()
	defer s.dropReply(seq)

	if err := s.send(serverMessage{Type: msgScrollIntoView, ID: id, Seq: seq}); err != nil {
		s.log.Error("scrollIntoView write failed", "error", err)
		return false
	}

	select {
	case reply := <-ch:
		return reply.Found
	case <-time.After(s.cfg.ReplyTimeout):
		s.log.Warn("scrollIntoView reply timed out", "id", id)
		return false
	case <-s.done:
		return false
	}
}

// RequestAnimationFrame implements platform.Window: the client acks the
// frame with a pong carrying the same seq. fn still runs, after a timeout,
// when the ack never arrives; a slow tab must not stall a navigation.
func (s *Session) RequestAnimationFrame(fn func()) {
	seq, ch := s.armReply()

	if err := s.send(serverMessage{Type: msgRAF, Seq: seq}); err != nil {
		s.dropReply(seq)
		s.log.Error("raf write failed", "error", err)
		fn()
		return
	}

	go func() {
		defer s.dropReply(seq)
		select {
		case <-ch:
		case <-time.After(s.cfg.ReplyTimeout):
			s.log.Warn("raf ack timed out")
		case <-s.done:
			return
		}
		fn()
	}()
}

// SetHref implements platform.Window: a hard navigation. The page unloads,
// taking the connection with it.
func (s *Session) SetHref(href string) error {
	return s.send(serverMessage{Type: msgSetHref, Href: href})
}

// send writes one command to the client.
func (s *Session) send(msg serverMessage) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	return s.conn.WriteJSON(msg)
}

// armReply registers a one-shot reply channel for a fresh seq.
func (s *Session) armReply() (uint64, chan clientMessage) {
	seq := s.seq.Add(1)
	ch := make(chan clientMessage, 1)
	s.mu.Lock()
	s.pending[seq] = ch
	s.mu.Unlock()
	return seq, ch
}

func (s *Session) dropReply(seq uint64) {
	s.mu.Lock()
	delete(s.pending, seq)
	s.mu.Unlock()
}

// readLoop consumes client events until the connection drops.
func (s *Session) readLoop() {
	defer s.Close()

	s.conn.SetReadLimit(s.cfg.MaxMessageSize)
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		return nil
	})

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))

		var msg clientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.log.Error("read error", "error", err)
			}
			return
		}

		switch msg.Type {
		case msgPopstate:
			s.handlePopstate(msg)

		case msgClick:
			s.handleClick(msg)

		case msgScrolled, msgPong:
			s.mu.Lock()
			ch, ok := s.pending[msg.Seq]
			s.mu.Unlock()
			if ok {
				ch <- msg
			}

		default:
			s.log.Warn("unknown message type", "type", msg.Type)
		}
	}
}

func (s *Session) handlePopstate(msg clientMessage) {
	if msg.Location == nil {
		s.log.Error("popstate without location")
		return
	}

	s.mu.Lock()
	s.snap = platform.Snapshot{
		Origin:   msg.Location.Origin,
		Pathname: msg.Location.Pathname,
		Search:   msg.Location.Search,
		Hash:     msg.Location.Hash,
		Href:     msg.Location.Href,
	}
	s.state = msg.historyState()
	listeners := append([]func(){}, s.popstate...)
	s.mu.Unlock()

	s.metrics.popstateTotal.Inc()
	for _, fn := range listeners {
		fn()
	}
}

// handleClick dispatches a click the shim deferred. When no listener claims
// the event, the browser is told to follow the link after all.
func (s *Session) handleClick(msg clientMessage) {
	if msg.Click == nil {
		s.log.Error("click without payload")
		return
	}

	ev := &location.AnchorEvent{
		DefaultPrevented: msg.Click.DefaultPrevented,
		Button:           msg.Click.Button,
		CtrlKey:          msg.Click.CtrlKey,
		ShiftKey:         msg.Click.ShiftKey,
		AltKey:           msg.Click.AltKey,
		MetaKey:          msg.Click.MetaKey,
	}
	if a := msg.Click.Anchor; a != nil {
		ev.Anchor = &location.Anchor{
			Href:        a.Href,
			Target:      a.Target,
			Rel:         a.Rel,
			HasDownload: a.HasDownload,
			HasState:    a.HasState,
			State:       a.State,
			Replace:     a.Replace,
			NoScroll:    a.NoScroll,
		}
	}

	s.mu.Lock()
	listeners := append([]func(*location.AnchorEvent){}, s.clicks...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}

	if !ev.Prevented() && ev.Anchor != nil && ev.Anchor.Href != "" {
		if err := s.send(serverMessage{Type: msgSetHref, Href: ev.Anchor.Href}); err != nil {
			s.log.Error("click fallthrough write failed", "error", err)
		}
	}
}

// pingLoop keeps the connection alive. WriteControl is safe to call
// concurrently with data writes.
func (s *Session) pingLoop() {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(s.cfg.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}
