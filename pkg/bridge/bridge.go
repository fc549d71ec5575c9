// Package bridge runs platform.Window over a WebSocket: a thin client shim
// in the browser reports location snapshots, popstate and deferred anchor
// clicks, and executes history commands the server sends back. Each
// connected tab is one Session, and a routing provider attaches to it the
// same way it attaches to the in-memory fake.
package bridge

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "navbridge"

// Config holds the bridge's connection tuning knobs.
type Config struct {
	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// ReadTimeout is the maximum time to wait for a message from the
	// client. Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HelloTimeout is the maximum time to wait for the client's opening
	// hello. Default: 10 seconds.
	HelloTimeout time.Duration

	// PingInterval is the time between keepalive pings.
	// Default: 30 seconds.
	PingInterval time.Duration

	// ReplyTimeout bounds the wait for a correlated client reply
	// (scrollIntoView, raf ack). Default: 5 seconds.
	ReplyTimeout time.Duration

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 64KB.
	MaxMessageSize int64

	// CheckOrigin is called to validate the request origin.
	// Default: allows all origins (not recommended for production).
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		ReadTimeout:     60 * time.Second,
		WriteTimeout:    10 * time.Second,
		HelloTimeout:    10 * time.Second,
		PingInterval:    30 * time.Second,
		ReplyTimeout:    5 * time.Second,
		MaxMessageSize:  64 * 1024,
	}
}

// Bridge accepts WebSocket connections and manages their sessions.
type Bridge struct {
	cfg      *Config
	log      *slog.Logger
	metrics  *metrics
	tracer   trace.Tracer
	upgrader websocket.Upgrader

	onSession func(*Session)

	mu       sync.Mutex
	sessions map[string]*Session
}

// Option configures a Bridge.
type Option func(*options)

type options struct {
	log       *slog.Logger
	namespace string
	registry  prometheus.Registerer
	onSession func(*Session)
}

// WithLogger sets the bridge's logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithNamespace sets the metrics namespace. Defaults to "navbridge".
func WithNamespace(namespace string) Option {
	return func(o *options) {
		o.namespace = namespace
	}
}

// WithRegistry sets the Prometheus registry.
// Defaults to prometheus.DefaultRegisterer.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithSessionHandler sets the callback invoked for each new session, after
// the hello but before any further client messages are processed. This is
// where a routing provider gets constructed and initialized.
func WithSessionHandler(fn func(*Session)) Option {
	return func(o *options) {
		o.onSession = fn
	}
}

// New creates a Bridge. A nil cfg means DefaultConfig().
func New(cfg *Config, opts ...Option) *Bridge {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	o := options{
		log:       slog.Default(),
		namespace: "navbridge",
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Bridge{
		cfg:     cfg,
		log:     o.log,
		metrics: newMetrics(o.namespace, o.registry),
		tracer:  otel.Tracer(tracerName),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
		onSession: o.onSession,
		sessions:  make(map[string]*Session),
	}
}

// Handler returns the WebSocket endpoint, for mounting on a chi router.
func (b *Bridge) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			b.log.Error("websocket upgrade failed", "error", err)
			return
		}

		conn.SetReadLimit(b.cfg.MaxMessageSize)
		conn.SetReadDeadline(time.Now().Add(b.cfg.HelloTimeout))

		var hello clientMessage
		if err := conn.ReadJSON(&hello); err != nil {
			b.log.Error("hello read failed", "error", err)
			conn.Close()
			return
		}
		if hello.Type != msgHello {
			b.log.Error("expected hello", "got", hello.Type)
			conn.Close()
			return
		}

		sess, err := newSession(conn, b.cfg, b.log, b.metrics, b.tracer, hello)
		if err != nil {
			b.log.Error("session setup failed", "error", err)
			conn.Close()
			return
		}

		b.mu.Lock()
		b.sessions[sess.ID()] = sess
		b.mu.Unlock()
		b.metrics.sessionsActive.Inc()

		sess.log.Info("session connected", "href", sess.snap.Href)

		// The provider attaches here, before the read loop starts, so no
		// popstate or click can slip past unobserved.
		if b.onSession != nil {
			b.onSession(sess)
		}

		go sess.pingLoop()
		sess.readLoop()

		b.mu.Lock()
		delete(b.sessions, sess.ID())
		b.mu.Unlock()
		b.metrics.sessionsActive.Dec()
		sess.log.Info("session closed")
	}
}

// SessionCount reports the number of connected sessions.
func (b *Bridge) SessionCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sessions)
}
