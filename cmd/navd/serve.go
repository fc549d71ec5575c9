package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/mohe2015/leptos/pkg/bridge"
	"github.com/mohe2015/leptos/pkg/history"
	"github.com/mohe2015/leptos/pkg/location"
	"github.com/mohe2015/leptos/pkg/platform"
	"github.com/mohe2015/leptos/pkg/reactive"
)

func serveCmd() *cobra.Command {
	var (
		addr     string
		hashMode bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the navigation bridge server",
		Long: `Start the HTTP server: the demo page, the WebSocket bridge
endpoint, and Prometheus metrics under /metrics.

Examples:
  navd serve
  navd serve --addr=:3000
  navd serve --hash`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, hashMode)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on")
	cmd.Flags().BoolVar(&hashMode, "hash", false, "Use hash-based routing instead of path-based")

	return cmd
}

func runServe(addr string, hashMode bool) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	b := bridge.New(nil,
		bridge.WithLogger(log),
		bridge.WithSessionHandler(func(s *bridge.Session) {
			attachProvider(s, hashMode, log)
		}),
	)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Get("/bridge", b.Handler())
	r.Handle("/metrics", promhttp.Handler())
	// Deep links in path mode land on arbitrary paths; every one of them
	// serves the app shell.
	r.NotFound(servePage)

	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr, "hash_mode", hashMode)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// sessionWindow is the slice of bridge.Session that attachProvider needs.
type sessionWindow interface {
	platform.Window
	ID() string
	Close()
}

// attachProvider wires a routing provider to a freshly connected tab. The
// demo has no data layer, so a short timer stands in for route loading
// before each pending navigation is allowed to commit.
func attachProvider(s sessionWindow, hashMode bool, log *slog.Logger) {
	var (
		p   history.Provider
		err error
	)
	if hashMode {
		p, err = history.NewHashRouter(s, history.WithLogger(log))
	} else {
		p, err = history.NewBrowserRouter(s, history.WithLogger(log))
	}
	if err != nil {
		log.Error("provider setup failed", "session_id", s.ID(), "error", err)
		s.Close()
		return
	}

	p.Init("")

	reactive.NewEffect(func() reactive.Cleanup {
		u := p.URL().Get().Forget(location.RouterSpace{})
		log.Info("url changed",
			"session_id", s.ID(),
			"path", u.FullPath(),
			"back", p.IsBack().Peek())
		time.AfterFunc(10*time.Millisecond, p.ReadyToComplete)
		return nil
	})
}
