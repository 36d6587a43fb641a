// Package server exposes card rendering over HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness probe
//	GET  /api/card?tid=&format=&scale=
//	GET  /api/twitter?tid=        same as /api/card
//	POST /api/card/publish?tid=   render and upload, if a publisher is set
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/postcard/pkg/pipeline"
	"github.com/matzehuels/postcard/pkg/publish"
)

const (
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 60 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Renderer runs the card pipeline. [pipeline.Runner] implements it.
type Renderer interface {
	Execute(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error)
}

// Publisher uploads rendered cards. [publish.Publisher] implements it.
type Publisher interface {
	Publish(ctx context.Context, a publish.Artifact) (publish.Object, error)
}

// Server serves rendered cards.
type Server struct {
	renderer  Renderer
	publisher Publisher
	defaults  pipeline.Options
	logger    *log.Logger
}

// Option configures a [Server].
type Option func(*Server)

// WithPublisher enables the publish endpoint.
func WithPublisher(p Publisher) Option { return func(s *Server) { s.publisher = p } }

// WithDefaults sets render options applied to requests that omit them.
// The post id of defaults is ignored.
func WithDefaults(opts pipeline.Options) Option { return func(s *Server) { s.defaults = opts } }

// New creates a server around renderer.
func New(renderer Renderer, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{renderer: renderer, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/card", s.handleCard)
		r.Get("/twitter", s.handleCard)
		if s.publisher != nil {
			r.Post("/card/publish", s.handlePublish)
		}
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then drains open
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
