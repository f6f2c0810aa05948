// Package server exposes the demo graphs and their transformations over
// HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness probe
//	GET  /demos                   demo summaries
//	GET  /demos/{name}            graph in the JSON node-link format
//	GET  /demos/{name}/symbols    free symbols of the outputs
//	GET  /demos/{name}/cse        hoisted definitions and rewritten outputs
//	GET  /demos/{name}/dot        Graphviz source (?detailed, ?regions)
//	GET  /demos/{name}/svg        rendered SVG through the artifact cache (?refresh)
//	POST /cse                     CSE of a graph posted in the JSON format
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/symgraph/pkg/expr/transform"
	"github.com/matzehuels/symgraph/pkg/pipeline"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second

	// maxBodyBytes bounds posted graphs.
	maxBodyBytes = 4 << 20
)

// Options configures a Server. Zero values select a discarding logger,
// an uncached runner and the default CSE prefix.
type Options struct {
	Logger *log.Logger
	Runner *pipeline.Runner
	NoMemo bool
	Prefix string
	Suffix string
}

// Server serves demo graphs over HTTP.
type Server struct {
	opts Options
}

// New returns a server with opts applied over the defaults.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger, 0)
	}
	if opts.Prefix == "" && opts.Suffix == "" {
		opts.Prefix = transform.DefaultSharedPrefix
	}
	return &Server{opts: opts}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.opts.Logger))

	r.Get("/healthz", s.handleHealth)
	r.Post("/cse", s.handlePostCSE)
	r.Route("/demos", func(r chi.Router) {
		r.Get("/", s.handleDemos)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleGraph)
			r.Get("/symbols", s.handleSymbols)
			r.Get("/cse", s.handleCSE)
			r.Get("/dot", s.handleDOT)
			r.Get("/svg", s.handleSVG)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("Server starting", "address", "http://"+addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.opts.Logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.opts.Logger.Error("Server shutdown failed", "err", err)
		return err
	}
	return nil
}

// requestLogger logs each request at debug level.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
