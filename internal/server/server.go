// Package server previews a generated site over HTTP. It is meant for
// authoring loops: regenerate, refresh the browser, repeat.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves a generated document tree.
type Server struct {
	dir    string
	addr   string
	logger *slog.Logger

	registry *prometheus.Registry
	requests *prometheus.CounterVec
	pages    prometheus.Gauge
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address. Defaults to ":8080".
func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New builds a preview server over dir.
func New(dir string, opts ...Option) *Server {
	s := &Server{
		dir:      dir,
		addr:     ":8080",
		registry: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dichokey_http_requests_total",
		Help: "Requests served by the preview server, by status class.",
	}, []string{"code"})
	s.pages = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dichokey_site_pages",
		Help: "HTML pages present in the served directory.",
	})
	s.registry.MustRegister(s.requests, s.pages)
	s.pages.Set(float64(countPages(dir)))

	return s
}

// Handler assembles the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.measure)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Handle("/*", http.FileServer(http.Dir(s.dir)))
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", s.addr, "dir", s.dir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// measure wraps the chi WrapResponseWriter to count responses per status
// class.
func (s *Server) measure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.requests.WithLabelValues(statusClass(ww.Status())).Inc()
	})
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

func countPages(dir string) int {
	count := 0
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	for _, e := range entries {
		if !e.IsDir() && hasHTMLSuffix(e.Name()) {
			count++
		}
		if e.IsDir() {
			if sub, err := os.ReadDir(dir + "/" + e.Name()); err == nil {
				for _, se := range sub {
					if !se.IsDir() && hasHTMLSuffix(se.Name()) {
						count++
					}
				}
			}
		}
	}
	return count
}

func hasHTMLSuffix(name string) bool {
	return len(name) > 5 && name[len(name)-5:] == ".html"
}
