// Package server exposes the transpiler over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"mesozoic/internal/driver"
	"mesozoic/transpile"
)

// DefaultMaxBody limits request bodies when Config.MaxBodyBytes is zero.
const DefaultMaxBody = 8 << 20

// Config configures a Server.
type Config struct {
	// Addr is the listen address, ":8080" when empty.
	Addr string
	// Options are the defaults every request starts from; query parameters
	// override them.
	Options      transpile.Options
	MaxBodyBytes int64
	// MemoEntries bounds the in-memory result cache; 0 means the driver default.
	MemoEntries int
	// ShutdownTimeout bounds graceful shutdown, 5s when zero.
	ShutdownTimeout time.Duration
	Logger          *zap.Logger
	Version         string
}

// Server serves POST /transpile, GET /healthz and GET /metrics.
type Server struct {
	cfg     Config
	log     *zap.Logger
	memo    *driver.Memo
	metrics *metrics
	router  chi.Router
	started time.Time
}

// New builds a Server and its router.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBody
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	memo := driver.NewMemo(cfg.MemoEntries)
	s := &Server{
		cfg:     cfg,
		log:     log,
		memo:    memo,
		metrics: newMetrics(memo),
		started: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Post("/transpile", s.handleTranspile)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())
	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Memo exposes the result cache shared by all requests.
func (s *Server) Memo() *driver.Memo { return s.memo }

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(s.log.Named("http")),
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("ready", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// logRequests пишет одну строку zap на запрос.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			var route string
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			s.metrics.observeRequest(route, ww.Status())
			s.log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("remote", r.RemoteAddr),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
