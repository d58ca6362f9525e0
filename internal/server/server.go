// Package server exposes pages over HTTP.
//
// Routes:
//
//	GET  /api/health                      liveness, uptime and build info
//	GET  /api/1/pages/{key}               stored document
//	PUT  /api/1/pages/{key}               replace the document
//	POST /api/1/pages/{key}/move          apply a drop by position
//	POST /api/1/pages/{key}/items         append a shortcut
//
// Anything else is served from the static directory when one is set.
package server

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/startpage/pkg/errors"
	"github.com/matzehuels/startpage/pkg/kind"
	"github.com/matzehuels/startpage/pkg/store"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Config configures the HTTP server.
type Config struct {
	Addr      string `toml:"addr"`
	StaticDir string `toml:"static_dir"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// DefaultConfig listens on :8080 without static files.
func DefaultConfig() Config {
	return Config{Addr: ":8080", ShutdownTimeout: 10 * time.Second}
}

// Server serves pages from a store.
type Server struct {
	cfg     Config
	store   store.Store
	kinds   *kind.Registry
	logger  *log.Logger
	started time.Time
	router  chi.Router

	// mu serialises read-modify-write cycles per page.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New builds a server. A nil registry uses kind.DefaultRegistry, a nil
// logger log.Default.
func New(s store.Store, kinds *kind.Registry, cfg Config, logger *log.Logger) *Server {
	if kinds == nil {
		kinds = kind.DefaultRegistry()
	}
	if logger == nil {
		logger = log.Default()
	}
	srv := &Server{
		cfg:     cfg,
		store:   s,
		kinds:   kinds,
		logger:  logger,
		started: time.Now(),
		locks:   make(map[string]*sync.Mutex),
	}
	srv.router = srv.routes()
	return srv
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/api/health", s.handleHealth)
	r.Route("/api/1/pages/{key}", func(r chi.Router) {
		r.Use(pageKey)
		r.Get("/", s.handleGetPage)
		r.Put("/", s.handlePutPage)
		r.Post("/move", s.handleMove)
		r.Post("/items", s.handleAddItem)
	})

	if s.cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	hs := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "static", s.cfg.StaticDir)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().ShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !goerrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// lock returns the mutex guarding key.
func (s *Server) lock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	return m
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "request_id", w.Header().Get(requestIDHeader), "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
