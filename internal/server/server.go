package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/SimonScharf/GoodWordsDictionary/internal/daily"
	"github.com/SimonScharf/GoodWordsDictionary/internal/dictionary"
	"github.com/SimonScharf/GoodWordsDictionary/internal/logging"
	"github.com/SimonScharf/GoodWordsDictionary/internal/store"
)

// DefaultAddr matches the port the mobile app expects
const DefaultAddr = ":3001"

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Server serves the JSON API
type Server struct {
	addr   string
	words  dictionary.Source
	engine *daily.Engine
	kv     store.Store
	logger *slog.Logger
}

// Option configures a Server
type Option func(*Server)

// WithAddr sets the listen address
func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// WithKV exposes kv under /api/kv
func WithKV(kv store.Store) Option {
	return func(s *Server) { s.kv = kv }
}

// WithLogger sets the access and error logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a server. POST /api/words needs words to implement
// dictionary.Editable; otherwise it answers 405.
func New(words dictionary.Source, engine *daily.Engine, opts ...Option) *Server {
	s := &Server{
		addr:   DefaultAddr,
		words:  words,
		engine: engine,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler with request IDs and access logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/words", s.handleListWords)
	mux.HandleFunc("POST /api/words", s.handleAddWord)
	mux.HandleFunc("GET /api/words/random", s.handleRandomWord)
	mux.HandleFunc("GET /api/words/{term}", s.handleGetWord)
	mux.HandleFunc("GET /api/today", s.handleToday)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("DELETE /api/history", s.handleClearHistory)
	if s.kv != nil {
		mux.HandleFunc("GET /api/kv/{key}", s.handleKVGet)
		mux.HandleFunc("PUT /api/kv/{key}", s.handleKVPut)
		mux.HandleFunc("DELETE /api/kv/{key}", s.handleKVDelete)
	}
	return s.withRequestID(s.withAccessLog(withCORS(mux)))
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dictionary server listening", "addr", ln.Addr().String())
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down dictionary server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
