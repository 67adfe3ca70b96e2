// Package server exposes the suggestion pipeline over a local JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kamusis/shellsage/internal/app"
)

const (
	serviceName     = "ShellSage API"
	maxBodyBytes    = 8 << 20
	shutdownTimeout = 5 * time.Second
)

// Server routes HTTP requests to the shared Services.
type Server struct {
	svc     *app.Services
	version string
	log     *zap.Logger
	mux     *http.ServeMux
}

// New returns a Server backed by svc.
func New(svc *app.Services, version string) *Server {
	s := &Server{
		svc:     svc,
		version: version,
		log:     svc.Log.Named("server"),
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /stats", s.handleStats)
	s.mux.HandleFunc("POST /suggest", s.handleSuggest)
	s.mux.HandleFunc("POST /fix-error", s.handleFixError)
	s.mux.HandleFunc("POST /rebuild-index", s.handleRebuildIndex)
	s.mux.HandleFunc("POST /add-commands", s.handleAddCommands)
}

// Handler returns the root handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.mux)
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("cannot listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-errCh
	s.log.Info("server stopped")
	return nil
}
