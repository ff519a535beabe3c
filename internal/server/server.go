// Package server exposes song generation over a small HTTP API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dygy/songforge/internal/generate"
	"github.com/dygy/songforge/internal/library"
)

// Config holds server configuration
type Config struct {
	Port int
}

// Server is the HTTP server
type Server struct {
	config    Config
	router    *chi.Mux
	logger    *slog.Logger
	generator *generate.Generator
	lib       *library.Library
}

// New creates a new server
func New(cfg Config, gen *generate.Generator, lib *library.Library) *Server {
	s := &Server{
		config:    cfg,
		router:    chi.NewRouter(),
		logger:    slog.New(slog.NewTextHandler(os.Stdout, nil)),
		generator: gen,
		lib:       lib,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)

	r.Get("/api/templates", s.handleTemplates)
	r.Get("/api/songs", s.handleListSongs)
	r.Post("/api/songs", s.handleCreateSong)
	r.Get("/api/songs/{id}", s.handleGetSong)
	r.Get("/api/songs/{id}/wav", s.handleDownloadWAV)
}

// ServeHTTP makes the server usable as a plain http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run starts the server and blocks until shutdown
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // generation and WAV downloads can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		s.logger.Info("shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	s.logger.Info("server starting", slog.Int("port", s.config.Port))

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	<-done
	return nil
}
