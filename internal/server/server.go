// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package server implements the HTTP interface of the sunlight estimation service.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/wneessen/sunspot/internal/config"
	"github.com/wneessen/sunspot/internal/logger"
	"github.com/wneessen/sunspot/internal/metrics"
	"github.com/wneessen/sunspot/internal/presenter"
	"github.com/wneessen/sunspot/internal/service"
)

const (
	readHeaderTimeout = time.Second * 5
	corsMaxAge        = 300
)

// Estimator is implemented by service.Service.
type Estimator interface {
	Estimate(ctx context.Context, req service.Request) (*service.Report, error)
}

type Server struct {
	config    *config.Config
	logger    *logger.Logger
	estimator Estimator
	metrics   *metrics.Metrics
	presenter *presenter.Presenter
	version   string
}

// New returns a Server. m may be nil, in which case no metrics are collected or exposed.
func New(conf *config.Config, log *logger.Logger, estimator Estimator, m *metrics.Metrics, version string) *Server {
	return &Server{
		config:    conf,
		logger:    log,
		estimator: estimator,
		metrics:   m,
		presenter: presenter.New(),
		version:   version,
	}
}

// Router returns the HTTP handler with all routes and middlewares.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(s.logger.AccessLog)
	router.Use(middleware.Recoverer)
	if s.metrics != nil {
		router.Use(s.metrics.Middleware)
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         corsMaxAge,
	}))

	router.Get("/", s.handleIndex)
	router.Get("/healthz", s.handleHealth)
	router.Post("/api/sunlight", s.handleSunlight)
	if s.metrics != nil {
		router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	return router
}

// Run listens on the configured address and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Server.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.Address, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is canceled and then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadTimeout:       s.config.Server.ReadTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      s.config.Server.WriteTimeout,
		IdleTimeout:       s.config.Server.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", slog.String("address", listener.Addr().String()))
		errChan <- srv.Serve(listener)
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	return nil
}
