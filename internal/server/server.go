// Package server provides the HTTP server for the application.
// It handles server lifecycle, API routes, the purge job and graceful shutdown.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/evalplatform/evalreport/internal/api/router"
	"github.com/evalplatform/evalreport/internal/config"
	"github.com/evalplatform/evalreport/internal/report"
	"github.com/evalplatform/evalreport/internal/store"
	"github.com/evalplatform/evalreport/pkg/logger"
)

// HTTP server timeout configuration
const (
	defaultReadTimeout     = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 30 * time.Second
	defaultStopTimeout     = 5 * time.Second

	// PDF exports hold the connection while Chrome prints
	writeTimeoutSlack = 15 * time.Second
)

// Server represents the HTTP server
type Server struct {
	cfg        *config.Config
	httpServer *http.Server
	router     *gin.Engine
	store      store.Store
	exporter   *report.Exporter
	purge      *store.PurgeService
}

// New creates a new server instance
func New(cfg *config.Config, s store.Store, exp *report.Exporter) *Server {
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	srv := &Server{
		cfg:      cfg,
		router:   r,
		store:    s,
		exporter: exp,
	}
	if cfg.Retention.Enabled {
		srv.purge = store.NewPurgeService(s.SavedReport(), cfg.Retention.PurgeAfterDays, cfg.Retention.Schedule)
	}
	return srv
}

// SetupRoutes configures all API routes
func (s *Server) SetupRoutes() {
	router.Setup(s.router, s.cfg, s.store, s.exporter)
}

// writeTimeout leaves room for the slowest export
func (s *Server) writeTimeout() time.Duration {
	return report.PDFOptions(s.cfg.Export.PDF).Timeout + writeTimeoutSlack
}

// Start binds the listen address, serves in the background and starts the
// purge job. Bind errors are returned to the caller.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.Address(),
		Handler:      s.router,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: s.writeTimeout(),
		IdleTimeout:  defaultIdleTimeout,
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}

	logger.Info("Starting HTTP server",
		zap.String("address", ln.Addr().String()),
		zap.Bool("debug", s.cfg.Server.Debug),
	)

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server stopped unexpectedly", zap.Error(err))
		}
	}()

	if s.purge != nil {
		if err := s.purge.Start(); err != nil {
			logger.Warn("Saved report purge disabled", zap.Error(err))
			s.purge = nil
		}
	}
	return nil
}

// WaitForShutdown waits for shutdown signal and gracefully stops the server.
// First signal triggers graceful shutdown, second signal forces immediate exit.
func (s *Server) WaitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Info("Received shutdown signal, starting graceful shutdown (press Ctrl+C again to force exit)",
		zap.String("signal", sig.String()))

	go func() {
		sig := <-quit
		logger.Warn("Received second shutdown signal, forcing exit",
			zap.String("signal", sig.String()))
		os.Exit(1)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := s.shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// Stop stops the server immediately
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultStopTimeout)
	defer cancel()

	return s.shutdown(ctx)
}

func (s *Server) shutdown(ctx context.Context) error {
	if s.purge != nil {
		s.purge.Stop()
	}
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Router returns the underlying Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}
