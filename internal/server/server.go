// Package server exposes the HTTP query/command surface over the directory
// store and the calendar client. It performs no reconciliation logic.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"axis/internal/models"
	"axis/internal/observability"
	"axis/internal/store"
)

// Calendar is the slice of the calendar provider the API consumes.
type Calendar interface {
	InsertEvent(ctx context.Context, calendarID string, input models.EventInput) (string, error)
}

// Server is the HTTP API over the employee directory.
type Server struct {
	logger   *slog.Logger
	store    store.Store
	calendar Calendar
	engine   *gin.Engine
}

// New builds the API server and registers all routes.
func New(logger *slog.Logger, st store.Store, cal Calendar) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		observability.RequestLogger(logger),
		observability.RequestMetrics(),
	)

	s := &Server{logger: logger, store: st, calendar: cal, engine: engine}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine.GET("/employees", s.listEmployees)
	s.engine.GET("/status", s.getStatus)
	s.engine.POST("/schedule_meeting", s.scheduleMeeting)
	s.engine.POST("/suggest_employees", s.suggestEmployees)
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("HTTP server listening.", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("HTTP server stopped.")
	return nil
}

// serverError hides internal causes from API callers; the cause is logged
// server-side only.
func (s *Server) serverError(c *gin.Context, err error) {
	s.logger.Error("Request failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func (s *Server) notFoundOrServerError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
		return
	}
	s.serverError(c, err)
}
