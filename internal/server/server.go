// Package server serves the prebuilt dashboard page.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hub-dashboard/internal/logging"
	"hub-dashboard/internal/metrics"
	"hub-dashboard/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	shutdownTimeout = 5 * time.Second
)

type Options struct {
	Addr  string
	Debug bool
	// Metrics, when set, is exposed at /metrics and counts page views.
	Metrics *metrics.Metrics
}

type Server struct {
	opts   Options
	page   *view.Page
	log    *zap.Logger
	engine *gin.Engine
}

// New wires the routes for page. The page is never rebuilt; every request
// gets the same content.
func New(page *view.Page, opts Options, log *zap.Logger) *Server {
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), logging.Access(log))
	r.SetHTMLTemplate(view.Templates())

	s := &Server{opts: opts, page: page, log: log, engine: r}
	r.GET("/", s.index)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	return s
}

// Handler returns the routed engine.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) index(c *gin.Context) {
	etag := `"` + s.page.ID + `"`
	if c.GetHeader("If-None-Match") == etag {
		if s.opts.Metrics != nil {
			s.opts.Metrics.NotModified.Inc()
		}
		c.Status(http.StatusNotModified)
		return
	}
	if s.opts.Metrics != nil {
		s.opts.Metrics.PageViews.Inc()
	}
	c.Header("ETag", etag)
	c.HTML(http.StatusOK, view.PageTemplate, s.page)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.opts.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// requestID reuses an incoming X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(logging.RequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
