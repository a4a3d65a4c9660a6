// Package server exposes the stylometer operations over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/stylometer/internal/metrics"
	"github.com/ppiankov/stylometer/internal/model"
	"github.com/ppiankov/stylometer/internal/upload"
)

// Service is the operation set served by the API. pipeline.Pipeline implements it.
type Service interface {
	Score(ctx context.Context, input string) (*model.Detection, error)
	Humanize(ctx context.Context, input string, intensity model.Intensity) (*model.Rewrite, error)
	RemovePhrasing(ctx context.Context, input string) (*model.Rewrite, error)
	ProviderName() string
}

// Options configures a Server
type Options struct {
	Store          upload.Store     // Required for document uploads
	Metrics        *metrics.Metrics // nil disables /metrics
	Logger         *zap.Logger
	MaxUploadBytes int64
}

// Server is the HTTP front end
type Server struct {
	service   Service
	store     upload.Store
	metrics   *metrics.Metrics
	logger    *zap.Logger
	maxUpload int64
	engine    *gin.Engine
}

// New creates a server and registers its routes
func New(service Service, opts Options) *Server {
	s := &Server{
		service:   service,
		store:     opts.Store,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		maxUpload: opts.MaxUploadBytes,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.store == nil {
		s.store = upload.NewMemoryStore(time.Hour, 10*time.Minute)
	}
	if s.maxUpload <= 0 {
		s.maxUpload = 10 << 20
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), s.observe(), s.limitBody())

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	api := r.Group("/api")
	api.POST("/detect-text", s.detectText)
	api.POST("/humanize-text", s.humanizeText)
	api.POST("/remove-ai-text", s.removeAIText)

	r.GET(upload.URLPrefix+":key", s.download)
	r.GET("/healthz", s.healthz)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	return r
}

// observe records every request once the handler chain has finished
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		if s.metrics != nil {
			s.metrics.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), elapsed)
		}
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", elapsed),
		)
	}
}

func (s *Server) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)
		}
		c.Next()
	}
}

func (s *Server) healthz(c *gin.Context) {
	provider := s.service.ProviderName()
	if provider == "" {
		provider = "none"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "provider": provider})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln, shutdownTimeout)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server started", zap.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
