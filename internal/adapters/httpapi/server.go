package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikey/llm-outreach/internal/config"
	"github.com/mikey/llm-outreach/internal/metrics"
	"go.uber.org/zap"
)

// Server exposes the generate and send endpoints over HTTP
type Server struct {
	cfg        config.ServerConfig
	logger     *zap.Logger
	router     *gin.Engine
	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates the router and registers the routes. m may be nil, in
// which case no metrics are collected or exposed.
func NewServer(
	cfg config.ServerConfig,
	logger *zap.Logger,
	generator Generator,
	sender Sender,
	m *metrics.Metrics,
) (*Server, error) {
	switch cfg.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Mode)
	case "":
		gin.SetMode(gin.ReleaseMode)
	default:
		return nil, fmt.Errorf("unsupported server mode: %s", cfg.Mode)
	}

	corsHandler, err := corsMiddleware(cfg.AllowedOrigins)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))
	router.Use(corsHandler)

	h := &handlers{
		generator: generator,
		sender:    sender,
	}

	if m != nil && cfg.MetricsEnabled {
		router.Use(m.GinMiddleware())
		h.failures = m
		router.GET(cfg.MetricsPath, gin.WrapH(m.Handler()))
	}

	router.GET("/health", h.health)
	router.POST("/generate", h.generate)
	router.POST("/send", h.send)

	return &Server{
		cfg:    cfg,
		logger: logger,
		router: router,
	}, nil
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the listen address and serves in a goroutine
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.ListenAddress, err)
	}
	s.listener = l

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("HTTP server starting", zap.String("address", l.Addr().String()))

	go func() {
		if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Addr returns the bound address once the server has started
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts the server down, waiting for in-flight requests
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}
