package diagnostics

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kbukum/flowpipe/component"
	"github.com/kbukum/flowpipe/logger"
)

const componentName = "diagnostics"

var _ component.Component = (*Server)(nil)

// Server serves the diagnostics endpoints. It is a component.Component so
// it can be started and stopped with the pipes it describes.
type Server struct {
	cfg        Config
	engine     *gin.Engine
	httpServer *http.Server
	log        *logger.Logger

	mu      sync.Mutex
	addr    net.Addr
	serving bool
}

// New builds a server over reg. checker may be nil, in which case /health
// always reports healthy.
func New(cfg Config, serviceName string, reg *Registry, checker HealthChecker, log *logger.Logger) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	log = log.WithComponent(componentName)

	engine := gin.New()
	engine.Use(recovery(log), requestLogger(log))
	engine.GET("/pipes", listPipes(reg))
	engine.GET("/pipes/:name", getPipe(reg))
	engine.GET("/health", health(serviceName, checker))
	engine.GET("/version", versionInfo())

	return &Server{
		cfg:    cfg,
		engine: engine,
		log:    log,
		httpServer: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Handler returns the HTTP handler serving the endpoints.
func (s *Server) Handler() http.Handler { return s.engine }

// Name returns the component name used for registration.
func (s *Server) Name() string { return componentName }

// Start binds the listen address and serves on a separate goroutine. It
// returns once the listener is bound.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("diagnostics failed to bind %s: %w", s.httpServer.Addr, err)
	}

	s.mu.Lock()
	s.addr = listener.Addr()
	s.serving = true
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("diagnostics server error", logger.Fields(logger.FieldError, err.Error()))
		}
		s.mu.Lock()
		s.serving = false
		s.mu.Unlock()
	}()

	s.log.Info("diagnostics server started", logger.Fields("addr", listener.Addr().String()))
	return nil
}

// Stop gracefully shuts the server down with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("diagnostics shutdown error: %w", err)
	}
	s.mu.Lock()
	s.serving = false
	s.mu.Unlock()

	s.log.Info("diagnostics server stopped")
	return nil
}

// Health reports whether the server is accepting connections.
func (s *Server) Health(_ context.Context) component.Health {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.serving {
		return component.Health{Name: componentName, Status: component.StatusHealthy}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusUnhealthy,
		Message: "not serving",
	}
}

// Addr returns the bound address once started, or the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.addr != nil {
		return s.addr.String()
	}
	return s.httpServer.Addr
}
