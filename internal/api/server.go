// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tomaskal/hermes/internal/api/handler"
	"github.com/tomaskal/hermes/internal/api/middleware"
	"github.com/tomaskal/hermes/internal/hub"
	"github.com/tomaskal/hermes/internal/metrics"
	"github.com/tomaskal/hermes/internal/storage/chat"
	"go.uber.org/zap"
)

// Server represents the hermes HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	APIKey      string
	MetricsPath string
}

// Deps holds the collaborators the routes are wired to.
type Deps struct {
	Dispatcher handler.ChatDispatcher
	Store      chat.Store
	Hub        *hub.Hub
	Metrics    *metrics.Registry
}

// NewServer creates a new HTTP server.
func NewServer(cfg Config, deps Deps, logger *zap.Logger) (*Server, error) {
	if deps.Dispatcher == nil || deps.Store == nil || deps.Hub == nil {
		return nil, fmt.Errorf("dispatcher, store and hub are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		mux:    mux,
	}

	s.setupRoutes(cfg, deps)
	return s, nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes(cfg Config, deps Deps) {
	auth := middleware.APIKeyAuth(cfg.APIKey)

	chatHandler := handler.NewChatHandler(deps.Dispatcher)
	analyticsHandler := handler.NewAnalyticsHandler(deps.Store, s.logger)

	s.mux.Handle("/chat", auth(http.HandlerFunc(chatHandler.Chat)))
	s.mux.Handle("/analytics", auth(http.HandlerFunc(analyticsHandler.Analytics)))

	// The log stream authenticates in-band on its first frame.
	s.mux.HandleFunc("/ws/logs", deps.Hub.ServeWS)

	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if deps.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle(path, promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{}))
		s.httpServer.Handler = metrics.HTTPMiddleware(deps.Metrics, path)(s.mux)
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured handler chain, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"Welcome to the Multi-Model AI Automation Platform API"}`))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
