package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/muliwe/go-triangle-classifier/internal/classifier"
	"github.com/muliwe/go-triangle-classifier/internal/logger"
)

// Config holds server configuration
type Config struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	EnableDebug     bool          `yaml:"debug"`
	EnableMetrics   bool          `yaml:"metrics"`
	LoggerConfig    logger.Config `yaml:"log"`

	ClassifierCfg classifier.Config `yaml:"-"`

	// TLS configuration
	TLSEnabled  bool   `yaml:"tls"`
	TLSCertFile string `yaml:"tls_cert"`
	TLSKeyFile  string `yaml:"tls_key"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		EnableDebug:     false,
		EnableMetrics:   true,
		LoggerConfig:    logger.DefaultConfig(),
		ClassifierCfg:   classifier.DefaultConfig(),
		TLSEnabled:      false,
	}
}

// Server represents the HTTP server
type Server struct {
	cfg        Config
	httpServer *http.Server
	handler    *Handler
	logger     *logger.Logger
	log        *zap.Logger
}

// New creates a new server instance
func New(cfg Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	// Initialize request log
	l, err := logger.New(cfg.LoggerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	clf := classifier.New(cfg.ClassifierCfg)
	handler := NewHandler(clf, l, log, NewMetrics(reg))
	handler.SetDebug(cfg.EnableDebug)

	// Setup routes
	mux := http.NewServeMux()
	mux.HandleFunc("/", handler.HandleClassify)
	mux.HandleFunc("/classify", handler.HandleClassify)
	mux.HandleFunc("/health", handler.HandleHealth)
	mux.HandleFunc("/debug", handler.HandleDebug)
	if cfg.EnableMetrics {
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	if cfg.TLSEnabled {
		httpServer.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			NextProtos: []string{"h2", "http/1.1"},
		}
	}

	return &Server{
		cfg:        cfg,
		httpServer: httpServer,
		handler:    handler,
		logger:     l,
		log:        log,
	}, nil
}

// Handler returns the routed HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// SetDebug toggles the debug endpoint at runtime
func (s *Server) SetDebug(enabled bool) {
	s.handler.SetDebug(enabled)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		_ = s.logger.Close()
		return fmt.Errorf("failed to create TCP listener: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	protocol := "HTTP"
	if s.cfg.TLSEnabled {
		protocol = "HTTPS"
	}
	s.log.Info("Triangle Classifier Server starting",
		zap.String("addr", ln.Addr().String()),
		zap.String("protocol", protocol),
		zap.String("version", version),
		zap.Bool("debug", s.handler.DebugEnabled()),
		zap.Bool("metrics", s.cfg.EnableMetrics),
		zap.String("request_log", s.logger.LogPath()),
	)

	errCh := make(chan error, 1)
	go func() {
		var err error
		if s.cfg.TLSEnabled {
			s.log.Info("TLS enabled", zap.String("cert", s.cfg.TLSCertFile))
			err = s.httpServer.ServeTLS(ln, s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
		} else {
			err = s.httpServer.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = s.logger.Close()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	s.log.Info("Server shutting down...")
	if err := s.Close(); err != nil {
		return err
	}
	s.log.Info("Server stopped")
	return nil
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := s.logger.Close(); err != nil {
		s.log.Error("Error closing logger", zap.Error(err))
	}
	return nil
}
