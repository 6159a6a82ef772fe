package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/curvelab/backend/internal/api/http"
	"github.com/curvelab/backend/internal/api/middleware"
	"github.com/curvelab/backend/internal/config"
	"github.com/curvelab/backend/internal/logging"
	"github.com/curvelab/backend/internal/monitoring"
	"github.com/curvelab/backend/internal/providers/analysis"
	"github.com/curvelab/backend/internal/service"
)

// Server wraps the HTTP server and its dependencies
type Server struct {
	router   *gin.Engine
	registry *service.Registry
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger := logging.NewWithLevel(cfg.Logging.Level, cfg.Logging.Development)

	logger.Info("Initializing analysis server",
		zap.String("port", cfg.Server.Port),
		zap.Float64("window_lo", cfg.Analysis.WindowLo),
		zap.Float64("window_hi", cfg.Analysis.WindowHi),
	)

	metrics := monitoring.NewMetrics()

	serviceRegistry := service.NewRegistry()
	if err := registerProviders(serviceRegistry, cfg, logger, metrics); err != nil {
		return nil, err
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := http.NewHandlers(serviceRegistry, logger)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Analysis operations
	router.POST("/analyze", handlers.Analyze)
	router.POST("/summarize", handlers.Summarize)

	// Service management
	router.GET("/services", handlers.ListServices)
	router.POST("/services/execute", handlers.ExecuteService)

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		registry: serviceRegistry,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")
	s.logger.Sync()
	return nil
}

func registerProviders(registry *service.Registry, cfg *config.Config, logger *logging.Logger, metrics *monitoring.Metrics) error {
	provider := analysis.NewProviderWithWindow(logger, cfg.Analysis.WindowLo, cfg.Analysis.WindowHi).
		WithMetrics(metrics)
	if err := registry.Register(provider); err != nil {
		return err
	}

	stats := registry.Stats()
	logger.Info("Registered service providers",
		zap.Any("total_services", stats["total_services"]),
		zap.Any("total_tools", stats["total_tools"]),
	)
	return nil
}
