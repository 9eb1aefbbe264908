// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-terminal/internal/backend"
	"github.com/your-org/pos-terminal/internal/config"
	"github.com/your-org/pos-terminal/internal/domain/cart"
	"github.com/your-org/pos-terminal/internal/domain/catalog"
	"github.com/your-org/pos-terminal/internal/domain/checkout"
	"github.com/your-org/pos-terminal/internal/domain/notify"
	"github.com/your-org/pos-terminal/internal/domain/session"
	redisdb "github.com/your-org/pos-terminal/internal/infrastructure/database/redis"
	"github.com/your-org/pos-terminal/internal/interfaces/http/middleware"
	"github.com/your-org/pos-terminal/internal/interfaces/http/routes"
	"github.com/your-org/pos-terminal/internal/pkg/auth"
	"github.com/your-org/pos-terminal/internal/pkg/logging"
	"github.com/your-org/pos-terminal/internal/pkg/receipt"
)

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	logger     *logrus.Logger
	gin        *gin.Engine
	httpServer *http.Server
	redis      *redisdb.Client
	deps       *routes.Deps
}

// NewServer creates a new HTTP server instance and wires the services
func NewServer(cfg *config.Config, redisClient *redisdb.Client) *Server {
	logger := logging.NewLogger(cfg)

	jwtManager := auth.NewJWTManager(cfg)
	backendClient := backend.NewClient(cfg, logger)

	notifier := notify.NewService(cfg.POS.NotifyBacklog)
	carts := cart.NewService(notifier, logger, cfg.POS.CartIdleTTL)
	catalogService := catalog.NewService(backendClient, redisClient, logger, cfg.POS.CatalogCacheTTL)

	sessionStore := session.NewRedisStore(redisClient.GetClient())
	sessions := session.NewService(backendClient, sessionStore, jwtManager, logger, cfg.JWT.SessionExpiry)

	guard := checkout.NewRedisGuard(redisClient.GetClient(), cfg.POS.CheckoutLockTTL, cfg.POS.GatewayTTL)
	checkoutService := checkout.NewService(backendClient, carts, catalogService, guard, notifier, logger)

	return &Server{
		config: cfg,
		logger: logger,
		redis:  redisClient,
		deps: &routes.Deps{
			Config:   cfg,
			Logger:   logger,
			JWT:      jwtManager,
			Sessions: sessions,
			Backend:  backendClient,
			Catalog:  catalogService,
			Carts:    carts,
			Checkout: checkoutService,
			Notifier: notifier,
			Receipts: receipt.NewService(cfg),
		},
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	s.gin = gin.New()

	if len(s.config.Security.TrustedProxies) > 0 {
		if err := s.gin.SetTrustedProxies(s.config.Security.TrustedProxies); err != nil {
			return fmt.Errorf("failed to set trusted proxies: %w", err)
		}
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.WithFields(logrus.Fields{
		"port":        s.config.Server.Port,
		"environment": s.config.App.Environment,
		"backend":     s.config.Backend.BaseURL,
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.Logger(s.config))
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.CORS(s.config))
	s.gin.Use(middleware.SecurityHeaders())
	s.gin.Use(middleware.RateLimit(s.config, s.redis.GetClient()))
	s.gin.Use(middleware.RequestSizeLimit(10 << 20)) // 10MB limit
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	apiV1 := s.gin.Group("/api/v1")

	routes.SetupAuthRoutes(apiV1, s.deps)
	routes.SetupPOSRoutes(apiV1, s.deps)
	routes.SetupProductRoutes(apiV1, s.deps)
	routes.SetupCategoryRoutes(apiV1, s.deps)
	routes.SetupTransactionRoutes(apiV1, s.deps)
	routes.SetupUserRoutes(apiV1, s.deps)
	routes.SetupDashboardRoutes(apiV1, s.deps)
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.redis.GetClient().Ping(ctx).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "redis ping failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck reports whether the instance can serve terminals:
// both redis and the upstream API must be reachable
func (s *Server) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.redis.GetClient().Ping(ctx).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  "redis ping failed",
		})
		return
	}

	if err := s.deps.Backend.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  "backend unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
	})
}
