package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/config"
	"github.com/mentorlink/mentorlink-api/internal/cache"
	"github.com/mentorlink/mentorlink-api/internal/handlers"
	"github.com/mentorlink/mentorlink-api/internal/middleware"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	"github.com/mentorlink/mentorlink-api/internal/services"
	"github.com/mentorlink/mentorlink-api/pkg/db"
	"github.com/mentorlink/mentorlink-api/pkg/jwt"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	"github.com/mentorlink/mentorlink-api/pkg/profiling"
	"github.com/mentorlink/mentorlink-api/pkg/storage"
	"github.com/mentorlink/mentorlink-api/pkg/tracing"
)

// registerRoutes wires all API routes onto the router
func registerRoutes(
	router *gin.Engine,
	generalRateLimiter, authRateLimiter, uploadRateLimiter *middleware.RateLimiter,
	sessionMiddleware gin.HandlerFunc,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	mentorHandler *handlers.MentorHandler,
	requestHandler *handlers.RequestHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Utility endpoints (not versioned - operational endpoints)
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// Authentication routes (public)
	auth := router.Group("/api/v1/auth")
	auth.POST("/signup", authRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), authHandler.Signup)
	auth.POST("/login", authRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), authHandler.Login)
	auth.POST("/logout", sessionMiddleware, authHandler.Logout)

	// Protected routes
	v1 := router.Group("/api/v1")
	v1.Use(generalRateLimiter.Middleware(), sessionMiddleware)

	v1.GET("/me", authHandler.Me)
	v1.PUT("/me", middleware.BodySizeLimitMiddleware(100*1024), profileHandler.UpdateProfile)
	v1.PUT("/me/image", uploadRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(2*1024*1024), profileHandler.UpdateImage)

	v1.GET("/mentors", mentorHandler.ListMentors)

	v1.POST("/requests", middleware.BodySizeLimitMiddleware(100*1024), requestHandler.Create)
	v1.GET("/requests", requestHandler.List)
	v1.PUT("/requests/:id/status", middleware.BodySizeLimitMiddleware(10*1024), requestHandler.UpdateStatus)
	v1.DELETE("/requests/:id", requestHandler.Delete)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting MentorLink API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.CollectorEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Initialize continuous profiling
	profilerStop, err := profiling.InitProfiler(
		cfg.Profiling,
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
	)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer profilerStop()

	// Initialize metrics with service name from config
	metrics.Init(cfg.Observability.ServiceName)
	metrics.RecordInfrastructureMetrics()

	// Initialize PostgreSQL connection pool
	pool, err := db.NewPool(context.Background(), db.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer pool.Close()

	// NOTE: Database migrations run separately via the migrate command

	// Initialize object storage client for profile images. Left unset when
	// credentials are absent; image uploads then fail with a typed error
	// instead of reaching a dead client.
	var storageClient services.StorageClientInterface
	if cfg.Storage.AccessKeyID != "" && cfg.Storage.SecretAccessKey != "" {
		client, clientErr := storage.NewClient(
			cfg.Storage.AccessKeyID,
			cfg.Storage.SecretAccessKey,
			cfg.Storage.BucketName,
			cfg.Storage.Endpoint,
			cfg.Storage.Region,
		)
		if clientErr != nil {
			logger.Fatal("Failed to initialize storage client", zap.Error(clientErr))
		}
		storageClient = client
	} else {
		logger.Warn("Object storage credentials not set, image uploads disabled")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)
	requestRepo := repository.NewConnectionRequestRepository(pool)

	// Initialize mentor directory cache synchronously before accepting
	// requests, so the container is only marked healthy once populated
	mentorCache := cache.NewMentorCache(userRepo, cfg.Cache.MentorTTLSeconds)
	if err := mentorCache.Initialize(); err != nil {
		logger.Fatal("Failed to initialize mentor cache", zap.Error(err))
	}

	// Initialize services
	tokenManager := jwt.NewTokenManager(cfg.Session.JWTSecret, cfg.Session.JWTIssuer, cfg.Session.TTLHours)
	authService := services.NewAuthService(userRepo, tokenManager)
	directoryService := services.NewDirectoryService(userRepo, mentorCache, storageClient)
	requestService := services.NewRequestService(requestRepo, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(directoryService)
	mentorHandler := handlers.NewMentorHandler(directoryService)
	requestHandler := handlers.NewRequestHandler(requestService)
	healthHandler := handlers.NewHealthHandler(pool, mentorCache.IsReady)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS: only allow the configured origins
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiters with different limits per endpoint class
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	authRateLimiter := middleware.NewRateLimiter(1, 5)        // 1 req/sec, burst of 5 (credential abuse prevention)
	uploadRateLimiter := middleware.NewRateLimiter(2, 4)      // 2 req/sec, burst of 4

	sessionMiddleware := middleware.SessionMiddleware(authService)

	registerRoutes(router, generalRateLimiter, authRateLimiter, uploadRateLimiter, sessionMiddleware,
		authHandler, profileHandler, mentorHandler, requestHandler, healthHandler)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
