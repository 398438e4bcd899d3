package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/plancare/plansale-backend/internal/access"
	"github.com/plancare/plansale-backend/internal/config"
	"github.com/plancare/plansale-backend/internal/database"
	"github.com/plancare/plansale-backend/internal/handlers"
	"github.com/plancare/plansale-backend/internal/middleware"
	"github.com/plancare/plansale-backend/internal/services"
	"github.com/plancare/plansale-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting plan sale backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	logger.Info("Connecting to database...")
	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.NewConnection(connectCtx, cfg.Database)
	cancel()
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	router, err := setupRouter(cfg, db, logger)
	if err != nil {
		logger.Fatalf("Failed to set up routes: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Infof("Server listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	logger.Info("Server exited")
}

// setupRouter wires repositories, services and handlers into a gin engine
func setupRouter(cfg *config.Config, db database.DB, logger *logrus.Logger) (*gin.Engine, error) {
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	gate := access.NewGate()

	partnerRepo := database.NewPartnerRepository(db)
	linkRepo := database.NewPartnerLinkRepository(db)
	storeRepo := database.NewStoreRepository(db)
	principalRepo := database.NewPrincipalRepository(db)
	itemRepo := database.NewItemRepository(db)
	planRepo := database.NewPlanRepository(db)
	saleRepo := database.NewPlanSaleRepository(db)
	customerRepo := database.NewCustomerRepository(db)
	assignmentRepo := database.NewAssignmentRepository(db)

	resolver := services.NewAssignmentResolver(assignmentRepo, itemRepo, planRepo, saleRepo, logger)
	authService := services.NewAuthService(principalRepo, jwtService, logger)
	partnerService := services.NewPartnerService(gate, partnerRepo, linkRepo, logger)
	storeService := services.NewStoreService(gate, storeRepo, logger)
	principalService := services.NewPrincipalService(db, gate, principalRepo, cfg.Security.BcryptCost, logger)
	itemService := services.NewItemService(db, gate, resolver, itemRepo, principalRepo, logger)
	planService := services.NewPlanService(db, gate, resolver, planRepo, itemRepo, principalRepo, logger)
	saleService := services.NewPlanSaleService(db, gate, resolver, saleRepo, itemRepo, planRepo, customerRepo, assignmentRepo, logger)
	assignmentService := services.NewAssignmentService(db, gate, resolver, assignmentRepo, principalRepo, logger)

	tokenLimit, err := middleware.RateLimit(cfg.RateLimit.TokenRate, logger)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(middleware.RequestLogger(logger))
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: !allowsAnyOrigin(cfg.CORS.AllowedOrigins),
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", handlers.NewHealthHandler(db, logger).Health)

	v1 := router.Group("/api/v1")
	handlers.NewTokenHandler(authService, logger).Register(v1, tokenLimit)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService, logger))
	protected.Use(middleware.RequireActiveProfile(principalRepo, logger))
	{
		handlers.NewPartnerHandler(partnerService, logger).Register(protected)
		handlers.NewStoreHandler(storeService, logger).Register(protected)
		handlers.NewPrincipalHandler(principalService, logger).Register(protected)
		handlers.NewCatalogHandler(itemService, planService, logger).Register(protected)
		handlers.NewPlanSaleHandler(saleService, logger).Register(protected)
		handlers.NewAssignmentHandler(assignmentService, logger).Register(protected)
	}

	return router, nil
}

// allowsAnyOrigin reports whether the CORS origin list is the wildcard, which
// browsers refuse to combine with credentials
func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
