package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"padoca/internal/caching"
	"padoca/internal/handlers"
	"padoca/internal/jobs/background"
	"padoca/internal/middleware"
	"padoca/internal/repositories"
	"padoca/internal/services"
	"padoca/pkg/database"
)

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	ctx := context.Background()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	pool, err := database.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32)
		log.Printf("WARNING: JWT_SECRET not set, using a generated secret; tokens will not survive a restart")
	}

	redisAddr := envOr("REDIS_ADDR", "localhost:6379")
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	minioEndpoint := envOr("MINIO_ENDPOINT", "localhost:9000")
	minioAccessKey := envOr("MINIO_ACCESS_KEY", "minioadmin")
	minioSecretKey := envOr("MINIO_SECRET_KEY", "minioadmin")
	minioUseSSL := os.Getenv("MINIO_USE_SSL") == "true"
	pdfBucket := envOr("PDF_BUCKET", "padoca-orders")

	storageSvc, err := services.NewStorageService(minioEndpoint, minioAccessKey, minioSecretKey, minioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	if err := storageSvc.EnsureBucketExists(ctx, pdfBucket); err != nil {
		log.Fatalf("Failed to ensure pdf bucket exists: %v", err)
	}

	// Repositories
	orderRepo := repositories.NewOrderRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	clientRepo := repositories.NewClientRepository(pool)
	userRepo := repositories.NewUserRepository(pool)

	// Services
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)
	notifier := services.NewNotificationService(redisAddr, redisPassword, redisDB)
	pdfSvc := services.NewPDFService(storageSvc, pdfBucket)
	orderSvc := services.NewOrderService(orderRepo, productRepo, clientRepo, pdfSvc, notifier, cacheSvc)
	productSvc := services.NewProductService(productRepo, cacheSvc)
	clientSvc := services.NewClientService(clientRepo)
	authSvc := services.NewAuthService(userRepo, cacheSvc, jwtSecret, 3600, 7*24*3600)

	// Handlers
	orderHandlers := handlers.NewOrderHandlers(orderSvc)
	productHandlers := handlers.NewProductHandlers(productSvc)
	clientHandlers := handlers.NewClientHandlers(clientSvc)
	authHandlers := handlers.NewAuthHandlers(authSvc)
	healthHandlers := handlers.NewHealthHandlers(pool)

	e := echo.New()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	healthHandlers.RegisterRoutes(e)
	authHandlers.RegisterPublicRoutes(e)

	api := e.Group("/api/v1", middleware.JWT(jwtSecret), middleware.TenantContext())
	authHandlers.RegisterRoutes(api)
	orderHandlers.RegisterRoutes(api)

	staff := e.Group("/api/v1", middleware.JWT(jwtSecret), middleware.TenantContext(), middleware.RequireInternal())
	authHandlers.RegisterStaffRoutes(staff)
	productHandlers.RegisterRoutes(staff)
	clientHandlers.RegisterRoutes(staff)

	// Background jobs
	scheduler, err := background.NewJobScheduler(orderRepo)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop job scheduler: %v", err)
		}
	}()

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	go func() {
		if err := e.Start(fmt.Sprintf(":%d", port)); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
}
