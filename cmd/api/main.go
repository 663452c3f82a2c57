package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/slidecast-team/slidecast/pkg/validator"

	"github.com/slidecast-team/slidecast/internal/adapter/handler"
	"github.com/slidecast-team/slidecast/internal/adapter/repository"
	"github.com/slidecast-team/slidecast/internal/infrastructure/cache"
	"github.com/slidecast-team/slidecast/internal/infrastructure/database"
	"github.com/slidecast-team/slidecast/internal/infrastructure/storage"
	"github.com/slidecast-team/slidecast/internal/usecase/align"
	"github.com/slidecast-team/slidecast/internal/usecase/catalog"
	jobUsecase "github.com/slidecast-team/slidecast/internal/usecase/job"
	"github.com/slidecast-team/slidecast/internal/usecase/merge"
	pkgai "github.com/slidecast-team/slidecast/pkg/ai"
	"github.com/slidecast-team/slidecast/pkg/config"
	pkgjwt "github.com/slidecast-team/slidecast/pkg/jwt"
)

// @title           SlideCast API
// @version         1.0
// @description     API for aligning lecture audio with authored outlines into timestamped slide packs

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate in CI/CD.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE and manage schema with sql-migrate.")
		}
		log.Println("🔄 Running sql-migrate migrations (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize Redis
	log.Println("📦 Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize blob storage
	log.Println("📦 Connecting to blob storage...")
	audioStore, err := storage.NewAudioStore(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to blob storage: %v", err)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	packRepo := repository.NewSlidePackRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	jobRepo := repository.NewJobRepository(db)

	// Initialize AI components
	log.Println("🤖 Initializing AI components...")
	transcriber := pkgai.NewAssemblyAITranscriber(&cfg.Assembly, logger)
	outlineClient := pkgai.NewOutlineClient(&cfg.Outline, logger)

	// Initialize alignment and merge services
	aligner := align.NewService(align.Config{
		FormulaWeight:  cfg.Align.FormulaWeight,
		SnapWindowFrac: cfg.Align.SnapWindowFrac,
	}, logger)
	composer := merge.NewComposer(packRepo, audioStore, logger)

	// Initialize job orchestrator
	log.Println("🧵 Initializing job orchestrator...")
	lease := cache.NewJobLease(redisClient, cfg.Worker.LeaseDuration)
	orchestrator := jobUsecase.NewOrchestrator(
		jobRepo,
		packRepo,
		transcriber,
		outlineClient,
		aligner,
		composer,
		audioStore,
		lease,
		cfg.Worker,
		logger,
	)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if err := orchestrator.StartWorkerPool(workerCtx, cfg.Worker.Count); err != nil {
		log.Fatalf("Failed to start worker pool: %v", err)
	}
	log.Printf("✅ Worker pool started with %d workers", cfg.Worker.Count)

	// Initialize catalog service
	catalogService := catalog.NewService(packRepo, courseRepo, logger)

	// Initialize JWT manager (nil disables auth)
	var jwtManager *pkgjwt.Manager
	var authHandler *handler.Auth
	if cfg.AuthEnabled() {
		log.Println("🔑 Initializing JWT manager...")
		jwtManager = pkgjwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.APIKey, cfg.Auth.TokenExpiry)
		authHandler = handler.NewAuthHandler(jwtManager, logger)
	} else {
		log.Println("⚠️  Auth disabled (JWT_SECRET not set)")
	}

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	slidePackHandler := handler.NewSlidePackHandler(orchestrator, catalogService, audioStore, logger)
	courseHandler := handler.NewCourseHandler(catalogService, logger)
	jobHandler := handler.NewJobHandler(orchestrator, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, jwtManager, authHandler, slidePackHandler, courseHandler, jobHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	// Stop claiming new jobs before closing the listener; in-flight
	// pipelines finish within their own job timeout.
	if err := orchestrator.StopWorkerPool(); err != nil {
		log.Printf("⚠️  Worker pool stop: %v", err)
	}
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
