package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/math-practice-service/internal/auth"
	"github.com/SAP-F-2025/math-practice-service/internal/cache"
	"github.com/SAP-F-2025/math-practice-service/internal/config"
	"github.com/SAP-F-2025/math-practice-service/internal/events"
	"github.com/SAP-F-2025/math-practice-service/internal/handlers"
	"github.com/SAP-F-2025/math-practice-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/math-practice-service/internal/seed"
	"github.com/SAP-F-2025/math-practice-service/internal/services"
	"github.com/SAP-F-2025/math-practice-service/internal/utils"
	"github.com/SAP-F-2025/math-practice-service/internal/validator"
	"github.com/SAP-F-2025/math-practice-service/pkg"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := utils.NewLogger(cfg.Environment)

	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "serve":
		err = serve(cfg, log)
	case "migrate":
		err = withDatabase(cfg, func(db *gorm.DB) error {
			return migrate(db, log)
		})
	case "seed":
		err = withDatabase(cfg, func(db *gorm.DB) error {
			return runSeed(db, log)
		})
	default:
		err = fmt.Errorf("unknown command %q (use serve, migrate or seed)", command)
	}

	if err != nil {
		log.Error("Command failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func withDatabase(cfg *config.Config, fn func(db *gorm.DB) error) error {
	db, err := pkg.InitDatabase(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer postgres.NewRepository(db).Close()
	return fn(db)
}

func migrate(db *gorm.DB, log utils.Logger) error {
	if err := postgres.Migrate(db); err != nil {
		return err
	}
	log.Info("Migrations applied successfully")
	return nil
}

func runSeed(db *gorm.DB, log utils.Logger) error {
	if err := migrate(db, log); err != nil {
		return err
	}
	summary, err := seed.NewSeeder(postgres.NewRepository(db), utils.ToSlogLogger(log)).Run(context.Background())
	if err != nil {
		return err
	}
	log.Info("Seed completed",
		"users_created", summary.UsersCreated,
		"users_reused", summary.UsersReused,
		"problems_created", summary.ProblemsCreated,
		"assignments_created", summary.AssignmentsCreated,
		"results_created", summary.ResultsCreated,
		"password", seed.DefaultPassword)
	return nil
}

func serve(cfg *config.Config, log utils.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slogger := utils.ToSlogLogger(log)

	db, err := pkg.InitDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	repo := postgres.NewRepository(db)
	defer repo.Close()
	log.Info("Database connection established")

	cacheService := cache.NewNoopCache()
	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	switch {
	case err != nil:
		log.Warn("Redis unavailable, caching disabled", "error", err)
	case redisClient == nil:
		log.Info("REDIS_URL not set, caching disabled")
	default:
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, log)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		log.Error("Failed to create event publisher, falling back to mock", "error", err)
		publisher = events.NewMockEventPublisher(slogger)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event publisher", "error", err)
		}
	}()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiration)
	serviceManager := services.NewServiceManager(repo, slogger, validator.New(), cacheService, publisher, tokens)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewHandlerManager(serviceManager, repo, tokens, log).NewRouter()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Math practice service started", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down math practice service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown gracefully: %w", err)
	}

	log.Info("Math practice service stopped")
	return nil
}
