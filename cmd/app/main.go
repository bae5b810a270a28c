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

	"github.com/alexivanou/placenotes-api/internal/api"
	"github.com/alexivanou/placenotes-api/internal/cache"
	"github.com/alexivanou/placenotes-api/internal/config"
	"github.com/alexivanou/placenotes-api/internal/database"
	"github.com/alexivanou/placenotes-api/internal/model"
	"github.com/alexivanou/placenotes-api/internal/places"
	"github.com/alexivanou/placenotes-api/internal/repository"
	"github.com/alexivanou/placenotes-api/internal/seeder"
	"github.com/alexivanou/placenotes-api/internal/service"
	"github.com/alexivanou/placenotes-api/internal/stats"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Connected to database", zap.String("name", cfg.DB.Name))

	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repos := repository.NewRepositories(db)

	isEmpty, err := repository.IsDatabaseEmpty(ctx, db)
	if err != nil {
		logger.Fatal("Failed to check if database is empty", zap.Error(err))
	}
	if isEmpty {
		logger.Info("Database is empty, seeding place notes...")
		if err := seedNotes(ctx, repos, cfg, logger); err != nil {
			logger.Fatal("Failed to seed database", zap.Error(err))
		}
	}

	provider, err := places.New(cfg.Places, logger)
	if err != nil {
		logger.Fatal("Failed to create places provider", zap.Error(err))
	}
	logger.Info("Places provider ready",
		zap.String("provider", provider.Name()),
		zap.Duration("timeout", cfg.Places.Timeout),
		zap.Float64("rate_limit", cfg.Places.RateLimit),
	)

	svc := service.NewService(
		provider,
		cache.NewLRU[[]model.SearchResult](cfg.Cache.SearchSize, cfg.Cache.TTL),
		cache.NewLRU[[]model.PhotoDetail](cfg.Cache.PhotoSize, cfg.Cache.TTL),
		repos.Note,
		service.WithLogger(logger),
		service.WithPhotoConcurrency(cfg.Places.PhotoConcurrency),
		service.WithPhotoPrefetch(cfg.Places.PrefetchPhotos),
	)
	statsCollector := stats.NewCollector(db, cfg.DB, svc)
	router := api.NewRouter(svc, statsCollector, cfg.Server.AllowedOrigins, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func seedNotes(ctx context.Context, repos *repository.Container, cfg *config.Config, logger *zap.Logger) error {
	parser := seeder.NewParser(cfg.Seeder)

	notes, err := parser.Notes()
	if err != nil {
		return fmt.Errorf("failed to parse notes: %w", err)
	}

	if err := repos.Note.BulkInsert(ctx, notes); err != nil {
		return fmt.Errorf("failed to insert notes: %w", err)
	}

	count, err := repos.Note.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count notes: %w", err)
	}
	logger.Info("Seeded place notes",
		zap.Int64("notes", count),
		zap.String("source", sourceName(cfg.Seeder)),
	)
	return nil
}

func sourceName(cfg config.SeederConfig) string {
	if cfg.NotesFile == "" {
		return "defaults"
	}
	return cfg.NotesFile
}
