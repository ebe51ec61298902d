package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staymypg/internal/config"
	"staymypg/internal/handlers"
	"staymypg/internal/repository"
	"staymypg/internal/services"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName = "staymypg"

func Run() {
	// Load configuration
	configPath := os.Getenv("STAYMYPG_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	ctx := context.Background()

	// Open the collection store
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open storage")
	}
	defer closeStore()

	// Open media storage
	media, uploadsDir, err := openMedia(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Media.Driver).Msg("Failed to open media storage")
	}

	// Initialize repositories
	listingRepo := repository.NewListingRepository(store)
	userRepo := repository.NewUserRepository(store)
	inquiryRepo := repository.NewInquiryRepository(store)

	// Initialize services
	wsHub := services.NewWSHub()
	listingService := services.NewListingService(listingRepo, services.ListingOptions{
		DefaultGender: cfg.Listings.DefaultGender,
		Areas:         cfg.Listings.Areas,
		Notifier:      wsHub,
	})
	inquiryService := services.NewInquiryService(inquiryRepo, listingRepo)
	userService := services.NewUserService(userRepo)
	sessionService, err := services.NewSessionService(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session service")
	}
	defer sessionService.Close()

	// Initialize handlers
	router := handlers.NewRouter(handlers.Router{
		Listings:  handlers.NewListingHandler(listingService, media, cfg.Media.MaxUploadMB<<20),
		Inquiries: handlers.NewInquiryHandler(inquiryService),
		Users:     handlers.NewUserHandler(userService, sessionService, cfg.Session.CookieName),
		WebSocket: handlers.NewWebSocketHandler(wsHub),
		Sessions:  sessionService,
	}, handlers.RouterOptions{
		CookieName:       cfg.Session.CookieName,
		RequireOwnerAuth: cfg.Auth.RequireOwnerAuth,
		RequireAdminAuth: cfg.Auth.RequireAdminAuth,
		UploadsDir:       uploadsDir,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port)).
			Msg("StayMyPg IS LIVE!")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openStore returns the configured collection store and its cleanup func
func openStore(ctx context.Context, cfg *config.Config) (repository.CollectionStore, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		store := repository.NewPostgresCollectionStore(db)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info().Str("dbname", cfg.Database.DBName).Msg("Database connection established")
		return store, db.Close, nil
	case "memory":
		log.Warn().Msg("Using in-memory storage, data is lost on exit")
		return repository.NewMemoryCollectionStore(), func() {}, nil
	default:
		store, err := repository.NewFileCollectionStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("data_dir", cfg.Storage.DataDir).Msg("Using file storage")
		return store, func() {}, nil
	}
}

// openMedia returns the configured media storage and, for local storage,
// the directory to serve under /uploads
func openMedia(ctx context.Context, cfg *config.Config) (services.MediaStorage, string, error) {
	if cfg.Media.Driver == "s3" {
		media, err := services.NewS3MediaStorage(ctx,
			cfg.AWS.Region,
			cfg.AWS.S3Bucket,
			cfg.AWS.AccessKey,
			cfg.AWS.SecretKey,
			cfg.AWS.Endpoint,
		)
		if err != nil {
			return nil, "", err
		}
		return media, "", nil
	}
	media, err := services.NewLocalMediaStorage(cfg.Media.Dir, "/uploads")
	if err != nil {
		return nil, "", err
	}
	return media, media.Dir(), nil
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
