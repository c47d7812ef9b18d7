package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Dosada05/backyard-olympics/brackets"
	"github.com/Dosada05/backyard-olympics/config"
	"github.com/Dosada05/backyard-olympics/db"
	"github.com/Dosada05/backyard-olympics/handlers"
	"github.com/Dosada05/backyard-olympics/realtime"
	"github.com/Dosada05/backyard-olympics/repositories"
	api "github.com/Dosada05/backyard-olympics/routes"
	"github.com/Dosada05/backyard-olympics/services"
	"github.com/Dosada05/backyard-olympics/storage"
	"github.com/Dosada05/backyard-olympics/workers"
	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 15 * time.Second

// @title           Backyard Olympics API
// @version         1.0
// @description     Round robin scheduling, two-sided result reporting and standings for backyard tournaments.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @securityDefinitions.apikey  TeamToken
// @in                          header
// @name                        X-Team-Token
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("storage_driver", cfg.StorageDriver),
	)

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", slog.Any("error", err))
		os.Exit(1)
	}

	var uploader storage.FileUploader
	r2Config := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2Config.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(context.Background(), r2Config)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Info("object storage not configured, export publishing disabled")
	}

	hubDone := make(chan struct{})
	wsHub := realtime.NewHub(logger)
	go wsHub.Run(hubDone)
	logger.Info("WebSocket hub started")

	tournamentService := services.NewTournamentService(store, logger)
	scheduleService := services.NewScheduleService(store, brackets.NewRoundRobinGenerator(), cfg.DefaultRoundLengthMinutes, logger)
	resultService := services.NewResultService(store, logger)
	standingsService := services.NewStandingsService(store, logger)
	wagerService := services.NewWagerService(store, logger)
	exportService := services.NewExportService(store, uploader, logger)
	authService := services.NewAuthService(cfg.OperatorUsername, cfg.OperatorPasswordHash, logger)
	if cfg.OperatorPasswordHash == "" {
		logger.Warn("OPERATOR_PASSWORD_HASH is empty, operator login is disabled")
	}
	logger.Info("services initialized")

	var refresher *workers.StandingsRefresher
	if cfg.StandingsRefreshInterval > 0 {
		refresher, err = workers.NewStandingsRefresher(standingsService, cfg.StandingsRefreshInterval, logger)
		if err != nil {
			logger.Error("failed to create standings refresher", slog.Any("error", err))
			os.Exit(1)
		}
		refresher.Start()
		logger.Info("standings refresher started", slog.Duration("interval", cfg.StandingsRefreshInterval))
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:       handlers.NewAuthHandler(authService, cfg.JWTSecretKey, cfg.JWTTTL),
		Tournament: handlers.NewTournamentHandler(tournamentService),
		Schedule:   handlers.NewScheduleHandler(scheduleService, wsHub),
		Matchup:    handlers.NewMatchupHandler(resultService, wsHub),
		Team:       handlers.NewTeamHandler(resultService, wagerService, wsHub),
		Standings:  handlers.NewStandingsHandler(standingsService, exportService, wsHub),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, tournamentService, cfg.CORSAllowedOrigins, logger),
	}, api.Options{
		JWTSecret:      cfg.JWTSecretKey,
		Teams:          tournamentService,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			exitCode = 1
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		err := server.Shutdown(shutdownCtx)
		cancelShutdown()
		if err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			exitCode = 1
		} else {
			logger.Info("server shutdown complete")
		}
	}

	if refresher != nil {
		if err := refresher.Shutdown(); err != nil {
			logger.Error("failed to stop standings refresher", slog.Any("error", err))
		}
	}
	close(hubDone)
	closeStore()
	logger.Info("application exited")
	os.Exit(exitCode)
}

// openStore returns the configured store and a function that releases it.
func openStore(cfg *config.Config, logger *slog.Logger) (repositories.Store, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		return repositories.NewMemoryStore(), func() {}, nil
	}

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connection established")

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Migrate(migrateCtx, dbConn); err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("database migrations applied")

	return repositories.NewPostgresStore(dbConn), func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
			return
		}
		logger.Info("database connection closed")
	}, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
