package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/debate-tournament/brackets"
	"github.com/Dosada05/debate-tournament/config"
	"github.com/Dosada05/debate-tournament/db"
	"github.com/Dosada05/debate-tournament/handlers"
	"github.com/Dosada05/debate-tournament/middleware"
	"github.com/Dosada05/debate-tournament/repositories"
	api "github.com/Dosada05/debate-tournament/routes"
	"github.com/Dosada05/debate-tournament/services"
	"github.com/Dosada05/debate-tournament/storage"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"
)

// version подставляется при сборке через -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	app := &cli.App{
		Name:  "debate-tournament",
		Usage: "debate tournament bracket service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"CONFIG_FILE"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API",
				Action: func(c *cli.Context) error {
					return serve(c.Context, logger, c.String("config"))
				},
			},
			{
				Name:  "migrate",
				Usage: "apply the database schema",
				Action: func(c *cli.Context) error {
					return migrate(c.Context, logger, c.String("config"))
				},
			},
			{
				Name:  "version",
				Usage: "print the build version",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, version)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("application failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func connect(logger *slog.Logger, configPath string) (*config.Config, *sql.DB, error) {
	// Загрузка конфигурации
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, cfg.DBConnectTimeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("database connection established")
	return cfg, dbConn, nil
}

func closeDB(logger *slog.Logger, dbConn *sql.DB) {
	if err := dbConn.Close(); err != nil {
		logger.Error("failed to close database connection", slog.Any("error", err))
	} else {
		logger.Info("database connection closed")
	}
}

func migrate(ctx context.Context, logger *slog.Logger, configPath string) error {
	_, dbConn, err := connect(logger, configPath)
	if err != nil {
		return err
	}
	defer closeDB(logger, dbConn)

	if err := db.Migrate(ctx, dbConn); err != nil {
		return err
	}
	logger.Info("database schema applied")
	return nil
}

func serve(ctx context.Context, logger *slog.Logger, configPath string) error {
	cfg, dbConn, err := connect(logger, configPath)
	if err != nil {
		return err
	}
	defer closeDB(logger, dbConn)

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	// Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(dbConn, "debate"),
	)
	metrics := services.NewMetrics(registry)

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	transactor := repositories.NewPostgresTransactor(dbConn, logger)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	entrantRepo := repositories.NewPostgresEntrantRepository(dbConn)
	judgeRepo := repositories.NewPostgresJudgeRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	scoringRepo := repositories.NewPostgresScoringRepository(dbConn)
	logger.Info("Repositories initialized")

	notifiers := services.Notifiers{wsHub}

	// Снимки сетки в Cloudflare R2 публикуются, только если хранилище настроено.
	var snapshots *storage.SnapshotPublisher
	r2Config := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2.AccountID,
		AccessKeyID:     cfg.R2.AccessKeyID,
		SecretAccessKey: cfg.R2.SecretAccessKey,
		BucketName:      cfg.R2.BucketName,
		PublicBaseURL:   cfg.R2.PublicBaseURL,
	}
	uploader, err := storage.NewCloudflareR2Uploader(ctx, r2Config)
	switch {
	case errors.Is(err, storage.ErrStorageNotConfigured):
		logger.Info("object storage not configured, bracket snapshots disabled")
	case err != nil:
		return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
	default:
		snapshots = storage.NewSnapshotPublisher(uploader, matchRepo, logger)
		notifiers = append(notifiers, snapshots)
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2.BucketName))
	}

	// Инициализация сервисов
	bracketService := services.NewBracketService(
		transactor,
		eventRepo,
		entrantRepo,
		judgeRepo,
		matchRepo,
		notifiers,
		brackets.NewRandomizer(time.Now().UnixNano()),
		metrics,
		logger,
	)
	scoreService := services.NewScoreService(eventRepo, matchRepo, scoringRepo)
	logger.Info("Services initialized")

	// Инициализация обработчиков HTTP
	bracketHandler := handlers.NewBracketHandler(bracketService)
	scoreHandler := handlers.NewScoreHandler(scoreService)
	exportHandler := handlers.NewExportHandler(bracketService, scoreService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, bracketService, cfg.CORSOrigins)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{
			JWTSecret:      cfg.JWTSecretKey,
			AllowedOrigins: cfg.CORSOrigins,
			RateLimiter:    middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
			Registry:       registry,
		},
		bracketHandler,
		scoreHandler,
		exportHandler,
		webSocketHandler,
	)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return err
		}
		logger.Info("server shutdown complete")
	}

	// Закрываем websocket-комнаты и дожидаемся незавершённых выгрузок снимков.
	stop()
	if snapshots != nil {
		snapshots.Wait()
	}
	logger.Info("application exited")
	return nil
}
