// Package main is the entry point for the Fieldworks API server.
// Fieldworks is a marketplace and knowledge platform for smallholder farmers.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fieldworks/fieldworks-api/internal/auth"
	"github.com/fieldworks/fieldworks-api/internal/config"
	"github.com/fieldworks/fieldworks-api/internal/handler"
	"github.com/fieldworks/fieldworks-api/internal/metrics"
	"github.com/fieldworks/fieldworks-api/internal/ratelimit"
	mongorepo "github.com/fieldworks/fieldworks-api/internal/repository/mongo"
	"github.com/fieldworks/fieldworks-api/internal/service"
	"github.com/fieldworks/fieldworks-api/internal/storage"
	"github.com/fieldworks/fieldworks-api/internal/weather"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// A local .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad(*configPath)
	logger := newLogger(cfg.Logging)

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Str("environment", cfg.Environment).
		Msg("starting fieldworks api server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := mongorepo.Connect(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to close mongodb connection")
		}
	}()

	if err := db.EnsureIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	uploads, err := newUploadsBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize uploads backend")
	}

	limiter, redisClient := newLimiter(ctx, cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	userRepo := mongorepo.NewUserRepository(db)
	productRepo := mongorepo.NewProductRepository(db)
	orderRepo := mongorepo.NewOrderRepository(db)
	kbRepo := mongorepo.NewKnowledgeBaseRepository(db)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	userService := service.NewUserService(userRepo, tokens, logger)
	productService := service.NewProductService(productRepo, userRepo, uploads, cfg.Uploads.MaxFileSize, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, userRepo, logger)
	kbService := service.NewKnowledgeBaseService(kbRepo, logger)
	weatherClient := weather.NewClient(cfg.Weather, logger)

	responder := handler.NewResponder(logger, !cfg.IsProduction())

	var mtr *metrics.Metrics
	if cfg.Metrics.Enabled {
		mtr = metrics.New()
	}

	uploadsDir := ""
	if cfg.Uploads.Backend == "filesystem" {
		uploadsDir = cfg.Uploads.Dir
	}

	router := handler.NewRouter(handler.RouterConfig{
		Auth:           handler.NewAuthHandler(userService, responder, logger),
		Products:       handler.NewProductHandler(productService, responder, logger),
		KnowledgeBase:  handler.NewKnowledgeBaseHandler(kbService, responder, logger),
		Orders:         handler.NewOrderHandler(orderService, responder, logger),
		Weather:        handler.NewWeatherHandler(weatherClient, responder, logger),
		AuthMiddleware: auth.NewMiddleware(tokens, logger),
		Limiter:        limiter,
		Metrics:        mtr,
		Responder:      responder,
		Logger:         logger,
		UploadsDir:     uploadsDir,
	})

	srv := &http.Server{
		Addr:           cfg.Server.Addr(),
		Handler:        http.MaxBytesHandler(router, cfg.Server.MaxBodySize),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Fatal().Err(err).Msg("http server failed")
	case <-ctx.Done():
		logger.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}

// newLogger builds the root logger from configuration. Development setups
// usually pick the console format, production stays on JSON.
func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := log.Logger
	if cfg.Format == "console" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// newUploadsBackend selects the photo storage backend.
func newUploadsBackend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (storage.Backend, error) {
	if cfg.Uploads.Backend == "s3" {
		return storage.NewS3Backend(ctx, cfg.Uploads.S3, logger)
	}
	return storage.NewFilesystemBackend(cfg.Uploads.Dir, logger)
}

// newLimiter builds the rate limiter. With Redis enabled the fixed window
// is shared across instances; otherwise each instance counts alone.
func newLimiter(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (ratelimit.Limiter, *redis.Client) {
	if !cfg.RateLimit.Enabled {
		return ratelimit.NewNoOpLimiter(), nil
	}

	rlCfg := ratelimit.Config{
		RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
		Window:            cfg.RateLimit.Window,
	}

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:        cfg.Redis.Addr(),
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable, falling back to in-memory rate limiting")
			_ = client.Close()
			return ratelimit.NewMemoryLimiter(rlCfg), nil
		}
		return ratelimit.NewRedisLimiter(client, rlCfg), client
	}

	return ratelimit.NewMemoryLimiter(rlCfg), nil
}
