package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"movierating/docs" // swagger docs

	"movierating/internal/auth"
	"movierating/internal/cache"
	"movierating/internal/config"
	"movierating/internal/db"
	"movierating/internal/handler"
	"movierating/internal/logger"
	"movierating/internal/media"
	"movierating/internal/metrics"
	"movierating/internal/repository"
	"movierating/internal/router"
	"movierating/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Movie Rating API
// @version 1.0
// @description Movie catalog and rating API with JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger depends on config; nothing better to report to yet.
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("database init", zap.Error(err))
	}

	if cfg.ResetDB {
		log.Warn("RESET_DB set, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Fatal("reset database", zap.Error(err))
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, log)
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Warn("redis unavailable, continuing without cache and token revocation", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blobs, err := media.NewStore(ctx, cfg.Media, log)
	if err != nil {
		log.Fatal("media store init", zap.Error(err))
	}

	store := repository.NewStore(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	guard := service.NewGuard(store, tokenStore)

	// Initialize services
	authService := service.NewAuthService(store, jwtService, tokenStore, cfg.BcryptCost)
	movieService := service.NewMovieService(store, cacheClient)
	ratingService := service.NewRatingService(store, cacheClient)
	mediaService := media.NewService(blobs, cfg.Media.AllowedExtensions, cfg.Media.MaxSize)

	m := metrics.New()

	e := echo.New()
	router.Register(e, router.Dependencies{
		Config:     cfg,
		Logger:     log,
		Metrics:    m,
		JWTService: jwtService,
		Guard:      guard,
	}, router.Handlers{
		Auth:   handler.NewAuthHandler(authService, m),
		Movie:  handler.NewMovieHandler(movieService),
		Rating: handler.NewRatingHandler(ratingService, m),
		Media:  handler.NewMediaHandler(mediaService, m),
		Health: handler.NewHealthHandler(store, cacheClient),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	}
	log.Info("swagger documentation available",
		zap.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("starting server", zap.String("addr", addr), zap.String("db_driver", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown", zap.Error(err))
	}
}
