package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"movierating/internal/auth"
	"movierating/internal/cache"
	"movierating/internal/config"
	"movierating/internal/db"
	"movierating/internal/logger"
	"movierating/internal/repository"
	"movierating/internal/seed"
	"movierating/internal/service"
)

func main() {
	catalogPath := flag.String("catalog", "configs/catalog.yaml", "path to the seed catalog")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	catalog, err := seed.LoadCatalog(*catalogPath)
	if err != nil {
		log.Fatal("load catalog", zap.Error(err))
	}
	if pw := os.Getenv("SEED_ADMIN_PASSWORD"); pw != "" {
		catalog.Admin.Password = pw
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("connect to database", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("run migrations", zap.Error(err))
	}
	log.Info("database ready", zap.String("driver", cfg.DBDriver))

	// Movie detail entries may already be cached by a running server.
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, log)
	defer cacheClient.Close()

	store := repository.NewStore(gormDB)
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	authService := service.NewAuthService(store, jwtService, auth.NewTokenStore(cacheClient), cfg.BcryptCost)
	movieService := service.NewMovieService(store, cacheClient)

	res, err := seed.New(store, authService, movieService, log).Apply(context.Background(), catalog)
	if err != nil {
		log.Fatal("seed", zap.Error(err))
	}

	log.Info("seed completed",
		zap.Bool("admin_created", res.AdminCreated),
		zap.Int("movies_created", res.MoviesCreated),
		zap.Int("movies_skipped", res.MoviesSkipped),
	)
}
