package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/tokomart/account-system/internal/api"
	"github.com/tokomart/account-system/internal/core/service"
	"github.com/tokomart/account-system/internal/infrastructure/config"
	mongodb "github.com/tokomart/account-system/internal/infrastructure/db/mongo"
	redisdb "github.com/tokomart/account-system/internal/infrastructure/db/redis"
	"github.com/tokomart/account-system/internal/pkg/hash"
	"github.com/tokomart/account-system/internal/pkg/localecheck"
	"github.com/tokomart/account-system/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Repositories ---
	accountRepo := mongodb.NewAccountRepository(db)
	refreshTokenRepo := mongodb.NewRefreshTokenRepository(db)
	otpRepo := mongodb.NewOtpRepository(db)

	for _, ensure := range []func(context.Context) error{
		accountRepo.EnsureIndexes,
		refreshTokenRepo.EnsureIndexes,
		otpRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to create indexes")
		}
	}

	// --- Collaborators ---
	hasher := hash.NewBcrypt(cfg.Auth.BcryptCost)
	codes := localecheck.New()
	limiter := redisdb.NewPasswordLimiter(rdb, cfg.Auth.MaxPasswordFailures, cfg.Auth.PasswordFailWindow)
	clock := clockwork.NewRealClock()

	// --- Services ---
	accountService := service.NewAccountService(
		accountRepo, refreshTokenRepo, otpRepo,
		hasher, codes, limiter, clock, log,
	)
	authService := service.NewAuthService(
		accountRepo, refreshTokenRepo, otpRepo,
		hasher, codes, clock, log,
		cfg.JWTSecret,
		cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL, cfg.Auth.OtpTTL,
	)

	e := api.NewRouter(accountService, authService, db, rdb, cfg.JWTSecret, log)

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting account service")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("server stopped cleanly")
}
