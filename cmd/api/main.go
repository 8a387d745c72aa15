package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tuananh0303/DATN-sub000/internal/adapter/handler"
	"github.com/tuananh0303/DATN-sub000/internal/adapter/repository/postgres"
	"github.com/tuananh0303/DATN-sub000/internal/adapter/repository/redis"
	"github.com/tuananh0303/DATN-sub000/internal/adapter/reservation"
	"github.com/tuananh0303/DATN-sub000/internal/core/ports"
	"github.com/tuananh0303/DATN-sub000/internal/core/services"
	"github.com/tuananh0303/DATN-sub000/internal/platform/config"
	"github.com/tuananh0303/DATN-sub000/internal/platform/database"
	"github.com/tuananh0303/DATN-sub000/internal/platform/logger"
)

const (
	cleanupInterval = time.Minute
	sweepInterval   = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	loc := cfg.Location()
	clock := ports.SystemClock{}

	logg.Info("connecting to redis", zap.String("addr", cfg.RedisAddr))
	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logg.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	logg.Info("redis connected")

	var reservations ports.ReservationService
	if cfg.EmbeddedReservations() {
		db, err := database.NewPostgresDB(ctx, database.FromAppConfig(cfg), logg)
		if err != nil {
			logg.Fatal("failed to connect to db after retries", zap.Error(err))
		}
		defer db.Close()

		if err := postgres.Migrate(ctx, db); err != nil {
			logg.Fatal("failed to migrate schema", zap.Error(err))
		}

		repo := postgres.NewReservationService(db, postgres.DraftOptions{
			TTL:            cfg.DraftTTL,
			PaymentBaseURL: cfg.PaymentBaseURL,
		})
		reservations = repo

		janitor := services.NewDraftJanitor(repo, cleanupInterval, logg)
		go janitor.RunBackgroundCleanup(ctx)
		logg.Info("reservations served from postgres")
	} else {
		client, err := reservation.NewClient(cfg.ReservationServiceURL, reservation.Options{
			Timeout:           cfg.ReservationServiceTimeout,
			RequestsPerSecond: cfg.ReservationServiceRPS,
		}, logg.Named("reservation"))
		if err != nil {
			logg.Fatal("failed to init reservation client", zap.Error(err))
		}
		reservations = client
		logg.Info("reservations served remotely", zap.String("url", cfg.ReservationServiceURL))
	}

	registry := services.NewSessionRegistry(reservations, redis.NewDraftStore(redisClient), clock, services.RegistryConfig{
		CountdownBudget: cfg.DraftCountdown,
		IdleTTL:         cfg.SessionIdleTTL,
	}, logg)
	go registry.RunIdleSweeper(ctx, sweepInterval)

	validator := services.NewTimeWindowValidator(clock, loc)
	pricing := services.NewPricingCalculator()

	router := handler.NewRouter(handler.RouterConfig{
		Catalog:         handler.NewCatalogHandler(reservations, validator, services.NewRecurrenceEngine(clock, loc), pricing, logg),
		Drafts:          handler.NewDraftHandler(registry, reservations, validator, pricing, logg),
		Log:             logg,
		RateLimitPerMin: cfg.RateLimitPerMin,
		AllowedOrigins:  cfg.AllowedOrigins(),
	})

	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logg.Info("server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("server startup failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logg.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error("server forced to shutdown", zap.Error(err))
	}
	stop()

	if err := registry.Drain(shutdownCtx); err != nil {
		logg.Warn("pending draft cleanup interrupted", zap.Error(err))
	}

	logg.Info("server exiting")
}
