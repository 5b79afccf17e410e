package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"daily-diet/internal/config"
	"daily-diet/internal/db"
	apihttp "daily-diet/internal/http"
	"daily-diet/internal/repository"
	"daily-diet/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	mealRepo := repository.NewPgMealRepository(pool)
	sessionSvc := service.NewSessionService()
	mealSvc := service.NewMealService(logger, mealRepo, sessionSvc)

	limiter := service.NewRequestRateLimiter(time.Minute, cfg.RateLimitPerMinute)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory rate limiter", zap.Error(err))
		} else {
			limiter = service.NewRedisRequestRateLimiter(redisClient, time.Minute, cfg.RateLimitPerMinute)
		}
		cancel()
	}

	mealHandler := apihttp.NewMealHandler(logger, mealSvc, cfg.SessionCookieName)
	healthHandler := apihttp.NewHealthHandler(logger, pool)
	router := apihttp.NewRouter(logger, mealHandler, healthHandler, sessionSvc, limiter, cfg.SessionCookieName)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
