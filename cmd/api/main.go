package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"career-pilot/internal/config"
	"career-pilot/internal/db"
	apihttp "career-pilot/internal/http"
	"career-pilot/internal/ingest"
	"career-pilot/internal/llm"
	"career-pilot/internal/repository"
	"career-pilot/internal/scheduler"
	"career-pilot/internal/service"

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

	userRepo := repository.NewPgUserRepository(pool)
	sourceRepo := repository.NewPgSourceRepository(pool)
	scoreRepo := repository.NewPgScoreRepository(pool)
	actionRepo := repository.NewPgActionRepository(pool)
	marketRepo := repository.NewPgMarketRepository(pool)

	if n, err := marketRepo.Seed(ctx); err != nil {
		logger.Warn("market data seed failed", zap.Error(err))
	} else if n > 0 {
		logger.Info("market data seeded", zap.Int("rows", n))
	}

	llmClient := llm.NewHTTPClient(
		cfg.LLMBaseURL,
		cfg.LLMAPIKey,
		cfg.LLMModel,
		time.Duration(cfg.LLMTimeoutSeconds)*time.Second,
		zap.NewStdLog(logger),
	)
	if cfg.LLMAPIKey == "" {
		logger.Warn("llm api key not configured, calibration and parsing run in fallback mode")
	}

	fetcher := ingest.NewHTTPFetcher(30 * time.Second)
	parser := ingest.NewParser(llmClient, logger)
	calibrationSvc := service.NewCalibrationService(llmClient, logger)
	actionSvc := service.NewActionService(llmClient, actionRepo, logger)
	pipeline := service.NewAnalysisPipeline(userRepo, sourceRepo, scoreRepo, fetcher, parser, calibrationSvc, actionSvc, logger)

	worker := service.NewWorker(pipeline, cfg.WorkerConcurrency, logger)
	worker.Start(ctx)
	defer worker.Stop()

	rescan := scheduler.New(sourceRepo, worker, cfg.RescanIntervalHours, logger)
	if err := rescan.Start(ctx); err != nil {
		logger.Fatal("scheduler start", zap.Error(err))
	}
	defer rescan.Stop()

	var tokenStore service.RefreshTokenStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}
	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	userSvc := service.NewUserService(logger, userRepo)

	authHandler := apihttp.NewAuthHandler(logger, userSvc, jwtSvc)
	userHandler := apihttp.NewUserHandler(logger, userSvc)
	sourceHandler := apihttp.NewSourceHandler(logger, sourceRepo, pipeline, worker)
	analysisHandler := apihttp.NewAnalysisHandler(logger, sourceRepo, worker)
	scoreHandler := apihttp.NewScoreHandler(logger, scoreRepo, sourceRepo, userSvc, worker)
	actionHandler := apihttp.NewActionHandler(logger, actionRepo, worker)

	router := apihttp.NewRouter(logger, jwtSvc, authHandler, userHandler, sourceHandler, analysisHandler, scoreHandler, actionHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}
