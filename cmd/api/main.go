package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"skill-radar/internal/catalog"
	"skill-radar/internal/config"
	"skill-radar/internal/db"
	apihttp "skill-radar/internal/http"
	"skill-radar/internal/metrics"
	"skill-radar/internal/repository"
	"skill-radar/internal/scoring"
	"skill-radar/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMetrics := metrics.New(reg)

	catalogRepo := repository.NewPgCatalogRepository(pool)
	answerRepo := repository.NewPgAnswerRepository(pool)
	sessionRepo := repository.NewPgSessionRepository(pool)
	submissionStore := repository.NewPgSubmissionStore(pool)

	submitWindow := time.Duration(cfg.SubmitRateWindowSec) * time.Second
	notifier := service.NewMemorySessionNotifier()
	limiter := service.NewMemorySubmissionLimiter(submitWindow, cfg.SubmitRateMax)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-process session updates", zap.Error(err))
		} else {
			notifier = service.NewRedisSessionNotifier(redisClient)
			limiter = service.NewRedisSubmissionLimiter(redisClient, submitWindow, cfg.SubmitRateMax)
		}
		cancel()
	}

	palette := scoring.DefaultPalette
	if len(cfg.IdentityPalette) > 0 {
		palette = scoring.Palette(cfg.IdentityPalette)
	}

	questionnaireSvc := service.NewQuestionnaireService(catalogRepo, sessionRepo, submissionStore, notifier, promMetrics, limiter, logger, cfg.QuestionnaireID)
	sessionSvc := service.NewSessionService(sessionRepo, catalogRepo, notifier, promMetrics, palette, cfg.QuestionnaireID, logger)
	overviewSvc := service.NewOverviewService(catalogRepo, answerRepo, cfg.QuestionnaireID, cfg.SimilarLimit, logger)
	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)

	if cfg.CatalogFile != "" {
		c, err := catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			logger.Fatal("catalog load", zap.String("file", cfg.CatalogFile), zap.Error(err))
		}
		if err := questionnaireSvc.SeedCatalog(ctx, c); err != nil {
			logger.Fatal("catalog seed", zap.Error(err))
		}
	}

	router := apihttp.NewRouter(logger, jwtSvc, apihttp.Observability{
		Requests: promMetrics,
		Metrics:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Health: func(ctx context.Context) error {
			return db.Ping(ctx, pool)
		},
	},
		apihttp.NewQuestionnaireHandler(logger, questionnaireSvc),
		apihttp.NewSessionHandler(logger, sessionSvc),
		apihttp.NewOverviewHandler(logger, overviewSvc),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("questionnaire_id", cfg.QuestionnaireID),
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger, err := cfg.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}
