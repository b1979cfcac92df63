package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"persona-match/internal/config"
	"persona-match/internal/db"
	apihttp "persona-match/internal/http"
	"persona-match/internal/matching"
	"persona-match/internal/repository"
	"persona-match/internal/service"
	"persona-match/internal/traits"

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

	table, err := loadTable(cfg.QuestionnairePath)
	if err != nil {
		logger.Fatal("questionnaire", zap.Error(err))
	}
	engine, err := matching.NewEngine(table.Traits(), matching.WithWorkers(cfg.MatchWorkers))
	if err != nil {
		logger.Fatal("match engine", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	respondentRepo := repository.NewPgRespondentRepository(pool)
	answerRepo := repository.NewPgAnswerRepository(pool)

	var (
		loginLimiter service.LoginRateLimiter
		tokenStore   service.RefreshTokenStore
		matchCache   service.MatchCache
	)
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
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, 15*time.Minute, 5)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
			matchCache = service.NewRedisMatchCache(redisClient, cfg.MatchCacheTTL())
		}
		cancel()
	}
	if matchCache == nil {
		matchCache = service.NewMemoryMatchCache(cfg.MatchCacheTTL())
	}

	jwtSvc := service.NewJWTService(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	respondentSvc := service.NewRespondentService(logger, respondentRepo, loginLimiter)
	answerSvc := service.NewAnswerService(logger, table, answerRepo, matchCache)
	matchSvc := service.NewMatchService(logger, table, engine, answerRepo, matchCache)

	router := apihttp.NewRouter(
		logger,
		jwtSvc,
		apihttp.NewAuthHandler(logger, respondentSvc, jwtSvc),
		apihttp.NewAnswerHandler(logger, answerSvc),
		apihttp.NewMatchHandler(logger, matchSvc),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.Int("traits", len(table.Traits())),
		zap.Int("questions", len(table.Questions())),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

func loadTable(path string) (*traits.Table, error) {
	if path == "" {
		return traits.Default()
	}
	return traits.LoadFile(path)
}
