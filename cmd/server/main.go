package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dferreira/quizmaster/internal/api"
	"github.com/dferreira/quizmaster/internal/config"
	"github.com/dferreira/quizmaster/internal/db"
	"github.com/dferreira/quizmaster/internal/logger"
	"github.com/dferreira/quizmaster/internal/repository"
	redisrepo "github.com/dferreira/quizmaster/internal/repository/redis"
	"github.com/dferreira/quizmaster/internal/repository/sqlite"
	"github.com/dferreira/quizmaster/internal/services"
	"github.com/dferreira/quizmaster/internal/trivia"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("QuizMaster Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("storage_driver=%s", cfg.StorageDriver)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("trivia_base_url=%s", cfg.TriviaBaseURL)
	log.Debug("question_count=%d", cfg.QuestionCount)
	log.Debug("question_time_seconds=%d", cfg.QuestionTimeSeconds)

	// Open database. Users always live in SQLite; the quiz progress and
	// history stores follow STORAGE_DRIVER.
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	userRepo := sqlite.NewUserRepository(database.DB)

	var progressRepo repository.ProgressRepository
	var historyRepo repository.HistoryRepository
	var redisClient *goredis.Client

	switch cfg.StorageDriver {
	case "redis":
		redisClient = goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Error("failed to connect to redis at %s: %v", cfg.RedisAddr, err)
			os.Exit(1)
		}
		log.Info("quiz storage: redis at %s", cfg.RedisAddr)
		progressRepo = redisrepo.NewProgressRepository(redisClient)
		historyRepo = redisrepo.NewHistoryRepository(redisClient)
	default:
		log.Info("quiz storage: sqlite")
		progressRepo = sqlite.NewProgressRepository(database.DB)
		historyRepo = sqlite.NewHistoryRepository(database.DB)
	}

	// Question source
	triviaClient := trivia.New(
		trivia.WithBaseURL(cfg.TriviaBaseURL),
		trivia.WithTimeout(cfg.TriviaTimeout),
	)
	source := trivia.NewSource(triviaClient)

	// Initialize services
	userService := services.NewUserService(userRepo)
	statsService := services.NewStatsService(historyRepo)
	quizService := services.NewQuizService(source, progressRepo, historyRepo, services.QuizConfig{
		QuestionCount:       cfg.QuestionCount,
		QuestionTimeSeconds: cfg.QuestionTimeSeconds,
	})

	srv := &api.Server{
		QuizService:  quizService,
		StatsService: statsService,
		UserService:  userService,
		DB:           database.DB,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping question countdowns")
	quizService.Close()

	if redisClient != nil {
		log.Debug("closing redis connection")
		redisClient.Close()
	}

	log.Info("===========================================")
	log.Info("QuizMaster Server Stopped")
	log.Info("===========================================")
}
