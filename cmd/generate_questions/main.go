package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"trivia-forge/internal/adapter"
	"trivia-forge/internal/adapter/factsource"
	"trivia-forge/internal/adapter/genai"
	"trivia-forge/internal/cache"
	"trivia-forge/internal/config"
	"trivia-forge/internal/database"
	"trivia-forge/internal/domain"
	"trivia-forge/internal/handler"
	"trivia-forge/internal/logger"
	"trivia-forge/internal/repository"
	"trivia-forge/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	total := flag.Int("total", 50, "number of questions to generate")
	batchSize := flag.Int("batch-size", 0, "questions per batch (0 uses the configured default)")
	categoryDist := flag.String("category-dist", "", `category weights, e.g. "science=0.5,history=0.5" (empty uses defaults)`)
	difficultyDist := flag.String("difficulty-dist", "", `difficulty weights, e.g. "easy=0.4,medium=0.4,hard=0.2" (empty uses defaults)`)
	trackStats := flag.Bool("track-stats", false, "checkpoint run statistics to Redis")
	serveStatus := flag.Bool("serve-status", true, "expose /status and /healthz while the run is in progress")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		// Logger might not be initialized yet, so use fmt for this critical error
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Get().Info("Question generation process starting up...")

	req := domain.GenerationRequest{
		TotalQuestions: *total,
		BatchSize:      *batchSize,
		TrackStats:     *trackStats,
	}
	if *categoryDist != "" {
		weights, err := parseCategoryWeights(*categoryDist)
		if err != nil {
			logger.Get().Fatal("Invalid -category-dist", zap.Error(err))
		}
		req.Distribution.CategoryWeights = weights
	}
	if *difficultyDist != "" {
		weights, err := parseDifficultyWeights(*difficultyDist)
		if err != nil {
			logger.Get().Fatal("Invalid -difficulty-dist", zap.Error(err))
		}
		req.Distribution.DifficultyWeights = weights
	}

	db, err := database.NewSQLXOracleDB(cfg.GetGodrorDSN())
	if err != nil {
		logger.Get().Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()
	logger.Get().Info("Successfully connected to Oracle database.")

	questionRepo := repository.NewQuestionDatabaseAdapter(db)

	var statsCache domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Get().Fatal("Failed to initialize Redis Client", zap.Error(err))
		}
		statsCache = adapter.NewRedisCacheAdapter(redisClient)
		logger.Get().Info("Redis checkpoint store initialized successfully.")
	} else {
		logger.Get().Warn("Redis is not configured. Running without stat checkpoints.")
	}

	llm, err := genai.NewModel(cfg.LLM)
	if err != nil {
		logger.Get().Fatal("Failed to initialize LLM client", zap.Error(err))
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	factSource := factsource.NewSearchFactSource(cfg.Search, rng, logger.Get())
	generator := genai.NewSearchAugmentedGenerator(llm, cfg.LLM.Timeout, logger.Get())
	fallback := genai.NewDirectGenerator(llm, cfg.LLM.Timeout, logger.Get())

	svc := service.NewGenerationService(factSource, generator, fallback, questionRepo, statsCache, cfg, logger.Get())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	var app *fiber.App
	if *serveStatus {
		app = fiber.New(fiber.Config{DisableStartupMessage: true})
		handler.NewStatusHandler(svc, statsCache).RegisterRoutes(app)
		g.Go(func() error {
			addr := fmt.Sprintf(":%d", cfg.Server.Port)
			logger.Get().Info("Status endpoint listening", zap.String("addr", addr))
			if err := app.Listen(addr); err != nil {
				return fmt.Errorf("status server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			if app != nil {
				_ = app.Shutdown()
			}
		}()
		report, err := svc.Run(ctx, req)
		if err != nil {
			return err
		}
		logger.Get().Info("Run report",
			zap.String("run_id", report.RunID),
			zap.Int("accepted", report.Accepted),
			zap.Int("rejected", report.Rejected),
			zap.Int("duplicates", report.Duplicates),
			zap.Int("attempted", report.Attempted),
			zap.Int("store_approved", report.StoreApproved),
			zap.Duration("elapsed", report.Elapsed))
		for reason, count := range report.RejectionCount {
			logger.Get().Info("Rejection breakdown",
				zap.String("reason", string(reason)),
				zap.Int("count", count))
		}
		return nil
	})

	// A signal or a failed group member stops the pipeline cooperatively.
	defer context.AfterFunc(ctx, svc.Stop)()

	if err := g.Wait(); err != nil {
		logger.Get().Fatal("Generation process failed", zap.Error(err))
	}
	logger.Get().Info("Generation process completed successfully.")
}

func parseCategoryWeights(s string) (map[domain.Category]float64, error) {
	weights := make(map[domain.Category]float64)
	for key, w := range parsePairs(s) {
		category, err := domain.ParseCategory(key)
		if err != nil {
			return nil, err
		}
		value, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q for category %s", w, key)
		}
		weights[category] = value
	}
	if len(weights) == 0 {
		return nil, fmt.Errorf("no category weights in %q", s)
	}
	return weights, nil
}

func parseDifficultyWeights(s string) (map[domain.Difficulty]float64, error) {
	weights := make(map[domain.Difficulty]float64)
	for key, w := range parsePairs(s) {
		difficulty, err := domain.ParseDifficulty(key)
		if err != nil {
			return nil, err
		}
		value, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q for difficulty %s", w, key)
		}
		weights[difficulty] = value
	}
	if len(weights) == 0 {
		return nil, fmt.Errorf("no difficulty weights in %q", s)
	}
	return weights, nil
}

func parsePairs(s string) map[string]string {
	pairs := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		pairs[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return pairs
}
