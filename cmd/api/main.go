package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/newslens/backend/internal/answer"
	"github.com/newslens/backend/internal/api/handlers"
	"github.com/newslens/backend/internal/cache/redis"
	"github.com/newslens/backend/internal/corpus"
	"github.com/newslens/backend/internal/embedding"
	"github.com/newslens/backend/internal/llm"
	"github.com/newslens/backend/internal/metrics"
	"github.com/newslens/backend/internal/middleware/ratelimit"
	"github.com/newslens/backend/internal/middleware/security"
	"github.com/newslens/backend/internal/middleware/validation"
	"github.com/newslens/backend/internal/retrieval"
	"github.com/newslens/backend/internal/storage/sqlite"
	"github.com/newslens/backend/internal/synthesis"
	"github.com/newslens/backend/internal/vector"
	"github.com/newslens/backend/internal/vector/milvus"
	"github.com/newslens/backend/pkg/config"
	"github.com/newslens/backend/pkg/logger"
	"github.com/newslens/backend/pkg/retry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting newslens API",
		zap.String("env", cfg.Server.Env),
		zap.Int("port", cfg.Server.Port),
	)

	metrics.Init()

	if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("Failed to create data directory", zap.Error(err))
		}
	}

	db, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		logger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	ctx := context.Background()

	var cache *redis.Client
	if cfg.Redis.Enabled {
		probeCfg := retry.DefaultConfig()
		probeCfg.Logger = logger.GetLogger()
		err := retry.Do(ctx, probeCfg, "redis", func() error {
			var err error
			cache, err = redis.NewClient(
				cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB,
				time.Duration(cfg.Redis.TTLSec)*time.Second,
			)
			return err
		})
		if err != nil {
			logger.Warn("Redis unavailable, running without cache", zap.Error(err))
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	embedder := embedding.New(corpus.Topics, cfg.Retrieval.Dimension, cfg.Retrieval.JitterStddev)
	ids, vectors := retrieval.EmbedCorpus(embedder, corpus.Documents)

	searcher, cleanup, err := buildSearcher(ctx, cfg, ids, vectors)
	if err != nil {
		logger.Fatal("Failed to build vector searcher", zap.Error(err))
	}
	defer cleanup()

	retriever := retrieval.New(embedder, searcher, corpus.Documents, cache)

	var generator synthesis.Generator
	if cfg.LLM.APIKey != "" {
		generator = llm.NewOpenAIGenerator(
			cfg.LLM.APIKey, cfg.LLM.Model,
			time.Duration(cfg.LLM.TimeoutSec)*time.Second,
		)
	} else {
		generator = llm.NewStubGenerator()
	}

	synth := synthesis.New(generator, cfg.LLM.Temperature, cfg.LLM.MaxTokens)
	engine := answer.NewEngine(db, retriever, synth, cache, cfg.Retrieval.TopK)

	app := buildApp(cfg, db, engine)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("Shutdown did not complete cleanly", zap.Error(err))
	}
}

// buildSearcher wires the configured similarity backend. The in-memory index
// is exact and needs no external service; the milvus backend keeps the same
// contract against a remote collection.
func buildSearcher(ctx context.Context, cfg *config.Config, ids []string, vectors [][]float32) (vector.Searcher, func(), error) {
	switch cfg.Vector.Backend {
	case "milvus":
		store, err := milvus.NewStore(cfg.Vector.Endpoint, cfg.Vector.CollectionName, cfg.Retrieval.Dimension)
		if err != nil {
			return nil, nil, err
		}

		probeCfg := retry.DefaultConfig()
		probeCfg.Logger = logger.GetLogger()
		if err := retry.Do(ctx, probeCfg, "milvus", func() error {
			return store.EnsureCollection(ctx)
		}); err != nil {
			store.Close()
			return nil, nil, err
		}

		if err := store.UpsertCorpus(ctx, ids, vectors); err != nil {
			store.Close()
			return nil, nil, err
		}

		return store, func() { store.Close() }, nil

	case "memory", "":
		idx, err := vector.Build(ids, vectors)
		if err != nil {
			return nil, nil, err
		}
		return idx, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown vector backend %q", cfg.Vector.Backend)
	}
}

func buildApp(cfg *config.Config, db *sqlite.Client, engine *answer.Engine) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:           time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:             cfg.Server.BodyLimit,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.Server.AllowedOrigins, ","),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(security.Headers(security.HeadersConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		IsDevelopment:  cfg.Server.Env == "development",
	}))
	app.Use(validation.Middleware(validation.Config{
		MaxQueryLength: 5000,
		Logger:         logger.GetLogger(),
	}))

	if cfg.RateLimit.Enabled {
		rl := ratelimit.New(ratelimit.Config{
			MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
			Logger:               logger.GetLogger(),
		})
		app.Use(rl.Middleware())
	}

	queryHandler := handlers.NewQueryHandler(engine)
	historyHandler := handlers.NewHistoryHandler(engine)
	feedbackHandler := handlers.NewFeedbackHandler(engine)
	wsHandler := handlers.NewWebSocketHandler(engine)

	app.Post("/query", queryHandler.HandleQuery)
	app.Post("/revalidate", queryHandler.HandleRevalidate)
	app.Get("/history", historyHandler.HandleHistory)
	app.Get("/responses/:id/history", historyHandler.HandleResponseHistory)
	app.Post("/feedback", feedbackHandler.HandleFeedback)
	app.Get("/feedback/aggregate", feedbackHandler.HandleFeedbackAggregate)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/query", websocket.New(wsHandler.HandleConnection))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := db.Ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
		}
		return c.JSON(fiber.Map{"status": "healthy"})
	})
	app.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready"})
	})
	app.Get("/metrics", metrics.MetricsHandler())

	return app
}
