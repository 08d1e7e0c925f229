package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"ytemotion/internal/cache"
	"ytemotion/internal/chart"
	"ytemotion/internal/config"
	"ytemotion/internal/database"
	"ytemotion/internal/database/migration"
	handlers "ytemotion/internal/http/handler"
	"ytemotion/internal/http/middleware"
	"ytemotion/internal/httpx"
	"ytemotion/internal/logger"
	"ytemotion/internal/metrics"
	"ytemotion/internal/nlp"
	"ytemotion/internal/otel"
	"ytemotion/internal/repository/postgres"
	"ytemotion/internal/service"
	"ytemotion/internal/storage"
	"ytemotion/internal/youtube"
)

const shutdownTimeout = 15 * time.Second

// @title YouTube Emotion API
// @version 1.0
// @description Emotion analysis of YouTube video comments.
// @BasePath /
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Location())

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Str("event", "config_invalid").Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Str("event", "server_exit").Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) error {
	shutdownTracing, err := otel.Init(ctx, logger.Component(log, "otel"))
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		return err
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics, err := metrics.New(reg)
	if err != nil {
		return err
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	deps := service.Deps{
		Store:        objStore,
		Repo:         postgres.NewAnalysisPostgres(db),
		Preprocessor: nlp.NewPreprocessor(cfg.NLP.Language),
		Renderer:     chart.NewRenderer(0, 0),
		Metrics:      appMetrics,
		Log:          logger.Component(log, "analysis"),
	}

	healthDeps := []handlers.Pinger{objStore}
	if cfg.Redis.URL != "" {
		c, err := cache.New(ctx, cfg.Redis.URL, cfg.Redis.CacheTTL, logger.Component(log, "cache"))
		if err != nil {
			return err
		}
		defer c.Close()
		deps.Cache = c
		healthDeps = append(healthDeps, c)
	} else {
		log.Info().Str("event", "cache_disabled").Msg("REDIS_URL not set, analysis cache disabled")
	}

	yt, err := youtube.New(cfg.YouTube, httpx.NewClient(cfg.YouTube.Timeout), logger.Component(log, "youtube"))
	if err != nil {
		return err
	}
	deps.Comments = yt

	var classifier nlp.Classifier
	if cfg.NLP.APIToken != "" {
		model := nlp.ModelFor(cfg.NLP, cfg.NLP.Language)
		classifier = nlp.NewInferenceClassifier(cfg.NLP.InferenceURL, model, cfg.NLP.APIToken, httpx.NewClient(cfg.NLP.Timeout))
		log.Info().Str("event", "classifier_configured").Str("model", model).Msg("using inference API")
	} else {
		classifier = nlp.NewLexiconClassifier()
		log.Warn().Str("event", "classifier_configured").Str("model", "lexicon").Msg("HF_API_TOKEN not set, using lexicon classifier")
	}
	deps.Analyzer = nlp.NewAnalyzer(classifier, cfg.NLP.MaxTextLength, cfg.NLP.Workers, logger.Component(log, "nlp"))

	analysisSvc := service.NewAnalysisService(deps, service.Options{
		ChartPrefix:        cfg.Chart.Prefix,
		URLExpiry:          cfg.Chart.URLExpiry,
		DefaultMaxComments: 100,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		ReadTimeout:  30 * time.Second,
		// /analyze fetches and classifies comments before responding.
		WriteTimeout: 5 * time.Minute,
	})

	app.Use(recover.New())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	})))
	app.Use(cors.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger.Component(log, "http")))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, handlers.Routes{
		DB:       db,
		Analyses: analysisSvc,
		Gatherer: reg,
		Health:   healthDeps,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("event", "server_start").Str("addr", addr).Str("public_host", cfg.AppHost).Msg("listening")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Str("event", "server_shutdown").Msg("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
