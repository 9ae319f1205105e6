// Package main is the entry point for the trip planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/trip-planner/internal/agent"
	"github.com/pkordes/trip-planner/internal/chain"
	"github.com/pkordes/trip-planner/internal/config"
	"github.com/pkordes/trip-planner/internal/enrich"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/llm"
	"github.com/pkordes/trip-planner/internal/metrics"
	"github.com/pkordes/trip-planner/internal/middleware"
	"github.com/pkordes/trip-planner/internal/places"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/internal/service"
	"github.com/pkordes/trip-planner/internal/tools"
	"github.com/pkordes/trip-planner/migrations"
)

const (
	sessionTTL      = 2 * time.Hour
	sessionMaxTurns = 40
	syncJobTimeout  = 2 * time.Minute
	placeCacheTTL   = 7 * 24 * time.Hour
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Storage ----------------------------------------------------------
	store, closeStore, err := openStore(context.Background(), cfg, logger)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// --- Upstreams --------------------------------------------------------
	m := metrics.New()

	placeCache, closeCache, err := openPlaceCache(cfg, logger)
	if err != nil {
		slog.Error("failed to open place cache", "error", err)
		os.Exit(1)
	}
	defer closeCache()

	placesClient, err := places.New(places.Options{APIKey: cfg.GoogleMapsAPIKey, Cache: placeCache})
	if err != nil {
		slog.Error("failed to create places client", "error", err)
		os.Exit(1)
	}
	if cfg.GoogleMapsAPIKey == "" {
		slog.Warn("GOOGLE_MAPS_API_KEY not set; enrichment, hotel search and photos are disabled")
	}

	newLLM := func(role string, model config.Model) *llm.Client {
		return llm.New(llm.Options{
			Role:        role,
			APIKey:      cfg.LLMAPIKey,
			BaseURL:     cfg.LLMBaseURL,
			Model:       model.Name,
			Temperature: model.Temperature,
			MaxTokens:   model.MaxTokens,
			Timeout:     cfg.LLMTimeout,
			Metrics:     m,
		})
	}

	// --- Model-backed components ------------------------------------------
	toolset := tools.Defaults(tools.Config{
		OpenWeatherAPIKey: cfg.OpenWeatherAPIKey,
		WeatherAPIKey:     cfg.WeatherAPIKey,
		RapidAPIKey:       cfg.RapidAPIKey,
		Hotels:            placesClient,
	})
	chatAgent := agent.New(newLLM("chat", cfg.ChatModel), toolset, agent.Options{Metrics: m, Logger: logger})
	chainOpts := chain.Options{Metrics: m, Logger: logger}
	extractor := chain.NewExtractor(newLLM("extraction", cfg.ExtractionModel), chainOpts)
	generator := chain.NewGenerator(newLLM("generation", cfg.GenerationModel), chainOpts)
	enricher := enrich.New(placesClient, m, logger)

	// --- Services ---------------------------------------------------------
	runner := service.NewRunner(syncJobTimeout, m, logger)
	sessions := agent.NewSessions(sessionTTL, sessionMaxTurns)
	srv := handler.NewServer(handler.Services{
		Trips:       service.NewTripService(store, logger).WithSessions(sessions),
		Users:       service.NewUserService(store.Users),
		Messages:    service.NewMessageService(store.Trips, store.Messages),
		Information: service.NewInformationService(store.Information),
		Chat:        service.NewChatService(store.Information, chatAgent, sessions, extractor, runner, logger),
		Plans:       service.NewPlanService(store, generator, enricher, logger),
		Export:      service.NewExportService(store.Trips, store.Plans),
		Photos:      placesClient,
	}, logger)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP, which the
	// rate limiter keys on.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	r.Mount("/", srv.Handler(handler.RouterOptions{
		Generative: limiter.Limit,
		Metrics:    m.Handler(),
	}))

	// --- HTTP Server ------------------------------------------------------
	// Generation waits on the model, so the write timeout is well above LLM_TIMEOUT.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 3*cfg.LLMTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests and
	// background sync jobs up to 15 seconds to complete.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr, "store", cfg.StoreDriver)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	if err := runner.Shutdown(ctx); err != nil {
		slog.Error("background jobs did not finish", "error", err)
	}
	slog.Info("server stopped")
}

// openStore connects the configured backend and returns its Store with a
// function releasing the connection.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (repo.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg.DatabaseURL, logger)
	default:
		return openMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	}
}

func openMongo(ctx context.Context, uri, database string, logger *slog.Logger) (repo.Store, func(), error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return repo.Store{}, nil, fmt.Errorf("connect mongo: %w", err)
	}
	closeFn := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("mongo disconnect", "error", err)
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		closeFn()
		return repo.Store{}, nil, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("mongo connection established", "database", database)
	return repo.NewMongoStore(client.Database(database)), closeFn, nil
}

func openPostgres(ctx context.Context, dsn string, logger *slog.Logger) (repo.Store, func(), error) {
	// pgxpool.New does not open connections immediately; the ping does.
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return repo.Store{}, nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return repo.Store{}, nil, fmt.Errorf("ping postgres: %w", err)
	}

	// goose needs a *sql.DB; it gets a short-lived one of its own.
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		pool.Close()
		return repo.Store{}, nil, fmt.Errorf("open migration connection: %w", err)
	}
	defer sqlDB.Close()
	applied, err := migrations.Up(ctx, sqlDB)
	if err != nil {
		pool.Close()
		return repo.Store{}, nil, err
	}
	logger.Info("postgres connection established", "migrations_applied", applied)
	return repo.NewPostgresStore(pool), pool.Close, nil
}

// openPlaceCache returns the shared Redis cache when REDIS_URL is set and a
// process-local cache otherwise.
func openPlaceCache(cfg config.Config, logger *slog.Logger) (places.Cache, func(), error) {
	if cfg.RedisURL == "" {
		return places.NewMemoryCache(placeCacheTTL), func() {}, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	closeFn := func() {
		if err := rdb.Close(); err != nil {
			logger.Error("redis close", "error", err)
		}
	}
	logger.Info("place cache using redis", "addr", opts.Addr)
	return places.NewRedisCache(rdb, placeCacheTTL, logger), closeFn, nil
}
