package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/symptomatch/backend/internal/adapters/cache"
	"github.com/zatekoja/symptomatch/backend/internal/adapters/database"
	"github.com/zatekoja/symptomatch/backend/internal/adapters/directory"
	"github.com/zatekoja/symptomatch/backend/internal/api/handlers"
	"github.com/zatekoja/symptomatch/backend/internal/api/middleware"
	"github.com/zatekoja/symptomatch/backend/internal/api/routes"
	"github.com/zatekoja/symptomatch/backend/internal/application/services"
	"github.com/zatekoja/symptomatch/backend/internal/domain/providers"
	"github.com/zatekoja/symptomatch/backend/internal/domain/repositories"
	"github.com/zatekoja/symptomatch/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/symptomatch/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/symptomatch/backend/internal/infrastructure/clients/sqlite"
	"github.com/zatekoja/symptomatch/backend/internal/infrastructure/observability"
	"github.com/zatekoja/symptomatch/backend/pkg/config"
)

// Response cache TTL for the read-only directory endpoints.
const responseCacheTTL = 60

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, cfg.LogLevel)

	log.Info().
		Str("version", cfg.OTEL.ServiceVersion).
		Str("env", cfg.Env).
		Str("directory", cfg.Directory.Backend).
		Msg("Starting symptom matcher API")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize metrics")
	}

	// Lexicon and matcher
	lex, matcher, err := services.NewMatcherFromConfig(cfg.Matcher)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build specialist matcher")
	}
	log.Info().Int("categories", lex.Len()).Int("emergency_terms", len(lex.EmergencyTerms())).Msg("Lexicon loaded")

	healthChecks := map[string]handlers.HealthCheck{}

	// Cache: Redis when enabled, otherwise process-local
	var cacheProvider providers.CacheProvider
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		healthChecks["redis"] = redisClient.Ping
		log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Using Redis cache")
	} else {
		memory := cache.NewMemoryAdapter()
		go memory.StartSweeper(ctx, time.Minute)
		cacheProvider = memory
		log.Info().Msg("Using in-memory cache")
	}

	// Doctor directory
	doctorRepo, closeDirectory, err := openDirectory(ctx, cfg, healthChecks)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open doctor directory")
	}
	defer closeDirectory()

	if cfg.Directory.CacheTTL > 0 && cfg.Directory.Backend != config.DirectoryStatic {
		doctorRepo = database.NewCachedDoctorAdapter(doctorRepo, cacheProvider, cfg.Directory.CacheTTL, metrics)
	}

	doctorService := services.NewDoctorService(matcher, lex, doctorRepo, metrics)

	// Handlers and middleware
	matchHandler := handlers.NewMatchHandler(doctorService)
	directoryHandler := handlers.NewDirectoryHandler(doctorService)
	healthHandler := handlers.NewHealthHandler(healthChecks)
	proxies, err := middleware.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid TRUSTED_PROXIES")
	}
	rateLimiter := middleware.NewRateLimiter(cacheProvider, "match", cfg.RateLimit.Requests, cfg.RateLimit.WindowSeconds, metrics).
		TrustProxies(proxies)
	cacheMiddleware := middleware.NewCacheMiddleware(cacheProvider, responseCacheTTL, metrics)

	router := routes.NewRouter(
		matchHandler,
		directoryHandler,
		healthHandler,
		rateLimiter,
		cacheMiddleware,
		cfg.Server.AllowedOrigins,
		metrics,
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Error().Err(err).Msg("Server failed")
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	cancel()

	log.Info().Msg("Server exited")
}

// openDirectory opens the configured doctor directory and registers its
// health check. The returned func releases the backing connection.
func openDirectory(ctx context.Context, cfg *config.Config, checks map[string]handlers.HealthCheck) (repositories.DoctorRepository, func(), error) {
	switch cfg.Directory.Backend {
	case config.DirectoryPostgres:
		client, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Directory.RunMigrations {
			if err := client.RunMigrations(); err != nil {
				client.Close()
				return nil, nil, err
			}
		}
		checks["postgres"] = client.Ping
		return database.NewDoctorAdapter(client), func() { client.Close() }, nil

	case config.DirectorySQLite:
		client, err := sqlite.NewClient(ctx, cfg.Directory.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		checks["sqlite"] = func(ctx context.Context) error { return client.DB().PingContext(ctx) }
		return database.NewDoctorAdapter(client), func() { client.Close() }, nil

	default:
		repo, err := directory.NewEmbeddedAdapter()
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}
}
