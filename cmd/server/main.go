package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/featureflags"
	"github.com/scottkoskoski/gardening-app/internal/handler"
	"github.com/scottkoskoski/gardening-app/internal/infrastructure/hardiness"
	"github.com/scottkoskoski/gardening-app/internal/infrastructure/logger"
	"github.com/scottkoskoski/gardening-app/internal/infrastructure/redis"
	"github.com/scottkoskoski/gardening-app/internal/infrastructure/upstream"
	"github.com/scottkoskoski/gardening-app/internal/infrastructure/weather"
	"github.com/scottkoskoski/gardening-app/internal/observability/tracing"
	"github.com/scottkoskoski/gardening-app/internal/repository"
	"github.com/scottkoskoski/gardening-app/internal/repository/memory"
	"github.com/scottkoskoski/gardening-app/internal/security"
	"github.com/scottkoskoski/gardening-app/internal/security/audit"
	"github.com/scottkoskoski/gardening-app/internal/security/auth"
	"github.com/scottkoskoski/gardening-app/internal/security/ratelimit"
	"github.com/scottkoskoski/gardening-app/internal/service"
	"github.com/scottkoskoski/gardening-app/internal/validation"
	"github.com/scottkoskoski/gardening-app/internal/worker"
	"github.com/scottkoskoski/gardening-app/pkg/config"
	"github.com/scottkoskoski/gardening-app/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	log.Info("starting gardening server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Tracing (no-op without an endpoint)
	shutdownTracing, err := tracing.Init(ctx, log, cfg.Telemetry.OTELEndpoint, "gardening-api", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Store
	checks := map[string]handler.Pinger{}
	var store domain.Store
	switch cfg.Database.Backend {
	case "memory":
		mem := memory.NewStore()
		if _, err := service.NewGardenTypeService(mem, log).Seed(ctx); err != nil {
			log.Error("failed to seed garden types", slog.String("error", err.Error()))
			os.Exit(1)
		}
		store = mem
		log.Warn("using in-memory store; data is lost on exit")
	default:
		pool, err := database.NewConnectionPool(ctx, &database.Config{
			URL:             cfg.Database.URL,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		}, log)
		if err != nil {
			log.Error("failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()
		store = repository.NewPostgresStore(pool.GetDB(), log)
		checks["database"] = handler.PingFunc(pool.Health)
	}

	// 5. Redis backs the zone cache when configured; otherwise an in-process
	// cache is pruned by the janitor
	var zoneCache hardiness.JSONStore
	checks["redis"] = nil
	if cfg.Upstreams.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.Upstreams.RedisURL, log)
		if err != nil {
			log.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		zoneCache = redisClient
		checks["redis"] = redisClient
	} else {
		memCache := hardiness.NewMemoryStore()
		zoneCache = memCache
		janitor := worker.NewJanitor(10*time.Minute, log, worker.Task{Name: "zone_cache_prune", Run: memCache.Prune})
		go janitor.Start(ctx)
	}

	// 6. Upstream clients, one breaker each
	upOpts := upstream.Options{Timeout: cfg.Upstreams.Timeout}
	zones := hardiness.NewCachedLookup(
		hardiness.NewClient(cfg.Upstreams.HardinessBaseURL, upstream.New("hardiness", upOpts, log), log),
		zoneCache, cfg.Upstreams.ZoneCacheTTL, log,
	)
	weatherClient := weather.NewClient(
		cfg.Upstreams.GeocodingBaseURL, cfg.Upstreams.ForecastBaseURL,
		upstream.New("geocoding", upOpts, log), upstream.New("forecast", upOpts, log), log,
	)

	// 7. Services
	flags := featureflags.New(map[string]bool{
		featureflags.StrictZoneEnrichment: cfg.Features.StrictZoneEnrichment,
	})
	validator := validation.New(time.Now)
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
	authz := security.NewAuthorizer(log)
	auditLogger := audit.NewLogger(log)

	authService := service.NewAuthService(store, tokenManager, validator, log)
	profileService := service.NewProfileService(store, zones, validator, flags, log)
	plantService := service.NewPlantService(store, validator, log)
	gardenTypeService := service.NewGardenTypeService(store, log)
	gardenService := service.NewGardenService(store, authz, validator, log)
	gardenPlantService := service.NewGardenPlantService(store, authz, validator, log)

	rateLimiter := ratelimit.NewLimiter(cfg.Security.RateLimitRPM)
	authLimiter := ratelimit.NewLimiter(cfg.Security.AuthRateLimitRPM)

	// 8. Routes
	router := handler.NewRouter(handler.RouterDeps{
		Users:        handler.NewUserHandler(authService, profileService, auditLogger, cfg.Auth.InactiveDays, log),
		Hardiness:    handler.NewHardinessHandler(zones, log),
		Weather:      handler.NewWeatherHandler(weatherClient, log),
		Plants:       handler.NewPlantHandler(plantService, log),
		GardenTypes:  handler.NewGardenTypeHandler(gardenTypeService, log),
		Gardens:      handler.NewGardenHandler(gardenService, auditLogger, log),
		GardenPlants: handler.NewGardenPlantHandler(gardenPlantService, auditLogger, log),
		Health:       handler.NewHealthHandler(checks, log),
		Tokens:       authService,
		Admins:       authService,
		Audit:        auditLogger,
		Limiter:      rateLimiter,
		AuthLimiter:  authLimiter,
		CORSOrigins:  cfg.Security.CORSAllowedOrigins,
		Logger:       log,
	})

	// 9. Start HTTP server
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.String("addr", cfg.HTTPAddr),
		slog.String("db_backend", cfg.Database.Backend),
		slog.Int("rate_limit", cfg.Security.RateLimitRPM),
		slog.Int("auth_rate_limit", cfg.Security.AuthRateLimitRPM),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
			sigChan <- syscall.SIGTERM
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	cancel() // stops the janitor
	rateLimiter.Stop()
	authLimiter.Stop()
	log.Info("server stopped")
}
