package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vivenda_backend/internal/geocode"
	apphttp "vivenda_backend/internal/http"
	"vivenda_backend/internal/http/router"
	"vivenda_backend/internal/leads"
	"vivenda_backend/internal/valuation"
	"vivenda_backend/platform/config"
	"vivenda_backend/platform/logger"
	"vivenda_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := validator.RegisterBindingRules(); err != nil {
		panic("failed to register binding rules: " + err.Error())
	}

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	geocodeCache, closeCache := initGeocodeCache(ctx, cfg, log)
	if closeCache != nil {
		defer closeCache()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	valuationModule := valuation.NewModule(cfg, log)
	geocodeModule := geocode.NewModule(cfg, geocodeCache, log)
	leadsModule := leads.NewModule(cfg, valuationModule.Service(), log)

	if cfg.LeadsWebhookURL == "" || cfg.LeadsWebhookSecret == "" {
		log.Warn("lead webhook not fully configured; lead submissions will be rejected")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Modules: []apphttp.Module{
			geocodeModule,
			valuationModule,
			leadsModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initGeocodeCache picks the Redis cache when REDIS_URL is configured and
// reachable, and falls back to the bounded in-process cache otherwise.
func initGeocodeCache(ctx context.Context, cfg *config.Config, log *logger.Logger) (geocode.Cache, func()) {
	memory := func() (geocode.Cache, func()) {
		log.Info("geocode cache: in-process", "capacity", cfg.GeocodeCacheSize, "ttl", cfg.GeocodeCacheTTL)
		return geocode.NewMemoryCache(cfg.GeocodeCacheSize, cfg.GeocodeCacheTTL), nil
	}

	if cfg.RedisURL == "" {
		return memory()
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Warn("invalid REDIS_URL, using in-process geocode cache", "error", err)
		return memory()
	}

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, using in-process geocode cache", "error", err)
		_ = client.Close()
		return memory()
	}

	log.Info("geocode cache: redis", "ttl", cfg.GeocodeCacheTTL)
	return geocode.NewRedisCache(client, cfg.GeocodeCacheTTL), func() {
		_ = client.Close()
	}
}
