package main

import (
	"context"
	"database/sql"
	"errors"
	"ev-route-service/internal/adapters/cache"
	"ev-route-service/internal/adapters/repositories"
	"ev-route-service/internal/adapters/routing"
	"ev-route-service/internal/api"
	"ev-route-service/internal/config"
	"ev-route-service/internal/platform/db"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"
	"ev-route-service/internal/services"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

// main is the application composition root.
// It wires concrete adapters (station store, ORS, route cache) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("CONFIG_PATH", ""))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := obs.NewLogger(cfg.Logging, "server")
	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := obs.NewMetrics(reg)
	if err != nil {
		return err
	}

	var sqlDB *sql.DB
	if cfg.Store.Backend == "postgres" || cfg.Cache.Backend == "postgres" {
		sqlDB, err = db.Open(cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		// Schema creation is idempotent; seeding is left to stationtool.
		if err := repositories.InitSchema(ctx, sqlDB); err != nil {
			return err
		}
	}

	var stations ports.StationRepository
	switch cfg.Store.Backend {
	case "postgres":
		stations = repositories.NewSQLStationRepository(sqlDB)
	default:
		stations = repositories.NewFileStationRepository(cfg.Store.StationsPath)
	}

	if strings.TrimSpace(cfg.Routing.APIKey) == "" {
		return errors.New("routing.api_key (ORS_API_KEY) is required")
	}
	ors, err := routing.NewORSRouteProvider(cfg.Routing)
	if err != nil {
		return err
	}

	var provider ports.RouteProvider = ors
	switch cfg.Cache.Backend {
	case "redis":
		client, err := cache.NewRedisClient(ctx, cfg.Cache.RedisAddr)
		if err != nil {
			return err
		}
		defer client.Close()
		provider = routing.NewCachedRouteProvider(ors, cache.NewRedisRouteCache(client, cfg.Cache.TTL()), metrics)
	case "postgres":
		provider = routing.NewCachedRouteProvider(ors, cache.NewSQLRouteCache(sqlDB, cfg.Cache.TTL()), metrics)
	}

	planner, err := services.NewTripPlanner(cfg.Engine, stations, provider, metrics)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.Deps{
		Logger:   logger,
		Planner:  planner,
		Stations: stations,
		Metrics:  metrics,
		Gatherer: reg,
	})

	// Write timeout leaves room for a cold-cache fan-out to the routing API.
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("store", cfg.Store.Backend).
			Str("cache", cfg.Cache.Backend).
			Str("conflict_policy", string(cfg.Engine.ConflictPolicy)).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
