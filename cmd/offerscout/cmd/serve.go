package cmd

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

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/offerscout/offerscout/internal/aggregator"
	"github.com/offerscout/offerscout/internal/api/handlers"
	mw "github.com/offerscout/offerscout/internal/api/middleware"
	"github.com/offerscout/offerscout/internal/config"
	"github.com/offerscout/offerscout/internal/engine"
	"github.com/offerscout/offerscout/internal/rates"
	"github.com/offerscout/offerscout/internal/source"
	"github.com/offerscout/offerscout/internal/source/amazon"
	"github.com/offerscout/offerscout/internal/source/ebay"
	"github.com/offerscout/offerscout/internal/source/mock"
	"github.com/offerscout/offerscout/internal/store"
	"github.com/offerscout/offerscout/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and background jobs",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := newLogger(cfg)

	ctx := context.Background()

	// Optional persistence.
	var st store.Store
	if cfg.Database.Enabled {
		pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pg.Close()

		if err := pg.Migrate(ctx); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
		st = pg
	}

	cache := rates.New(cfg.Rates.APIKey, cfg.Search.TargetCurrency,
		rates.WithBaseURL(cfg.Rates.BaseURL),
		rates.WithTTL(cfg.Rates.TTL),
		rates.WithLogger(logger.Component(log, "rates")),
	)

	adapters := buildAdapters(cfg, log)
	if len(adapters) == 0 {
		return errors.New("no offer sources configured")
	}

	aggOpts := []aggregator.Option{
		aggregator.WithSourceTimeout(cfg.Search.SourceTimeout),
		aggregator.WithLogger(logger.Component(log, "aggregator")),
	}
	if st != nil {
		aggOpts = append(aggOpts, aggregator.WithRecorder(st))
	}
	agg := aggregator.New(adapters, cache, cfg.Search.TargetCurrency, aggOpts...)

	// Background jobs: rate warmup always, history pruning only with a store.
	var pruner engine.Pruner
	pruneInterval := time.Duration(0)
	if st != nil {
		pruner = st
		pruneInterval = cfg.Schedule.HistoryPruneInterval
	}
	engineLog := logger.Component(log, "engine")
	eng := engine.New(cache, pruner, cfg.Schedule.HistoryRetention, engineLog)
	sched, err := engine.NewScheduler(eng, cfg.Schedule.RateWarmupInterval, pruneInterval, engineLog)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	e := newServer(log, agg, cache, st)

	sched.Start()
	defer func() { <-sched.Stop().Done() }()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server",
		"addr", addr,
		"sources", len(adapters),
		"target_currency", cfg.Search.TargetCurrency,
		"persistence", st != nil,
	)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// newServer assembles the Echo instance: middleware, operational endpoints,
// and the versioned API.
func newServer(
	log *slog.Logger,
	agg *aggregator.Aggregator,
	cache *rates.Cache,
	st store.Store,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	httpLog := logger.Component(log, "http")
	e.Use(mw.Recovery(httpLog))
	e.Use(mw.RequestLog(httpLog))
	e.Use(mw.Metrics())

	health := handlers.NewHealthHandler(st)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("offerscout API", Version))
	handlers.RegisterSearchRoutes(api, handlers.NewSearchHandler(agg))
	handlers.RegisterRatesRoutes(api, handlers.NewRatesHandler(cache))
	handlers.RegisterHistoryRoutes(api, handlers.NewHistoryHandler(st))

	return e
}

// buildAdapters registers one adapter per configured source. Demo mode
// serves the fixture catalog instead of touching any live API.
func buildAdapters(cfg *config.Config, log *slog.Logger) []source.Adapter {
	if cfg.Search.Demo {
		log.Info("demo mode: serving fixture catalog")
		return []source.Adapter{mock.NewProvider()}
	}

	var adapters []source.Adapter

	if cfg.HasEbayCredentials() {
		tokens := ebay.NewOAuthTokenProvider(
			cfg.Ebay.ClientID,
			cfg.Ebay.ClientSecret,
			ebay.WithTokenURL(cfg.Ebay.TokenURL),
		)
		limiter := ebay.NewRateLimiter(
			cfg.Ebay.RateLimit.PerSecond,
			cfg.Ebay.RateLimit.Burst,
			cfg.Ebay.RateLimit.DailyLimit,
		)
		adapters = append(adapters, ebay.NewAdapter(tokens, cfg.Search.TargetCurrency,
			ebay.WithBrowseURL(cfg.Ebay.BrowseURL),
			ebay.WithMarketplace(cfg.Ebay.Marketplace),
			ebay.WithRateLimiter(limiter),
		))
	}

	if cfg.HasAmazonCredentials() {
		adapters = append(adapters, amazon.NewAdapter(
			cfg.Amazon.AccessKey,
			cfg.Amazon.SecretKey,
			cfg.Amazon.PartnerTag,
			amazon.WithEndpoint(cfg.Amazon.Endpoint),
			amazon.WithRegion(cfg.Amazon.Region),
		))
	}

	return adapters
}
