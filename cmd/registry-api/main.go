package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/noah-isme/vanbang-api/api/swagger"
	"github.com/noah-isme/vanbang-api/internal/bootstrap"
	"github.com/noah-isme/vanbang-api/internal/handler"
	"github.com/noah-isme/vanbang-api/internal/ledger"
	"github.com/noah-isme/vanbang-api/internal/repository"
	"github.com/noah-isme/vanbang-api/internal/service"
	"github.com/noah-isme/vanbang-api/pkg/cache"
	"github.com/noah-isme/vanbang-api/pkg/config"
	"github.com/noah-isme/vanbang-api/pkg/jobs"
	"github.com/noah-isme/vanbang-api/pkg/logger"
	"github.com/noah-isme/vanbang-api/pkg/storage"
)

// @title Van Bang API
// @version 1.0.0
// @description Diploma registry: yearly books, graduation decisions, diploma entries and public verification
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	metrics := service.NewMetricsService()

	led, store, err := bootstrap.OpenLedger(ctx, cfg, logr, ledger.WithObserver(metrics))
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck
	logr.Info("ledger loaded", zap.String("driver", store.Driver))

	checks := map[string]handler.ReadinessCheck{"store": store.Ping}

	var cacheRepo service.CacheRepository
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, statistics cache disabled", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(client, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
			checks["redis"] = repo.Ping
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Stats.CacheTTL, logr, cacheRepo != nil)

	validate := validator.New()
	stats := service.NewStatisticsService(led, cacheSvc, cfg.Stats.CacheTTL, logr)

	if cfg.Ledger.SeedFile != "" {
		seed, err := service.LoadSeedFile(cfg.Ledger.SeedFile)
		if err != nil {
			return err
		}
		if _, err := service.NewSeedService(led, stats, logr).Apply(ctx, seed); err != nil {
			return fmt.Errorf("apply seed: %w", err)
		}
	}

	handlers := handler.Handlers{
		Books:      handler.NewBookHandler(service.NewBookService(led, stats, validate, logr)),
		Decisions:  handler.NewDecisionHandler(service.NewDecisionService(led, stats, validate, logr)),
		Fields:     handler.NewFieldTemplateHandler(service.NewFieldTemplateService(led, validate, logr)),
		Diplomas:   handler.NewDiplomaHandler(service.NewDiplomaService(led, stats, validate, logr)),
		Statistics: handler.NewStatisticsHandler(stats),
		Ledger:     handler.NewLedgerHandler(service.NewTransferService(led, stats, logr)),
		Lookup: handler.NewLookupHandler(
			service.NewLookupService(led, stats, metrics, validate, logr, service.LookupServiceConfig{DefaultSource: cfg.Lookup.DefaultSource, KnownSources: cfg.Lookup.Sources}),
			cfg.Lookup.SourceHeader,
		),
		Metrics: handler.NewMetricsHandler(metrics, checks),
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Exports.Enabled {
		exports, err := startExports(gctx, g, cfg, led, metrics, logr)
		if err != nil {
			return err
		}
		handlers.Exports = exports
	}

	if store.File != nil && cfg.Storage.WatchFile {
		g.Go(func() error {
			return store.File.Watch(gctx, func(ctx context.Context) {
				if err := led.Reload(ctx); err == nil {
					stats.Invalidate(ctx)
				}
			})
		})
	}

	router := handler.NewRouter(handler.RouterConfig{
		APIPrefix:          cfg.APIPrefix,
		AllowedOrigins:     cfg.CORS.AllowedOrigins,
		LookupSourceHeader: cfg.Lookup.SourceHeader,
		ReadOnly:           cfg.Ledger.ReadOnly,
		EnableDocs:         cfg.Env != config.EnvProduction,
	}, handlers, metrics, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.Bool("read_only", cfg.Ledger.ReadOnly))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logr.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func startExports(ctx context.Context, g *errgroup.Group, cfg *config.Config, led *ledger.Ledger, metrics *service.MetricsService, logr *zap.Logger) (*handler.ExportHandler, error) {
	files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("init export storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	exporter := service.NewExportService(led, files, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr, nil, nil)

	jobRepo := repository.NewExportJobRepository()
	worker := service.NewExportWorker(jobRepo, exporter, metrics, cfg.Exports.WorkerRetries, logr)
	queue := jobs.NewQueue("register-exports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	})
	queue.Start(ctx)

	jobSvc := service.NewExportJobService(jobRepo, queue, exporter, metrics, logr, service.ExportJobServiceConfig{
		ResultTTL:       cfg.Exports.SignedURLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
	})

	g.Go(func() error {
		jobSvc.StartCleanup(ctx)
		<-ctx.Done()
		queue.Stop()
		return nil
	})

	return handler.NewExportHandler(jobSvc, logr), nil
}
