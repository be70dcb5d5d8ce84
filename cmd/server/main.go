// Command server runs the back office HTTP API: bulk product imports, the
// import bot panel and the operational endpoints.
package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	importapp "github.com/storefront/backoffice/internal/application/import"
	"github.com/storefront/backoffice/internal/domain/bulk"
	"github.com/storefront/backoffice/internal/infrastructure/auth"
	"github.com/storefront/backoffice/internal/infrastructure/config"
	"github.com/storefront/backoffice/internal/infrastructure/logger"
	"github.com/storefront/backoffice/internal/infrastructure/metrics"
	"github.com/storefront/backoffice/internal/infrastructure/persistence"
	"github.com/storefront/backoffice/internal/infrastructure/progress"
	"github.com/storefront/backoffice/internal/infrastructure/scheduler"
	"github.com/storefront/backoffice/internal/infrastructure/storage"
	"github.com/storefront/backoffice/internal/interfaces/http/handler"
	"github.com/storefront/backoffice/internal/interfaces/http/middleware"
	"github.com/storefront/backoffice/internal/interfaces/http/router"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"k8s.io/utils/clock"
)

const shutdownTimeout = 30 * time.Second

// progressStore is the progress backend plus its lifecycle
type progressStore interface {
	bulk.ProgressStore
	io.Closer
}

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting back office",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if err := run(cfg, log); err != nil {
		log.Fatal("Server stopped with error", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	// postgres schemas are owned by cmd/migrate
	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			return err
		}
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	healthChecks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}

	store, err := openProgressStore(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing progress store", zap.Error(err))
		}
	}()
	if redisStore, ok := store.(*progress.RedisStore); ok {
		healthChecks["progress"] = redisStore.Ping
	}

	archive, err := openArchive(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.Pool(), cfg.Database.Driver),
	)

	lang := bulk.MatchLanguage(language.Make(cfg.Import.Language))
	products := persistence.NewGormProductRepository(db.DB)
	jobs := importapp.NewImportJobService(importapp.Dependencies{
		Logs:     persistence.NewGormImportLogRepository(db.DB),
		Products: products,
		Progress: store,
		Archive:  archive,
		Metrics:  metrics.NewImportMetrics(reg),
		Logger:   log,
	}, importapp.Options{
		MaxFileSize: cfg.Import.MaxFileSize,
		Workers:     cfg.Import.Workers,
		QueueSize:   cfg.Import.QueueSize,
		ProgressTTL: cfg.Import.ProgressTTL,
		JobTimeout:  cfg.Import.JobTimeout,
		Language:    lang,
	})

	recovered, err := jobs.Recover(ctx)
	if err != nil {
		log.Error("Failed to recover interrupted imports", zap.Error(err))
	} else if recovered > 0 {
		log.Warn("Marked interrupted imports as failed", zap.Int("count", recovered))
	}

	var retention *scheduler.RetentionTrigger
	if cfg.Import.Retention > 0 {
		retention, err = scheduler.NewRetentionTrigger(scheduler.RetentionConfig{
			Retention:     cfg.Import.Retention,
			CheckInterval: cfg.Import.RetentionCheckInterval,
		}, jobs, clock.RealClock{}, log)
		if err != nil {
			return err
		}
		retention.Start(ctx)
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// development token minting; production tokens come from the identity provider
	var tokens *handler.TokenHandler
	if !cfg.App.IsProduction() {
		tokens = handler.NewTokenHandler(jwtService)
		log.Warn("Token minting endpoint enabled", zap.String("path", "/api/v1/auth/token"))
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := router.NewEngine(router.Dependencies{
		Imports:       handler.NewImportHandler(jobs, cfg.Import.MaxFileSize, lang),
		Bot:           handler.NewBotHandler(importapp.NewBotService(jobs, products, importapp.InactiveBot{}), lang),
		Health:        handler.NewHealthHandler(healthChecks),
		Tokens:        tokens,
		JWT:           jwtService,
		UploadLimiter: middleware.NewRateLimiter(cfg.HTTP.UploadRateLimit, cfg.HTTP.UploadRateWindow),
		HTTPMetrics:   metrics.NewHTTPMetrics(reg),
		Gatherer:      reg,
		Logger:        log,
		CORS:          corsConfig(cfg.HTTP),
		MaxBodySize: cfg.HTTP.MaxBodySize,
	})
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		httpErr := srv.Shutdown(shutdownCtx)
		if retention != nil {
			if err := retention.Stop(shutdownCtx); err != nil {
				log.Warn("Retention trigger did not stop", zap.Error(err))
			}
		}
		if err := jobs.Shutdown(shutdownCtx); err != nil {
			log.Warn("Import workers did not drain", zap.Error(err))
		}
		return httpErr
	})

	return g.Wait()
}

func openProgressStore(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (progressStore, error) {
	if !cfg.Enabled() {
		log.Info("Redis not configured, keeping import progress in memory")
		return progress.NewMemoryStore(), nil
	}
	store, err := progress.NewRedisStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("Import progress stored in Redis", zap.String("addr", cfg.Addr()))
	return store, nil
}

func openArchive(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (bulk.UploadArchive, error) {
	if !cfg.Enabled() {
		log.Info("Object storage not configured, archiving uploads locally", zap.String("dir", cfg.LocalDir))
		return storage.NewLocalArchive(cfg.LocalDir, cfg.Prefix, clock.RealClock{})
	}
	archive, err := storage.NewS3Archive(cfg, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := archive.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	log.Info("Archiving uploads to object storage", zap.String("bucket", archive.Bucket()))
	return archive, nil
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig(cfg.CORSAllowOrigins...)
	if len(cfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cors
}
