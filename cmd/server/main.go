package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/sarraf/treasury/internal/adapter/http"
	"github.com/sarraf/treasury/internal/adapter/http/handler"
	"github.com/sarraf/treasury/internal/adapter/http/middleware"
	"github.com/sarraf/treasury/internal/adapter/storage"
	filestore "github.com/sarraf/treasury/internal/adapter/storage/file"
	pgstore "github.com/sarraf/treasury/internal/adapter/storage/postgres"
	redisstore "github.com/sarraf/treasury/internal/adapter/storage/redis"
	"github.com/sarraf/treasury/internal/book"
	"github.com/sarraf/treasury/internal/infrastructure/config"
	"github.com/sarraf/treasury/internal/infrastructure/logger"
	"github.com/sarraf/treasury/internal/infrastructure/metrics"
	"github.com/sarraf/treasury/internal/infrastructure/postgres"
	"github.com/sarraf/treasury/internal/infrastructure/redis"
	"github.com/sarraf/treasury/internal/syncer"
	"github.com/sarraf/treasury/internal/usecase"
)

const migrationsPath = "migrations"

// fanoutSyncer hands every committed snapshot to each target. The primary
// store and the optional replica share the enqueue path.
type fanoutSyncer []usecase.Syncer

func (f fanoutSyncer) Enqueue(buckets map[string]json.RawMessage) {
	for _, s := range f {
		s.Enqueue(buckets)
	}
}

// loadBook restores the last snapshot from the store, falling back to an
// empty book when nothing was persisted yet.
func loadBook(ctx context.Context, store usecase.BucketStore, log zerolog.Logger) (*book.Book, error) {
	buckets, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(buckets) == 0 {
		log.Info().Msg("no persisted state, starting with an empty book")
		return book.New(), nil
	}
	return book.ImportBuckets(buckets)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger config is part of what failed to load.
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()

	// Primary snapshot store.
	var primary usecase.BucketStore
	var pool *pgxpool.Pool
	switch cfg.StorageBackend {
	case "postgres":
		pool, err = postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(cfg.DatabaseURL, migrationsPath, log); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		primary = pgstore.New(pool)
		log.Info().Msg("using postgres snapshot store")
	case "file":
		primary = filestore.New(cfg.DataFile)
		log.Info().Str("path", cfg.DataFile).Msg("using file snapshot store")
	default:
		log.Fatal().Str("backend", cfg.StorageBackend).Msg("unknown storage backend")
	}

	b, err := loadBook(ctx, primary, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load persisted state")
	}

	// Snapshot syncers: the primary store always gets one; a Redis replica
	// is added when configured. Uploads are debounced off the trade path.
	var wg sync.WaitGroup
	startSyncer := func(sy *syncer.Syncer) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sy.Run(ctx); err != nil {
				log.Error().Err(err).Msg("syncer stopped")
			}
		}()
	}

	primarySyncer := syncer.New(primary, log,
		syncer.WithMetrics(m),
		syncer.WithDebounce(cfg.SyncDebounce),
		syncer.WithTimeout(cfg.SyncTimeout))
	startSyncer(primarySyncer)
	targets := fanoutSyncer{primarySyncer}

	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		redisClient = client

		replicaSyncer := syncer.New(redisstore.New(client), log,
			syncer.WithMetrics(m),
			syncer.WithDebounce(cfg.SyncDebounce),
			syncer.WithTimeout(cfg.SyncTimeout))
		startSyncer(replicaSyncer)
		targets = append(targets, replicaSyncer)
		log.Info().Msg("redis replica sync enabled")
	}

	svc := usecase.NewService(b,
		storage.NewULIDGenerator(),
		storage.NewUUIDGenerator(),
		log,
		usecase.WithMetrics(m),
		usecase.WithSyncer(targets),
	)

	healthHandler := handler.NewHealthHandler(pool, redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		BankHandler:    handler.NewBankHandler(svc),
		PartyHandler:   handler.NewPartyHandler(svc),
		TradeHandler:   handler.NewTradeHandler(svc),
		RecordsHandler: handler.NewRecordsHandler(svc),
		GroupHandler:   handler.NewGroupHandler(svc),
		PendingHandler: handler.NewPendingHandler(svc),
		ReportHandler:  handler.NewReportHandler(svc),
		HealthHandler:  healthHandler,

		LoggingMiddleware: middleware.NewLoggingMiddleware(log),
		MetricsMiddleware: middleware.NewMetricsMiddleware(m),
		MetricsEndpoint:   promhttp.Handler(),
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// Stop the syncers; each flushes its pending snapshot on the way out.
	cancel()
	wg.Wait()

	log.Info().Msg("server stopped")
}
