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

	"github.com/okian/propcast/internal/adapters/csvload"
	"github.com/okian/propcast/internal/adapters/http/api"
	"github.com/okian/propcast/internal/adapters/ledger"
	"github.com/okian/propcast/internal/adapters/repository"
	"github.com/okian/propcast/internal/adapters/watch"
	app "github.com/okian/propcast/internal/app"
	"github.com/okian/propcast/internal/config"
	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 60 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	requestTimeout         = 45 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		os.Stderr.WriteString("propcast: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var ledgerOpt app.Option
	if cfg.LedgerDSN != "" {
		pg, err := openLedger(ctx, cfg.LedgerDSN)
		if err != nil {
			return err
		}
		defer func() { _ = pg.Close() }()
		ledgerOpt = app.WithLedger(pg)
	}

	svc, err := buildService(cfg, store, ledgerOpt)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	// Startup refresh; failures leave the API answering 503 until data arrives.
	if _, _, err := svc.Publish(ctx, model.RefreshRequest{Reason: model.ReasonStartup}); err != nil {
		loggerInstance.Error(ctx, "startup refresh failed", logger.String("data_dir", cfg.DataDir), logger.Error(err))
	}

	if cfg.WatchDataDir {
		w := watch.New(cfg.DataDir, func(ctx context.Context) error {
			_, err := svc.RequestRefresh(ctx, model.RefreshRequest{Reason: model.ReasonWatch})
			return err
		}, watch.WithDebounce(cfg.WatchDebounce))
		go func() {
			if err := w.Run(ctx); err != nil {
				loggerInstance.Error(ctx, "data dir watcher stopped", logger.Error(err))
			}
		}()
	}

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	srv := newHTTPServer(cfg, svc)

	// Start the HTTP server
	serveErr := make(chan error, 1)
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("%w: %w", api.ErrServe, err)
		}
		close(serveErr)
	}()

	// Wait for shutdown signal
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
	return nil
}

// buildStore returns the configured run store and a func releasing it.
func buildStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	opts := []repository.Option{
		repository.WithHistorySize(cfg.HistorySize),
		repository.WithTTL(cfg.RunTTL()),
	}
	switch cfg.Store {
	case config.StoreRedis:
		client, err := repository.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return repository.NewRedisStore(client, opts...), func() { _ = client.Close() }, nil
	default:
		return repository.NewMemoryStore(opts...), func() {}, nil
	}
}

func openLedger(ctx context.Context, dsn string) (*ledger.Postgres, error) {
	db, err := ledger.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	pg := ledger.NewPostgres(db)
	if err := pg.EnsureSchema(ctx); err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("ledger schema: %w", err)
	}
	return pg, nil
}

// buildService wires the service from configuration. A nil extra option is
// ignored.
func buildService(cfg *config.Config, store repository.Store, extra ...app.Option) (*app.Service, error) {
	opt, err := cfg.PipelineOptions()
	if err != nil {
		return nil, fmt.Errorf("pipeline options: %w", err)
	}
	opts := []app.Option{
		app.WithLogger(logger.Named("service")),
		app.WithSource(csvload.New(cfg.DataDir, csvload.WithLogger(logger.Named("csvload")))),
		app.WithStore(store),
		app.WithPipelineOptions(opt),
		app.WithWeights(cfg.Weights()),
		app.WithSeed(cfg.Seed),
		app.WithQueueSize(cfg.RefreshQueueSize),
		app.WithDedupeSize(cfg.FingerprintCacheSize),
	}
	for _, o := range extra {
		if o != nil {
			opts = append(opts, o)
		}
	}
	return app.New(opts...), nil
}

func newHTTPServer(cfg *config.Config, svc *app.Service) *http.Server {
	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc,
		api.WithCORSOrigins(cfg.Origins()),
		api.WithRequestTimeout(requestTimeout),
		api.WithLogger(logger.Named("http")),
	)
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Routes(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats refreshes the queue gauge as a side effect.
			_ = svc.GetStats()
		}
	}
}
