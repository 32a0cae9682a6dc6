package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/presale/internal/adapters/http/auth"
	"github.com/okian/presale/internal/adapters/repository"
	app "github.com/okian/presale/internal/app"
	"github.com/okian/presale/internal/config"
	"github.com/okian/presale/pkg/logger"
	"github.com/okian/presale/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	hashPassword := flag.String("hash-password", "", "print the bcrypt hash of a password for auth.admin_password_hash and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := auth.HashPassword(*hashPassword)
		if err != nil {
			os.Stderr.WriteString(err.Error() + "\n")
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	// Disable default Go metrics collection to avoid duplicate metrics
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env). The log format
	// and file live in the configuration, so logging starts afterwards.
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(
		logger.WithFormat(cfg.LogFormat),
		logger.WithFile(cfg.LogFile.Path, cfg.LogFile.MaxSizeMB, cfg.LogFile.MaxBackups, cfg.LogFile.MaxAgeDays),
	); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Setup(metricsOptions(cfg)...)

	if err := run(ctx, cfg, loggerInstance); err != nil {
		loggerInstance.Error(ctx, "presale admin exited", logger.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// run starts the service and the HTTP server and blocks until ctx ends.
func run(ctx context.Context, cfg *config.Config, l logger.Logger) error {
	opts, err := app.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	opts = append(opts, app.WithLogger(l))

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		opts = append(opts, app.WithStore(store))
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		if store != nil {
			_ = store.Close()
		}
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	authenticator, err := newAuthenticator(cfg)
	if err != nil {
		return err
	}
	if !authenticator.Enabled() {
		l.Warn(ctx, "authentication disabled; every request is treated as the admin")
	}

	handler, err := newRouter(cfg, svc, authenticator, l)
	if err != nil {
		return err
	}

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.Duration("metricsRefresh", metrics.RefreshInterval()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	l.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	l.Info(ctx, "server stopped")
	return nil
}

// openStore opens the LevelDB store at the configured path. No path keeps
// all state in memory.
func openStore(cfg *config.Config) (repository.Store, error) {
	if cfg.StorePath == "" {
		return nil, nil
	}
	store, err := repository.NewLevelDBStore(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

// newAuthenticator builds the admin session guard from cfg.Auth.
func newAuthenticator(cfg *config.Config) (*auth.Authenticator, error) {
	if !cfg.Auth.Enabled {
		return auth.Disabled(), nil
	}
	a, err := auth.New(cfg.Auth.JWTSecret,
		auth.WithAdmin(cfg.Auth.AdminIdentifier, cfg.Auth.AdminPasswordHash),
		auth.WithTTL(time.Duration(cfg.Auth.SessionTTLHours)*time.Hour),
		auth.WithCookieName(cfg.Auth.CookieName),
		auth.WithSecureCookie(cfg.Auth.SecureCookie),
	)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}
	return a, nil
}

// metricsOptions maps cfg.Metrics onto the metrics manager.
func metricsOptions(cfg *config.Config) []metrics.Option {
	return []metrics.Option{
		metrics.WithMetricsEnabled(cfg.Metrics.Enabled),
		metrics.WithRefreshInterval(time.Duration(cfg.Metrics.RefreshSeconds) * time.Second),
		metrics.WithCustomLabels(cfg.Metrics.Labels),
		metrics.WithHistogramBuckets(cfg.Metrics.LatencyBuckets),
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
