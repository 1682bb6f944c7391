package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	httpin "orderengine/internal/adapters/in/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// NewRootCommand builds the orderengine CLI. Every subcommand loads its
// configuration through LoadConfig; --config names an optional YAML file.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	var configFile string

	root := &cobra.Command{
		Use:           "orderengine",
		Short:         "Food delivery order lifecycle engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().String("catalog", "", "tariff, promotion, incentive and menu file")
	root.PersistentFlags().String("store", "", "order store: memory or postgres")
	_ = v.BindPFlag("catalog_path", root.PersistentFlags().Lookup("catalog"))
	_ = v.BindPFlag("store", root.PersistentFlags().Lookup("store"))

	load := func() (Config, *slog.Logger, error) {
		cfg, err := LoadConfig(v, configFile)
		if err != nil {
			return Config{}, nil, err
		}
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
		return cfg, logger, nil
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background jobs",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			return Serve(c.Context(), cfg, logger)
		},
	}
	serve.Flags().String("port", "", "HTTP port")
	_ = v.BindPFlag("http_port", serve.Flags().Lookup("port"))

	var seedMenu bool
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			return Migrate(c.Context(), cfg, logger, seedMenu)
		},
	}
	migrate.Flags().BoolVar(&seedMenu, "seed-menu", false, "upsert the catalog's menu section")

	var expire bool
	relay := &cobra.Command{
		Use:   "relay",
		Short: "Drain the notification outbox once and exit",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			return Relay(c.Context(), cfg, logger, expire)
		},
	}
	relay.Flags().BoolVar(&expire, "expire", false, "expire unpaid orders before relaying")

	root.AddCommand(serve, migrate, relay)
	return root
}

// Serve runs the HTTP server and the jobs until ctx is cancelled or the
// server fails, then shuts both down.
func Serve(ctx context.Context, cfg Config, logger *slog.Logger) error {
	shutdownTracing, err := InitTracing(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	app, err := NewCompositionRoot(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("Closing resources failed", "error", err)
		}
	}()
	if cfg.Store == StorePostgres {
		if err = app.Migrate(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	e, err := httpin.NewRouter(ctx, app.CreateHTTPServer(), logger)
	if err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("Shutting down HTTP server")
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func Migrate(ctx context.Context, cfg Config, logger *slog.Logger, seedMenu bool) error {
	if cfg.Store != StorePostgres {
		return errors.New("migrate needs the postgres store")
	}
	app, err := NewCompositionRoot(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	if err = app.Migrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("Schema migrated")

	if seedMenu {
		n, err := app.SeedMenu(ctx)
		if err != nil {
			return err
		}
		logger.Info("Menu seeded", "items", n)
	}
	return nil
}

// Relay publishes outbox batches until one comes back empty.
func Relay(ctx context.Context, cfg Config, logger *slog.Logger, expire bool) error {
	app, err := NewCompositionRoot(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	jobManager := app.CreateJobManager()
	if expire {
		expired, err := jobManager.ExpiryJob().RunOnce(ctx)
		if err != nil {
			return err
		}
		logger.Info("Unpaid orders expired", "count", expired)
	}

	start := time.Now()
	total := 0
	for {
		published, err := jobManager.RelayJob().RunOnce(ctx)
		if err != nil {
			return err
		}
		if published == 0 {
			break
		}
		total += published
	}
	logger.Info("Outbox drained", "published", total, "elapsed", time.Since(start))
	return nil
}
