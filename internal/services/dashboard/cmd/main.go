package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/LeonardoBeccarini/cultiverse/internal/services/dashboard"
	"github.com/LeonardoBeccarini/cultiverse/internal/twin"
	"github.com/LeonardoBeccarini/cultiverse/pkg/rabbitmq"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(newViper())
}

// newRootCmdWith binds the command's flags to v.
func newRootCmdWith(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "dashboard",
		Short:        "Serve the Cultiverse farm dashboard",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("http-addr", defaults["HTTP_ADDR"], "HTTP listen address (env HTTP_ADDR)")
	flags.String("grpc-addr", defaults["GRPC_ADDR"], "gRPC listen address, empty to disable (env GRPC_ADDR)")
	flags.String("catalog", "", "YAML farm catalog, built-in demo farm when empty (env CATALOG_PATH)")
	flags.String("trend-variant", defaults["TREND_VARIANT"], "trend formula variant: canonical or panel (env TREND_VARIANT)")
	flags.String("log-level", defaults["LOG_LEVEL"], "debug, info, warn or error (env LOG_LEVEL)")
	for key, flag := range map[string]string{
		"HTTP_ADDR":     "http-addr",
		"GRPC_ADDR":     "grpc-addr",
		"CATALOG_PATH":  "catalog",
		"TREND_VARIANT": "trend-variant",
		"LOG_LEVEL":     "log-level",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	return cmd
}

func newLogger(cfg Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           cfg.LogLevel,
		Prefix:          "dashboard",
	})
	if cfg.LogFormat == "json" {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger
}

func run(ctx context.Context, cfg Config) error {
	logger := newLogger(cfg)
	log.SetDefault(logger)

	catalog := twin.DefaultCatalog()
	if cfg.CatalogPath != "" {
		c, err := twin.LoadCatalogFile(cfg.CatalogPath)
		if err != nil {
			return fmt.Errorf("CATALOG_PATH: %w", err)
		}
		catalog = c
		logger.Info("Loaded farm catalog", "path", cfg.CatalogPath, "zones", len(c.Zones))
	}

	d, err := dashboard.NewDashboard(dashboard.Config{
		Catalog: catalog,
		Variant: cfg.TrendVariant,
		Metrics: dashboard.NewMetrics(),
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	// Bind everything that can fail before any goroutine starts.
	var lis net.Listener
	if cfg.GRPCAddr != "" {
		if lis, err = net.Listen("tcp", cfg.GRPCAddr); err != nil {
			return fmt.Errorf("listen %s: %w", cfg.GRPCAddr, err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.MQTTEnabled {
		hooks := rabbitmq.NewConnectionHooks()
		cfg.MQTT.Hooks = hooks
		client, err := rabbitmq.NewRabbitMQConn(ctx, &cfg.MQTT)
		if err != nil {
			if lis != nil {
				_ = lis.Close()
			}
			return err
		}
		b := d.EnableBroadcast(client, dashboard.BroadcastConfig{
			Topic:           cfg.SelectionTopic,
			BreakerFailures: cfg.BreakerFailures,
			BreakerOpenFor:  cfg.BreakerOpenFor,
			DedupTTL:        cfg.DedupTTL,
			Hooks:           hooks,
		})
		logger.Info("Selection broadcast enabled", "topic", cfg.SelectionTopic, "origin", b.Origin())
		g.Go(func() error { return b.Run(ctx) })
	}

	srv := dashboard.NewServer(cfg.HTTPAddr, d)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if lis != nil {
		gs, hs := dashboard.NewGRPCServer(d)
		g.Go(func() error {
			logger.Info("gRPC server starting", "addr", cfg.GRPCAddr)
			return gs.Serve(lis)
		})
		g.Go(func() error {
			<-ctx.Done()
			hs.Shutdown()
			done := make(chan struct{})
			go func() {
				gs.GracefulStop()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(cfg.ShutdownTimeout):
				gs.Stop()
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Stopped")
	return nil
}
