package main

import (
	"context"
	"fmt"
	"time"

	"graphfacade/internal/config"
	"graphfacade/internal/graph"
	"graphfacade/internal/logging"
	"graphfacade/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// app carries what the commands share. Tests preset ops to skip backend
// construction.
type app struct {
	configPath string
	backend    string
	logLevel   string

	cfg      config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	tracer   *sdktrace.TracerProvider

	ops   graph.Operations
	close func() error
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "graphfacade",
		Short:         "Vendor-neutral graph database facade",
		Long:          `Create node and edge schemas, create and fetch nodes and edges, and load JSONL request batches against Neo4j, SQLite or an in-memory graph.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.shutdown()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.backend, "backend", "", "backend: neo4j, sqlite or memory (overrides config)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")

	root.AddCommand(
		newSchemaCmd(a),
		newEdgeSchemaCmd(a),
		newNodeCmd(a),
		newEdgeCmd(a),
		newLoadCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadEnv(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Backend = a.backend
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.ops == nil {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	if a.logger == nil {
		if a.logger, err = logging.New(cfg.Log); err != nil {
			return err
		}
	}
	if a.registry == nil {
		a.registry = prometheus.NewRegistry()
	}
	if cfg.Tracing.Enabled && a.tracer == nil {
		tp, err := telemetry.NewTracerProvider(cmd.Context(), cfg.Tracing)
		if err != nil {
			return err
		}
		otel.SetTracerProvider(tp)
		a.tracer = tp
		a.logger.Debug("tracing enabled", zap.String("endpoint", cfg.Tracing.Endpoint))
	}
	return nil
}

// operations opens the configured backend on first use.
func (a *app) operations(cmd *cobra.Command) (graph.Operations, error) {
	if a.ops != nil {
		return a.ops, nil
	}
	ops, closeFn, err := openBackend(cmd.Context(), a.cfg, a.logger, a.registry)
	if err != nil {
		return nil, err
	}
	a.ops, a.close = ops, closeFn
	return ops, nil
}

func (a *app) shutdown() error {
	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.tracer.Shutdown(ctx); err != nil && a.logger != nil {
			a.logger.Warn("failed to flush spans", zap.Error(err))
		}
		cancel()
		a.tracer = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.close == nil {
		return nil
	}
	closeFn := a.close
	a.close = nil
	return closeFn()
}
