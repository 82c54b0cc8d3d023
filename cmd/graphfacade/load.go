package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"graphfacade/internal/ingest"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newLoadCmd(a *app) *cobra.Command {
	var (
		workers     int
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "load FILE",
		Short: "Apply a JSONL batch of create requests ('-' reads stdin)",
		Long: `Apply a JSONL batch of create requests. Each line is one of:

  {"kind":"node_schema","name":"Person","property_keys":{"name":"STRING","age":"INT"}}
  {"kind":"edge_schema","name":"KNOWS","source":"Person","target":"Person"}
  {"kind":"node","id":"alice","schema":"Person","properties":{"name":"Alice","age":30}}
  {"kind":"edge","id":"e1","schema":"KNOWS","source":"alice","target":"bob"}

Node schemas are applied first, then edge schemas, nodes and edges. Rejected
records are reported and do not stop the batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open batch: %w", err)
				}
				defer f.Close()
				in = f
			}

			if cmd.Flags().Changed("metrics-addr") {
				a.cfg.Metrics.Addr = metricsAddr
			}
			if a.cfg.Metrics.Addr != "" {
				stop := a.serveMetrics(a.cfg.Metrics.Addr)
				defer stop()
			}

			ops, err := a.operations(cmd)
			if err != nil {
				return err
			}

			start := time.Now()
			loader := ingest.NewLoader(ops, ingest.WithWorkers(workers), ingest.WithLogger(a.logger))
			stats, err := loader.LoadReader(cmd.Context(), in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "node schemas: %d, edge schemas: %d, nodes: %d, edges: %d in %v\n",
				stats.NodeSchemas, stats.EdgeSchemas, stats.Nodes, stats.Edges, time.Since(start).Round(time.Millisecond))
			for _, f := range stats.Failures {
				fmt.Fprintln(out, f)
			}
			if len(stats.Failures) > 0 {
				return fmt.Errorf("%d records failed", len(stats.Failures))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 4, "number of workers for nodes and edges")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while loading")
	return cmd
}

// serveMetrics exposes the registry on addr until the returned func is called.
func (a *app) serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	a.logger.Info("serving metrics", zap.String("addr", addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}
