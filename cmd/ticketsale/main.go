// Package main runs one ticket sale: a fixed inventory of tickets raced by concurrent buyers.
//
// Each buyer's outcome and the final totals are printed to stdout. Logs go to stderr.
// The exit status is 0 when the sale completed with a consistent final state and 1 otherwise.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/ticketsale-go/sale"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one sale and returns the process exit status.
func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args, getenv, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		slog.New(slog.NewTextHandler(stderr, nil)).Error("invalid configuration", "error", err)

		return exitUsage
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err = runSale(ctx, cfg, logger, stdout); err != nil {
		logger.Error("ticket sale failed", "engine", cfg.Engine, "error", err)
		return exitFatal
	}

	return exitOK
}

func runSale(ctx context.Context, cfg Config, logger *slog.Logger, stdout io.Writer) error {
	runID, err := uuid.NewV7()
	if err != nil {
		return err
	}

	var obs ObservabilityConfig
	if cfg.ObservabilityEnabled {
		if obs, err = newObservabilityConfig(ctx); err != nil {
			return err
		}
		defer func() {
			if shutdownErr := obs.Shutdown(); shutdownErr != nil {
				logger.Warn("observability shutdown failed", "error", shutdownErr)
			}
		}()
	}

	eng, err := newEngine(ctx, cfg, runID, logger)
	if err != nil {
		return err
	}
	defer func() {
		// the inventory is discarded even when the run was interrupted
		if closeErr := eng.close(context.WithoutCancel(ctx)); closeErr != nil {
			logger.Warn("discarding the inventory failed", "run_id", runID.String(), "error", closeErr)
		}
	}()

	counter, err := withObservability(eng.counter, cfg.Engine, obs)
	if err != nil {
		return err
	}

	options := []sale.Option{
		sale.WithRunID(runID),
		sale.WithEngineName(cfg.Engine),
		sale.WithBuyerCount(cfg.Buyers),
		sale.WithReportWriter(stdout),
		sale.WithLogger(logger),
	}
	if obs.ContextualLogger != nil {
		options = append(options, sale.WithContextualLogger(obs.ContextualLogger))
	}
	if obs.MetricsCollector != nil {
		options = append(options, sale.WithMetrics(obs.MetricsCollector))
	}
	if obs.TracingCollector != nil {
		options = append(options, sale.WithTracing(obs.TracingCollector))
	}

	s, err := sale.NewSale(counter, options...)
	if err != nil {
		return err
	}

	summary, err := s.Run(ctx)
	if err != nil {
		return err
	}

	if cfg.SummaryFile != "" {
		return writeSummary(cfg.SummaryFile, summary)
	}

	return nil
}

func writeSummary(path string, summary sale.Summary) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	return summary.WriteJSON(f)
}
