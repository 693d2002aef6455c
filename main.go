package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"golang.org/x/sync/errgroup"

	"github.com/artie-labs/bulkload/lib/config"
	"github.com/artie-labs/bulkload/lib/destination/utils"
	"github.com/artie-labs/bulkload/lib/importer"
	"github.com/artie-labs/bulkload/lib/importerr"
	"github.com/artie-labs/bulkload/lib/logger"
	"github.com/artie-labs/bulkload/lib/telemetry/metrics"
	"github.com/artie-labs/bulkload/lib/telemetry/metrics/base"
)

func main() {
	// Parse args into settings.
	settings, err := config.LoadSettings(os.Args, true)
	if err != nil {
		logger.Fatal("Failed to load settings", slog.Any("err", err))
	}

	// Initialize default logger
	_logger, usingSentry := logger.NewLogger(settings)
	slog.SetDefault(_logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, settings)
	stop()

	if usingSentry {
		sentry.Flush(2 * time.Second)
	}

	if err != nil {
		logger.Fatal("Failed to run imports", slog.Any("err", err))
	}
}

func run(ctx context.Context, settings *config.Settings) error {
	imports, err := settings.Config.SelectImports(settings.Tables)
	if err != nil {
		return err
	}

	metricsClient := metrics.LoadExporter(settings.Config)
	clients, err := utils.LoadClients(ctx, settings.Config)
	if err != nil {
		return err
	}
	defer clients.Close()

	slog.Info("Config is loaded",
		slog.String("output", string(settings.Config.Output)),
		slog.Int("imports", len(imports)),
		slog.Int("parallelImports", settings.Config.ParallelImports),
	)

	// A failed import does not cancel the others.
	var group errgroup.Group
	group.SetLimit(settings.Config.ParallelImports)
	for _, job := range imports {
		group.Go(func() error {
			return runImport(ctx, settings.Config, clients, metricsClient, job)
		})
	}

	return group.Wait()
}

func runImport(ctx context.Context, cfg config.Config, clients utils.Clients, metricsClient base.Client, job config.Import) error {
	dest, err := utils.Load(ctx, cfg, clients)
	if err != nil {
		return fmt.Errorf("failed to connect for %s: %w", job.Table, err)
	}
	defer dest.Close()

	spec := importer.SpecFromConfig(job)
	result, err := importer.NewEngine(dest, clients.Blobs, metricsClient).Import(ctx, spec)
	if err != nil {
		kind := importerr.KindOf(err)
		slog.Error("Import failed",
			slog.String("table", spec.String()),
			slog.String("kind", kind.String()),
			slog.Bool("validation", kind.IsValidation()),
			slog.Any("err", err),
		)
		return fmt.Errorf("failed to import %s: %w", spec, err)
	}

	for _, warnings := range result.Warnings {
		slog.Warn("File was loaded with warnings",
			slog.String("table", spec.String()),
			slog.String("file", warnings.File),
			slog.Int("count", len(warnings.Rows)),
			slog.Any("first", warnings.Rows[0]),
		)
	}

	for _, timer := range result.Timers {
		slog.Debug("Phase finished", slog.String("table", spec.String()), slog.String("phase", timer.Name), slog.Duration("duration", timer.Duration))
	}

	return nil
}
