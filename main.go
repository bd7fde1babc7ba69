package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/artie-labs/csvload/lib/config"
	"github.com/artie-labs/csvload/lib/logger"
	"github.com/artie-labs/csvload/lib/redact"
	"github.com/artie-labs/csvload/lib/telemetry/metrics"
	"github.com/artie-labs/csvload/processes/loader"
)

func main() {
	settings, err := config.LoadSettings(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}

		logger.Fatal("Failed to load settings", slog.String("err", redact.NewScrubber().ScrubError(err)))
	}

	// Initialize default logger
	_logger, usingSentry := logger.NewLogger(settings)
	slog.SetDefault(_logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Loading telemetry
	ctx = metrics.LoadExporter(ctx, settings.Config)
	defer func() {
		if flushErr := metrics.FromContext(ctx).Flush(); flushErr != nil {
			slog.Warn("Failed to flush metrics", slog.Any("err", flushErr))
		}
	}()

	slog.Info("Config is loaded",
		slog.String("snowflake", settings.Config.Snowflake.String()),
		slog.String("database", settings.Database),
		slog.String("schema", settings.Schema),
		slog.String("file", settings.File),
		slog.Bool("sentry", usingSentry),
	)

	result, err := loader.Upload(ctx, settings, nil)
	if err != nil {
		// Flush now, Fatal exits without running deferred calls.
		_ = metrics.FromContext(ctx).Flush()
		logger.Fatal("Failed to load file",
			slog.String("err", newScrubber(settings.Config.Snowflake).ScrubError(err)),
			slog.String("loadID", result.LoadID),
		)
	}

	slog.Info("Finished loading file",
		slog.String("table", result.TableID.FullyQualifiedName()),
		slog.Int64("rows", result.RowsLoaded),
		slog.Duration("duration", result.Duration),
		slog.String("loadID", result.LoadID),
	)
}

func newScrubber(cfg config.Snowflake) redact.Scrubber {
	secrets := []string{cfg.Password}
	if cfg.ExternalStage != nil {
		secrets = append(secrets, cfg.ExternalStage.AwsSecretAccessKey)
	}

	return redact.NewScrubber(secrets...)
}
