package loader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/artie-labs/csvload/clients/snowflake"
	"github.com/artie-labs/csvload/clients/snowflake/dialect"
	"github.com/artie-labs/csvload/lib/config"
	"github.com/artie-labs/csvload/lib/config/constants"
	"github.com/artie-labs/csvload/lib/db"
	"github.com/artie-labs/csvload/lib/telemetry/metrics"
)

type Result struct {
	LoadID     string
	TableID    dialect.TableIdentifier
	RowsLoaded int64
	Duration   time.Duration
}

// Upload connects, prepares the table and loads the file into it. The session is always closed.
// [_store] is only passed in by tests.
func Upload(ctx context.Context, settings *config.Settings, _store *db.Store) (Result, error) {
	start := time.Now()
	loadID := uuid.NewString()
	tags := map[string]string{
		"database": settings.Database,
		"schema":   settings.Schema,
		"table":    snowflake.ResolveTableName(settings.Table, settings.File),
	}

	result, err := upload(ctx, settings, loadID, _store)
	result.LoadID = loadID
	result.Duration = time.Since(start)

	metricsClient := metrics.FromContext(ctx)
	metricsClient.Timing("load.duration", result.Duration, tags)
	if err != nil {
		metricsClient.Incr("load.error", tags)
		return result, err
	}

	metricsClient.Count("load.rows", result.RowsLoaded, tags)
	return result, nil
}

func upload(ctx context.Context, settings *config.Settings, loadID string, _store *db.Store) (Result, error) {
	store, err := snowflake.LoadSnowflake(ctx, settings.Config.Snowflake, constants.QueryTagPrefix+loadID, _store)
	if err != nil {
		return Result{}, err
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close the Snowflake session", slog.Any("err", closeErr))
		}
	}()

	dataset, tableID, err := store.PrepareTable(ctx, snowflake.PrepareTableArgs{
		Database:   settings.Database,
		Schema:     settings.Schema,
		Table:      settings.Table,
		File:       settings.File,
		ParseDates: settings.ParseDates,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to prepare table: %w", err)
	}

	rowsLoaded, err := store.LoadDataIntoTable(ctx, tableID, dataset)
	if err != nil {
		return Result{TableID: tableID}, fmt.Errorf("failed to load data into %s: %w", tableID.FullyQualifiedName(), err)
	}

	return Result{TableID: tableID, RowsLoaded: rowsLoaded}, nil
}
