package metrics

import (
	"context"
	"log/slog"

	"github.com/artie-labs/csvload/lib/config"
	"github.com/artie-labs/csvload/lib/config/constants"
	"github.com/artie-labs/csvload/lib/telemetry/metrics/base"
	"github.com/artie-labs/csvload/lib/telemetry/metrics/datadog"
)

type contextKey struct{}

func InjectMetricsClientIntoCtx(ctx context.Context, metricsClient base.Client) context.Context {
	return context.WithValue(ctx, contextKey{}, metricsClient)
}

func FromContext(ctx context.Context) base.Client {
	metricsClient, isOk := ctx.Value(contextKey{}).(base.Client)
	if !isOk || metricsClient == nil {
		return NullMetricsProvider{}
	}

	return metricsClient
}

// LoadExporter injects the configured metrics client into the context. Failing to create one is not fatal.
func LoadExporter(ctx context.Context, cfg config.Config) context.Context {
	kind := cfg.Telemetry.Metrics.Provider
	switch kind {
	case "":
		return ctx
	case constants.Datadog:
		client, err := datadog.NewDatadogClient(cfg.Telemetry.Metrics.Settings)
		if err != nil {
			slog.Warn("Failed to create datadog client, metrics will not be emitted", slog.Any("err", err))
			return ctx
		}

		slog.Info("Metrics client is loaded", slog.String("provider", string(kind)))
		return InjectMetricsClientIntoCtx(ctx, client)
	default:
		slog.Warn("Unsupported metrics provider, metrics will not be emitted", slog.String("provider", string(kind)))
		return ctx
	}
}
