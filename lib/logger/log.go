package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"

	"github.com/artie-labs/csvload/lib/config"
)

const sentryFlushTimeout = 2 * time.Second

func NewLogger(settings *config.Settings) (*slog.Logger, bool) {
	logLevel := slog.LevelInfo
	if settings != nil && settings.VerboseLogging {
		logLevel = slog.LevelDebug
	}

	var handler slog.Handler = tint.NewHandler(os.Stderr, &tint.Options{
		Level:   logLevel,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	})

	var loggingToSentry bool
	if settings != nil && settings.Config.Reporting.Sentry != nil && settings.Config.Reporting.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: settings.Config.Reporting.Sentry.DSN}); err != nil {
			slog.New(handler).Warn("Failed to enable Sentry output", slog.Any("err", err))
		} else {
			handler = slogmulti.Fanout(
				handler,
				slogsentry.Option{Level: slog.LevelError}.NewSentryHandler(),
			)
			loggingToSentry = true
		}
	}

	return slog.New(handler), loggingToSentry
}

// Fatal logs at error level, flushes any buffered Sentry events and exits with status 1.
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	sentry.Flush(sentryFlushTimeout)
	os.Exit(1)
}
