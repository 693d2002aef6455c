package logger

import (
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"

	"github.com/artie-labs/bulkload/lib/config"
)

// NewLogger writes to stderr and, when a Sentry DSN is configured, also reports errors to Sentry.
func NewLogger(settings *config.Settings) (*slog.Logger, bool) {
	tintLogLevel := slog.LevelInfo
	if settings != nil && settings.VerboseLogging {
		tintLogLevel = slog.LevelDebug
	}

	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:   tintLogLevel,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	})

	var loggingToSentry bool
	if dsn := sentryDSN(settings); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
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

func sentryDSN(settings *config.Settings) string {
	if settings == nil || settings.Config.Reporting.Sentry == nil {
		return ""
	}
	return settings.Config.Reporting.Sentry.DSN
}

func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}
