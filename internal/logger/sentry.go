package logger

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SentryFlushTimeout bounds the flush on shutdown.
const SentryFlushTimeout = 2 * time.Second

// SentryHook forwards error-level log events to Sentry.
type SentryHook struct {
	hub *sentry.Hub
}

// NewSentryHook creates a hook reporting through hub.
func NewSentryHook(hub *sentry.Hub) SentryHook {
	return SentryHook{hub: hub}
}

// Run implements zerolog.Hook.
func (h SentryHook) Run(_ *zerolog.Event, level zerolog.Level, msg string) {
	if level < zerolog.ErrorLevel || level == zerolog.NoLevel || msg == "" {
		return
	}

	h.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentryLevel(level))
		h.hub.CaptureMessage(msg)
	})
}

func sentryLevel(level zerolog.Level) sentry.Level {
	switch level {
	case zerolog.FatalLevel:
		return sentry.LevelFatal
	case zerolog.PanicLevel:
		return sentry.LevelFatal
	default:
		return sentry.LevelError
	}
}

// InitSentry configures Sentry and hooks it into the global logger.
// With an empty dsn it does nothing. The returned func flushes pending events.
func InitSentry(dsn string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
		return nil, fmt.Errorf("failed to init sentry: %w", err)
	}

	log.Logger = log.Logger.Hook(NewSentryHook(sentry.CurrentHub()))
	log.Info().Msg("Sentry error reporting enabled")

	return func() { sentry.Flush(SentryFlushTimeout) }, nil
}
