package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/MikhailRaia/shortify/internal/app"
	"github.com/MikhailRaia/shortify/internal/config"
	"github.com/MikhailRaia/shortify/internal/logger"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(2)
	}

	if err := logger.InitLogger(cfg.LogLevel); err != nil {
		log.Error().Err(err).Msg("Failed to initialize logger")
		os.Exit(1)
	}

	flush, err := logger.InitSentry(cfg.SentryDSN)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize Sentry")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create application")
		stop()
		flush()
		os.Exit(1)
	}

	err = application.Run(ctx)
	stop()
	flush()
	if err != nil {
		log.Error().Err(err).Msg("Error running application")
		os.Exit(1)
	}
}
