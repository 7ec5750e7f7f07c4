package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MikhailRaia/shortify/internal/auth"
	"github.com/MikhailRaia/shortify/internal/client"
	"github.com/MikhailRaia/shortify/internal/clipboard"
	"github.com/MikhailRaia/shortify/internal/config"
	"github.com/MikhailRaia/shortify/internal/handler"
	"github.com/MikhailRaia/shortify/internal/history"
	"github.com/MikhailRaia/shortify/internal/middleware"
	"github.com/MikhailRaia/shortify/internal/service"
	"github.com/MikhailRaia/shortify/internal/session"
	"github.com/MikhailRaia/shortify/internal/storage"
	"github.com/MikhailRaia/shortify/internal/storage/file"
	"github.com/MikhailRaia/shortify/internal/storage/memory"
	"github.com/MikhailRaia/shortify/internal/storage/postgres"
	"github.com/MikhailRaia/shortify/internal/storage/redis"
	"github.com/MikhailRaia/shortify/internal/ui"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	maxCleanupPeriod  = time.Minute
)

type App struct {
	config   *config.Config
	store    storage.Store
	registry *session.Registry
	handler  http.Handler
}

// NewApp opens the history storage and wires every component of the page.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return newApp(cfg, store, newClipboard(cfg.ClipboardBackend)), nil
}

func newApp(cfg *config.Config, store storage.Store, clip ui.Clipboard) *App {
	apiClient := client.New(cfg.APIBaseURL, client.WithTimeout(cfg.RequestTimeout))
	linkService := service.NewLinkService(apiClient, cfg.Origin)

	registry := session.NewRegistry(func(clientID string) *ui.Controller {
		h := history.New(store, history.Key(clientID), history.WithLimit(cfg.HistoryLimit))
		return ui.NewController(apiClient, h, clip, cfg.Origin, ui.WithToastDelay(cfg.ToastDelay))
	}, cfg.SessionTTL)

	jwtService := auth.NewJWTService(cfg.SessionSecret, 0)
	httpHandler := handler.NewHandler(
		registry,
		linkService,
		store,
		middleware.NewAuthMiddleware(jwtService),
		handler.WithToastDelay(cfg.ToastDelay),
	)

	log.Info().
		Str("api", apiClient.String()).
		Str("storage", cfg.StorageBackend).
		Str("clipboard", cfg.ClipboardBackend).
		Int("history_limit", cfg.HistoryLimit).
		Msg("Application configured")

	return &App{
		config:   cfg,
		store:    store,
		registry: registry,
		handler:  httpHandler.RegisterRoutes(),
	}
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		return memory.NewStorage(), nil
	case config.StorageFile:
		store, err := file.NewStorage(cfg.FileStoragePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open file storage: %w", err)
		}
		return store, nil
	case config.StorageRedis:
		store, err := redis.Connect(ctx, cfg.RedisAddr, "", 0)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store, nil
	case config.StoragePostgres:
		store, err := postgres.NewStorage(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// newClipboard returns the server-side clipboard used when the browser could
// not copy by itself.
func newClipboard(backend string) ui.Clipboard {
	if backend == config.ClipboardMemory {
		return clipboard.NewMemory()
	}
	if !clipboard.Available() {
		log.Warn().Msg("Host clipboard unavailable, falling back to memory clipboard")
		return clipboard.NewMemory()
	}
	return clipboard.NewSystem()
}

// Handler returns the HTTP handler of the application.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              a.config.ServerAddress,
		Handler:           a.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	stop := make(chan struct{})
	defer close(stop)
	go a.registry.CleanupLoop(cleanupPeriod(a.config.SessionTTL), stop)

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("address", a.config.ServerAddress).Str("origin", a.config.Origin).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			a.close()
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	a.close()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}

func (a *App) close() {
	a.registry.Close()
	if err := a.store.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close storage")
	}
}

func cleanupPeriod(ttl time.Duration) time.Duration {
	if ttl <= 0 || ttl > maxCleanupPeriod {
		return maxCleanupPeriod
	}
	return ttl
}
